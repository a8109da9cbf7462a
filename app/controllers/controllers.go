// Package controllers holds the HTTP handlers. Controllers bind and
// validate input, call a service or repository, and write the JSON
// envelope; domain rules live below them.
package controllers

import (
	"errors"
	"net/http"

	"github.com/pentshop/pentshop/app/models"
	"github.com/pentshop/pentshop/app/repositories"
	"github.com/pentshop/pentshop/app/services"
	"github.com/pentshop/pentshop/pkg/logger"
	"github.com/pentshop/pentshop/pkg/response"
)

// fail maps a service or repository error onto the HTTP envelope.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, repositories.ErrDuplicate):
		response.Conflict(w, err.Error())
	case errors.Is(err, models.ErrInvalidTransition):
		response.Conflict(w, err.Error())
	case errors.Is(err, services.ErrValidation):
		response.Error(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		response.Error(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, services.ErrGateway):
		response.BadGateway(w, err.Error())
	default:
		logger.WithCtx(r.Context()).Error("request failed",
			"path", r.URL.Path, "error", err)
		response.Error(w, http.StatusInternalServerError, "Internal server error")
	}
}
