package controllers

import (
	"net/http"

	"github.com/pentshop/pentshop/app/models"
	"github.com/pentshop/pentshop/app/repositories"
	"github.com/pentshop/pentshop/pkg/bind"
	"github.com/pentshop/pentshop/pkg/response"
)

// SettingsController exposes the single shop settings document.
type SettingsController struct {
	settings *repositories.SettingsRepository
}

func NewSettingsController(settings *repositories.SettingsRepository) *SettingsController {
	return &SettingsController{settings: settings}
}

// Get handles GET /api/settings.
func (c *SettingsController) Get(w http.ResponseWriter, r *http.Request) {
	s, err := c.settings.Get(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, s)
}

// Update handles PUT /api/settings (admin).
func (c *SettingsController) Update(w http.ResponseWriter, r *http.Request) {
	var s models.Settings
	if errs, err := bind.JSON(r, &s); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	if err := c.settings.Save(r.Context(), &s); err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, s)
}
