package controllers

import (
	"net/http"
	"strings"

	"github.com/pentshop/pentshop/app/models"
	"github.com/pentshop/pentshop/app/repositories"
	"github.com/pentshop/pentshop/pkg/bind"
	"github.com/pentshop/pentshop/pkg/response"
)

// SubmissionController receives prayer requests, testimonies and
// counselling requests from the public site.
type SubmissionController struct {
	submissions *repositories.SubmissionRepository
}

func NewSubmissionController(submissions *repositories.SubmissionRepository) *SubmissionController {
	return &SubmissionController{submissions: submissions}
}

// Create handles POST /api/spiritual-submissions.
func (c *SubmissionController) Create(w http.ResponseWriter, r *http.Request) {
	var sub models.Submission
	if errs, err := bind.JSON(r, &sub); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	sub.Name = strings.TrimSpace(sub.Name)
	sub.Message = strings.TrimSpace(sub.Message)
	if sub.Message == "" {
		response.Error(w, http.StatusUnprocessableEntity, "message is required")
		return
	}

	if err := c.submissions.Create(r.Context(), &sub); err != nil {
		fail(w, r, err)
		return
	}
	response.Created(w, sub)
}

// List handles GET /api/spiritual-submissions (admin).
func (c *SubmissionController) List(w http.ResponseWriter, r *http.Request) {
	subs, err := c.submissions.All(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, subs)
}
