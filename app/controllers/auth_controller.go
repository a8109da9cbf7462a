package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pentshop/pentshop/app/models"
	"github.com/pentshop/pentshop/app/services"
	"github.com/pentshop/pentshop/pkg/bind"
	"github.com/pentshop/pentshop/pkg/middleware"
	"github.com/pentshop/pentshop/pkg/response"
)

type AuthController struct {
	service *services.AuthService
}

func NewAuthController(service *services.AuthService) *AuthController {
	return &AuthController{service: service}
}

// Signup handles POST /api/auth/signup.
func (c *AuthController) Signup(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name     string `json:"name" validate:"required"`
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=6"`
	}
	if errs, err := bind.JSON(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	user, token, err := c.service.Signup(r.Context(), body.Name, body.Email, body.Password)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Created(w, map[string]interface{}{"user": user, "token": token})
}

// Login handles POST /api/auth/login.
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}
	if errs, err := bind.JSON(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	user, token, err := c.service.Login(r.Context(), body.Email, body.Password)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, map[string]interface{}{"user": user, "token": token})
}

// VerifyEmail handles POST /api/auth/verify-email, the first step of
// the forgot-password flow.
func (c *AuthController) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email" validate:"required,email"`
	}
	if errs, err := bind.JSON(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	exists, err := c.service.VerifyEmail(r.Context(), body.Email)
	if err != nil {
		fail(w, r, err)
		return
	}
	if !exists {
		response.NotFound(w, "No account found for that email")
		return
	}
	response.Success(w, map[string]bool{"exists": true})
}

// ResetPassword handles POST /api/auth/reset-password.
func (c *AuthController) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=6"`
	}
	if errs, err := bind.JSON(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	if err := c.service.ResetPassword(r.Context(), body.Email, body.Password); err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, map[string]string{"message": "Password reset successfully"})
}

// Me handles GET /api/auth/me for an authenticated user.
func (c *AuthController) Me(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromCtx(r.Context())
	if claims == nil {
		response.Unauthorized(w)
		return
	}

	user, err := c.service.Profile(r.Context(), claims.Email)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, user)
}

// UpdateMe handles PUT /api/auth/me.
func (c *AuthController) UpdateMe(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromCtx(r.Context())
	if claims == nil {
		response.Unauthorized(w)
		return
	}

	var body struct {
		Name string `json:"name" validate:"required"`
	}
	if errs, err := bind.JSON(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	user, err := c.service.UpdateProfile(r.Context(), claims.Email, body.Name)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, user)
}

// Users handles GET /api/users for admins.
func (c *AuthController) Users(w http.ResponseWriter, r *http.Request) {
	users, err := c.service.ListUsers(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, users)
}

// DeleteUser handles DELETE /api/users/{email} for admins.
func (c *AuthController) DeleteUser(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")
	if !models.ValidEmail(email) {
		response.Error(w, http.StatusBadRequest, "A valid email address is required")
		return
	}

	if err := c.service.DeleteUser(r.Context(), email); err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, map[string]string{"message": "User deleted"})
}
