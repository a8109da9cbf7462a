package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/pentshop/pentshop/app/jobs"
	"github.com/pentshop/pentshop/app/models"
	"github.com/pentshop/pentshop/app/repositories"
	"github.com/pentshop/pentshop/config"
	"github.com/pentshop/pentshop/pkg/auth"
	"github.com/pentshop/pentshop/pkg/logger"
	"github.com/pentshop/pentshop/pkg/queue"
)

// UserStore is the slice of the user repository the service needs.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateFields(ctx context.Context, email string, fields bson.M) error
	All(ctx context.Context) ([]models.User, error)
	Delete(ctx context.Context, email string) error
}

// AuthService handles signup, login and password resets.
type AuthService struct {
	users UserStore
}

func NewAuthService(users UserStore) *AuthService {
	return &AuthService{users: users}
}

// Signup creates an account with a bcrypt-hashed password and returns
// the user plus a signed token. A taken email surfaces as
// repositories.ErrDuplicate.
func (s *AuthService) Signup(ctx context.Context, name, email, password string) (*models.User, string, error) {
	user := &models.User{Name: name, Email: email}
	user.Normalize()

	if user.Name == "" {
		return nil, "", fmt.Errorf("%w: name is required", ErrValidation)
	}
	if !models.ValidEmail(user.Email) {
		return nil, "", fmt.Errorf("%w: email must be a valid email address", ErrValidation)
	}
	if len(password) < 6 {
		return nil, "", fmt.Errorf("%w: password must be at least 6 characters", ErrValidation)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("auth: hash password: %w", err)
	}
	user.Password = hash

	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", err
	}

	if err := queue.Dispatch(&jobs.SendWelcomeJob{Name: user.Name, Email: user.Email}); err != nil {
		logger.WithCtx(ctx).Error("auth: welcome dispatch failed", "email", user.Email, "error", err)
	}

	token, err := auth.GenerateToken(user.ID.Hex(), user.Email, user.Role)
	if err != nil {
		return nil, "", fmt.Errorf("auth: sign token: %w", err)
	}
	return user, token, nil
}

// Login verifies the password, stamps lastLogin and returns the user
// plus a signed token. Unknown emails and wrong passwords both come
// back as ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, "", ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", err
	}

	if !auth.CheckPassword(user.Password, password) {
		return nil, "", ErrInvalidCredentials
	}

	now := time.Now().UTC()
	if err := s.users.UpdateFields(ctx, user.Email, bson.M{"lastLogin": now}); err != nil {
		logger.WithCtx(ctx).Warn("auth: lastLogin update failed", "email", user.Email, "error", err)
	}
	user.LastLogin = &now

	token, err := auth.GenerateToken(user.ID.Hex(), user.Email, user.Role)
	if err != nil {
		return nil, "", fmt.Errorf("auth: sign token: %w", err)
	}
	return user, token, nil
}

// VerifyEmail reports whether an account exists for the address.
// Backs the forgot-password flow's first step.
func (s *AuthService) VerifyEmail(ctx context.Context, email string) (bool, error) {
	_, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, repositories.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ResetPassword replaces the stored hash and mails a confirmation.
func (s *AuthService) ResetPassword(ctx context.Context, email, newPassword string) error {
	if len(newPassword) < 6 {
		return fmt.Errorf("%w: password must be at least 6 characters", ErrValidation)
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("auth: hash password: %w", err)
	}

	now := time.Now().UTC()
	err = s.users.UpdateFields(ctx, user.Email, bson.M{
		"password":        hash,
		"passwordResetAt": now,
	})
	if err != nil {
		return err
	}

	if err := queue.Dispatch(&jobs.SendPasswordResetJob{Name: user.Name, Email: user.Email}); err != nil {
		logger.WithCtx(ctx).Error("auth: reset dispatch failed", "email", user.Email, "error", err)
	}
	return nil
}

// Profile returns the account behind an email address.
func (s *AuthService) Profile(ctx context.Context, email string) (*models.User, error) {
	return s.users.FindByEmail(ctx, email)
}

// UpdateProfile renames the account and returns the fresh document.
func (s *AuthService) UpdateProfile(ctx context.Context, email, name string) (*models.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}

	err := s.users.UpdateFields(ctx, email, bson.M{
		"name":      name,
		"updatedAt": time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}
	return s.users.FindByEmail(ctx, email)
}

// ListUsers returns every account. Password hashes never serialise.
func (s *AuthService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.users.All(ctx)
}

// DeleteUser removes the account for an email address.
func (s *AuthService) DeleteUser(ctx context.Context, email string) error {
	return s.users.Delete(ctx, email)
}

// EnsureAdmin seeds the configured admin account on boot when it does
// not exist yet. Seeding is disabled until both ADMIN_EMAIL and
// ADMIN_PASSWORD are set.
func (s *AuthService) EnsureAdmin(ctx context.Context) error {
	email := config.AdminEmail()
	if email == "" || config.AdminPassword() == "" {
		return nil
	}

	_, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return err
	}

	hash, err := auth.HashPassword(config.AdminPassword())
	if err != nil {
		return fmt.Errorf("auth: hash admin password: %w", err)
	}

	admin := &models.User{
		Name:     "Administrator",
		Email:    email,
		Password: hash,
		Role:     "admin",
	}
	admin.Normalize()

	if err := s.users.Create(ctx, admin); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil
		}
		return err
	}
	logger.Info("auth: admin account seeded", "email", email)
	return nil
}
