package services_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/pentshop/pentshop/app/models"
	"github.com/pentshop/pentshop/app/repositories"
	"github.com/pentshop/pentshop/app/services"
	"github.com/pentshop/pentshop/pkg/auth"
)

type fakeUserStore struct {
	byEmail map[string]*models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byEmail: map[string]*models.User{}}
}

func (f *fakeUserStore) Create(_ context.Context, u *models.User) error {
	if _, exists := f.byEmail[u.Email]; exists {
		return fmt.Errorf("user %q: %w", u.Email, repositories.ErrDuplicate)
	}
	cp := *u
	f.byEmail[u.Email] = &cp
	return nil
}

func (f *fakeUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	if u, ok := f.byEmail[email]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, fmt.Errorf("user %q: %w", email, repositories.ErrNotFound)
}

func (f *fakeUserStore) UpdateFields(_ context.Context, email string, fields bson.M) error {
	u, ok := f.byEmail[email]
	if !ok {
		return fmt.Errorf("user %q: %w", email, repositories.ErrNotFound)
	}
	if pw, ok := fields["password"].(string); ok {
		u.Password = pw
	}
	if name, ok := fields["name"].(string); ok {
		u.Name = name
	}
	return nil
}

func (f *fakeUserStore) All(_ context.Context) ([]models.User, error) {
	out := []models.User{}
	for _, u := range f.byEmail {
		out = append(out, *u)
	}
	return out, nil
}

func (f *fakeUserStore) Delete(_ context.Context, email string) error {
	if _, ok := f.byEmail[email]; !ok {
		return fmt.Errorf("user %q: %w", email, repositories.ErrNotFound)
	}
	delete(f.byEmail, email)
	return nil
}

func TestSignupAndLogin(t *testing.T) {
	store := newFakeUserStore()
	svc := services.NewAuthService(store)

	user, token, err := svc.Signup(context.Background(), "Grace Mensah", "Grace@Church.ORG", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "grace@church.org", user.Email, "emails are normalised")
	assert.NotEqual(t, "secret123", user.Password, "password is stored hashed")
	require.NotEmpty(t, token)

	claims, err := auth.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "grace@church.org", claims.Email)

	_, token, err = svc.Login(context.Background(), "grace@church.org", "secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestSignupDuplicateEmail(t *testing.T) {
	svc := services.NewAuthService(newFakeUserStore())

	_, _, err := svc.Signup(context.Background(), "Grace", "grace@church.org", "secret123")
	require.NoError(t, err)

	_, _, err = svc.Signup(context.Background(), "Other Grace", "grace@church.org", "different1")
	assert.ErrorIs(t, err, repositories.ErrDuplicate)
}

func TestSignupValidation(t *testing.T) {
	svc := services.NewAuthService(newFakeUserStore())

	_, _, err := svc.Signup(context.Background(), "", "grace@church.org", "secret123")
	assert.ErrorIs(t, err, services.ErrValidation)

	_, _, err = svc.Signup(context.Background(), "Grace", "not-an-email", "secret123")
	assert.ErrorIs(t, err, services.ErrValidation)

	_, _, err = svc.Signup(context.Background(), "Grace", "grace@church.org", "short")
	assert.ErrorIs(t, err, services.ErrValidation)
}

func TestLoginWrongPassword(t *testing.T) {
	svc := services.NewAuthService(newFakeUserStore())
	_, _, err := svc.Signup(context.Background(), "Grace", "grace@church.org", "secret123")
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), "grace@church.org", "wrongpass")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)

	_, _, err = svc.Login(context.Background(), "nobody@church.org", "secret123")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
}

func TestVerifyEmail(t *testing.T) {
	svc := services.NewAuthService(newFakeUserStore())
	_, _, err := svc.Signup(context.Background(), "Grace", "grace@church.org", "secret123")
	require.NoError(t, err)

	exists, err := svc.VerifyEmail(context.Background(), "grace@church.org")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = svc.VerifyEmail(context.Background(), "nobody@church.org")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestUpdateProfile(t *testing.T) {
	svc := services.NewAuthService(newFakeUserStore())
	_, _, err := svc.Signup(context.Background(), "Grace", "grace@church.org", "secret123")
	require.NoError(t, err)

	user, err := svc.UpdateProfile(context.Background(), "grace@church.org", "  Grace Mensah  ")
	require.NoError(t, err)
	assert.Equal(t, "Grace Mensah", user.Name)

	_, err = svc.UpdateProfile(context.Background(), "grace@church.org", "   ")
	assert.ErrorIs(t, err, services.ErrValidation)
}

func TestListAndDeleteUsers(t *testing.T) {
	svc := services.NewAuthService(newFakeUserStore())
	_, _, err := svc.Signup(context.Background(), "Grace", "grace@church.org", "secret123")
	require.NoError(t, err)
	_, _, err = svc.Signup(context.Background(), "Kwame", "kwame@church.org", "secret456")
	require.NoError(t, err)

	users, err := svc.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 2)

	require.NoError(t, svc.DeleteUser(context.Background(), "kwame@church.org"))
	assert.ErrorIs(t, svc.DeleteUser(context.Background(), "kwame@church.org"), repositories.ErrNotFound)

	users, err = svc.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestResetPassword(t *testing.T) {
	store := newFakeUserStore()
	svc := services.NewAuthService(store)
	_, _, err := svc.Signup(context.Background(), "Grace", "grace@church.org", "secret123")
	require.NoError(t, err)

	require.NoError(t, svc.ResetPassword(context.Background(), "grace@church.org", "newsecret9"))

	_, _, err = svc.Login(context.Background(), "grace@church.org", "secret123")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials, "old password no longer works")

	_, _, err = svc.Login(context.Background(), "grace@church.org", "newsecret9")
	assert.NoError(t, err)
}
