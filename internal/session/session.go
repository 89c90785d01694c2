// Package session manages the authenticated user: login and
// registration, the persisted token keys, and password resets. Tokens
// live in the local store under the same keys the storefront has
// always used (access, refresh, the legacy authToken mirror and
// userEmail) so older state directories keep working.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"

	"bookshop/internal/backend"
	"bookshop/internal/localstore"
)

// ErrNotLoggedIn is returned when no access token is stored.
var ErrNotLoggedIn = errors.New("not logged in")

// Backend is the slice of the API client the session manager uses.
type Backend interface {
	Login(ctx context.Context, email, password string) (*backend.TokenPair, error)
	Register(ctx context.Context, in backend.RegisterInput) error
	RefreshToken(ctx context.Context, refresh string) (*backend.TokenPair, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ConfirmPasswordReset(ctx context.Context, uid, token, newPassword string) error
}

// RegisterForm is the registration input, validated client-side
// before anything is sent to the backend.
type RegisterForm struct {
	Email           string `validate:"required,email"`
	Password        string `validate:"required,min=8"`
	ConfirmPassword string `validate:"required,eqfield=Password"`
	FirstName       string `validate:"required"`
	LastName        string `validate:"required"`
}

// ResetForm is the password reset confirmation input.
type ResetForm struct {
	UID         string `validate:"required"`
	Token       string `validate:"required"`
	NewPassword string `validate:"required,min=8"`
	Confirm     string `validate:"required,eqfield=NewPassword"`
}

// Manager owns the persisted auth state.
type Manager struct {
	api      Backend
	store    *localstore.Store
	validate *validator.Validate
}

func NewManager(api Backend, store *localstore.Store) *Manager {
	return &Manager{
		api:      api,
		store:    store,
		validate: validator.New(),
	}
}

// Login exchanges credentials for tokens and persists them along with
// the user's email.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	pair, err := m.api.Login(ctx, email, password)
	if err != nil {
		return err
	}
	return m.saveTokens(pair, email)
}

// Logout deletes every persisted auth key. Cart and wishlist are kept.
func (m *Manager) Logout() error {
	for _, key := range []string{
		localstore.KeyAccess,
		localstore.KeyRefresh,
		localstore.KeyAuthToken,
		localstore.KeyUserEmail,
	} {
		if err := m.store.Delete(key); err != nil {
			return err
		}
	}
	return nil
}

// Register validates the form client-side, then creates the account.
func (m *Manager) Register(ctx context.Context, form RegisterForm) error {
	if err := m.validate.Struct(form); err != nil {
		return fmt.Errorf("invalid registration form: %w", err)
	}
	return m.api.Register(ctx, backend.RegisterInput{
		Email:     form.Email,
		Password:  form.Password,
		FirstName: form.FirstName,
		LastName:  form.LastName,
	})
}

// Token returns a usable access token. An expired token is refreshed
// through the backend when a refresh token is stored; otherwise the
// caller gets ErrNotLoggedIn and should send the user to the login
// page.
func (m *Manager) Token(ctx context.Context) (string, error) {
	access, err := m.store.GetString(localstore.KeyAccess)
	if err != nil {
		return "", err
	}
	if access == "" {
		return "", ErrNotLoggedIn
	}
	if !tokenExpired(access) {
		return access, nil
	}

	refresh, err := m.store.GetString(localstore.KeyRefresh)
	if err != nil {
		return "", err
	}
	if refresh == "" {
		return "", ErrNotLoggedIn
	}
	pair, err := m.api.RefreshToken(ctx, refresh)
	if err != nil {
		return "", fmt.Errorf("refresh token: %w", err)
	}
	if pair.Refresh == "" {
		pair.Refresh = refresh
	}
	email, _ := m.store.GetString(localstore.KeyUserEmail)
	if err := m.saveTokens(pair, email); err != nil {
		return "", err
	}
	return pair.Access, nil
}

// CurrentEmail returns the remembered login email, "" when absent.
func (m *Manager) CurrentEmail() string {
	email, _ := m.store.GetString(localstore.KeyUserEmail)
	return email
}

// RequestPasswordReset asks the backend to mail a reset link.
func (m *Manager) RequestPasswordReset(ctx context.Context, email string) error {
	return m.api.RequestPasswordReset(ctx, email)
}

// ConfirmPasswordReset validates the new password client-side, then
// confirms the reset with the backend.
func (m *Manager) ConfirmPasswordReset(ctx context.Context, form ResetForm) error {
	if err := m.validate.Struct(form); err != nil {
		return fmt.Errorf("invalid reset form: %w", err)
	}
	return m.api.ConfirmPasswordReset(ctx, form.UID, form.Token, form.NewPassword)
}

func (m *Manager) saveTokens(pair *backend.TokenPair, email string) error {
	if err := m.store.SetString(localstore.KeyAccess, pair.Access); err != nil {
		return err
	}
	// Legacy key, kept in lockstep with access.
	if err := m.store.SetString(localstore.KeyAuthToken, pair.Access); err != nil {
		return err
	}
	if err := m.store.SetString(localstore.KeyRefresh, pair.Refresh); err != nil {
		return err
	}
	if email != "" {
		if err := m.store.SetString(localstore.KeyUserEmail, email); err != nil {
			return err
		}
	}
	return nil
}

// expirySkew is subtracted from the exp claim so a token about to
// lapse mid-request is refreshed up front.
const expirySkew = 30 * time.Second

// tokenExpired inspects the exp claim without verifying the
// signature; the client holds no signing key, the backend remains the
// authority. Tokens that cannot be parsed or carry no exp claim are
// treated as still valid and left for the backend to reject.
func tokenExpired(raw string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return time.Now().Add(expirySkew).After(exp.Time)
}
