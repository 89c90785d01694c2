// Package profile exposes the authenticated user's account data.
package profile

import (
	"context"

	"bookshop/internal/backend"
)

// API is the slice of the backend client the profile service uses.
type API interface {
	UserProfile(ctx context.Context, token string) (*backend.Profile, error)
}

// TokenSource yields the access token for authenticated calls.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Service fetches the current user's profile.
type Service struct {
	api    API
	tokens TokenSource
}

func NewService(api API, tokens TokenSource) *Service {
	return &Service{api: api, tokens: tokens}
}

// Get returns the authenticated user's profile.
func (s *Service) Get(ctx context.Context) (*backend.Profile, error) {
	token, err := s.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}
	return s.api.UserProfile(ctx, token)
}
