package users

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
)

type Service struct {
	Repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// UpsertFromAuth persists the identity returned by the identity provider. Email is the
// stable key, so a returning user keeps their id and creation time.
func (s *Service) UpsertFromAuth(ctx context.Context, email, fullName, pictureURL string) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errors.New("users service not configured")
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return User{}, errors.New("user email is required")
	}
	return s.Repo.UpsertByEmail(ctx, User{
		ID:         uuid.NewString(),
		Email:      email,
		FullName:   strings.TrimSpace(fullName),
		PictureURL: strings.TrimSpace(pictureURL),
	})
}

func (s *Service) GetByID(ctx context.Context, userID string) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errors.New("users service not configured")
	}
	if strings.TrimSpace(userID) == "" {
		return User{}, ErrNotFound
	}
	return s.Repo.GetByID(ctx, userID)
}

func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.Repo.List(ctx)
}
