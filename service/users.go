package service

import (
	"context"
	"errors"

	"github.com/emzola/cinereview/data"
	"github.com/emzola/cinereview/repository"
)

type users interface {
	GetUserForToken(ctx context.Context, token string) (*data.User, error)
}

// GetUserForToken resolves a bearer token into the backend user. An unknown
// token is reported as ErrUnauthenticated.
func (s *service) GetUserForToken(ctx context.Context, token string) (*data.User, error) {
	user, err := s.repo.GetUserForToken(ctx, token)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrUnauthenticated), errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrUnauthenticated
		default:
			return nil, translate(err)
		}
	}
	return user, nil
}
