package repository

import (
	"context"
	"net/http"

	"github.com/emzola/cinereview/data"
)

type users interface {
	GetUserForToken(ctx context.Context, token string) (*data.User, error)
}

// GetUserForToken resolves a bearer token to the backend user it belongs to.
func (r *repository) GetUserForToken(ctx context.Context, token string) (*data.User, error) {
	var user data.User
	err := r.do(ctx, &data.Session{Token: token}, http.MethodGet, "user", nil, nil, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
