package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/emzola/cinereview/data"
	"github.com/emzola/cinereview/internal/validator"
)

type comments interface {
	CreateComment(ctx context.Context, sess *data.Session, reviewID int64, content string) (*data.Comment, error)
}

// CreateComment adds a comment to a review. Content is trimmed before it is
// validated and sent.
func (s *service) CreateComment(ctx context.Context, sess *data.Session, reviewID int64, content string) (*data.Comment, error) {
	if sess.IsAnonymous() {
		return nil, ErrUnauthenticated
	}
	content = strings.TrimSpace(content)
	v := validator.New()
	if data.ValidateComment(v, content); !v.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrFailedValidation, v.Error())
	}
	comment, err := s.repo.CreateComment(ctx, sess, reviewID, content)
	if err != nil {
		return nil, translate(err)
	}
	return comment, nil
}
