package repository

import (
	"context"
	"net/http"

	"github.com/emzola/cinereview/data"
)

type comments interface {
	CreateComment(ctx context.Context, sess *data.Session, reviewID int64, content string) (*data.Comment, error)
}

// CreateComment adds a comment to a review.
func (r *repository) CreateComment(ctx context.Context, sess *data.Session, reviewID int64, content string) (*data.Comment, error) {
	if reviewID < 1 {
		return nil, ErrRecordNotFound
	}
	body := struct {
		Content  string `json:"content"`
		ReviewID int64  `json:"review_id"`
	}{content, reviewID}
	var comment data.Comment
	err := r.do(ctx, sess, http.MethodPost, "comments", nil, body, &comment)
	if err != nil {
		return nil, err
	}
	return &comment, nil
}
