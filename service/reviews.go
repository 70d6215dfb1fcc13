package service

import (
	"context"
	"fmt"

	"github.com/emzola/cinereview/data"
	"github.com/emzola/cinereview/internal/validator"
)

type reviews interface {
	ListReviews(ctx context.Context, sess *data.Session, mediaType data.MediaType, mediaID data.MediaID) ([]*data.Review, error)
	GetReview(ctx context.Context, sess *data.Session, reviewID int64) (*data.Review, error)
	CreateReview(ctx context.Context, sess *data.Session, mediaType data.MediaType, mediaID data.MediaID, draft data.ReviewDraft) (*data.Review, error)
	UpdateReview(ctx context.Context, sess *data.Session, reviewID int64, draft data.ReviewDraft) (*data.Review, error)
	DeleteReview(ctx context.Context, sess *data.Session, reviewID int64) error
}

// ListReviews retrieves all reviews for a media item.
func (s *service) ListReviews(ctx context.Context, sess *data.Session, mediaType data.MediaType, mediaID data.MediaID) ([]*data.Review, error) {
	reviews, err := s.repo.GetReviews(ctx, sess, mediaType, mediaID)
	if err != nil {
		return nil, translate(err)
	}
	return reviews, nil
}

// GetReview retrieves a review with its comments.
func (s *service) GetReview(ctx context.Context, sess *data.Session, reviewID int64) (*data.Review, error) {
	review, err := s.repo.GetReview(ctx, sess, reviewID)
	if err != nil {
		return nil, translate(err)
	}
	if review.Comments == nil {
		review.Comments = []data.Comment{}
	}
	return review, nil
}

// CreateReview validates a draft and creates the review on the backend.
func (s *service) CreateReview(ctx context.Context, sess *data.Session, mediaType data.MediaType, mediaID data.MediaID, draft data.ReviewDraft) (*data.Review, error) {
	if sess.IsAnonymous() {
		return nil, ErrUnauthenticated
	}
	draft = draft.Trimmed()
	v := validator.New()
	if data.ValidateReview(v, draft); !v.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrFailedValidation, v.Error())
	}
	review, err := s.repo.CreateReview(ctx, sess, mediaType, mediaID, draft)
	if err != nil {
		return nil, translate(err)
	}
	return review, nil
}

// UpdateReview validates a draft and replaces the review's rating and content.
func (s *service) UpdateReview(ctx context.Context, sess *data.Session, reviewID int64, draft data.ReviewDraft) (*data.Review, error) {
	if sess.IsAnonymous() {
		return nil, ErrUnauthenticated
	}
	draft = draft.Trimmed()
	v := validator.New()
	if data.ValidateReview(v, draft); !v.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrFailedValidation, v.Error())
	}
	review, err := s.repo.UpdateReview(ctx, sess, reviewID, draft)
	if err != nil {
		return nil, translate(err)
	}
	return review, nil
}

// DeleteReview deletes a review.
func (s *service) DeleteReview(ctx context.Context, sess *data.Session, reviewID int64) error {
	if sess.IsAnonymous() {
		return ErrUnauthenticated
	}
	return translate(s.repo.DeleteReview(ctx, sess, reviewID))
}
