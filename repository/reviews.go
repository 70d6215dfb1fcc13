package repository

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/emzola/cinereview/data"
)

type reviews interface {
	GetReviews(ctx context.Context, sess *data.Session, mediaType data.MediaType, mediaID data.MediaID) ([]*data.Review, error)
	GetReview(ctx context.Context, sess *data.Session, reviewID int64) (*data.Review, error)
	CreateReview(ctx context.Context, sess *data.Session, mediaType data.MediaType, mediaID data.MediaID, draft data.ReviewDraft) (*data.Review, error)
	UpdateReview(ctx context.Context, sess *data.Session, reviewID int64, draft data.ReviewDraft) (*data.Review, error)
	DeleteReview(ctx context.Context, sess *data.Session, reviewID int64) error
}

// GetReviews retrieves every review for a media item. Null entries in the
// backend's list are dropped.
func (r *repository) GetReviews(ctx context.Context, sess *data.Session, mediaType data.MediaType, mediaID data.MediaID) ([]*data.Review, error) {
	path := "reviews/" + url.PathEscape(string(mediaType)) + "/" + url.PathEscape(string(mediaID))
	var body []*data.Review
	err := r.do(ctx, sess, http.MethodGet, path, nil, nil, &body)
	if err != nil {
		return nil, err
	}
	reviews := make([]*data.Review, 0, len(body))
	for _, review := range body {
		if review != nil {
			reviews = append(reviews, review)
		}
	}
	return reviews, nil
}

// GetReview retrieves a review together with its comments.
func (r *repository) GetReview(ctx context.Context, sess *data.Session, reviewID int64) (*data.Review, error) {
	if reviewID < 1 {
		return nil, ErrRecordNotFound
	}
	var review data.Review
	err := r.do(ctx, sess, http.MethodGet, "review/"+strconv.FormatInt(reviewID, 10), nil, nil, &review)
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// CreateReview creates a review and returns the backend's record of it.
func (r *repository) CreateReview(ctx context.Context, sess *data.Session, mediaType data.MediaType, mediaID data.MediaID, draft data.ReviewDraft) (*data.Review, error) {
	body := struct {
		Content   string         `json:"content"`
		Rating    int            `json:"rating"`
		MediaType data.MediaType `json:"media_type"`
		MediaID   data.MediaID   `json:"media_id"`
	}{draft.Content, draft.Rating, mediaType, mediaID}
	var review data.Review
	err := r.do(ctx, sess, http.MethodPost, "reviews", nil, body, &review)
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// UpdateReview replaces the rating and content of a review.
func (r *repository) UpdateReview(ctx context.Context, sess *data.Session, reviewID int64, draft data.ReviewDraft) (*data.Review, error) {
	if reviewID < 1 {
		return nil, ErrRecordNotFound
	}
	var review data.Review
	err := r.do(ctx, sess, http.MethodPut, "review/"+strconv.FormatInt(reviewID, 10), nil, draft, &review)
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// DeleteReview deletes a review.
func (r *repository) DeleteReview(ctx context.Context, sess *data.Session, reviewID int64) error {
	if reviewID < 1 {
		return ErrRecordNotFound
	}
	return r.do(ctx, sess, http.MethodDelete, "review/"+strconv.FormatInt(reviewID, 10), nil, nil, nil)
}
