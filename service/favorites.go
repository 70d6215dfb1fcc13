package service

import (
	"context"

	"github.com/emzola/cinereview/data"
)

type favorites interface {
	ToggleFavorite(ctx context.Context, sess *data.Session, mediaType data.MediaType, mediaID data.MediaID) (bool, error)
	GetFavoriteStatus(ctx context.Context, sess *data.Session, mediaType data.MediaType, mediaID data.MediaID) (bool, error)
}

// ToggleFavorite asks the backend to flip the favourite mark and returns the
// state it reports.
func (s *service) ToggleFavorite(ctx context.Context, sess *data.Session, mediaType data.MediaType, mediaID data.MediaID) (bool, error) {
	if sess.IsAnonymous() {
		return false, ErrUnauthenticated
	}
	favorited, err := s.repo.ToggleFavorite(ctx, sess, mediaType, mediaID)
	if err != nil {
		return false, translate(err)
	}
	return favorited, nil
}

// GetFavoriteStatus reports whether the session user has favourited the media.
func (s *service) GetFavoriteStatus(ctx context.Context, sess *data.Session, mediaType data.MediaType, mediaID data.MediaID) (bool, error) {
	favorited, err := s.repo.GetFavoriteStatus(ctx, sess, mediaType, mediaID)
	if err != nil {
		return false, translate(err)
	}
	return favorited, nil
}
