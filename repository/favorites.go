package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/emzola/cinereview/data"
)

type favorites interface {
	ToggleFavorite(ctx context.Context, sess *data.Session, mediaType data.MediaType, mediaID data.MediaID) (bool, error)
	GetFavoriteStatus(ctx context.Context, sess *data.Session, mediaType data.MediaType, mediaID data.MediaID) (bool, error)
}

// ToggleFavorite flips the favourite mark and reports whether the media is
// now a favourite, as decided by the backend.
func (r *repository) ToggleFavorite(ctx context.Context, sess *data.Session, mediaType data.MediaType, mediaID data.MediaID) (bool, error) {
	body := struct {
		MediaType data.MediaType `json:"media_type"`
		MediaID   data.MediaID   `json:"media_id"`
	}{mediaType, mediaID}
	var result struct {
		Status string `json:"status"`
	}
	err := r.do(ctx, sess, http.MethodPost, "favorites", nil, body, &result)
	if err != nil {
		return false, err
	}
	switch result.Status {
	case data.FavoriteAdded:
		return true, nil
	case data.FavoriteRemoved:
		return false, nil
	default:
		return false, fmt.Errorf("%w: unexpected favourite status %q", ErrUpstream, result.Status)
	}
}

// GetFavoriteStatus reports whether the session user has favourited the media.
func (r *repository) GetFavoriteStatus(ctx context.Context, sess *data.Session, mediaType data.MediaType, mediaID data.MediaID) (bool, error) {
	query := url.Values{}
	query.Set("media_type", string(mediaType))
	query.Set("media_id", string(mediaID))
	var raw json.RawMessage
	err := r.do(ctx, sess, http.MethodGet, "favorites/status", query, nil, &raw)
	if err != nil {
		return false, err
	}
	// The backend answers with a bare JSON boolean; older versions send 0/1.
	switch string(bytes.TrimSpace(raw)) {
	case "true", "1":
		return true, nil
	case "false", "0", "null":
		return false, nil
	default:
		return false, fmt.Errorf("%w: unexpected favourite status %s", ErrUpstream, raw)
	}
}
