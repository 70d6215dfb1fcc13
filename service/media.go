package service

import (
	"context"
	"fmt"

	"github.com/emzola/cinereview/data"
)

type media interface {
	GetMediaDetail(ctx context.Context, mediaType data.MediaType, mediaID data.MediaID) (data.MediaDetail, error)
}

// GetMediaDetail fetches a catalog entry in the primary language. When its
// overview is empty the entry is fetched again in the fallback language and
// only the overview is taken from that second response.
//
// A failed primary request makes the whole entry not found. A failed fallback
// request is logged and the primary response is returned as is.
func (s *service) GetMediaDetail(ctx context.Context, mediaType data.MediaType, mediaID data.MediaID) (data.MediaDetail, error) {
	if _, ok := data.ParseMediaType(string(mediaType)); !ok || mediaID == "" {
		return nil, ErrRecordNotFound
	}
	primary, err := s.catalog.Detail(ctx, mediaType, mediaID, s.config.TMDB.Language)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRecordNotFound, err)
	}
	if primary.Overview() != "" {
		return primary, nil
	}
	fallback, err := s.catalog.Detail(ctx, mediaType, mediaID, s.config.TMDB.FallbackLanguage)
	if err != nil {
		s.logger.PrintError(err, map[string]string{
			"media_type": string(mediaType),
			"media_id":   string(mediaID),
			"language":   s.config.TMDB.FallbackLanguage,
		})
		return primary, nil
	}
	combined := primary.Clone()
	combined.SetOverview(fallback.Overview())
	return combined, nil
}
