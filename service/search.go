package service

import (
	"context"
	"encoding/json"
	"fmt"
)

type search interface {
	SearchMedia(ctx context.Context, query string) (json.RawMessage, error)
}

// SearchMedia forwards a query to the catalog's multi search in the primary
// language and returns the provider body verbatim. An empty query never
// reaches the catalog; any other query, whitespace included, is sent as is.
func (s *service) SearchMedia(ctx context.Context, query string) (json.RawMessage, error) {
	if query == "" {
		return nil, ErrMissingQuery
	}
	body, err := s.catalog.SearchMulti(ctx, query, s.config.TMDB.Language)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return body, nil
}
