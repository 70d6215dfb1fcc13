package clients

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/emzola/cinereview/data"
	"github.com/gabriel-vasile/mimetype"
)

var (
	ErrUpstream = errors.New("upstream request failed")
	ErrNotFound = errors.New("upstream resource not found")
)

// maxBodySize caps how much of a catalog response is read into memory.
const maxBodySize = 4 << 20

// TMDB is a client for The Movie Database v3 API. The API key is only ever
// placed on outbound requests and is stripped from every returned error.
type TMDB struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

// NewTMDB creates a catalog client rooted at baseURL, e.g. https://api.themoviedb.org/3.
func NewTMDB(client *http.Client, baseURL, apiKey string) *TMDB {
	return &TMDB{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
	}
}

// SearchMulti searches movies, TV shows and people in one call and returns
// the provider's JSON body untouched.
func (t *TMDB) SearchMulti(ctx context.Context, query, language string) (json.RawMessage, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("language", language)
	body, err := t.get(ctx, "/search/multi", params)
	if err != nil {
		return nil, err
	}
	if !isJSON(body) {
		return nil, fmt.Errorf("%w: /search/multi returned %s", ErrUpstream, mimetype.Detect(body).String())
	}
	return json.RawMessage(body), nil
}

// Detail fetches a single movie or TV entry in the given language.
func (t *TMDB) Detail(ctx context.Context, mediaType data.MediaType, mediaID data.MediaID, language string) (data.MediaDetail, error) {
	params := url.Values{}
	params.Set("language", language)
	path := "/" + url.PathEscape(string(mediaType)) + "/" + url.PathEscape(string(mediaID))
	body, err := t.get(ctx, path, params)
	if err != nil {
		return nil, err
	}
	var detail data.MediaDetail
	if err := json.Unmarshal(body, &detail); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUpstream, path, err)
	}
	if detail == nil {
		return nil, fmt.Errorf("%w: %s returned an empty document", ErrUpstream, path)
	}
	return detail, nil
}

func (t *TMDB) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	params.Set("api_key", t.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUpstream, path, stripURL(err))
	}
	req.Header.Set("Accept", "application/json")
	res, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUpstream, path, stripURL(err))
	}
	defer res.Body.Close()
	body, err := io.ReadAll(io.LimitReader(res.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUpstream, path, stripURL(err))
	}
	switch {
	case res.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	case res.StatusCode < 200 || res.StatusCode > 299:
		return nil, fmt.Errorf("%w: %s returned %d", ErrUpstream, path, res.StatusCode)
	}
	return body, nil
}

// stripURL drops the request URL, which carries the api key, from transport errors.
func stripURL(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err
	}
	return err
}

// isJSON reports whether body sniffs as JSON or one of its subtypes.
func isJSON(body []byte) bool {
	for m := mimetype.Detect(body); m != nil; m = m.Parent() {
		if m.Is("application/json") {
			return true
		}
	}
	return false
}
