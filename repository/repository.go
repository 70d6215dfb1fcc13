package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/emzola/cinereview/data"
)

type Repository interface {
	reviews
	comments
	favorites
	users
}

// requestTimeout bounds every backend call on top of the caller's context.
const requestTimeout = 5 * time.Second

// maxErrorBody limits how much of an error response is kept for diagnostics.
const maxErrorBody = 64 << 10

// repository talks to the review backend over HTTP.
type repository struct {
	client  *http.Client
	baseURL string
}

// New creates a new instance of Repository rooted at the backend API base URL,
// e.g. http://localhost:8000/api.
func New(client *http.Client, baseURL string) *repository {
	return &repository{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// do sends a request on behalf of sess and decodes a 2xx JSON body into dst.
// dst may be nil when the response body is irrelevant.
func (r *repository) do(ctx context.Context, sess *data.Session, method, path string, query url.Values, body, dst interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	var reader io.Reader
	if body != nil {
		js, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(js)
	}
	target := r.baseURL + "/" + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if sess != nil && sess.Token != "" {
		req.Header.Set("Authorization", "Bearer "+sess.Token)
	}
	res, err := r.client.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return fmt.Errorf("%w: %s %s: %v", ErrUpstream, method, path, err)
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return statusError(method, path, res)
	}
	if dst == nil {
		_, err = io.Copy(io.Discard, res.Body)
		return err
	}
	err = json.NewDecoder(res.Body).Decode(dst)
	if err != nil {
		return fmt.Errorf("%w: %s %s: decoding response: %v", ErrUpstream, method, path, err)
	}
	return nil
}

// statusError maps a non-2xx backend response onto the repository errors.
func statusError(method, path string, res *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))
	var sentinel error
	switch res.StatusCode {
	case http.StatusUnauthorized:
		sentinel = ErrUnauthenticated
	case http.StatusForbidden:
		sentinel = ErrNotPermitted
	case http.StatusNotFound:
		sentinel = ErrRecordNotFound
	case http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: %s", ErrFailedValidation, validationMessage(body))
	default:
		sentinel = ErrUpstream
	}
	return fmt.Errorf("%w: %s %s returned %d", sentinel, method, path, res.StatusCode)
}

// validationMessage extracts the "message" field of a validation error body.
func validationMessage(body []byte) string {
	var aux struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &aux); err != nil || aux.Message == "" {
		return "the backend rejected the request"
	}
	return aux.Message
}
