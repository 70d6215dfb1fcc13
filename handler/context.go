package handler

import (
	"context"
	"net/http"

	"github.com/emzola/cinereview/data"
)

// Type contextKey is a custom contextKey type, with the underlying type string.
// This is necessary to prevent name collisions with external packages.
type contextKey string

const (
	sessionContextKey   = contextKey("session")
	requestIDContextKey = contextKey("request_id")
)

// contextSetSession returns a new copy of the request with the session added to its context.
func (h *Handler) contextSetSession(r *http.Request, sess *data.Session) *http.Request {
	ctx := context.WithValue(r.Context(), sessionContextKey, sess)
	return r.WithContext(ctx)
}

// contextGetSession retrieves the session set by the authenticate middleware.
// A missing session is a programming error.
func (h *Handler) contextGetSession(r *http.Request) *data.Session {
	sess, ok := r.Context().Value(sessionContextKey).(*data.Session)
	if !ok {
		panic("missing session value in request context")
	}
	return sess
}

func contextSetRequestID(r *http.Request, id string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), requestIDContextKey, id))
}

func contextGetRequestID(r *http.Request) string {
	id, _ := r.Context().Value(requestIDContextKey).(string)
	return id
}
