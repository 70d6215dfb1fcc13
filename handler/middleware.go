package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/emzola/cinereview/data"
	"github.com/emzola/cinereview/page"
	"github.com/emzola/cinereview/service"
	"github.com/felixge/httpsnoop"
	"github.com/google/uuid"
)

// recoverPanic middleware recovers from panics and will always be run in the event of a panic.
func (h *Handler) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				w.Header().Set("Connection", "close")
				h.serverErrorResponse(w, r, fmt.Errorf("%s", err))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// logRequest middleware tags every request with an id and logs its outcome.
func (h *Handler) logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", id)
		r = contextSetRequestID(r, id)
		metrics := httpsnoop.CaptureMetrics(next, w, r)
		h.logger.PrintInfo("request completed", map[string]string{
			"request_id":     id,
			"request_method": r.Method,
			"request_path":   r.URL.Path,
			"status":         strconv.Itoa(metrics.Code),
			"duration_us":    strconv.FormatInt(metrics.Duration.Microseconds(), 10),
			"bytes_written":  strconv.FormatInt(metrics.Written, 10),
		})
	})
}

// enableCORS middleware relaxes the same-origin policy.
func (h *Handler) enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", "Origin")
		w.Header().Add("Vary", "Access-Control-Request-Method")
		origin := r.Header.Get("Origin")
		if origin != "" {
			for i := range h.config.Cors.TrustedOrigins {
				if origin == h.config.Cors.TrustedOrigins[i] {
					w.Header().Set("Access-Control-Allow-Origin", origin)
					if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
						w.Header().Set("Access-Control-Allow-Methods", "OPTIONS, POST, PUT, DELETE")
						w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
						w.WriteHeader(http.StatusOK)
						return
					}
					break
				}
			}
		}
		next.ServeHTTP(w, r)
	})
}

// authenticate middleware resolves the bearer token against the backend and
// stores the resulting session. Requests without credentials get an anonymous session.
func (h *Handler) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", "Authorization")
		authorizationHeader := r.Header.Get("Authorization")
		if authorizationHeader == "" {
			r = h.contextSetSession(r, data.AnonymousSession)
			next.ServeHTTP(w, r)
			return
		}
		headerParts := strings.Split(authorizationHeader, " ")
		if len(headerParts) != 2 || headerParts[0] != "Bearer" || headerParts[1] == "" {
			h.invalidAuthenticationTokenResponse(w, r)
			return
		}
		token := headerParts[1]
		user, err := h.service.GetUserForToken(r.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrUnauthenticated):
				h.invalidAuthenticationTokenResponse(w, r)
			case errors.Is(err, service.ErrUpstream):
				h.upstreamErrorResponse(w, r, err)
			default:
				h.serverErrorResponse(w, r, err)
			}
			return
		}
		r = h.contextSetSession(r, &data.Session{User: user, Token: token})
		next.ServeHTTP(w, r)
	})
}

// protected wraps routes that act for a signed-in user. Routes without it
// never resolve the bearer token.
func (h *Handler) protected(next http.HandlerFunc) http.HandlerFunc {
	return h.authenticate(h.requireAuthenticatedUser(next)).ServeHTTP
}

// requireAuthenticatedUser middleware checks that a user is not anonymous.
func (h *Handler) requireAuthenticatedUser(next http.HandlerFunc) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := h.contextGetSession(r)
		if sess.IsAnonymous() {
			h.authenticationRequiredResponse(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// acquireAction marks a mutating action on an entity as running for the
// session user. It reports false when the same action is already running;
// otherwise the caller must call release once it has responded. Entries
// expire after the configured guard TTL.
func (h *Handler) acquireAction(r *http.Request, action page.Action, entity string) (release func(), ok bool) {
	sess := h.contextGetSession(r)
	key := fmt.Sprintf("%d:%s:%s", sess.User.ID, action, entity)
	h.guardMu.Lock()
	defer h.guardMu.Unlock()
	if item := h.cache.Get(key); item != nil {
		return nil, false
	}
	h.cache.Set(key, struct{}{}, h.config.Guard.TTL)
	return func() { h.cache.Delete(key) }, true
}
