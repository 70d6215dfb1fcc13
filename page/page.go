// Package page holds the view state of the detail and review pages.
//
// A page lives for one screen (in this service, one request). It loads its
// data once, applies user actions against the backend and recomputes
// derived values such as the average rating after every change. Every
// mutation is applied only after the backend has answered; nothing is
// optimistic. Close tears the page down: requests still in flight are
// cancelled and their results are dropped.
package page

import (
	"context"
	"errors"
	"sync"
)

var (
	// ErrMissingInput is returned before any request when required input is absent.
	ErrMissingInput = errors.New("missing input")
	// ErrInvalidInput is returned before any request when input breaks a local rule.
	ErrInvalidInput = errors.New("invalid input")
	// ErrActionInFlight is returned when the same action is already running.
	ErrActionInFlight = errors.New("action already in flight")
	// ErrPageClosed is returned once Close has been called.
	ErrPageClosed = errors.New("page closed")
	// ErrNotLoaded is returned by actions that need Load to have succeeded.
	ErrNotLoaded = errors.New("page not loaded")
	// ErrReviewNotFound is returned for a review id that is not on the page.
	ErrReviewNotFound = errors.New("review not on page")
	// ErrNotPermitted is returned when the session user does not own the review.
	ErrNotPermitted = errors.New("review belongs to another user")
	// ErrNotEditing is returned by edit actions when no review is being edited.
	ErrNotEditing = errors.New("no review is being edited")
	// ErrNoPendingDelete is returned by ConfirmDelete without a prior RequestDelete.
	ErrNoPendingDelete = errors.New("no delete awaiting confirmation")
)

// Action names a user action that issues a backend request.
type Action int

const (
	ActionLoad Action = iota
	ActionSubmitReview
	ActionConfirmEdit
	ActionDelete
	ActionToggleFavorite
	ActionAddComment
)

func (a Action) String() string {
	switch a {
	case ActionLoad:
		return "load"
	case ActionSubmitReview:
		return "submit_review"
	case ActionConfirmEdit:
		return "confirm_edit"
	case ActionDelete:
		return "delete_review"
	case ActionToggleFavorite:
		return "toggle_favorite"
	case ActionAddComment:
		return "add_comment"
	default:
		return "unknown"
	}
}

// lifecycle is embedded by every page. It owns the teardown context, the
// mutex guarding page state and the per-action in-flight flags.
type lifecycle struct {
	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	closed   bool
	inFlight map[Action]bool
}

func (l *lifecycle) init() {
	l.ctx, l.cancel = context.WithCancel(context.Background())
	l.inFlight = make(map[Action]bool)
}

// Close cancels outstanding requests; their results will not be applied.
func (l *lifecycle) Close() {
	l.mu.Lock()
	l.closed = true
	l.mu.Unlock()
	l.cancel()
}

// InFlight reports whether the control for action should be disabled.
func (l *lifecycle) InFlight(action Action) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.inFlight[action]
}

// begin marks action as running. The caller must hold l.mu.
func (l *lifecycle) begin(action Action) error {
	if l.closed {
		return ErrPageClosed
	}
	if l.inFlight[action] {
		return ErrActionInFlight
	}
	l.inFlight[action] = true
	return nil
}

func (l *lifecycle) end(action Action) {
	l.mu.Lock()
	delete(l.inFlight, action)
	l.mu.Unlock()
}

// commit applies fn to the page state unless the page has been closed.
func (l *lifecycle) commit(fn func()) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return ErrPageClosed
	}
	fn()
	return nil
}

// failure turns a request error into ErrPageClosed when the page was torn
// down while the request was running.
func (l *lifecycle) failure(err error) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return ErrPageClosed
	}
	return err
}

// requestContext derives a context that is cancelled with either ctx or the page.
func (l *lifecycle) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(l.ctx, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}
