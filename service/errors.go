package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/emzola/cinereview/repository"
)

var (
	ErrMissingQuery     = errors.New("missing search query")
	ErrFailedValidation = errors.New("failed validation")
	ErrRecordNotFound   = errors.New("record not found")
	ErrNotPermitted     = errors.New("not permitted")
	ErrUnauthenticated  = errors.New("unauthenticated")
	ErrUpstream         = errors.New("upstream failure")
)

// translate maps repository errors onto service errors. Cancellation is
// passed through untouched so callers can tell it apart from failures.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.Canceled):
		return err
	case errors.Is(err, repository.ErrRecordNotFound):
		return fmt.Errorf("%w: %v", ErrRecordNotFound, err)
	case errors.Is(err, repository.ErrNotPermitted):
		return fmt.Errorf("%w: %v", ErrNotPermitted, err)
	case errors.Is(err, repository.ErrUnauthenticated):
		return fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	case errors.Is(err, repository.ErrFailedValidation):
		msg := strings.TrimPrefix(err.Error(), repository.ErrFailedValidation.Error()+": ")
		return fmt.Errorf("%w: %s", ErrFailedValidation, msg)
	default:
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
}
