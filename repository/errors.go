package repository

import "errors"

var (
	ErrRecordNotFound   = errors.New("record not found")
	ErrFailedValidation = errors.New("failed validation")
	ErrNotPermitted     = errors.New("not permitted")
	ErrUnauthenticated  = errors.New("unauthenticated")
	ErrUpstream         = errors.New("backend request failed")
)
