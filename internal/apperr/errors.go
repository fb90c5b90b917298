// Package apperr holds sentinel errors shared across the homepage packages.
package apperr

import "errors"

var (
	ErrNotFound    = errors.New("not found")
	ErrUnknownTab  = errors.New("unknown tab")
	ErrUnavailable = errors.New("dataset unavailable")
)
