package repository

import "errors"

var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrNoOpenItems = errors.New("no open items on tab")
	ErrUnavailable = errors.New("store unavailable")
)
