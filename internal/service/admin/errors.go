package admin

import "errors"

var (
	ErrTableExists   = errors.New("table id already provisioned")
	ErrTableNotFound = errors.New("table not found")
	ErrInvalidSeats  = errors.New("seat count must be positive")
	ErrInvalidShape  = errors.New("unknown table shape")
)
