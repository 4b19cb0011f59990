package domain

import "errors"

var (
	ErrUnauthorized           = errors.New("unauthorized")
	ErrRejected               = errors.New("rejected by backend")
	ErrNotFound               = errors.New("not found")
	ErrTemporarilyUnavailable = errors.New("temporarily unavailable")
	ErrInvalidInput           = errors.New("invalid input")
)
