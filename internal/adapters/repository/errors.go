package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrInvalidSeason = errors.New("invalid season")
	ErrClosed        = errors.New("store closed")
)
