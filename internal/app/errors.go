package service

import "errors"

// Sentinel errors returned by the service.
var (
	ErrNotStarted  = errors.New("service not started")
	ErrNoFetcher   = errors.New("no upstream fetcher configured")
	ErrQueueFull   = errors.New("fetch queue full")
	ErrQueueClosed = errors.New("fetch queue closed")
)
