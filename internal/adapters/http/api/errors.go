package api

import (
	"errors"
	"fmt"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrBackpressure = errors.New("backpressure")
	ErrUnavailable  = errors.New("unavailable")
)

// opError tags an error with the handler operation that produced it.
type opError struct {
	Op  string
	Err error
}

func (e *opError) Error() string { return e.Op + ": " + e.Err.Error() }

func (e *opError) Unwrap() error { return e.Err }

// NewKind returns an error of the given sentinel kind raised by op.
func NewKind(op string, kind error) error {
	return &opError{Op: op, Err: kind}
}

// WrapKind attaches a sentinel kind to err so both match errors.Is.
func WrapKind(op string, kind, err error) error {
	if err == nil {
		return NewKind(op, kind)
	}
	return &opError{Op: op, Err: fmt.Errorf("%w: %w", kind, err)}
}

// Wrap tags err with op. A nil err stays nil.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &opError{Op: op, Err: err}
}
