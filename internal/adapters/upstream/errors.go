package upstream

import (
	"errors"
	"fmt"
)

// Sentinel kinds for upstream errors.
var (
	ErrInvalidEndpoint = errors.New("invalid upstream endpoint")
	ErrUpstreamStatus  = errors.New("upstream returned non-2xx status")
	ErrDecode          = errors.New("upstream body is not a player list")
)

// FetchError kinds, also used as metric labels.
const (
	KindTransport = "transport"
	KindStatus    = "status"
	KindDecode    = "decode"
)

// FetchError describes one failed fetch.
type FetchError struct {
	Kind      string
	RequestID string
	Status    int
	Err       error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("upstream fetch %s (%s): %v", e.Kind, e.RequestID, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
