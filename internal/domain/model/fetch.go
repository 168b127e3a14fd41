package model

import "time"

// Reasons a fetch was requested.
const (
	ReasonStartup = "startup"
	ReasonEmpty   = "empty"
	ReasonStale   = "stale"
	ReasonManual  = "manual"
)

// FetchRequest asks a worker to load one season from upstream.
// Generation orders requests for the same season; the store keeps the
// result of the highest generation applied so far.
type FetchRequest struct {
	Season      Season    `json:"season"`
	Generation  uint64    `json:"generation"`
	Reason      string    `json:"reason"`
	RequestedAt time.Time `json:"requested_at"`
}
