package queue

// Reasons recorded when Enqueue rejects a request.
const (
	RejectClosed    = "closed"
	RejectFull      = "full"
	RejectCancelled = "context_cancelled"
)
