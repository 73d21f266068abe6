package coordinator

import "errors"

var (
	// ErrEmptyContent signals a submit attempt with empty or whitespace-only
	// text. No network call is made.
	ErrEmptyContent = errors.New("coordinator: content is required")
	// ErrRequestInFlight signals a submit while a prior request is still
	// outstanding. At most one request may be in flight per coordinator.
	ErrRequestInFlight = errors.New("coordinator: request already in flight")
	// ErrClosed signals use after Close.
	ErrClosed = errors.New("coordinator: closed")
)

// User-visible message strings. Server and transport failures are collapsed
// into one category on purpose; callers that need to distinguish them can
// inspect the error returned by Submit instead.
const (
	MsgEmptyContent     = "Please enter some content first."
	MsgGenerationFailed = "Failed to generate QR code"
)
