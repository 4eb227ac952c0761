package source

import "errors"

// Client failure categories. Each maps to a distinct user-visible message
// class, so callers must be able to distinguish them with errors.Is.
var (
	// ErrSourceUnavailable is returned after the retry ceiling is
	// exhausted on network failures or 5xx responses. Transient: the
	// caller may suggest retrying later.
	ErrSourceUnavailable = errors.New("pet listing source unavailable")

	// ErrSourceProtocol is returned when the source responds with a body
	// the client cannot parse, or with an unexpected status. Never
	// retried: a structural mismatch indicates a source contract change
	// that retrying cannot fix.
	ErrSourceProtocol = errors.New("pet listing source returned a malformed response")
)
