package domain

import "fmt"

// TransportError marks network-level failures: connection refused, DNS,
// timeout.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ShapeError marks a response that was received but does not carry the
// expected structure.
type ShapeError struct {
	Reason string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("unexpected response shape: %s", e.Reason)
}

// UpstreamRejection marks a reachable endpoint that signalled an
// application-level failure.
type UpstreamRejection struct {
	Code    int
	Message string
}

func (e *UpstreamRejection) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("upstream rejected request: code %d", e.Code)
	}
	return fmt.Sprintf("upstream rejected request: code %d: %s", e.Code, e.Message)
}

// PersistenceError wraps database failures from the persistence sink.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
