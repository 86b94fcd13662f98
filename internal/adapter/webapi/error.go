package webapi

import "fmt"

// Kind classifies a failed API call.
type Kind string

const (
	KindTransport Kind = "transport" // connection-level failure
	KindTimeout   Kind = "timeout"   // deadline exceeded
	KindStatus    Kind = "status"    // non-2xx response
	KindDecode    Kind = "decode"    // body was not the expected JSON
	KindOpen      Kind = "open"      // circuit breaker rejected the call
)

// Error is the typed failure every provider call returns instead of a raw
// transport error. Callers match on Kind; nothing here is fatal to the job.
type Error struct {
	Kind    Kind
	Status  int // HTTP status code, when Kind is KindStatus
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: status %d: %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}
