package task

import "errors"

// Sentinel errors shared between the server core and the HTTP layers.
// The HTTP handler maps them to status codes; the client maps status
// codes back to them so command code can branch with errors.Is.
var (
	// ErrUnauthenticated means the request carried no usable
	// credential.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrInvalidCredential means a credential was present but failed
	// verification (unknown, forged, or expired).
	ErrInvalidCredential = errors.New("invalid credential")

	// ErrNotFound means no task with the requested id is owned by the
	// requesting account. A task owned by someone else produces the
	// same error as a task that does not exist.
	ErrNotFound = errors.New("task not found")

	// ErrStoreUnavailable means the persistence layer failed. Never
	// retried; surfaces immediately as a generic server error.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// ValidationError is a rejected mutation: empty or oversized title, or
// a status outside the enum. Message is user-facing.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
