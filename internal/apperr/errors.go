// Package apperr defines the error kinds shared between the catalog and its callers.
package apperr

import "errors"

var (
	ErrInvalidArgument     = errors.New("invalid argument")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)

// Error carries a user-facing message for one of the kinds above.
// errors.Is(err, ErrInvalidArgument) matches on Kind; the cause stays
// reachable through errors.Unwrap.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Is(target error) bool {
	return target == e.Kind
}

func (e *Error) Unwrap() error {
	return e.Err
}

// InvalidArgument reports a caller mistake such as a bad page number.
func InvalidArgument(msg string) error {
	return &Error{Kind: ErrInvalidArgument, Message: msg}
}

// UpstreamUnavailable reports a failed call to the character source.
func UpstreamUnavailable(msg string, cause error) error {
	return &Error{Kind: ErrUpstreamUnavailable, Message: msg, Err: cause}
}

// Message returns the user-facing message of err if it is an *Error.
func Message(err error) (string, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Message, true
	}
	return "", false
}
