package eventsource

import (
	"errors"
	"fmt"
)

// Sentinel errors for the error taxonomy of the read path.
var (
	// ErrInvalidArgument is returned for bad inputs, detected before any backend call.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrBackendUnavailable is returned when the session reports a connectivity or transport failure.
	ErrBackendUnavailable = errors.New("backend unavailable")
	// ErrQuery is returned when the backend rejects a query.
	ErrQuery = errors.New("query error")
	// ErrDeserialization is returned when a stored payload cannot be decoded.
	ErrDeserialization = errors.New("deserialization error")
)

// DeserializationError describes a payload that is not a JSON object.
type DeserializationError struct {
	StreamName string
	Position   int64
	// Field is either "data" or "metadata"
	Field string
	Err   error
}

func (e *DeserializationError) Error() string {
	if e.StreamName == "" {
		return fmt.Sprintf("%v: %s: %v", ErrDeserialization, e.Field, e.Err)
	}
	return fmt.Sprintf("%v: %s of stream '%s' at position %d: %v", ErrDeserialization, e.Field, e.StreamName, e.Position, e.Err)
}

// Is reports whether target is ErrDeserialization.
func (e *DeserializationError) Is(target error) bool {
	return target == ErrDeserialization
}

func (e *DeserializationError) Unwrap() error {
	return e.Err
}

func invalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}
