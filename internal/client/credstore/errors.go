package credstore

import (
	"errors"
	"fmt"
)

// ErrNotFound is a true miss. It is never wrapped in a StorageError.
var ErrNotFound = errors.New("credential not found")

type StorageErrorKind int

const (
	Unavailable StorageErrorKind = iota + 1
	SerializationFailure
)

func (k StorageErrorKind) String() string {
	switch k {
	case Unavailable:
		return "unavailable"
	case SerializationFailure:
		return "serialization failure"
	default:
		return "unknown"
	}
}

// StorageError reports a failure of the store itself.
type StorageError struct {
	Kind StorageErrorKind
	Op   string
	Key  string
	Err  error
}

var (
	ErrUnavailable   = &StorageError{Kind: Unavailable}
	ErrSerialization = &StorageError{Kind: SerializationFailure}
)

func (e *StorageError) Error() string {
	msg := "credential store " + e.Kind.String()
	if e.Op != "" {
		msg += ": " + e.Op
		if e.Key != "" {
			msg += fmt.Sprintf("[%s]", e.Key)
		}
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *StorageError) Unwrap() error { return e.Err }

// Is matches ErrUnavailable and ErrSerialization by kind.
func (e *StorageError) Is(target error) bool {
	t, ok := target.(*StorageError)
	if !ok {
		return false
	}
	return t.Op == "" && t.Key == "" && t.Err == nil && t.Kind == e.Kind
}
