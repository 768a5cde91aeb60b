package lifecycle

import (
	"errors"
	"fmt"
)

var (
	// ErrNotAuthenticated is returned when an operation needs a user identity
	// and none is present.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrAlreadyVoted is returned when the user already voted in the category.
	ErrAlreadyVoted = errors.New("already voted in this category")

	// ErrAlreadyRated is returned when the user already rated the event.
	ErrAlreadyRated = errors.New("already rated this event")

	// ErrNotFound is returned when the group or event does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput is returned for malformed arguments.
	ErrInvalidInput = errors.New("invalid input")

	// ErrStoreFailure wraps errors from the underlying document store.
	ErrStoreFailure = errors.New("store failure")
)

// Kind classifies an error returned by the service.
type Kind string

const (
	KindNone             Kind = ""
	KindNotAuthenticated Kind = "NOT_AUTHENTICATED"
	KindAlreadyVoted     Kind = "ALREADY_VOTED"
	KindAlreadyRated     Kind = "ALREADY_RATED"
	KindNotFound         Kind = "NOT_FOUND"
	KindInvalidInput     Kind = "INVALID_INPUT"
	KindStoreFailure     Kind = "STORE_FAILURE"
	KindUnknown          Kind = "UNKNOWN"
)

// KindOf reports which class err belongs to.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrNotAuthenticated):
		return KindNotAuthenticated
	case errors.Is(err, ErrAlreadyVoted):
		return KindAlreadyVoted
	case errors.Is(err, ErrAlreadyRated):
		return KindAlreadyRated
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrInvalidInput):
		return KindInvalidInput
	case errors.Is(err, ErrStoreFailure):
		return KindStoreFailure
	default:
		return KindUnknown
	}
}

func invalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

func notFound(what, id string) error {
	return fmt.Errorf("%s %s: %w", what, id, ErrNotFound)
}

func storeFailure(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStoreFailure, op, err)
}
