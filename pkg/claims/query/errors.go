package query

import (
	"errors"
	"fmt"
)

// Engine failure taxonomy. Callers classify with errors.Is; every error the
// engine returns wraps exactly one of these sentinels. None of them is retried
// inside the engine.
var (
	// ErrInvalidArgument marks requests rejected before any storage call:
	// empty provider id, inverted date window, non-positive page size.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrMalformedCursor marks cursor tokens that fail to decode. A cursor
	// that decodes to a key no longer present in the store is not malformed.
	ErrMalformedCursor = errors.New("malformed cursor")

	// ErrTimeout marks storage operations that exceeded their deadline.
	// No partial page is returned alongside it.
	ErrTimeout = errors.New("storage operation timed out")

	// ErrStorageUnavailable marks connection or transport failures.
	ErrStorageUnavailable = errors.New("storage unavailable")
)

func invalidArgumentf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

func malformedCursorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedCursor, fmt.Sprintf(format, args...))
}
