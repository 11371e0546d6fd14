package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/claimdex/claimdex/pkg/claims/query"
)

// mapErr translates driver failures into the engine's taxonomy. Deadline
// overruns become ErrTimeout, everything else reaching the transport becomes
// ErrStorageUnavailable. Caller cancellation passes through untouched so it
// is not mistaken for a store fault.
func mapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("claims/mongo: %s: %w", op, err)
	case errors.Is(err, context.DeadlineExceeded) || mongo.IsTimeout(err):
		return fmt.Errorf("claims/mongo: %s: %w: %v", op, query.ErrTimeout, err)
	default:
		return fmt.Errorf("claims/mongo: %s: %w: %v", op, query.ErrStorageUnavailable, err)
	}
}
