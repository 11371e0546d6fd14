package query

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/claimdex/claimdex/pkg/claims"
)

// Query is one bounded range scan over the claims collection: a filter, an
// optional exclusive keyset boundary, a direction, and a limit. At most one of
// After and Before is set; After pairs with ascending scans, Before with
// descending ones.
type Query struct {
	Filter     Filter
	After      *claims.SortKey
	Before     *claims.SortKey
	Descending bool
	Limit      int64
}

// Predicate returns the full MongoDB match document, including the keyset
// boundary disjunction when a boundary is present.
func (q Query) Predicate() bson.D {
	base := q.Filter.Predicate()
	switch {
	case q.After != nil:
		return keysetAfter(base, *q.After)
	case q.Before != nil:
		return keysetBefore(base, *q.Before)
	default:
		return base
	}
}

// Sort returns the sort document for the scan direction.
func (q Query) Sort() bson.D {
	if q.Descending {
		return SortDesc
	}
	return SortAsc
}

// Store is the storage collaborator the engine pages against. Implementations
// must return claims ordered by the sort key in the requested direction and
// honor the limit; the engine treats the store as a black box and never asks
// it to resolve a cursor's referenced document.
//
// Every method must respect ctx cancellation and report deadline and
// transport failures as ErrTimeout and ErrStorageUnavailable respectively.
type Store interface {
	// FindPage runs one bounded range scan and returns the matching claims
	// in scan order.
	FindPage(ctx context.Context, q Query) ([]claims.Claim, error)

	// Count returns the total number of claims matching the filter.
	Count(ctx context.Context, f Filter) (int64, error)

	// CountWithFirstPage returns the total and the first limit claims in one
	// round trip. Its cost scales with the matched set size, not the limit;
	// see CountModeCombined before reaching for it.
	CountWithFirstPage(ctx context.Context, f Filter, limit int64) (int64, []claims.Claim, error)
}
