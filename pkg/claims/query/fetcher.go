package query

import (
	"context"

	"github.com/claimdex/claimdex/pkg/claims"
)

// pageFetcher issues the bounded range scans behind every page operation. It
// always over-fetches by one document so the caller learns whether more rows
// exist beyond the page without a second round trip.
type pageFetcher struct {
	store Store
}

// forward returns up to pageSize claims in ascending sort order, starting
// strictly after the boundary when one is given. hasMore reports whether at
// least one matching claim exists beyond the returned page.
func (pf pageFetcher) forward(ctx context.Context, f Filter, after *claims.SortKey, pageSize int) ([]claims.Claim, bool, error) {
	docs, err := pf.store.FindPage(ctx, Query{
		Filter: f,
		After:  after,
		Limit:  int64(pageSize) + 1,
	})
	if err != nil {
		return nil, false, err
	}
	docs, hasMore := trimOverfetch(docs, pageSize)
	return docs, hasMore, nil
}

// backward returns up to pageSize claims strictly before the boundary. The
// store hands them back in descending order; they are reversed here so the
// caller always sees ascending pages. hasMore reports whether claims exist
// before the returned page.
func (pf pageFetcher) backward(ctx context.Context, f Filter, before *claims.SortKey, pageSize int) ([]claims.Claim, bool, error) {
	docs, err := pf.store.FindPage(ctx, Query{
		Filter:     f,
		Before:     before,
		Descending: true,
		Limit:      int64(pageSize) + 1,
	})
	if err != nil {
		return nil, false, err
	}
	docs, hasMore := trimOverfetch(docs, pageSize)
	reverse(docs)
	return docs, hasMore, nil
}

// last resolves the final page with a single reverse index scan bounded by
// pageSize. Nothing exists beyond the last page by construction, so there is
// no over-fetch; cost is independent of how deep the result set is.
func (pf pageFetcher) last(ctx context.Context, f Filter, pageSize int) ([]claims.Claim, error) {
	docs, err := pf.store.FindPage(ctx, Query{
		Filter:     f,
		Descending: true,
		Limit:      int64(pageSize),
	})
	if err != nil {
		return nil, err
	}
	reverse(docs)
	return docs, nil
}

func trimOverfetch(docs []claims.Claim, pageSize int) ([]claims.Claim, bool) {
	if len(docs) > pageSize {
		return docs[:pageSize], true
	}
	return docs, false
}

func reverse(docs []claims.Claim) {
	for i, j := 0, len(docs)-1; i < j; i, j = i+1, j-1 {
		docs[i], docs[j] = docs[j], docs[i]
	}
}
