package query

import "context"

// CountMode selects how FirstPage obtains the total matching-claim count.
type CountMode string

const (
	// CountModeSeparate runs a dedicated aggregate count and a separate page
	// fetch. Both use the compound index; the count never materializes
	// documents. This is the default and the only mode used for requests
	// beyond the first page.
	CountModeSeparate CountMode = "separate"

	// CountModeCombined fetches the total and the first page in one round
	// trip. Its cost grows with the size of the matched set, not the page
	// size, so it only pays off when the expected result set is small and
	// both the count and the page are needed at once.
	CountModeCombined CountMode = "combined"
)

// valid reports whether m is a recognized mode.
func (m CountMode) valid() bool {
	return m == CountModeSeparate || m == CountModeCombined
}

// total obtains the live count for the filter. Counts are never cached:
// concurrent writers may make a later page's cardinality drift from an
// earlier total, which callers accept as eventual consistency.
func (p *Paginator) total(ctx context.Context, f Filter) (int64, error) {
	return p.store.Count(ctx, f)
}
