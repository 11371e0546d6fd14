package query

import (
	"context"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/claimdex/claimdex/pkg/claims"
)

// randomClaims builds a dataset for one provider from generated day offsets,
// deliberately producing many duplicate sort-date pairs so id tie-breaking is
// exercised.
func randomClaims(beginOffsets []uint8, spans []uint8) []claims.Claim {
	base := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	n := len(beginOffsets)
	if len(spans) < n {
		n = len(spans)
	}
	docs := make([]claims.Claim, 0, n)
	for i := 0; i < n; i++ {
		begin := base.AddDate(0, 0, int(beginOffsets[i]%10))
		var id primitive.ObjectID
		id[10] = byte(i >> 8)
		id[11] = byte(i)
		docs = append(docs, claims.Claim{
			ID:               id,
			BillingProvider:  claims.BillingProvider{ProviderID: "00-000001"},
			ServiceBeginDate: begin,
			ServiceEndDate:   begin.AddDate(0, 0, int(spans[i]%14)),
		})
	}
	return docs
}

// TestProperty_ForwardWalkIsAPartition checks that following next cursors from
// the first page visits every matching claim exactly once, in ascending sort
// order, with every page except the final one full.
func TestProperty_ForwardWalkIsAPartition(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("cursor walk enumerates the result set exactly once", prop.ForAll(
		func(beginOffsets []uint8, spans []uint8, pageSizeSeed uint8) bool {
			store := &memStore{docs: randomClaims(beginOffsets, spans)}
			p, err := NewPaginator(store)
			if err != nil {
				t.Logf("NewPaginator: %v", err)
				return false
			}
			f := Filter{ProviderID: "00-000001"}
			pageSize := int(pageSizeSeed%7) + 1
			ctx := context.Background()

			page, err := p.FirstPage(ctx, f, pageSize)
			if err != nil {
				t.Logf("FirstPage: %v", err)
				return false
			}
			total := page.Total

			var walked []claims.Claim
			for {
				if int64(len(walked))+int64(len(page.Claims)) > total {
					t.Logf("walk exceeded total %d", total)
					return false
				}
				if page.HasNext && len(page.Claims) != pageSize {
					t.Logf("non-final page holds %d claims, want %d", len(page.Claims), pageSize)
					return false
				}
				walked = append(walked, page.Claims...)
				if !page.HasNext {
					break
				}
				page, err = p.NextPage(ctx, f, page.NextCursor, pageSize)
				if err != nil {
					t.Logf("NextPage: %v", err)
					return false
				}
			}

			if int64(len(walked)) != total {
				t.Logf("walked %d claims, total is %d", len(walked), total)
				return false
			}
			seen := make(map[primitive.ObjectID]bool, len(walked))
			for i, c := range walked {
				if seen[c.ID] {
					t.Logf("claim %s visited twice", c.ID.Hex())
					return false
				}
				seen[c.ID] = true
				if i > 0 && !walked[i-1].SortKey().Less(c.SortKey()) {
					t.Logf("claims out of order at index %d", i)
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.UInt8()),
		gen.SliceOf(gen.UInt8()),
		gen.UInt8(),
	))

	properties.TestingRun(t)
}

// TestProperty_LastPageMatchesFullWalk checks that the bounded reverse scan
// behind LastPage lands on exactly the claims a full forward walk ends with.
func TestProperty_LastPageMatchesFullWalk(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("last page equals the tail of the ordered result set", prop.ForAll(
		func(beginOffsets []uint8, spans []uint8, pageSizeSeed uint8) bool {
			store := &memStore{docs: randomClaims(beginOffsets, spans)}
			p, err := NewPaginator(store)
			if err != nil {
				t.Logf("NewPaginator: %v", err)
				return false
			}
			f := Filter{ProviderID: "00-000001"}
			pageSize := int(pageSizeSeed%7) + 1
			ctx := context.Background()

			all := store.matching(f)
			page, err := p.LastPage(ctx, f, pageSize)
			if err != nil {
				t.Logf("LastPage: %v", err)
				return false
			}

			want := all
			if len(want) > pageSize {
				want = want[len(want)-pageSize:]
			}
			if len(page.Claims) != len(want) {
				t.Logf("last page holds %d claims, want %d", len(page.Claims), len(want))
				return false
			}
			for i := range want {
				if page.Claims[i].ID != want[i].ID {
					t.Logf("claim %d differs", i)
					return false
				}
			}
			return page.HasPrev == (len(all) > len(page.Claims))
		},
		gen.SliceOf(gen.UInt8()),
		gen.SliceOf(gen.UInt8()),
		gen.UInt8(),
	))

	properties.TestingRun(t)
}

// TestProperty_WindowNarrowsCount checks that adding a service-date window to a
// provider filter never reports a larger total than the unwindowed filter, and
// that a window covering the whole dataset reports the same total.
func TestProperty_WindowNarrowsCount(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	base := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)

	properties.Property("windowed total never exceeds the unwindowed total", prop.ForAll(
		func(beginOffsets []uint8, spans []uint8, winA uint8, winB uint8) bool {
			store := &memStore{docs: randomClaims(beginOffsets, spans)}
			p, err := NewPaginator(store)
			if err != nil {
				t.Logf("NewPaginator: %v", err)
				return false
			}
			ctx := context.Background()

			all, err := p.FirstPage(ctx, Filter{ProviderID: "00-000001"}, 5)
			if err != nil {
				t.Logf("FirstPage without window: %v", err)
				return false
			}

			lo, hi := int(winA%30), int(winB%30)
			if lo > hi {
				lo, hi = hi, lo
			}
			begin, end := base.AddDate(0, 0, lo), base.AddDate(0, 0, hi)
			windowed, err := p.FirstPage(ctx, Filter{
				ProviderID: "00-000001",
				Begin:      &begin,
				End:        &end,
			}, 5)
			if err != nil {
				t.Logf("FirstPage with window: %v", err)
				return false
			}
			if windowed.Total > all.Total {
				t.Logf("windowed total %d exceeds unwindowed total %d", windowed.Total, all.Total)
				return false
			}

			// randomClaims keeps every service date inside the first 24
			// days, so this window must capture the whole dataset.
			wideBegin, wideEnd := base, base.AddDate(0, 0, 30)
			wide, err := p.FirstPage(ctx, Filter{
				ProviderID: "00-000001",
				Begin:      &wideBegin,
				End:        &wideEnd,
			}, 5)
			if err != nil {
				t.Logf("FirstPage with covering window: %v", err)
				return false
			}
			if wide.Total != all.Total {
				t.Logf("covering window total %d, unwindowed total %d", wide.Total, all.Total)
				return false
			}
			return true
		},
		gen.SliceOf(gen.UInt8()),
		gen.SliceOf(gen.UInt8()),
		gen.UInt8(),
		gen.UInt8(),
	))

	properties.TestingRun(t)
}

// TestProperty_BackwardUndoesForward checks that paging backward from any page
// reproduces the page that preceded it in the forward walk.
func TestProperty_BackwardUndoesForward(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("PrevPage from page k returns page k-1", prop.ForAll(
		func(beginOffsets []uint8, spans []uint8, pageSizeSeed uint8) bool {
			store := &memStore{docs: randomClaims(beginOffsets, spans)}
			p, err := NewPaginator(store)
			if err != nil {
				t.Logf("NewPaginator: %v", err)
				return false
			}
			f := Filter{ProviderID: "00-000001"}
			pageSize := int(pageSizeSeed%7) + 1
			ctx := context.Background()

			prev, err := p.FirstPage(ctx, f, pageSize)
			if err != nil {
				t.Logf("FirstPage: %v", err)
				return false
			}
			for prev.HasNext {
				cur, err := p.NextPage(ctx, f, prev.NextCursor, pageSize)
				if err != nil {
					t.Logf("NextPage: %v", err)
					return false
				}
				back, err := p.PrevPage(ctx, f, cur.PrevCursor, pageSize)
				if err != nil {
					t.Logf("PrevPage: %v", err)
					return false
				}
				if len(back.Claims) != len(prev.Claims) {
					t.Logf("backward page holds %d claims, forward page held %d", len(back.Claims), len(prev.Claims))
					return false
				}
				for i := range back.Claims {
					if back.Claims[i].ID != prev.Claims[i].ID {
						t.Logf("claim %d differs between forward and backward traversal", i)
						return false
					}
				}
				prev = cur
			}
			return true
		},
		gen.SliceOf(gen.UInt8()),
		gen.SliceOf(gen.UInt8()),
		gen.UInt8(),
	))

	properties.TestingRun(t)
}
