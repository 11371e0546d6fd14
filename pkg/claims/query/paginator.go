// Package query implements keyset pagination, filtering and total counts over
// the claims collection. Pages are addressed by opaque cursors encoding the
// sort-key tuple of a page boundary, so the cost of any page is bounded by the
// page size regardless of how deep into the result set it sits.
package query

import (
	"context"
	"fmt"

	"github.com/claimdex/claimdex/pkg/claims"
	"github.com/claimdex/claimdex/pkg/observability/logger"
)

// Default page-size bounds, matching the public API's clamp range.
const (
	DefaultPageSize = 100
	MaxPageSize     = 1000
)

// Page is one slice of a filter's result set, always in ascending sort order.
type Page struct {
	Claims   []claims.Claim
	PageSize int

	// Total is the number of claims matching the filter across all pages,
	// or -1 when the operation did not compute it. NumPages is derived from
	// Total and PageSize, 0 when Total is unknown.
	Total    int64
	NumPages int

	HasNext bool
	HasPrev bool

	// NextCursor resumes forward traversal after the last claim of this
	// page; PrevCursor resumes backward traversal before the first one.
	// Empty when no page exists in that direction.
	NextCursor Cursor
	PrevCursor Cursor
}

// Paginator is the page-retrieval contract exposed to the web and CLI layers.
// It holds no mutable state across requests: every call is self-contained
// given (filter, cursor, page size) and safe to run concurrently.
type Paginator struct {
	store     Store
	log       logger.Logger
	countMode CountMode
	maxSize   int
}

// Option configures a Paginator.
type Option func(*Paginator)

// WithCountMode selects the first-page count strategy. The default is
// CountModeSeparate.
func WithCountMode(m CountMode) Option {
	return func(p *Paginator) { p.countMode = m }
}

// WithMaxPageSize caps the page size accepted by all operations.
func WithMaxPageSize(n int) Option {
	return func(p *Paginator) { p.maxSize = n }
}

// WithLogger attaches a logger for debug-level query tracing.
func WithLogger(log logger.Logger) Option {
	return func(p *Paginator) { p.log = log }
}

// NewPaginator builds a Paginator over the given store.
func NewPaginator(store Store, opts ...Option) (*Paginator, error) {
	if store == nil {
		return nil, fmt.Errorf("store is required")
	}
	p := &Paginator{
		store:     store,
		log:       logger.NewNopLogger(),
		countMode: CountModeSeparate,
		maxSize:   MaxPageSize,
	}
	for _, opt := range opts {
		opt(p)
	}
	if !p.countMode.valid() {
		return nil, fmt.Errorf("unknown count mode %q", p.countMode)
	}
	if p.maxSize < 1 {
		return nil, fmt.Errorf("max page size must be at least 1, got %d", p.maxSize)
	}
	return p, nil
}

// PageOption adjusts a single page request.
type PageOption func(*pageRequest)

type pageRequest struct {
	withTotal bool
}

// WithTotal makes NextPage and PrevPage also compute the live total and page
// count, at the cost of one extra count operation. FirstPage and LastPage
// always include the total.
func WithTotal() PageOption {
	return func(r *pageRequest) { r.withTotal = true }
}

// FirstPage returns the first page of the filter's result set together with
// the total count. With CountModeSeparate the count and the page fetch are
// two independent index operations; with CountModeCombined both come back in
// a single round trip.
func (p *Paginator) FirstPage(ctx context.Context, f Filter, pageSize int) (*Page, error) {
	pageSize, err := p.checkPageSize(pageSize)
	if err != nil {
		return nil, err
	}

	var (
		total   int64
		docs    []claims.Claim
		hasMore bool
	)
	switch p.countMode {
	case CountModeCombined:
		total, docs, err = p.store.CountWithFirstPage(ctx, f, int64(pageSize)+1)
		if err != nil {
			return nil, err
		}
		docs, hasMore = trimOverfetch(docs, pageSize)
	default:
		total, err = p.total(ctx, f)
		if err != nil {
			return nil, err
		}
		docs, hasMore, err = pageFetcher{p.store}.forward(ctx, f, nil, pageSize)
		if err != nil {
			return nil, err
		}
	}

	p.log.Debug("first page fetched",
		"provider_id", f.ProviderID, "total", total, "returned", len(docs), "has_next", hasMore)

	page := &Page{
		Claims:   docs,
		PageSize: pageSize,
		Total:    total,
		NumPages: numPages(total, pageSize),
		HasNext:  hasMore,
	}
	if hasMore {
		page.NextCursor = EncodeCursor(docs[len(docs)-1].SortKey())
	}
	return page, nil
}

// NextPage returns the page strictly after the cursor. An exhausted cursor is
// not an error: the result is an empty page with HasNext false.
func (p *Paginator) NextPage(ctx context.Context, f Filter, cursor Cursor, pageSize int, opts ...PageOption) (*Page, error) {
	pageSize, err := p.checkPageSize(pageSize)
	if err != nil {
		return nil, err
	}
	key, err := DecodeCursor(cursor)
	if err != nil {
		return nil, err
	}
	req := applyPageOptions(opts)

	docs, hasMore, err := pageFetcher{p.store}.forward(ctx, f, &key, pageSize)
	if err != nil {
		return nil, err
	}

	page := &Page{
		Claims:   docs,
		PageSize: pageSize,
		Total:    -1,
		HasNext:  hasMore,
		// The cursor was minted from an earlier page, so claims at or
		// before the boundary existed when it was issued.
		HasPrev:    true,
		PrevCursor: cursor,
	}
	if len(docs) > 0 {
		page.PrevCursor = EncodeCursor(docs[0].SortKey())
	}
	if hasMore {
		page.NextCursor = EncodeCursor(docs[len(docs)-1].SortKey())
	}
	if err := p.fillTotal(ctx, f, req, page); err != nil {
		return nil, err
	}
	return page, nil
}

// PrevPage returns the page strictly before the cursor, still in ascending
// order. HasPrev reports whether claims exist before the returned page.
func (p *Paginator) PrevPage(ctx context.Context, f Filter, cursor Cursor, pageSize int, opts ...PageOption) (*Page, error) {
	pageSize, err := p.checkPageSize(pageSize)
	if err != nil {
		return nil, err
	}
	key, err := DecodeCursor(cursor)
	if err != nil {
		return nil, err
	}
	req := applyPageOptions(opts)

	docs, hasMore, err := pageFetcher{p.store}.backward(ctx, f, &key, pageSize)
	if err != nil {
		return nil, err
	}

	page := &Page{
		Claims:   docs,
		PageSize: pageSize,
		Total:    -1,
		// The boundary claim sat on a later page when the cursor was
		// minted, so forward traversal can resume.
		HasNext: true,
		HasPrev: hasMore,
	}
	if len(docs) > 0 {
		page.NextCursor = EncodeCursor(docs[len(docs)-1].SortKey())
	} else {
		// Mirrors the empty forward page: the original cursor is handed
		// back so traversal can resume toward the data it points at.
		page.NextCursor = cursor
	}
	if hasMore {
		page.PrevCursor = EncodeCursor(docs[0].SortKey())
	}
	if err := p.fillTotal(ctx, f, req, page); err != nil {
		return nil, err
	}
	return page, nil
}

// LastPage returns the final page of the result set via a bounded reverse
// scan, never traversing intermediate pages. The total is always computed:
// it both fills the page metadata and decides HasPrev.
func (p *Paginator) LastPage(ctx context.Context, f Filter, pageSize int) (*Page, error) {
	pageSize, err := p.checkPageSize(pageSize)
	if err != nil {
		return nil, err
	}

	total, err := p.total(ctx, f)
	if err != nil {
		return nil, err
	}
	docs, err := pageFetcher{p.store}.last(ctx, f, pageSize)
	if err != nil {
		return nil, err
	}

	page := &Page{
		Claims:   docs,
		PageSize: pageSize,
		Total:    total,
		NumPages: numPages(total, pageSize),
		HasPrev:  total > int64(len(docs)),
	}
	if page.HasPrev && len(docs) > 0 {
		page.PrevCursor = EncodeCursor(docs[0].SortKey())
	}
	return page, nil
}

func (p *Paginator) checkPageSize(pageSize int) (int, error) {
	if pageSize < 1 {
		return 0, invalidArgumentf("page size must be at least 1, got %d", pageSize)
	}
	if pageSize > p.maxSize {
		pageSize = p.maxSize
	}
	return pageSize, nil
}

func (p *Paginator) fillTotal(ctx context.Context, f Filter, req pageRequest, page *Page) error {
	if !req.withTotal {
		return nil
	}
	total, err := p.total(ctx, f)
	if err != nil {
		return err
	}
	page.Total = total
	page.NumPages = numPages(total, page.PageSize)
	return nil
}

func applyPageOptions(opts []PageOption) pageRequest {
	var req pageRequest
	for _, opt := range opts {
		opt(&req)
	}
	return req
}

func numPages(total int64, pageSize int) int {
	if total < 0 || pageSize < 1 {
		return 0
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}
