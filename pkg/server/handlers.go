package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/claimdex/claimdex/pkg/claims"
	"github.com/claimdex/claimdex/pkg/claims/query"
	"github.com/claimdex/claimdex/pkg/observability/metrics"
)

// pageRequest is the request body for POST /api/page. Exactly one page
// operation runs per request: before_cursor selects the previous page,
// last_page jumps to the end, cursor selects the next page, and none of the
// three selects the first page.
type pageRequest struct {
	ProviderID   string `json:"provider_id"`
	PageSize     int    `json:"page_size"`
	DateStart    string `json:"date_start"`
	DateEnd      string `json:"date_end"`
	Cursor       string `json:"cursor"`
	BeforeCursor string `json:"before_cursor"`
	LastPage     bool   `json:"last_page"`
	IncludeCount bool   `json:"include_count"`
}

// pageResponse mirrors the engine's Page. Total and NumPages are omitted for
// operations that did not compute a count.
type pageResponse struct {
	Documents  []claims.Claim     `json:"documents"`
	Total      *int64             `json:"total,omitempty"`
	NumPages   *int               `json:"numPages,omitempty"`
	PageSize   int                `json:"pageSize"`
	HasNext    bool               `json:"hasNext"`
	HasPrev    bool               `json:"hasPrev"`
	NextCursor string             `json:"nextCursor,omitempty"`
	PrevCursor string             `json:"prevCursor,omitempty"`
	Timings    map[string]float64 `json:"timings"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handlePage(c *gin.Context) {
	var req pageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	filter, err := s.buildFilter(req)
	if err != nil {
		s.respondError(c, err)
		return
	}
	pageSize := s.clampPageSize(req.PageSize)

	var requestOpts []query.PageOption
	if req.IncludeCount {
		requestOpts = append(requestOpts, query.WithTotal())
	}

	ctx := c.Request.Context()
	var (
		page      *query.Page
		operation string
	)
	start := time.Now()
	switch {
	case req.Cursor == "" && req.BeforeCursor != "":
		operation = metrics.OpPrevPage
		page, err = s.engine.PrevPage(ctx, filter, query.Cursor(req.BeforeCursor), pageSize, requestOpts...)
	case req.Cursor == "" && req.LastPage:
		operation = metrics.OpLastPage
		page, err = s.engine.LastPage(ctx, filter, pageSize)
	case req.Cursor != "":
		operation = metrics.OpNextPage
		page, err = s.engine.NextPage(ctx, filter, query.Cursor(req.Cursor), pageSize, requestOpts...)
	default:
		operation = metrics.OpFirstPage
		page, err = s.engine.FirstPage(ctx, filter, pageSize)
	}
	elapsed := time.Since(start)
	metrics.RecordQuery(operation, err, elapsed)

	if err != nil {
		s.respondError(c, err)
		return
	}

	resp := pageResponse{
		Documents:  page.Claims,
		PageSize:   page.PageSize,
		HasNext:    page.HasNext,
		HasPrev:    page.HasPrev,
		NextCursor: string(page.NextCursor),
		PrevCursor: string(page.PrevCursor),
		Timings: map[string]float64{
			operation + "_ms": float64(elapsed.Microseconds()) / 1000,
		},
	}
	if page.Total >= 0 {
		total := page.Total
		numPages := page.NumPages
		resp.Total = &total
		resp.NumPages = &numPages
	}
	if resp.Documents == nil {
		resp.Documents = []claims.Claim{}
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) buildFilter(req pageRequest) (query.Filter, error) {
	begin, err := parseDate(req.DateStart)
	if err != nil {
		return query.Filter{}, err
	}
	end, err := parseDate(req.DateEnd)
	if err != nil {
		return query.Filter{}, err
	}
	return query.NewFilter(req.ProviderID, begin, end)
}

func (s *Server) clampPageSize(pageSize int) int {
	if pageSize < 1 {
		return s.defaultPageSize
	}
	if pageSize > s.maxPageSize {
		return s.maxPageSize
	}
	return pageSize
}

// parseDate accepts YYYY-MM-DD (longer strings are truncated to their date
// part) and returns UTC midnight. Empty input means no bound.
func parseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if len(s) > 10 {
		s = s[:10]
	}
	t, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date %q", query.ErrInvalidArgument, s)
	}
	return &t, nil
}

func (s *Server) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, query.ErrInvalidArgument), errors.Is(err, query.ErrMalformedCursor):
		status = http.StatusBadRequest
	case errors.Is(err, query.ErrTimeout):
		status = http.StatusGatewayTimeout
	case errors.Is(err, query.ErrStorageUnavailable):
		status = http.StatusServiceUnavailable
	}
	if status >= 500 {
		s.log.Error("page request failed", "status", status, "error", err)
	}
	c.JSON(status, errorResponse{Error: err.Error()})
}
