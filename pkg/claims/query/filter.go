package query

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/claimdex/claimdex/pkg/claims"
)

// Filter selects claims for one billing provider, optionally restricted to a
// service-date window. The window uses overlap semantics: a claim matches when
// its own [serviceBeginDate, serviceEndDate] interval intersects [Begin, End],
// not only when it is fully contained. Filters are validated once by NewFilter
// and read-only afterwards.
type Filter struct {
	ProviderID string
	Begin      *time.Time // inclusive window start; nil means open
	End        *time.Time // inclusive window end; nil means open
}

// NewFilter builds a validated Filter. The provider id is required; either or
// both window bounds may be nil. Returns ErrInvalidArgument when the provider
// id is blank or the window is inverted.
func NewFilter(providerID string, begin, end *time.Time) (Filter, error) {
	providerID = strings.TrimSpace(providerID)
	if providerID == "" {
		return Filter{}, invalidArgumentf("provider id is required")
	}
	if begin != nil && end != nil && begin.After(*end) {
		return Filter{}, invalidArgumentf("date window start %s is after end %s",
			begin.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	return Filter{ProviderID: providerID, Begin: begin, End: end}, nil
}

// Predicate returns the MongoDB match document for the filter. Overlap
// semantics: serviceEndDate >= Begin AND serviceBeginDate <= End, each bound
// only when set.
func (f Filter) Predicate() bson.D {
	pred := bson.D{{Key: "billingProvider.providerId", Value: f.ProviderID}}
	if f.Begin != nil {
		pred = append(pred, bson.E{Key: "serviceEndDate", Value: bson.D{{Key: "$gte", Value: *f.Begin}}})
	}
	if f.End != nil {
		pred = append(pred, bson.E{Key: "serviceBeginDate", Value: bson.D{{Key: "$lte", Value: *f.End}}})
	}
	return pred
}

// Matches reports whether a claim satisfies the filter. The mongo store never
// calls this; it exists so in-process stores and tests share one definition of
// the filter semantics.
func (f Filter) Matches(c claims.Claim) bool {
	if c.BillingProvider.ProviderID != f.ProviderID {
		return false
	}
	if f.Begin != nil && c.ServiceEndDate.Before(*f.Begin) {
		return false
	}
	if f.End != nil && c.ServiceBeginDate.After(*f.End) {
		return false
	}
	return true
}

// keysetAfter narrows base to claims whose sort key is strictly greater than
// key, as the three-branch disjunction equivalent to lexicographic tuple
// comparison. The shape matches the compound index
// (providerId, serviceBeginDate, serviceEndDate, _id).
func keysetAfter(base bson.D, key claims.SortKey) bson.D {
	return bson.D{{Key: "$and", Value: bson.A{
		base,
		bson.D{{Key: "$or", Value: bson.A{
			bson.D{{Key: "serviceBeginDate", Value: bson.D{{Key: "$gt", Value: key.ServiceBeginDate}}}},
			bson.D{
				{Key: "serviceBeginDate", Value: key.ServiceBeginDate},
				{Key: "serviceEndDate", Value: bson.D{{Key: "$gt", Value: key.ServiceEndDate}}},
			},
			bson.D{
				{Key: "serviceBeginDate", Value: key.ServiceBeginDate},
				{Key: "serviceEndDate", Value: key.ServiceEndDate},
				{Key: "_id", Value: bson.D{{Key: "$gt", Value: key.ID}}},
			},
		}}},
	}}}
}

// keysetBefore is the symmetric strictly-less-than form used for backward
// paging.
func keysetBefore(base bson.D, key claims.SortKey) bson.D {
	return bson.D{{Key: "$and", Value: bson.A{
		base,
		bson.D{{Key: "$or", Value: bson.A{
			bson.D{{Key: "serviceBeginDate", Value: bson.D{{Key: "$lt", Value: key.ServiceBeginDate}}}},
			bson.D{
				{Key: "serviceBeginDate", Value: key.ServiceBeginDate},
				{Key: "serviceEndDate", Value: bson.D{{Key: "$lt", Value: key.ServiceEndDate}}},
			},
			bson.D{
				{Key: "serviceBeginDate", Value: key.ServiceBeginDate},
				{Key: "serviceEndDate", Value: key.ServiceEndDate},
				{Key: "_id", Value: bson.D{{Key: "$lt", Value: key.ID}}},
			},
		}}},
	}}}
}

// SortAsc and SortDesc are the sort documents for forward and backward index
// scans. Both directions walk the same compound index.
var (
	SortAsc = bson.D{
		{Key: "serviceBeginDate", Value: 1},
		{Key: "serviceEndDate", Value: 1},
		{Key: "_id", Value: 1},
	}
	SortDesc = bson.D{
		{Key: "serviceBeginDate", Value: -1},
		{Key: "serviceEndDate", Value: -1},
		{Key: "_id", Value: -1},
	}
)
