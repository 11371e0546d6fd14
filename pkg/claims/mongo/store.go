// Package mongo implements the claims storage collaborator on MongoDB.
package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/claimdex/claimdex/pkg/claims"
	"github.com/claimdex/claimdex/pkg/claims/query"
	"github.com/claimdex/claimdex/pkg/observability/logger"
	"github.com/claimdex/claimdex/pkg/store/mongodb"
)

// compile-time interface check
var _ query.Store = (*Store)(nil)

// Store translates engine queries into MongoDB operations against the claims
// collection. All reads go through the compound index; the store never
// resolves a cursor's referenced document, only compares against its key.
type Store struct {
	adapter    *mongodb.Adapter
	collection string
	log        logger.Logger
}

// NewStore creates a claims store over the given adapter. An empty collection
// name falls back to claims.CollectionName.
func NewStore(adapter *mongodb.Adapter, collection string, log logger.Logger) (*Store, error) {
	if adapter == nil {
		return nil, fmt.Errorf("mongodb adapter is required")
	}
	if collection == "" {
		collection = claims.CollectionName
	}
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Store{adapter: adapter, collection: collection, log: log}, nil
}

// FindPage runs one bounded range scan in the requested direction.
func (s *Store) FindPage(ctx context.Context, q query.Query) ([]claims.Claim, error) {
	docs := []claims.Claim{}
	err := s.adapter.Find(ctx, s.collection, q.Predicate(), q.Sort(), q.Limit, &docs)
	if err != nil {
		return nil, mapErr("find page", err)
	}
	return docs, nil
}

// Count returns the number of claims matching the filter. The count uses the
// same index path as FindPage and materializes no documents.
func (s *Store) Count(ctx context.Context, f query.Filter) (int64, error) {
	n, err := s.adapter.CountDocuments(ctx, s.collection, f.Predicate())
	if err != nil {
		return 0, mapErr("count", err)
	}
	return n, nil
}

// facetResult is the decoded shape of the count+first-page pipeline output.
type facetResult struct {
	Total []struct {
		Count int64 `bson:"count"`
	} `bson:"total"`
	FirstPage []claims.Claim `bson:"firstPage"`
}

// CountWithFirstPage returns the total and the first limit claims via a
// single $facet aggregation. The count branch walks every matching document,
// so the round trip saved comes at a cost proportional to the matched set.
func (s *Store) CountWithFirstPage(ctx context.Context, f query.Filter, limit int64) (int64, []claims.Claim, error) {
	pipeline := []bson.D{
		{{Key: "$match", Value: f.Predicate()}},
		{{Key: "$facet", Value: bson.D{
			{Key: "total", Value: bson.A{
				bson.D{{Key: "$count", Value: "count"}},
			}},
			{Key: "firstPage", Value: bson.A{
				bson.D{{Key: "$sort", Value: query.SortAsc}},
				bson.D{{Key: "$limit", Value: limit}},
			}},
		}}},
	}

	results := []facetResult{}
	if err := s.adapter.Aggregate(ctx, s.collection, pipeline, &results); err != nil {
		return 0, nil, mapErr("count with first page", err)
	}
	if len(results) == 0 {
		return 0, []claims.Claim{}, nil
	}
	facet := results[0]
	var total int64
	if len(facet.Total) > 0 {
		total = facet.Total[0].Count
	}
	return total, facet.FirstPage, nil
}

// InsertClaims writes a batch of claims. Used by the data generator.
func (s *Store) InsertClaims(ctx context.Context, batch []claims.Claim) (int, error) {
	docs := make([]interface{}, len(batch))
	for i := range batch {
		docs[i] = batch[i]
	}
	n, err := s.adapter.InsertMany(ctx, s.collection, docs)
	if err != nil {
		return n, mapErr("insert claims", err)
	}
	return n, nil
}
