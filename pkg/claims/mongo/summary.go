package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProviderSummary is one row of the facet-by-provider aggregation.
type ProviderSummary struct {
	ProviderID          string               `bson:"providerId" json:"providerId"`
	Count               int64                `bson:"count" json:"count"`
	MinServiceBeginDate time.Time            `bson:"minServiceBeginDate" json:"minServiceBeginDate"`
	MaxServiceEndDate   time.Time            `bson:"maxServiceEndDate" json:"maxServiceEndDate"`
	SampleClaimIDs      []primitive.ObjectID `bson:"sampleClaimIds,omitempty" json:"sampleClaimIds,omitempty"`
}

// SummaryOptions restricts and shapes the provider summary aggregation.
// A nil date bound means no constraint on that side; the window uses the same
// overlap semantics as the query engine.
type SummaryOptions struct {
	Begin *time.Time
	End   *time.Time

	// IncludeSampleClaimIDs adds up to SampleSize claim ids per provider.
	// Off by default: large providers would push big arrays through the
	// $group stage.
	IncludeSampleClaimIDs bool
	SampleSize            int
}

// SummarizeByProvider groups all claims by billing provider and returns one
// summary per provider, largest claim counts first.
func (s *Store) SummarizeByProvider(ctx context.Context, opts SummaryOptions) ([]ProviderSummary, error) {
	var pipeline []bson.D

	if opts.Begin != nil || opts.End != nil {
		match := bson.D{}
		if opts.Begin != nil {
			match = append(match, bson.E{Key: "serviceEndDate", Value: bson.D{{Key: "$gte", Value: *opts.Begin}}})
		}
		if opts.End != nil {
			match = append(match, bson.E{Key: "serviceBeginDate", Value: bson.D{{Key: "$lte", Value: *opts.End}}})
		}
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: match}})
	}

	group := bson.D{
		{Key: "_id", Value: "$billingProvider.providerId"},
		{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		{Key: "minServiceBeginDate", Value: bson.D{{Key: "$min", Value: "$serviceBeginDate"}}},
		{Key: "maxServiceEndDate", Value: bson.D{{Key: "$max", Value: "$serviceEndDate"}}},
	}
	if opts.IncludeSampleClaimIDs {
		group = append(group, bson.E{Key: "sampleClaimIds", Value: bson.D{{Key: "$push", Value: "$_id"}}})
	}
	pipeline = append(pipeline, bson.D{{Key: "$group", Value: group}})

	if opts.IncludeSampleClaimIDs && opts.SampleSize > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$addFields", Value: bson.D{
			{Key: "sampleClaimIds", Value: bson.D{{Key: "$slice", Value: bson.A{"$sampleClaimIds", opts.SampleSize}}}},
		}}})
	}

	pipeline = append(pipeline,
		bson.D{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}}}},
		bson.D{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "providerId", Value: "$_id"},
			{Key: "count", Value: 1},
			{Key: "minServiceBeginDate", Value: 1},
			{Key: "maxServiceEndDate", Value: 1},
			{Key: "sampleClaimIds", Value: 1},
		}}},
	)

	summaries := []ProviderSummary{}
	if err := s.adapter.Aggregate(ctx, s.collection, pipeline, &summaries); err != nil {
		return nil, mapErr("summarize by provider", err)
	}
	return summaries, nil
}
