package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/claimdex/claimdex/pkg/claims"
)

// EnsureIndex creates the compound claims index if missing and drops older
// index variants. Idempotent: safe to run repeatedly.
func (s *Store) EnsureIndex(ctx context.Context) (string, error) {
	coll := s.adapter.Collection(s.collection)

	cur, err := coll.Indexes().List(ctx)
	if err == nil {
		existing := map[string]bool{}
		var specs []bson.M
		if err := cur.All(ctx, &specs); err == nil {
			for _, spec := range specs {
				if name, ok := spec["name"].(string); ok {
					existing[name] = true
				}
			}
		}
		for _, old := range claims.OldIndexNames {
			if existing[old] {
				if _, err := coll.Indexes().DropOne(ctx, old); err != nil {
					s.log.Warn("failed to drop old claims index", "index", old, "error", err)
				} else {
					s.log.Info("dropped old claims index", "index", old)
				}
			}
		}
	}

	name, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    claims.IndexKeys,
		Options: options.Index().SetName(claims.IndexName),
	})
	if err != nil {
		return "", fmt.Errorf("claims/mongo: ensure index: %w", err)
	}
	s.log.Info("claims index ensured", "index", name)
	return name, nil
}
