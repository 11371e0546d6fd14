package claims

import (
	"bytes"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SortKey is the tuple (serviceBeginDate, serviceEndDate, _id) that orders all
// claims. Object ids are unique, so the tuple is a total order: no two distinct
// claims compare equal. Keyset pagination and the compound index both rely on it.
type SortKey struct {
	ServiceBeginDate time.Time
	ServiceEndDate   time.Time
	ID               primitive.ObjectID
}

// Less reports whether k sorts strictly before other, comparing fields in
// order with each later field breaking ties in the earlier ones.
func (k SortKey) Less(other SortKey) bool {
	if !k.ServiceBeginDate.Equal(other.ServiceBeginDate) {
		return k.ServiceBeginDate.Before(other.ServiceBeginDate)
	}
	if !k.ServiceEndDate.Equal(other.ServiceEndDate) {
		return k.ServiceEndDate.Before(other.ServiceEndDate)
	}
	return bytes.Compare(k.ID[:], other.ID[:]) < 0
}

// Equal reports whether both keys reference the same position.
func (k SortKey) Equal(other SortKey) bool {
	return k.ServiceBeginDate.Equal(other.ServiceBeginDate) &&
		k.ServiceEndDate.Equal(other.ServiceEndDate) &&
		k.ID == other.ID
}
