package claims

import "go.mongodb.org/mongo-driver/bson"

// IndexName is the compound index backing provider queries and keyset pagination.
const IndexName = "idx_provider_id_service_begin_end_id"

// IndexKeys covers both the filter fields and the sort key, so a single index
// serves filtering, ordering and counting. serviceEndDate is included so the
// date-range overlap predicate can be answered from the index alone.
var IndexKeys = bson.D{
	{Key: "billingProvider.providerId", Value: 1},
	{Key: "serviceBeginDate", Value: 1},
	{Key: "serviceEndDate", Value: 1},
	{Key: "_id", Value: 1},
}

// OldIndexNames are earlier variants of the compound index. EnsureIndex drops
// them before creating the current one.
var OldIndexNames = []string{
	"idx_provider_tin_service_begin_id",
	"idx_provider_id_service_begin_id",
}
