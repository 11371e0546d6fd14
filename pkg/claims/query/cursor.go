package query

import (
	"encoding/base64"
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/claimdex/claimdex/pkg/claims"
)

// Cursor is an opaque, URL-safe token encoding a sort-key boundary. Tokens are
// directionless: the same token marks the end of one page for NextPage and the
// start of that page for PrevPage. Direction is a property of the operation
// consuming the token, never of the token itself. The wire format is stable
// within a deployment so in-flight pagination sessions survive restarts.
type Cursor string

// cursorPayload is the JSON shape behind the base64 token. Dates use
// RFC 3339 with nanoseconds so sub-second precision survives the round trip.
type cursorPayload struct {
	ServiceBeginDate string `json:"b"`
	ServiceEndDate   string `json:"e"`
	ID               string `json:"id"`
}

// EncodeCursor turns a sort key into an opaque token.
func EncodeCursor(key claims.SortKey) Cursor {
	payload := cursorPayload{
		ServiceBeginDate: key.ServiceBeginDate.UTC().Format(time.RFC3339Nano),
		ServiceEndDate:   key.ServiceEndDate.UTC().Format(time.RFC3339Nano),
		ID:               key.ID.Hex(),
	}
	raw, _ := json.Marshal(payload)
	return Cursor(base64.RawURLEncoding.EncodeToString(raw))
}

// DecodeCursor parses a token back into a sort key. Structural failures
// return ErrMalformedCursor. A key that points outside the data range, or at
// a claim that has since been deleted, decodes fine; paging past it is a
// legitimate empty-page outcome, not an error.
func DecodeCursor(c Cursor) (claims.SortKey, error) {
	raw, err := base64.RawURLEncoding.DecodeString(string(c))
	if err != nil {
		return claims.SortKey{}, malformedCursorf("not base64url: %v", err)
	}
	var payload cursorPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return claims.SortKey{}, malformedCursorf("not valid JSON: %v", err)
	}
	begin, err := time.Parse(time.RFC3339Nano, payload.ServiceBeginDate)
	if err != nil {
		return claims.SortKey{}, malformedCursorf("bad serviceBeginDate: %v", err)
	}
	end, err := time.Parse(time.RFC3339Nano, payload.ServiceEndDate)
	if err != nil {
		return claims.SortKey{}, malformedCursorf("bad serviceEndDate: %v", err)
	}
	id, err := primitive.ObjectIDFromHex(payload.ID)
	if err != nil {
		return claims.SortKey{}, malformedCursorf("bad id: %v", err)
	}
	return claims.SortKey{ServiceBeginDate: begin, ServiceEndDate: end, ID: id}, nil
}
