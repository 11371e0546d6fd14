package query

import (
	"encoding/base64"
	"errors"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/claimdex/claimdex/pkg/claims"
)

func TestCursorRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		key  claims.SortKey
	}{
		{
			name: "midnight dates",
			key: claims.SortKey{
				ServiceBeginDate: day(t, "2021-03-01"),
				ServiceEndDate:   day(t, "2021-03-05"),
				ID:               primitive.ObjectID{0xde, 0xad, 0xbe, 0xef},
			},
		},
		{
			name: "nanosecond precision survives",
			key: claims.SortKey{
				ServiceBeginDate: time.Date(2021, 3, 1, 13, 45, 12, 123456789, time.UTC),
				ServiceEndDate:   time.Date(2021, 3, 5, 23, 59, 59, 999999999, time.UTC),
				ID:               primitive.ObjectID{0x01},
			},
		},
		{
			name: "zero object id",
			key: claims.SortKey{
				ServiceBeginDate: day(t, "2000-01-01"),
				ServiceEndDate:   day(t, "2000-01-01"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := EncodeCursor(tt.key)
			got, err := DecodeCursor(c)
			if err != nil {
				t.Fatalf("DecodeCursor: %v", err)
			}
			if !got.Equal(tt.key) {
				t.Errorf("round trip changed key: got %+v, want %+v", got, tt.key)
			}
		})
	}
}

func TestCursorIsURLSafe(t *testing.T) {
	key := claims.SortKey{
		ServiceBeginDate: day(t, "2021-03-01"),
		ServiceEndDate:   day(t, "2021-03-05"),
		ID:               primitive.ObjectID{0xff, 0xfe, 0xfd},
	}
	c := string(EncodeCursor(key))
	for _, r := range c {
		switch {
		case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			t.Fatalf("cursor contains non-URL-safe character %q: %s", r, c)
		}
	}
}

func TestDecodeCursorMalformed(t *testing.T) {
	b64 := func(s string) Cursor {
		return Cursor(base64.RawURLEncoding.EncodeToString([]byte(s)))
	}

	tests := []struct {
		name string
		in   Cursor
	}{
		{"empty token", Cursor("")},
		{"not base64url", Cursor("%%%not-base64%%%")},
		{"standard base64 padding", Cursor("eyJiIjoieCJ9==")},
		{"not JSON", b64("plainly not json")},
		{"unparseable begin date", b64(`{"b":"yesterday","e":"2021-03-05T00:00:00Z","id":"000000000000000000000001"}`)},
		{"unparseable end date", b64(`{"b":"2021-03-01T00:00:00Z","e":"03/05/2021","id":"000000000000000000000001"}`)},
		{"bad object id", b64(`{"b":"2021-03-01T00:00:00Z","e":"2021-03-05T00:00:00Z","id":"zz"}`)},
		{"missing fields", b64(`{}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeCursor(tt.in)
			if !errors.Is(err, ErrMalformedCursor) {
				t.Errorf("err = %v, want ErrMalformedCursor", err)
			}
		})
	}
}

// Decoding an arbitrary well-formed token never depends on whether the
// referenced claim exists, so any encoded key must decode back to itself.
func TestProperty_CursorRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("encode then decode is the identity on sort keys", prop.ForAll(
		func(beginUnix int64, spanSeconds uint32, beginNanos uint32, endNanos uint32, idBytes []byte) bool {
			var id primitive.ObjectID
			copy(id[:], idBytes)

			begin := time.Unix(beginUnix%4102444800, int64(beginNanos%1000000000)).UTC()
			end := begin.Add(time.Duration(spanSeconds) * time.Second).
				Add(time.Duration(endNanos%1000000000) * time.Nanosecond)

			key := claims.SortKey{ServiceBeginDate: begin, ServiceEndDate: end, ID: id}
			decoded, err := DecodeCursor(EncodeCursor(key))
			if err != nil {
				t.Logf("decode failed for %+v: %v", key, err)
				return false
			}
			return decoded.Equal(key)
		},
		gen.Int64Range(0, 4102444800),
		gen.UInt32(),
		gen.UInt32(),
		gen.UInt32(),
		gen.SliceOfN(12, gen.UInt8()),
	))

	properties.TestingRun(t)
}
