package vectorstore

import (
	"testing"

	"github.com/qdrant/go-client/qdrant"
)

// QdrantStore's network calls require a live collection and are exercised
// by integration tests elsewhere; here we cover the pure payload conversion
// helpers, which is where a schema mismatch would actually surface.

func TestConvertValue_Scalars(t *testing.T) {
	cases := []struct {
		name string
		in   *qdrant.Value
		want any
	}{
		{"string", &qdrant.Value{Kind: &qdrant.Value_StringValue{StringValue: "acme"}}, "acme"},
		{"integer", &qdrant.Value{Kind: &qdrant.Value_IntegerValue{IntegerValue: 7}}, int64(7)},
		{"double", &qdrant.Value{Kind: &qdrant.Value_DoubleValue{DoubleValue: 1.5}}, 1.5},
		{"bool", &qdrant.Value{Kind: &qdrant.Value_BoolValue{BoolValue: true}}, true},
		{"nil", nil, nil},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := convertValue(c.in)
			if got != c.want {
				t.Fatalf("convertValue(%v) = %v, want %v", c.in, got, c.want)
			}
		})
	}
}

func TestConvertPayload_RoundTripsKnownFields(t *testing.T) {
	payload := map[string]*qdrant.Value{
		"name":   {Kind: &qdrant.Value_StringValue{StringValue: "Acme Corp"}},
		"active": {Kind: &qdrant.Value_BoolValue{BoolValue: true}},
	}
	got := convertPayload(payload)
	if got["name"] != "Acme Corp" {
		t.Fatalf("expected name field to round-trip, got %v", got["name"])
	}
	if got["active"] != true {
		t.Fatalf("expected active field to round-trip, got %v", got["active"])
	}
}

func TestConvertPayload_NilReturnsNil(t *testing.T) {
	if got := convertPayload(nil); got != nil {
		t.Fatalf("expected nil payload to convert to nil map, got %v", got)
	}
}
