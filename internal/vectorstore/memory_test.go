package vectorstore

import (
	"context"
	"testing"
)

func TestMemoryStore_UpsertThenFindByNameRoundTrips(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	vec := []float32{1, 0, 0}
	meta := map[string]any{"name": "Acme"}
	if err := s.Upsert(ctx, "acme-1", vec, meta); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	e, ok, err := s.FindByName(ctx, "Acme")
	if err != nil {
		t.Fatalf("find by name: %v", err)
	}
	if !ok {
		t.Fatalf("expected to find entry by name")
	}
	if len(e.Vector) != 3 || e.Vector[0] != 1 {
		t.Fatalf("expected vector to round-trip, got %v", e.Vector)
	}
}

func TestMemoryStore_FindByNameMissingReturnsNotOK(t *testing.T) {
	s := NewMemoryStore()
	_, ok, err := s.FindByName(context.Background(), "Nope")
	if err != nil {
		t.Fatalf("find by name: %v", err)
	}
	if ok {
		t.Fatalf("expected not-found for unknown name")
	}
}

func TestMemoryStore_KNearestOrdersByDescendingScore(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	_ = s.Upsert(ctx, "a", []float32{1, 0}, map[string]any{"name": "A"})
	_ = s.Upsert(ctx, "b", []float32{0, 1}, map[string]any{"name": "B"})
	_ = s.Upsert(ctx, "c", []float32{0.99, 0.01}, map[string]any{"name": "C"})

	matches, err := s.KNearest(ctx, []float32{1, 0}, 2, nil)
	if err != nil {
		t.Fatalf("k_nearest: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	if matches[0].Score < matches[1].Score {
		t.Fatalf("expected descending score order, got %v then %v", matches[0].Score, matches[1].Score)
	}
	if matches[0].ID != "a" && matches[0].ID != "c" {
		t.Fatalf("expected a or c to rank highest against {1,0}, got %s", matches[0].ID)
	}
}

func TestMemoryStore_KNearestAppliesFilter(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	_ = s.Upsert(ctx, "a", []float32{1, 0}, map[string]any{"name": "A", "region": "us"})
	_ = s.Upsert(ctx, "b", []float32{1, 0}, map[string]any{"name": "B", "region": "eu"})

	matches, err := s.KNearest(ctx, []float32{1, 0}, 5, map[string]any{"region": "eu"})
	if err != nil {
		t.Fatalf("k_nearest: %v", err)
	}
	if len(matches) != 1 || matches[0].ID != "b" {
		t.Fatalf("expected filter to restrict to entry b, got %v", matches)
	}
}
