package vectorstore

import (
	"context"
	"math"
	"sort"
	"sync"
)

// MemoryStore is a reference Store implementation backed by a plain map,
// used in tests and as a zero-dependency fallback when no Qdrant endpoint
// is configured. k_nearest is a brute-force cosine-similarity scan, fine at
// the scale a single pipeline run needs.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewMemoryStore returns an empty, ready-to-use MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]Entry)}
}

func (m *MemoryStore) Upsert(ctx context.Context, id string, vector []float32, metadata map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[id] = Entry{ID: id, Vector: vector, Metadata: metadata}
	return nil
}

func (m *MemoryStore) FindByName(ctx context.Context, name string) (Entry, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, e := range m.entries {
		if n, ok := e.Metadata["name"]; ok {
			if s, ok := n.(string); ok && s == name {
				return e, true, nil
			}
		}
	}
	return Entry{}, false, nil
}

func (m *MemoryStore) KNearest(ctx context.Context, vector []float32, k int, filter map[string]any) ([]Match, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	matches := make([]Match, 0, len(m.entries))
	for _, e := range m.entries {
		if !matchesFilter(e.Metadata, filter) {
			continue
		}
		matches = append(matches, Match{Entry: e, Score: cosineSimilarity(vector, e.Vector)})
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Score > matches[j].Score })
	if k > 0 && len(matches) > k {
		matches = matches[:k]
	}
	return matches, nil
}

func matchesFilter(metadata, filter map[string]any) bool {
	for k, v := range filter {
		if metadata[k] != v {
			return false
		}
	}
	return true
}

// cosineSimilarity maps [-1,1] cosine similarity onto the [0,1] score range
// spec §6 requires, returning 0 for mismatched or zero-length vectors.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	cos := dot / (math.Sqrt(na) * math.Sqrt(nb))
	return (cos + 1) / 2
}
