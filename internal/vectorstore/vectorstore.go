// Package vectorstore implements the three-operation vector store contract
// of spec §6 ("Vector store"): upsert, find_by_name, and k_nearest. The
// Similarity Engine (C6) is the only caller.
//
// Grounded on Tangerg-lynx's ai/providers/vectorstores/qdrant/store.go for
// the Qdrant wiring shape (client, collection, point struct, payload
// conversion); simplified from its generic document/batcher/embedding-model
// abstraction down to the spec's three-call contract, since Theodore's
// embeddings are produced once by llmprovider.Embedder rather than by a
// store-owned embedding pipeline.
package vectorstore

import "context"

// Entry is one stored vector plus its metadata, keyed by an opaque ID.
type Entry struct {
	ID       string
	Vector   []float32
	Metadata map[string]any
}

// Match is a k_nearest result: an Entry plus its similarity score in
// [0,1], higher meaning more similar.
type Match struct {
	Entry
	Score float64
}

// Store is the vector store contract every backend implements.
type Store interface {
	// Upsert writes or replaces the entry at id.
	Upsert(ctx context.Context, id string, vector []float32, metadata map[string]any) error
	// FindByName looks up a previously upserted entry by its "name" metadata
	// field, returning ok=false if no match exists.
	FindByName(ctx context.Context, name string) (Entry, bool, error)
	// KNearest returns the k closest entries to vector, optionally
	// restricted by filter (an exact-match metadata predicate), ordered by
	// descending score.
	KNearest(ctx context.Context, vector []float32, k int, filter map[string]any) ([]Match, error)
}
