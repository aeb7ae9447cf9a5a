// Package llmprovider adapts the duck-typed LLM clients found in the source
// system to a single capability interface, per spec §9 ("Dynamic dispatch
// of LLM providers"): the core never branches on provider identity at
// runtime, only on the Client/Embedder interfaces below. Provider selection
// is a startup decision made by whoever constructs a Client.
//
// Grounded on the teacher's internal/llm/provider.go (the
// Client/ModelLister split and the *openai.Client adapter shape), extended
// with Bedrock and Gemini adapters per spec §9's named variants.
package llmprovider

import "context"

// Request is the provider-agnostic shape of a single completion call
// (spec §6 "LLM provider").
type Request struct {
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float32
	Timeout     int // seconds; 0 means caller-managed via context
}

// Response is the provider-agnostic completion result.
type Response struct {
	Text      string
	TokensIn  int
	TokensOut int
	Cost      float64
}

// Client is the minimal capability every LLM provider variant must expose.
// Errors are returned already classified via apperrors (Timeout,
// RateLimited, Transport, InvalidResponse, ProviderFatal) so callers never
// need to know which provider produced them.
type Client interface {
	Complete(ctx context.Context, req Request) (Response, error)
}

// Embedder is the companion capability for the embedding provider (spec §6
// "Embedding provider"). Not every Client implementation need support it;
// callers use a type assertion the way the teacher does for ModelLister.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// HealthChecker is an optional capability (spec §9: "{complete, embed,
// health}") used by startup preflight checks, mirroring the teacher's
// ListModels preflight in internal/app/app.go.
type HealthChecker interface {
	Health(ctx context.Context) error
}
