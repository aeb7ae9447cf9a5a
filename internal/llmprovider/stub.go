package llmprovider

import (
	"context"
	"crypto/sha1"
	"encoding/binary"
	"encoding/json"
	"math"
	"strings"
)

// StubProvider is a deterministic, network-free Client/Embedder used by
// tests and by cmd/llmstub's HTTP front door. It never calls out to a real
// provider: responses are derived purely from the request's system prompt
// and content, so the same input always produces the same output.
//
// Generalized from the teacher's cmd/openai-stub, which dispatches on
// substrings of the system prompt ("Respond with strict JSON only" for the
// planner, "careful technical writer" for synthesis, "fact-check verifier"
// for verification) to return canned JSON/text. This variant recognizes the
// Theodore prompt families instead: page selection, record aggregation,
// candidate expansion, and single-page surface analysis.
type StubProvider struct {
	EmbeddingDim int
}

// NewStubProvider returns a StubProvider whose embeddings have dim
// components (defaulting to 1536 to match spec §6's default).
func NewStubProvider(dim int) *StubProvider {
	if dim <= 0 {
		dim = 1536
	}
	return &StubProvider{EmbeddingDim: dim}
}

func (p *StubProvider) Complete(ctx context.Context, req Request) (Response, error) {
	select {
	case <-ctx.Done():
		return Response{}, ctx.Err()
	default:
	}

	sys := req.System
	var content string
	switch {
	case strings.Contains(sys, "select up to") || strings.Contains(sys, "page selection"):
		content = stubPageSelection(req.Prompt)
	case strings.Contains(sys, "aggregate") || strings.Contains(sys, "company record"):
		content = stubAggregation(req.Prompt)
	case strings.Contains(sys, "expand") || strings.Contains(sys, "similar compan"):
		content = stubExpansion(req.Prompt)
	case strings.Contains(sys, "surface") || strings.Contains(sys, "single page"):
		content = stubSurfaceAnalysis(req.Prompt)
	default:
		content = `{"note":"stub: unrecognized prompt family"}`
	}
	return Response{Text: content, TokensIn: len(req.Prompt) / 4, TokensOut: len(content) / 4}, nil
}

func (p *StubProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	return deterministicEmbedding(text, p.EmbeddingDim), nil
}

func (p *StubProvider) Health(ctx context.Context) error {
	return nil
}

func stubPageSelection(prompt string) string {
	urls := extractNumberedURLs(prompt)
	limit := 15
	if len(urls) < limit {
		limit = len(urls)
	}
	b, _ := json.Marshal(map[string]any{"urls": urls[:limit]})
	return string(b)
}

func stubAggregation(prompt string) string {
	record := map[string]any{
		"name":        "Stub Company, Inc.",
		"description": "Deterministic stub record generated for testing.",
		"industry":    "software",
		"confidence":  map[string]float64{"name": 0.5, "description": 0.5},
	}
	b, _ := json.Marshal(record)
	return string(b)
}

func stubExpansion(prompt string) string {
	seed := "Stub Competitor"
	if idx := strings.Index(prompt, "Seed company: "); idx >= 0 {
		rest := prompt[idx+len("Seed company: "):]
		if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
			rest = rest[:nl]
		}
		seed = strings.TrimSpace(rest)
	}
	companies := []map[string]any{
		{"name": seed + " Rival Co", "website": "", "justification": "stub competitor in the same market"},
		{"name": seed + " Partner Inc", "website": "", "justification": "stub partner named by expansion"},
	}
	b, _ := json.Marshal(map[string]any{"companies": companies})
	return string(b)
}

func stubSurfaceAnalysis(prompt string) string {
	b, _ := json.Marshal(map[string]any{"relevant": true, "summary": "stub surface analysis"})
	return string(b)
}

func extractNumberedURLs(prompt string) []string {
	var urls []string
	for _, line := range strings.Split(prompt, "\n") {
		line = strings.TrimSpace(line)
		if idx := strings.Index(line, "http"); idx >= 0 {
			urls = append(urls, line[idx:])
		}
	}
	return urls
}

// deterministicEmbedding hashes text into a reproducible unit vector of the
// requested dimension, so repeated calls with the same input are stable
// across test runs without a real embedding model.
func deterministicEmbedding(text string, dim int) []float32 {
	out := make([]float32, dim)
	seed := sha1.Sum([]byte(text))
	var sumSq float64
	for i := 0; i < dim; i++ {
		chunk := make([]byte, 4)
		binary.BigEndian.PutUint32(chunk, binary.BigEndian.Uint32(seed[(i*4)%16:(i*4)%16+4])+uint32(i))
		v := float32(int32(binary.BigEndian.Uint32(chunk))%1000) / 1000.0
		out[i] = v
		sumSq += float64(v) * float64(v)
	}
	norm := math.Sqrt(sumSq)
	if norm == 0 {
		return out
	}
	for i := range out {
		out[i] = float32(float64(out[i]) / norm)
	}
	return out
}
