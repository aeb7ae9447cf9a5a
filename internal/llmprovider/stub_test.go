package llmprovider

import (
	"context"
	"encoding/json"
	"testing"
)

func TestStubProvider_EmbedIsDeterministic(t *testing.T) {
	p := NewStubProvider(8)
	a, err := p.Embed(context.Background(), "Acme Corp")
	if err != nil {
		t.Fatalf("embed: %v", err)
	}
	b, err := p.Embed(context.Background(), "Acme Corp")
	if err != nil {
		t.Fatalf("embed: %v", err)
	}
	if len(a) != 8 || len(b) != 8 {
		t.Fatalf("expected dim 8, got %d and %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("embedding not deterministic at index %d: %v != %v", i, a[i], b[i])
		}
	}
}

func TestStubProvider_EmbedVariesByInput(t *testing.T) {
	p := NewStubProvider(8)
	a, _ := p.Embed(context.Background(), "Acme Corp")
	b, _ := p.Embed(context.Background(), "Globex Corp")
	same := true
	for i := range a {
		if a[i] != b[i] {
			same = false
			break
		}
	}
	if same {
		t.Fatalf("expected different inputs to produce different embeddings")
	}
}

func TestStubProvider_PageSelectionExtractsURLs(t *testing.T) {
	p := NewStubProvider(4)
	prompt := "1 - https://acme.example/about\n2 - https://acme.example/team\n"
	resp, err := p.Complete(context.Background(), Request{System: "page selection", Prompt: prompt})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	var out struct {
		URLs []string `json:"urls"`
	}
	if err := json.Unmarshal([]byte(resp.Text), &out); err != nil {
		t.Fatalf("unmarshal stub response: %v", err)
	}
	if len(out.URLs) != 2 {
		t.Fatalf("expected 2 urls, got %d: %v", len(out.URLs), out.URLs)
	}
}

func TestStubProvider_RespectsCancellation(t *testing.T) {
	p := NewStubProvider(4)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := p.Complete(ctx, Request{System: "page selection", Prompt: "x"}); err == nil {
		t.Fatalf("expected error on cancelled context")
	}
}
