// Command llmstub serves an OpenAI-compatible HTTP front door backed by
// llmprovider.StubProvider, for tests and demos that want to point
// llmprovider.OpenAIProvider at a deterministic, network-free backend
// instead of a real API key.
//
// Grounded on the teacher's cmd/openai-stub/main.go: same /v1/models and
// /v1/chat/completions surface, generalized here to dispatch through the
// shared StubProvider rather than reimplementing the prompt-family switch,
// plus a /v1/embeddings endpoint the teacher's stub never needed.
package main

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/theodore-ai/theodore/internal/llmprovider"
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type embeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

func main() {
	model := strings.TrimSpace(os.Getenv("MODEL_ID"))
	if model == "" {
		model = "theodore-stub"
	}
	addr := strings.TrimSpace(os.Getenv("ADDR"))
	if addr == "" {
		addr = ":8081"
	}
	dim := 1536
	if v := strings.TrimSpace(os.Getenv("EMBEDDING_DIM")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			dim = n
		}
	}

	stub := llmprovider.NewStubProvider(dim)
	mux := http.NewServeMux()

	mux.HandleFunc("/v1/models", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{{"id": model, "object": "model"}},
		})
	})

	mux.HandleFunc("/v1/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		var system, prompt string
		for _, m := range req.Messages {
			switch m.Role {
			case "system":
				system = m.Content
			case "user":
				prompt = m.Content
			}
		}
		resp, err := stub.Complete(r.Context(), llmprovider.Request{System: system, Prompt: prompt})
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "stub-completion",
			"object":  "chat.completion",
			"model":   model,
			"choices": []map[string]any{{"index": 0, "message": map[string]any{"role": "assistant", "content": resp.Text}, "finish_reason": "stop"}},
			"usage":   map[string]any{"prompt_tokens": resp.TokensIn, "completion_tokens": resp.TokensOut, "total_tokens": resp.TokensIn + resp.TokensOut},
		})
	})

	mux.HandleFunc("/v1/embeddings", func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		var req embeddingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		data := make([]map[string]any, 0, len(req.Input))
		for i, text := range req.Input {
			vec, err := stub.Embed(r.Context(), text)
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			data = append(data, map[string]any{"index": i, "object": "embedding", "embedding": vec})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"object": "list", "model": model, "data": data})
	})

	log.Printf("llmstub: listening on %s (model=%s, embedding_dim=%d)", addr, model, dim)
	log.Fatal(http.ListenAndServe(addr, mux))
}
