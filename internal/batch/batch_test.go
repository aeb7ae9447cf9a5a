package batch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/theodore-ai/theodore/internal/config"
	"github.com/theodore-ai/theodore/internal/discovery"
	"github.com/theodore-ai/theodore/internal/fetch"
	"github.com/theodore-ai/theodore/internal/llmprovider"
	"github.com/theodore-ai/theodore/internal/orchestrator"
	"github.com/theodore-ai/theodore/internal/sitecomplexity"
	"github.com/theodore-ai/theodore/internal/workerpool"
)

func newTestRunner(t *testing.T, serverClient *http.Client) *Runner {
	t.Helper()
	stub := llmprovider.NewStubProvider(8)
	pool := workerpool.New(workerpool.Config{
		Workers:   2,
		NewClient: func() llmprovider.Client { return stub },
	})
	t.Cleanup(pool.Shutdown)

	fc := &fetch.Client{HTTPClient: serverClient, MaxAttempts: 1}
	cfg := config.Defaults()
	cfg.OverallDeadline = 10 * time.Second

	orch := &orchestrator.Orchestrator{
		Discoverer:  &discovery.Discoverer{Fetch: fc, UserAgent: "theodore-test"},
		Fetch:       fc,
		Pool:        pool,
		EmbedClient: stub,
		Complexity:  sitecomplexity.NewTracker(),
		Config:      cfg,
	}
	return &Runner{Orchestrator: orch, Concurrency: 2}
}

func TestAnalyzeRow_RejectsMissingFields(t *testing.T) {
	runner := newTestRunner(t, http.DefaultClient)
	outcome := runner.AnalyzeRow(context.Background(), Row{CompanyName: "Acme"})
	if !outcome.IsFailure() {
		t.Fatalf("expected failure for row missing website, got %+v", outcome)
	}
}

func TestAnalyzeAll_ReturnsResultsInRowOrder(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<html><body><main><h1>Hello</h1><p>` +
			`A small deterministic fixture page used only to exercise the analyze pipeline end to end.` +
			`</p></main></body></html>`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	runner := newTestRunner(t, srv.Client())
	rows := []Row{
		{CompanyName: "Acme", Website: srv.URL},
		{CompanyName: "", Website: ""},
		{CompanyName: "Globex", Website: srv.URL},
	}
	results := runner.AnalyzeAll(context.Background(), rows)
	if len(results) != len(rows) {
		t.Fatalf("expected %d results, got %d", len(rows), len(results))
	}
	for i, r := range results {
		if r.Row != rows[i] {
			t.Fatalf("result %d out of order: got row %+v, want %+v", i, r.Row, rows[i])
		}
	}
	if !results[1].Outcome.IsFailure() {
		t.Fatalf("expected row 1 (missing fields) to fail, got %+v", results[1].Outcome)
	}
}
