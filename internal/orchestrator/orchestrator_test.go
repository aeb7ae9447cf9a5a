package orchestrator

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
	"github.com/theodore-ai/theodore/internal/sitecomplexity"
	"github.com/theodore-ai/theodore/internal/workerpool"
)

func newTestOrchestrator(t *testing.T, serverClient *http.Client) *Orchestrator {
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

	return &Orchestrator{
		Discoverer:  &discovery.Discoverer{Fetch: fc, UserAgent: "theodore-test"},
		Fetch:       fc,
		Pool:        pool,
		EmbedClient: stub,
		Complexity:  sitecomplexity.NewTracker(),
		Config:      cfg,
	}
}

func TestAnalyze_EndToEndOnSimpleSite(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<html><body><nav><a href="/about">About</a></nav></body></html>`))
	})
	mux.HandleFunc("/about", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<html><body><main><h1>About Acme</h1><p>` +
			`Acme builds deterministic testing fixtures for distributed systems engineers who need ` +
			`repeatable, boring infrastructure instead of flaky mocks scattered across a dozen packages.` +
			`</p></main></body></html>`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	o := newTestOrchestrator(t, srv.Client())
	outcome := o.Analyze(context.Background(), "Acme", srv.URL)

	if outcome.Failure != nil {
		t.Fatalf("expected a usable outcome, got failure: %v", outcome.Failure)
	}
	if outcome.Record == nil {
		t.Fatalf("expected a non-nil record")
	}
	if outcome.Record.Name == "" {
		t.Fatalf("expected a non-empty record name")
	}
}

func TestAnalyze_NoPagesDiscoveredIsAFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	o := newTestOrchestrator(t, srv.Client())
	outcome := o.Analyze(context.Background(), "Nothing Here Inc", srv.URL)

	if !outcome.IsFailure() {
		t.Fatalf("expected a failure outcome for a site with no reachable pages, got %+v", outcome)
	}
}

func TestAnalyze_RespectsAlreadyExpiredDeadline(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	o := newTestOrchestrator(t, srv.Client())
	o.Config.OverallDeadline = 1 * time.Nanosecond

	outcome := o.Analyze(context.Background(), "Too Slow Inc", srv.URL)
	if !outcome.IsFailure() {
		t.Fatalf("expected a failure outcome once the overall deadline has already elapsed")
	}
}
