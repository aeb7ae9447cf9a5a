package orchestrator

import (
	"strings"
	"testing"

	"github.com/theodore-ai/theodore/internal/model"
)

func TestBuildCorpus_SkipsFailedPagesAndRespectsBudget(t *testing.T) {
	pages := []model.PageContent{
		model.NewPageContent("https://a.example/about", 200, model.ExtractionPrimary, "A short bio.", 0),
		model.NewFailedPageContent("https://a.example/broken", 500, 2),
		model.NewPageContent("https://a.example/team", 200, model.ExtractionFallback, "Team page text.", 0),
	}
	corpus := buildCorpus(pages, 1000)
	if strings.Contains(corpus, "broken") {
		t.Fatalf("expected failed page to be excluded from corpus, got %q", corpus)
	}
	if !strings.Contains(corpus, "A short bio.") || !strings.Contains(corpus, "Team page text.") {
		t.Fatalf("expected both successful pages' text in corpus, got %q", corpus)
	}
}

func TestBuildCorpus_TruncatesToBudget(t *testing.T) {
	pages := []model.PageContent{
		model.NewPageContent("https://a.example/about", 200, model.ExtractionPrimary, strings.Repeat("x", 500), 0),
	}
	corpus := buildCorpus(pages, 50)
	if len(corpus) > 50 {
		t.Fatalf("expected corpus truncated to budget 50, got length %d", len(corpus))
	}
}
