package orchestrator

import (
	"fmt"
	"strings"

	"github.com/theodore-ai/theodore/internal/model"
)

// buildCorpus concatenates extracted page text into a single prompt-ready
// string, each page prefixed with its URL so the model can attribute
// claims, truncated to budget characters total (spec §4.5 Phase 3: "the
// concatenated corpus is truncated to a prompt budget").
func buildCorpus(pages []model.PageContent, budget int) string {
	var b strings.Builder
	remaining := budget
	if remaining <= 0 {
		remaining = 1
	}
	for _, p := range pages {
		if p.ExtractionMethod == model.ExtractionFailed || remaining <= 0 {
			continue
		}
		header := fmt.Sprintf("### %s\n\n", p.URL)
		chunk := header + p.Text + "\n\n"
		if len(chunk) > remaining {
			chunk = chunk[:remaining]
		}
		b.WriteString(chunk)
		remaining -= len(chunk)
	}
	return b.String()
}
