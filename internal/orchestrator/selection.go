package orchestrator

import (
	"context"
	"encoding/json"
	"strings"

	selecter "github.com/theodore-ai/theodore/internal/select"
	"github.com/theodore-ai/theodore/internal/model"
)

type selectionResponse struct {
	URLs []string `json:"urls"`
}

// selectPages is Phase 2 (spec §4.5): ask the model to rank the candidate
// set, keep only URLs it actually named that were in the candidate set, and
// fall back to the deterministic keyword selector when the model's
// response can't be trusted — unparsable JSON, an empty list, or a
// non-recoverable/exhausted-retry failure.
func (o *Orchestrator) selectPages(ctx context.Context, companyName string, set *model.CandidateSet) (urls []string, usedFallback bool) {
	if set.Len() == 0 {
		return nil, false
	}
	system := buildSelectionSystem()
	prompt := buildSelectionUser(companyName, set.Items())

	result, err := o.submitLLM(ctx, model.TaskPageSelection, system, prompt, phase2Backoff)
	if err != nil || !result.Success {
		return selecter.Select(set), true
	}

	var parsed selectionResponse
	if jsonErr := json.Unmarshal([]byte(extractJSONObject(result.Content)), &parsed); jsonErr != nil {
		return selecter.Select(set), true
	}

	valid := make([]string, 0, len(parsed.URLs))
	for _, u := range parsed.URLs {
		normalized, err := model.NormalizeURL(u)
		if err != nil || !set.Contains(normalized) {
			continue
		}
		valid = append(valid, normalized)
		if len(valid) >= selecter.MaxSelected {
			break
		}
	}
	if len(valid) == 0 {
		return selecter.Select(set), true
	}
	return valid, false
}

// extractJSONObject trims any prose or markdown fencing a model adds around
// its JSON object, returning the substring from the first '{' to the
// matching last '}'.
func extractJSONObject(s string) string {
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end < start {
		return s
	}
	return s[start : end+1]
}
