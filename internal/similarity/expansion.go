package similarity

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/theodore-ai/theodore/internal/model"
)

type expansionCandidate struct {
	Name          string `json:"name"`
	Website       string `json:"website"`
	Justification string `json:"justification"`
}

type expansionResponse struct {
	Companies []expansionCandidate `json:"companies"`
}

// phaseB is spec §4.6 Phase B: ask the model for additional companies
// similar to companyName, then resolve a brief description and
// relationship label for any candidate the model didn't already give a
// website for, via a single-page surface-analysis call.
func (e *Engine) phaseB(ctx context.Context, companyName string, need int, vectorHits []model.SimilarCompany) []model.SimilarCompany {
	result, err := e.submitLLM(ctx, model.TaskExpansion, buildExpansionSystem(), buildExpansionUser(companyName, need, vectorHits))
	if err != nil || !result.Success {
		return nil
	}

	var parsed expansionResponse
	if jsonErr := json.Unmarshal([]byte(extractJSONObject(result.Content)), &parsed); jsonErr != nil {
		return nil
	}

	ceiling := lowestVectorScore(vectorHits)
	out := make([]model.SimilarCompany, 0, len(parsed.Companies))
	for rank, c := range parsed.Companies {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			continue
		}
		sc := model.SimilarCompany{
			Name:             name,
			RelationshipKind: c.Justification,
			Source:           model.SourceLLM,
		}
		website := strings.TrimSpace(c.Website)
		if website != "" {
			sc.Website = &website
		} else if guessed := guessHomepage(name); guessed != "" {
			sc.Website = &guessed
			sc.RelationshipKind, sc.Researched = e.surfaceAnalyze(ctx, guessed, sc.RelationshipKind)
		}
		sc.SimilarityScore = rankScore(rank, len(parsed.Companies), ceiling)
		out = append(out, sc)
		if len(out) >= need {
			break
		}
	}
	return out
}

func buildExpansionSystem() string {
	return "You expand a seed company into a list of similar companies for similarity search. " +
		"Respond with strict JSON only: {\"companies\": [{\"name\": \"...\", \"website\": \"...\", \"justification\": \"...\"}]}."
}

func buildExpansionUser(companyName string, need int, vectorHits []model.SimilarCompany) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Seed company: %s\n", companyName)
	fmt.Fprintf(&b, "List %d additional companies similar to the seed, each with a one-sentence justification of the relationship (competitor, partner, supplier, etc.).\n", need)
	if len(vectorHits) > 0 {
		b.WriteString("Already known, do not repeat these:\n")
		for _, h := range vectorHits {
			fmt.Fprintf(&b, "- %s\n", h.Name)
		}
	}
	b.WriteString("Output only the JSON object described above.")
	return b.String()
}

// submitLLM submits a single LLMTask and retries recoverable failures per
// expansionBackoff, mirroring the orchestrator's retry discipline (spec
// §4.6: "Rate-limit and retry as in §4.5").
func (e *Engine) submitLLM(ctx context.Context, kind model.TaskKind, system, prompt string) (model.LLMResult, error) {
	var last model.LLMResult
	for attempt := 0; attempt < expansionBackoff.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return last, err
		}
		deadline, ok := ctx.Deadline()
		if !ok {
			deadline = time.Now().Add(60 * time.Second)
		}
		task := model.LLMTask{TaskID: fmt.Sprintf("%s-%s", kind, uuid.NewString()), Kind: kind, System: system, Prompt: prompt, Deadline: deadline}
		result, err := e.Pool.Submit(task).Get(ctx)
		if err != nil {
			return last, err
		}
		last = result
		retryable := result.ErrorKind.Recoverable() || result.ErrorKind == model.ErrInvalidResponse
		if result.Success || !retryable || attempt == expansionBackoff.maxAttempts-1 {
			return result, nil
		}
		if err := sleepWithContext(ctx, expansionBackoff.delay(attempt)); err != nil {
			return last, err
		}
	}
	return last, nil
}

// extractJSONObject trims prose/markdown fencing around a model's JSON
// object, matching the same tolerance the orchestrator applies to
// selection/aggregation responses.
func extractJSONObject(s string) string {
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end < start {
		return s
	}
	return s[start : end+1]
}

// rankScore derives a descending score for the rank-th LLM candidate out of
// total, scaled into (0, ceiling] so every LLM hit sorts below the lowest
// vector hit (spec §4.6 "Merging").
func rankScore(rank, total int, ceiling float64) float64 {
	if total <= 1 {
		return ceiling
	}
	step := ceiling / float64(total+1)
	score := ceiling - float64(rank)*step
	if score < 0.01 {
		score = 0.01
	}
	return score
}
