// Package batch adapts the single-company orchestrator to a row-at-a-time
// contract a spreadsheet-driving caller can fan out over, per spec's
// "batch/spreadsheet driver" module. It owns no row I/O of its own — reading
// rows in and writing records out is external per the Non-goals — only the
// Row -> CompanyRecord/Failure call, plus pdf.go's WriteRecordPDF, which
// writes one record to a PDF file.
//
// Grounded on the teacher's internal/brief.go "external input becomes an
// internal request" shape, generalized from a single research brief to one
// row of a many-row batch.
package batch

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/theodore-ai/theodore/internal/apperrors"
	"github.com/theodore-ai/theodore/internal/model"
	"github.com/theodore-ai/theodore/internal/orchestrator"
)

// Row is one spreadsheet line identifying a company to analyze.
type Row struct {
	CompanyName string
	Website     string
}

// Result pairs a Row with the outcome of analyzing it, so a caller fanning
// out over many rows can reassemble output in input order even when rows
// complete out of order.
type Result struct {
	Row     Row
	Outcome model.Outcome
}

// Runner drives AnalyzeRow over many rows using a shared Orchestrator.
type Runner struct {
	Orchestrator *orchestrator.Orchestrator
	// Concurrency bounds how many rows are analyzed at once. Zero means 1.
	Concurrency int
}

// AnalyzeRow runs the full analysis pipeline for a single row, rejecting
// rows missing required fields before spending any pipeline work on them.
func (r *Runner) AnalyzeRow(ctx context.Context, row Row) model.Outcome {
	name := strings.TrimSpace(row.CompanyName)
	website := strings.TrimSpace(row.Website)
	if name == "" || website == "" {
		return model.Fail(apperrors.KindInvalidResp, "row missing company name or website")
	}
	return r.Orchestrator.Analyze(ctx, name, website)
}

// AnalyzeAll runs AnalyzeRow over every row, bounding concurrency at
// r.Concurrency and returning results in the same order as rows, safe for
// Runner instances shared across calls.
func (r *Runner) AnalyzeAll(ctx context.Context, rows []Row) []Result {
	concurrency := r.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	results := make([]Result, len(rows))
	sem := semaphore.NewWeighted(int64(concurrency))
	var wg sync.WaitGroup

	for i, row := range rows {
		i, row := i, row
		if err := sem.Acquire(ctx, 1); err != nil {
			// Context canceled before a slot freed up: record the row as
			// failed rather than leaving its Result zero-valued.
			results[i] = Result{Row: row, Outcome: model.Fail(apperrors.KindTimeout, "batch run canceled: "+err.Error())}
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer sem.Release(1)
			results[i] = Result{Row: row, Outcome: r.AnalyzeRow(ctx, row)}
		}()
	}
	wg.Wait()
	return results
}
