package importer

import (
	"context"
	"fmt"

	"github.com/Gobusters/ectologger"

	"github.com/d-krupke/thesis-manager/pkg/extraction"
	"github.com/d-krupke/thesis-manager/pkg/metrics"
	"github.com/d-krupke/thesis-manager/pkg/tracing"
)

// RunnerOptions control a batch run
type RunnerOptions struct {
	// DryRun resolves and matches but never creates anything
	DryRun bool
	// StartFrom skips rows before this 1-based index
	StartFrom int
}

// RowReport pairs a row with its result or its extraction failure
type RowReport struct {
	Index  int
	Result *RowResult
	Err    error
}

// Summary tallies one batch run
type Summary struct {
	Total       int
	Imported    int
	Skipped     int
	Errors      int
	DryRun      int
	Interrupted bool
	Reports     []RowReport
}

// Runner processes a batch of rows sequentially through extraction and the
// orchestrator. A failed row is counted and the batch continues; only context
// cancellation stops the run.
type Runner struct {
	orch      *Orchestrator
	extractor extraction.Extractor
	decider   Decider
	logger    ectologger.Logger
}

// NewRunner creates a batch runner
func NewRunner(orch *Orchestrator, extractor extraction.Extractor, decider Decider, logger ectologger.Logger) *Runner {
	return &Runner{
		orch:      orch,
		extractor: extractor,
		decider:   decider,
		logger:    logger,
	}
}

// Run imports all rows and returns the tally
func (r *Runner) Run(ctx context.Context, rows []CSVRow, opts RunnerOptions) (*Summary, error) {
	ctx, span := tracing.StartSpan(ctx, "importer.Runner.Run")
	defer span.End()

	summary := &Summary{}
	for _, row := range rows {
		if row.Index < opts.StartFrom {
			continue
		}
		if err := ctx.Err(); err != nil {
			summary.Interrupted = true
			r.logger.WithContext(ctx).Warnf("Import interrupted at row %d", row.Index)
			break
		}

		summary.Total++
		report := r.processRow(ctx, row, opts)
		summary.Reports = append(summary.Reports, report)

		switch {
		case report.Err != nil:
			summary.Errors++
		case report.Result.Outcome == OutcomeImported:
			summary.Imported++
		case report.Result.Outcome == OutcomeSkipped:
			summary.Skipped++
		case report.Result.Outcome == OutcomeDryRun:
			summary.DryRun++
		default:
			summary.Errors++
		}
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"total":    summary.Total,
		"imported": summary.Imported,
		"skipped":  summary.Skipped,
		"errors":   summary.Errors,
		"dry_run":  summary.DryRun,
	}).Info("Import run finished")

	return summary, nil
}

func (r *Runner) processRow(ctx context.Context, row CSVRow, opts RunnerOptions) RowReport {
	report := RowReport{Index: row.Index}

	info, err := r.extractor.Extract(ctx, row.Row)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Errorf("Row %d: extraction failed", row.Index)
		metrics.RecordImportRow(string(OutcomeError))
		report.Err = fmt.Errorf("extraction failed: %w", err)
		return report
	}

	result, err := r.orch.ImportRow(ctx, info, opts.DryRun, r.decider)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Errorf("Row %d: import failed", row.Index)
		metrics.RecordImportRow(string(OutcomeError))
		report.Err = err
		return report
	}

	for _, w := range result.Warnings {
		r.logger.WithContext(ctx).Warnf("Row %d: %s", row.Index, w)
	}
	r.logger.WithContext(ctx).WithFields(map[string]any{
		"row":     row.Index,
		"outcome": string(result.Outcome),
		"reason":  result.Reason,
	}).Info("Row processed")

	report.Result = result
	return report
}
