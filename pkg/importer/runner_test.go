package importer

import (
	"context"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d-krupke/thesis-manager/pkg/extraction"
)

func newTestRunner(storage *fakeStorage) *Runner {
	logger := ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
	orch := newTestOrchestrator(storage)
	extractor := extraction.NewRuleBasedExtractor()
	return NewRunner(orch, extractor, DefaultDecider(), logger)
}

func TestRunnerRun(t *testing.T) {
	storage := &fakeStorage{}
	runner := newTestRunner(storage)

	rows := []CSVRow{
		{Index: 1, Row: extraction.Row{
			"first_name": "Anna", "last_name": "Schmidt", "email": "anna@tu-bs.de",
			"thesis_type": "BA", "title": "Graph Coloring", "phase": "working",
		}},
		{Index: 2, Row: extraction.Row{
			"first_name": "Max", "last_name": "Meier",
			"thesis_type": "M", "title": "Routing Heuristics",
		}},
		{Index: 3, Row: extraction.Row{
			// missing names, extraction fails
			"thesis_type": "BA", "title": "Broken Row",
		}},
	}

	summary, err := runner.Run(context.Background(), rows, RunnerOptions{})
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 2, summary.Imported)
	assert.Equal(t, 1, summary.Errors)
	assert.Equal(t, 0, summary.Skipped)
	assert.False(t, summary.Interrupted)
	assert.Equal(t, 2, storage.createdTheses)
	require.Len(t, summary.Reports, 3)
	assert.Error(t, summary.Reports[2].Err)
}

func TestRunnerStartFrom(t *testing.T) {
	storage := &fakeStorage{}
	runner := newTestRunner(storage)

	rows := []CSVRow{
		{Index: 1, Row: extraction.Row{"first_name": "Anna", "last_name": "Schmidt", "thesis_type": "BA"}},
		{Index: 2, Row: extraction.Row{"first_name": "Max", "last_name": "Meier", "thesis_type": "MA"}},
	}

	summary, err := runner.Run(context.Background(), rows, RunnerOptions{StartFrom: 2})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Total)
	assert.Equal(t, 1, summary.Imported)
}

func TestRunnerDryRun(t *testing.T) {
	storage := &fakeStorage{}
	runner := newTestRunner(storage)

	rows := []CSVRow{
		{Index: 1, Row: extraction.Row{"first_name": "Anna", "last_name": "Schmidt", "thesis_type": "BA"}},
	}

	summary, err := runner.Run(context.Background(), rows, RunnerOptions{DryRun: true})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.DryRun)
	assert.Equal(t, 0, storage.createdStudents)
	assert.Equal(t, 0, storage.createdTheses)
}

func TestRunnerInterrupted(t *testing.T) {
	storage := &fakeStorage{}
	runner := newTestRunner(storage)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rows := []CSVRow{
		{Index: 1, Row: extraction.Row{"first_name": "Anna", "last_name": "Schmidt", "thesis_type": "BA"}},
	}

	summary, err := runner.Run(ctx, rows, RunnerOptions{})
	require.NoError(t, err)

	assert.True(t, summary.Interrupted)
	assert.Equal(t, 0, summary.Total)
}
