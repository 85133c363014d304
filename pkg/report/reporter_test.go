package report

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d-krupke/thesis-manager/pkg/gitlab"
	"github.com/d-krupke/thesis-manager/pkg/models"
)

type fakeSource struct {
	theses   []models.Thesis
	comments map[string][]string
}

func (f *fakeSource) ListWorkingTheses(ctx context.Context) ([]models.Thesis, error) {
	return f.theses, nil
}

func (f *fakeSource) GetThesis(ctx context.Context, id string) (*models.Thesis, error) {
	for i := range f.theses {
		if f.theses[i].ID == id {
			return &f.theses[i], nil
		}
	}
	return nil, fmt.Errorf("thesis %s not found", id)
}

func (f *fakeSource) AddComment(ctx context.Context, thesisID, text string) (*models.Comment, error) {
	if f.comments == nil {
		f.comments = map[string][]string{}
	}
	f.comments[thesisID] = append(f.comments[thesisID], text)
	return &models.Comment{ThesisID: thesisID, Text: text, IsAutoGenerated: true}, nil
}

type fakeRepos struct {
	projects map[string]*gitlab.Project
	commits  []gitlab.Commit
	fetchErr error
}

func (f *fakeRepos) GetProject(ctx context.Context, projectPath string) (*gitlab.Project, error) {
	return f.projects[projectPath], nil
}

func (f *fakeRepos) CollectRecentCommits(ctx context.Context, projectID int, since, until time.Time) ([]gitlab.Commit, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.commits, nil
}

type fakeAnalyzer struct {
	analysis *ProgressAnalysis
	err      error
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, commits []gitlab.Commit, thesis *models.Thesis, days int) (*ProgressAnalysis, error) {
	return f.analysis, f.err
}

func testLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

func workingThesis(id, repo string) models.Thesis {
	return models.Thesis{
		ID:            id,
		Title:         "Graph Coloring Heuristics",
		ThesisType:    models.ThesisTypeBachelor,
		Phase:         models.PhaseWorking,
		GitRepository: repo,
	}
}

func someCommits() []gitlab.Commit {
	return []gitlab.Commit{
		{
			SHA: "abcdef1234567890", Short: "abcdef12", Title: "Add solver",
			Author: "Anna", Date: time.Date(2026, 8, 27, 10, 0, 0, 0, time.UTC),
			Additions: 120, Deletions: 8,
			Files:    []string{"solver.go", "thesis/main.tex"},
			Branches: []string{"main"},
		},
	}
}

func TestReporterPostsActivityReport(t *testing.T) {
	source := &fakeSource{theses: []models.Thesis{workingThesis("t1", "https://gitlab.com/group/project")}}
	repos := &fakeRepos{
		projects: map[string]*gitlab.Project{"group/project": {ID: 42}},
		commits:  someCommits(),
	}

	reporter := NewReporter(source, repos, nil, testLogger())
	summary, err := reporter.Run(context.Background(), Options{Days: 7})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Succeeded)
	require.Len(t, source.comments["t1"], 1)
	report := source.comments["t1"][0]
	assert.Contains(t, report, "## Weekly Repository Activity Report")
	assert.Contains(t, report, "**Commits**: 1")
	assert.Contains(t, report, "**abcdef12** - Add solver")
	assert.Contains(t, report, "+120/-8 lines")
}

func TestReporterSkipsThesesWithoutRepository(t *testing.T) {
	source := &fakeSource{theses: []models.Thesis{workingThesis("t1", "")}}
	reporter := NewReporter(source, &fakeRepos{}, nil, testLogger())

	summary, err := reporter.Run(context.Background(), Options{Days: 7})
	require.NoError(t, err)

	assert.Equal(t, 0, summary.Processed)
	assert.Empty(t, source.comments)
}

func TestReporterInvalidURLPostsErrorComment(t *testing.T) {
	source := &fakeSource{theses: []models.Thesis{workingThesis("t1", "not a url at all ://")}}
	reporter := NewReporter(source, &fakeRepos{}, nil, testLogger())

	summary, err := reporter.Run(context.Background(), Options{Days: 7})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Failed)
	require.Len(t, source.comments["t1"], 1)
	assert.Contains(t, source.comments["t1"][0], "Invalid GitLab repository URL")
}

func TestReporterInaccessibleProjectPostsErrorComment(t *testing.T) {
	source := &fakeSource{theses: []models.Thesis{workingThesis("t1", "https://gitlab.com/group/private")}}
	repos := &fakeRepos{projects: map[string]*gitlab.Project{}}

	reporter := NewReporter(source, repos, nil, testLogger())
	summary, err := reporter.Run(context.Background(), Options{Days: 7})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Failed)
	require.Len(t, source.comments["t1"], 1)
	assert.Contains(t, source.comments["t1"][0], "GitLab repository not accessible")
}

func TestReporterDryRunPostsNothing(t *testing.T) {
	source := &fakeSource{theses: []models.Thesis{workingThesis("t1", "https://gitlab.com/group/project")}}
	repos := &fakeRepos{
		projects: map[string]*gitlab.Project{"group/project": {ID: 42}},
		commits:  someCommits(),
	}

	reporter := NewReporter(source, repos, nil, testLogger())
	summary, err := reporter.Run(context.Background(), Options{Days: 7, DryRun: true})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Succeeded)
	assert.Empty(t, source.comments)
}

func TestReporterEnhancedReport(t *testing.T) {
	source := &fakeSource{theses: []models.Thesis{workingThesis("t1", "https://gitlab.com/group/project")}}
	repos := &fakeRepos{
		projects: map[string]*gitlab.Project{"group/project": {ID: 42}},
		commits:  someCommits(),
	}
	analyzer := &fakeAnalyzer{analysis: &ProgressAnalysis{
		Summary:             "Solid progress on the solver implementation.",
		CodeProgressScore:   8,
		ThesisProgressScore: 4,
		NeedsAttention:      false,
		Reasoning:           "Steady commits, little writing.",
	}}

	reporter := NewReporter(source, repos, analyzer, testLogger())
	summary, err := reporter.Run(context.Background(), Options{Days: 7})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Succeeded)
	require.Len(t, source.comments["t1"], 1)
	report := source.comments["t1"][0]
	assert.Contains(t, report, "AI Progress Analysis")
	assert.Contains(t, report, "Implementation: **8/10**")
	assert.Contains(t, report, "**abcdef12** - Add solver")
}

func TestReporterAnalyzerFailureFallsBack(t *testing.T) {
	source := &fakeSource{theses: []models.Thesis{workingThesis("t1", "https://gitlab.com/group/project")}}
	repos := &fakeRepos{
		projects: map[string]*gitlab.Project{"group/project": {ID: 42}},
		commits:  someCommits(),
	}
	analyzer := &fakeAnalyzer{err: fmt.Errorf("model unavailable")}

	reporter := NewReporter(source, repos, analyzer, testLogger())
	summary, err := reporter.Run(context.Background(), Options{Days: 7})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Succeeded)
	require.Len(t, source.comments["t1"], 1)
	report := source.comments["t1"][0]
	assert.NotContains(t, report, "AI Progress Analysis")
	assert.Contains(t, report, "## Weekly Repository Activity Report")
}

func TestGeneratorNoActivity(t *testing.T) {
	thesis := workingThesis("t1", "https://gitlab.com/group/project")
	report := NewGenerator().Generate(nil, &thesis, 7)

	assert.Contains(t, report, "**Status**: No commits found")
	assert.True(t, strings.HasPrefix(report, "## Weekly Repository Activity Report"))
}
