// Package report builds weekly repository activity reports for theses and
// posts them as auto-generated comments.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/d-krupke/thesis-manager/pkg/gitlab"
	"github.com/d-krupke/thesis-manager/pkg/models"
)

const maxFilesPerCommit = 10

// Generator renders commit activity into a markdown report
type Generator struct{}

// NewGenerator creates a basic report generator
func NewGenerator() *Generator {
	return &Generator{}
}

// Generate renders the report for one thesis
func (g *Generator) Generate(commits []gitlab.Commit, thesis *models.Thesis, days int) string {
	if len(commits) == 0 {
		return g.noActivityReport(thesis, days)
	}
	return g.activityReport(commits, thesis, days)
}

func (g *Generator) noActivityReport(thesis *models.Thesis, days int) string {
	return fmt.Sprintf(
		"## Weekly Repository Activity Report\n\n"+
			"**Thesis**: %s\n"+
			"**Period**: Last %d days\n"+
			"**Status**: No commits found\n\n"+
			"ℹ️ No activity detected in the repository during this period.\n",
		titleOf(thesis), days,
	)
}

func (g *Generator) activityReport(commits []gitlab.Commit, thesis *models.Thesis, days int) string {
	additions, deletions := totalChanges(commits)

	authors := map[string]bool{}
	for _, c := range commits {
		authors[c.Author] = true
	}
	authorNames := make([]string, 0, len(authors))
	for name := range authors {
		authorNames = append(authorNames, name)
	}
	sort.Strings(authorNames)

	lines := []string{
		"## Weekly Repository Activity Report\n",
		fmt.Sprintf("**Thesis**: %s", titleOf(thesis)),
		fmt.Sprintf("**Period**: Last %d days", days),
		fmt.Sprintf("**Commits**: %d", len(commits)),
		fmt.Sprintf("**Authors**: %s", strings.Join(authorNames, ", ")),
		fmt.Sprintf("**Changes**: +%d / -%d lines\n", additions, deletions),
		"### Commits\n",
	}

	for _, commit := range commits {
		lines = append(lines, fmt.Sprintf(
			"**%s** - %s  \n*%s* | %s | +%d/-%d lines | branches: %s",
			commit.Short, commit.Title, commit.Author,
			commit.Date.Format("2006-01-02 15:04"),
			commit.Additions, commit.Deletions,
			strings.Join(commit.Branches, ", "),
		))

		if len(commit.Files) > 0 {
			lines = append(lines, "\nFiles changed:")
			shown := commit.Files
			if len(shown) > maxFilesPerCommit {
				shown = shown[:maxFilesPerCommit]
			}
			for _, file := range shown {
				lines = append(lines, fmt.Sprintf("  - `%s`", file))
			}
			if len(commit.Files) > maxFilesPerCommit {
				lines = append(lines, fmt.Sprintf("  - *(and %d more files)*", len(commit.Files)-maxFilesPerCommit))
			}
		}

		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}

func titleOf(thesis *models.Thesis) string {
	if thesis.Title == "" {
		return "Untitled"
	}
	return thesis.Title
}

func totalChanges(commits []gitlab.Commit) (additions, deletions int) {
	for _, c := range commits {
		additions += c.Additions
		deletions += c.Deletions
	}
	return additions, deletions
}
