package report

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Gobusters/ectologger"

	"github.com/d-krupke/thesis-manager/pkg/gitlab"
	"github.com/d-krupke/thesis-manager/pkg/httpclient"
	"github.com/d-krupke/thesis-manager/pkg/models"
	"github.com/d-krupke/thesis-manager/pkg/tracing"
)

const analysisSystemPrompt = `You are an expert thesis supervisor analyzing student progress.

Your task is to analyze Git commit activity and provide a structured assessment for the professor.

Consider:
- Commit frequency and consistency
- Code changes (additions/deletions)
- Areas of progress
- File types modified (implementation vs thesis writing)
- Commit messages quality
- Time remaining until deadline
- Expected progress based on registration date

Be realistic but encouraging. Flag issues early to help students succeed.

For code_progress_score (0-10):
- 0-2: No meaningful code changes
- 3-4: Minimal progress, concerning
- 5-6: Some progress, but could be better
- 7-8: Good, steady progress
- 9-10: Excellent, substantial progress

For thesis_progress_score (0-10):
- Look for LaTeX files (.tex)
- 0-2: No thesis writing detected
- 3-4: Minimal writing
- 5-6: Some writing progress
- 7-8: Good writing progress
- 9-10: Substantial thesis writing

Set needs_attention=true if:
- Very low activity with deadline approaching
- No progress for extended period
- Concerning patterns (e.g., only last-minute work)

Return ONLY a JSON object, no prose:
{"summary": "", "code_progress_score": 0, "thesis_progress_score": 0, "needs_attention": false, "reasoning": ""}`

// ProgressAnalysis is the structured result of an AI progress assessment
type ProgressAnalysis struct {
	Summary             string `json:"summary"`
	CodeProgressScore   int    `json:"code_progress_score"`
	ThesisProgressScore int    `json:"thesis_progress_score"`
	NeedsAttention      bool   `json:"needs_attention"`
	Reasoning           string `json:"reasoning"`
}

// Analyzer assesses thesis progress from commit activity. The LLM-backed
// implementation is used in production; a failure falls back to the plain
// report.
type Analyzer interface {
	Analyze(ctx context.Context, commits []gitlab.Commit, thesis *models.Thesis, days int) (*ProgressAnalysis, error)
}

// AnalyzerConfig configures the analysis model
type AnalyzerConfig struct {
	APIBase     string
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
}

// LLMAnalyzer analyzes progress with an OpenAI-compatible chat model
type LLMAnalyzer struct {
	client *httpclient.Client
	config AnalyzerConfig
	logger ectologger.Logger
}

// NewLLMAnalyzer creates a new LLM-backed progress analyzer
func NewLLMAnalyzer(client *httpclient.Client, config AnalyzerConfig, logger ectologger.Logger) *LLMAnalyzer {
	return &LLMAnalyzer{
		client: client,
		config: config,
		logger: logger,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Analyze builds the commit context and asks the model for an assessment
func (a *LLMAnalyzer) Analyze(ctx context.Context, commits []gitlab.Commit, thesis *models.Thesis, days int) (*ProgressAnalysis, error) {
	ctx, span := tracing.StartSpan(ctx, "report.LLMAnalyzer.Analyze")
	defer span.End()

	req := chatRequest{
		Model: a.config.Model,
		Messages: []chatMessage{
			{Role: "system", Content: analysisSystemPrompt},
			{Role: "user", Content: buildAnalysisContext(commits, thesis, days)},
		},
		Temperature: a.config.Temperature,
		MaxTokens:   a.config.MaxTokens,
	}

	headers := map[string]string{"Authorization": "Bearer " + a.config.APIKey}
	resp, err := a.client.PostJSON(ctx, strings.TrimRight(a.config.APIBase, "/")+"/chat/completions", req, headers)
	if err != nil {
		return nil, fmt.Errorf("analysis request failed: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("analysis request returned status %d", resp.StatusCode)
	}

	var chat chatResponse
	if err := resp.Decode(&chat); err != nil {
		return nil, fmt.Errorf("failed to decode analysis response: %w", err)
	}
	if len(chat.Choices) == 0 {
		return nil, fmt.Errorf("analysis response has no choices")
	}

	content := stripFences(chat.Choices[0].Message.Content)
	var analysis ProgressAnalysis
	if err := json.Unmarshal([]byte(content), &analysis); err != nil {
		return nil, fmt.Errorf("failed to parse analysis: %w", err)
	}

	a.logger.WithContext(ctx).WithFields(map[string]any{
		"code_score":      analysis.CodeProgressScore,
		"thesis_score":    analysis.ThesisProgressScore,
		"needs_attention": analysis.NeedsAttention,
	}).Debug("AI analysis complete")

	return &analysis, nil
}

var codeExtensions = []string{".py", ".java", ".cpp", ".c", ".js", ".ts", ".rs", ".go", ".h", ".hpp"}
var thesisExtensions = []string{".tex", ".bib", ".md", "readme"}

// buildAnalysisContext renders the commit activity into the prompt context
func buildAnalysisContext(commits []gitlab.Commit, thesis *models.Thesis, days int) string {
	now := time.Now().UTC()

	lines := []string{
		fmt.Sprintf("Thesis: %s", titleOf(thesis)),
		fmt.Sprintf("Analysis period: Last %d days", days),
		"",
	}

	if thesis.DateRegistration != nil {
		lines = append(lines, fmt.Sprintf("Days since registration: %d", int(now.Sub(thesis.DateRegistration.Time).Hours()/24)))
	}
	if thesis.DateDeadline != nil {
		lines = append(lines, fmt.Sprintf("Days until deadline: %d", int(thesis.DateDeadline.Time.Sub(now).Hours()/24)))
	}
	if thesis.DateRegistration != nil || thesis.DateDeadline != nil {
		lines = append(lines, "")
	}

	codeFiles := map[string]bool{}
	thesisFiles := map[string]bool{}
	otherFiles := map[string]bool{}
	for _, commit := range commits {
		for _, file := range commit.Files {
			switch {
			case hasAnySuffix(file, codeExtensions):
				codeFiles[file] = true
			case hasAnySuffix(file, thesisExtensions):
				thesisFiles[file] = true
			default:
				otherFiles[file] = true
			}
		}
	}

	additions, deletions := totalChanges(commits)
	lines = append(lines,
		fmt.Sprintf("Commits: %d", len(commits)),
		fmt.Sprintf("Total changes: +%d/-%d lines", additions, deletions),
		"",
		"File analysis:",
		fmt.Sprintf("  - Code files modified: %d", len(codeFiles)),
		fmt.Sprintf("  - Thesis/doc files modified: %d", len(thesisFiles)),
		fmt.Sprintf("  - Other files: %d", len(otherFiles)),
		"",
		"Recent commits (newest first):",
	)

	shown := commits
	if len(shown) > 10 {
		shown = shown[:10]
	}
	for i, commit := range shown {
		lines = append(lines, fmt.Sprintf(
			"  %d. [%s] %s (+%d/-%d)",
			i+1, commit.Date.Format("2006-01-02"), commit.Title, commit.Additions, commit.Deletions,
		))
		files := commit.Files
		if len(files) > maxFilesPerCommit {
			files = files[:maxFilesPerCommit]
		}
		for _, file := range files {
			lines = append(lines, fmt.Sprintf("      - %s", file))
		}
		if len(commit.Files) > maxFilesPerCommit {
			lines = append(lines, fmt.Sprintf("      ... and %d more files", len(commit.Files)-maxFilesPerCommit))
		}
	}
	if len(commits) > 10 {
		lines = append(lines, fmt.Sprintf("  ... and %d more commits", len(commits)-10))
	}

	return strings.Join(lines, "\n")
}

func hasAnySuffix(file string, suffixes []string) bool {
	lower := strings.ToLower(file)
	for _, s := range suffixes {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}

// stripFences removes markdown code fences from a model response
func stripFences(content string) string {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(content, "```")
	}
	return strings.TrimSpace(content)
}

// FormatEnhancedReport puts the AI analysis on top of the commit report
func FormatEnhancedReport(analysis *ProgressAnalysis, baseReport string, commits []gitlab.Commit, thesis *models.Thesis, days int) string {
	lines := []string{
		"## Weekly Repository Activity Report\n",
		"### 🤖 AI Progress Analysis\n",
	}

	if analysis.NeedsAttention {
		lines = append(lines, "⚠️ **Attention Required**\n")
	}

	additions, deletions := totalChanges(commits)
	lines = append(lines,
		analysis.Summary+"\n",
		"**Progress Scores:**",
		fmt.Sprintf("- Implementation: **%d/10** %s", analysis.CodeProgressScore, progressEmoji(analysis.CodeProgressScore)),
		fmt.Sprintf("- Thesis Writing: **%d/10** %s", analysis.ThesisProgressScore, progressEmoji(analysis.ThesisProgressScore)),
		"",
		fmt.Sprintf("*%s*\n", analysis.Reasoning),
		"---\n",
		fmt.Sprintf("**Thesis**: %s", titleOf(thesis)),
		fmt.Sprintf("**Period**: Last %d days", days),
		fmt.Sprintf("**Commits**: %d", len(commits)),
		fmt.Sprintf("**Changes**: +%d / -%d lines\n", additions, deletions),
		"### Commits\n",
	)

	if _, commitsSection, found := strings.Cut(baseReport, "### Commits\n"); found {
		lines = append(lines, commitsSection)
	}

	return strings.Join(lines, "\n")
}

func progressEmoji(score int) string {
	switch {
	case score >= 9:
		return "🟢"
	case score >= 7:
		return "🟡"
	case score >= 5:
		return "🟠"
	default:
		return "🔴"
	}
}
