package report

import (
	"context"
	"fmt"
	"time"

	"github.com/Gobusters/ectologger"

	"github.com/d-krupke/thesis-manager/pkg/gitlab"
	"github.com/d-krupke/thesis-manager/pkg/metrics"
	"github.com/d-krupke/thesis-manager/pkg/models"
	"github.com/d-krupke/thesis-manager/pkg/tracing"
)

// ThesisSource is the slice of the thesis manager API the reporter needs
type ThesisSource interface {
	ListWorkingTheses(ctx context.Context) ([]models.Thesis, error)
	GetThesis(ctx context.Context, id string) (*models.Thesis, error)
	AddComment(ctx context.Context, thesisID, text string) (*models.Comment, error)
}

// RepoActivity is the slice of the GitLab API the reporter needs
type RepoActivity interface {
	GetProject(ctx context.Context, projectPath string) (*gitlab.Project, error)
	CollectRecentCommits(ctx context.Context, projectID int, since, until time.Time) ([]gitlab.Commit, error)
}

// Options control one reporter run
type Options struct {
	// Days is the look-back window
	Days int
	// DryRun skips posting comments
	DryRun bool
	// ThesisID limits the run to one thesis
	ThesisID string
}

// Summary tallies one reporter run
type Summary struct {
	Processed int
	Succeeded int
	Failed    int
}

// Reporter generates weekly activity reports and posts them as comments
type Reporter struct {
	theses    ThesisSource
	repos     RepoActivity
	generator *Generator
	analyzer  Analyzer
	logger    ectologger.Logger
}

// NewReporter creates a reporter. The analyzer may be nil, in which case the
// plain commit report is posted.
func NewReporter(theses ThesisSource, repos RepoActivity, analyzer Analyzer, logger ectologger.Logger) *Reporter {
	return &Reporter{
		theses:    theses,
		repos:     repos,
		generator: NewGenerator(),
		analyzer:  analyzer,
		logger:    logger,
	}
}

// Run processes all working theses with a repository, or a single thesis
// when one is requested.
func (r *Reporter) Run(ctx context.Context, opts Options) (*Summary, error) {
	ctx, span := tracing.StartSpan(ctx, "report.Reporter.Run")
	defer span.End()

	if opts.Days < 1 {
		opts.Days = 7
	}

	var theses []models.Thesis
	if opts.ThesisID != "" {
		thesis, err := r.theses.GetThesis(ctx, opts.ThesisID)
		if err != nil {
			return nil, err
		}
		theses = []models.Thesis{*thesis}
	} else {
		all, err := r.theses.ListWorkingTheses(ctx)
		if err != nil {
			return nil, err
		}
		for _, t := range all {
			if t.GitRepository != "" {
				theses = append(theses, t)
			}
		}
	}

	summary := &Summary{}
	for i := range theses {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		summary.Processed++
		if r.processThesis(ctx, &theses[i], opts) {
			summary.Succeeded++
			metrics.RecordReportGeneration("success")
		} else {
			summary.Failed++
			metrics.RecordReportGeneration("error")
		}
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"processed": summary.Processed,
		"succeeded": summary.Succeeded,
		"failed":    summary.Failed,
	}).Info("Report run finished")

	return summary, nil
}

func (r *Reporter) processThesis(ctx context.Context, thesis *models.Thesis, opts Options) bool {
	log := r.logger.WithContext(ctx).WithFields(map[string]any{
		"thesis_id": thesis.ID,
		"title":     titleOf(thesis),
	})
	log.Info("Processing thesis")

	projectPath := gitlab.ExtractProjectPath(thesis.GitRepository)
	if projectPath == "" {
		log.Warnf("Could not extract project path from URL: %s", thesis.GitRepository)
		r.postError(ctx, thesis, opts, fmt.Sprintf(
			"⚠️ **Automatic Weekly Report - Error**\n\n"+
				"Could not analyze repository activity for the past %d days.\n\n"+
				"**Error:** Invalid GitLab repository URL.\n\n"+
				"**Details:** The repository URL could not be parsed. Please verify that the "+
				"GitLab repository URL is correct and follows the expected format "+
				"(e.g., `https://gitlab.example.com/group/project`).\n\n"+
				"**Repository URL:** `%s`\n\n"+
				"**Action Required:** Please update the repository URL in the thesis settings.",
			opts.Days, thesis.GitRepository,
		))
		return false
	}

	project, err := r.repos.GetProject(ctx, projectPath)
	if err != nil || project == nil {
		log.Warn("Could not access GitLab project (check permissions)")
		r.postError(ctx, thesis, opts, fmt.Sprintf(
			"⚠️ **Automatic Weekly Report - Error**\n\n"+
				"Could not analyze repository activity for the past %d days.\n\n"+
				"**Error:** GitLab repository not accessible.\n\n"+
				"**Possible causes:**\n"+
				"- The repository does not exist or has been moved/renamed\n"+
				"- The bot account does not have access permissions to this repository\n"+
				"- The repository is private and access has not been granted\n"+
				"- The GitLab server is temporarily unavailable\n\n"+
				"**Repository URL:** `%s`\n"+
				"**Project Path:** `%s`\n\n"+
				"**Action Required:** Please verify the repository exists and grant read access "+
				"to the thesis manager bot account.",
			opts.Days, thesis.GitRepository, projectPath,
		))
		return false
	}

	now := time.Now().UTC()
	since := now.AddDate(0, 0, -opts.Days)

	commits, err := r.repos.CollectRecentCommits(ctx, project.ID, since, now)
	if err != nil {
		log.WithError(err).Error("Failed to fetch commits")
		r.postError(ctx, thesis, opts, fmt.Sprintf(
			"⚠️ **Automatic Weekly Report - Error**\n\n"+
				"Could not analyze repository activity for the past %d days.\n\n"+
				"**Error:** Failed to fetch commits from GitLab.\n\n"+
				"**Technical details:** %s\n\n"+
				"**Repository URL:** `%s`\n\n"+
				"**Action Required:** This might be a temporary issue with the GitLab API. "+
				"If the problem persists, please contact the thesis manager administrator.",
			opts.Days, err.Error(), thesis.GitRepository,
		))
		return false
	}

	reportText := r.generator.Generate(commits, thesis, opts.Days)

	if r.analyzer != nil && len(commits) > 0 {
		analysis, err := r.analyzer.Analyze(ctx, commits, thesis, opts.Days)
		if err != nil {
			// the plain report still goes out
			log.WithError(err).Error("AI analysis failed, falling back to basic report")
		} else {
			reportText = FormatEnhancedReport(analysis, reportText, commits, thesis, opts.Days)
		}
	}

	if opts.DryRun {
		log.Infof("[DRY RUN] Would create comment with %d characters", len(reportText))
		return true
	}

	if _, err := r.theses.AddComment(ctx, thesis.ID, reportText); err != nil {
		log.WithError(err).Error("Failed to create comment")
		return false
	}

	return true
}

func (r *Reporter) postError(ctx context.Context, thesis *models.Thesis, opts Options, message string) {
	if opts.DryRun {
		r.logger.WithContext(ctx).Info("[DRY RUN] Would create error comment")
		return
	}
	if _, err := r.theses.AddComment(ctx, thesis.ID, message); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to create error comment")
	}
}
