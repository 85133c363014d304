package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/d-krupke/thesis-manager/config"
	"github.com/d-krupke/thesis-manager/pkg/gitlab"
	"github.com/d-krupke/thesis-manager/pkg/httpclient"
	"github.com/d-krupke/thesis-manager/pkg/logging"
	"github.com/d-krupke/thesis-manager/pkg/report"
	"github.com/d-krupke/thesis-manager/pkg/thesisclient"
	"github.com/d-krupke/thesis-manager/pkg/tracing"
)

type reportOptions struct {
	days     int
	dryRun   bool
	thesisID string
	useAI    bool
	aiModel  string
	verbose  bool
}

func main() {
	var opts reportOptions

	cmd := &cobra.Command{
		Use:   "reporter",
		Short: "Post weekly git activity reports on working theses",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReporter(cmd.Context(), opts)
		},
		SilenceUsage: true,
	}

	cmd.Flags().IntVar(&opts.days, "days", 7, "Look-back window in days")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Generate reports without posting comments")
	cmd.Flags().StringVar(&opts.thesisID, "thesis-id", "", "Report on a single thesis")
	cmd.Flags().BoolVar(&opts.useAI, "ai", false, "Prepend an AI progress analysis to each report")
	cmd.Flags().StringVar(&opts.aiModel, "ai-model", "", "Override the LLM model for the analysis")
	cmd.Flags().BoolVar(&opts.verbose, "verbose", false, "Log at debug level")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runReporter(ctx context.Context, opts reportOptions) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	level := cfg.LogLevel
	if opts.verbose {
		level = "debug"
	}
	logger := logging.New(level, cfg.PrettyLogs)

	shutdownTracing := tracing.Setup("thesis-manager-reporter")
	defer func() { _ = shutdownTracing(context.Background()) }()

	apiClient := httpclient.NewClient(httpclient.Config{Timeout: cfg.ThesisManagerTimeout}, logger)
	theses := thesisclient.NewClient(apiClient, cfg.ThesisManagerURL, cfg.ThesisManagerAPIToken, logger)

	gitlabClient := httpclient.NewClient(httpclient.Config{Timeout: cfg.GitLabTimeout}, logger)
	repos := gitlab.NewClient(gitlabClient, cfg.GitLabURL, cfg.GitLabToken, logger)

	var analyzer report.Analyzer
	if opts.useAI {
		model := cfg.LLMModel
		if opts.aiModel != "" {
			model = opts.aiModel
		}
		llmClient := httpclient.NewClient(httpclient.Config{Timeout: cfg.LLMTimeout}, logger)
		analyzer = report.NewLLMAnalyzer(llmClient, report.AnalyzerConfig{
			APIBase:     cfg.LLMAPIBase,
			APIKey:      cfg.LLMAPIKey,
			Model:       model,
			Temperature: cfg.LLMTemperature,
			MaxTokens:   cfg.LLMMaxTokens,
		}, logger)
	}

	reporter := report.NewReporter(theses, repos, analyzer, logger)
	summary, err := reporter.Run(ctx, report.Options{
		Days:     opts.days,
		DryRun:   opts.dryRun,
		ThesisID: opts.thesisID,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Processed %d theses: %d succeeded, %d failed\n", summary.Processed, summary.Succeeded, summary.Failed)
	if summary.Failed > 0 {
		return fmt.Errorf("%d theses failed", summary.Failed)
	}
	return nil
}
