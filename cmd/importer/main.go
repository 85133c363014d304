package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/d-krupke/thesis-manager/config"
	"github.com/d-krupke/thesis-manager/pkg/extraction"
	"github.com/d-krupke/thesis-manager/pkg/httpclient"
	"github.com/d-krupke/thesis-manager/pkg/importer"
	"github.com/d-krupke/thesis-manager/pkg/logging"
	"github.com/d-krupke/thesis-manager/pkg/matching"
	"github.com/d-krupke/thesis-manager/pkg/thesisclient"
	"github.com/d-krupke/thesis-manager/pkg/tracing"
)

type importOptions struct {
	dryRun         bool
	nonInteractive bool
	startFrom      int
	useAI          bool
	model          string
}

func main() {
	var opts importOptions

	cmd := &cobra.Command{
		Use:   "importer <csv-file>",
		Short: "Import theses from a CSV export into the thesis manager",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd.Context(), args[0], opts)
		},
		SilenceUsage: true,
	}

	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Resolve and match rows without creating anything")
	cmd.Flags().BoolVar(&opts.nonInteractive, "non-interactive", false, "Answer every prompt with its default")
	cmd.Flags().IntVar(&opts.startFrom, "start-from", 0, "Skip rows before this 1-based row index")
	cmd.Flags().BoolVar(&opts.useAI, "ai", false, "Extract rows with an LLM instead of the column rules")
	cmd.Flags().StringVar(&opts.model, "model", "", "Override the LLM model for extraction")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runImport(ctx context.Context, path string, opts importOptions) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := logging.New(cfg.LogLevel, cfg.PrettyLogs)

	shutdownTracing := tracing.Setup("thesis-manager-importer")
	defer func() { _ = shutdownTracing(context.Background()) }()

	rows, err := importer.ReadCSVFile(path)
	if err != nil {
		return err
	}

	httpClient := httpclient.NewClient(httpclient.Config{Timeout: cfg.ThesisManagerTimeout}, logger)
	storage := thesisclient.NewClient(httpClient, cfg.ThesisManagerURL, cfg.ThesisManagerAPIToken, logger)

	cache := importer.NewCandidateCache(storage, logger)
	matcher := matching.NewMatcher(matching.MatcherConfig{
		Threshold:      cfg.MatchThreshold,
		TitleThreshold: cfg.TitleMatchThreshold,
	})
	orch := importer.NewOrchestrator(storage, cache, matcher, logger)

	var extractor extraction.Extractor
	if opts.useAI {
		model := cfg.LLMModel
		if opts.model != "" {
			model = opts.model
		}
		llmClient := httpclient.NewClient(httpclient.Config{Timeout: cfg.LLMTimeout}, logger)
		extractor = extraction.NewLLMExtractor(llmClient, extraction.LLMConfig{
			APIBase:     cfg.LLMAPIBase,
			APIKey:      cfg.LLMAPIKey,
			Model:       model,
			Temperature: cfg.LLMTemperature,
			MaxTokens:   cfg.LLMMaxTokens,
		}, logger)
	} else {
		extractor = extraction.NewRuleBasedExtractor()
	}

	decider := importer.DefaultDecider()
	if !opts.nonInteractive {
		decider = newTerminalDecider(os.Stdin, os.Stdout)
	}

	runner := importer.NewRunner(orch, extractor, decider, logger)
	summary, err := runner.Run(ctx, rows, importer.RunnerOptions{
		DryRun:    opts.dryRun,
		StartFrom: opts.startFrom,
	})
	if err != nil {
		return err
	}

	return finishRun(os.Stdout, summary, opts.dryRun)
}

// finishRun reports the batch outcome. Row failures are tallied in the
// summary and never fail the process; a non-zero exit is reserved for setup
// errors such as a missing file or an unreachable API.
func finishRun(w io.Writer, summary *importer.Summary, dryRun bool) error {
	printSummary(w, summary, dryRun)
	return nil
}

func printSummary(w io.Writer, summary *importer.Summary, dryRun bool) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "=== Import Summary ===")
	fmt.Fprintf(w, "Rows processed: %d\n", summary.Total)
	if dryRun {
		fmt.Fprintf(w, "Would import:   %d\n", summary.DryRun)
	} else {
		fmt.Fprintf(w, "Imported:       %d\n", summary.Imported)
	}
	fmt.Fprintf(w, "Skipped:        %d\n", summary.Skipped)
	fmt.Fprintf(w, "Errors:         %d\n", summary.Errors)
	if summary.Interrupted {
		fmt.Fprintln(w, "Run was interrupted before the last row.")
	}

	for _, report := range summary.Reports {
		if report.Err != nil {
			fmt.Fprintf(w, "  row %d: %v\n", report.Index, report.Err)
			continue
		}
		if report.Result != nil && report.Result.Outcome == importer.OutcomeSkipped {
			fmt.Fprintf(w, "  row %d skipped: %s\n", report.Index, report.Result.Reason)
		}
	}
}

// terminalDecider answers orchestrator decision requests by prompting on the
// terminal. Yes/no requests accept y/n with the request default on empty
// input; choice requests accept a 1-based option number or n for none.
type terminalDecider struct {
	in  *bufio.Scanner
	out *os.File
}

func newTerminalDecider(in *os.File, out *os.File) *terminalDecider {
	return &terminalDecider{
		in:  bufio.NewScanner(in),
		out: out,
	}
}

func (d *terminalDecider) Decide(ctx context.Context, req *importer.DecisionRequest) (importer.Decision, error) {
	fmt.Fprintln(d.out)
	fmt.Fprintln(d.out, req.Prompt)

	if len(req.Options) > 0 {
		return d.choose(ctx, req)
	}
	return d.confirm(ctx, req)
}

func (d *terminalDecider) choose(ctx context.Context, req *importer.DecisionRequest) (importer.Decision, error) {
	for i, option := range req.Options {
		fmt.Fprintf(d.out, "%d) %s\n", i+1, option)
	}
	fmt.Fprintf(d.out, "Select 1-%d or n for none: ", len(req.Options))

	for {
		line, err := d.readLine(ctx)
		if err != nil {
			return importer.Decision{}, err
		}
		if line == "n" || line == "" {
			return importer.Decision{Choice: -1}, nil
		}
		if choice, err := strconv.Atoi(line); err == nil && choice >= 1 && choice <= len(req.Options) {
			return importer.Decision{Choice: choice - 1}, nil
		}
		fmt.Fprintf(d.out, "Select 1-%d or n for none: ", len(req.Options))
	}
}

func (d *terminalDecider) confirm(ctx context.Context, req *importer.DecisionRequest) (importer.Decision, error) {
	hint := "[y/N]"
	if req.Default {
		hint = "[Y/n]"
	}
	fmt.Fprintf(d.out, "%s ", hint)

	for {
		line, err := d.readLine(ctx)
		if err != nil {
			return importer.Decision{}, err
		}
		switch line {
		case "":
			return importer.Decision{Approved: req.Default}, nil
		case "y", "yes":
			return importer.Decision{Approved: true}, nil
		case "n", "no":
			return importer.Decision{Approved: false}, nil
		}
		fmt.Fprintf(d.out, "%s ", hint)
	}
}

func (d *terminalDecider) readLine(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !d.in.Scan() {
		if err := d.in.Err(); err != nil {
			return "", err
		}
		return "", fmt.Errorf("input closed")
	}
	return strings.ToLower(strings.TrimSpace(d.in.Text())), nil
}
