package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/abdulachik/playmood/internal/annotate"
	"github.com/abdulachik/playmood/internal/app"
	"github.com/abdulachik/playmood/internal/config"
	"github.com/abdulachik/playmood/internal/corpus"
	"github.com/abdulachik/playmood/internal/report"
	"github.com/abdulachik/playmood/internal/sampling"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

const annotateUsage = `Usage: playmood annotate <input_corpus_file> <output_report_file> <max_sentences_per_speaker>

Example:
  playmood annotate selected_speakers_hamlet.json sentiment_analysis_hamlet.xlsx 50`

var (
	annotateSpeakers string
	annotateSample   int
	annotateSeed     int64
	annotateRun      string
	annotateJSONOut  string
)

var annotateCmd = &cobra.Command{
	Use:   "annotate <input_corpus_file> <output_report_file> <max_sentences_per_speaker>",
	Short: "Annotate sentences with the remote emotion model and write the report",
	Long: `Build the working set, make sure every sentence has a local sentiment,
annotate each one with the remote LLM, and write one report row per sentence.

The working set is each selected speaker's first <max_sentences_per_speaker>
sentences (0 means all of them), followed by a shuffled random sample of
--sample sentences drawn from the same speakers.

Remote results are stored as they arrive. If the run is interrupted, pass the
printed run ID to --run to continue where it stopped.

` + annotateUsage,
	Args: annotateArgs,
	RunE: runAnnotate,
}

func init() {
	annotateCmd.Flags().StringVar(&annotateSpeakers, "speakers", "", "Comma-separated speakers (default: every speaker in the input)")
	annotateCmd.Flags().IntVar(&annotateSample, "sample", -1, "Size of the extra random sample (default: SAMPLE_SIZE)")
	annotateCmd.Flags().Int64Var(&annotateSeed, "seed", 0, "Sampling seed (default: SAMPLE_SEED, else time-based)")
	annotateCmd.Flags().StringVar(&annotateRun, "run", "", "Resume an interrupted run by ID")
	annotateCmd.Flags().StringVar(&annotateJSONOut, "json-out", "", "Also write the annotated corpus as JSON")
	rootCmd.AddCommand(annotateCmd)
}

func annotateArgs(cmd *cobra.Command, args []string) error {
	if len(args) != 3 {
		fmt.Fprintln(cmd.ErrOrStderr(), annotateUsage)
		return fmt.Errorf("expected 3 arguments, got %d", len(args))
	}
	if _, err := parseLimit(args[2]); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), annotateUsage)
		return err
	}
	return nil
}

func parseLimit(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("max_sentences_per_speaker must be a non-negative integer, got %q", s)
	}
	return n, nil
}

func runAnnotate(cmd *cobra.Command, args []string) error {
	input, output := args[0], args[1]
	limit, _ := parseLimit(args[2])

	// Fail on an unsupported report extension before any remote call
	if _, err := report.FormatOf(output); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.ValidateForAnnotate(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	// Interrupts cancel the remote pass; finished results are kept
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Println("Starting Emotion Analysis...")

	records, err := corpus.Load(input)
	if err != nil {
		return err
	}

	// Default to every speaker in the input
	selected := corpus.Speakers(records)
	if annotateSpeakers != "" {
		selected = nil
		for _, s := range splitList(annotateSpeakers) {
			selected = append(selected, corpus.NormalizeSpeaker(s))
		}
	}
	for _, s := range selected {
		total := len(sampling.Filter(records, []string{s}))
		if total == 0 {
			return fmt.Errorf("speaker %q has no sentences in %s", s, input)
		}
		slog.Info("speaker sentences", "speaker", s, "total", total)
	}

	a, err := app.New(ctx, cfg, app.WithRemote())
	if err != nil {
		return fmt.Errorf("initialize app: %w", err)
	}
	defer a.Close()

	params := annotate.RunParams{
		InputPath:       input,
		Provider:        a.Provider.Name(),
		Seed:            resolveSeed(cmd, cfg),
		PerSpeakerLimit: limit,
		SampleSize:      cfg.SampleSize,
	}
	if annotateSample >= 0 {
		params.SampleSize = annotateSample
	}

	var run *annotate.RunStore
	if annotateRun != "" {
		run, err = annotate.OpenRun(ctx, a.Store, annotateRun)
		if err != nil {
			return err
		}
		// the stored parameters rebuild the same working set
		stored := run.Params()
		params.Seed, params.PerSpeakerLimit, params.SampleSize = stored.Seed, stored.PerSpeakerLimit, stored.SampleSize
	}

	// Build working set
	ws := sampling.Build(records, sampling.Plan{
		Speakers:        selected,
		PerSpeakerLimit: params.PerSpeakerLimit,
		SampleSize:      params.SampleSize,
		Pool:            selected,
	}, sampling.NewRand(&params.Seed))
	working := ws.All()

	slog.Info("built working set",
		"exhaustive", len(ws.Exhaustive),
		"sample", len(ws.Sample),
		"seed", params.Seed,
	)
	if len(working) == 0 {
		return fmt.Errorf("no sentences to annotate for speakers %v", selected)
	}

	// Start a new run or restore the saved results of an old one
	if run == nil {
		params.Requested = len(corpus.Index(working))
		run, err = annotate.StartRun(ctx, a.Store, params)
		if err != nil {
			return err
		}
	} else {
		// The input file may have changed since the run started
		requested := len(corpus.Index(working))
		if stored := run.Params().Requested; requested != stored {
			slog.Warn("working set differs from the stored run",
				"run", run.ID(), "stored", stored, "requested", requested)
			if err := run.SetRequested(ctx, requested); err != nil {
				return err
			}
		}

		saved, err := run.Results(ctx)
		if err != nil {
			return err
		}
		working = annotate.Restore(working, saved)
		slog.Info("restored saved results", "run", run.ID(), "results", len(saved))
	}

	merger := a.Merger(run)

	// Local pass only for records without a sentiment
	if needsLocal(working) {
		if err := a.Classifier.Ping(ctx); err != nil {
			return fmt.Errorf("classifier not reachable at %s: %w", cfg.ClassifierHost, err)
		}
		working, _, err = merger.AnnotateLocal(ctx, working)
		if err != nil {
			return err
		}
	}

	fmt.Printf("\nAnalyzing %d sentences with %s...\n\n", len(working), a.Provider.Name())

	start := time.Now()
	annotated, summary, err := merger.AnnotateRemote(ctx, working)
	if errors.Is(err, context.Canceled) {
		fmt.Printf("\nInterrupted: %d annotated, %d failed, %d pending.\n", summary.Annotated, summary.Failed, summary.Pending)
		fmt.Printf("Resume with: playmood annotate %s %s %s --run %s\n", input, output, args[2], run.ID())
		return err
	}
	if err != nil {
		return err
	}

	// Write outputs
	if err := report.Write(output, report.FromSentences(annotated)); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	fmt.Printf("Report saved to: %s\n", output)

	if annotateJSONOut != "" {
		if err := corpus.Save(annotateJSONOut, annotated); err != nil {
			return fmt.Errorf("save corpus: %w", err)
		}
		fmt.Printf("Annotated corpus saved to: %s\n", annotateJSONOut)
	}

	if err := run.Complete(context.WithoutCancel(ctx)); err != nil {
		slog.Warn("failed to mark run complete", "run", run.ID(), "error", err)
	}

	printAnnotateSummary(run.ID(), summary, time.Since(start))
	return checkSentences(annotated, cfg, false)
}

// resolveSeed prefers --seed, then SAMPLE_SEED, then the clock.
func resolveSeed(cmd *cobra.Command, cfg *config.Config) int64 {
	if cmd.Flags().Changed("seed") {
		return annotateSeed
	}
	if cfg.SampleSeed != nil {
		return *cfg.SampleSeed
	}
	return time.Now().UnixNano()
}

func printAnnotateSummary(runID string, s annotate.Summary, elapsed time.Duration) {
	failed := fmt.Sprint(s.Failed)
	if s.Failed > 0 {
		failed = color.New(color.FgRed).Sprint(s.Failed)
	}

	fmt.Println()
	fmt.Printf("Run:       %s\n", runID)
	fmt.Printf("Annotated: %s\n", color.New(color.FgGreen).Sprint(s.Annotated))
	fmt.Printf("Failed:    %s\n", failed)
	fmt.Printf("Skipped:   %d (already annotated)\n", s.Skipped)
	fmt.Printf("Elapsed:   %s\n", elapsed.Round(time.Millisecond))
	fmt.Println("\nEmotion Analysis Completed.")
}
