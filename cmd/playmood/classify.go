package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/abdulachik/playmood/internal/annotate"
	"github.com/abdulachik/playmood/internal/app"
	"github.com/abdulachik/playmood/internal/config"
	"github.com/abdulachik/playmood/internal/corpus"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	classifyOutput string
	classifyStrict bool
)

var classifyCmd = &cobra.Command{
	Use:   "classify <selected_speakers.json>",
	Short: "Add local sentiment to every sentence",
	Long: `Run the local sentiment classifier over the corpus and store each result
in the record's "sentiment" field. Records that already have one are kept.

Afterwards every speaker is checked for at least MIN_SENTENCES sentences at or
above CONFIDENCE_FLOOR. With --strict a shortfall fails the command.

Examples:
  playmood classify selected_speakers_hamlet.json
  playmood classify selected_speakers_hamlet.json -o classified.json --strict`,
	Args: cobra.ExactArgs(1),
	RunE: runClassify,
}

func init() {
	classifyCmd.Flags().StringVarP(&classifyOutput, "output", "o", "", "Output corpus file (default: overwrite input)")
	classifyCmd.Flags().BoolVar(&classifyStrict, "strict", false, "Fail when a speaker has too few high-confidence sentences")
	rootCmd.AddCommand(classifyCmd)
}

func runClassify(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	input := args[0]

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.ValidateForClassify(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	records, err := corpus.Load(input)
	if err != nil {
		return err
	}

	a, err := app.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialize app: %w", err)
	}
	defer a.Close()

	// Only require the classifier when something is left to classify
	if needsLocal(records) {
		if err := a.Classifier.Ping(ctx); err != nil {
			return fmt.Errorf("classifier not reachable at %s: %w", cfg.ClassifierHost, err)
		}
	}

	annotated, summary, err := a.Merger(nil).AnnotateLocal(ctx, records)
	if err != nil {
		return err
	}

	// Default to overwriting the input checkpoint
	output := classifyOutput
	if output == "" {
		output = input
	}
	if err := corpus.Save(output, annotated); err != nil {
		return fmt.Errorf("save corpus: %w", err)
	}

	fmt.Printf("Classified %d sentences (%d already had a sentiment)\n", summary.Annotated, summary.Skipped)
	fmt.Printf("%s has %d sentences with sentiment analysis.\n", output, len(annotated))

	return checkSentences(annotated, cfg, classifyStrict)
}

// checkSentences prints any post-merge shortfall. It is only an error when
// strict is set.
func checkSentences(records []corpus.Sentence, cfg *config.Config, strict bool) error {
	source, err := annotate.ParseConfidenceSource(cfg.ConfidenceSource)
	if err != nil {
		return err
	}

	deficiencies, err := annotate.Check(records, nil, annotate.CheckConfig{
		MinSentences: cfg.MinSentences,
		Floor:        cfg.ConfidenceFloor,
		Source:       source,
	})
	if err == nil {
		fmt.Printf("%s every speaker has at least %d high-confidence sentences\n",
			color.New(color.FgGreen).Sprint("✓"), cfg.MinSentences)
		return nil
	}
	if !errors.Is(err, annotate.ErrInsufficientSentences) {
		return err
	}

	for _, d := range deficiencies {
		fmt.Printf("%s %s\n", color.New(color.FgYellow).Sprint("!"), d)
	}
	if strict {
		return err
	}
	slog.Warn("continuing with insufficient high-confidence sentences; re-sample or pick other speakers", "speakers", len(deficiencies))
	return nil
}

func needsLocal(records []corpus.Sentence) bool {
	for _, r := range records {
		if r.Sentiment == nil {
			return true
		}
	}
	return false
}
