package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/abdulachik/playmood/internal/config"
	"github.com/abdulachik/playmood/internal/corpus"
	"github.com/abdulachik/playmood/internal/sampling"
	"github.com/abdulachik/playmood/internal/speakers"
	"github.com/spf13/cobra"
)

var (
	selectOutput   string
	selectSpeakers string
	selectCount    int
	selectMin      int
)

var selectCmd = &cobra.Command{
	Use:   "select <all_sentences.json>",
	Short: "Choose speakers and filter the corpus to them",
	Long: `Print per-speaker statistics, list the speakers present in every act with
at least the minimum number of sentences, and keep only the chosen speakers.

Without --speakers the choice is asked for interactively.

Examples:
  playmood select all_sentences_hamlet.json
  playmood select all_sentences_hamlet.json --speakers "HAMLET,KING CLAUDIUS"`,
	Args: cobra.ExactArgs(1),
	RunE: runSelect,
}

func init() {
	selectCmd.Flags().StringVarP(&selectOutput, "output", "o", "", "Output corpus file (default: selected_speakers_<play>.json)")
	selectCmd.Flags().StringVar(&selectSpeakers, "speakers", "", "Comma-separated speakers to keep")
	selectCmd.Flags().IntVar(&selectCount, "count", 2, "Number of speakers to choose")
	selectCmd.Flags().IntVar(&selectMin, "min", -1, "Minimum sentences per speaker (default: MIN_SENTENCES)")
	rootCmd.AddCommand(selectCmd)
}

func runSelect(cmd *cobra.Command, args []string) error {
	input := args[0]

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	minSentences := cfg.MinSentences
	if selectMin >= 0 {
		minSentences = selectMin
	}
	if selectCount < 1 {
		return fmt.Errorf("--count must be at least 1")
	}

	slog.Info("loading sentences", "file", input)
	records, err := corpus.Load(input)
	if err != nil {
		return err
	}

	// Show statistics and eligibility for every speaker
	stats := speakers.Compute(records)
	speakers.Print(os.Stdout, stats, minSentences)

	candidates := speakers.Select(stats, minSentences)
	if len(candidates) < selectCount {
		return fmt.Errorf("only %d eligible speaker(s), need %d; lower --min or --count", len(candidates), selectCount)
	}

	// --speakers skips the interactive prompt
	var chosen []string
	if selectSpeakers != "" {
		chosen, err = speakers.ParseSelection(selectSpeakers, candidates, selectCount)
	} else {
		chosen, err = speakers.Ask(os.Stdin, os.Stdout, candidates, selectCount)
	}
	if err != nil {
		return fmt.Errorf("select speakers: %w", err)
	}

	output := selectOutput
	if output == "" {
		output = siblingPath(input, "selected_speakers_"+playName(input)+".json")
	}

	// Keep only the chosen speakers, in corpus order
	filtered := sampling.Filter(records, chosen)
	if err := corpus.Save(output, filtered); err != nil {
		return fmt.Errorf("save corpus: %w", err)
	}

	fmt.Printf("Selected %v: %d sentences\n", chosen, len(filtered))
	fmt.Printf("Selected speakers saved to %s\n", output)
	return nil
}
