package main

import (
	"fmt"
	"log/slog"

	"github.com/abdulachik/playmood/internal/config"
	"github.com/abdulachik/playmood/internal/corpus"
	"github.com/abdulachik/playmood/internal/extractor"
	"github.com/spf13/cobra"
)

var (
	extractOutput string
	extractSplit  string
)

var extractCmd = &cobra.Command{
	Use:   "extract <play.xml>",
	Short: "Extract the sentence corpus from a play",
	Long: `Flatten a play document into an ordered list of sentence records, each
tagged with act, scene, speaker and a dense sentence number.

Examples:
  playmood extract plays/hamlet.xml                  # writes plays/all_sentences_hamlet.json
  playmood extract plays/hamlet.xml --split sentence
  playmood extract plays/hamlet.xml -o corpus.json`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().StringVarP(&extractOutput, "output", "o", "", "Output corpus file (default: all_sentences_<play>.json)")
	extractCmd.Flags().StringVar(&extractSplit, "split", "", "Unit split mode: line or sentence (default: SPLIT_MODE)")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	input := args[0]

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	split := extractSplit
	if split == "" {
		split = cfg.SplitMode
	}
	mode, err := extractor.ParseMode(split)
	if err != nil {
		return err
	}

	output := extractOutput
	if output == "" {
		output = siblingPath(input, "all_sentences_"+playName(input)+".json")
	}

	slog.Info("extracting sentences", "play", input, "mode", mode)

	records, stats, err := extractor.ExtractFile(input, extractor.Options{Mode: mode})
	if err != nil {
		return fmt.Errorf("extract %s: %w", input, err)
	}

	// Guard the numbering and attribution invariants before anything downstream reads the file
	if err := corpus.Validate(records); err != nil {
		return fmt.Errorf("extracted corpus is invalid: %w", err)
	}

	if err := corpus.Save(output, records); err != nil {
		return fmt.Errorf("save corpus: %w", err)
	}

	fmt.Printf("Acts: %d, Scenes: %d, Speeches: %d\n", stats.Acts, stats.Scenes, stats.Speeches)
	fmt.Printf("Sentences: %d (dropped %d empty)\n", stats.Emitted, stats.Dropped)
	fmt.Printf("Sentences saved to %s\n", output)
	return nil
}
