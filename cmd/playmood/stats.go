package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/abdulachik/playmood/internal/aggregate"
	"github.com/abdulachik/playmood/internal/config"
	"github.com/abdulachik/playmood/internal/corpus"
	"github.com/abdulachik/playmood/internal/report"
	"github.com/spf13/cobra"
)

var (
	statsExpected int
	statsTrend    []string
	statsFloor    float64
)

var statsCmd = &cobra.Command{
	Use:   "stats <report.xlsx|report.csv|corpus.json>",
	Short: "Show sentiment statistics for an annotated report",
	Long: `Print sentiment counts per speaker, act and scene, the total line check,
high-confidence counts and average emotional intensity per speaker.

Local classifier labels and remote polarities are always counted separately.

Examples:
  playmood stats sentiment_analysis_hamlet.xlsx --expected 2036
  playmood stats sentiment_analysis_hamlet.xlsx --trend HAMLET --trend "KING CLAUDIUS"`,
	Args: cobra.ExactArgs(1),
	RunE: runStats,
}

func init() {
	statsCmd.Flags().IntVar(&statsExpected, "expected", 0, "Expected number of report lines (0 skips the check)")
	statsCmd.Flags().StringArrayVar(&statsTrend, "trend", nil, "Print the sentiment development of a speaker (repeatable)")
	statsCmd.Flags().Float64Var(&statsFloor, "floor", -1, "High-confidence floor (default: CONFIDENCE_FLOOR)")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	floor := cfg.ConfidenceFloor
	if statsFloor >= 0 {
		floor = statsFloor
	}

	records, err := loadAnnotated(args[0])
	if err != nil {
		return err
	}

	summary := aggregate.Summarize(records, aggregate.Options{Floor: floor, Expected: statsExpected})
	aggregate.Print(os.Stdout, summary)

	// Sentiment development per requested speaker
	for _, speaker := range statsTrend {
		aggregate.PrintTrend(os.Stdout, corpus.NormalizeSpeaker(speaker), aggregate.Trend(records, corpus.NormalizeSpeaker(speaker)))
	}

	return nil
}

// loadAnnotated reads a report, or a corpus file written with --json-out.
func loadAnnotated(path string) ([]corpus.Sentence, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return corpus.Load(path)
	}
	rows, err := report.Read(path)
	if err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}
	return report.Sentences(rows), nil
}
