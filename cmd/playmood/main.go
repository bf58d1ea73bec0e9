package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "playmood",
	Short: "Sentiment and emotion analysis of play dialogue",
	Long: `Playmood turns a play's XML into a flat corpus of spoken sentences,
picks speakers present in every act, and annotates their lines with a local
sentiment classifier and a remote LLM emotion annotator.

Pipeline:
  playmood download --play hamlet
  playmood extract plays/hamlet.xml
  playmood select all_sentences_hamlet.json
  playmood classify selected_speakers_hamlet.json
  playmood annotate selected_speakers_hamlet.json sentiment_analysis_hamlet.xlsx 50
  playmood stats sentiment_analysis_hamlet.xlsx`,
	SilenceUsage: true,
}

func init() {
	_ = godotenv.Load()

	level := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
