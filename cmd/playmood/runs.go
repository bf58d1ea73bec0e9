package main

import (
	"fmt"

	"github.com/abdulachik/playmood/internal/config"
	"github.com/abdulachik/playmood/internal/db"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var runsLimit int

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recent annotation runs",
	Long: `Show recent annotation runs with their progress. An incomplete run can be
resumed with "playmood annotate ... --run <id>".`,
	RunE: runRuns,
}

func init() {
	runsCmd.Flags().IntVarP(&runsLimit, "limit", "n", 10, "Number of runs to show")
	rootCmd.AddCommand(runsCmd)
}

func runRuns(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	store, err := db.NewStore(ctx, cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer store.Close()

	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	total, err := store.CountRuns(ctx)
	if err != nil {
		return fmt.Errorf("count runs: %w", err)
	}

	runs, err := store.ListRecentRuns(ctx, int64(runsLimit))
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}

	fmt.Printf("Database: %s\n", cfg.DatabasePath)
	fmt.Printf("Runs: %d\n\n", total)

	for _, run := range runs {
		saved, err := store.CountRemoteAnnotations(ctx, run.ID)
		if err != nil {
			return fmt.Errorf("count annotations: %w", err)
		}
		failed, err := store.CountFailedAnnotations(ctx, run.ID)
		if err != nil {
			return fmt.Errorf("count failures: %w", err)
		}

		status := color.New(color.FgYellow).Sprint("incomplete")
		if run.CompletedAt.Valid {
			status = color.New(color.FgGreen).Sprint("complete")
		}

		fmt.Printf("%s  %s\n", run.ID, status)
		fmt.Printf("  input:    %s\n", run.InputPath)
		fmt.Printf("  provider: %s\n", run.Provider)
		fmt.Printf("  started:  %s\n", run.CreatedAt.Format("2006-01-02 15:04:05"))
		fmt.Printf("  saved:    %d of %d (%d failed)\n", saved, run.Requested, failed)
		fmt.Printf("  seed:     %d, per speaker: %d, sample: %d\n", run.Seed, run.PerSpeakerLimit, run.SampleSize)
	}

	return nil
}
