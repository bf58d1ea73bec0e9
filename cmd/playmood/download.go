package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/abdulachik/playmood/internal/config"
	"github.com/spf13/cobra"
)

// PlaySource is a play document to download.
type PlaySource struct {
	Name  string
	Title string
	URL   string
}

const shakespeareBase = "https://www.ibiblio.org/xml/examples/shakespeare/"

// Plays from Jon Bosak's Shakespeare XML collection.
var plays = []PlaySource{
	{Name: "hamlet", Title: "The Tragedy of Hamlet, Prince of Denmark", URL: shakespeareBase + "hamlet.xml"},
	{Name: "macbeth", Title: "The Tragedy of Macbeth", URL: shakespeareBase + "macbeth.xml"},
	{Name: "othello", Title: "The Tragedy of Othello, the Moor of Venice", URL: shakespeareBase + "othello.xml"},
	{Name: "lear", Title: "The Tragedy of King Lear", URL: shakespeareBase + "lear.xml"},
	{Name: "r_and_j", Title: "The Tragedy of Romeo and Juliet", URL: shakespeareBase + "r_and_j.xml"},
	{Name: "j_caesar", Title: "The Tragedy of Julius Caesar", URL: shakespeareBase + "j_caesar.xml"},
	{Name: "dream", Title: "A Midsummer Night's Dream", URL: shakespeareBase + "dream.xml"},
	{Name: "tempest", Title: "The Tempest", URL: shakespeareBase + "tempest.xml"},
}

var (
	downloadForce bool
	downloadAll   bool
	downloadPlay  string
	playsDir      string
)

var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Download play XML files",
	Long: `Download plays in the PLAY > ACT > SCENE > SPEECH > LINE format.

Examples:
  playmood download --play hamlet
  playmood download --all --dir plays`,
	RunE: runDownload,
}

func init() {
	downloadCmd.Flags().BoolVarP(&downloadForce, "force", "f", false, "Re-download even if file exists")
	downloadCmd.Flags().BoolVar(&downloadAll, "all", false, "Download every known play")
	downloadCmd.Flags().StringVar(&downloadPlay, "play", "", "Download one play by name (e.g. hamlet)")
	downloadCmd.Flags().StringVar(&playsDir, "dir", "", "Directory to save plays (default: PLAYS_DIR)")
	rootCmd.AddCommand(downloadCmd)
}

func runDownload(cmd *cobra.Command, args []string) error {
	selected, err := selectPlays(downloadPlay, downloadAll)
	if err != nil {
		return err
	}

	dir := playsDir
	if dir == "" {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		dir = cfg.PlaysDir
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create plays directory: %w", err)
	}

	client := &http.Client{
		Timeout: 60 * time.Second,
	}

	downloaded := 0
	skipped := 0
	failed := 0

	for _, play := range selected {
		path := filepath.Join(dir, play.Name+".xml")

		if !downloadForce {
			if _, err := os.Stat(path); err == nil {
				fmt.Printf("  ✓ %s (already downloaded)\n", play.Title)
				skipped++
				continue
			}
		}

		fmt.Printf("  ↓ Downloading %s...", play.Title)

		if err := downloadFile(cmd.Context(), client, play.URL, path); err != nil {
			fmt.Printf(" ERROR: %v\n", err)
			slog.Error("failed to download play", "play", play.Name, "error", err)
			failed++
			continue
		}

		fmt.Println(" done")
		downloaded++
	}

	fmt.Println()
	fmt.Printf("Downloaded: %d, Skipped: %d, Failed: %d\n", downloaded, skipped, failed)
	fmt.Printf("Plays saved to: %s/\n", dir)

	if failed > 0 {
		return fmt.Errorf("%d download(s) failed", failed)
	}
	return nil
}

func selectPlays(name string, all bool) ([]PlaySource, error) {
	if all {
		return plays, nil
	}
	if name == "" {
		return nil, fmt.Errorf("must specify --all or --play")
	}
	for _, p := range plays {
		if strings.EqualFold(p.Name, name) {
			return []PlaySource{p}, nil
		}
	}

	names := make([]string, len(plays))
	for i, p := range plays {
		names[i] = p.Name
	}
	return nil, fmt.Errorf("unknown play %q (known: %s)", name, strings.Join(names, ", "))
}

func downloadFile(ctx context.Context, client *http.Client, url, path string) error {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return err
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	// A partial download never replaces path.
	tmp := path + ".part"
	file, err := os.Create(tmp)
	if err != nil {
		return err
	}

	if _, err := io.Copy(file, resp.Body); err != nil {
		file.Close()
		os.Remove(tmp)
		return err
	}
	if err := file.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}
