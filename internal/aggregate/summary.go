package aggregate

import (
	"fmt"
	"io"
	"strings"

	"github.com/abdulachik/playmood/internal/corpus"
	"github.com/fatih/color"
)

// Options controls Summarize.
type Options struct {
	Floor float64
	// Expected is the expected record count; zero skips the check.
	Expected int
}

// Summary bundles every table the stats command prints.
type Summary struct {
	Records        int
	BySpeaker      *Table
	ByAct          *Table
	ByScene        *Table
	Intensity      []Intensity
	HighConfidence int
	Floor          float64
	Expected       int
	TotalOK        bool
}

// Summarize computes all tables over records.
func Summarize(records []corpus.Sentence, opts Options) *Summary {
	s := &Summary{
		Records:        len(records),
		Intensity:      Intensities(records, opts.Floor),
		HighConfidence: HighConfidence(records, opts.Floor),
		Floor:          opts.Floor,
		Expected:       opts.Expected,
	}
	// Keys are constants, so GroupBy cannot fail here.
	s.BySpeaker, _ = GroupBy(records, KeySpeaker)
	s.ByAct, _ = GroupBy(records, KeyAct)
	s.ByScene, _ = GroupBy(records, KeyScene)
	if opts.Expected > 0 {
		s.TotalOK, _ = CheckTotal(records, opts.Expected)
	}
	return s
}

var sectionColor = color.New(color.FgCyan, color.Bold)

func section(w io.Writer, title string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("=", 60))
	sectionColor.Fprintln(w, title)
	fmt.Fprintln(w, strings.Repeat("=", 60))
}

// Print renders the summary. Each section header is printed once.
func Print(w io.Writer, s *Summary) {
	section(w, "1) Sentiment Count per Character")
	printTable(w, s.BySpeaker)

	section(w, "2) Sentiment Distribution Across Acts")
	printTable(w, s.ByAct)

	section(w, "2b) Sentiment Distribution Across Scenes")
	printTable(w, s.ByScene)

	section(w, "3) Total Line Count Check")
	fmt.Fprintf(w, "Total lines = %d\n", s.Records)
	if s.Expected > 0 {
		result := color.New(color.FgGreen).Sprint("true")
		if !s.TotalOK {
			result = color.New(color.FgRed).Sprint("false")
		}
		fmt.Fprintf(w, "Check result: %s (expected %d)\n", result, s.Expected)
	}

	section(w, fmt.Sprintf("4) High-Confidence Sentences (|score| >= %.2f)", s.Floor))
	fmt.Fprintf(w, "Total: %d\n", s.HighConfidence)
	for _, in := range s.Intensity {
		fmt.Fprintf(w, "%s: %d\n", in.Speaker, in.HighConfidence)
	}

	section(w, "5) Average Emotional Intensity per Character")
	for _, in := range s.Intensity {
		if in.Scored == 0 {
			fmt.Fprintf(w, "%s: n/a\n", in.Speaker)
			continue
		}
		fmt.Fprintf(w, "%s: %.4f (%d scored)\n", in.Speaker, in.Mean, in.Scored)
	}
}

func printTable(w io.Writer, t *Table) {
	if t == nil {
		return
	}
	for _, g := range t.Groups {
		fmt.Fprintf(w, "%s:\n", g.Name)
		fmt.Fprintf(w, "  local:  %s\n", formatLocal(g))
		fmt.Fprintf(w, "  remote: %s\n", formatRemote(g))
		fmt.Fprintf(w, "  emotion: %s\n", formatEmotions(g))
	}
}

func formatEmotions(g *Group) string {
	parts := make([]string, 0, len(corpus.Emotions))
	for _, e := range corpus.Emotions {
		parts = append(parts, fmt.Sprintf("%s=%d", e, g.Emotions[e]))
	}
	return strings.Join(parts, " ")
}

func formatLocal(g *Group) string {
	parts := make([]string, 0, len(corpus.LocalLabels)+1)
	for _, l := range corpus.LocalLabels {
		parts = append(parts, fmt.Sprintf("%s=%d", l, g.Local[l]))
	}
	parts = append(parts, fmt.Sprintf("missing=%d", g.LocalMissing))
	return strings.Join(parts, " ")
}

func formatRemote(g *Group) string {
	parts := make([]string, 0, len(corpus.Polarities)+1)
	for _, p := range corpus.Polarities {
		parts = append(parts, fmt.Sprintf("%s=%d", p, g.Remote[p]))
	}
	parts = append(parts, fmt.Sprintf("missing=%d", g.RemoteMissing))
	return strings.Join(parts, " ")
}

// PrintTrend renders a speaker's polarity trend as one line per point.
func PrintTrend(w io.Writer, speaker string, points []Point) {
	section(w, "Sentiment Development: "+speaker)
	for _, p := range points {
		fmt.Fprintf(w, "%6d  %+d\n", p.Number, p.Value)
	}
}
