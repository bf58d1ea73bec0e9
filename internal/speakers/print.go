package speakers

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// Print writes the play statistics table and the eligibility verdicts.
func Print(w io.Writer, stats *Statistics, minSentences int) {
	header := color.New(color.Bold)

	fmt.Fprintln(w, strings.Repeat("=", 60))
	header.Fprintln(w, "Play statistics")
	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintf(w, "Acts: %d (%s)\n", len(stats.Acts), strings.Join(stats.Acts, ", "))
	fmt.Fprintf(w, "Speakers: %d\n", len(stats.Profiles))
	fmt.Fprintf(w, "Sentences: %d\n", stats.Sentences)
	fmt.Fprintf(w, "Minimum sentences: %d\n\n", minSentences)

	fmt.Fprintf(w, "%-28s %6s  %s\n", "SPEAKER", "TOTAL", "PER ACT")
	for _, d := range Decide(stats, minSentences) {
		p := stats.Profiles[d.Speaker]

		counts := make([]string, len(stats.Acts))
		for i, act := range stats.Acts {
			counts[i] = fmt.Sprintf("%d", p.PerActCounts[act])
		}

		verdict := color.New(color.FgGreen).Sprint("eligible")
		if !d.Eligible {
			verdict = color.New(color.FgHiBlack).Sprint(d.Reason)
		}
		fmt.Fprintf(w, "%-28s %6d  %-20s %s\n", d.Speaker, d.Total, strings.Join(counts, "/"), verdict)
	}
	fmt.Fprintln(w)
}
