package speakers

import (
	"fmt"
	"strings"
)

// Decision is the eligibility outcome for one speaker. An ineligible speaker
// is a normal result, not an error.
type Decision struct {
	Speaker     string
	Eligible    bool
	Total       int
	MissingActs []string
	Reason      string
}

// Decide evaluates every speaker against the coverage and minimum rule.
// Decisions are ordered like Ranked.
func Decide(stats *Statistics, minSentences int) []Decision {
	ranked := stats.Ranked()
	decisions := make([]Decision, 0, len(ranked))

	for _, p := range ranked {
		d := Decision{
			Speaker:     p.Speaker,
			Total:       p.Total,
			MissingActs: p.Missing(stats.Acts),
		}

		var reasons []string
		if len(d.MissingActs) > 0 {
			reasons = append(reasons, "absent from "+strings.Join(d.MissingActs, ", "))
		}
		if p.Total < minSentences {
			reasons = append(reasons, fmt.Sprintf("%d of %d sentences", p.Total, minSentences))
		}

		d.Eligible = len(reasons) == 0
		d.Reason = strings.Join(reasons, "; ")
		decisions = append(decisions, d)
	}

	return decisions
}

// Select returns the eligible speakers: those present in every observed act
// with at least minSentences records. The boundary is inclusive.
func Select(stats *Statistics, minSentences int) []string {
	var eligible []string
	for _, d := range Decide(stats, minSentences) {
		if d.Eligible {
			eligible = append(eligible, d.Speaker)
		}
	}
	return eligible
}
