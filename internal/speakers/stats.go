// Package speakers computes per-speaker coverage statistics over a corpus and
// decides which speakers have enough material for analysis.
package speakers

import (
	"sort"

	"github.com/abdulachik/playmood/internal/corpus"
)

// Profile summarizes one speaker's lines across the play.
type Profile struct {
	Speaker      string
	ActsPresent  []string
	PerActCounts map[string]int
	Total        int
}

// Covers reports whether the speaker has at least one line in every act.
func (p *Profile) Covers(acts []string) bool {
	return len(p.Missing(acts)) == 0
}

// Missing returns the acts in which the speaker has no lines.
func (p *Profile) Missing(acts []string) []string {
	var missing []string
	for _, act := range acts {
		if p.PerActCounts[act] == 0 {
			missing = append(missing, act)
		}
	}
	return missing
}

// Statistics holds every speaker's profile and the acts observed in the
// corpus.
type Statistics struct {
	Profiles map[string]*Profile
	// Acts lists distinct acts in order of first appearance.
	Acts []string
	// Order lists speakers in order of first appearance.
	Order []string
	// Sentences is the total record count.
	Sentences int
}

// Compute builds fresh statistics in a single pass over the corpus.
func Compute(records []corpus.Sentence) *Statistics {
	stats := &Statistics{
		Profiles:  make(map[string]*Profile),
		Sentences: len(records),
	}
	seenAct := make(map[string]bool)

	for _, r := range records {
		if !seenAct[r.Act] {
			seenAct[r.Act] = true
			stats.Acts = append(stats.Acts, r.Act)
		}

		p, ok := stats.Profiles[r.Speaker]
		if !ok {
			p = &Profile{Speaker: r.Speaker, PerActCounts: make(map[string]int)}
			stats.Profiles[r.Speaker] = p
			stats.Order = append(stats.Order, r.Speaker)
		}

		if p.PerActCounts[r.Act] == 0 {
			p.ActsPresent = append(p.ActsPresent, r.Act)
		}
		p.PerActCounts[r.Act]++
		p.Total++
	}

	return stats
}

// Ranked returns the profiles sorted by total descending, then by name.
func (s *Statistics) Ranked() []*Profile {
	ranked := make([]*Profile, 0, len(s.Profiles))
	for _, name := range s.Order {
		ranked = append(ranked, s.Profiles[name])
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Total != ranked[j].Total {
			return ranked[i].Total > ranked[j].Total
		}
		return ranked[i].Speaker < ranked[j].Speaker
	})
	return ranked
}
