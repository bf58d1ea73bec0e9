package annotate

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/abdulachik/playmood/internal/corpus"
)

// ErrInsufficientSentences is returned by Check when any speaker in scope has
// fewer high-confidence sentences than required.
var ErrInsufficientSentences = errors.New("insufficient high-confidence sentences")

// ConfidenceSource selects which annotation decides whether a sentence is
// high-confidence.
type ConfidenceSource string

const (
	// SourceLocal requires a local score at or above the floor.
	SourceLocal ConfidenceSource = "local"
	// SourceRemote requires a non-neutral remote polarity.
	SourceRemote ConfidenceSource = "remote"
	// SourceBoth requires both.
	SourceBoth ConfidenceSource = "both"
)

// ParseConfidenceSource parses a confidence source name.
func ParseConfidenceSource(s string) (ConfidenceSource, error) {
	switch src := ConfidenceSource(strings.ToLower(strings.TrimSpace(s))); src {
	case SourceLocal, SourceRemote, SourceBoth:
		return src, nil
	case "":
		return SourceLocal, nil
	default:
		return "", fmt.Errorf("invalid confidence source %q (must be 'local', 'remote' or 'both')", s)
	}
}

// CheckConfig holds the post-merge threshold.
type CheckConfig struct {
	MinSentences int
	Floor        float64
	Source       ConfidenceSource
}

// Deficiency names a speaker below the threshold.
type Deficiency struct {
	Speaker  string
	Count    int
	Required int
}

func (d Deficiency) String() string {
	return fmt.Sprintf("%s: %d of %d high-confidence sentences", d.Speaker, d.Count, d.Required)
}

// HighConfidence reports whether a record clears the configured floor.
func HighConfidence(r corpus.Sentence, cfg CheckConfig) bool {
	local := r.Sentiment != nil && math.Abs(r.Sentiment.Score) >= cfg.Floor
	remote := r.Remote.OK() && *r.Remote.Sentiment != corpus.PolarityNeutral

	switch cfg.Source {
	case SourceRemote:
		return remote
	case SourceBoth:
		return local && remote
	default:
		return local
	}
}

// Check counts high-confidence sentences per speaker, each sentence number
// once. Speakers defaults to every speaker in records. A speaker with no
// records at all counts as zero.
func Check(records []corpus.Sentence, speakers []string, cfg CheckConfig) ([]Deficiency, error) {
	if len(speakers) == 0 {
		speakers = corpus.Speakers(records)
	}

	counted := make(map[int]bool)
	counts := make(map[string]int)
	for _, r := range records {
		if counted[r.Number] || !HighConfidence(r, cfg) {
			continue
		}
		counted[r.Number] = true
		counts[r.Speaker]++
	}

	var deficiencies []Deficiency
	for _, s := range speakers {
		if counts[s] < cfg.MinSentences {
			d := Deficiency{Speaker: s, Count: counts[s], Required: cfg.MinSentences}
			deficiencies = append(deficiencies, d)
			slog.Warn("speaker below high-confidence minimum",
				"speaker", s,
				"count", d.Count,
				"required", d.Required,
				"source", cfg.Source,
			)
		}
	}

	if len(deficiencies) > 0 {
		return deficiencies, fmt.Errorf("%w: %d of %d speakers below %d",
			ErrInsufficientSentences, len(deficiencies), len(speakers), cfg.MinSentences)
	}
	return nil, nil
}
