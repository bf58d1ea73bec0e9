// Package extractor flattens a play document into an ordered corpus of
// sentence records tagged with act, scene and speaker.
package extractor

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/abdulachik/playmood/internal/corpus"
)

var sceneLabelPattern = regexp.MustCompile(`(?i)^(SCENE\s+[IVXLC]+)\b`)

// Options controls extraction.
type Options struct {
	Mode Mode
}

// Stats describes one extraction run.
type Stats struct {
	Acts     int
	Scenes   int
	Speeches int
	Emitted  int
	Dropped  int
}

// Extract walks the play in document order and emits one record per sentence
// unit. Sentence numbers start at 1 and are assigned only to emitted units,
// so numbering is dense.
func Extract(play *Play, opts Options) ([]corpus.Sentence, Stats, error) {
	var stats Stats
	if play == nil || len(play.Acts) == 0 {
		return nil, stats, fmt.Errorf("%w: no acts found", ErrMalformedPlay)
	}

	mode := opts.Mode
	if mode == "" {
		mode = ModeLine
	}

	var records []corpus.Sentence
	number := 0

	for ai, act := range play.actList() {
		actLabel := ActLabel(act.Title, ai+1)
		stats.Acts++

		for si, scene := range act.sceneList() {
			sceneLabel := SceneLabel(scene.Title, si+1)
			stats.Scenes++

			for pi, speech := range scene.Speeches {
				stats.Speeches++

				// A speech without a speaker cannot be attributed
				speaker := speakerName(speech.Speakers)
				if speaker == "" {
					return nil, stats, fmt.Errorf("%w: %s, %s, speech %d has no speaker",
						ErrMalformedPlay, actLabel, sceneLabel, pi+1)
				}

				// Blank lines are dropped before numbering
				units := Units(speech, mode)
				if mode == ModeLine {
					stats.Dropped += len(speech.Lines) - len(units)
				}

				for _, text := range units {
					number++
					records = append(records, corpus.Sentence{
						Act:     actLabel,
						Scene:   sceneLabel,
						Speaker: speaker,
						Number:  number,
						Text:    text,
					})
				}
			}
		}
	}

	stats.Emitted = len(records)

	slog.Debug("extracted play",
		"title", strings.TrimSpace(play.Title),
		"acts", stats.Acts,
		"scenes", stats.Scenes,
		"speeches", stats.Speeches,
		"sentences", stats.Emitted,
		"dropped", stats.Dropped,
	)

	return records, stats, nil
}

// ExtractFile parses and extracts a play file in one step.
func ExtractFile(path string, opts Options) ([]corpus.Sentence, Stats, error) {
	play, err := ParseFile(path)
	if err != nil {
		return nil, Stats{}, err
	}
	return Extract(play, opts)
}

// ActLabel normalizes an act title, falling back to its ordinal.
func ActLabel(title string, ordinal int) string {
	label := strings.ToUpper(normalize(title))
	if label == "" {
		return fmt.Sprintf("ACT %d", ordinal)
	}
	return label
}

// SceneLabel reduces a scene title such as "SCENE II. A room in the castle."
// to "SCENE II". Titles without that prefix are kept whole.
func SceneLabel(title string, ordinal int) string {
	title = normalize(title)
	if m := sceneLabelPattern.FindStringSubmatch(title); m != nil {
		return strings.ToUpper(normalize(m[1]))
	}
	if title == "" {
		return fmt.Sprintf("SCENE %d", ordinal)
	}
	return strings.ToUpper(title)
}

// speakerName joins multiple SPEAKER nodes with " AND ".
func speakerName(speakers []string) string {
	var names []string
	for _, s := range speakers {
		if n := corpus.NormalizeSpeaker(s); n != "" {
			names = append(names, n)
		}
	}
	return strings.Join(names, " AND ")
}
