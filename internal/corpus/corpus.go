// Package corpus defines the flat sentence records that flow through every
// pipeline stage and the JSON checkpoint files they are stored in.
package corpus

import (
	"fmt"
	"strings"
)

// LocalLabel is the binary label produced by the local sentiment classifier.
type LocalLabel string

const (
	Positive LocalLabel = "POSITIVE"
	Negative LocalLabel = "NEGATIVE"
)

// LocalLabels lists every local label in report order.
var LocalLabels = []LocalLabel{Positive, Negative}

// Emotion is the main emotion reported by the remote annotator.
type Emotion string

const (
	Anger        Emotion = "anger"
	Anticipation Emotion = "anticipation"
	Disgust      Emotion = "disgust"
	Fear         Emotion = "fear"
	Joy          Emotion = "joy"
	Sadness      Emotion = "sadness"
	Surprise     Emotion = "surprise"
	Trust        Emotion = "trust"
)

// Emotions lists the eight emotion categories in alphabetical order.
var Emotions = []Emotion{Anger, Anticipation, Disgust, Fear, Joy, Sadness, Surprise, Trust}

// Polarity is the three-way sentiment reported by the remote annotator.
type Polarity string

const (
	PolarityPositive Polarity = "positive"
	PolarityNegative Polarity = "negative"
	PolarityNeutral  Polarity = "neutral"
)

// Polarities lists every remote polarity in report order.
var Polarities = []Polarity{PolarityPositive, PolarityNegative, PolarityNeutral}

// LocalSentiment is the local classifier's judgment of one sentence.
type LocalSentiment struct {
	Label LocalLabel `json:"label"`
	Score float64    `json:"score"`
}

// RemoteAnnotation is the remote annotator's judgment of one sentence.
// Nil fields mean the call failed or could not be parsed; they are never
// replaced with a default label.
type RemoteAnnotation struct {
	MainEmotion *Emotion  `json:"main_emotion"`
	Sentiment   *Polarity `json:"sentiment"`
}

// OK reports whether both fields were filled by a successful call.
func (a *RemoteAnnotation) OK() bool {
	return a != nil && a.MainEmotion != nil && a.Sentiment != nil
}

// Failed returns the annotation recorded for a failed remote call.
func Failed() *RemoteAnnotation {
	return &RemoteAnnotation{}
}

// Sentence is one spoken unit of the play.
type Sentence struct {
	Act       string            `json:"act"`
	Scene     string            `json:"scene"`
	Speaker   string            `json:"speaker"`
	Number    int               `json:"sentence number"`
	Text      string            `json:"text"`
	Sentiment *LocalSentiment   `json:"sentiment,omitempty"`
	Remote    *RemoteAnnotation `json:"remote_annotation,omitempty"`
}

// ParseLocalLabel parses a classifier label, ignoring case.
func ParseLocalLabel(s string) (LocalLabel, error) {
	label := LocalLabel(strings.ToUpper(strings.TrimSpace(s)))
	for _, l := range LocalLabels {
		if l == label {
			return l, nil
		}
	}
	return "", fmt.Errorf("unknown sentiment label %q", s)
}

// ParseEmotion parses one of the eight emotion categories, ignoring case.
func ParseEmotion(s string) (Emotion, error) {
	e := Emotion(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Emotions {
		if known == e {
			return e, nil
		}
	}
	return "", fmt.Errorf("unknown emotion %q", s)
}

// ParsePolarity parses a remote sentiment value, ignoring case.
func ParsePolarity(s string) (Polarity, error) {
	p := Polarity(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Polarities {
		if known == p {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown sentiment %q", s)
}

// NormalizeSpeaker upper-cases a speaker name and collapses inner whitespace.
func NormalizeSpeaker(name string) string {
	return strings.ToUpper(strings.Join(strings.Fields(name), " "))
}

// Speakers returns the distinct speakers in order of first appearance.
func Speakers(records []Sentence) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range records {
		if seen[r.Speaker] {
			continue
		}
		seen[r.Speaker] = true
		out = append(out, r.Speaker)
	}
	return out
}

// Index maps each sentence number to the position of its first occurrence.
func Index(records []Sentence) map[int]int {
	idx := make(map[int]int, len(records))
	for i, r := range records {
		if _, ok := idx[r.Number]; !ok {
			idx[r.Number] = i
		}
	}
	return idx
}

// Validate checks the invariants of a freshly extracted corpus: sentence
// numbers strictly increase in order, text is non-empty and every record has
// a speaker.
func Validate(records []Sentence) error {
	last := 0
	for i, r := range records {
		if r.Number <= last {
			return fmt.Errorf("record %d: sentence number %d does not follow %d", i, r.Number, last)
		}
		last = r.Number
		if strings.TrimSpace(r.Text) == "" {
			return fmt.Errorf("sentence %d: empty text", r.Number)
		}
		if r.Speaker == "" {
			return fmt.Errorf("sentence %d: missing speaker", r.Number)
		}
	}
	return nil
}
