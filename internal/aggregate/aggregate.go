// Package aggregate computes read-only summary tables over annotated records.
// Local classifier labels and remote polarities are always counted
// separately.
package aggregate

import (
	"fmt"
	"math"
	"sort"

	"github.com/abdulachik/playmood/internal/corpus"
)

// Key names the field records are grouped by.
type Key string

const (
	KeySpeaker Key = "speaker"
	KeyAct     Key = "act"
	KeyScene   Key = "scene"
)

// ParseKey parses a grouping key name.
func ParseKey(s string) (Key, error) {
	switch k := Key(s); k {
	case KeySpeaker, KeyAct, KeyScene:
		return k, nil
	default:
		return "", fmt.Errorf("invalid group key %q (must be 'speaker', 'act' or 'scene')", s)
	}
}

func (k Key) value(r corpus.Sentence) string {
	switch k {
	case KeyAct:
		return r.Act
	case KeyScene:
		return r.Scene
	default:
		return r.Speaker
	}
}

// Group holds the counts for one key value. Every label is present from the
// start, so a label nobody used reads as zero.
type Group struct {
	Name    string
	Records int

	Local        map[corpus.LocalLabel]int
	LocalMissing int

	Remote        map[corpus.Polarity]int
	Emotions      map[corpus.Emotion]int
	RemoteMissing int
}

func newGroup(name string) *Group {
	g := &Group{
		Name:     name,
		Local:    make(map[corpus.LocalLabel]int, len(corpus.LocalLabels)),
		Remote:   make(map[corpus.Polarity]int, len(corpus.Polarities)),
		Emotions: make(map[corpus.Emotion]int, len(corpus.Emotions)),
	}
	for _, l := range corpus.LocalLabels {
		g.Local[l] = 0
	}
	for _, p := range corpus.Polarities {
		g.Remote[p] = 0
	}
	for _, e := range corpus.Emotions {
		g.Emotions[e] = 0
	}
	return g
}

func (g *Group) add(r corpus.Sentence) {
	g.Records++

	if r.Sentiment != nil {
		g.Local[r.Sentiment.Label]++
	} else {
		g.LocalMissing++
	}

	if r.Remote.OK() {
		g.Remote[*r.Remote.Sentiment]++
		g.Emotions[*r.Remote.MainEmotion]++
	} else {
		g.RemoteMissing++
	}
}

// Table is a grouping of records, with groups in order of first appearance.
type Table struct {
	By     Key
	Groups []*Group
	index  map[string]*Group
}

// Get returns the group for name, or nil.
func (t *Table) Get(name string) *Group {
	return t.index[name]
}

// GroupBy counts records per value of key.
func GroupBy(records []corpus.Sentence, key Key) (*Table, error) {
	if _, err := ParseKey(string(key)); err != nil {
		return nil, err
	}

	t := &Table{By: key, index: make(map[string]*Group)}
	for _, r := range records {
		name := key.value(r)
		g, ok := t.index[name]
		if !ok {
			g = newGroup(name)
			t.index[name] = g
			t.Groups = append(t.Groups, g)
		}
		g.add(r)
	}
	return t, nil
}

// Intensity describes how strongly one speaker's lines were classified.
type Intensity struct {
	Speaker string
	// HighConfidence counts records with |score| at or above the floor.
	HighConfidence int
	// Scored counts records with a local score; it is the mean's denominator.
	Scored int
	// Mean is the average |score| over scored records, zero when none are.
	Mean float64
}

// Intensities computes per-speaker intensity, speakers in order of first
// appearance. Records without a local score are left out of the mean.
func Intensities(records []corpus.Sentence, floor float64) []Intensity {
	var order []string
	sums := make(map[string]float64)
	byName := make(map[string]*Intensity)

	for _, r := range records {
		in, ok := byName[r.Speaker]
		if !ok {
			in = &Intensity{Speaker: r.Speaker}
			byName[r.Speaker] = in
			order = append(order, r.Speaker)
		}
		if r.Sentiment == nil {
			continue
		}

		score := math.Abs(r.Sentiment.Score)
		in.Scored++
		sums[r.Speaker] += score
		if score >= floor {
			in.HighConfidence++
		}
	}

	out := make([]Intensity, 0, len(order))
	for _, name := range order {
		in := byName[name]
		if in.Scored > 0 {
			in.Mean = sums[name] / float64(in.Scored)
		}
		out = append(out, *in)
	}
	return out
}

// HighConfidence counts records whose |score| clears the floor.
func HighConfidence(records []corpus.Sentence, floor float64) int {
	n := 0
	for _, r := range records {
		if r.Sentiment != nil && math.Abs(r.Sentiment.Score) >= floor {
			n++
		}
	}
	return n
}

// Point is one step of a sentiment trend.
type Point struct {
	Number int
	Value  int
}

// PolarityValue maps positive, neutral and negative to 1, 0 and -1.
func PolarityValue(p corpus.Polarity) int {
	switch p {
	case corpus.PolarityPositive:
		return 1
	case corpus.PolarityNegative:
		return -1
	default:
		return 0
	}
}

// Trend returns the speaker's remote polarity over sentence number. Records
// without a remote polarity are skipped.
func Trend(records []corpus.Sentence, speaker string) []Point {
	var points []Point
	seen := make(map[int]bool)
	for _, r := range records {
		if r.Speaker != speaker || !r.Remote.OK() || seen[r.Number] {
			continue
		}
		seen[r.Number] = true
		points = append(points, Point{Number: r.Number, Value: PolarityValue(*r.Remote.Sentiment)})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Number < points[j].Number })
	return points
}

// CheckTotal reports whether the record count matches the expected count.
func CheckTotal(records []corpus.Sentence, expected int) (bool, int) {
	return len(records) == expected, len(records)
}
