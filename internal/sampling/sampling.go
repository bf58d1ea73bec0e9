// Package sampling projects a corpus onto chosen speakers and draws the
// additional cross-speaker sample sent to the remote annotator.
package sampling

import (
	"math/rand/v2"
	"time"

	"github.com/abdulachik/playmood/internal/corpus"
)

// NewRand returns the random source for one run. A nil seed yields a
// time-seeded source.
func NewRand(seed *int64) *rand.Rand {
	s := uint64(time.Now().UnixNano())
	if seed != nil {
		s = uint64(*seed)
	}
	return rand.New(rand.NewPCG(s, s))
}

// Filter keeps the records spoken by any of the given speakers, preserving
// their relative order and fields.
func Filter(records []corpus.Sentence, speakers []string) []corpus.Sentence {
	keep := make(map[string]bool, len(speakers))
	for _, s := range speakers {
		keep[s] = true
	}

	out := make([]corpus.Sentence, 0, len(records))
	for _, r := range records {
		if keep[r.Speaker] {
			out = append(out, r)
		}
	}
	return out
}

// Sample draws min(n, len(pool)) records uniformly without replacement. When
// the pool is no larger than n the whole pool is returned in its original
// order.
func Sample(pool []corpus.Sentence, n int, rng *rand.Rand) []corpus.Sentence {
	if n <= 0 {
		return nil
	}
	if n >= len(pool) {
		return append([]corpus.Sentence(nil), pool...)
	}

	idx := rng.Perm(len(pool))[:n]
	out := make([]corpus.Sentence, n)
	for i, j := range idx {
		out[i] = pool[j]
	}
	return out
}

// Shuffle permutes records in place.
func Shuffle(records []corpus.Sentence, rng *rand.Rand) {
	rng.Shuffle(len(records), func(i, j int) {
		records[i], records[j] = records[j], records[i]
	})
}

// Plan describes the working set for the remote pass.
type Plan struct {
	// Speakers get exhaustive blocks, in this order.
	Speakers []string
	// PerSpeakerLimit caps each exhaustive block to its first records in
	// corpus order. Zero means no cap.
	PerSpeakerLimit int
	// SampleSize is the size of the extra sample. Zero disables sampling.
	SampleSize int
	// Pool names the speakers the sample is drawn from. Empty means Speakers.
	Pool []string
}

// WorkingSet is the exhaustive per-speaker prefix followed by the sample.
type WorkingSet struct {
	Exhaustive []corpus.Sentence
	Sample     []corpus.Sentence
}

// All concatenates the exhaustive prefix and the sample.
func (w WorkingSet) All() []corpus.Sentence {
	out := make([]corpus.Sentence, 0, len(w.Exhaustive)+len(w.Sample))
	out = append(out, w.Exhaustive...)
	return append(out, w.Sample...)
}

// Build assembles the working set. Only the sample is shuffled; the
// exhaustive prefix keeps corpus order within each speaker block.
func Build(records []corpus.Sentence, plan Plan, rng *rand.Rand) WorkingSet {
	var ws WorkingSet

	// One capped block per speaker, in corpus order
	for _, speaker := range plan.Speakers {
		block := Filter(records, []string{speaker})
		if plan.PerSpeakerLimit > 0 && len(block) > plan.PerSpeakerLimit {
			block = block[:plan.PerSpeakerLimit]
		}
		ws.Exhaustive = append(ws.Exhaustive, block...)
	}

	// The sample is the only shuffled part
	if plan.SampleSize > 0 {
		pool := plan.Pool
		if len(pool) == 0 {
			pool = plan.Speakers
		}
		ws.Sample = Sample(Filter(records, pool), plan.SampleSize, rng)
		Shuffle(ws.Sample, rng)
	}

	return ws
}
