package annotate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/abdulachik/playmood/internal/corpus"
	"github.com/sethvargo/go-retry"
	"golang.org/x/sync/errgroup"
)

const (
	defaultRetryDelay = time.Second
	defaultTimeout    = 60 * time.Second
)

// ErrLocalAnnotation aborts the local pass. A classifier that fails on valid
// text breaks its contract, so there is no partial result.
var ErrLocalAnnotation = errors.New("local annotation failed")

// Result is the outcome of the remote pass for one sentence number. A
// non-empty Failure means the annotation fields stay null.
type Result struct {
	SentenceNumber int
	Annotation     corpus.RemoteAnnotation
	Failure        string
	Attempts       int
}

// OK reports whether the remote call produced a complete annotation.
func (r Result) OK() bool {
	return r.Failure == "" && r.Annotation.OK()
}

// Sink receives each remote result as soon as it is known.
type Sink interface {
	Save(ctx context.Context, r Result) error
}

// Summary counts what one pass did, per distinct sentence number.
type Summary struct {
	Requested int
	Annotated int
	Failed    int
	Skipped   int
	Pending   int
}

// Config holds configuration for the merger.
type Config struct {
	Local       LocalClassifier
	Remote      RemoteAnnotator
	Concurrency int
	MaxRetries  int
	RetryDelay  time.Duration
	Timeout     time.Duration
	Sink        Sink
}

// Merger runs the local and remote annotation passes.
type Merger struct {
	local       LocalClassifier
	remote      RemoteAnnotator
	concurrency int
	maxRetries  int
	retryDelay  time.Duration
	timeout     time.Duration
	sink        Sink
}

// New creates a new Merger.
func New(cfg Config) *Merger {
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	retryDelay := cfg.RetryDelay
	if retryDelay <= 0 {
		retryDelay = defaultRetryDelay
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Merger{
		local:       cfg.Local,
		remote:      cfg.Remote,
		concurrency: concurrency,
		maxRetries:  maxRetries,
		retryDelay:  retryDelay,
		timeout:     timeout,
		sink:        cfg.Sink,
	}
}

// AnnotateLocal sets the local sentiment of every record that lacks one. The
// classifier is called once per distinct sentence number. Any classifier
// error aborts the pass with ErrLocalAnnotation.
func (m *Merger) AnnotateLocal(ctx context.Context, records []corpus.Sentence) ([]corpus.Sentence, Summary, error) {
	if m.local == nil {
		return nil, Summary{}, fmt.Errorf("%w: no classifier configured", ErrLocalAnnotation)
	}

	out := clone(records)
	var summary Summary
	done := make(map[int]corpus.LocalSentiment)

	for i := range out {
		n := out[i].Number

		// Keep an existing sentiment
		if out[i].Sentiment != nil {
			if _, ok := done[n]; !ok {
				done[n] = *out[i].Sentiment
				summary.Skipped++
			}
			continue
		}

		// Duplicates of a classified number reuse its result
		s, ok := done[n]
		if !ok {
			if err := ctx.Err(); err != nil {
				return nil, summary, err
			}

			var err error
			s, err = m.local.Classify(ctx, out[i].Text)
			if err != nil {
				return nil, summary, fmt.Errorf("%w: sentence %d: %w", ErrLocalAnnotation, n, err)
			}
			done[n] = s
			summary.Requested++
			summary.Annotated++

			slog.Debug("classified sentence", "sentence", n, "label", s.Label, "score", s.Score)
		}

		sentiment := s
		out[i].Sentiment = &sentiment
	}

	slog.Info("local annotation complete",
		"annotated", summary.Annotated,
		"skipped", summary.Skipped,
	)
	return out, summary, nil
}

type job struct {
	number int
	text   string
}

// AnnotateRemote annotates every record whose remote annotation is missing
// or failed. Calls run on a bounded worker pool, one per distinct sentence
// number, each retried up to MaxRetries times. A failed call records null
// fields and never stops the batch. If ctx is cancelled, the records
// finished so far keep their annotations and ctx.Err() is returned.
func (m *Merger) AnnotateRemote(ctx context.Context, records []corpus.Sentence) ([]corpus.Sentence, Summary, error) {
	if m.remote == nil {
		return nil, Summary{}, fmt.Errorf("no remote annotator configured")
	}

	out := clone(records)
	var summary Summary

	// Queue one job per distinct number still lacking a complete annotation
	var jobs []job
	queued := make(map[int]bool)
	skipped := make(map[int]bool)
	for _, r := range out {
		if r.Remote.OK() {
			if !skipped[r.Number] {
				skipped[r.Number] = true
				summary.Skipped++
			}
			continue
		}
		if !queued[r.Number] {
			queued[r.Number] = true
			jobs = append(jobs, job{number: r.Number, text: r.Text})
		}
	}
	summary.Requested = len(jobs)

	slog.Info("starting remote annotation",
		"sentences", len(jobs),
		"skipped", summary.Skipped,
		"concurrency", m.concurrency,
		"max_retries", m.maxRetries,
	)

	// Each worker writes only its own slot.
	slots := make([]Result, len(jobs))
	finished := make([]bool, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.concurrency)

	for i, j := range jobs {
		// Stop handing out work once cancelled
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			res := m.annotateOne(gctx, j)
			// A call cut short by cancellation stays pending, not failed
			if !res.OK() && gctx.Err() != nil {
				return nil
			}
			slots[i] = res
			finished[i] = true

			// Persist right away so an interrupted run can resume
			if m.sink != nil {
				if err := m.sink.Save(context.WithoutCancel(ctx), res); err != nil {
					slog.Warn("failed to persist annotation", "sentence", j.number, "error", err)
				}
			}
			return nil
		})
	}
	_ = g.Wait()

	// Collect finished slots and merge them into the records
	results := make(map[int]Result, len(jobs))
	for i, res := range slots {
		if !finished[i] {
			summary.Pending++
			continue
		}
		results[res.SentenceNumber] = res
		if res.OK() {
			summary.Annotated++
		} else {
			summary.Failed++
		}
	}
	out = apply(out, results)

	slog.Info("remote annotation complete",
		"annotated", summary.Annotated,
		"failed", summary.Failed,
		"skipped", summary.Skipped,
		"pending", summary.Pending,
	)

	if err := ctx.Err(); err != nil {
		return out, summary, err
	}
	return out, summary, nil
}

// annotateOne calls the remote annotator with per-call timeout and bounded
// constant-delay retries.
func (m *Merger) annotateOne(ctx context.Context, j job) Result {
	res := Result{SentenceNumber: j.number}

	backoff := retry.WithMaxRetries(uint64(m.maxRetries), retry.NewConstant(m.retryDelay))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		res.Attempts++

		callCtx, cancel := context.WithTimeout(ctx, m.timeout)
		defer cancel()

		ann, err := m.remote.Annotate(callCtx, j.text)
		if err == nil && !ann.OK() {
			err = fmt.Errorf("%w: incomplete annotation", ErrMalformedResponse)
		}
		if err != nil {
			// Never retry past the caller's cancellation
			if ctx.Err() != nil {
				return err
			}
			slog.Debug("remote annotation attempt failed",
				"sentence", j.number,
				"attempt", res.Attempts,
				"error", err,
			)
			return retry.RetryableError(err)
		}

		res.Annotation = ann
		return nil
	})
	if err != nil {
		res.Annotation = corpus.RemoteAnnotation{}
		res.Failure = err.Error()
		if ctx.Err() == nil {
			slog.Warn("remote annotation failed",
				"sentence", j.number,
				"attempts", res.Attempts,
				"error", err,
			)
		}
		return res
	}

	slog.Debug("annotated sentence",
		"sentence", j.number,
		"emotion", *res.Annotation.MainEmotion,
		"sentiment", *res.Annotation.Sentiment,
	)
	return res
}

// Restore re-applies persisted remote results to records whose annotation is
// missing or failed, matching on sentence number.
func Restore(records []corpus.Sentence, results []Result) []corpus.Sentence {
	byNumber := make(map[int]Result, len(results))
	for _, r := range results {
		byNumber[r.SentenceNumber] = r
	}
	return apply(clone(records), byNumber)
}

// apply writes results into records in place. Successful annotations are
// never overwritten.
func apply(records []corpus.Sentence, results map[int]Result) []corpus.Sentence {
	for i := range records {
		if records[i].Remote.OK() {
			continue
		}
		res, ok := results[records[i].Number]
		if !ok {
			continue
		}
		if res.OK() {
			emotion, polarity := *res.Annotation.MainEmotion, *res.Annotation.Sentiment
			records[i].Remote = &corpus.RemoteAnnotation{MainEmotion: &emotion, Sentiment: &polarity}
		} else {
			records[i].Remote = corpus.Failed()
		}
	}
	return records
}

func clone(records []corpus.Sentence) []corpus.Sentence {
	return append([]corpus.Sentence(nil), records...)
}
