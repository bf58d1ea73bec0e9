package annotate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/abdulachik/playmood/internal/corpus"
	"github.com/abdulachik/playmood/internal/db"
	"github.com/google/uuid"
)

// RunStore persists the remote results of one annotation run so an
// interrupted run can be resumed. It implements Sink.
type RunStore struct {
	store *db.Store
	run   db.AnnotationRun
}

// RunParams describes a new run. Seed, PerSpeakerLimit and SampleSize are
// stored so a resumed run rebuilds the same working set.
type RunParams struct {
	InputPath       string
	Provider        string
	Seed            int64
	PerSpeakerLimit int
	SampleSize      int
	Requested       int
}

// StartRun records a new run and returns its store.
func StartRun(ctx context.Context, store *db.Store, p RunParams) (*RunStore, error) {
	id := uuid.NewString()
	err := store.CreateRun(ctx, db.CreateRunParams{
		ID:              id,
		InputPath:       p.InputPath,
		Provider:        p.Provider,
		Seed:            p.Seed,
		PerSpeakerLimit: int64(p.PerSpeakerLimit),
		SampleSize:      int64(p.SampleSize),
		Requested:       int64(p.Requested),
	})
	if err != nil {
		return nil, fmt.Errorf("create run: %w", err)
	}

	run, err := store.GetRun(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}

	slog.Info("started annotation run", "run", id, "input", p.InputPath, "provider", p.Provider)
	return &RunStore{store: store, run: run}, nil
}

// OpenRun returns the store of an existing run.
func OpenRun(ctx context.Context, store *db.Store, id string) (*RunStore, error) {
	run, err := store.GetRun(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("unknown run %q", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}

	slog.Info("resuming annotation run", "run", run.ID, "input", run.InputPath, "provider", run.Provider)
	return &RunStore{store: store, run: run}, nil
}

// ID returns the run identifier.
func (r *RunStore) ID() string {
	return r.run.ID
}

// Params returns the parameters the run was started with.
func (r *RunStore) Params() RunParams {
	return RunParams{
		InputPath:       r.run.InputPath,
		Provider:        r.run.Provider,
		Seed:            r.run.Seed,
		PerSpeakerLimit: int(r.run.PerSpeakerLimit),
		SampleSize:      int(r.run.SampleSize),
		Requested:       int(r.run.Requested),
	}
}

// SetRequested records how many sentences the run asked the annotator for.
func (r *RunStore) SetRequested(ctx context.Context, n int) error {
	err := r.store.SetRunRequested(ctx, db.SetRunRequestedParams{ID: r.run.ID, Requested: int64(n)})
	if err != nil {
		return fmt.Errorf("set requested: %w", err)
	}
	r.run.Requested = int64(n)
	return nil
}

// Save upserts one result.
func (r *RunStore) Save(ctx context.Context, res Result) error {
	params := db.UpsertRemoteAnnotationParams{
		RunID:          r.run.ID,
		SentenceNumber: int64(res.SentenceNumber),
		Attempts:       int64(res.Attempts),
	}
	if res.OK() {
		params.MainEmotion = sql.NullString{String: string(*res.Annotation.MainEmotion), Valid: true}
		params.Sentiment = sql.NullString{String: string(*res.Annotation.Sentiment), Valid: true}
	} else {
		failure := res.Failure
		if failure == "" {
			failure = "incomplete annotation"
		}
		params.Failure = sql.NullString{String: failure, Valid: true}
	}

	if err := r.store.UpsertRemoteAnnotation(ctx, params); err != nil {
		return fmt.Errorf("save sentence %d: %w", res.SentenceNumber, err)
	}
	return nil
}

// Results loads every stored result of the run. Rows whose values no longer
// parse are returned as failures.
func (r *RunStore) Results(ctx context.Context) ([]Result, error) {
	rows, err := r.store.ListRemoteAnnotations(ctx, r.run.ID)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}

	results := make([]Result, 0, len(rows))
	for _, row := range rows {
		results = append(results, resultFromRow(row))
	}
	return results, nil
}

// Complete marks the run as finished.
func (r *RunStore) Complete(ctx context.Context) error {
	if err := r.store.CompleteRun(ctx, r.run.ID); err != nil {
		return fmt.Errorf("complete run: %w", err)
	}
	return nil
}

func resultFromRow(row db.RemoteAnnotation) Result {
	res := Result{
		SentenceNumber: int(row.SentenceNumber),
		Attempts:       int(row.Attempts),
	}
	if row.Failure.Valid {
		res.Failure = row.Failure.String
		return res
	}

	emotion, err := corpus.ParseEmotion(row.MainEmotion.String)
	if err != nil {
		res.Failure = err.Error()
		return res
	}
	polarity, err := corpus.ParsePolarity(row.Sentiment.String)
	if err != nil {
		res.Failure = err.Error()
		return res
	}
	res.Annotation = corpus.RemoteAnnotation{MainEmotion: &emotion, Sentiment: &polarity}
	return res
}
