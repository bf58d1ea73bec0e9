package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/abdulachik/playmood/internal/config"
	"github.com/abdulachik/playmood/internal/corpus"
	"github.com/abdulachik/playmood/internal/report"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnnotateArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{"valid", []string{"in.json", "out.xlsx", "50"}, false},
		{"zero limit", []string{"in.json", "out.csv", "0"}, false},
		{"missing", []string{"in.json", "out.xlsx"}, true},
		{"extra", []string{"in.json", "out.xlsx", "50", "x"}, true},
		{"none", nil, true},
		{"not a number", []string{"in.json", "out.xlsx", "fifty"}, true},
		{"negative", []string{"in.json", "out.xlsx", "-1"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stderr bytes.Buffer
			cmd := &cobra.Command{}
			cmd.SetErr(&stderr)

			err := annotateArgs(cmd, tt.args)
			if !tt.wantErr {
				assert.NoError(t, err)
				assert.Empty(t, stderr.String())
				return
			}
			assert.Error(t, err)
			assert.Contains(t, stderr.String(), "Usage: playmood annotate <input_corpus_file> <output_report_file> <max_sentences_per_speaker>")
			assert.Contains(t, stderr.String(), "selected_speakers_hamlet.json sentiment_analysis_hamlet.xlsx 50")
		})
	}
}

func TestNeedsLocal(t *testing.T) {
	records := []corpus.Sentence{
		{Number: 1, Sentiment: &corpus.LocalSentiment{Label: corpus.Positive, Score: 0.9}},
	}
	assert.False(t, needsLocal(records))

	records = append(records, corpus.Sentence{Number: 2})
	assert.True(t, needsLocal(records))
}

func TestLoadAnnotated(t *testing.T) {
	dir := t.TempDir()
	e, p := corpus.Joy, corpus.PolarityPositive
	records := []corpus.Sentence{{
		Act: "ACT I", Scene: "SCENE I", Speaker: "HAMLET", Number: 1, Text: "Words, words, words.",
		Sentiment: &corpus.LocalSentiment{Label: corpus.Positive, Score: 0.97},
		Remote:    &corpus.RemoteAnnotation{MainEmotion: &e, Sentiment: &p},
	}}

	jsonPath := filepath.Join(dir, "annotated.json")
	require.NoError(t, corpus.Save(jsonPath, records))
	got, err := loadAnnotated(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, records, got)

	csvPath := filepath.Join(dir, "report.csv")
	require.NoError(t, report.Write(csvPath, report.FromSentences(records)))
	got, err = loadAnnotated(csvPath)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].Remote.OK())

	_, err = loadAnnotated(filepath.Join(dir, "report.txt"))
	assert.Error(t, err)
}

func TestCheckSentences(t *testing.T) {
	records := []corpus.Sentence{
		{Speaker: "HAMLET", Number: 1, Sentiment: &corpus.LocalSentiment{Label: corpus.Negative, Score: 0.99}},
		{Speaker: "HAMLET", Number: 2, Sentiment: &corpus.LocalSentiment{Label: corpus.Negative, Score: 0.95}},
		{Speaker: "KING CLAUDIUS", Number: 3, Sentiment: &corpus.LocalSentiment{Label: corpus.Positive, Score: 0.50}},
	}
	cfg := &config.Config{MinSentences: 2, ConfidenceFloor: 0.9, ConfidenceSource: "local"}

	assert.NoError(t, checkSentences(records, cfg, false))
	assert.Error(t, checkSentences(records, cfg, true))

	cfg.MinSentences = 0
	assert.NoError(t, checkSentences(records, cfg, true))
}
