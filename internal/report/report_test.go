package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/abdulachik/playmood/internal/corpus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func annotated() []corpus.Sentence {
	e, p := corpus.Sadness, corpus.PolarityNegative
	return []corpus.Sentence{
		{
			Act: "ACT I", Scene: "SCENE II", Speaker: "HAMLET", Number: 7,
			Text:      "O, that this too too solid flesh would melt, thaw, and resolve itself into a dew!",
			Sentiment: &corpus.LocalSentiment{Label: corpus.Negative, Score: 0.9987},
			Remote:    &corpus.RemoteAnnotation{MainEmotion: &e, Sentiment: &p},
		},
		{
			Act: "ACT I", Scene: "SCENE II", Speaker: "KING CLAUDIUS", Number: 3,
			Text:      "Though yet of Hamlet our dear brother's death, the memory be green",
			Sentiment: &corpus.LocalSentiment{Label: corpus.Positive, Score: 0.5},
			Remote:    corpus.Failed(),
		},
	}
}

func TestFromSentence(t *testing.T) {
	rows := FromSentences(annotated())
	require.Len(t, rows, 2)

	assert.Equal(t, 7, rows[0].SentenceNumber)
	require.NotNil(t, rows[0].LocalLabel)
	assert.Equal(t, corpus.Negative, *rows[0].LocalLabel)
	assert.Equal(t, corpus.Sadness, *rows[0].MainEmotion)

	assert.Nil(t, rows[1].MainEmotion)
	assert.Nil(t, rows[1].Sentiment)
}

func TestFromSentence_DoesNotAlias(t *testing.T) {
	records := annotated()
	row := FromSentence(records[0])
	*row.MainEmotion = corpus.Joy
	assert.Equal(t, corpus.Sadness, *records[0].Remote.MainEmotion)
}

func TestFormatOf(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"out/sentiment_analysis_hamlet.xlsx", FormatXLSX, false},
		{"REPORT.XLSX", FormatXLSX, false},
		{"report.csv", FormatCSV, false},
		{"report.json", "", true},
		{"report", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatOf(tt.path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWriteRead(t *testing.T) {
	for _, ext := range []string{".xlsx", ".csv"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "report"+ext)
			rows := FromSentences(annotated())

			require.NoError(t, Write(path, rows))

			got, err := Read(path)
			require.NoError(t, err)
			require.Len(t, got, 2)

			assert.Equal(t, "HAMLET", got[0].Speaker)
			assert.Equal(t, "SCENE II", got[0].Scene)
			assert.Equal(t, 7, got[0].SentenceNumber)
			assert.Equal(t, rows[0].Text, got[0].Text)
			require.NotNil(t, got[0].LocalScore)
			assert.InDelta(t, 0.9987, *got[0].LocalScore, 1e-9)
			assert.Equal(t, corpus.PolarityNegative, *got[0].Sentiment)

			// failed remote annotations come back as null, not as strings
			assert.Nil(t, got[1].MainEmotion)
			assert.Nil(t, got[1].Sentiment)
			require.NotNil(t, got[1].LocalLabel)
			assert.Equal(t, corpus.Positive, *got[1].LocalLabel)
		})
	}
}

func TestWrite_XLSXLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, Write(path, FromSentences(annotated())))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, SheetName, f.GetSheetName(0))
	raw, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, raw, 3)
	assert.Equal(t, Columns, raw[0])
}

func TestRead_BadHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.csv")
	require.NoError(t, os.WriteFile(path, []byte("act,scene,who\nACT I,SCENE I,HAMLET\n"), 0o644))

	_, err := Read(path)
	assert.Error(t, err)
}

func TestRead_BadValues(t *testing.T) {
	tests := []struct {
		name string
		row  string
	}{
		{"number", "ACT I,SCENE I,HAMLET,one,text,,,,"},
		{"label", "ACT I,SCENE I,HAMLET,1,text,MIXED,0.5,,"},
		{"score", "ACT I,SCENE I,HAMLET,1,text,POSITIVE,high,,"},
	}

	header := "act,scene,speaker,sentence number,text,flair_label,flair_score,gpt_main_emotion,gpt_sentiment\n"
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "report.csv")
			require.NoError(t, os.WriteFile(path, []byte(header+tt.row+"\n"), 0o644))

			_, err := Read(path)
			assert.Error(t, err)
		})
	}
}

func TestRead_UnknownRemoteValues(t *testing.T) {
	header := "act,scene,speaker,sentence number,text,flair_label,flair_score,gpt_main_emotion,gpt_sentiment\n"
	body := "ACT I,SCENE I,HAMLET,1,To be,NEGATIVE,0.75,boredom,negative\n" +
		"ACT I,SCENE I,HAMLET,2,or not,POSITIVE,0.5,joy,mixed\n" +
		"ACT I,SCENE I,HAMLET,3,to be,POSITIVE,0.5,joy,positive\n"

	path := filepath.Join(t.TempDir(), "report.csv")
	require.NoError(t, os.WriteFile(path, []byte(header+body), 0o644))

	rows, err := Read(path)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	for _, r := range rows[:2] {
		assert.Nil(t, r.MainEmotion, "sentence %d", r.SentenceNumber)
		assert.Nil(t, r.Sentiment, "sentence %d", r.SentenceNumber)
		assert.NotNil(t, r.LocalLabel, "local values are kept")
		assert.False(t, r.Sentence().Remote.OK())
	}

	require.NotNil(t, rows[2].MainEmotion)
	assert.Equal(t, corpus.Joy, *rows[2].MainEmotion)
}

func TestWriteRead_XLSXScorePrecision(t *testing.T) {
	score := 0.9999723434448242
	label := corpus.Positive
	path := filepath.Join(t.TempDir(), "report.xlsx")

	require.NoError(t, Write(path, []Row{{
		Act: "ACT I", Scene: "SCENE I", Speaker: "HAMLET", SentenceNumber: 1, Text: "O, that this too too solid flesh would melt",
		LocalLabel: &label, LocalScore: &score,
	}}))

	rows, err := Read(path)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.NotNil(t, rows[0].LocalScore)
	assert.Equal(t, score, *rows[0].LocalScore)
	assert.Equal(t, 1, rows[0].SentenceNumber)
}

func TestSentences(t *testing.T) {
	records := Sentences(FromSentences(annotated()))
	require.Len(t, records, 2)

	assert.True(t, records[0].Remote.OK())
	require.NotNil(t, records[1].Remote)
	assert.False(t, records[1].Remote.OK())
	assert.Equal(t, corpus.Positive, records[1].Sentiment.Label)
}
