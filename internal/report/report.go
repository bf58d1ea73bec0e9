// Package report writes and reads the tabular sentiment report, one row per
// sentence, as an Excel workbook or a CSV file.
package report

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/abdulachik/playmood/internal/corpus"
)

// SheetName is the worksheet the Excel report is written to.
const SheetName = "Sentiment Analysis"

// Columns is the fixed column set, in order.
var Columns = []string{
	"act", "scene", "speaker", "sentence number", "text",
	"flair_label", "flair_score", "gpt_main_emotion", "gpt_sentiment",
}

// Row is one report line. Nil pointers are empty cells.
type Row struct {
	Act            string
	Scene          string
	Speaker        string
	SentenceNumber int
	Text           string
	LocalLabel     *corpus.LocalLabel
	LocalScore     *float64
	MainEmotion    *corpus.Emotion
	Sentiment      *corpus.Polarity
}

// FromSentence builds a report row from an annotated record.
func FromSentence(s corpus.Sentence) Row {
	row := Row{
		Act:            s.Act,
		Scene:          s.Scene,
		Speaker:        s.Speaker,
		SentenceNumber: s.Number,
		Text:           s.Text,
	}
	if s.Sentiment != nil {
		label, score := s.Sentiment.Label, s.Sentiment.Score
		row.LocalLabel = &label
		row.LocalScore = &score
	}
	if s.Remote != nil {
		if s.Remote.MainEmotion != nil {
			e := *s.Remote.MainEmotion
			row.MainEmotion = &e
		}
		if s.Remote.Sentiment != nil {
			p := *s.Remote.Sentiment
			row.Sentiment = &p
		}
	}
	return row
}

// FromSentences builds one row per record, in order.
func FromSentences(records []corpus.Sentence) []Row {
	rows := make([]Row, len(records))
	for i, r := range records {
		rows[i] = FromSentence(r)
	}
	return rows
}

// Sentence converts a row back into a record. A row with no remote fields
// yields a failed remote annotation, because every report row has been
// through the remote pass.
func (r Row) Sentence() corpus.Sentence {
	s := corpus.Sentence{
		Act:     r.Act,
		Scene:   r.Scene,
		Speaker: r.Speaker,
		Number:  r.SentenceNumber,
		Text:    r.Text,
		Remote:  &corpus.RemoteAnnotation{MainEmotion: r.MainEmotion, Sentiment: r.Sentiment},
	}
	if r.LocalLabel != nil && r.LocalScore != nil {
		s.Sentiment = &corpus.LocalSentiment{Label: *r.LocalLabel, Score: *r.LocalScore}
	}
	return s
}

// Sentences converts rows back into records.
func Sentences(rows []Row) []corpus.Sentence {
	out := make([]corpus.Sentence, len(rows))
	for i, r := range rows {
		out[i] = r.Sentence()
	}
	return out
}

// Format is a report file format.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// FormatOf picks the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return FormatXLSX, nil
	case ".csv":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("unsupported report format %q (use .xlsx or .csv)", filepath.Ext(path))
	}
}

// Write writes rows to path in the format its extension names.
func Write(path string, rows []Row) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	if format == FormatCSV {
		return writeCSV(path, rows)
	}
	return writeXLSX(path, rows)
}

// Read reads a report written by Write.
func Read(path string) ([]Row, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	if format == FormatCSV {
		return readCSV(path)
	}
	return readXLSX(path)
}
