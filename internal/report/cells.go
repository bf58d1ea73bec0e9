package report

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/abdulachik/playmood/internal/corpus"
)

// cells renders a row as strings; nil fields become empty cells.
func (r Row) cells() []string {
	out := []string{r.Act, r.Scene, r.Speaker, strconv.Itoa(r.SentenceNumber), r.Text, "", "", "", ""}
	if r.LocalLabel != nil {
		out[5] = string(*r.LocalLabel)
	}
	if r.LocalScore != nil {
		out[6] = strconv.FormatFloat(*r.LocalScore, 'f', -1, 64)
	}
	if r.MainEmotion != nil {
		out[7] = string(*r.MainEmotion)
	}
	if r.Sentiment != nil {
		out[8] = string(*r.Sentiment)
	}
	return out
}

// checkHeader verifies that the first row names the report columns.
func checkHeader(header []string) error {
	if len(header) < len(Columns) {
		return fmt.Errorf("report header has %d columns, want %d", len(header), len(Columns))
	}
	for i, c := range Columns {
		if strings.TrimSpace(header[i]) != c {
			return fmt.Errorf("report column %d is %q, want %q", i+1, header[i], c)
		}
	}
	return nil
}

// parseRow decodes one data row. Trailing empty cells may be missing.
func parseRow(cells []string) (Row, error) {
	get := func(i int) string {
		if i < len(cells) {
			return strings.TrimSpace(cells[i])
		}
		return ""
	}

	n, err := strconv.Atoi(get(3))
	if err != nil {
		return Row{}, fmt.Errorf("invalid sentence number %q: %w", get(3), err)
	}

	row := Row{
		Act:            get(0),
		Scene:          get(1),
		Speaker:        get(2),
		SentenceNumber: n,
		Text:           cellText(cells, 4),
	}

	if v := get(5); v != "" {
		label, err := corpus.ParseLocalLabel(v)
		if err != nil {
			return Row{}, err
		}
		row.LocalLabel = &label
	}
	if v := get(6); v != "" {
		score, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return Row{}, fmt.Errorf("invalid score %q: %w", v, err)
		}
		row.LocalScore = &score
	}
	row.MainEmotion, row.Sentiment = parseRemote(n, get(7), get(8))
	return row, nil
}

// parseRemote reads the two remote cells. Reports written by other tools may
// carry values outside the enums; such a pair is read as a failed annotation
// so one bad cell does not make the whole report unreadable.
func parseRemote(number int, emotion, polarity string) (*corpus.Emotion, *corpus.Polarity) {
	var (
		e   *corpus.Emotion
		p   *corpus.Polarity
		bad error
	)
	if emotion != "" {
		v, err := corpus.ParseEmotion(emotion)
		if err != nil {
			bad = err
		} else {
			e = &v
		}
	}
	if polarity != "" {
		v, err := corpus.ParsePolarity(polarity)
		if err != nil {
			bad = err
		} else {
			p = &v
		}
	}

	if bad != nil {
		slog.Warn("unreadable remote annotation, treating as failed",
			"sentence", number, "gpt_main_emotion", emotion, "gpt_sentiment", polarity, "error", bad)
		return nil, nil
	}
	return e, p
}

// cellText keeps the text cell as written.
func cellText(cells []string, i int) string {
	if i < len(cells) {
		return cells[i]
	}
	return ""
}
