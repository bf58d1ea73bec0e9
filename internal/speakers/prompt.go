package speakers

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/abdulachik/playmood/internal/corpus"
)

// ErrNoSelection is returned when input ends before a valid selection.
var ErrNoSelection = errors.New("no speaker selection made")

// ParseSelection resolves a comma-separated list of speaker names against
// the candidates. Matching ignores case and surrounding whitespace. The
// result keeps the order given and must contain exactly want distinct
// names; want <= 0 accepts any non-empty count.
func ParseSelection(input string, candidates []string, want int) ([]string, error) {
	byName := make(map[string]string, len(candidates))
	for _, c := range candidates {
		byName[corpus.NormalizeSpeaker(c)] = c
	}

	var chosen []string
	seen := make(map[string]bool)
	for _, part := range strings.Split(input, ",") {
		name := corpus.NormalizeSpeaker(part)
		if name == "" {
			continue
		}
		speaker, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("%q is not an eligible speaker", strings.TrimSpace(part))
		}
		if seen[speaker] {
			return nil, fmt.Errorf("%s was given twice", speaker)
		}
		seen[speaker] = true
		chosen = append(chosen, speaker)
	}

	switch {
	case len(chosen) == 0:
		return nil, fmt.Errorf("no speakers given")
	case want > 0 && len(chosen) != want:
		return nil, fmt.Errorf("expected %d speakers, got %d", want, len(chosen))
	}
	return chosen, nil
}

// Ask prompts on out and reads lines from in until a valid selection of want
// candidates is entered.
func Ask(in io.Reader, out io.Writer, candidates []string, want int) ([]string, error) {
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: no eligible speakers", ErrNoSelection)
	}
	if want > len(candidates) {
		return nil, fmt.Errorf("%w: want %d speakers but only %d are eligible",
			ErrNoSelection, want, len(candidates))
	}

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprintf(out, "Choose %d speakers (comma-separated) from: %s\n> ",
			want, strings.Join(candidates, ", "))

		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return nil, fmt.Errorf("read selection: %w", err)
			}
			return nil, ErrNoSelection
		}

		chosen, err := ParseSelection(scanner.Text(), candidates, want)
		if err == nil {
			return chosen, nil
		}
		fmt.Fprintf(out, "Invalid selection: %v\n", err)
	}
}
