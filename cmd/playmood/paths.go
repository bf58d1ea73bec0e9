package main

import (
	"path/filepath"
	"strings"
)

var corpusPrefixes = []string{"all_sentences_", "selected_speakers_", "sentiment_analysis_"}

// playName derives the play name from a pipeline file name, so
// "plays/hamlet.xml" and "all_sentences_hamlet.json" both give "hamlet".
func playName(path string) string {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	for _, prefix := range corpusPrefixes {
		name = strings.TrimPrefix(name, prefix)
	}
	return name
}

// siblingPath places a derived file next to its input.
func siblingPath(input, name string) string {
	return filepath.Join(filepath.Dir(input), name)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
