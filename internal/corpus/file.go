package corpus

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Load reads a corpus checkpoint file.
func Load(path string) ([]Sentence, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read corpus: %w", err)
	}

	var records []Sentence
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse corpus %s: %w", path, err)
	}
	return records, nil
}

// Save writes a corpus checkpoint file as indented JSON, creating parent
// directories as needed.
func Save(path string, records []Sentence) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create corpus directory: %w", err)
		}
	}

	if records == nil {
		records = []Sentence{}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal corpus: %w", err)
	}

	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write corpus: %w", err)
	}
	return nil
}
