package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
)

// readRecords decodes a JSON file holding either one object or an array of them
func readRecords[T any](path string) ([]*T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var one T
		if err := json.Unmarshal(data, &one); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		return []*T{&one}, nil
	}

	var many []*T
	if err := json.Unmarshal(data, &many); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return many, nil
}
