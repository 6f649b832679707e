package life

import (
	"encoding/json"
	"fmt"
	"os"
)

// SaveState writes the matrix and parameters to a JSON file
func SaveState(filename string, st *State) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

// LoadState reads a state written by SaveState and validates it
func LoadState(filename string) (*State, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}
	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("decode state %s: %w", filename, err)
	}
	if err := st.Validate(); err != nil {
		return nil, fmt.Errorf("state %s: %w", filename, err)
	}
	if err := st.Params.Validate(); err != nil {
		return nil, fmt.Errorf("state %s: %w", filename, err)
	}
	return &st, nil
}
