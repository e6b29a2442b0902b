package protocol

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Script is a recorded sequence of passes. The first batch is the initial
// build, the rest are incremental updates.
type Script struct {
	Batches []Mutations `json:"batches"`

	next int
}

// ReadScript decodes and validates a script
func ReadScript(r io.Reader) (*Script, error) {
	var s Script
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to decode script: %w", err)
	}
	for i, b := range s.Batches {
		if err := Validate(b); err != nil {
			return nil, fmt.Errorf("batch %d: %w", i, err)
		}
	}
	return &s, nil
}

// LoadScript reads a script file
func LoadScript(path string) (*Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open script: %w", err)
	}
	defer f.Close()
	return ReadScript(f)
}

// Pending hands out every batch not yet returned, in order
func (s *Script) Pending() ([]Mutations, error) {
	out := s.Batches[s.next:]
	s.next = len(s.Batches)
	return out, nil
}
