package models

import (
	"fmt"
	"strings"
	"time"
)

// MuxResult describes a completed mkvmerge run.
//
// Use NewMuxResult to create a validated instance.
type MuxResult struct {
	RunID      string        `json:"run_id"`
	OutputPath string        `json:"output_path"`
	Args       []string      `json:"args"`
	Duration   time.Duration `json:"duration"`
}

// NewMuxResult creates a MuxResult with validation.
//
// Returns an error if runID or outputPath is empty, or args is empty.
func NewMuxResult(runID, outputPath string, args []string, duration time.Duration) (*MuxResult, error) {
	r := &MuxResult{
		RunID:      runID,
		OutputPath: outputPath,
		Args:       append([]string(nil), args...),
		Duration:   duration,
	}
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("invalid mux result: %w", err)
	}
	return r, nil
}

// Validate checks that the result names its run, its output and the arguments
// that produced it.
func (r *MuxResult) Validate() error {
	if strings.TrimSpace(r.RunID) == "" {
		return fmt.Errorf("run_id cannot be empty")
	}
	if strings.TrimSpace(r.OutputPath) == "" {
		return fmt.Errorf("output_path cannot be empty")
	}
	if len(r.Args) == 0 {
		return fmt.Errorf("args cannot be empty")
	}
	if r.Duration < 0 {
		return fmt.Errorf("duration cannot be negative")
	}
	return nil
}
