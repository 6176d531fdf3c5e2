package model

import (
	"path/filepath"
	"time"
)

// ExportTask represents a single video export of a saved animation
type ExportTask struct {
	ID         string
	InputPath  string
	OutputPath string
	Status     TaskStatus
	Progress   float64 // 0.0 to 1.0
	Percent    int     // 0 to 100
	LastError  string  // last error message if any
	StartedAt  time.Time
	FinishedAt time.Time
}

// GetDisplayName returns the output file name, or the input file name before an output exists
func (et *ExportTask) GetDisplayName() string {
	if et.OutputPath != "" {
		return filepath.Base(et.OutputPath)
	}
	if et.InputPath != "" {
		return filepath.Base(et.InputPath)
	}
	return ""
}
