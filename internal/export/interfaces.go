package export

import (
	"time"

	"github.com/ytget/magic-animator/internal/model"
)

// Exporter defines the interface for the video export service.
type Exporter interface {
	SetUpdateCallback(func(*model.ExportTask))
	Available() bool
	StartExport(inputPath string, loopDuration time.Duration) (*model.ExportTask, error)
	StopExport(taskID string) error
	GetTask(taskID string) (*model.ExportTask, bool)
}
