package export

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ytget/magic-animator/internal/model"
)

// FFmpeg constants for video export
const (
	// Video codec settings
	VideoCodec  = "libx264"
	VideoPreset = "medium"
	VideoCRF    = "20"
	PixelFormat = "yuv420p"

	// libx264 needs even dimensions
	EvenScaleFilter = "scale=trunc(iw/2)*2:trunc(ih/2)*2"

	// Container flags
	FastStartFlag = "+faststart"

	// Number of animation loops written to the video
	DefaultLoops = 4

	// Executable and I/O constants
	FFmpegCommand       = "ffmpeg"
	FFprobeCommand      = "ffprobe"
	FFprobeLogLevel     = "error"
	FFprobeShowEntries  = "format=duration"
	FFprobeOutputFormat = "csv=p=0"
	ProgressPipeTarget  = "pipe:2"
	ProgressTimePrefix  = "out_time_us="
	TaskIDPrefix        = "export-"
	OutputExtensionMP4  = ".mp4"
)

// Service handles video export operations
type Service struct {
	tasks      map[string]*model.ExportTask
	tasksMutex sync.RWMutex
	loops      int
	logger     *slog.Logger
	onUpdate   func(*model.ExportTask) // callback for UI updates
}

// NewService creates a new export service
func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		tasks:  make(map[string]*model.ExportTask),
		loops:  DefaultLoops,
		logger: logger.With("component", "export"),
	}
}

// SetUpdateCallback sets the callback function for task updates
func (s *Service) SetUpdateCallback(callback func(*model.ExportTask)) {
	s.onUpdate = callback
}

// Available reports whether ffmpeg can be found on PATH
func (s *Service) Available() bool {
	_, err := exec.LookPath(FFmpegCommand)
	return err == nil
}

// StartExport starts converting an animation file to MP4.
// loopDuration is the length of one animation loop; zero asks ffprobe.
func (s *Service) StartExport(inputPath string, loopDuration time.Duration) (*model.ExportTask, error) {
	s.tasksMutex.Lock()
	defer s.tasksMutex.Unlock()

	for _, task := range s.tasks {
		if task.InputPath == inputPath && task.Status.IsActive() {
			return nil, fmt.Errorf("export already in progress for file: %s", inputPath)
		}
	}

	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("input file does not exist: %s", inputPath)
	}

	task := &model.ExportTask{
		ID:         generateTaskID(),
		InputPath:  inputPath,
		OutputPath: generateOutputPath(inputPath),
		Status:     model.TaskStatusPending,
		StartedAt:  time.Now(),
	}
	s.tasks[task.ID] = task

	go s.runExport(task, loopDuration)

	return task, nil
}

// StopExport stops a running export task
func (s *Service) StopExport(taskID string) error {
	s.tasksMutex.Lock()
	defer s.tasksMutex.Unlock()

	task, exists := s.tasks[taskID]
	if !exists {
		return fmt.Errorf("export task not found: %s", taskID)
	}

	if !task.Status.IsActive() {
		return fmt.Errorf("export task is not active: %s", task.Status)
	}

	task.Status = model.TaskStatusStopping
	s.notifyUpdateLocked(task)

	return nil
}

// GetTask returns an export task by ID
func (s *Service) GetTask(taskID string) (*model.ExportTask, bool) {
	s.tasksMutex.RLock()
	defer s.tasksMutex.RUnlock()
	task, exists := s.tasks[taskID]
	return task, exists
}

// runExport performs the actual conversion
func (s *Service) runExport(task *model.ExportTask, loopDuration time.Duration) {
	s.setStatus(task, model.TaskStatusStarting)

	seconds := loopDuration.Seconds()
	if seconds <= 0 {
		probed, err := s.getDuration(task.InputPath)
		if err != nil {
			s.logger.Warn("duration probe failed", "input", task.InputPath, "error", err)
			s.setTaskError(task, err)
			return
		}
		seconds = probed
	}
	total := seconds * float64(s.loops)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Monitor for stop requests
	go func() {
		for {
			s.tasksMutex.RLock()
			status := task.Status
			s.tasksMutex.RUnlock()

			if status == model.TaskStatusStopping {
				cancel()
				return
			}
			if status.IsFinished() {
				return
			}
			time.Sleep(100 * time.Millisecond)
		}
	}()

	s.setStatus(task, model.TaskStatusRunning)

	args := s.BuildFFmpegArgs(task.InputPath, task.OutputPath)
	cmd := exec.CommandContext(ctx, FFmpegCommand, args...)

	stderr, err := cmd.StderrPipe()
	if err != nil {
		s.setTaskError(task, fmt.Errorf("failed to create stderr pipe: %w", err))
		return
	}

	if err := cmd.Start(); err != nil {
		s.setTaskError(task, fmt.Errorf("failed to start ffmpeg: %w", err))
		return
	}

	progressDone := make(chan struct{})
	go s.monitorProgress(stderr, task, total, progressDone)

	// Wait closes the pipe, so every progress line is read first
	<-progressDone
	err = cmd.Wait()

	s.tasksMutex.Lock()
	switch {
	case ctx.Err() == context.Canceled:
		task.Status = model.TaskStatusStopped
		os.Remove(task.OutputPath)
	case err != nil:
		task.Status = model.TaskStatusError
		task.LastError = err.Error()
		os.Remove(task.OutputPath)
	default:
		task.Status = model.TaskStatusCompleted
		task.Progress = 1.0
		task.Percent = 100
	}
	task.FinishedAt = time.Now()
	s.notifyUpdateLocked(task)
	s.tasksMutex.Unlock()

	s.logger.Info("export finished", "task", task.ID, "status", task.Status, "output", task.OutputPath)
}

// BuildFFmpegArgs builds the ffmpeg command arguments
func (s *Service) BuildFFmpegArgs(inputPath, outputPath string) []string {
	return []string{
		"-y", // Overwrite output file
		"-stream_loop", strconv.Itoa(s.loops - 1), // Extra loops of the input
		"-i", inputPath, // Input file
		"-vf", EvenScaleFilter, // Even dimensions
		"-c:v", VideoCodec, // Video codec
		"-preset", VideoPreset, // Encoding preset
		"-crf", VideoCRF, // Constant rate factor
		"-pix_fmt", PixelFormat, // Player compatible pixel format
		"-movflags", FastStartFlag, // MP4 optimization
		"-progress", ProgressPipeTarget, // Progress to stderr
		"-nostats", // No stats output
		outputPath, // Output file
	}
}

// getDuration gets the duration of a media file using ffprobe
func (s *Service) getDuration(filePath string) (float64, error) {
	cmd := exec.Command(FFprobeCommand, "-v", FFprobeLogLevel, "-show_entries", FFprobeShowEntries, "-of", FFprobeOutputFormat, filePath)
	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("failed to run ffprobe: %w", err)
	}
	return parseDuration(string(output))
}

func parseDuration(output string) (float64, error) {
	duration, err := strconv.ParseFloat(strings.TrimSpace(output), 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse duration: %w", err)
	}
	return duration, nil
}

// monitorProgress monitors ffmpeg progress output
func (s *Service) monitorProgress(stderr io.ReadCloser, task *model.ExportTask, totalSeconds float64, done chan<- struct{}) {
	defer close(done)
	defer stderr.Close()
	scanner := bufio.NewScanner(stderr)

	for scanner.Scan() {
		progress, ok := parseProgressLine(scanner.Text(), totalSeconds)
		if !ok {
			continue
		}

		s.tasksMutex.Lock()
		task.Progress = progress
		task.Percent = int(progress * 100)
		s.notifyUpdateLocked(task)
		s.tasksMutex.Unlock()
	}
	if err := scanner.Err(); err != nil {
		s.logger.Warn("reading ffmpeg progress failed", "task", task.ID, "error", err)
		io.Copy(io.Discard, stderr)
	}
}

// parseProgressLine turns an "out_time_us=123456" line into a 0..1 fraction
func parseProgressLine(line string, totalSeconds float64) (float64, bool) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, ProgressTimePrefix) || totalSeconds <= 0 {
		return 0, false
	}
	us, err := strconv.ParseInt(strings.TrimPrefix(line, ProgressTimePrefix), 10, 64)
	if err != nil {
		return 0, false
	}
	progress := float64(us) / 1000000.0 / totalSeconds
	if progress > 1.0 {
		progress = 1.0
	}
	if progress < 0 {
		progress = 0
	}
	return progress, true
}

func (s *Service) setStatus(task *model.ExportTask, status model.TaskStatus) {
	s.tasksMutex.Lock()
	task.Status = status
	s.notifyUpdateLocked(task)
	s.tasksMutex.Unlock()
}

// setTaskError sets an error state for a task
func (s *Service) setTaskError(task *model.ExportTask, err error) {
	s.tasksMutex.Lock()
	task.Status = model.TaskStatusError
	task.LastError = err.Error()
	task.FinishedAt = time.Now()
	s.notifyUpdateLocked(task)
	s.tasksMutex.Unlock()
}

// notifyUpdateLocked passes a snapshot to the callback; callers hold tasksMutex
func (s *Service) notifyUpdateLocked(task *model.ExportTask) {
	if s.onUpdate != nil {
		snapshot := *task
		s.onUpdate(&snapshot)
	}
}

// generateOutputPath places the video next to the animation
func generateOutputPath(inputPath string) string {
	ext := filepath.Ext(inputPath)
	return strings.TrimSuffix(inputPath, ext) + OutputExtensionMP4
}

// generateTaskID generates a unique task ID using UUID v7
func generateTaskID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Sprintf(TaskIDPrefix+"%d", time.Now().UnixNano())
	}
	return TaskIDPrefix + id.String()
}
