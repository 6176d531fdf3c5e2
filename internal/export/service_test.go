package export

import (
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/ytget/magic-animator/internal/model"
)

func TestNewService(t *testing.T) {
	service := NewService(nil)

	if len(service.tasks) != 0 {
		t.Errorf("Expected empty tasks map, got %d items", len(service.tasks))
	}
	if service.loops != DefaultLoops {
		t.Errorf("Expected %d loops, got %d", DefaultLoops, service.loops)
	}
}

func TestGenerateOutputPath(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"/path/to/magical_animation.gif", "/path/to/magical_animation.mp4"},
		{"/path/to/magical_animation.png", "/path/to/magical_animation.mp4"},
		{"anim.gif", "anim.mp4"},
		{"/no/ext/file", "/no/ext/file.mp4"},
	}

	for _, test := range tests {
		result := generateOutputPath(test.input)
		if result != test.expected {
			t.Errorf("generateOutputPath(%s) = %s, expected %s", test.input, result, test.expected)
		}
	}
}

func TestBuildFFmpegArgs(t *testing.T) {
	service := NewService(nil)
	args := service.BuildFFmpegArgs("/in.gif", "/out.mp4")

	expectedArgs := []string{
		"-y",
		"-stream_loop", "3",
		"-i", "/in.gif",
		"-vf", EvenScaleFilter,
		"-c:v", VideoCodec,
		"-preset", VideoPreset,
		"-crf", VideoCRF,
		"-pix_fmt", PixelFormat,
		"-movflags", FastStartFlag,
		"-progress", "pipe:2",
		"-nostats",
		"/out.mp4",
	}

	if len(args) != len(expectedArgs) {
		t.Fatalf("Expected %d args, got %d", len(expectedArgs), len(args))
	}

	for i, expected := range expectedArgs {
		if args[i] != expected {
			t.Errorf("Arg %d: expected %s, got %s", i, expected, args[i])
		}
	}
}

func TestParseProgressLine(t *testing.T) {
	tests := []struct {
		line  string
		total float64
		want  float64
		ok    bool
	}{
		{"out_time_us=1000000", 4, 0.25, true},
		{"  out_time_us=8000000  ", 4, 1.0, true},
		{"out_time_us=-5", 4, 0, true},
		{"out_time_us=abc", 4, 0, false},
		{"frame=12", 4, 0, false},
		{"out_time_us=1000000", 0, 0, false},
	}

	for _, tt := range tests {
		got, ok := parseProgressLine(tt.line, tt.total)
		if ok != tt.ok || got != tt.want {
			t.Errorf("parseProgressLine(%q, %v) = %v, %v; expected %v, %v", tt.line, tt.total, got, ok, tt.want, tt.ok)
		}
	}
}

func TestMonitorProgressReadsToEnd(t *testing.T) {
	service := NewService(nil)
	var updates []float64
	service.SetUpdateCallback(func(task *model.ExportTask) {
		updates = append(updates, task.Progress)
	})

	task := &model.ExportTask{ID: "export-1", Status: model.TaskStatusRunning}
	stderr := io.NopCloser(strings.NewReader("frame=1\nout_time_us=1000000\nprogress=continue\nout_time_us=2000000\nprogress=end\n"))
	done := make(chan struct{})

	go service.monitorProgress(stderr, task, 4, done)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Expected progress monitor to finish at end of output")
	}

	if task.Progress != 0.5 {
		t.Errorf("Expected final progress 0.5, got %v", task.Progress)
	}
	if task.Percent != 50 {
		t.Errorf("Expected 50 percent, got %d", task.Percent)
	}
	if len(updates) != 2 {
		t.Errorf("Expected 2 progress updates, got %d", len(updates))
	}
}

func TestParseDuration(t *testing.T) {
	if d, err := parseDuration("2.000000\n"); err != nil || d != 2 {
		t.Errorf("Expected 2, got %v (%v)", d, err)
	}
	if _, err := parseDuration("N/A"); err == nil {
		t.Error("Expected error for N/A")
	}
}

func TestStartExport_NonExistentFile(t *testing.T) {
	service := NewService(nil)

	_, err := service.StartExport("/path/to/nonexistent/file.gif", time.Second)
	if err == nil {
		t.Fatal("Expected error for non-existent file, got nil")
	}

	if !strings.Contains(err.Error(), "does not exist") {
		t.Errorf("Expected 'does not exist' error, got: %v", err)
	}
}

func TestStartExport_WithExistingFile(t *testing.T) {
	service := NewService(nil)

	tempFile, err := os.CreateTemp("", "test_anim_*.gif")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	defer os.Remove(tempFile.Name())
	tempFile.Close()

	task, err := service.StartExport(tempFile.Name(), 2*time.Second)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if task.InputPath != tempFile.Name() {
		t.Errorf("Expected InputPath to be %s, got %s", tempFile.Name(), task.InputPath)
	}
	if task.OutputPath != generateOutputPath(tempFile.Name()) {
		t.Errorf("Unexpected OutputPath %s", task.OutputPath)
	}
	if !strings.HasPrefix(task.ID, TaskIDPrefix) {
		t.Errorf("Expected ID prefix %s, got %s", TaskIDPrefix, task.ID)
	}

	if _, exists := service.GetTask(task.ID); !exists {
		t.Error("Task should exist in service")
	}

	// the empty file makes ffmpeg (or its absence) fail quickly
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		stored, _ := service.GetTask(task.ID)
		service.tasksMutex.RLock()
		finished := stored.Status.IsFinished()
		service.tasksMutex.RUnlock()
		if finished {
			break
		}
		time.Sleep(50 * time.Millisecond)
	}
	defer os.Remove(task.OutputPath)
}

func TestStopExport(t *testing.T) {
	service := NewService(nil)

	if err := service.StopExport("missing"); err == nil {
		t.Error("Expected error for unknown task")
	}

	service.tasks["done"] = &model.ExportTask{ID: "done", Status: model.TaskStatusCompleted}
	if err := service.StopExport("done"); err == nil {
		t.Error("Expected error for finished task")
	}

	var updates []model.TaskStatus
	service.SetUpdateCallback(func(task *model.ExportTask) { updates = append(updates, task.Status) })
	service.tasks["active"] = &model.ExportTask{ID: "active", Status: model.TaskStatusRunning}
	if err := service.StopExport("active"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if service.tasks["active"].Status != model.TaskStatusStopping {
		t.Errorf("Expected stopping, got %s", service.tasks["active"].Status)
	}
	if len(updates) != 1 || updates[0] != model.TaskStatusStopping {
		t.Errorf("Expected one stopping update, got %v", updates)
	}
}
