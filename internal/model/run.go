package model

import (
	"fmt"
	"image"
	"strings"
	"time"
)

// Placeholders recognised in the frame instruction template
const (
	PlaceholderPrompt = "{prompt}"
	PlaceholderFrame  = "{frame}"
	PlaceholderTotal  = "{total}"
)

// Templates holds the two user-editable instructions read once per run
type Templates struct {
	// Orchestrator is the system instruction for the prompt expansion call
	Orchestrator string
	// Frame is the per-frame instruction with {prompt}, {frame} and {total} placeholders
	Frame string
}

// FramePrompt substitutes the expanded prompt, frame index and total into the frame template
func (t Templates) FramePrompt(expanded string, index, total int) string {
	r := strings.NewReplacer(
		PlaceholderPrompt, expanded,
		PlaceholderFrame, fmt.Sprint(index),
		PlaceholderTotal, fmt.Sprint(total),
	)
	return r.Replace(t.Frame)
}

// Frame is one generated image and its 1-based position in the run
type Frame struct {
	Index    int
	Data     []byte // encoded image bytes as returned by the model
	MIMEType string
}

// Run is a single execution of prompt -> frames -> animation
type Run struct {
	ID             string
	Prompt         string
	ExpandedPrompt string
	Seed           int32
	Attempt        int
	TotalFrames    int
	Frames         []*Frame // append-only, indices 1..TotalFrames
	Status         RunStatus
	LastError      string
	Artifact       *Artifact
	StartedAt      time.Time
	FinishedAt     time.Time
}

// NewRun creates a pending run for the given prompt
func NewRun(id, prompt string, totalFrames, attempt int) *Run {
	return &Run{
		ID:          id,
		Prompt:      prompt,
		Attempt:     attempt,
		TotalFrames: totalFrames,
		Frames:      make([]*Frame, 0, totalFrames),
		Status:      RunStatusPending,
		StartedAt:   time.Now(),
	}
}

// AddFrame appends the next frame; frames must arrive in index order
func (r *Run) AddFrame(frame *Frame) error {
	if frame == nil {
		return fmt.Errorf("nil frame")
	}
	want := len(r.Frames) + 1
	if frame.Index != want {
		return fmt.Errorf("frame %d out of order, expected %d", frame.Index, want)
	}
	if r.TotalFrames > 0 && frame.Index > r.TotalFrames {
		return fmt.Errorf("frame %d exceeds total of %d", frame.Index, r.TotalFrames)
	}
	r.Frames = append(r.Frames, frame)
	return nil
}

// Progress returns the generated share of frames, 0.0 to 1.0
func (r *Run) Progress() float64 {
	if r.TotalFrames <= 0 {
		return 0
	}
	return float64(len(r.Frames)) / float64(r.TotalFrames)
}

// Finish marks the run as finished with the given error, or completed when err is nil
func (r *Run) Finish(err error) {
	if err != nil {
		r.Status = RunStatusError
		r.LastError = err.Error()
	} else {
		r.Status = RunStatusCompleted
		r.LastError = ""
	}
	r.FinishedAt = time.Now()
}

// Duration returns how long the run took, or has taken so far
func (r *Run) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return time.Since(r.StartedAt)
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Artifact is the finalized animation built from all frames of a run
type Artifact struct {
	RunID      string
	FileName   string
	MediaType  string
	Data       []byte
	FrameCount int
	Delay      time.Duration // per frame
	Size       int           // square canvas edge in pixels

	// Frames are the rendered canvases in playback order, kept for on-screen playback
	Frames []image.Image
}

// Duration returns the length of one loop of the animation
func (a *Artifact) Duration() time.Duration {
	return time.Duration(a.FrameCount) * a.Delay
}
