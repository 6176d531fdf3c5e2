package generate

import (
	"errors"
	"fmt"
)

// Pipeline steps reported in StepError
const (
	StepExpand   = "expand"
	StepFrame    = "frame"
	StepAssemble = "assemble"
)

var (
	// ErrRunInProgress is returned when Generate is called while a run is active
	ErrRunInProgress = errors.New("a generation is already running")
	// ErrNoImage is reported when a frame call succeeds but carries no image
	ErrNoImage = errors.New("model returned no image")
	// ErrEmptyPrompt is returned for a blank prompt
	ErrEmptyPrompt = errors.New("prompt is empty")
	// ErrTooFewFrames is returned when a run cannot produce an animation
	ErrTooFewFrames = errors.New("an animation needs at least 2 frames")
)

// StepError is a failed call at one pipeline step
type StepError struct {
	Step  string
	Index int // frame index, 0 for the expansion and assembly steps
	Err   error
}

func (e *StepError) Error() string {
	return e.Prefix() + ": " + e.Err.Error()
}

// Prefix describes the failed step without the underlying cause
func (e *StepError) Prefix() string {
	switch e.Step {
	case StepExpand:
		return "prompt expansion failed"
	case StepFrame:
		return fmt.Sprintf("frame generation failed at index %d", e.Index)
	case StepAssemble:
		return "animation assembly failed"
	default:
		return e.Step + " failed"
	}
}

func (e *StepError) Unwrap() error { return e.Err }

// FrameError reports a frame call that returned no image
type FrameError struct {
	Index int
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("frame generation failed at index %d", e.Index)
}

func (e *FrameError) Unwrap() error { return ErrNoImage }

// RetryError is the final failure after every attempt failed
type RetryError struct {
	Attempts int
	Last     error
}

func (e *RetryError) Error() string {
	return fmt.Sprintf("generation failed after %d attempts: %v", e.Attempts, e.Last)
}

func (e *RetryError) Unwrap() error { return e.Last }
