package generate

import (
	"context"

	"github.com/ytget/magic-animator/internal/model"
)

// TextRequest is one prompt expansion call
type TextRequest struct {
	Model             string
	Input             string
	SystemInstruction string
	Temperature       float32
}

// ImageRequest is one frame generation call
type ImageRequest struct {
	Model       string
	Prompt      string
	Count       int
	Seed        int32
	AspectRatio string
}

// ImageResult is the first image returned by a frame call
type ImageResult struct {
	Data     []byte
	MIMEType string
	Seed     int32
}

// TextGenerator expands the user prompt
type TextGenerator interface {
	ExpandPrompt(ctx context.Context, req TextRequest) (string, error)
}

// ImageGenerator produces one image per call; a nil result means no image
type ImageGenerator interface {
	GenerateImage(ctx context.Context, req ImageRequest) (*ImageResult, error)
}

// Assembler turns the ordered frames of a run into an animation artifact
type Assembler interface {
	Assemble(ctx context.Context, runID string, frames []*model.Frame) (*model.Artifact, error)
}

// Generator defines the interface for the generation service.
type Generator interface {
	SetStatusCallback(func(string))
	SetFrameCallback(func(*model.Run, *model.Frame))
	SetUpdateCallback(func(*model.Run))
	Generate(ctx context.Context, req Request) (*model.Artifact, error)
	IsRunning() bool
}
