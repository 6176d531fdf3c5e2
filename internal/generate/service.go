package generate

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/ytget/magic-animator/internal/model"
)

// Pipeline constants
const (
	DefaultFrameCount  = 8
	DefaultMaxAttempts = 3
	DefaultTemperature = 1.0
	DefaultRetryDelay  = time.Second
	AspectRatioSquare  = "1:1"
	ImagesPerCall      = 1
	RunIDPrefix        = "run-"
	MinFrames          = 2

	// seeds are drawn from [1, MaxSeed)
	MaxSeed = 1<<31 - 1
)

// Status line texts
const (
	StatusGeneratingFrames = "Generating frames..."
	StatusGeneratingFrame  = "Generating frame %d of %d"
	StatusAssembling       = "Assembling animation..."
	StatusRetrying         = "Attempt %d failed, retrying (%d of %d)..."
	StatusDone             = "Animation ready"
)

// Request carries everything a generation needs; templates are read once when it is built
type Request struct {
	Prompt      string
	Templates   model.Templates
	TextModel   string
	ImageModel  string
	FrameCount  int
	MaxAttempts int
	Temperature float32
}

func (r Request) normalized() Request {
	if r.FrameCount <= 0 {
		r.FrameCount = DefaultFrameCount
	}
	if r.MaxAttempts <= 0 {
		r.MaxAttempts = DefaultMaxAttempts
	}
	return r
}

// Service handles generation runs
type Service struct {
	text      TextGenerator
	images    ImageGenerator
	assembler Assembler
	logger    *slog.Logger

	running    atomic.Bool
	runMutex   sync.RWMutex
	current    *model.Run
	seedFunc   func() int32
	retryDelay time.Duration

	onStatus func(string)                    // status line
	onFrame  func(*model.Run, *model.Frame) // progressive frame rendering
	onUpdate func(*model.Run)               // run state changes
}

// NewService creates a new generation service
func NewService(text TextGenerator, images ImageGenerator, assembler Assembler, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		text:       text,
		images:     images,
		assembler:  assembler,
		logger:     logger.With("component", "generate"),
		seedFunc:   randomSeed,
		retryDelay: DefaultRetryDelay,
	}
}

// SetStatusCallback sets the callback receiving status line text
func (s *Service) SetStatusCallback(callback func(string)) {
	s.onStatus = callback
}

// SetFrameCallback sets the callback invoked as soon as each frame arrives
func (s *Service) SetFrameCallback(callback func(*model.Run, *model.Frame)) {
	s.onFrame = callback
}

// SetUpdateCallback sets the callback function for run updates
func (s *Service) SetUpdateCallback(callback func(*model.Run)) {
	s.onUpdate = callback
}

// SetRetryDelay sets the pause between attempts
func (s *Service) SetRetryDelay(delay time.Duration) {
	if delay < 0 {
		delay = 0
	}
	s.retryDelay = delay
}

// IsRunning reports whether a generation is in progress
func (s *Service) IsRunning() bool {
	return s.running.Load()
}

// currentRun returns the latest attempt, or nil before the first run
func (s *Service) currentRun() *model.Run {
	s.runMutex.RLock()
	defer s.runMutex.RUnlock()
	return s.current
}

// runOnce executes one full attempt: expansion, N sequential frame calls, assembly
func (s *Service) runOnce(ctx context.Context, req Request, attempt int) (*model.Artifact, error) {
	run := model.NewRun(generateRunID(), req.Prompt, req.FrameCount, attempt)
	s.setCurrent(run)

	s.setStatus(run, model.RunStatusExpanding)
	s.notifyStatus(StatusGeneratingFrames)

	expanded, err := s.text.ExpandPrompt(ctx, TextRequest{
		Model:             req.TextModel,
		Input:             req.Prompt,
		SystemInstruction: req.Templates.Orchestrator,
		Temperature:       req.Temperature,
	})
	if err != nil {
		return nil, s.fail(run, &StepError{Step: StepExpand, Err: err})
	}
	expanded = strings.TrimSpace(expanded)

	s.runMutex.Lock()
	run.ExpandedPrompt = expanded
	run.Seed = s.seedFunc()
	s.runMutex.Unlock()
	s.logger.Info("prompt expanded", "run", run.ID, "attempt", attempt, "seed", run.Seed)

	s.setStatus(run, model.RunStatusGenerating)
	for i := 1; i <= req.FrameCount; i++ {
		if err := ctx.Err(); err != nil {
			return nil, s.fail(run, err)
		}

		s.notifyStatus(fmt.Sprintf(StatusGeneratingFrame, i, req.FrameCount))

		result, err := s.images.GenerateImage(ctx, ImageRequest{
			Model:       req.ImageModel,
			Prompt:      req.Templates.FramePrompt(expanded, i, req.FrameCount),
			Count:       ImagesPerCall,
			Seed:        run.Seed,
			AspectRatio: AspectRatioSquare,
		})
		if err != nil {
			return nil, s.fail(run, &StepError{Step: StepFrame, Index: i, Err: err})
		}
		if result == nil || len(result.Data) == 0 {
			return nil, s.fail(run, &FrameError{Index: i})
		}

		frame := &model.Frame{Index: i, Data: result.Data, MIMEType: result.MIMEType}
		s.runMutex.Lock()
		err = run.AddFrame(frame)
		s.runMutex.Unlock()
		if err != nil {
			return nil, s.fail(run, err)
		}

		s.notifyFrame(run, frame)
		s.notifyUpdate(run)
	}

	if len(run.Frames) < MinFrames {
		return nil, s.fail(run, &StepError{Step: StepAssemble, Err: ErrTooFewFrames})
	}

	s.setStatus(run, model.RunStatusAssembling)
	s.notifyStatus(StatusAssembling)

	artifact, err := s.assembler.Assemble(ctx, run.ID, run.Frames)
	if err != nil {
		return nil, s.fail(run, &StepError{Step: StepAssemble, Err: err})
	}

	s.runMutex.Lock()
	run.Artifact = artifact
	run.Finish(nil)
	s.runMutex.Unlock()
	s.notifyUpdate(run)

	s.logger.Info("run completed", "run", run.ID, "frames", len(run.Frames), "elapsed", run.Duration())
	return artifact, nil
}

// fail marks the run as failed and returns err
func (s *Service) fail(run *model.Run, err error) error {
	s.runMutex.Lock()
	run.Finish(err)
	s.runMutex.Unlock()
	s.notifyUpdate(run)
	s.logger.Warn("attempt failed", "run", run.ID, "attempt", run.Attempt, "frames", len(run.Frames), "error", err)
	return err
}

func (s *Service) setCurrent(run *model.Run) {
	s.runMutex.Lock()
	s.current = run
	s.runMutex.Unlock()
	s.notifyUpdate(run)
}

func (s *Service) setStatus(run *model.Run, status model.RunStatus) {
	s.runMutex.Lock()
	run.Status = status
	s.runMutex.Unlock()
	s.notifyUpdate(run)
}

// notifyStatus calls the status callback if set
func (s *Service) notifyStatus(text string) {
	if s.onStatus != nil {
		s.onStatus(text)
	}
}

// notifyFrame calls the frame callback if set
func (s *Service) notifyFrame(run *model.Run, frame *model.Frame) {
	if s.onFrame != nil {
		s.onFrame(run, frame)
	}
}

// notifyUpdate calls the update callback if set
func (s *Service) notifyUpdate(run *model.Run) {
	if s.onUpdate != nil {
		s.onUpdate(run)
	}
}

// randomSeed draws a seed uniformly from [1, MaxSeed)
func randomSeed() int32 {
	return int32(1 + rand.IntN(MaxSeed-1))
}

// generateRunID generates a unique run ID using UUID v7
func generateRunID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Sprintf(RunIDPrefix+"%d", time.Now().UnixNano())
	}
	return RunIDPrefix + id.String()
}
