package generate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/ytget/magic-animator/internal/model"
)

type fakeText struct {
	calls    int
	requests []TextRequest
	errs     []error // per call, nil entries succeed
}

func (f *fakeText) ExpandPrompt(ctx context.Context, req TextRequest) (string, error) {
	f.calls++
	f.requests = append(f.requests, req)
	if len(f.errs) >= f.calls && f.errs[f.calls-1] != nil {
		return "", f.errs[f.calls-1]
	}
	return fmt.Sprintf("expanded %s #%d", req.Input, f.calls), nil
}

type fakeImages struct {
	requests []ImageRequest
	missing  map[int]bool // frame index -> return no image
	failAt   map[int]error
}

func (f *fakeImages) GenerateImage(ctx context.Context, req ImageRequest) (*ImageResult, error) {
	f.requests = append(f.requests, req)
	index := len(f.requests)
	if err := f.failAt[index]; err != nil {
		return nil, err
	}
	if f.missing[index] {
		return nil, nil
	}
	return &ImageResult{Data: []byte(fmt.Sprintf("png-%d", index)), MIMEType: "image/png", Seed: req.Seed}, nil
}

type fakeAssembler struct {
	calls  int
	frames []*model.Frame
	err    error
}

func (f *fakeAssembler) Assemble(ctx context.Context, runID string, frames []*model.Frame) (*model.Artifact, error) {
	f.calls++
	f.frames = frames
	if f.err != nil {
		return nil, f.err
	}
	return &model.Artifact{
		RunID:      runID,
		FileName:   "magical_animation.gif",
		MediaType:  "image/gif",
		FrameCount: len(frames),
		Delay:      250 * time.Millisecond,
	}, nil
}

func newTestService(text *fakeText, images *fakeImages, assembler *fakeAssembler) *Service {
	service := NewService(text, images, assembler, nil)
	service.SetRetryDelay(0)
	var seed int32
	service.seedFunc = func() int32 {
		seed++
		return 1000 + seed
	}
	return service
}

func testRequest() Request {
	return Request{
		Prompt: "a seed sprouting into a flower",
		Templates: model.Templates{
			Orchestrator: "You are an animation director.",
			Frame:        "{prompt} | frame {frame}/{total}",
		},
		TextModel:   "text-model",
		ImageModel:  "image-model",
		FrameCount:  8,
		MaxAttempts: 3,
		Temperature: 1.0,
	}
}

// imagesPerAttempt marks frame missingIndex of every attempt as missing,
// for attempts that each issue perAttempt image calls before failing
func imagesPerAttempt(perAttempt int, missingIndex int, attempts int) map[int]bool {
	missing := make(map[int]bool)
	for a := 0; a < attempts; a++ {
		missing[a*perAttempt+missingIndex] = true
	}
	return missing
}

func TestGenerateSuccess(t *testing.T) {
	text := &fakeText{}
	images := &fakeImages{}
	assembler := &fakeAssembler{}
	service := newTestService(text, images, assembler)

	var statuses []string
	var emitted []int
	service.SetStatusCallback(func(s string) { statuses = append(statuses, s) })
	service.SetFrameCallback(func(run *model.Run, frame *model.Frame) { emitted = append(emitted, frame.Index) })

	artifact, err := service.Generate(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if artifact.FileName != "magical_animation.gif" {
		t.Errorf("Expected artifact magical_animation.gif, got %s", artifact.FileName)
	}
	if text.calls != 1 {
		t.Errorf("Expected 1 expansion call, got %d", text.calls)
	}
	if len(images.requests) != 8 {
		t.Fatalf("Expected 8 image calls, got %d", len(images.requests))
	}
	if assembler.calls != 1 {
		t.Errorf("Expected assembler to be called once, got %d", assembler.calls)
	}
	if len(assembler.frames) != 8 {
		t.Fatalf("Expected 8 frames handed to assembler, got %d", len(assembler.frames))
	}
	for i, frame := range assembler.frames {
		if frame.Index != i+1 {
			t.Errorf("Expected frame %d at position %d, got %d", i+1, i, frame.Index)
		}
	}
	for i, index := range emitted {
		if index != i+1 {
			t.Errorf("Expected emitted frame %d, got %d", i+1, index)
		}
	}

	seed := images.requests[0].Seed
	for i, req := range images.requests {
		if req.Seed != seed {
			t.Errorf("Request %d: expected shared seed %d, got %d", i+1, seed, req.Seed)
		}
		if req.Count != 1 || req.AspectRatio != "1:1" {
			t.Errorf("Request %d: expected 1 square image, got count=%d aspect=%s", i+1, req.Count, req.AspectRatio)
		}
		want := fmt.Sprintf("expanded a seed sprouting into a flower #1 | frame %d/8", i+1)
		if req.Prompt != want {
			t.Errorf("Request %d: expected prompt %q, got %q", i+1, want, req.Prompt)
		}
	}

	if text.requests[0].SystemInstruction != "You are an animation director." {
		t.Errorf("Expected orchestrator instruction as system instruction, got %q", text.requests[0].SystemInstruction)
	}
	if text.requests[0].Temperature != 1.0 {
		t.Errorf("Expected temperature 1.0, got %v", text.requests[0].Temperature)
	}

	wantStatuses := []string{StatusGeneratingFrames}
	for i := 1; i <= 8; i++ {
		wantStatuses = append(wantStatuses, fmt.Sprintf(StatusGeneratingFrame, i, 8))
	}
	wantStatuses = append(wantStatuses, StatusAssembling, StatusDone)
	if strings.Join(statuses, "\n") != strings.Join(wantStatuses, "\n") {
		t.Errorf("Unexpected status sequence:\n%s", strings.Join(statuses, "\n"))
	}

	run := service.currentRun()
	if run.Status != model.RunStatusCompleted {
		t.Errorf("Expected run status completed, got %s", run.Status)
	}
	if run.Artifact != artifact {
		t.Error("Expected run to carry the artifact")
	}
	if !strings.HasPrefix(run.ID, RunIDPrefix) {
		t.Errorf("Expected run ID prefix %s, got %s", RunIDPrefix, run.ID)
	}
	if service.IsRunning() {
		t.Error("Service should not be running after Generate returns")
	}
}

func TestGenerateExpansionFailure(t *testing.T) {
	apiErr := errors.New(`Error 429, Message: {"error":{"code":429,"message":"Quota exceeded","status":"RESOURCE_EXHAUSTED"}}, Status: RESOURCE_EXHAUSTED, Details: []`)
	text := &fakeText{errs: []error{apiErr, apiErr, apiErr}}
	images := &fakeImages{}
	assembler := &fakeAssembler{}
	service := newTestService(text, images, assembler)

	_, err := service.Generate(context.Background(), testRequest())
	if err == nil {
		t.Fatal("Expected error, got nil")
	}

	if len(images.requests) != 0 {
		t.Errorf("Expected no image calls, got %d", len(images.requests))
	}
	if text.calls != 3 {
		t.Errorf("Expected 3 expansion attempts, got %d", text.calls)
	}

	var retryErr *RetryError
	if !errors.As(err, &retryErr) {
		t.Fatalf("Expected RetryError, got %T", err)
	}
	if retryErr.Attempts != 3 {
		t.Errorf("Expected 3 attempts, got %d", retryErr.Attempts)
	}

	var stepErr *StepError
	if !errors.As(err, &stepErr) || stepErr.Step != StepExpand {
		t.Errorf("Expected expand StepError, got %v", err)
	}
	if !errors.Is(err, apiErr) {
		t.Error("Expected the remote error to stay in the chain")
	}
	if service.currentRun().Status != model.RunStatusError {
		t.Errorf("Expected run status error, got %s", service.currentRun().Status)
	}
}

func TestGenerateMissingFrame(t *testing.T) {
	text := &fakeText{}
	images := &fakeImages{missing: map[int]bool{7: true}}
	assembler := &fakeAssembler{}
	service := newTestService(text, images, assembler)

	var emitted []int
	service.SetFrameCallback(func(run *model.Run, frame *model.Frame) { emitted = append(emitted, frame.Index) })

	req := testRequest()
	req.MaxAttempts = 1
	_, err := service.Generate(context.Background(), req)

	var frameErr *FrameError
	if !errors.As(err, &frameErr) {
		t.Fatalf("Expected FrameError, got %v", err)
	}
	if frameErr.Index != 7 {
		t.Errorf("Expected failure at index 7, got %d", frameErr.Index)
	}
	if !errors.Is(err, ErrNoImage) {
		t.Error("Expected ErrNoImage in chain")
	}
	if !strings.Contains(err.Error(), "frame generation failed at index 7") {
		t.Errorf("Unexpected error text: %s", err.Error())
	}
	if len(emitted) != 6 {
		t.Errorf("Expected frames 1-6 emitted, got %v", emitted)
	}
	if assembler.calls != 0 {
		t.Errorf("Expected assembler not to be called, got %d calls", assembler.calls)
	}
	if len(images.requests) != 7 {
		t.Errorf("Expected 7 image calls, got %d", len(images.requests))
	}
}

func TestGenerateRetryStopsAtFirstSuccess(t *testing.T) {
	text := &fakeText{}
	// first attempt loses frame 3, second attempt succeeds
	images := &fakeImages{missing: map[int]bool{3: true}}
	assembler := &fakeAssembler{}
	service := newTestService(text, images, assembler)

	var runs []string
	service.SetUpdateCallback(func(run *model.Run) {
		if len(runs) == 0 || runs[len(runs)-1] != run.ID {
			runs = append(runs, run.ID)
		}
	})

	artifact, err := service.Generate(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("Expected success on second attempt, got %v", err)
	}
	if artifact == nil {
		t.Fatal("Expected artifact")
	}
	if text.calls != 2 {
		t.Errorf("Expected 2 expansion calls, got %d", text.calls)
	}
	// 3 calls in the failed attempt plus 8 in the successful one
	if len(images.requests) != 11 {
		t.Errorf("Expected 11 image calls, got %d", len(images.requests))
	}
	if len(runs) != 2 || runs[0] == runs[1] {
		t.Errorf("Expected two distinct runs, got %v", runs)
	}
	if service.currentRun().Attempt != 2 {
		t.Errorf("Expected attempt 2, got %d", service.currentRun().Attempt)
	}

	firstSeed := images.requests[0].Seed
	secondSeed := images.requests[3].Seed
	if firstSeed == secondSeed {
		t.Errorf("Expected a new seed per attempt, both were %d", firstSeed)
	}
	if !strings.HasSuffix(images.requests[3].Prompt, "#2 | frame 1/8") {
		t.Errorf("Expected second attempt to use a fresh expansion, got %q", images.requests[3].Prompt)
	}
}

func TestGenerateExhaustsAttempts(t *testing.T) {
	tests := []struct {
		name        string
		maxAttempts int
	}{
		{"single attempt", 1},
		{"default attempts", 3},
		{"five attempts", 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := &fakeText{}
			images := &fakeImages{missing: imagesPerAttempt(1, 1, tt.maxAttempts)}
			assembler := &fakeAssembler{}
			service := newTestService(text, images, assembler)

			req := testRequest()
			req.MaxAttempts = tt.maxAttempts
			_, err := service.Generate(context.Background(), req)

			var retryErr *RetryError
			if !errors.As(err, &retryErr) {
				t.Fatalf("Expected RetryError, got %v", err)
			}
			if text.calls != tt.maxAttempts {
				t.Errorf("Expected %d attempts, got %d", tt.maxAttempts, text.calls)
			}
			if assembler.calls != 0 {
				t.Errorf("Expected no assembly, got %d", assembler.calls)
			}
		})
	}
}

func TestGenerateAssemblyFailure(t *testing.T) {
	text := &fakeText{}
	images := &fakeImages{}
	assembler := &fakeAssembler{err: errors.New("encode failed")}
	service := newTestService(text, images, assembler)

	req := testRequest()
	req.MaxAttempts = 2
	_, err := service.Generate(context.Background(), req)

	var stepErr *StepError
	if !errors.As(err, &stepErr) || stepErr.Step != StepAssemble {
		t.Fatalf("Expected assemble StepError, got %v", err)
	}
	if assembler.calls != 2 {
		t.Errorf("Expected assembler called on each attempt, got %d", assembler.calls)
	}
}

func TestGenerateFrameCallError(t *testing.T) {
	text := &fakeText{}
	images := &fakeImages{failAt: map[int]error{2: errors.New("connection reset")}}
	service := newTestService(text, images, &fakeAssembler{})

	req := testRequest()
	req.MaxAttempts = 1
	_, err := service.Generate(context.Background(), req)

	var stepErr *StepError
	if !errors.As(err, &stepErr) {
		t.Fatalf("Expected StepError, got %v", err)
	}
	if stepErr.Step != StepFrame || stepErr.Index != 2 {
		t.Errorf("Expected frame step at index 2, got %s at %d", stepErr.Step, stepErr.Index)
	}
	if stepErr.Prefix() != "frame generation failed at index 2" {
		t.Errorf("Unexpected prefix %q", stepErr.Prefix())
	}
}

func TestGenerateRejectsOverlappingRun(t *testing.T) {
	service := newTestService(&fakeText{}, &fakeImages{}, &fakeAssembler{})
	service.running.Store(true)

	_, err := service.Generate(context.Background(), testRequest())
	if !errors.Is(err, ErrRunInProgress) {
		t.Errorf("Expected ErrRunInProgress, got %v", err)
	}
	if !service.IsRunning() {
		t.Error("Rejected call must not clear the running flag")
	}
}

func TestGenerateEmptyPrompt(t *testing.T) {
	text := &fakeText{}
	service := newTestService(text, &fakeImages{}, &fakeAssembler{})

	req := testRequest()
	req.Prompt = "   "
	_, err := service.Generate(context.Background(), req)
	if !errors.Is(err, ErrEmptyPrompt) {
		t.Errorf("Expected ErrEmptyPrompt, got %v", err)
	}
	if text.calls != 0 {
		t.Errorf("Expected no calls, got %d", text.calls)
	}
}

func TestGenerateCancelledBetweenAttempts(t *testing.T) {
	text := &fakeText{errs: []error{errors.New("boom")}}
	service := newTestService(text, &fakeImages{}, &fakeAssembler{})
	service.SetRetryDelay(time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	service.SetStatusCallback(func(s string) {
		if strings.HasPrefix(s, "Attempt 1 failed") {
			cancel()
		}
	})

	_, err := service.Generate(ctx, testRequest())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if text.calls != 1 {
		t.Errorf("Expected a single attempt, got %d", text.calls)
	}
}

func TestGenerateRejectsSingleFrame(t *testing.T) {
	text := &fakeText{}
	images := &fakeImages{}
	assembler := &fakeAssembler{}
	service := newTestService(text, images, assembler)

	req := testRequest()
	req.FrameCount = 1
	_, err := service.Generate(context.Background(), req)
	if !errors.Is(err, ErrTooFewFrames) {
		t.Fatalf("Expected ErrTooFewFrames, got %v", err)
	}
	if text.calls != 0 || len(images.requests) != 0 {
		t.Errorf("Expected no model calls, got %d text and %d image calls", text.calls, len(images.requests))
	}
	if assembler.calls != 0 {
		t.Errorf("Expected assembler not to be called, got %d calls", assembler.calls)
	}
	if service.IsRunning() {
		t.Error("Expected service not running after rejected request")
	}
}

func TestRunOnceStopsBeforeAssemblyWithOneFrame(t *testing.T) {
	text := &fakeText{}
	images := &fakeImages{}
	assembler := &fakeAssembler{}
	service := newTestService(text, images, assembler)

	req := testRequest()
	req.FrameCount = 1
	_, err := service.runOnce(context.Background(), req, 1)

	var stepErr *StepError
	if !errors.As(err, &stepErr) || stepErr.Step != StepAssemble {
		t.Fatalf("Expected assembly step error, got %v", err)
	}
	if !errors.Is(err, ErrTooFewFrames) {
		t.Errorf("Expected ErrTooFewFrames, got %v", err)
	}
	if assembler.calls != 0 {
		t.Errorf("Expected assembler not to be called, got %d calls", assembler.calls)
	}
	if service.currentRun().Status != model.RunStatusError {
		t.Errorf("Expected run status error, got %s", service.currentRun().Status)
	}
}

func TestRequestDefaults(t *testing.T) {
	req := Request{Prompt: "x"}.normalized()
	if req.FrameCount != DefaultFrameCount {
		t.Errorf("Expected frame count %d, got %d", DefaultFrameCount, req.FrameCount)
	}
	if req.MaxAttempts != DefaultMaxAttempts {
		t.Errorf("Expected max attempts %d, got %d", DefaultMaxAttempts, req.MaxAttempts)
	}
}

func TestRandomSeedRange(t *testing.T) {
	for i := 0; i < 1000; i++ {
		seed := randomSeed()
		if seed < 1 || int64(seed) >= MaxSeed {
			t.Fatalf("Seed %d out of range", seed)
		}
	}
}

func TestErrorTexts(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{&StepError{Step: StepExpand, Err: errors.New("x")}, "prompt expansion failed: x"},
		{&StepError{Step: StepFrame, Index: 4, Err: errors.New("y")}, "frame generation failed at index 4: y"},
		{&FrameError{Index: 7}, "frame generation failed at index 7"},
		{&RetryError{Attempts: 3, Last: errors.New("z")}, "generation failed after 3 attempts: z"},
	}

	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Expected %q, got %q", tt.want, got)
		}
	}
}
