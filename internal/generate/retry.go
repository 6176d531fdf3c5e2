package generate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ytget/magic-animator/internal/model"
)

// Generate runs the whole pipeline up to MaxAttempts times and stops at the first success.
// Every attempt starts from scratch with a new expansion and a new seed.
func (s *Service) Generate(ctx context.Context, req Request) (*model.Artifact, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, ErrEmptyPrompt
	}
	if req.FrameCount > 0 && req.FrameCount < MinFrames {
		return nil, ErrTooFewFrames
	}
	if !s.running.CompareAndSwap(false, true) {
		return nil, ErrRunInProgress
	}
	defer s.running.Store(false)

	req = req.normalized()

	var lastErr error
	for attempt := 1; attempt <= req.MaxAttempts; attempt++ {
		if attempt > 1 {
			s.notifyStatus(fmt.Sprintf(StatusRetrying, attempt-1, attempt, req.MaxAttempts))
			select {
			case <-time.After(s.retryDelay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			s.logger.Info("retrying generation", "attempt", attempt, "max", req.MaxAttempts)
		}

		artifact, err := s.runOnce(ctx, req, attempt)
		if err == nil {
			s.notifyStatus(StatusDone)
			return artifact, nil
		}

		lastErr = err
		if ctx.Err() != nil || errors.Is(err, context.Canceled) {
			return nil, err
		}
	}

	s.logger.Error("generation failed", "attempts", req.MaxAttempts, "error", lastErr)
	return nil, &RetryError{Attempts: req.MaxAttempts, Last: lastErr}
}
