package provider

import (
	"context"
	"fmt"

	"github.com/promoforge/videochain-api/internal/runway"
)

// RunwayAdapter adapts the Runway client to the provider Client interface.
// One adapter instance serves either the short-form tier or the extended
// tier; the extended tier routes to Runway's long-form endpoint and never
// carries a continuity reference.
type RunwayAdapter struct {
	client   runway.Client
	extended bool
}

// NewRunwayShortForm creates a Runway adapter for the short-form tier.
func NewRunwayShortForm(client runway.Client) *RunwayAdapter {
	return &RunwayAdapter{client: client}
}

// NewRunwayExtended creates a Runway adapter for the extended-duration tier.
func NewRunwayExtended(client runway.Client) *RunwayAdapter {
	return &RunwayAdapter{client: client, extended: true}
}

// Name returns the provider identifier.
func (a *RunwayAdapter) Name() string {
	if a.extended {
		return "runway-longform"
	}
	return "runway"
}

// Tier returns the capability tier this adapter serves.
func (a *RunwayAdapter) Tier() Tier {
	if a.extended {
		return TierExtended
	}
	return TierShortForm
}

// Submit starts a Runway generation task. Submission failures wrap
// ErrRejected so the fallback coordinator moves to the next provider.
func (a *RunwayAdapter) Submit(ctx context.Context, req SubmitRequest) (string, error) {
	taskID, err := a.client.Submit(ctx, runway.SubmitOptions{
		PromptText:  req.Instruction,
		ExtendFrom:  req.ContinuityRef,
		DurationSec: req.DurationSec,
		Ratio:       req.AspectRatio,
		LongForm:    a.extended,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrRejected, err)
	}
	return taskID, nil
}

// Status checks a Runway task and maps its state to the common status.
func (a *RunwayAdapter) Status(ctx context.Context, jobID string) (StatusResult, error) {
	result, err := a.client.Task(ctx, jobID)
	if err != nil {
		return StatusResult{}, fmt.Errorf("%w: %s", ErrUnavailable, err)
	}

	switch result.State {
	case runway.StateSucceeded:
		return StatusResult{Status: StatusCompleted, ArtifactRef: result.OutputURL}, nil
	case runway.StateFailed, runway.StateCancelled:
		msg := result.Error
		if msg == "" {
			msg = string(result.State)
		}
		return StatusResult{Status: StatusFailed, Error: msg}, nil
	default:
		return StatusResult{Status: StatusPending}, nil
	}
}

// Compile-time check that RunwayAdapter implements Client.
var _ Client = (*RunwayAdapter)(nil)
