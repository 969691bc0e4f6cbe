package provider

import (
	"context"
	"fmt"

	"github.com/promoforge/videochain-api/internal/luma"
)

// LumaAdapter adapts the Luma client to the provider Client interface.
// Luma serves the short-form tier only and supports continuing a clip from
// a previously generated artifact URL.
type LumaAdapter struct {
	client luma.Client
}

// NewLumaShortForm creates a Luma adapter for the short-form tier.
func NewLumaShortForm(client luma.Client) *LumaAdapter {
	return &LumaAdapter{client: client}
}

// Name returns the provider identifier.
func (a *LumaAdapter) Name() string { return "luma" }

// Tier returns the capability tier this adapter serves.
func (a *LumaAdapter) Tier() Tier { return TierShortForm }

// Submit starts a Luma generation. Submission failures wrap ErrRejected.
func (a *LumaAdapter) Submit(ctx context.Context, req SubmitRequest) (string, error) {
	generationID, err := a.client.Submit(ctx, luma.SubmitOptions{
		Prompt:       req.Instruction,
		ContinueFrom: req.ContinuityRef,
		AspectRatio:  req.AspectRatio,
		DurationSec:  req.DurationSec,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrRejected, err)
	}
	return generationID, nil
}

// Status checks a Luma generation and maps its state to the common status.
func (a *LumaAdapter) Status(ctx context.Context, jobID string) (StatusResult, error) {
	result, err := a.client.Generation(ctx, jobID)
	if err != nil {
		return StatusResult{}, fmt.Errorf("%w: %s", ErrUnavailable, err)
	}

	switch result.State {
	case luma.StateCompleted:
		return StatusResult{Status: StatusCompleted, ArtifactRef: result.VideoURL}, nil
	case luma.StateFailed:
		return StatusResult{Status: StatusFailed, Error: result.FailureReason}, nil
	default:
		return StatusResult{Status: StatusPending}, nil
	}
}

// Compile-time check that LumaAdapter implements Client.
var _ Client = (*LumaAdapter)(nil)
