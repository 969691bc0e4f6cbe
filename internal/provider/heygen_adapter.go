package provider

import (
	"context"
	"fmt"

	"github.com/promoforge/videochain-api/internal/heygen"
)

// HeyGenAdapter adapts the HeyGen client to the provider Client interface.
// Avatar jobs speak the scene instruction as a script; the clip length is
// driven by the script, so DurationSec is advisory only.
type HeyGenAdapter struct {
	client   heygen.Client
	avatarID string
}

// NewHeyGenAvatar creates a HeyGen adapter for the avatar tier.
// avatarID selects the presenter; empty uses the account default.
func NewHeyGenAvatar(client heygen.Client, avatarID string) *HeyGenAdapter {
	return &HeyGenAdapter{client: client, avatarID: avatarID}
}

// Name returns the provider identifier.
func (a *HeyGenAdapter) Name() string { return "heygen" }

// Tier returns the capability tier this adapter serves.
func (a *HeyGenAdapter) Tier() Tier { return TierAvatar }

// Submit starts a HeyGen avatar video job. Submission failures wrap ErrRejected.
func (a *HeyGenAdapter) Submit(ctx context.Context, req SubmitRequest) (string, error) {
	videoID, err := a.client.Submit(ctx, heygen.SubmitOptions{
		Script:       req.Instruction,
		AvatarID:     a.avatarID,
		Language:     req.Language,
		AspectRatio:  req.AspectRatio,
		ContinueFrom: req.ContinuityRef,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrRejected, err)
	}
	return videoID, nil
}

// Status checks a HeyGen video job and maps its status to the common status.
func (a *HeyGenAdapter) Status(ctx context.Context, jobID string) (StatusResult, error) {
	result, err := a.client.Video(ctx, jobID)
	if err != nil {
		return StatusResult{}, fmt.Errorf("%w: %s", ErrUnavailable, err)
	}

	switch result.Status {
	case heygen.StatusCompleted:
		return StatusResult{Status: StatusCompleted, ArtifactRef: result.VideoURL}, nil
	case heygen.StatusFailed:
		return StatusResult{Status: StatusFailed, Error: result.Error}, nil
	default:
		return StatusResult{Status: StatusPending}, nil
	}
}

// Compile-time check that HeyGenAdapter implements Client.
var _ Client = (*HeyGenAdapter)(nil)
