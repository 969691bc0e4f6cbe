// Package provider defines the common interface for video synthesis providers.
// Each vendor client (Runway, Luma, HeyGen) is adapted to this interface so
// the polling, fallback, and chaining layers stay vendor-agnostic.
package provider

import (
	"context"
	"errors"
)

// Tier identifies a provider capability category. Tiers differ in clip-length
// semantics: the short-form tier produces fixed-length clips that can be
// extended from a previous artifact, the extended tier synthesizes the full
// duration in one job, and the avatar tier renders a presenter speaking a
// script.
type Tier string

const (
	TierShortForm Tier = "short_form"
	TierExtended  Tier = "extended"
	TierAvatar    Tier = "avatar"
)

// Status represents the status of a generation job as seen by a provider.
type Status string

const (
	// StatusPending indicates the job is queued or still rendering.
	StatusPending Status = "PENDING"
	// StatusCompleted indicates the job finished and an artifact is available.
	StatusCompleted Status = "COMPLETED"
	// StatusFailed indicates the job failed on the provider side.
	StatusFailed Status = "FAILED"
)

// IsTerminal returns true if the status represents a final state.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Error classification shared by all adapters. Callers use errors.Is to
// decide between fallback and retry.
var (
	// ErrRejected means the provider refused the submission (bad input,
	// quota). Submissions are never retried against the same provider; the
	// fallback coordinator moves to the next one.
	ErrRejected = errors.New("provider: submission rejected")
	// ErrUnavailable means a transport-level failure while checking status.
	// The poller treats it as transient and keeps polling within its
	// attempt budget.
	ErrUnavailable = errors.New("provider: unavailable")
)

// SubmitRequest carries everything a provider needs to start one clip job.
type SubmitRequest struct {
	// Instruction is the full generation instruction text for this scene.
	Instruction string
	// ContinuityRef is the artifact reference of the preceding scene. It is
	// empty for base scenes and for the extended tier; when set, the
	// provider must use its native extend-from-clip capability.
	ContinuityRef string
	// DurationSec is the declared clip length in seconds.
	DurationSec int
	// AspectRatio is the target frame ratio, e.g. "16:9" or "9:16".
	AspectRatio string
	// Language is a BCP-47-ish language hint, used by the avatar tier for
	// voice selection.
	Language string
}

// StatusResult is the normalized outcome of one status check.
type StatusResult struct {
	Status Status
	// ArtifactRef is set when Status is StatusCompleted. It is an opaque
	// provider-native handle, typically a download URL.
	ArtifactRef string
	// Error is the provider's failure message when Status is StatusFailed.
	Error string
}

// Client is the uniform contract every provider adapter implements.
// Submit consumes one unit of remote quota per call; clients keep no state
// between calls beyond their credentials.
type Client interface {
	// Name returns a stable identifier used in logs and attempt records.
	Name() string

	// Tier returns the capability tier this client serves.
	Tier() Tier

	// Submit starts a generation job and returns the provider's job ID.
	// A refused submission wraps ErrRejected.
	Submit(ctx context.Context, req SubmitRequest) (jobID string, err error)

	// Status checks a submitted job. Transport failures wrap ErrUnavailable;
	// a provider-side job failure is reported via StatusResult, not an error.
	Status(ctx context.Context, jobID string) (StatusResult, error)
}
