// Package luma provides an HTTP client for the Luma Dream Machine video API.
// It is the secondary short-form vendor; like Runway it can continue a clip
// from a previously generated artifact.
package luma

// State represents the state of a Luma generation.
type State string

// Generation states as reported by the Luma API.
const (
	StateQueued    State = "queued"
	StateDreaming  State = "dreaming"
	StateCompleted State = "completed"
	StateFailed    State = "failed"
)

// IsTerminal returns true if the state is a terminal state.
func (s State) IsTerminal() bool {
	return s == StateCompleted || s == StateFailed
}

// SubmitOptions contains parameters for submitting a generation.
type SubmitOptions struct {
	// Prompt is the full generation instruction.
	Prompt string
	// ContinueFrom is the URL of a previously generated clip to extend.
	ContinueFrom string
	// AspectRatio is the output frame ratio, e.g. "16:9".
	AspectRatio string
	// DurationSec is the requested clip length in seconds.
	DurationSec int
}

// generationRequest is the request body for POST /v1/dream.
type generationRequest struct {
	Prompt       string `json:"prompt"`
	ContinueFrom string `json:"continue_from,omitempty"`
	AspectRatio  string `json:"aspect_ratio,omitempty"`
	Duration     string `json:"duration,omitempty"` // e.g. "7s"
}

// generationResponse is the response body from the dream endpoints.
type generationResponse struct {
	ID            string          `json:"id"`
	State         string          `json:"state"`
	Video         *generationclip `json:"video,omitempty"`
	FailureReason string          `json:"failure_reason,omitempty"`
}

type generationclip struct {
	URL string `json:"url"`
}

// Result contains the normalized result of checking a generation.
type Result struct {
	State State
	// VideoURL is the artifact download URL (only set when State is StateCompleted).
	VideoURL string
	// FailureReason is the failure message (only set when State is StateFailed).
	FailureReason string
}
