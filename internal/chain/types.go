// Package chain executes a scene plan as a sequence of dependent provider
// jobs. The fallback coordinator tries providers in priority order for one
// scene; the executor runs scenes strictly in order, feeding each scene's
// artifact into the next as its continuity input.
package chain

import "strings"

// JobState is the lifecycle state of one clip job.
type JobState string

const (
	StateQueued    JobState = "QUEUED"
	StateSubmitted JobState = "SUBMITTED"
	StatePolling   JobState = "POLLING"
	StateCompleted JobState = "COMPLETED"
	StateFailed    JobState = "FAILED"
	StateTimedOut  JobState = "TIMED_OUT"
	StateCancelled JobState = "CANCELLED"
)

// IsTerminal returns true if the state is a terminal state.
func (s JobState) IsTerminal() bool {
	switch s {
	case StateCompleted, StateFailed, StateTimedOut, StateCancelled:
		return true
	default:
		return false
	}
}

// ClipJob records one generation attempt for one scene. A fresh ClipJob is
// created for every provider tried; superseded attempts are kept in the
// chain history for diagnostics and never reused.
type ClipJob struct {
	// SceneOrdinal is the scene this job belongs to.
	SceneOrdinal int
	// Provider is the provider that ran this attempt. Empty on the
	// aggregate failure record produced when every provider was exhausted.
	Provider string
	// ProvidersAttempted lists, in order, every provider tried for the
	// scene up to and including this attempt.
	ProvidersAttempted []string
	// State is the job's current lifecycle state.
	State JobState
	// ProviderJobID is the provider-native job handle.
	ProviderJobID string
	// ArtifactRef is the provider-native artifact handle, set on completion.
	ArtifactRef string
	// Error is the failure or timeout message, if any.
	Error string
	// DurationSec is the scene's declared clip length.
	DurationSec int
	// PollAttempts is how many status checks the poller performed.
	PollAttempts int
}

// ChainStatus is the terminal status of a whole chain.
type ChainStatus string

const (
	// ChainCompleted means every planned scene produced an artifact.
	ChainCompleted ChainStatus = "COMPLETED"
	// ChainPartial means the chain stopped early; the result carries the
	// last good artifact, if any.
	ChainPartial ChainStatus = "PARTIAL"
)

// ChainResult aggregates the outcome of one executed chain. It is built
// incrementally by the executor and immutable once returned.
type ChainResult struct {
	Status          ChainStatus
	ScenesCompleted int
	ScenesFailed    int
	// TotalDurationSec is the sum of completed scenes' declared lengths.
	TotalDurationSec int
	// FinalArtifactRef is the last successfully completed scene's artifact,
	// empty when not even the base scene completed.
	FinalArtifactRef string
	// PerSceneOutcomes holds the terminal ClipJob snapshot for each scene
	// that was attempted, ordered by scene ordinal.
	PerSceneOutcomes []ClipJob
	// AttemptHistory holds every ClipJob created during the chain,
	// including attempts superseded by fallback. Diagnostics only.
	AttemptHistory []ClipJob
	// Cancelled is true when the chain stopped because the caller's
	// context was cancelled.
	Cancelled bool
}

// aggregateErrors joins per-provider failure messages into one record.
func aggregateErrors(attempts []ClipJob) string {
	parts := make([]string, 0, len(attempts))
	for _, a := range attempts {
		msg := a.Error
		if msg == "" {
			msg = string(a.State)
		}
		parts = append(parts, a.Provider+": "+msg)
	}
	return strings.Join(parts, "; ")
}
