// Package generation provides the Generation aggregate for tracking one
// long-form video request from submission to its final asset, along with
// repository ports and the orchestration service.
package generation

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/promoforge/videochain-api/internal/chain"
	"github.com/promoforge/videochain-api/internal/planner"
)

// Status represents the current state of a Generation.
type Status string

const (
	// StatusQueued indicates the generation is waiting to start.
	StatusQueued Status = "QUEUED"
	// StatusRunning indicates the chain is executing.
	StatusRunning Status = "RUNNING"
	// StatusCompleted indicates every planned scene produced an artifact.
	StatusCompleted Status = "COMPLETED"
	// StatusPartial indicates the chain stopped early; a usable partial
	// asset may still exist.
	StatusPartial Status = "PARTIAL"
	// StatusFailed indicates the generation failed before any scene ran.
	StatusFailed Status = "FAILED"
	// StatusCancelled indicates the caller aborted the generation.
	StatusCancelled Status = "CANCELLED"
)

// IsTerminal returns true if the status is a terminal state.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusPartial, StatusFailed, StatusCancelled:
		return true
	default:
		return false
	}
}

// ErrInvalidTransition is returned when an invalid state transition is attempted.
var ErrInvalidTransition = errors.New("generation: invalid state transition")

// validTransitions defines which state transitions are allowed.
var validTransitions = map[Status][]Status{
	StatusQueued:    {StatusRunning, StatusFailed, StatusCancelled},
	StatusRunning:   {StatusCompleted, StatusPartial, StatusFailed, StatusCancelled},
	StatusCompleted: {},
	StatusPartial:   {},
	StatusFailed:    {},
	StatusCancelled: {},
}

func canTransition(from, to Status) bool {
	for _, s := range validTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Request is the caller's generation request, owned by the entry point for
// the lifetime of one generation call.
type Request struct {
	// Mode selects faceless or avatar generation.
	Mode planner.Mode
	// TargetDurationSec is the requested total video length.
	TargetDurationSec int
	// Prompt is the base prompt, spoken script, or topic brief.
	Prompt string
	// AutoScript expands the prompt into a spoken script for avatar mode.
	AutoScript bool
	// AspectRatio is the target frame ratio.
	AspectRatio string
	// Language is the script/voice language hint.
	Language string
	// Publish uploads the final artifact to the hosting backend.
	Publish bool
}

// Generation is the aggregate tracking one video generation call.
type Generation struct {
	mu sync.RWMutex

	// ID is the unique identifier for this generation.
	ID string
	// Request is a snapshot of the caller's request.
	Request Request
	// Status is the current state.
	Status Status
	// ScenesPlanned is the number of scenes in the plan, 0 until planned.
	ScenesPlanned int
	// Scenes holds the terminal ClipJob snapshot per attempted scene,
	// ordered by scene ordinal.
	Scenes []chain.ClipJob
	// Progress is the percentage of planned scenes completed (0-100).
	Progress int
	// Error is set when the generation failed before the chain ran.
	Error string
	// TotalDurationSec is the summed length of completed scenes.
	TotalDurationSec int
	// FinalArtifactRef is the provider-native handle of the final asset.
	FinalArtifactRef string
	// HostedURL is the durable URL after publishing, empty if unpublished.
	HostedURL string
	// CreatedAt is when the generation was created.
	CreatedAt time.Time
	// UpdatedAt is when the generation was last updated.
	UpdatedAt time.Time
	// StartedAt is when the chain started executing.
	StartedAt time.Time
	// CompletedAt is when the generation reached a terminal state.
	CompletedAt time.Time
}

// New creates a Generation in StatusQueued with a generated ID.
func New(req Request) *Generation {
	now := time.Now()
	return &Generation{
		ID:        uuid.NewString(),
		Request:   req,
		Status:    StatusQueued,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// TransitionTo attempts to change the status.
// Returns ErrInvalidTransition if the transition is not allowed.
func (g *Generation) TransitionTo(status Status) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !canTransition(g.Status, status) {
		return ErrInvalidTransition
	}

	g.Status = status
	g.UpdatedAt = time.Now()

	switch status {
	case StatusRunning:
		g.StartedAt = g.UpdatedAt
	case StatusCompleted, StatusPartial, StatusFailed, StatusCancelled:
		g.CompletedAt = g.UpdatedAt
	}

	return nil
}

// Start transitions the generation from QUEUED to RUNNING.
func (g *Generation) Start() error {
	return g.TransitionTo(StatusRunning)
}

// Fail transitions the generation to FAILED with an error message.
func (g *Generation) Fail(errMsg string) error {
	g.mu.Lock()
	g.Error = errMsg
	g.mu.Unlock()
	return g.TransitionTo(StatusFailed)
}

// GetStatus returns the current status (thread-safe).
func (g *Generation) GetStatus() Status {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.Status
}

// SetPlan records the plan size once scenes are known.
func (g *Generation) SetPlan(scenes int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.ScenesPlanned = scenes
	g.UpdatedAt = time.Now()
}

// RecordScene appends or replaces the terminal snapshot for a scene and
// refreshes progress.
func (g *Generation) RecordScene(job chain.ClipJob) {
	g.mu.Lock()
	defer g.mu.Unlock()

	replaced := false
	for i := range g.Scenes {
		if g.Scenes[i].SceneOrdinal == job.SceneOrdinal {
			g.Scenes[i] = job
			replaced = true
			break
		}
	}
	if !replaced {
		g.Scenes = append(g.Scenes, job)
	}

	if g.ScenesPlanned > 0 {
		completed := 0
		for _, s := range g.Scenes {
			if s.State == chain.StateCompleted {
				completed++
			}
		}
		g.Progress = completed * 100 / g.ScenesPlanned
	}
	g.UpdatedAt = time.Now()
}

// SetResult records the chain outcome and the hosted URL, if any.
func (g *Generation) SetResult(result chain.ChainResult, hostedURL string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Scenes = append([]chain.ClipJob(nil), result.PerSceneOutcomes...)
	g.TotalDurationSec = result.TotalDurationSec
	g.FinalArtifactRef = result.FinalArtifactRef
	g.HostedURL = hostedURL
	if g.ScenesPlanned > 0 {
		g.Progress = result.ScenesCompleted * 100 / g.ScenesPlanned
	}
	g.UpdatedAt = time.Now()
}

// IsTerminal returns true if the generation is in a terminal state.
func (g *Generation) IsTerminal() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.Status.IsTerminal()
}

// Clone creates a deep copy of the generation for safe reads.
func (g *Generation) Clone() *Generation {
	g.mu.RLock()
	defer g.mu.RUnlock()

	scenes := make([]chain.ClipJob, len(g.Scenes))
	copy(scenes, g.Scenes)

	return &Generation{
		ID:               g.ID,
		Request:          g.Request,
		Status:           g.Status,
		ScenesPlanned:    g.ScenesPlanned,
		Scenes:           scenes,
		Progress:         g.Progress,
		Error:            g.Error,
		TotalDurationSec: g.TotalDurationSec,
		FinalArtifactRef: g.FinalArtifactRef,
		HostedURL:        g.HostedURL,
		CreatedAt:        g.CreatedAt,
		UpdatedAt:        g.UpdatedAt,
		StartedAt:        g.StartedAt,
		CompletedAt:      g.CompletedAt,
	}
}
