package chain

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/promoforge/videochain-api/internal/planner"
	"github.com/promoforge/videochain-api/internal/provider"
)

// ProgressEvent reports one scene's progress to the caller.
type ProgressEvent struct {
	SceneOrdinal int
	State        JobState
	Message      string
}

// ProgressFunc receives progress events. It is called from the executor's
// goroutine and must not block.
type ProgressFunc func(ProgressEvent)

// RunOptions carries request-scoped parameters into a chain run.
type RunOptions struct {
	// Clients is the provider priority list used for every scene.
	Clients []provider.Client
	// AspectRatio and Language are passed through to every provider call.
	AspectRatio string
	Language    string
	// OnProgress, when set, receives per-scene progress events.
	OnProgress ProgressFunc
}

// Executor runs a scene plan strictly in order. Scene i+1's instruction and
// continuity input depend on scene i's artifact, so there is no intra-chain
// parallelism; independent chains run concurrently with no shared state.
type Executor struct {
	coordinator *Coordinator
	logger      *slog.Logger
}

// NewExecutor creates an Executor.
func NewExecutor(c *Coordinator, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{coordinator: c, logger: logger}
}

// Run executes the scenes and returns the aggregated result. The chain
// short-circuits on the first scene that fails after exhausting fallback:
// extension without the preceding artifact is meaningless. Failures are
// absorbed into a Partial result, never returned as an error.
func (e *Executor) Run(ctx context.Context, scenes []planner.SceneDescriptor, opts RunOptions) ChainResult {
	result := ChainResult{Status: ChainPartial}

	continuityRef := ""

	for _, scene := range scenes {
		e.emit(opts.OnProgress, scene.Ordinal, StateSubmitted,
			fmt.Sprintf("generating scene %d of %d", scene.Ordinal+1, len(scenes)))

		terminal, history := e.coordinator.GenerateScene(ctx, SceneInput{
			Ordinal:       scene.Ordinal,
			Instruction:   scene.Instruction,
			DurationSec:   scene.DurationSec(),
			ContinuityRef: continuityRef,
			AspectRatio:   opts.AspectRatio,
			Language:      opts.Language,
		}, opts.Clients)

		result.PerSceneOutcomes = append(result.PerSceneOutcomes, terminal)
		result.AttemptHistory = append(result.AttemptHistory, history...)

		if terminal.State == StateCompleted {
			result.ScenesCompleted++
			result.TotalDurationSec += scene.DurationSec()
			result.FinalArtifactRef = terminal.ArtifactRef
			continuityRef = terminal.ArtifactRef
			e.emit(opts.OnProgress, scene.Ordinal, StateCompleted,
				fmt.Sprintf("scene %d completed", scene.Ordinal+1))
			continue
		}

		result.ScenesFailed++
		if terminal.State == StateCancelled {
			result.Cancelled = true
		}
		e.emit(opts.OnProgress, scene.Ordinal, terminal.State,
			fmt.Sprintf("scene %d %s: %s", scene.Ordinal+1, terminal.State, terminal.Error))
		e.logger.Warn("chain short-circuited",
			slog.Int("scene", scene.Ordinal),
			slog.String("state", string(terminal.State)),
			slog.Int("scenes_completed", result.ScenesCompleted),
		)
		break
	}

	// An empty plan never counts as completed: COMPLETED implies a final
	// artifact exists.
	if len(scenes) > 0 && result.ScenesCompleted == len(scenes) {
		result.Status = ChainCompleted
	}

	e.logger.Info("chain finished",
		slog.String("status", string(result.Status)),
		slog.Int("scenes_completed", result.ScenesCompleted),
		slog.Int("scenes_failed", result.ScenesFailed),
		slog.Int("total_duration_sec", result.TotalDurationSec),
	)

	return result
}

func (e *Executor) emit(fn ProgressFunc, ordinal int, state JobState, msg string) {
	if fn != nil {
		fn(ProgressEvent{SceneOrdinal: ordinal, State: state, Message: msg})
	}
}
