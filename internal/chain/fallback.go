package chain

import (
	"context"
	"errors"
	"log/slog"

	"github.com/promoforge/videochain-api/internal/poller"
	"github.com/promoforge/videochain-api/internal/provider"
)

// ErrNoProviders is returned when a scene is executed with an empty
// priority list.
var ErrNoProviders = errors.New("chain: no providers configured for scene")

// BudgetFor resolves the poll budget for a provider tier.
type BudgetFor func(tier provider.Tier) poller.Budget

// SceneInput carries one scene's generation parameters into the
// coordinator. ContinuityRef is empty for base scenes.
type SceneInput struct {
	Ordinal       int
	Instruction   string
	DurationSec   int
	ContinuityRef string
	AspectRatio   string
	Language      string
}

// Coordinator generates one scene by trying providers in priority order
// until one succeeds or all fail. Providers are never tried in parallel:
// racing them would burn quota and leave the continuity input ambiguous.
type Coordinator struct {
	poller  *poller.Poller
	budgets BudgetFor
	logger  *slog.Logger
}

// NewCoordinator creates a Coordinator.
func NewCoordinator(p *poller.Poller, budgets BudgetFor, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{poller: p, budgets: budgets, logger: logger}
}

// GenerateScene tries each client in order. A completed job returns
// immediately; rejection, failure, and timeout advance to the next
// provider; cancellation stops without trying further providers. When every
// provider has failed, the returned job is in StateFailed with an error
// aggregating all attempts. The second return value is the full attempt
// history including the returned job.
func (c *Coordinator) GenerateScene(ctx context.Context, scene SceneInput, clients []provider.Client) (ClipJob, []ClipJob) {
	if len(clients) == 0 {
		job := ClipJob{
			SceneOrdinal: scene.Ordinal,
			State:        StateFailed,
			Error:        ErrNoProviders.Error(),
			DurationSec:  scene.DurationSec,
		}
		return job, []ClipJob{job}
	}

	var (
		attempted []string
		history   []ClipJob
	)

	for _, client := range clients {
		attempted = append(attempted, client.Name())

		job := ClipJob{
			SceneOrdinal:       scene.Ordinal,
			Provider:           client.Name(),
			ProvidersAttempted: append([]string(nil), attempted...),
			State:              StateQueued,
			DurationSec:        scene.DurationSec,
		}

		if ctx.Err() != nil {
			job.State = StateCancelled
			job.Error = ctx.Err().Error()
			history = append(history, job)
			return job, history
		}

		jobID, err := client.Submit(ctx, provider.SubmitRequest{
			Instruction:   scene.Instruction,
			ContinuityRef: scene.ContinuityRef,
			DurationSec:   scene.DurationSec,
			AspectRatio:   scene.AspectRatio,
			Language:      scene.Language,
		})
		if err != nil {
			job.State = StateFailed
			job.Error = err.Error()
			history = append(history, job)
			c.logger.Warn("provider rejected scene, falling back",
				slog.Int("scene", scene.Ordinal),
				slog.String("provider", client.Name()),
				slog.String("error", err.Error()),
			)
			continue
		}

		job.ProviderJobID = jobID
		job.State = StatePolling
		c.logger.Info("scene submitted",
			slog.Int("scene", scene.Ordinal),
			slog.String("provider", client.Name()),
			slog.String("provider_job_id", jobID),
		)

		outcome, err := c.poller.Await(ctx, client, jobID, c.budgets(client.Tier()))
		if err != nil {
			job.State = StateFailed
			job.Error = err.Error()
			history = append(history, job)
			continue
		}

		job.PollAttempts = outcome.Attempts
		job.Error = outcome.Error

		switch outcome.State {
		case poller.StateCompleted:
			job.State = StateCompleted
			job.ArtifactRef = outcome.ArtifactRef
			history = append(history, job)
			return job, history
		case poller.StateCancelled:
			job.State = StateCancelled
			history = append(history, job)
			return job, history
		case poller.StateTimedOut:
			// Timed out remotely: treated like a failure for fallback
			// purposes but recorded distinctly.
			job.State = StateTimedOut
			history = append(history, job)
			c.logger.Warn("scene timed out, falling back",
				slog.Int("scene", scene.Ordinal),
				slog.String("provider", client.Name()),
			)
		default:
			job.State = StateFailed
			history = append(history, job)
			c.logger.Warn("scene failed, falling back",
				slog.Int("scene", scene.Ordinal),
				slog.String("provider", client.Name()),
				slog.String("error", outcome.Error),
			)
		}
	}

	failed := ClipJob{
		SceneOrdinal:       scene.Ordinal,
		ProvidersAttempted: attempted,
		State:              StateFailed,
		Error:              aggregateErrors(history),
		DurationSec:        scene.DurationSec,
	}
	history = append(history, failed)
	return failed, history
}
