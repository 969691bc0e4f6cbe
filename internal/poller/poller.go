// Package poller drives a submitted provider job to a terminal state by
// bounded-interval status checks. It is the only place in the pipeline that
// blocks, and the wait loop is cancellable through the caller's context.
package poller

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/promoforge/videochain-api/internal/provider"
)

// State is the terminal state of one polled job.
type State string

const (
	// StateCompleted indicates the provider finished and produced an artifact.
	StateCompleted State = "COMPLETED"
	// StateFailed indicates the provider reported a terminal failure.
	StateFailed State = "FAILED"
	// StateTimedOut indicates the attempt budget ran out before a terminal
	// provider state was observed. Reported distinctly from StateFailed so
	// callers can treat the remote job as still in flight.
	StateTimedOut State = "TIMED_OUT"
	// StateCancelled indicates the caller's context was cancelled mid-poll.
	StateCancelled State = "CANCELLED"
)

// Outcome is the result of awaiting one provider job.
type Outcome struct {
	State State
	// ArtifactRef is set when State is StateCompleted.
	ArtifactRef string
	// Error carries the provider failure message or the last transient
	// error observed before timing out.
	Error string
	// Attempts is the number of status checks performed.
	Attempts int
}

// Budget bounds one poll loop. Budgets differ per provider tier and come
// from configuration.
type Budget struct {
	Interval    time.Duration
	MaxAttempts int
}

// ErrInvalidBudget is returned when the budget has a non-positive interval
// or attempt count.
var ErrInvalidBudget = errors.New("poller: interval and max attempts must be positive")

// Poller awaits provider jobs.
type Poller struct {
	logger *slog.Logger
}

// New creates a Poller.
func New(logger *slog.Logger) *Poller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Poller{logger: logger}
}

// Await polls the job until it reaches a terminal provider state, the
// attempt budget is exhausted, or ctx is cancelled. Each iteration sleeps
// Budget.Interval and then checks status once. A transient provider error
// (provider.ErrUnavailable) consumes an attempt but does not fail the job.
func (p *Poller) Await(ctx context.Context, client provider.Client, jobID string, budget Budget) (Outcome, error) {
	if budget.Interval <= 0 || budget.MaxAttempts <= 0 {
		return Outcome{}, ErrInvalidBudget
	}

	var lastErr string

	for attempt := 1; attempt <= budget.MaxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			p.logger.Info("poll cancelled",
				slog.String("provider", client.Name()),
				slog.String("job_id", jobID),
				slog.Int("attempt", attempt),
			)
			return Outcome{State: StateCancelled, Error: ctx.Err().Error(), Attempts: attempt - 1}, nil
		case <-time.After(budget.Interval):
		}

		result, err := client.Status(ctx, jobID)
		if err != nil {
			// Transient transport failure: keep polling within the budget.
			lastErr = err.Error()
			p.logger.Warn("transient poll failure",
				slog.String("provider", client.Name()),
				slog.String("job_id", jobID),
				slog.Int("attempt", attempt),
				slog.String("error", err.Error()),
			)
			continue
		}

		switch result.Status {
		case provider.StatusCompleted:
			p.logger.Info("job completed",
				slog.String("provider", client.Name()),
				slog.String("job_id", jobID),
				slog.Int("attempts", attempt),
			)
			return Outcome{State: StateCompleted, ArtifactRef: result.ArtifactRef, Attempts: attempt}, nil
		case provider.StatusFailed:
			p.logger.Warn("job failed",
				slog.String("provider", client.Name()),
				slog.String("job_id", jobID),
				slog.String("error", result.Error),
			)
			return Outcome{State: StateFailed, Error: result.Error, Attempts: attempt}, nil
		}
	}

	p.logger.Warn("poll budget exhausted",
		slog.String("provider", client.Name()),
		slog.String("job_id", jobID),
		slog.Int("max_attempts", budget.MaxAttempts),
	)
	return Outcome{State: StateTimedOut, Error: lastErr, Attempts: budget.MaxAttempts}, nil
}
