package generation

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/promoforge/videochain-api/internal/chain"
	"github.com/promoforge/videochain-api/internal/planner"
	"github.com/promoforge/videochain-api/internal/provider"
	"github.com/promoforge/videochain-api/internal/publisher"
)

// ClientsByTier maps each provider tier to its priority-ordered client
// list. Fallback order within a scene follows list order exactly.
type ClientsByTier map[provider.Tier][]provider.Client

// Service orchestrates one generation call end to end: plan the scenes,
// execute the chain, publish the final asset, and keep the aggregate
// current for callers polling progress.
type Service struct {
	repo     Repository
	planner  *planner.Planner
	executor *chain.Executor
	pub      *publisher.Publisher
	clients  ClientsByTier
	logger   *slog.Logger

	cancelMu sync.Mutex
	cancels  map[string]context.CancelFunc
}

// NewService creates a Service.
func NewService(
	repo Repository,
	pl *planner.Planner,
	ex *chain.Executor,
	pub *publisher.Publisher,
	clients ClientsByTier,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:     repo,
		planner:  pl,
		executor: ex,
		pub:      pub,
		clients:  clients,
		logger:   logger,
		cancels:  make(map[string]context.CancelFunc),
	}
}

// Create validates the request shape and persists a queued generation.
// Duration and mode errors surface here, before any planning happens.
func (s *Service) Create(ctx context.Context, req Request) (*Generation, error) {
	if req.TargetDurationSec <= 0 {
		return nil, planner.ErrInvalidDuration
	}
	if !req.Mode.IsValid() {
		return nil, fmt.Errorf("%w: %q", planner.ErrInvalidMode, req.Mode)
	}

	gen := New(req)

	s.logger.Info("generation created",
		slog.String("generation_id", gen.ID),
		slog.String("mode", string(req.Mode)),
		slog.Int("target_sec", req.TargetDurationSec),
	)

	if err := s.repo.Save(ctx, gen); err != nil {
		return nil, fmt.Errorf("save generation: %w", err)
	}
	return gen, nil
}

// Get retrieves a generation snapshot by ID.
func (s *Service) Get(ctx context.Context, id string) (*Generation, error) {
	return s.repo.FindByID(ctx, id)
}

// List returns all generation snapshots.
func (s *Service) List(ctx context.Context) ([]*Generation, error) {
	return s.repo.List(ctx)
}

// Cancel aborts a running generation. Returns false when no run is
// registered under the ID.
func (s *Service) Cancel(id string) bool {
	s.cancelMu.Lock()
	defer s.cancelMu.Unlock()
	cancel, ok := s.cancels[id]
	if ok {
		cancel()
	}
	return ok
}

// Generate runs a request end to end and returns the chain result. This is
// the synchronous caller-facing entry point; the HTTP layer uses Create
// plus Run to process in the background.
func (s *Service) Generate(ctx context.Context, req Request) (chain.ChainResult, error) {
	gen, err := s.Create(ctx, req)
	if err != nil {
		return chain.ChainResult{}, err
	}
	return s.Run(ctx, gen.ID)
}

// Run executes a previously created generation. Scene-level and chain-level
// failures are absorbed into the returned ChainResult; an error is returned
// only for pre-planning problems (unknown ID, invalid request, script
// generation failure).
func (s *Service) Run(ctx context.Context, id string) (chain.ChainResult, error) {
	gen, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return chain.ChainResult{}, err
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	s.registerCancel(id, cancel)
	defer s.unregisterCancel(id)

	req := gen.Request

	scenes, err := s.planner.Plan(runCtx, planner.Request{
		Mode:              req.Mode,
		TargetDurationSec: req.TargetDurationSec,
		Prompt:            req.Prompt,
		AutoScript:        req.AutoScript,
		AspectRatio:       req.AspectRatio,
		Language:          req.Language,
	})
	if err != nil {
		_ = gen.Fail(err.Error())
		_ = s.repo.Save(ctx, gen)
		return chain.ChainResult{}, err
	}

	gen.SetPlan(len(scenes))
	if err := gen.Start(); err != nil {
		return chain.ChainResult{}, err
	}
	_ = s.repo.Save(ctx, gen)

	tier := scenes[0].Tier
	clients := s.clients[tier]

	result := s.executor.Run(runCtx, scenes, chain.RunOptions{
		Clients:     clients,
		AspectRatio: req.AspectRatio,
		Language:    req.Language,
		OnProgress: func(ev chain.ProgressEvent) {
			s.logger.Debug("scene progress",
				slog.String("generation_id", id),
				slog.Int("scene", ev.SceneOrdinal),
				slog.String("state", string(ev.State)),
				slog.String("message", ev.Message),
			)
		},
	})

	for _, outcome := range result.PerSceneOutcomes {
		gen.RecordScene(outcome)
	}

	hostedURL := ""
	if req.Publish && result.FinalArtifactRef != "" {
		// Publishing runs on a detached context: a cancelled chain can
		// still host the last good partial artifact.
		hostedURL = s.pub.Publish(context.WithoutCancel(ctx), id, result.FinalArtifactRef)
	}

	gen.SetResult(result, hostedURL)

	switch {
	case result.Cancelled:
		_ = gen.TransitionTo(StatusCancelled)
	case result.Status == chain.ChainCompleted:
		_ = gen.TransitionTo(StatusCompleted)
	default:
		_ = gen.TransitionTo(StatusPartial)
	}
	_ = s.repo.Save(context.WithoutCancel(ctx), gen)

	return result, nil
}

func (s *Service) registerCancel(id string, cancel context.CancelFunc) {
	s.cancelMu.Lock()
	defer s.cancelMu.Unlock()
	s.cancels[id] = cancel
}

func (s *Service) unregisterCancel(id string) {
	s.cancelMu.Lock()
	defer s.cancelMu.Unlock()
	delete(s.cancels, id)
}
