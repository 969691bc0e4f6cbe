// Package bootstrap provides dependency initialization for the videochain API.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/promoforge/videochain-api/internal/chain"
	"github.com/promoforge/videochain-api/internal/config"
	"github.com/promoforge/videochain-api/internal/generation"
	"github.com/promoforge/videochain-api/internal/heygen"
	"github.com/promoforge/videochain-api/internal/luma"
	"github.com/promoforge/videochain-api/internal/planner"
	"github.com/promoforge/videochain-api/internal/poller"
	"github.com/promoforge/videochain-api/internal/provider"
	"github.com/promoforge/videochain-api/internal/publisher"
	"github.com/promoforge/videochain-api/internal/runway"
	"github.com/promoforge/videochain-api/internal/scriptgen"
	"github.com/promoforge/videochain-api/internal/storage"
)

// Dependencies holds all initialized dependencies for the HTTP server.
type Dependencies struct {
	GenerationService *generation.Service
}

// NewDependencies creates and initializes all dependencies for the application.
func NewDependencies(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	store, err := initStorage(cfg, logger)
	if err != nil {
		return nil, err
	}

	clients, err := initClients(cfg, logger)
	if err != nil {
		return nil, err
	}

	scripts := initScriptGen(ctx, cfg, logger)

	p := poller.New(logger)
	budgets := func(tier provider.Tier) poller.Budget {
		switch tier {
		case provider.TierAvatar:
			return cfg.AvatarBudget()
		case provider.TierExtended:
			return cfg.ExtendedBudget()
		default:
			return cfg.ShortFormBudget()
		}
	}

	coordinator := chain.NewCoordinator(p, budgets, logger)
	executor := chain.NewExecutor(coordinator, logger)
	pl := planner.New(scripts, logger)
	pub := publisher.New(store, logger)
	repo := generation.NewMemoryRepository()

	svc := generation.NewService(repo, pl, executor, pub, clients, logger)

	return &Dependencies{GenerationService: svc}, nil
}

// initClients builds the per-tier provider priority lists. Runway leads the
// short-form list; Luma joins it as fallback when its key is configured.
func initClients(cfg *config.Config, logger *slog.Logger) (generation.ClientsByTier, error) {
	runwayClient, err := runway.NewClient(runway.WithAPIKey(cfg.RunwayAPIKey))
	if err != nil {
		return nil, fmt.Errorf("create Runway client: %w", err)
	}

	clients := generation.ClientsByTier{
		provider.TierShortForm: {provider.NewRunwayShortForm(runwayClient)},
		provider.TierExtended:  {provider.NewRunwayExtended(runwayClient)},
	}

	if cfg.LumaAPIKey != "" {
		lumaClient, err := luma.NewClient(luma.WithAPIKey(cfg.LumaAPIKey))
		if err != nil {
			return nil, fmt.Errorf("create Luma client: %w", err)
		}
		clients[provider.TierShortForm] = append(
			clients[provider.TierShortForm],
			provider.NewLumaShortForm(lumaClient),
		)
		logger.Info("luma configured as short-form fallback")
	}

	if cfg.HeyGenAPIKey != "" {
		heygenClient, err := heygen.NewClient(heygen.WithAPIKey(cfg.HeyGenAPIKey))
		if err != nil {
			return nil, fmt.Errorf("create HeyGen client: %w", err)
		}
		clients[provider.TierAvatar] = []provider.Client{
			provider.NewHeyGenAvatar(heygenClient, cfg.DefaultAvatarID),
		}
		logger.Info("heygen configured for avatar tier")
	}

	return clients, nil
}

// initScriptGen builds the script generation chain from the configured
// keys. Returns nil when no backend is configured; avatar auto-scripting
// is then rejected at planning time.
func initScriptGen(ctx context.Context, cfg *config.Config, logger *slog.Logger) scriptgen.Generator {
	var (
		backends []scriptgen.Generator
		names    []string
	)

	if cfg.GeminiAPIKey != "" {
		gemini, err := scriptgen.NewGeminiGenerator(ctx, cfg.GeminiAPIKey, "")
		if err != nil {
			logger.Warn("gemini script backend unavailable",
				slog.String("error", err.Error()),
			)
		} else {
			backends = append(backends, gemini)
			names = append(names, "gemini")
		}
	}

	if cfg.OpenAIAPIKey != "" {
		openai, err := scriptgen.NewOpenAIGenerator(cfg.OpenAIAPIKey, "")
		if err != nil {
			logger.Warn("openai script backend unavailable",
				slog.String("error", err.Error()),
			)
		} else {
			backends = append(backends, openai)
			names = append(names, "openai")
		}
	}

	if len(backends) == 0 {
		return nil
	}

	logger.Info("script generation configured",
		slog.Any("backends", names),
	)
	return scriptgen.NewMulti(logger, names, backends...)
}

// initStorage creates the appropriate storage backend based on configuration.
func initStorage(cfg *config.Config, logger *slog.Logger) (storage.Storage, error) {
	if cfg.S3Enabled() {
		s3Cfg := storage.S3Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
		}
		s3Store, err := storage.NewS3Storage(cfg.StageDir, s3Cfg)
		if err != nil {
			return nil, fmt.Errorf("create S3 storage: %w", err)
		}
		logger.Info("S3 artifact hosting configured",
			slog.String("bucket", cfg.S3Bucket),
			slog.String("region", cfg.S3Region),
		)
		return s3Store, nil
	}

	localStore, err := storage.NewLocalStorage(cfg.StageDir)
	if err != nil {
		return nil, fmt.Errorf("create local storage: %w", err)
	}
	logger.Info("local artifact staging configured",
		slog.String("stage_dir", cfg.StageDir),
	)
	return localStore, nil
}
