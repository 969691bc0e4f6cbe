// Package publisher uploads a finished chain artifact to the hosting
// backend and returns a durable URL. Publishing is best-effort: a completed
// generation is never invalidated because hosting failed, the caller just
// keeps the provider-native artifact reference.
package publisher

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/promoforge/videochain-api/internal/storage"
)

// Publisher hosts final artifacts.
type Publisher struct {
	store      storage.Storage
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a Publisher.
type Option func(*Publisher)

// WithHTTPClient sets a custom HTTP client for artifact downloads.
func WithHTTPClient(c *http.Client) Option {
	return func(p *Publisher) {
		p.httpClient = c
	}
}

// New creates a Publisher.
func New(store storage.Storage, logger *slog.Logger, opts ...Option) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Publisher{
		store:      store,
		httpClient: &http.Client{Timeout: 5 * time.Minute},
		logger:     logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Publish downloads the artifact behind artifactRef, stages it, and uploads
// it under generations/{generationID}/final.mp4. It returns the hosted URL,
// or an empty string when publishing is impossible or fails; it never
// returns an error because publishing failure is non-fatal by contract.
func (p *Publisher) Publish(ctx context.Context, generationID, artifactRef string) string {
	if artifactRef == "" {
		return ""
	}
	if !strings.HasPrefix(artifactRef, "http://") && !strings.HasPrefix(artifactRef, "https://") {
		p.logger.Warn("artifact reference is not downloadable, skipping publish",
			slog.String("generation_id", generationID),
		)
		return ""
	}

	localPath, err := p.download(ctx, artifactRef)
	if err != nil {
		p.logger.Warn("artifact download failed, keeping provider reference",
			slog.String("generation_id", generationID),
			slog.String("error", err.Error()),
		)
		return ""
	}
	defer func() {
		_ = p.store.Cleanup(context.WithoutCancel(ctx), []string{localPath})
	}()

	f, err := p.store.Open(ctx, localPath)
	if err != nil {
		p.logger.Warn("staged artifact unreadable, keeping provider reference",
			slog.String("generation_id", generationID),
			slog.String("error", err.Error()),
		)
		return ""
	}
	defer func() { _ = f.Close() }()

	key := fmt.Sprintf("generations/%s/final.mp4", generationID)
	url, err := p.store.Upload(ctx, key, f)
	if err != nil {
		p.logger.Warn("artifact upload failed, keeping provider reference",
			slog.String("generation_id", generationID),
			slog.String("error", err.Error()),
		)
		return ""
	}

	p.logger.Info("artifact published",
		slog.String("generation_id", generationID),
		slog.String("url", url),
	)
	return url
}

// download fetches the artifact into the staging area and returns the
// staged path.
func (p *Publisher) download(ctx context.Context, artifactURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, artifactURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("download artifact: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("download artifact: status %d", resp.StatusCode)
	}

	path, err := p.store.Stage(ctx, "artifact", resp.Body)
	if err != nil {
		return "", fmt.Errorf("stage artifact: %w", err)
	}
	return path, nil
}
