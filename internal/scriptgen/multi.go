package scriptgen

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Multi tries backends in priority order and falls back to the next one
// when a backend errors. The first non-empty script wins.
type Multi struct {
	backends []Generator
	names    []string
	logger   *slog.Logger
}

// NewMulti creates a priority-ordered multi-backend generator.
// names parallels backends and is only used for logging.
func NewMulti(logger *slog.Logger, names []string, backends ...Generator) *Multi {
	if logger == nil {
		logger = slog.Default()
	}
	return &Multi{backends: backends, names: names, logger: logger}
}

// Script tries each backend in order until one succeeds.
func (m *Multi) Script(ctx context.Context, brief Brief) (string, error) {
	if len(m.backends) == 0 {
		return "", ErrNoBackends
	}

	var errs []error
	for i, backend := range m.backends {
		script, err := backend.Script(ctx, brief)
		if err == nil {
			return script, nil
		}
		if errors.Is(err, ErrEmptyTopic) {
			// Bad brief fails the same way on every backend.
			return "", err
		}
		m.logger.Warn("script backend failed, trying next",
			slog.String("backend", m.name(i)),
			slog.String("error", err.Error()),
		)
		errs = append(errs, fmt.Errorf("%s: %w", m.name(i), err))
	}
	return "", errors.Join(errs...)
}

func (m *Multi) name(i int) string {
	if i < len(m.names) {
		return m.names[i]
	}
	return fmt.Sprintf("backend-%d", i)
}

// Compile-time check that Multi implements Generator.
var _ Generator = (*Multi)(nil)
