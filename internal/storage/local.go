package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ErrHostingNotConfigured is returned when Upload is attempted without a
// hosting backend.
var ErrHostingNotConfigured = errors.New("storage: artifact hosting is not configured")

// LocalStorage implements Storage using local disk. It stages files in a
// configurable directory and does not support hosting unless wrapped with
// S3Storage.
type LocalStorage struct {
	stageDir string
}

// NewLocalStorage creates a LocalStorage staging into stageDir, creating
// the directory if needed. An empty stageDir falls back to a videochain
// subdirectory of the system temp dir.
func NewLocalStorage(stageDir string) (*LocalStorage, error) {
	if stageDir == "" {
		stageDir = filepath.Join(os.TempDir(), "videochain")
	}

	if err := os.MkdirAll(stageDir, 0750); err != nil {
		return nil, fmt.Errorf("create stage directory: %w", err)
	}

	return &LocalStorage{stageDir: stageDir}, nil
}

// StageDir returns the staging directory path.
func (s *LocalStorage) StageDir() string {
	return s.stageDir
}

// Stage writes data to a scratch file and returns its path. The name is
// used as a base for the filename with a unique suffix.
func (s *LocalStorage) Stage(ctx context.Context, name string, data io.Reader) (string, error) {
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("context cancelled: %w", ctx.Err())
	default:
	}

	f, err := os.CreateTemp(s.stageDir, name+"_*")
	if err != nil {
		return "", fmt.Errorf("create stage file: %w", err)
	}

	fileName := f.Name()
	if _, err := io.Copy(f, data); err != nil {
		_ = f.Close()
		_ = os.Remove(fileName)
		return "", fmt.Errorf("write stage file: %w", err)
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(fileName)
		return "", fmt.Errorf("close stage file: %w", err)
	}

	return fileName, nil
}

// Open reads a staged file. The caller is responsible for closing the
// returned ReadCloser.
func (s *LocalStorage) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("context cancelled: %w", ctx.Err())
	default:
	}

	f, err := os.Open(path) // #nosec G304 - path is provided by trusted caller
	if err != nil {
		return nil, fmt.Errorf("open stage file: %w", err)
	}

	return f, nil
}

// Cleanup removes staged files, continuing past individual failures and
// returning the first error encountered.
func (s *LocalStorage) Cleanup(ctx context.Context, paths []string) error {
	var firstErr error
	for _, p := range paths {
		select {
		case <-ctx.Done():
			return fmt.Errorf("context cancelled: %w", ctx.Err())
		default:
		}

		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			if firstErr == nil {
				firstErr = fmt.Errorf("remove stage file %s: %w", p, err)
			}
		}
	}
	return firstErr
}

// Upload is not supported by LocalStorage and returns ErrHostingNotConfigured.
func (s *LocalStorage) Upload(_ context.Context, _ string, _ io.Reader) (string, error) {
	return "", ErrHostingNotConfigured
}

// Compile-time check that LocalStorage implements Storage.
var _ Storage = (*LocalStorage)(nil)
