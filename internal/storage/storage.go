// Package storage provides staging and hosting for generated video
// artifacts. Artifacts are staged on local disk while a chain runs and
// optionally uploaded to S3 for a durable, shareable URL.
package storage

import (
	"context"
	"io"
)

// Storage is the port the asset publisher depends on. Stage/Open/Cleanup
// handle scratch files during a generation; Upload hosts the final asset.
type Storage interface {
	// Stage writes data to a scratch file and returns its path. name is a
	// filename hint, not a full path.
	Stage(ctx context.Context, name string, data io.Reader) (path string, err error)

	// Open reads a previously staged file. The caller closes the reader.
	Open(ctx context.Context, path string) (io.ReadCloser, error)

	// Cleanup removes staged files, continuing past individual failures.
	Cleanup(ctx context.Context, paths []string) error

	// Upload hosts data under the given key and returns a durable URL.
	// Returns ErrHostingNotConfigured when no hosting backend is set up.
	Upload(ctx context.Context, key string, data io.Reader) (url string, err error)
}
