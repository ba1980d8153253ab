package adapters

import (
	"context"
	"errors"
	"fmt"
	"os"

	"boncer_backend/internal/feature/indexseries/domain/entity"
	"boncer_backend/internal/feature/indexseries/usecase"
	"boncer_backend/internal/shared/retry"
)

// FileSource reads the index document from the local filesystem.
type FileSource struct {
	path   string
	policy retry.Policy
}

var _ usecase.SeriesSource = (*FileSource)(nil)

// NewFileSource creates a FileSource for path.
func NewFileSource(path string, policy retry.Policy) *FileSource {
	return &FileSource{path: path, policy: policy}
}

// Load reads and decodes the document, retrying read failures.
// A malformed document is not retried.
func (f *FileSource) Load(ctx context.Context) (entity.Snapshot, error) {
	var b []byte
	err := retry.Do(ctx, f.policy, "read index file", func(ctx context.Context) error {
		var err error
		b, err = os.ReadFile(f.path)
		return err
	})
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s not found", usecase.ErrSourceUnavailable, f.path)
		}
		return nil, fmt.Errorf("%w: %v", usecase.ErrSourceUnavailable, err)
	}
	return decodeDocument(b)
}
