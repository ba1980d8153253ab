package adapters

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"boncer_backend/internal/feature/indexseries/domain/entity"
	"boncer_backend/internal/feature/indexseries/usecase"
	"boncer_backend/internal/shared/retry"
)

// HTTPSource fetches the index document from a remote URL.
type HTTPSource struct {
	url    string
	client *http.Client
	policy retry.Policy
}

var _ usecase.SeriesSource = (*HTTPSource)(nil)

// NewHTTPSource creates an HTTPSource with the given client.
func NewHTTPSource(url string, client *http.Client, policy retry.Policy) *HTTPSource {
	return &HTTPSource{url: url, client: client, policy: policy}
}

// Load downloads the document with bounded retries and decodes it.
func (h *HTTPSource) Load(ctx context.Context) (entity.Snapshot, error) {
	var body []byte
	err := retry.Do(ctx, h.policy, "fetch index document", func(ctx context.Context) error {
		var err error
		body, err = h.fetch(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", usecase.ErrSourceUnavailable, err)
	}
	return decodeDocument(body)
}

func (h *HTTPSource) fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	res, err := h.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("indexsource http %d", res.StatusCode)
	}
	return io.ReadAll(res.Body)
}
