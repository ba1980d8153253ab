package adapters

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"boncer_backend/internal/feature/indexseries/usecase"
	"boncer_backend/internal/shared/retry"
)

var fastRetry = retry.Policy{Attempts: 3, Backoff: time.Millisecond}

const validDocument = `{
	"series": {
		"cer": {"2024-03-01": 250.25, "2024-03-04": 251.5, "bad-date": 1},
		"TAMAR": {"2024-03-01": 38.5}
	}
}`

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "indices.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestFileSource_Load(t *testing.T) {
	t.Parallel()

	src := NewFileSource(writeFile(t, validDocument), fastRetry)
	snap, err := src.Load(context.Background())

	require.NoError(t, err)
	require.Contains(t, snap, "CER")
	assert.Len(t, snap["CER"], 2, "invalid date keys should be skipped")
	assert.Equal(t, 251.5, snap["CER"]["2024-03-04"])
	assert.Equal(t, 38.5, snap["TAMAR"]["2024-03-01"])
}

func TestFileSource_Load_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		path        func(t *testing.T) string
		expectedErr error
	}{
		{
			name:        "missing file",
			path:        func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.json") },
			expectedErr: usecase.ErrSourceUnavailable,
		},
		{
			name:        "invalid json",
			path:        func(t *testing.T) string { return writeFile(t, `{invalid`) },
			expectedErr: usecase.ErrMalformedDocument,
		},
		{
			name:        "missing series field",
			path:        func(t *testing.T) string { return writeFile(t, `{"other": {}}`) },
			expectedErr: usecase.ErrMalformedDocument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewFileSource(tt.path(t), fastRetry).Load(context.Background())
			assert.ErrorIs(t, err, tt.expectedErr)
		})
	}
}

func TestHTTPSource_Load(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(validDocument))
	}))
	defer server.Close()

	snap, err := NewHTTPSource(server.URL, server.Client(), fastRetry).Load(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 250.25, snap["CER"]["2024-03-01"])
}

func TestHTTPSource_Load_RetriesThenSucceeds(t *testing.T) {
	t.Parallel()

	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(validDocument))
	}))
	defer server.Close()

	snap, err := NewHTTPSource(server.URL, server.Client(), fastRetry).Load(context.Background())

	require.NoError(t, err)
	assert.NotEmpty(t, snap)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestHTTPSource_Load_HTTPError(t *testing.T) {
	t.Parallel()

	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := NewHTTPSource(server.URL, server.Client(), fastRetry).Load(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, usecase.ErrSourceUnavailable)
	assert.Contains(t, err.Error(), "indexsource http 500")
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls), "should stop after the retry budget")
}

func TestHTTPSource_Load_Malformed(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"values": []}`))
	}))
	defer server.Close()

	_, err := NewHTTPSource(server.URL, server.Client(), fastRetry).Load(context.Background())
	assert.ErrorIs(t, err, usecase.ErrMalformedDocument)
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("INDEX_SOURCE_PATH", "")
	t.Setenv("INDEX_SOURCE_URL", "https://example.test/indices.json")
	t.Setenv("INDEX_TTL", "90s")
	t.Setenv("INDEX_DOCUMENT_CACHE_TTL", "invalid")
	t.Setenv("SOURCE_RETRY_ATTEMPTS", "5")
	t.Setenv("SOURCE_RETRY_BACKOFF", "")

	cfg := LoadConfig()

	assert.Equal(t, "./data/indices.json", cfg.SourcePath)
	assert.Equal(t, "https://example.test/indices.json", cfg.SourceURL)
	assert.Equal(t, 90*time.Second, cfg.TTL)
	assert.Equal(t, 60*time.Second, cfg.DocumentCacheTTL)
	assert.Equal(t, 5, cfg.Retry.Attempts)
	assert.Equal(t, retry.DefaultPolicy.Backoff, cfg.Retry.Backoff)
}

func TestDecodeDocument_SkipsUnusableReadings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		body     string
		code     string
		expected map[string]float64
		others   []string
	}{
		{
			name:     "null reading is dropped",
			body:     `{"series":{"CER":{"2024-03-01":null,"2024-02-29":640.5}}}`,
			code:     "CER",
			expected: map[string]float64{"2024-02-29": 640.5},
		},
		{
			name:     "non-numeric reading only drops that point",
			body:     `{"series":{"CER":{"2024-03-01":640.5},"TAMAR":{"2024-03-01":"n/a","2024-02-29":38.1}}}`,
			code:     "TAMAR",
			expected: map[string]float64{"2024-02-29": 38.1},
			others:   []string{"CER"},
		},
		{
			name:     "malformed series is skipped",
			body:     `{"series":{"CER":{"2024-03-01":640.5},"A3500":"broken"}}`,
			code:     "CER",
			expected: map[string]float64{"2024-03-01": 640.5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			snap, err := decodeDocument([]byte(tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, map[string]float64(snap[tt.code]))
			for _, code := range tt.others {
				assert.NotEmpty(t, snap[code])
			}
		})
	}
}

func TestStore_NullReadingFallsBackToEarlierDay(t *testing.T) {
	t.Parallel()

	path := writeFile(t, `{"series":{"CER":{"2024-03-01":null,"2024-02-29":640.5}}}`)
	store := usecase.NewStore(NewFileSource(path, fastRetry), nil, time.Minute)

	v, ok := store.Get(context.Background(), "CER", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))

	require.True(t, ok)
	assert.Equal(t, 640.5, v)
}
