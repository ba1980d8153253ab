package adapters

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"boncer_backend/internal/feature/indexseries/domain/entity"
)

// mockSeriesSource はテスト用のSeriesSourceモック実装です。
type mockSeriesSource struct {
	loadFn func(ctx context.Context) (entity.Snapshot, error)
	calls  int
}

func (m *mockSeriesSource) Load(ctx context.Context) (entity.Snapshot, error) {
	m.calls++
	return m.loadFn(ctx)
}

func sampleSnapshot() entity.Snapshot {
	return entity.Snapshot{"CER": {"2024-03-01": 250.25}}
}

const sampleJSON = `{"series":{"CER":{"2024-03-01":250.25}}}`

func TestNewCachingSource_Defaults(t *testing.T) {
	t.Parallel()

	c := NewCachingSource(nil, 0, &mockSeriesSource{}, "")
	assert.Equal(t, 60*time.Second, c.ttl)
	assert.Equal(t, "indices:snapshot", c.key)
}

func TestCachingSource_Load_NilRedis(t *testing.T) {
	t.Parallel()

	inner := &mockSeriesSource{loadFn: func(ctx context.Context) (entity.Snapshot, error) {
		return sampleSnapshot(), nil
	}}

	snap, err := NewCachingSource(nil, time.Minute, inner, "").Load(context.Background())

	require.NoError(t, err)
	assert.Equal(t, sampleSnapshot(), snap)
	assert.Equal(t, 1, inner.calls)
}

func TestCachingSource_Load_CacheHit(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	mock.ExpectGet("indices:snapshot").SetVal(sampleJSON)

	inner := &mockSeriesSource{loadFn: func(ctx context.Context) (entity.Snapshot, error) {
		t.Error("inner source should not be called on cache hit")
		return nil, nil
	}}

	snap, err := NewCachingSource(rdb, time.Minute, inner, "").Load(context.Background())

	require.NoError(t, err)
	assert.Equal(t, sampleSnapshot(), snap)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCachingSource_Load_CacheMiss(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	mock.ExpectGet("indices:snapshot").RedisNil()
	mock.ExpectSet("indices:snapshot", []byte(sampleJSON), time.Minute).SetVal("OK")

	inner := &mockSeriesSource{loadFn: func(ctx context.Context) (entity.Snapshot, error) {
		return sampleSnapshot(), nil
	}}

	snap, err := NewCachingSource(rdb, time.Minute, inner, "").Load(context.Background())

	require.NoError(t, err)
	assert.Equal(t, sampleSnapshot(), snap)
	assert.Equal(t, 1, inner.calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCachingSource_Load_CorruptedCache(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	mock.ExpectGet("indices:snapshot").SetVal("invalid json")
	mock.ExpectDel("indices:snapshot").SetVal(1)
	mock.ExpectSet("indices:snapshot", []byte(sampleJSON), time.Minute).SetVal("OK")

	inner := &mockSeriesSource{loadFn: func(ctx context.Context) (entity.Snapshot, error) {
		return sampleSnapshot(), nil
	}}

	_, err := NewCachingSource(rdb, time.Minute, inner, "").Load(context.Background())

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCachingSource_Load_InnerError(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	expectedErr := errors.New("upstream down")
	mock.ExpectGet("indices:snapshot").RedisNil()

	inner := &mockSeriesSource{loadFn: func(ctx context.Context) (entity.Snapshot, error) {
		return nil, expectedErr
	}}

	_, err := NewCachingSource(rdb, time.Minute, inner, "").Load(context.Background())

	assert.ErrorIs(t, err, expectedErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCachingSource_Load_EmptyNotCached(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	mock.ExpectGet("indices:snapshot").RedisNil()

	inner := &mockSeriesSource{loadFn: func(ctx context.Context) (entity.Snapshot, error) {
		return entity.Snapshot{}, nil
	}}

	snap, err := NewCachingSource(rdb, time.Minute, inner, "").Load(context.Background())

	require.NoError(t, err)
	assert.Empty(t, snap)
	assert.NoError(t, mock.ExpectationsWereMet())
}
