package usecase

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"boncer_backend/internal/feature/indexseries/domain/entity"
)

const (
	// DefaultTTL は index スナップショットの有効期間です。
	DefaultTTL = 60 * time.Second
	// DefaultSettlementOffset は CER 参照日の営業日オフセットです。
	DefaultSettlementOffset = 10
	// maxProbeDays は完全一致がない場合に遡る暦日数です。
	maxProbeDays = 5
)

// SeriesSource loads the full index document from its backing source.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type SeriesSource interface {
	Load(ctx context.Context) (entity.Snapshot, error)
}

// ReferenceCalendar computes the weekends-only offset used for the CER reference date.
type ReferenceCalendar interface {
	SubtractBusinessDaysWeekendsOnly(t time.Time, n int) time.Time
}

type snapshot struct {
	data     entity.Snapshot
	loadedAt time.Time
}

// Store serves index values from an in-memory snapshot that is refreshed lazily
// on read once the TTL has elapsed. Readers always see a complete snapshot: a
// refresh builds a new one and swaps the pointer.
type Store struct {
	source SeriesSource
	cal    ReferenceCalendar
	ttl    time.Duration
	now    func() time.Time

	current atomic.Pointer[snapshot]
	group   singleflight.Group
}

// NewStore creates a Store. If ttl is 0 or negative, it defaults to 60 seconds.
func NewStore(source SeriesSource, cal ReferenceCalendar, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s := &Store{
		source: source,
		cal:    cal,
		ttl:    ttl,
		now:    time.Now,
	}
	s.current.Store(&snapshot{data: entity.Snapshot{}})
	return s
}

// RefreshIfStale reloads the snapshot when it is empty or older than the TTL.
// Failures are logged and the previous snapshot stays in place.
func (s *Store) RefreshIfStale(ctx context.Context) {
	cur := s.current.Load()
	if cur.data.Len() > 0 && s.now().Sub(cur.loadedAt) < s.ttl {
		return
	}

	// 同時に古いと判定した呼び出しは1回のロードにまとめる
	_, _, _ = s.group.Do("refresh", func() (any, error) {
		s.reload(ctx)
		return nil, nil
	})
}

func (s *Store) reload(ctx context.Context) {
	data, err := s.source.Load(ctx)
	if err != nil {
		slog.Error("failed to refresh index series; keeping previous snapshot", "error", err)
		return
	}
	if data.Len() == 0 {
		slog.Warn("index source returned no data; keeping previous snapshot")
		return
	}

	normalized := make(entity.Snapshot, len(data))
	for code, series := range data {
		normalized[entity.NormalizeCode(code)] = series
	}
	s.current.Store(&snapshot{data: normalized, loadedAt: s.now()})
	slog.Info("index series refreshed", "series", len(normalized), "points", normalized.Len())
}

// LoadedAt returns when the current snapshot was loaded (zero if never).
func (s *Store) LoadedAt() time.Time {
	return s.current.Load().loadedAt
}

func (s *Store) series(ctx context.Context, code string) entity.Series {
	s.RefreshIfStale(ctx)
	return s.current.Load().data[entity.NormalizeCode(code)]
}

// Get returns the value of code on date. On a miss it probes the previous
// five calendar days in order and returns the first hit.
func (s *Store) Get(ctx context.Context, code string, date time.Time) (float64, bool) {
	series := s.series(ctx, code)
	if series == nil {
		return 0, false
	}
	return lookup(series, date)
}

func lookup(series entity.Series, date time.Time) (float64, bool) {
	for i := 0; i <= maxProbeDays; i++ {
		key := date.AddDate(0, 0, -i).Format(entity.DateFormat)
		if v, ok := series[key]; ok {
			return v, true
		}
	}
	return 0, false
}

// GetIndexForSettlement resolves the reference date offsetBusinessDays weekdays
// before settlement and looks up code there. The reference date is returned
// even when no value is found.
func (s *Store) GetIndexForSettlement(ctx context.Context, code string, settlement time.Time, offsetBusinessDays int) (float64, time.Time, bool) {
	if offsetBusinessDays <= 0 {
		offsetBusinessDays = DefaultSettlementOffset
	}
	ref := s.cal.SubtractBusinessDaysWeekendsOnly(settlement, offsetBusinessDays)
	v, ok := s.Get(ctx, code, ref)
	return v, ref, ok
}

// ComputeLatestDelta compares the last two points of a series.
func (s *Store) ComputeLatestDelta(ctx context.Context, code string) (entity.Delta, bool) {
	pts := s.series(ctx, code).Points()
	if len(pts) < 2 {
		return entity.Delta{}, false
	}
	last, prev := pts[len(pts)-1], pts[len(pts)-2]

	d := entity.Delta{
		LastDate:  last.Date,
		LastValue: last.Value,
		PrevDate:  prev.Date,
		PrevValue: prev.Value,
		Delta:     last.Value - prev.Value,
	}
	if prev.Value != 0 {
		pct := d.Delta / prev.Value
		d.DeltaPct = &pct
	}
	return d, true
}

// ComputeAllDeltas summarises every loaded series, ordered by code. Series
// without any dated point are omitted.
func (s *Store) ComputeAllDeltas(ctx context.Context) []entity.Summary {
	s.RefreshIfStale(ctx)
	data := s.current.Load().data

	out := make([]entity.Summary, 0, len(data))
	for _, code := range data.Codes() {
		pts := data[code].Points()
		if len(pts) == 0 {
			continue
		}
		sum := entity.Summary{Code: code, Last: pts[len(pts)-1]}
		if len(pts) > 1 {
			prev := pts[len(pts)-2]
			delta := sum.Last.Value - prev.Value
			sum.Prev = &prev
			sum.Delta = &delta
			if prev.Value != 0 {
				pct := delta / prev.Value
				sum.DeltaPct = &pct
			}
		}
		out = append(out, sum)
	}
	return out
}

// ListAllAsPoints returns every series restricted to [from, to], keyed by code.
// A series with no point in range maps to an empty slice.
func (s *Store) ListAllAsPoints(ctx context.Context, from, to *time.Time) map[string][]entity.Point {
	s.RefreshIfStale(ctx)
	data := s.current.Load().data

	out := make(map[string][]entity.Point, len(data))
	for code, series := range data {
		out[code] = filterPoints(series.Points(), from, to)
	}
	return out
}

// ListAsPoints returns the series points within [from, to]. Nil bounds default
// to the series' own extremes.
func (s *Store) ListAsPoints(ctx context.Context, code string, from, to *time.Time) []entity.Point {
	return filterPoints(s.series(ctx, code).Points(), from, to)
}

func filterPoints(pts []entity.Point, from, to *time.Time) []entity.Point {
	out := make([]entity.Point, 0, len(pts))
	for _, p := range pts {
		if from != nil && p.Date.Before(*from) {
			continue
		}
		if to != nil && p.Date.After(*to) {
			continue
		}
		out = append(out, p)
	}
	return out
}
