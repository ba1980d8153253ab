// Package handler はindexseriesフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"boncer_backend/internal/feature/indexseries/domain/entity"
	"boncer_backend/internal/feature/indexseries/transport/http/dto"
	"boncer_backend/internal/platform/calendar"
)

// IndexStore は指数系列の読み取りインターフェースです。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type IndexStore interface {
	Get(ctx context.Context, code string, date time.Time) (float64, bool)
	ComputeLatestDelta(ctx context.Context, code string) (entity.Delta, bool)
	ListAsPoints(ctx context.Context, code string, from, to *time.Time) []entity.Point
	ComputeAllDeltas(ctx context.Context) []entity.Summary
	ListAllAsPoints(ctx context.Context, from, to *time.Time) map[string][]entity.Point
}

// IndexHandler は指数系列のHTTPリクエストを処理します。
type IndexHandler struct {
	store    IndexStore
	now      func() time.Time
	location *time.Location
}

// NewIndexHandler は新しい IndexHandler を作成します。
func NewIndexHandler(store IndexStore) *IndexHandler {
	return &IndexHandler{store: store, now: time.Now, location: calendar.MarketLocation()}
}

// Summary は全系列の直近値と前回値からの変化を返します。系列が無い場合は204を返します。
//
// エンドポイント例:
// GET /indices
func (h *IndexHandler) Summary(c *gin.Context) {
	sums := h.store.ComputeAllDeltas(c.Request.Context())
	if len(sums) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	out := dto.SummaryResponse{
		UpdatedAt: h.now().In(h.location).Format(time.RFC3339),
		Series:    make(map[string]dto.SeriesSummaryResponse, len(sums)),
	}
	for _, s := range sums {
		row := dto.SeriesSummaryResponse{
			Code:     s.Code,
			Date:     s.Last.Date.Format(entity.DateFormat),
			Value:    s.Last.Value,
			Delta:    s.Delta,
			DeltaPct: s.DeltaPct,
		}
		if s.Prev != nil {
			prevDate := s.Prev.Date.Format(entity.DateFormat)
			prevValue := s.Prev.Value
			row.PrevDate = &prevDate
			row.PrevValue = &prevValue
		}
		out.Series[s.Code] = row
	}
	c.JSON(http.StatusOK, out)
}

// AllSeries は全系列を日付昇順のリストで返します。系列が無い場合は204を返します。
//
// エンドポイント例:
// GET /indices/series?from=2024-01-01&to=2024-03-31
func (h *IndexHandler) AllSeries(c *gin.Context) {
	from, ok := optionalDate(c, "from")
	if !ok {
		return
	}
	to, ok := optionalDate(c, "to")
	if !ok {
		return
	}

	all := h.store.ListAllAsPoints(c.Request.Context(), from, to)
	if len(all) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	out := make(dto.AllSeriesResponse, len(all))
	for code, pts := range all {
		out[code] = toPointResponses(pts)
	}
	c.JSON(http.StatusOK, out)
}

// List は指数系列を日付範囲で返します。
//
// エンドポイント例:
// GET /indices/CER?from=2024-01-01&to=2024-03-31
func (h *IndexHandler) List(c *gin.Context) {
	code := entity.NormalizeCode(c.Param("code"))

	from, ok := optionalDate(c, "from")
	if !ok {
		return
	}
	to, ok := optionalDate(c, "to")
	if !ok {
		return
	}

	pts := h.store.ListAsPoints(c.Request.Context(), code, from, to)
	c.JSON(http.StatusOK, dto.SeriesResponse{Code: code, Points: toPointResponses(pts)})
}

func toPointResponses(pts []entity.Point) []dto.PointResponse {
	out := make([]dto.PointResponse, 0, len(pts))
	for _, p := range pts {
		out = append(out, dto.PointResponse{
			Date:  p.Date.Format(entity.DateFormat),
			Value: p.Value,
		})
	}
	return out
}

// Latest は直近2点の変化量を返します。データが2点未満の場合は404を返します。
//
// エンドポイント例:
// GET /indices/CER/latest
func (h *IndexHandler) Latest(c *gin.Context) {
	code := entity.NormalizeCode(c.Param("code"))

	d, ok := h.store.ComputeLatestDelta(c.Request.Context(), code)
	if !ok {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "not enough data for " + code})
		return
	}
	c.JSON(http.StatusOK, dto.DeltaResponse{
		Code:      code,
		LastDate:  d.LastDate.Format(entity.DateFormat),
		LastValue: d.LastValue,
		PrevDate:  d.PrevDate.Format(entity.DateFormat),
		PrevValue: d.PrevValue,
		Delta:     d.Delta,
		DeltaPct:  d.DeltaPct,
	})
}

// Value は指定日（または直前5日以内）の指数値を返します。
//
// エンドポイント例:
// GET /indices/CER/value?date=2024-03-11
func (h *IndexHandler) Value(c *gin.Context) {
	code := entity.NormalizeCode(c.Param("code"))

	date, ok := optionalDate(c, "date")
	if !ok {
		return
	}
	if date == nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "date is required"})
		return
	}

	v, found := h.store.Get(c.Request.Context(), code, *date)
	if !found {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "no data for " + code})
		return
	}
	c.JSON(http.StatusOK, dto.ValueResponse{
		Code:          code,
		RequestedDate: date.Format(entity.DateFormat),
		Value:         v,
	})
}

// optionalDate はクエリパラメータを日付として解釈します。
// 不正な形式の場合は400を書き込み false を返します。
func optionalDate(c *gin.Context, key string) (*time.Time, bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, true
	}
	d, err := time.Parse(entity.DateFormat, raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid " + key + ": want YYYY-MM-DD"})
		return nil, false
	}
	return &d, true
}
