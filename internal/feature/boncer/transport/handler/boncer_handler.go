// Package handler はboncerフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"boncer_backend/internal/feature/boncer/domain/entity"
	"boncer_backend/internal/feature/boncer/transport/http/dto"
	"boncer_backend/internal/feature/boncer/usecase"
)

// ValuationUsecase は評価ユースケースのインターフェースです。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type ValuationUsecase interface {
	Valuate(ctx context.Context, now time.Time) (entity.Report, error)
	Instruments(ctx context.Context) ([]entity.Instrument, error)
}

// BoncerHandler はBONCER評価のHTTPリクエストを処理します。
type BoncerHandler struct {
	uc  ValuationUsecase
	now func() time.Time
}

// NewBoncerHandler は新しい BoncerHandler を作成します。
func NewBoncerHandler(uc ValuationUsecase) *BoncerHandler {
	return &BoncerHandler{uc: uc, now: time.Now}
}

// Report は全銘柄の評価結果を返します。
// キャッシュフロー表が読めない場合は空の rows と 503 を返します。
//
// エンドポイント例:
// GET /boncer
func (h *BoncerHandler) Report(c *gin.Context) {
	report, err := h.uc.Valuate(c.Request.Context(), h.now())
	if err != nil {
		if errors.Is(err, usecase.ErrSourceUnavailable) {
			slog.Error("boncer valuation unavailable", "error", err)
			out := dto.NewReportResponse(report)
			out.Error = "cashflow source unavailable"
			c.JSON(http.StatusServiceUnavailable, out)
			return
		}
		slog.Error("boncer valuation failed", "error", err)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal server error"})
		return
	}
	c.JSON(http.StatusOK, dto.NewReportResponse(report))
}

// Instruments は銘柄カタログを返します。
//
// エンドポイント例:
// GET /boncer/instruments
func (h *BoncerHandler) Instruments(c *gin.Context) {
	items, err := h.uc.Instruments(c.Request.Context())
	if err != nil {
		if errors.Is(err, usecase.ErrSourceUnavailable) {
			c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{Error: "cashflow source unavailable"})
			return
		}
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal server error"})
		return
	}

	out := make([]dto.InstrumentResponse, 0, len(items))
	for _, it := range items {
		out = append(out, dto.InstrumentResponse{
			Ticker:        it.Ticker,
			ISIN:          it.ISIN,
			Issuer:        it.Issuer,
			MaturityDate:  dto.FormatDate(it.MaturityDate),
			CashflowCount: it.CashflowCount,
		})
	}
	c.JSON(http.StatusOK, out)
}
