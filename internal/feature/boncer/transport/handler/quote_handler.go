package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"boncer_backend/internal/feature/boncer/domain/entity"
	"boncer_backend/internal/feature/boncer/transport/http/dto"
	"boncer_backend/internal/feature/boncer/usecase"
)

// QuoteIngestUsecase は価格プッシュのユースケースインターフェースです。
type QuoteIngestUsecase interface {
	Ingest(ctx context.Context, updates []entity.PriceUpdate) (int, error)
}

// QuoteHandler は外部プロセスからの価格プッシュを受け付けます。
type QuoteHandler struct {
	uc QuoteIngestUsecase
}

// NewQuoteHandler は新しい QuoteHandler を作成します。
func NewQuoteHandler(uc QuoteIngestUsecase) *QuoteHandler {
	return &QuoteHandler{uc: uc}
}

// Ingest は価格の配列を受け取り、気配値として保存します。
//
// エンドポイント例:
// POST /boncer/quotes
// [{"ticker":"TX26","price":1050.5,"previous_price":1046.84,"v":125000000}]
func (h *QuoteHandler) Ingest(c *gin.Context) {
	var items []dto.PriceIngestItem
	if err := c.ShouldBindJSON(&items); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid payload"})
		return
	}
	if len(items) == 0 {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "empty payload"})
		return
	}

	updates := make([]entity.PriceUpdate, 0, len(items))
	for _, it := range items {
		updates = append(updates, entity.PriceUpdate{
			Ticker:        it.Ticker,
			Price:         it.Price,
			PreviousPrice: it.PreviousPrice,
			PctChange:     it.PctChange,
			Volume:        it.Volume,
		})
	}

	n, err := h.uc.Ingest(c.Request.Context(), updates)
	switch {
	case errors.Is(err, usecase.ErrNoValidQuotes):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "no valid item"})
	case errors.Is(err, usecase.ErrQuoteStoreUnavailable):
		slog.Error("price push rejected", "error", err)
		c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{Error: "quote store unavailable"})
	case err != nil:
		slog.Error("price push failed", "error", err)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal server error"})
	default:
		c.JSON(http.StatusOK, dto.IngestResponse{OK: true, Count: n})
	}
}
