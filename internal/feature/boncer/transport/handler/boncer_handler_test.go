package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"boncer_backend/internal/feature/boncer/domain/entity"
	"boncer_backend/internal/feature/boncer/transport/handler"
	"boncer_backend/internal/feature/boncer/usecase"
)

// mockValuationUsecase はValuationUsecaseインターフェースのモック実装です。
type mockValuationUsecase struct {
	ValuateFunc     func(ctx context.Context, now time.Time) (entity.Report, error)
	InstrumentsFunc func(ctx context.Context) ([]entity.Instrument, error)
}

func (m *mockValuationUsecase) Valuate(ctx context.Context, now time.Time) (entity.Report, error) {
	return m.ValuateFunc(ctx, now)
}

func (m *mockValuationUsecase) Instruments(ctx context.Context) ([]entity.Instrument, error) {
	return m.InstrumentsFunc(ctx)
}

func f(v float64) *float64 { return &v }

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newRouter(uc handler.ValuationUsecase) *gin.Engine {
	h := handler.NewBoncerHandler(uc)
	r := gin.New()
	r.GET("/boncer", h.Report)
	r.GET("/boncer/instruments", h.Instruments)
	return r
}

func TestBoncerHandler_Report(t *testing.T) {
	gin.SetMode(gin.TestMode)

	days := 243
	report := entity.Report{
		SettlementDate:      day(2024, 3, 11),
		ReferenceIndexDate:  day(2024, 2, 26),
		ReferenceIndexValue: f(250.25),
		Rows: []entity.ValuationResult{{
			Ticker:              "TX26",
			MaturityDate:        day(2024, 11, 9),
			DaysToMaturity:      &days,
			TechnicalValue:      f(1110.07),
			DirtyPrice:          f(1050.5),
			TNA:                 f(0.123456),
			SettlementDate:      day(2024, 3, 11),
			ReferenceIndexDate:  day(2024, 2, 26),
			ReferenceIndexValue: f(250.25),
		}},
	}

	tests := []struct {
		name           string
		valuate        func(ctx context.Context, now time.Time) (entity.Report, error)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "success",
			valuate: func(ctx context.Context, now time.Time) (entity.Report, error) {
				return report, nil
			},
			expectedStatus: http.StatusOK,
			expectedBody: `{"settlementDate":"2024-03-11","referenceIndexDate":"2024-02-26","referenceIndexValue":250.25,"rows":[` +
				`{"ticker":"TX26","maturityDate":"2024-11-09","daysToMaturity":243,"technicalValue":1110.07,"accruedInterest":null,` +
				`"cleanPrice":null,"dirtyPrice":1050.5,"parity":null,"tna":0.123456,"tirea":null,"macaulayDuration":null,` +
				`"modifiedDuration":null,"convexity":null,"weightedAverageLife":null,"volume":null,"dailyChangePct":null,` +
				`"settlementDate":"2024-03-11","referenceIndexDate":"2024-02-26","referenceIndexValue":250.25}]}`,
		},
		{
			name: "source unavailable returns 503 with empty rows",
			valuate: func(ctx context.Context, now time.Time) (entity.Report, error) {
				return entity.Report{SettlementDate: day(2024, 3, 11)}, fmt.Errorf("%w: file missing", usecase.ErrSourceUnavailable)
			},
			expectedStatus: http.StatusServiceUnavailable,
			expectedBody:   `{"settlementDate":"2024-03-11","referenceIndexDate":null,"referenceIndexValue":null,"rows":[],"error":"cashflow source unavailable"}`,
		},
		{
			name: "unexpected error",
			valuate: func(ctx context.Context, now time.Time) (entity.Report, error) {
				return entity.Report{}, errors.New("boom")
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"error":"internal server error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRouter(&mockValuationUsecase{ValuateFunc: tt.valuate})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/boncer", nil)
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
		})
	}
}

func TestBoncerHandler_Instruments(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("success", func(t *testing.T) {
		r := newRouter(&mockValuationUsecase{InstrumentsFunc: func(ctx context.Context) ([]entity.Instrument, error) {
			return []entity.Instrument{
				{Ticker: "TX26", ISIN: "AR0001", MaturityDate: day(2024, 11, 9), CashflowCount: 2},
				{Ticker: "TX28"},
			}, nil
		}})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boncer/instruments", nil))

		require.Equal(t, http.StatusOK, w.Code)
		var body []map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		require.Len(t, body, 2)
		assert.Equal(t, "2024-11-09", body[0]["maturityDate"])
		assert.Equal(t, float64(2), body[0]["cashflowCount"])
		assert.Nil(t, body[1]["maturityDate"])
	})

	t.Run("source unavailable", func(t *testing.T) {
		r := newRouter(&mockValuationUsecase{InstrumentsFunc: func(ctx context.Context) ([]entity.Instrument, error) {
			return []entity.Instrument{}, usecase.ErrSourceUnavailable
		}})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boncer/instruments", nil))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.JSONEq(t, `{"error":"cashflow source unavailable"}`, w.Body.String())
	})
}
