// Package dto defines the HTTP response bodies of the boncer feature.
package dto

// ValuationRow は1銘柄の評価結果です。欠損値は null になります。
type ValuationRow struct {
	Ticker              string   `json:"ticker"`
	ISIN                string   `json:"isin,omitempty"`
	Issuer              string   `json:"issuer,omitempty"`
	MaturityDate        *string  `json:"maturityDate"`
	DaysToMaturity      *int     `json:"daysToMaturity"`
	TechnicalValue      *float64 `json:"technicalValue"`
	AccruedInterest     *float64 `json:"accruedInterest"`
	CleanPrice          *float64 `json:"cleanPrice"`
	DirtyPrice          *float64 `json:"dirtyPrice"`
	Parity              *float64 `json:"parity"`
	TNA                 *float64 `json:"tna"`
	TIREA               *float64 `json:"tirea"`
	MacaulayDuration    *float64 `json:"macaulayDuration"`
	ModifiedDuration    *float64 `json:"modifiedDuration"`
	Convexity           *float64 `json:"convexity"`
	WeightedAverageLife *float64 `json:"weightedAverageLife"`
	Volume              *float64 `json:"volume"`
	DailyChangePct      *float64 `json:"dailyChangePct"`
	SettlementDate      string   `json:"settlementDate"`
	ReferenceIndexDate  *string  `json:"referenceIndexDate"`
	ReferenceIndexValue *float64 `json:"referenceIndexValue"`
}

// ReportResponse は GET /boncer のレスポンスDTOです。
type ReportResponse struct {
	SettlementDate      string         `json:"settlementDate"`
	ReferenceIndexDate  *string        `json:"referenceIndexDate"`
	ReferenceIndexValue *float64       `json:"referenceIndexValue"`
	Rows                []ValuationRow `json:"rows"`
	Error               string         `json:"error,omitempty"`
}

// InstrumentResponse は銘柄カタログの1件です。
type InstrumentResponse struct {
	Ticker        string  `json:"ticker"`
	ISIN          string  `json:"isin,omitempty"`
	Issuer        string  `json:"issuer,omitempty"`
	MaturityDate  *string `json:"maturityDate"`
	CashflowCount int     `json:"cashflowCount"`
}

// ErrorResponse はエラーレスポンスDTOです。
type ErrorResponse struct {
	Error string `json:"error"`
}

// PriceIngestItem は価格プッシュの1件です。pct_change が無い場合は previous_price から変化率を計算します。
type PriceIngestItem struct {
	Ticker        string   `json:"ticker"`
	Price         *float64 `json:"price"`
	PreviousPrice *float64 `json:"previous_price"`
	PctChange     *float64 `json:"pct_change"` // ポイント表記（0.31 = 0.31%）
	Volume        *float64 `json:"v"`
}

// IngestResponse は価格プッシュのレスポンスDTOです。
type IngestResponse struct {
	OK    bool `json:"ok"`
	Count int  `json:"count"`
}
