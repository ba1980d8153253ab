// Package dto defines the HTTP response bodies of the indexseries feature.
package dto

// PointResponse は指数の1点を表すレスポンスDTOです。
type PointResponse struct {
	Date  string  `json:"date"`  // 日付（YYYY-MM-DD）
	Value float64 `json:"value"` // 指数値
}

// SeriesResponse は指数系列のレスポンスDTOです。
type SeriesResponse struct {
	Code   string          `json:"code"`
	Points []PointResponse `json:"points"`
}

// ValueResponse は日付指定の指数値レスポンスDTOです。
type ValueResponse struct {
	Code          string  `json:"code"`
	RequestedDate string  `json:"requestedDate"`
	Value         float64 `json:"value"`
}

// DeltaResponse は直近2点の変化量レスポンスDTOです。
type DeltaResponse struct {
	Code      string   `json:"code"`
	LastDate  string   `json:"lastDate"`
	LastValue float64  `json:"lastValue"`
	PrevDate  string   `json:"prevDate"`
	PrevValue float64  `json:"prevValue"`
	Delta     float64  `json:"delta"`
	DeltaPct  *float64 `json:"deltaPct"`
}

// SeriesSummaryResponse は1系列の直近値と前回値のレスポンスDTOです。
// 1点のみの系列では prev* と delta* は null です。
type SeriesSummaryResponse struct {
	Code      string   `json:"code"`
	Date      string   `json:"date"`
	Value     float64  `json:"value"`
	PrevDate  *string  `json:"prevDate"`
	PrevValue *float64 `json:"prevValue"`
	Delta     *float64 `json:"delta"`
	DeltaPct  *float64 `json:"deltaPct"` // 前回値に対する比率（0.01 = 1%）
}

// SummaryResponse は全系列サマリーのレスポンスDTOです。
type SummaryResponse struct {
	UpdatedAt string                           `json:"updatedAt"` // 生成時刻（RFC3339, Buenos Aires）
	Series    map[string]SeriesSummaryResponse `json:"series"`
}

// AllSeriesResponse は系列コードごとの日付昇順リストです。
type AllSeriesResponse map[string][]PointResponse

// ErrorResponse はエラーレスポンスDTOです。
type ErrorResponse struct {
	Error string `json:"error"`
}
