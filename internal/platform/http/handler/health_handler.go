// Package handler はプラットフォームレベルのエンドポイント用HTTPハンドラーを提供します。
package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// IndexProbe は指数スナップショットの読み込み時刻を報告します。
type IndexProbe interface {
	LoadedAt() time.Time
}

// HealthHandler はサービスヘルスチェック用の /healthz エンドポイントを処理します。
type HealthHandler struct {
	probe IndexProbe
}

// NewHealthHandler は新しい HealthHandler を作成します。probe は nil でも構いません。
func NewHealthHandler(probe IndexProbe) *HealthHandler {
	return &HealthHandler{probe: probe}
}

// Health はHTTPメソッドに応じて適切にレスポンスし、キャッシュを防止します。
// GET では指数スナップショットの最終読み込み時刻（未読み込みなら null）も返します。
func (h *HealthHandler) Health(c *gin.Context) {
	// 明示的にキャッシュを防止
	c.Header("Cache-Control", "no-store")

	switch c.Request.Method {
	case http.MethodHead:
		c.Status(http.StatusOK)
	case http.MethodOptions:
		c.Status(http.StatusNoContent)
	default:
		var loadedAt *string
		if h.probe != nil {
			if t := h.probe.LoadedAt(); !t.IsZero() {
				s := t.UTC().Format(time.RFC3339)
				loadedAt = &s
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "indicesLoadedAt": loadedAt})
	}
}
