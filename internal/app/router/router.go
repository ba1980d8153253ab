package router

import (
	"github.com/gin-gonic/gin"

	boncerhandler "boncer_backend/internal/feature/boncer/transport/handler"
	indexhandler "boncer_backend/internal/feature/indexseries/transport/handler"
	platformhandler "boncer_backend/internal/platform/http/handler"
)

func NewRouter(health *platformhandler.HealthHandler, boncer *boncerhandler.BoncerHandler,
	quotes *boncerhandler.QuoteHandler, index *indexhandler.IndexHandler) *gin.Engine {
	r := gin.Default()

	// 導通確認用
	r.GET("/healthz", health.Health)
	r.HEAD("/healthz", health.Health)

	// BONCER 評価
	r.GET("/boncer", boncer.Report)
	r.GET("/boncer/instruments", boncer.Instruments)

	// 価格プッシュ
	r.POST("/boncer/quotes", quotes.Ingest)

	// 指数系列
	r.GET("/indices", index.Summary)
	r.GET("/indices/series", index.AllSeries)
	r.GET("/indices/:code", index.List)
	r.GET("/indices/:code/latest", index.Latest)
	r.GET("/indices/:code/value", index.Value)

	return r
}
