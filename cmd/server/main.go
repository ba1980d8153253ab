package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	redisv9 "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"boncer_backend/internal/app/di"
	"boncer_backend/internal/app/router"
	boncadapters "boncer_backend/internal/feature/boncer/adapters"
	boncerhandler "boncer_backend/internal/feature/boncer/transport/handler"
	indexadapters "boncer_backend/internal/feature/indexseries/adapters"
	indexhandler "boncer_backend/internal/feature/indexseries/transport/handler"
	"boncer_backend/internal/platform/calendar"
	infradb "boncer_backend/internal/platform/db"
	platformhandler "boncer_backend/internal/platform/http/handler"
	infraredis "boncer_backend/internal/platform/redis"
)

func main() {
	// .envを読み込む
	if err := godotenv.Load(".env"); err != nil {
		slog.Info(".env not found; using system environment variables")
	}

	// db（祝日カレンダーと気配値）。接続できない場合は価格なし・土日のみのカレンダーで動作する
	var db *gorm.DB
	if tmp, err := infradb.Open(infradb.LoadConfigFromEnv()); err != nil {
		slog.Warn("database unavailable; running without quotes and holidays", "error", err)
	} else {
		db = tmp
	}

	// Redis
	var rdb *redisv9.Client
	if tmp, err := infraredis.NewRedisClient(); err != nil {
		slog.Warn("Redis unavailable. Running without cache.")
	} else if tmp != nil {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				slog.Error("failed to close Redis client", "error", err)
			}
		}()
	}

	// カレンダー
	var holidays calendar.HolidayLister
	if db != nil {
		holidays = calendar.NewHolidayRepository(db)
	}
	cal := calendar.Load(context.Background(), holidays)

	// Usecase
	store := di.NewIndexStore(indexadapters.LoadConfig(), rdb, cal)
	valuationUC := di.NewValuationUsecase(boncadapters.LoadConfig(), store, rdb, db, cal)
	quoteUC := di.NewQuoteIngestUsecase(rdb, db)

	// Handler
	healthH := platformhandler.NewHealthHandler(store)
	boncerH := boncerhandler.NewBoncerHandler(valuationUC)
	quoteH := boncerhandler.NewQuoteHandler(quoteUC)
	indexH := indexhandler.NewIndexHandler(store)

	// ルータ生成
	r := router.NewRouter(healthH, boncerH, quoteH, indexH)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
