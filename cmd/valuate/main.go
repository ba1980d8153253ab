package main

import (
	"context"
	"encoding/json"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"boncer_backend/internal/app/di"
	boncadapters "boncer_backend/internal/feature/boncer/adapters"
	"boncer_backend/internal/feature/boncer/transport/http/dto"
	indexadapters "boncer_backend/internal/feature/indexseries/adapters"
	"boncer_backend/internal/platform/calendar"
	infradb "boncer_backend/internal/platform/db"
)

// valuate は1回だけ評価を実行し、GET /boncer と同じ形式のJSONを標準出力に書き出します。
func main() {
	if err := godotenv.Load(".env"); err != nil {
		slog.Info(".env not found; using system environment variables")
	}

	var db *gorm.DB
	if tmp, err := infradb.Open(infradb.LoadConfigFromEnv()); err != nil {
		slog.Warn("database unavailable; valuing without quotes and holidays", "error", err)
	} else {
		db = tmp
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	var holidays calendar.HolidayLister
	if db != nil {
		holidays = calendar.NewHolidayRepository(db)
	}
	cal := calendar.Load(ctx, holidays)

	store := di.NewIndexStore(indexadapters.LoadConfig(), nil, cal)
	uc := di.NewValuationUsecase(boncadapters.LoadConfig(), store, nil, db, cal)

	report, err := uc.Valuate(ctx, time.Now())
	if err != nil {
		log.Fatal(err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(dto.NewReportResponse(report)); err != nil {
		log.Fatal(err)
	}
}
