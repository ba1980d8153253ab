package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"time"

	"github.com/joho/godotenv"

	boncadapters "boncer_backend/internal/feature/boncer/adapters"
	infradb "boncer_backend/internal/platform/db"
)

// ingest は気配値CSVを market_quotes テーブルへ取り込みます。
//
//	go run ./cmd/ingest -quotes ./data/quotes.csv
func main() {
	path := flag.String("quotes", "./data/quotes.csv", "market quote CSV path")
	flag.Parse()

	if err := godotenv.Load(".env"); err != nil {
		slog.Info(".env not found; using system environment variables")
	}

	db, err := infradb.Open(infradb.LoadConfigFromEnv())
	if err != nil {
		log.Fatal("failed to open database:", err)
	}
	if err := infradb.Migrate(db); err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	cfg := boncadapters.LoadConfig()
	quotes, err := boncadapters.ReadQuoteFile(ctx, *path, cfg.Retry)
	if err != nil {
		log.Fatal("failed to load quotes:", err)
	}

	if err := boncadapters.NewQuoteRepository(db).UpsertBatch(ctx, quotes); err != nil {
		log.Fatal(err)
	}
	slog.Info("ingest ok", "quotes", len(quotes))
}
