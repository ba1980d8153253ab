package adapters

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"boncer_backend/internal/feature/boncer/domain/entity"
	"boncer_backend/internal/shared/retry"
)

type quoteColumn int

const (
	quoteTicker quoteColumn = iota
	quoteDirty
	quoteClean
	quoteVolume
	quoteChange
)

var quoteHeaderAliases = map[string]quoteColumn{
	"ticker":          quoteTicker,
	"especie":         quoteTicker,
	"simbolo":         quoteTicker,
	"symbol":          quoteTicker,
	"preciosucio":     quoteDirty,
	"dirtyprice":      quoteDirty,
	"dirty":           quoteDirty,
	"ultimo":          quoteDirty,
	"preciolimpio":    quoteClean,
	"cleanprice":      quoteClean,
	"clean":           quoteClean,
	"volumen":         quoteVolume,
	"volume":          quoteVolume,
	"variacion":       quoteChange,
	"variaciondiaria": quoteChange,
	"dailychangepct":  quoteChange,
	"change":          quoteChange,
}

// ReadQuoteFile reads a market quote CSV and returns snapshots keyed by
// normalized ticker. Later rows for the same ticker replace earlier ones.
func ReadQuoteFile(ctx context.Context, path string, policy retry.Policy) (map[string]entity.MarketSnapshot, error) {
	var b []byte
	err := retry.Do(ctx, policy, "read quote table", func(ctx context.Context) error {
		var err error
		b, err = os.ReadFile(path)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("read quotes %s: %w", path, err)
	}
	return parseQuoteTable(b)
}

func parseQuoteTable(b []byte) (map[string]entity.MarketSnapshot, error) {
	b = bytes.TrimPrefix(b, []byte("\xef\xbb\xbf"))
	reader := csv.NewReader(bytes.NewReader(b))
	reader.Comma = detectSeparator(b)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read quote header: %w", err)
	}
	cols := make(map[quoteColumn]int, len(header))
	for i, h := range header {
		if c, ok := quoteHeaderAliases[foldHeader(h)]; ok {
			if _, dup := cols[c]; !dup {
				cols[c] = i
			}
		}
	}
	if _, ok := cols[quoteTicker]; !ok {
		return nil, fmt.Errorf("quote table has no ticker column: %q", strings.Join(header, ","))
	}

	cell := func(record []string, c quoteColumn) string {
		i, ok := cols[c]
		if !ok || i >= len(record) {
			return ""
		}
		return record[i]
	}

	out := make(map[string]entity.MarketSnapshot)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read quote row: %w", err)
		}
		ticker := entity.NormalizeTicker(cell(record, quoteTicker))
		if ticker == "" {
			continue
		}
		out[ticker] = entity.MarketSnapshot{
			DirtyPrice:     parseNumber(cell(record, quoteDirty)),
			CleanPrice:     parseNumber(cell(record, quoteClean)),
			Volume:         parseNumber(cell(record, quoteVolume)),
			DailyChangePct: parsePercentPoints(cell(record, quoteChange)),
		}
	}
	return out, nil
}
