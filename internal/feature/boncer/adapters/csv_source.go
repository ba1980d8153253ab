package adapters

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"boncer_backend/internal/feature/boncer/domain/entity"
	"boncer_backend/internal/feature/boncer/usecase"
	"boncer_backend/internal/shared/retry"
)

// CSVSource reads the cashflow table from a CSV file. Both ',' and ';'
// separated files are accepted.
type CSVSource struct {
	path   string
	policy retry.Policy
}

var _ usecase.CashflowSource = (*CSVSource)(nil)

// NewCSVSource creates a CSVSource for path.
func NewCSVSource(path string, policy retry.Policy) *CSVSource {
	return &CSVSource{path: path, policy: policy}
}

// Rows reads the whole table on every call.
func (s *CSVSource) Rows(ctx context.Context) ([]entity.CashflowRow, error) {
	var b []byte
	err := retry.Do(ctx, s.policy, "read cashflow table", func(ctx context.Context) error {
		var err error
		b, err = os.ReadFile(s.path)
		return err
	})
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s not found", usecase.ErrSourceUnavailable, s.path)
		}
		return nil, fmt.Errorf("%w: %v", usecase.ErrSourceUnavailable, err)
	}
	return parseCashflowTable(b)
}

func parseCashflowTable(b []byte) ([]entity.CashflowRow, error) {
	b = bytes.TrimPrefix(b, []byte("\xef\xbb\xbf"))
	reader := csv.NewReader(bytes.NewReader(b))
	reader.Comma = detectSeparator(b)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty table", usecase.ErrStructural)
		}
		return nil, fmt.Errorf("%w: %v", usecase.ErrSourceUnavailable, err)
	}
	cols := resolveHeader(header)
	for _, required := range []column{colTicker, colDate} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("%w: header %q", usecase.ErrStructural, strings.Join(header, ","))
		}
	}

	var rows []entity.CashflowRow
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			slog.Warn("skipping unreadable cashflow row", "line", line, "error", err)
			continue
		}
		if isBlank(record) {
			continue
		}
		rows = append(rows, toRow(record, cols))
	}
	return rows, nil
}

// detectSeparator picks ';' when the header line has more semicolons than commas.
func detectSeparator(b []byte) rune {
	first := b
	if i := bytes.IndexByte(b, '\n'); i >= 0 {
		first = b[:i]
	}
	if bytes.Count(first, []byte(";")) > bytes.Count(first, []byte(",")) {
		return ';'
	}
	return ','
}

func isBlank(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func toRow(record []string, cols map[column]int) entity.CashflowRow {
	cell := func(c column) string {
		i, ok := cols[c]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}
	return entity.CashflowRow{
		Ticker:               cell(colTicker),
		ISIN:                 cell(colISIN),
		Issuer:               cell(colIssuer),
		FaceValue:            parseNumber(cell(colFaceValue)),
		CouponRate:           parseNumber(cell(colCoupon)),
		InitialIndexValue:    parseNumber(cell(colInitialIndex)),
		CapitalizationFactor: parseNumber(cell(colCapFactor)),
		Date:                 parseDate(cell(colDate)),
		SettlementDate:       parseDate(cell(colSettlement)),
		Amount:               parseNumber(cell(colAmount)),
		Principal:            parseNumber(cell(colPrincipal)),
		Interest:             parseNumber(cell(colInterest)),
	}
}
