package adapters

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"boncer_backend/internal/feature/indexseries/domain/entity"
	"boncer_backend/internal/feature/indexseries/usecase"
)

// document is the wire format of the index source:
//
//	{"series": {"CER": {"2024-03-01": 250.1234, ...}, "TAMAR": {...}}}
//
// Readings are kept raw so that a null or non-numeric point only drops that point.
type document struct {
	Series map[string]json.RawMessage `json:"series"`
}

// decodeDocument parses raw JSON into a Snapshot. Keys that are not ISO dates,
// null readings and non-numeric readings are dropped, so a lookup on such a day
// falls through to earlier dates.
func decodeDocument(b []byte) (entity.Snapshot, error) {
	var doc document
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", usecase.ErrMalformedDocument, err)
	}
	if doc.Series == nil {
		return nil, fmt.Errorf("%w: missing \"series\" field", usecase.ErrMalformedDocument)
	}

	out := make(entity.Snapshot, len(doc.Series))
	for code, raw := range doc.Series {
		var values map[string]json.RawMessage
		if err := json.Unmarshal(raw, &values); err != nil {
			slog.Warn("skipping malformed index series", "code", code, "error", err)
			continue
		}

		series := make(entity.Series, len(values))
		for k, rv := range values {
			d, err := time.Parse(entity.DateFormat, k)
			if err != nil {
				slog.Warn("skipping invalid index date", "code", code, "date", k)
				continue
			}
			v, ok := decodeReading(rv)
			if !ok {
				slog.Debug("skipping non-numeric index reading", "code", code, "date", k)
				continue
			}
			series[d.Format(entity.DateFormat)] = v
		}
		out[entity.NormalizeCode(code)] = series
	}
	return out, nil
}

// decodeReading accepts only JSON numbers.
func decodeReading(raw json.RawMessage) (float64, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, false
	}
	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, false
	}
	return v, true
}

// encodeDocument is the inverse of decodeDocument, used by the cache decorator.
func encodeDocument(s entity.Snapshot) ([]byte, error) {
	doc := make(map[string]map[string]map[string]float64, 1)
	series := make(map[string]map[string]float64, len(s))
	for code, values := range s {
		series[code] = values
	}
	doc["series"] = series
	return json.Marshal(doc)
}
