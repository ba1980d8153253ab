// Package entity defines the domain models for the indexseries feature.
package entity

import (
	"sort"
	"strings"
	"time"
)

// DateFormat is the ISO layout of series keys.
const DateFormat = "2006-01-02"

// Series maps an ISO date ("2006-01-02") to the last known index reading for that day.
type Series map[string]float64

// Snapshot holds every series keyed by upper-cased index code (e.g. "CER", "A3500", "TAMAR").
// A Snapshot is never mutated after it is published by the store.
type Snapshot map[string]Series

// Point is a single dated index value.
type Point struct {
	Date  time.Time
	Value float64
}

// Delta describes the change between the two most recent points of a series.
type Delta struct {
	LastDate  time.Time
	LastValue float64
	PrevDate  time.Time
	PrevValue float64
	Delta     float64
	DeltaPct  *float64 // Delta / PrevValue as a fraction (0.01 = 1%); nil when PrevValue is zero
}

// Summary is the latest reading of one series together with its change from
// the reading before it. Prev, Delta and DeltaPct are nil for a single-point series.
type Summary struct {
	Code     string
	Last     Point
	Prev     *Point
	Delta    *float64
	DeltaPct *float64
}

// NormalizeCode upper-cases and trims an index code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Len returns the number of points across all series.
func (s Snapshot) Len() int {
	n := 0
	for _, series := range s {
		n += len(series)
	}
	return n
}

// Codes returns the snapshot's index codes in ascending order.
func (s Snapshot) Codes() []string {
	out := make([]string, 0, len(s))
	for code := range s {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}

// Points returns the series sorted ascending by date. Keys that are not valid
// ISO dates are skipped.
func (s Series) Points() []Point {
	out := make([]Point, 0, len(s))
	for k, v := range s {
		d, err := time.Parse(DateFormat, k)
		if err != nil {
			continue
		}
		out = append(out, Point{Date: d, Value: v})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}
