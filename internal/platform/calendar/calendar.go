// Package calendar classifies trading days and computes business-day offsets
// for Argentine settlement.
package calendar

import "time"

// DateFormat is the ISO layout used for holiday keys and index series keys.
const DateFormat = "2006-01-02"

// MarketLocation returns the Buenos Aires time zone, or a fixed UTC-3 zone
// when tzdata is not installed.
func MarketLocation() *time.Location {
	loc, err := time.LoadLocation("America/Argentina/Buenos_Aires")
	if err != nil {
		return time.FixedZone("ART", -3*60*60)
	}
	return loc
}

// Calendar holds an immutable holiday set. The zero value is a weekends-only calendar.
type Calendar struct {
	holidays map[string]struct{}
}

// New builds a Calendar from the given holiday dates.
func New(holidays []time.Time) *Calendar {
	set := make(map[string]struct{}, len(holidays))
	for _, h := range holidays {
		set[Day(h).Format(DateFormat)] = struct{}{}
	}
	return &Calendar{holidays: set}
}

// WeekendsOnly returns a calendar without holidays.
func WeekendsOnly() *Calendar {
	return &Calendar{}
}

// Day truncates t to midnight UTC of its calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of calendar days from start to end.
func DaysBetween(start, end time.Time) int {
	return int(Day(end).Sub(Day(start)).Hours() / 24)
}

// HolidayCount returns the number of loaded holidays.
func (c *Calendar) HolidayCount() int {
	return len(c.holidays)
}

// IsHoliday reports whether t is in the holiday set.
func (c *Calendar) IsHoliday(t time.Time) bool {
	_, ok := c.holidays[Day(t).Format(DateFormat)]
	return ok
}

// IsBusinessDay checks weekends and the holiday set.
func (c *Calendar) IsBusinessDay(t time.Time) bool {
	if isWeekend(t) {
		return false
	}
	return !c.IsHoliday(t)
}

// AddBusinessDays advances one day at a time until n business days have elapsed.
// Used for the T+1 settlement fallback.
func (c *Calendar) AddBusinessDays(t time.Time, n int) time.Time {
	t = Day(t)
	for n > 0 {
		t = t.AddDate(0, 0, 1)
		if c.IsBusinessDay(t) {
			n--
		}
	}
	return t
}

// SubtractBusinessDaysWeekendsOnly steps back n weekdays, ignoring holidays.
// The CER reference offset uses this variant; it intentionally differs from
// AddBusinessDays.
func (c *Calendar) SubtractBusinessDaysWeekendsOnly(t time.Time, n int) time.Time {
	t = Day(t)
	for n > 0 {
		t = t.AddDate(0, 0, -1)
		if !isWeekend(t) {
			n--
		}
	}
	return t
}

func isWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
