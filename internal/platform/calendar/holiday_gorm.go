package calendar

import (
	"context"
	"log/slog"
	"time"

	"gorm.io/gorm"
)

// HolidayModel is the side table of market holidays.
type HolidayModel struct {
	ID   uint      `gorm:"primaryKey"`
	Date time.Time `gorm:"not null;uniqueIndex"`
	Name string    `gorm:"size:255"`
}

func (HolidayModel) TableName() string {
	return "holidays"
}

// HolidayRepository reads the holiday side table.
type HolidayRepository struct {
	db *gorm.DB
}

// NewHolidayRepository creates a HolidayRepository backed by db.
func NewHolidayRepository(db *gorm.DB) *HolidayRepository {
	return &HolidayRepository{db: db}
}

// List returns every holiday date in ascending order.
func (r *HolidayRepository) List(ctx context.Context) ([]time.Time, error) {
	var rows []HolidayModel
	if err := r.db.WithContext(ctx).Order("date ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]time.Time, 0, len(rows))
	for _, m := range rows {
		out = append(out, Day(m.Date))
	}
	return out, nil
}

// HolidayLister is the read side Load depends on.
type HolidayLister interface {
	List(ctx context.Context) ([]time.Time, error)
}

// Load builds the calendar once at startup. A missing table or an unreachable
// database is not fatal: the calendar degrades to weekends-only.
func Load(ctx context.Context, repo HolidayLister) *Calendar {
	if repo == nil {
		slog.Warn("holiday table not configured; using weekends-only calendar")
		return WeekendsOnly()
	}
	holidays, err := repo.List(ctx)
	if err != nil {
		slog.Warn("failed to load holidays; using weekends-only calendar", "error", err)
		return WeekendsOnly()
	}
	slog.Info("holiday calendar loaded", "holidays", len(holidays))
	return New(holidays)
}
