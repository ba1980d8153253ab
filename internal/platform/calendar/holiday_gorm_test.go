package calendar

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to initialize test database")
	return db
}

type mockHolidayLister struct {
	listFn func(ctx context.Context) ([]time.Time, error)
}

func (m *mockHolidayLister) List(ctx context.Context) ([]time.Time, error) {
	return m.listFn(ctx)
}

func TestHolidayRepository_List(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	require.NoError(t, db.AutoMigrate(&HolidayModel{}))
	require.NoError(t, db.Create(&[]HolidayModel{
		{Date: date(2024, 3, 29), Name: "Viernes Santo"},
		{Date: date(2024, 3, 28), Name: "Jueves Santo"},
	}).Error)

	repo := NewHolidayRepository(db)
	days, err := repo.List(context.Background())

	require.NoError(t, err)
	require.Len(t, days, 2)
	assert.True(t, days[0].Equal(date(2024, 3, 28)), "holidays should be ordered ascending")
	assert.True(t, days[1].Equal(date(2024, 3, 29)))
}

func TestHolidayRepository_List_MissingTable(t *testing.T) {
	t.Parallel()

	repo := NewHolidayRepository(setupTestDB(t))
	_, err := repo.List(context.Background())

	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("loads holidays", func(t *testing.T) {
		t.Parallel()
		cal := Load(context.Background(), &mockHolidayLister{
			listFn: func(ctx context.Context) ([]time.Time, error) {
				return []time.Time{date(2024, 3, 28)}, nil
			},
		})
		assert.Equal(t, 1, cal.HolidayCount())
		assert.False(t, cal.IsBusinessDay(date(2024, 3, 28)))
	})

	t.Run("degrades to weekends only on error", func(t *testing.T) {
		t.Parallel()
		cal := Load(context.Background(), &mockHolidayLister{
			listFn: func(ctx context.Context) ([]time.Time, error) {
				return nil, errors.New("no such table: holidays")
			},
		})
		assert.Equal(t, 0, cal.HolidayCount())
		assert.True(t, cal.IsBusinessDay(date(2024, 3, 28)))
	})

	t.Run("nil repository", func(t *testing.T) {
		t.Parallel()
		cal := Load(context.Background(), nil)
		assert.Equal(t, 0, cal.HolidayCount())
	})

	t.Run("missing table through gorm", func(t *testing.T) {
		t.Parallel()
		cal := Load(context.Background(), NewHolidayRepository(setupTestDB(t)))
		assert.Equal(t, 0, cal.HolidayCount())
	})
}
