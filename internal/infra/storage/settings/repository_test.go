package settings

import (
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHolidayDates(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		dates, err := parseHolidayDates(nil)
		require.NoError(t, err)
		assert.Empty(t, dates)
	})

	t.Run("plain dates", func(t *testing.T) {
		dates, err := parseHolidayDates([]string{"2026-01-01", "2026-12-25"})
		require.NoError(t, err)
		require.Len(t, dates, 2)
		assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), dates[0])
		assert.Equal(t, time.Date(2026, 12, 25, 0, 0, 0, 0, time.UTC), dates[1])
	})

	t.Run("with time part", func(t *testing.T) {
		// Некоторые конфигурации возвращают DATE с временной частью
		dates, err := parseHolidayDates([]string{"2026-01-01T00:00:00Z"})
		require.NoError(t, err)
		require.Len(t, dates, 1)
		assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), dates[0])
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := parseHolidayDates([]string{"not-a-date"})
		assert.Error(t, err)
	})
}

// Сырое значение DATE[] от драйвера должно читаться через pq.StringArray:
// скан элементов массива напрямую в time.Time в pq не реализован
func TestHolidayDatesScanRoundTrip(t *testing.T) {
	var holidays pq.StringArray
	require.NoError(t, holidays.Scan([]byte("{2026-01-01,2026-12-25}")))

	dates, err := parseHolidayDates(holidays)
	require.NoError(t, err)
	require.Len(t, dates, 2)
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), dates[0])
	assert.Equal(t, time.Date(2026, 12, 25, 0, 0, 0, 0, time.UTC), dates[1])
}
