package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tunewave/scheduling-service/pkg/types"
)

func TestLoadLocation(t *testing.T) {
	loc, err := LoadLocation("America/New_York")
	require.NoError(t, err)
	assert.Equal(t, "America/New_York", loc.String())

	_, err = LoadLocation("")
	assert.ErrorIs(t, err, ErrInvalidTimezone)

	_, err = LoadLocation("Mars/Olympus_Mons")
	assert.ErrorIs(t, err, ErrInvalidTimezone)
}

func TestCombineDateAndTime(t *testing.T) {
	ny, err := LoadLocation("America/New_York")
	require.NoError(t, err)

	date := time.Date(2026, 9, 2, 0, 0, 0, 0, ny)

	got, err := CombineDateAndTime(date, types.TimeString("09:30"), ny)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 9, 2, 9, 30, 0, 0, ny), got)

	// 09:30 в Нью-Йорке летом = 13:30 UTC
	assert.Equal(t, time.Date(2026, 9, 2, 13, 30, 0, 0, time.UTC), got.UTC())

	_, err = CombineDateAndTime(date, types.TimeString("9:30"), ny)
	assert.Error(t, err)
}

func TestMinutesBetween(t *testing.T) {
	a := time.Date(2026, 9, 2, 10, 0, 0, 0, time.UTC)
	b := time.Date(2026, 9, 2, 11, 30, 0, 0, time.UTC)

	assert.Equal(t, 90, MinutesBetween(a, b))
	assert.Equal(t, -90, MinutesBetween(b, a))
	assert.Equal(t, 0, MinutesBetween(a, a))
}

func TestDateOnly(t *testing.T) {
	ny, err := LoadLocation("America/New_York")
	require.NoError(t, err)

	// 2026-09-03 01:00 UTC - это ещё 2026-09-02 в Нью-Йорке
	moment := time.Date(2026, 9, 3, 1, 0, 0, 0, time.UTC)
	got := DateOnly(moment, ny)
	assert.Equal(t, time.Date(2026, 9, 2, 0, 0, 0, 0, ny), got)
}

func TestCivilDate(t *testing.T) {
	ny, err := LoadLocation("America/New_York")
	require.NoError(t, err)

	// Дата из запроса парсится в полночь UTC, но означает календарный день
	// провайдера: год/месяц/день сохраняются, зона не пересчитывается
	parsed := time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)
	got := CivilDate(parsed, ny)
	assert.Equal(t, time.Date(2026, 9, 2, 0, 0, 0, 0, ny), got)
	assert.Equal(t, time.Wednesday, got.Weekday())

	// DateOnly на том же значении ушёл бы на предыдущий день
	assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, ny), DateOnly(parsed, ny))
}

func TestSameDay(t *testing.T) {
	ny, err := LoadLocation("America/New_York")
	require.NoError(t, err)

	a := time.Date(2026, 9, 3, 1, 0, 0, 0, time.UTC)  // 2026-09-02 вечер в NY
	b := time.Date(2026, 9, 2, 15, 0, 0, 0, time.UTC) // 2026-09-02 день в NY

	assert.True(t, SameDay(a, b, ny))
	assert.False(t, SameDay(a, b, time.UTC))
}

func TestIsDateInPast(t *testing.T) {
	now := time.Date(2026, 9, 2, 12, 0, 0, 0, time.UTC)

	assert.True(t, IsDateInPast(now.AddDate(0, 0, -1), now, time.UTC))
	assert.False(t, IsDateInPast(now, now, time.UTC), "сегодняшний день не в прошлом")
	assert.False(t, IsDateInPast(now.AddDate(0, 0, 1), now, time.UTC))
}
