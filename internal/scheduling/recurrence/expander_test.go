package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tunewave/scheduling-service/internal/domain"
)

func intPtr(v int) *int {
	return &v
}

func mustLocation(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	require.NoError(t, err)
	return loc
}

func TestExpand_WeeklyCount(t *testing.T) {
	ny := mustLocation(t, "America/New_York")
	// Среда 2026-09-02 09:00 по Нью-Йорку
	start := time.Date(2026, 9, 2, 9, 0, 0, 0, ny)

	rule, err := domain.NewRecurrenceRule(domain.FreqWeekly, 1, intPtr(4), nil, nil, nil)
	require.NoError(t, err)

	got, err := Expand(ExpandInput{Start: start, Rule: rule, Location: ny})
	require.NoError(t, err)

	// count=4 включает родителя: 3 дополнительных вхождения с шагом 7 дней
	require.Len(t, got, 3)
	assert.Equal(t, start.AddDate(0, 0, 7).UTC(), got[0])
	assert.Equal(t, start.AddDate(0, 0, 14).UTC(), got[1])
	assert.Equal(t, start.AddDate(0, 0, 21).UTC(), got[2])
}

func TestExpand_DailyInterval(t *testing.T) {
	start := time.Date(2026, 9, 2, 10, 0, 0, 0, time.UTC)

	rule, err := domain.NewRecurrenceRule(domain.FreqDaily, 2, intPtr(3), nil, nil, nil)
	require.NoError(t, err)

	got, err := Expand(ExpandInput{Start: start, Rule: rule, Location: time.UTC})
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, start.AddDate(0, 0, 2), got[0])
	assert.Equal(t, start.AddDate(0, 0, 4), got[1])
}

func TestExpand_MonthlySkipsShortMonths(t *testing.T) {
	// 31 января: февраль и апрель без 31-го числа пропускаются
	start := time.Date(2026, 1, 31, 10, 0, 0, 0, time.UTC)

	rule, err := domain.NewRecurrenceRule(domain.FreqMonthly, 1, intPtr(4), nil, nil, []int{31})
	require.NoError(t, err)

	got, err := Expand(ExpandInput{Start: start, Rule: rule, Location: time.UTC})
	require.NoError(t, err)

	require.Len(t, got, 3)
	assert.Equal(t, time.Date(2026, 3, 31, 10, 0, 0, 0, time.UTC), got[0])
	assert.Equal(t, time.Date(2026, 5, 31, 10, 0, 0, 0, time.UTC), got[1])
	assert.Equal(t, time.Date(2026, 7, 31, 10, 0, 0, 0, time.UTC), got[2])
}

func TestExpand_UntilBound(t *testing.T) {
	start := time.Date(2026, 9, 2, 10, 0, 0, 0, time.UTC)
	until := start.AddDate(0, 0, 15) // помещаются два недельных вхождения

	rule, err := domain.NewRecurrenceRule(domain.FreqWeekly, 1, nil, &until, nil, nil)
	require.NoError(t, err)

	got, err := Expand(ExpandInput{Start: start, Rule: rule, Location: time.UTC})
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, start.AddDate(0, 0, 7), got[0])
	assert.Equal(t, start.AddDate(0, 0, 14), got[1])
}

func TestExpand_CountAndUntilEarliestWins(t *testing.T) {
	start := time.Date(2026, 9, 2, 10, 0, 0, 0, time.UTC)

	t.Run("until earlier than count", func(t *testing.T) {
		until := start.AddDate(0, 0, 8)
		rule, err := domain.NewRecurrenceRule(domain.FreqWeekly, 1, intPtr(10), &until, nil, nil)
		require.NoError(t, err)

		got, err := Expand(ExpandInput{Start: start, Rule: rule, Location: time.UTC})
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})

	t.Run("count earlier than until", func(t *testing.T) {
		until := start.AddDate(0, 0, 100)
		rule, err := domain.NewRecurrenceRule(domain.FreqWeekly, 1, intPtr(3), &until, nil, nil)
		require.NoError(t, err)

		got, err := Expand(ExpandInput{Start: start, Rule: rule, Location: time.UTC})
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})
}

func TestExpand_DefaultHorizonWithoutBounds(t *testing.T) {
	start := time.Date(2026, 9, 2, 10, 0, 0, 0, time.UTC)

	rule, err := domain.NewRecurrenceRule(domain.FreqWeekly, 1, nil, nil, nil, nil)
	require.NoError(t, err)

	got, err := Expand(ExpandInput{Start: start, Rule: rule, Location: time.UTC})
	require.NoError(t, err)

	require.NotEmpty(t, got)
	horizon := start.AddDate(0, 0, domain.MaxRecurrenceHorizonDays)
	for _, occ := range got {
		assert.False(t, occ.After(horizon), "вхождение за годовым горизонтом: %s", occ)
	}
	// Год недельных повторений - 52 вхождения без родителя
	assert.Equal(t, 52, len(got))
}

func TestExpand_WallClockPreservedAcrossDST(t *testing.T) {
	ny := mustLocation(t, "America/New_York")
	// Последняя среда перед окончанием летнего времени (DST заканчивается 2026-11-01)
	start := time.Date(2026, 10, 28, 9, 0, 0, 0, ny)

	rule, err := domain.NewRecurrenceRule(domain.FreqWeekly, 1, intPtr(2), nil, nil, nil)
	require.NoError(t, err)

	got, err := Expand(ExpandInput{Start: start, Rule: rule, Location: ny})
	require.NoError(t, err)

	require.Len(t, got, 1)
	// Локальное настенное время сохраняется: 09:00 остаётся 09:00,
	// а смещение UTC меняется с -4 на -5
	local := got[0].In(ny)
	assert.Equal(t, 9, local.Hour())
	assert.Equal(t, time.Date(2026, 11, 4, 14, 0, 0, 0, time.UTC), got[0])
}

func TestExpand_InvalidInput(t *testing.T) {
	start := time.Date(2026, 9, 2, 10, 0, 0, 0, time.UTC)
	rule, err := domain.NewRecurrenceRule(domain.FreqDaily, 1, intPtr(2), nil, nil, nil)
	require.NoError(t, err)

	_, err = Expand(ExpandInput{Start: start, Rule: nil, Location: time.UTC})
	assert.ErrorIs(t, err, ErrExpandFailed)

	_, err = Expand(ExpandInput{Start: start, Rule: rule, Location: nil})
	assert.ErrorIs(t, err, ErrExpandFailed)
}
