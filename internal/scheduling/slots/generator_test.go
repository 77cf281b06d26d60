package slots

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tunewave/scheduling-service/internal/domain"
	"github.com/tunewave/scheduling-service/internal/scheduling/interval"
)

func at(hour, minute int) time.Time {
	return time.Date(2026, 9, 2, hour, minute, 0, 0, time.UTC)
}

func TestGenerate_FillsWindow(t *testing.T) {
	// Окно 10:00-12:00, услуга 30 минут без буфера - ровно 4 слота
	got := Generate(GenerateInput{
		OpenWindows:     []interval.Interval{{Start: at(10, 0), End: at(12, 0)}},
		DurationMinutes: 30,
		Now:             at(6, 0),
	})

	require.Len(t, got, 4)
	assert.Equal(t, at(10, 0), got[0].StartTime)
	assert.Equal(t, at(10, 30), got[0].EndTime)
	assert.Equal(t, at(11, 30), got[3].StartTime)
	for _, slot := range got {
		assert.True(t, slot.IsAvailable)
		assert.False(t, slot.IsBooked)
	}
}

func TestGenerate_BufferBetweenSlots(t *testing.T) {
	// Шаг = длительность + буфер, но сам слот остаётся длиной duration
	got := Generate(GenerateInput{
		OpenWindows:     []interval.Interval{{Start: at(10, 0), End: at(12, 0)}},
		DurationMinutes: 30,
		BufferMinutes:   15,
		Now:             at(6, 0),
	})

	require.Len(t, got, 3)
	assert.Equal(t, at(10, 0), got[0].StartTime)
	assert.Equal(t, at(10, 45), got[1].StartTime)
	assert.Equal(t, at(11, 30), got[2].StartTime)
	assert.Equal(t, at(12, 0), got[2].EndTime)
}

func TestGenerate_PartialSlotDropped(t *testing.T) {
	// Окно 10:00-10:50: второй слот не помещается целиком
	got := Generate(GenerateInput{
		OpenWindows:     []interval.Interval{{Start: at(10, 0), End: at(10, 50)}},
		DurationMinutes: 30,
		Now:             at(6, 0),
	})

	require.Len(t, got, 1)
	assert.Equal(t, at(10, 0), got[0].StartTime)
}

func TestGenerate_BookedSlotMarked(t *testing.T) {
	got := Generate(GenerateInput{
		OpenWindows:     []interval.Interval{{Start: at(9, 0), End: at(11, 0)}},
		DurationMinutes: 30,
		Bookings: []*domain.Booking{
			{ID: 1, StartTime: at(10, 0), EndTime: at(10, 30), Status: domain.StatusConfirmed},
		},
		Now: at(6, 0),
	})

	require.Len(t, got, 4)
	assert.True(t, got[0].IsAvailable, "09:00")
	assert.True(t, got[1].IsAvailable, "09:30")
	assert.False(t, got[2].IsAvailable, "10:00 занят")
	assert.True(t, got[2].IsBooked)
	assert.True(t, got[3].IsAvailable, "10:30 встык к занятому - свободен")
}

func TestGenerate_CancelledBookingDoesNotBlock(t *testing.T) {
	got := Generate(GenerateInput{
		OpenWindows:     []interval.Interval{{Start: at(10, 0), End: at(10, 30)}},
		DurationMinutes: 30,
		Bookings: []*domain.Booking{
			{ID: 1, StartTime: at(10, 0), EndTime: at(10, 30), Status: domain.StatusCancelled},
		},
		Now: at(6, 0),
	})

	require.Len(t, got, 1)
	assert.True(t, got[0].IsAvailable)
}

func TestGenerate_MinAdvanceCutsNearSlots(t *testing.T) {
	// now=09:45, min advance 30 минут: слоты раньше 10:15 недоступны
	got := Generate(GenerateInput{
		OpenWindows:       []interval.Interval{{Start: at(9, 0), End: at(12, 0)}},
		DurationMinutes:   60,
		Now:               at(9, 45),
		MinAdvanceMinutes: 30,
	})

	require.Len(t, got, 3)
	assert.False(t, got[0].IsAvailable, "09:00 уже прошёл")
	assert.False(t, got[0].IsBooked, "недоступен по времени, но не занят")
	assert.False(t, got[1].IsAvailable, "10:00 раньше 10:15")
	assert.True(t, got[2].IsAvailable, "11:00")
}

func TestGenerate_MultipleWindowsSorted(t *testing.T) {
	got := Generate(GenerateInput{
		OpenWindows: []interval.Interval{
			{Start: at(14, 0), End: at(15, 0)},
			{Start: at(9, 0), End: at(10, 0)},
		},
		DurationMinutes: 60,
		Now:             at(6, 0),
	})

	require.Len(t, got, 2)
	assert.Equal(t, at(9, 0), got[0].StartTime)
	assert.Equal(t, at(14, 0), got[1].StartTime)
}

func TestGenerate_ZeroDuration(t *testing.T) {
	got := Generate(GenerateInput{
		OpenWindows:     []interval.Interval{{Start: at(9, 0), End: at(17, 0)}},
		DurationMinutes: 0,
		Now:             at(6, 0),
	})
	assert.Empty(t, got)
}
