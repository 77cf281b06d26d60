package interval

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tunewave/scheduling-service/internal/domain"
)

func at(hour, minute int) time.Time {
	return time.Date(2026, 9, 2, hour, minute, 0, 0, time.UTC)
}

func iv(startHour, startMin, endHour, endMin int) Interval {
	return Interval{Start: at(startHour, startMin), End: at(endHour, endMin)}
}

func TestInterval_Overlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b Interval
		want bool
	}{
		{name: "partial overlap", a: iv(11, 30, 12, 0), b: iv(11, 20, 11, 40), want: true},
		{name: "contained", a: iv(10, 0, 12, 0), b: iv(10, 30, 11, 0), want: true},
		{name: "identical", a: iv(10, 0, 11, 0), b: iv(10, 0, 11, 0), want: true},
		{name: "touching at start is not overlap", a: iv(11, 30, 12, 0), b: iv(11, 0, 11, 30), want: false},
		{name: "touching at end is not overlap", a: iv(11, 30, 12, 0), b: iv(12, 0, 12, 30), want: false},
		{name: "disjoint", a: iv(9, 0, 10, 0), b: iv(14, 0, 15, 0), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Overlaps(tt.b))
			// Пересечение симметрично
			assert.Equal(t, tt.want, tt.b.Overlaps(tt.a))
		})
	}
}

func TestConflicts(t *testing.T) {
	existing := []Interval{iv(9, 0, 10, 0), iv(12, 0, 13, 0)}

	assert.True(t, Conflicts(iv(9, 30, 10, 30), existing))
	assert.False(t, Conflicts(iv(10, 0, 11, 0), existing), "встык к существующему - не конфликт")
	assert.False(t, Conflicts(iv(13, 0, 14, 0), existing))
	assert.False(t, Conflicts(iv(10, 0, 12, 0), existing), "ровно между двумя занятыми")
}

func TestActiveBookingIntervals(t *testing.T) {
	bookings := []*domain.Booking{
		{ID: 1, StartTime: at(9, 0), EndTime: at(10, 0), Status: domain.StatusConfirmed},
		{ID: 2, StartTime: at(10, 0), EndTime: at(11, 0), Status: domain.StatusCancelled},
		{ID: 3, StartTime: at(11, 0), EndTime: at(12, 0), Status: domain.StatusPending},
		{ID: 4, StartTime: at(13, 0), EndTime: at(14, 0), Status: domain.StatusNoShow},
	}

	got := ActiveBookingIntervals(bookings, 0)
	assert.Len(t, got, 2, "отменённые и no-show не занимают интервал")
	assert.Equal(t, at(9, 0), got[0].Start)
	assert.Equal(t, at(11, 0), got[1].Start)

	// Исключение при переносе: бронирование не конфликтует само с собой
	got = ActiveBookingIntervals(bookings, 3)
	assert.Len(t, got, 1)
	assert.Equal(t, at(9, 0), got[0].Start)
}

func TestSubtract(t *testing.T) {
	base := iv(9, 0, 17, 0)

	t.Run("single cut in the middle", func(t *testing.T) {
		got := Subtract(base, []Interval{iv(12, 0, 13, 0)})
		assert.Equal(t, []Interval{iv(9, 0, 12, 0), iv(13, 0, 17, 0)}, got)
	})

	t.Run("cut at the edge", func(t *testing.T) {
		got := Subtract(base, []Interval{iv(9, 0, 10, 0)})
		assert.Equal(t, []Interval{iv(10, 0, 17, 0)}, got)
	})

	t.Run("cut outside leaves base intact", func(t *testing.T) {
		got := Subtract(base, []Interval{iv(18, 0, 19, 0)})
		assert.Equal(t, []Interval{base}, got)
	})

	t.Run("cut covering everything", func(t *testing.T) {
		got := Subtract(base, []Interval{iv(8, 0, 18, 0)})
		assert.Empty(t, got)
	})

	t.Run("multiple cuts sorted result", func(t *testing.T) {
		got := Subtract(base, []Interval{iv(14, 0, 15, 0), iv(10, 0, 11, 0)})
		assert.Equal(t, []Interval{
			iv(9, 0, 10, 0),
			iv(11, 0, 14, 0),
			iv(15, 0, 17, 0),
		}, got)
	})
}
