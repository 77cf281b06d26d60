// Package slots генератор кандидат-слотов внутри открытых окон доступности
package slots

import (
	"time"

	"github.com/tunewave/scheduling-service/internal/domain"
	"github.com/tunewave/scheduling-service/internal/scheduling/interval"
)

// GenerateInput входные данные генератора слотов на один календарный день
type GenerateInput struct {
	// OpenWindows открытые окна дня (UTC), результат availability.Resolve
	OpenWindows []interval.Interval
	// DurationMinutes длительность услуги
	DurationMinutes int
	// BufferMinutes технологический буфер между слотами
	BufferMinutes int
	// Bookings существующие бронирования провайдера на этот день
	Bookings []*domain.Booking
	// Now текущий момент
	Now time.Time
	// MinAdvanceMinutes минимальное время до начала слота
	MinAdvanceMinutes int
}

// Generate порождает упорядоченную последовательность слотов
//
// В каждом окне слоты идут с начала окна длиной duration с шагом duration+buffer,
// пока слот целиком помещается в окно (slotStart + duration <= windowEnd)
// Слот доступен, только если он не пересекается с активным бронированием
// и начинается не раньше now + minAdvance (это отсекает и прошедшие слоты)
// Слоты возвращаются по возрастанию времени начала по всем окнам дня
func Generate(in GenerateInput) []domain.TimeSlot {
	if in.DurationMinutes <= 0 {
		return []domain.TimeSlot{}
	}

	duration := time.Duration(in.DurationMinutes) * time.Minute
	step := time.Duration(in.DurationMinutes+in.BufferMinutes) * time.Minute
	minStart := in.Now.Add(time.Duration(in.MinAdvanceMinutes) * time.Minute)

	busy := interval.ActiveBookingIntervals(in.Bookings, 0)

	windows := make([]interval.Interval, len(in.OpenWindows))
	copy(windows, in.OpenWindows)
	interval.Sort(windows)

	result := make([]domain.TimeSlot, 0)

	for _, w := range windows {
		for start := w.Start; !start.Add(duration).After(w.End); start = start.Add(step) {
			candidate := interval.Interval{Start: start, End: start.Add(duration)}

			booked := interval.Conflicts(candidate, busy)
			tooSoon := start.Before(minStart)

			result = append(result, domain.TimeSlot{
				StartTime:   candidate.Start,
				EndTime:     candidate.End,
				IsBooked:    booked,
				IsAvailable: !booked && !tooSoon,
			})
		}
	}

	return result
}
