// Package interval детектор конфликтов временных интервалов
// Полуоткрытая семантика [start, end): соприкасающиеся интервалы не конфликтуют
package interval

import (
	"sort"
	"time"

	"github.com/tunewave/scheduling-service/internal/domain"
)

// Interval полуоткрытый временной интервал [Start, End)
type Interval struct {
	Start time.Time
	End   time.Time
}

// IsValid проверяет, что конец строго позже начала
func (i Interval) IsValid() bool {
	return i.End.After(i.Start)
}

// Overlaps проверяет пересечение с другим интервалом
// Строгие неравенства: если один интервал заканчивается ровно там,
// где начинается другой - пересечения НЕТ
//
// Примеры:
// - [11:30, 12:00) и [11:20, 11:40) → пересекаются
// - [11:30, 12:00) и [11:00, 11:30) → НЕ пересекаются (граничат)
// - [11:30, 12:00) и [12:00, 12:30) → НЕ пересекаются (граничат)
func (i Interval) Overlaps(other Interval) bool {
	return i.Start.Before(other.End) && i.End.After(other.Start)
}

// Conflicts проверяет, пересекается ли кандидат хотя бы с одним из существующих интервалов
// Одно и то же правило применяется для проверок бронирование-бронирование
// и бронирование-перерыв, чтобы исключить асимметричные краевые ошибки
func Conflicts(candidate Interval, existing []Interval) bool {
	for _, e := range existing {
		if candidate.Overlaps(e) {
			return true
		}
	}
	return false
}

// FromBooking строит интервал из бронирования
func FromBooking(b *domain.Booking) Interval {
	return Interval{Start: b.StartTime, End: b.EndTime}
}

// ActiveBookingIntervals собирает интервалы активных бронирований
// Отменённые и no-show интервал не занимают
// excludeID - ID бронирования, которое нужно исключить (0 = не исключать);
// используется при переносе, чтобы бронирование не конфликтовало само с собой
func ActiveBookingIntervals(bookings []*domain.Booking, excludeID int64) []Interval {
	intervals := make([]Interval, 0, len(bookings))
	for _, b := range bookings {
		if !b.IsActive() {
			continue
		}
		if excludeID != 0 && b.ID == excludeID {
			continue
		}
		intervals = append(intervals, FromBooking(b))
	}
	return intervals
}

// Sort упорядочивает интервалы по возрастанию начала
func Sort(intervals []Interval) {
	sort.Slice(intervals, func(i, j int) bool {
		return intervals[i].Start.Before(intervals[j].Start)
	})
}

// Subtract вычитает из интервала набор интервалов, возвращая оставшиеся куски
// Используется для вычитания перерывов из окон доступности
func Subtract(base Interval, cuts []Interval) []Interval {
	result := []Interval{base}

	for _, cut := range cuts {
		next := make([]Interval, 0, len(result))
		for _, piece := range result {
			if !piece.Overlaps(cut) {
				next = append(next, piece)
				continue
			}
			// Левый остаток до начала выреза
			if piece.Start.Before(cut.Start) {
				next = append(next, Interval{Start: piece.Start, End: cut.Start})
			}
			// Правый остаток после конца выреза
			if piece.End.After(cut.End) {
				next = append(next, Interval{Start: cut.End, End: piece.End})
			}
		}
		result = next
	}

	Sort(result)
	return result
}
