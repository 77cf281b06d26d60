package domain

import (
	"time"

	"github.com/tunewave/scheduling-service/pkg/types"
)

// WindowKind тип окна расписания
type WindowKind string

const (
	// WindowOpen окно, в котором провайдер принимает бронирования
	WindowOpen WindowKind = "open"
	// WindowBreak перерыв, вычитаемый из открытых окон
	WindowBreak WindowKind = "break"
)

// AvailabilityWindow окно доступности или перерыв провайдера
// Либо повторяющееся по дню недели (IsRecurring=true, Weekday задан),
// либо привязанное к конкретной дате (IsRecurring=false, Date задан)
// Времена локальные для таймзоны провайдера
type AvailabilityWindow struct {
	ID          int64
	ProviderID  int64
	Kind        WindowKind
	IsRecurring bool
	Weekday     *int       // 0=воскресенье ... 6=суббота; только при IsRecurring
	Date        *time.Time // конкретная дата (без времени); только при !IsRecurring
	StartTime   types.TimeString
	EndTime     types.TimeString
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// AppliesTo проверяет, действует ли окно на указанную локальную дату
func (w *AvailabilityWindow) AppliesTo(localDate time.Time) bool {
	if w.IsRecurring {
		return w.Weekday != nil && *w.Weekday == int(localDate.Weekday())
	}
	if w.Date == nil {
		return false
	}
	y1, m1, d1 := w.Date.Date()
	y2, m2, d2 := localDate.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// IsValid проверяет согласованность окна
func (w *AvailabilityWindow) IsValid() bool {
	if w.StartTime.IsZero() || w.EndTime.IsZero() {
		return false
	}
	if !w.StartTime.IsBefore(w.EndTime) {
		return false
	}
	if w.IsRecurring {
		return w.Weekday != nil && *w.Weekday >= 0 && *w.Weekday <= 6
	}
	return w.Date != nil
}
