package domain

import (
	"time"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
	StatusNoShow    BookingStatus = "no_show"
)

// CancelledBy кто отменил бронирование
type CancelledBy string

const (
	CancelledByUser     CancelledBy = "user"
	CancelledByProvider CancelledBy = "provider"
)

// Booking represents a booked appointment with a service provider
// StartTime/EndTime хранятся в UTC; вся арифметика рабочих часов выполняется
// в таймзоне провайдера и конвертируется в UTC на границе персистентности
type Booking struct {
	ID         int64
	UserID     int64
	ProviderID int64
	ServiceID  int64
	StartTime  time.Time // UTC
	EndTime    time.Time // UTC
	Status     BookingStatus
	Notes      *string

	// RecurrenceRule присутствует только у родителя серии
	// Сгенерированные экземпляры ссылаются на родителя через ParentBookingID
	RecurrenceRule  RecurrenceRule
	ParentBookingID *int64

	ReminderSent bool

	CancellationReason *string
	CancelledAt        *time.Time
	CancelledBy        *CancelledBy

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking still occupies its time interval
func (b *Booking) IsActive() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// IsTerminal returns true if the booking reached a final state
func (b *Booking) IsTerminal() bool {
	return b.Status == StatusCompleted || b.Status == StatusNoShow || b.Status == StatusCancelled
}

// CanBeCancelled returns true if the booking can be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// CanBeRescheduled returns true if the booking can be moved to another slot
func (b *Booking) CanBeRescheduled() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// IsRecurrenceParent returns true if the booking is the parent of a recurring series
func (b *Booking) IsRecurrenceParent() bool {
	return b.RecurrenceRule != nil
}

// CanTransitionTo проверяет допустимость перехода статуса
// pending → confirmed | cancelled
// confirmed → completed | no_show | cancelled
// Терминальные статусы (completed, no_show, cancelled) переходов не имеют
func (b *Booking) CanTransitionTo(next BookingStatus) bool {
	switch b.Status {
	case StatusPending:
		return next == StatusConfirmed || next == StatusCancelled
	case StatusConfirmed:
		return next == StatusCompleted || next == StatusNoShow || next == StatusCancelled
	default:
		return false
	}
}

// ProviderBookingsFilter фильтр для выборки бронирований провайдера
type ProviderBookingsFilter struct {
	ProviderID      int64          // Обязательный параметр
	StartTime       *time.Time     // Начало периода UTC (опционально)
	EndTime         *time.Time     // Конец периода UTC (опционально)
	Status          *BookingStatus // Фильтр по статусу (опционально)
	IncludeInactive bool           // Включать ли отменённые и no-show
}
