package domain

// Default schedule settings values
const (
	DefaultMinAdvanceMinutes      = 60  // минимум за час до начала слота
	DefaultMaxAdvanceDays         = 90  // горизонт бронирования
	DefaultCancellationLimitHours = 24  // отмена не позднее чем за сутки
	DefaultAllowCancellation      = true
	DefaultTimezone               = "UTC"
)

// Business validation constants
const (
	MinServiceDurationMinutes = 5
	MaxServiceDurationMinutes = 480 // 8 часов
	MinAdvanceMinutesLimit    = 0
	MaxAdvanceMinutesLimit    = 10080 // неделя
	MaxAdvanceDaysLimit       = 365
	MaxNotesLength            = 500
	MaxCancellationReasonLength = 500

	// MaxRecurrenceHorizonDays горизонт разворачивания серии по умолчанию,
	// когда в правиле не заданы ни count, ни until
	MaxRecurrenceHorizonDays = 365
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// InactiveStatuses статусы, не занимающие временной интервал
// Используются при фильтрации для подсчёта конфликтов
var InactiveStatuses = []BookingStatus{
	StatusCancelled,
	StatusNoShow,
}

// ActiveStatuses статусы, занимающие временной интервал
var ActiveStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
}
