package reschedule_booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = errors.New("access denied")

	// ErrCannotReschedule возвращается, когда бронирование в терминальном статусе
	ErrCannotReschedule = errors.New("booking cannot be rescheduled")

	// ErrRescheduleDisabled возвращается, когда провайдер запретил изменение записей
	ErrRescheduleDisabled = errors.New("rescheduling is disabled for this provider")

	// ErrRescheduleTooLate возвращается, когда лимит времени на изменение истёк
	ErrRescheduleTooLate = errors.New("reschedule window has passed")

	// ErrSlotConflict возвращается, когда новый интервал пересекается с существующим бронированием
	ErrSlotConflict = errors.New("slot conflicts with an existing booking")

	// ErrOutsideWorkingHours возвращается, когда новый интервал не попадает в открытые окна
	ErrOutsideWorkingHours = errors.New("requested time is outside provider working hours")

	// ErrTooEarly возвращается, когда до нового начала слота меньше минимального времени
	ErrTooEarly = errors.New("booking is too close to start time")

	// ErrTooFarInFuture возвращается, когда новая дата превышает горизонт бронирования
	ErrTooFarInFuture = errors.New("booking is too far in the future")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
