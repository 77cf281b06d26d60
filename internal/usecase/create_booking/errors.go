package create_booking

import "errors"

var (
	// ErrProviderNotFound возвращается, когда провайдер не найден
	ErrProviderNotFound = errors.New("provider not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("service not found")

	// ErrSlotConflict возвращается, когда интервал пересекается с существующим бронированием
	ErrSlotConflict = errors.New("slot conflicts with an existing booking")

	// ErrOutsideWorkingHours возвращается, когда интервал не попадает в открытые окна провайдера
	ErrOutsideWorkingHours = errors.New("requested time is outside provider working hours")

	// ErrTooEarly возвращается, когда до начала слота меньше минимального времени
	ErrTooEarly = errors.New("booking is too close to start time")

	// ErrTooFarInFuture возвращается, когда дата превышает горизонт бронирования
	ErrTooFarInFuture = errors.New("booking is too far in the future")

	// ErrInvalidRecurrence возвращается при некорректном правиле повторения
	ErrInvalidRecurrence = errors.New("invalid recurrence rule")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
