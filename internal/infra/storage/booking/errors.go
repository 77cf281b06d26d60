package booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking.repository: booking not found")

	// ErrSlotConflict возвращается, когда интервал бронирования пересекается
	// с существующим (сработал exclusion constraint на границе БД)
	ErrSlotConflict = errors.New("booking.repository: booking interval conflicts with an existing booking")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("booking.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("booking.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("booking.repository: failed to scan row")

	// ErrEncodeRule возвращается при ошибке сериализации правила повторения
	ErrEncodeRule = errors.New("booking.repository: failed to encode recurrence rule")
)
