package reschedule_booking

import "time"

// Request модель запроса на перенос бронирования
type Request struct {
	BookingID    int64     // ID бронирования
	UserID       int64     // ID пользователя, выполняющего перенос
	NewStartTime time.Time // Новое начало бронирования (UTC)
}

// Response модель ответа с перенесённым бронированием
type Response struct {
	ID         int64     // ID бронирования
	UserID     int64     // ID пользователя
	ProviderID int64     // ID провайдера
	ServiceID  int64     // ID услуги
	StartTime  time.Time // Новое начало (UTC)
	EndTime    time.Time // Новый конец (UTC)
	Status     string    // Статус бронирования
}
