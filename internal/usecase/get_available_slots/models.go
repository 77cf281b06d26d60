package get_available_slots

import "time"

// Request модель запроса на получение доступных слотов
type Request struct {
	UserID     int64     // ID пользователя (для логирования, не влияет на результат)
	ProviderID int64     // ID провайдера
	ServiceID  int64     // ID услуги
	Date       time.Time // Дата для получения слотов (без времени, в таймзоне провайдера)
}

// Response модель ответа со списком слотов
type Response struct {
	Date       time.Time // Дата, на которую запрашивались слоты
	ProviderID int64     // ID провайдера
	ServiceID  int64     // ID услуги
	Timezone   string    // Таймзона провайдера (IANA)
	Slots      []Slot    // Список слотов по возрастанию времени начала
}

// Slot модель временного слота
type Slot struct {
	StartTime time.Time // Начало слота (UTC)
	EndTime   time.Time // Конец слота (UTC)
	Available bool      // Свободен ли слот для бронирования
}
