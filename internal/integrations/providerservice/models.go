package providerservice

// Provider модель сервис-провайдера из каталога ProviderService
type Provider struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	ManagerIDs []int64 `json:"manager_ids"` // пользователи, управляющие расписанием провайдера
}

// Service модель услуги из каталога ProviderService
// Длительность и буфер задают размер слота
type Service struct {
	ID                int64    `json:"id"`
	ProviderID        int64    `json:"provider_id"`
	Name              string   `json:"name"`
	DurationMinutes   int      `json:"duration_minutes"`
	BufferTimeMinutes int      `json:"buffer_time_minutes"`
	Price             *float64 `json:"price,omitempty"`
}

// ErrorResponse модель ошибки от ProviderService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
