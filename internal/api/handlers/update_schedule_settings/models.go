package update_schedule_settings

import (
	"github.com/tunewave/scheduling-service/internal/service/schedule/models"
)

// UpdateSettingsRequest - запрос на обновление настроек расписания провайдера
type UpdateSettingsRequest struct {
	MinAdvanceMinutes      int      `json:"minAdvanceMinutes"`
	MaxAdvanceDays         int      `json:"maxAdvanceDays"`
	AllowCancellation      bool     `json:"allowCancellation"`
	CancellationLimitHours int      `json:"cancellationLimitHours"`
	Timezone               string   `json:"timezone"`
	HolidayDates           []string `json:"holidayDates,omitempty"`
}

// ToServiceRequest конвертирует HTTP запрос в запрос сервисного слоя.
// Идентификаторы берутся из пути и контекста аутентификации, не из тела.
func (r *UpdateSettingsRequest) ToServiceRequest(providerID, userID int64) *models.UpdateSettingsRequest {
	return &models.UpdateSettingsRequest{
		UserID:                 userID,
		ProviderID:             providerID,
		MinAdvanceMinutes:      r.MinAdvanceMinutes,
		MaxAdvanceDays:         r.MaxAdvanceDays,
		AllowCancellation:      r.AllowCancellation,
		CancellationLimitHours: r.CancellationLimitHours,
		Timezone:               r.Timezone,
		HolidayDates:           r.HolidayDates,
	}
}
