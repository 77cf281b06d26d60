package domain

import "time"

// ScheduleSettings политика бронирования провайдера (singleton на провайдера)
// Управляет политикой, а не самой доступностью - окна задаются AvailabilityWindow
type ScheduleSettings struct {
	ID                     int64
	ProviderID             int64
	MinAdvanceMinutes      int // минимальное время до начала слота
	MaxAdvanceDays         int // горизонт бронирования; 0 = без ограничения
	AllowCancellation      bool
	CancellationLimitHours int    // отмена/перенос не позднее чем за N часов
	Timezone               string // IANA, например "America/New_York"
	HolidayDates           []time.Time
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// DefaultScheduleSettings настройки по умолчанию, когда провайдер их не задал
func DefaultScheduleSettings(providerID int64) *ScheduleSettings {
	return &ScheduleSettings{
		ProviderID:             providerID,
		MinAdvanceMinutes:      DefaultMinAdvanceMinutes,
		MaxAdvanceDays:         DefaultMaxAdvanceDays,
		AllowCancellation:      DefaultAllowCancellation,
		CancellationLimitHours: DefaultCancellationLimitHours,
		Timezone:               DefaultTimezone,
	}
}

// IsHoliday проверяет, что локальная дата входит в список выходных
func (s *ScheduleSettings) IsHoliday(localDate time.Time) bool {
	y, m, d := localDate.Date()
	for _, h := range s.HolidayDates {
		hy, hm, hd := h.Date()
		if y == hy && m == hm && d == hd {
			return true
		}
	}
	return false
}

// HasAdvanceLimit возвращает true, если задан горизонт бронирования
func (s *ScheduleSettings) HasAdvanceLimit() bool {
	return s.MaxAdvanceDays > 0
}
