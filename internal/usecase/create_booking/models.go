package create_booking

import (
	"time"

	"github.com/tunewave/scheduling-service/internal/domain"
)

// RecurrenceSpec описание правила повторения в запросе
type RecurrenceSpec struct {
	Frequency  string     // "daily" | "weekly" | "monthly"
	Interval   int        // шаг повторения, >= 1
	Count      *int       // количество вхождений включая первое (опционально)
	Until      *time.Time // конец серии включительно (опционально)
	ByDay      []int      // дни недели 0=воскресенье ... 6=суббота, только для weekly
	ByMonthDay []int      // дни месяца 1..31, только для monthly
}

// ToDomainRule конвертирует спецификацию в domain правило с валидацией
func (r *RecurrenceSpec) ToDomainRule() (domain.RecurrenceRule, error) {
	return domain.NewRecurrenceRule(
		domain.Frequency(r.Frequency),
		r.Interval,
		r.Count,
		r.Until,
		r.ByDay,
		r.ByMonthDay,
	)
}

// Request модель запроса на создание бронирования
type Request struct {
	UserID     int64           // ID пользователя
	ProviderID int64           // ID провайдера
	ServiceID  int64           // ID услуги
	StartTime  time.Time       // Начало бронирования (UTC)
	Notes      *string         // Заметки (опционально)
	Recurrence *RecurrenceSpec // Правило повторения (опционально)
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID              int64      // ID родительского бронирования
	UserID          int64      // ID пользователя
	ProviderID      int64      // ID провайдера
	ServiceID       int64      // ID услуги
	StartTime       time.Time  // Начало (UTC)
	EndTime         time.Time  // Конец (UTC)
	Status          string     // Статус бронирования
	Notes           *string    // Заметки
	OccurrenceTimes []time.Time // Созданные вхождения серии (UTC), без родителя
	SkippedTimes    []time.Time // Вхождения серии, пропущенные из-за конфликтов (UTC)
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
