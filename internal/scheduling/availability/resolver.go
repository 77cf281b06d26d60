// Package availability резолвер окон доступности провайдера на календарную дату
// Сводит повторяющиеся недельные окна, переопределения на конкретную дату,
// перерывы, праздничные даты и политику горизонта бронирования
// в упорядоченный список открытых интервалов (UTC)
package availability

import (
	"fmt"
	"time"

	"github.com/tunewave/scheduling-service/internal/domain"
	"github.com/tunewave/scheduling-service/internal/scheduling/interval"
	"github.com/tunewave/scheduling-service/internal/scheduling/timeutil"
)

// ResolveInput входные данные резолвера
type ResolveInput struct {
	// Windows окна расписания провайдера - открытые и перерывы вместе
	Windows []*domain.AvailabilityWindow
	// Settings политика бронирования провайдера
	Settings *domain.ScheduleSettings
	// Date запрошенная дата (интерпретируется как календарный день в Location)
	Date time.Time
	// Location таймзона провайдера
	Location *time.Location
	// Now текущий момент
	Now time.Time
}

// Resolve возвращает открытые окна на дату в виде UTC-интервалов
// Пустой список, если дата - праздник, в прошлом или за горизонтом бронирования
//
// Переопределения на конкретную дату ЗАМЕНЯЮТ повторяющиеся окна этого дня
// недели, а не объединяются с ними: явная настройка на дату - это исключение
// из обычного недельного расписания
func Resolve(in ResolveInput) ([]interval.Interval, error) {
	if in.Location == nil {
		return nil, fmt.Errorf("%w: location is required", timeutil.ErrInvalidTimezone)
	}

	// Дата запроса - календарный день в таймзоне провайдера, независимо от того,
	// в какой зоне она была распарсена
	localDate := timeutil.CivilDate(in.Date, in.Location)

	// Дата в прошлом - слотов нет
	if timeutil.IsDateInPast(localDate, in.Now, in.Location) {
		return []interval.Interval{}, nil
	}

	// Праздничная дата закрывает весь день
	if in.Settings.IsHoliday(localDate) {
		return []interval.Interval{}, nil
	}

	// Дата за горизонтом бронирования
	if in.Settings.HasAdvanceLimit() {
		maxDate := timeutil.DateOnly(in.Now, in.Location).AddDate(0, 0, in.Settings.MaxAdvanceDays)
		if localDate.After(maxDate) {
			return []interval.Interval{}, nil
		}
	}

	open, breaks, err := selectWindows(in.Windows, localDate, in.Location)
	if err != nil {
		return nil, err
	}

	// Вычитаем перерывы из каждого открытого окна
	result := make([]interval.Interval, 0, len(open))
	for _, w := range open {
		result = append(result, interval.Subtract(w, breaks)...)
	}

	interval.Sort(result)
	return result, nil
}

// selectWindows выбирает действующие на дату окна и переводит их в UTC-интервалы
// Для открытых окон: если на дату есть хотя бы одно переопределение (!IsRecurring),
// повторяющиеся окна этого дня игнорируются
// Перерывы применяются все: и повторяющиеся, и привязанные к дате
func selectWindows(
	windows []*domain.AvailabilityWindow,
	localDate time.Time,
	loc *time.Location,
) (open []interval.Interval, breaks []interval.Interval, err error) {
	hasOverride := false
	for _, w := range windows {
		if w.Kind == domain.WindowOpen && !w.IsRecurring && w.AppliesTo(localDate) {
			hasOverride = true
			break
		}
	}

	for _, w := range windows {
		if !w.AppliesTo(localDate) {
			continue
		}
		if w.Kind == domain.WindowOpen && hasOverride && w.IsRecurring {
			continue
		}

		iv, convErr := toInterval(w, localDate, loc)
		if convErr != nil {
			return nil, nil, convErr
		}
		if !iv.IsValid() {
			continue
		}

		switch w.Kind {
		case domain.WindowOpen:
			open = append(open, iv)
		case domain.WindowBreak:
			breaks = append(breaks, iv)
		}
	}

	return open, breaks, nil
}

// toInterval строит UTC-интервал из локальных времён окна на указанную дату
func toInterval(w *domain.AvailabilityWindow, localDate time.Time, loc *time.Location) (interval.Interval, error) {
	start, err := timeutil.CombineDateAndTime(localDate, w.StartTime, loc)
	if err != nil {
		return interval.Interval{}, err
	}
	end, err := timeutil.CombineDateAndTime(localDate, w.EndTime, loc)
	if err != nil {
		return interval.Interval{}, err
	}
	return interval.Interval{Start: start.UTC(), End: end.UTC()}, nil
}
