// Package recurrence разворачивание правила повторения в конкретные моменты серии
//
// Разворачивание выполняется в локальном времени провайдера: вхождения серии
// сохраняют локальное настенное время (09:00 остаётся 09:00 после перехода
// на летнее время), в UTC конвертируется каждое вхождение отдельно
package recurrence

import (
	"errors"
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/tunewave/scheduling-service/internal/domain"
)

var (
	// ErrExpandFailed возвращается при ошибке разворачивания правила
	ErrExpandFailed = errors.New("recurrence: failed to expand rule")
)

// weekdayMap соответствие дней недели domain (0=воскресенье) и rrule
var weekdayMap = [7]rrule.Weekday{
	rrule.SU, rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA,
}

// ExpandInput входные данные разворачивания серии
type ExpandInput struct {
	// Start момент родительского бронирования в таймзоне провайдера
	Start time.Time
	// Rule правило повторения
	Rule domain.RecurrenceRule
	// Location таймзона провайдера
	Location *time.Location
}

// Expand возвращает UTC-моменты будущих вхождений серии, упорядоченные по возрастанию
//
// Родительский момент в результат не входит - он уже персистирован как parent
// Если заданы и count, и until, действует граница, наступающая раньше
// (count считает вхождения включая родителя)
// Если не задана ни одна граница, серия ограничена горизонтом в
// domain.MaxRecurrenceHorizonDays от старта
func Expand(in ExpandInput) ([]time.Time, error) {
	if in.Rule == nil {
		return nil, fmt.Errorf("%w: nil rule", ErrExpandFailed)
	}
	if in.Location == nil {
		return nil, fmt.Errorf("%w: nil location", ErrExpandFailed)
	}
	if err := in.Rule.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExpandFailed, err)
	}

	localStart := in.Start.In(in.Location)
	bounds := in.Rule.Bounds()

	opt := rrule.ROption{
		Interval: bounds.Interval,
		Dtstart:  localStart,
	}

	switch r := in.Rule.(type) {
	case *domain.DailyRule:
		opt.Freq = rrule.DAILY
	case *domain.WeeklyRule:
		opt.Freq = rrule.WEEKLY
		for _, d := range r.ByDay {
			opt.Byweekday = append(opt.Byweekday, weekdayMap[d])
		}
	case *domain.MonthlyRule:
		opt.Freq = rrule.MONTHLY
		// Месяцы без указанного дня (31-е в феврале) пропускаются - это
		// штатное поведение RFC 5545, а не ошибка
		opt.Bymonthday = append(opt.Bymonthday, r.ByMonthDay...)
	default:
		return nil, fmt.Errorf("%w: unsupported rule type %T", ErrExpandFailed, in.Rule)
	}

	if bounds.Count != nil {
		opt.Count = *bounds.Count
	}

	// Верхняя граница по времени: явный until, а если не задан ни он, ни count -
	// годовой горизонт по умолчанию; count без until горизонтом не ограничивается
	var until time.Time
	switch {
	case bounds.Until != nil:
		until = bounds.Until.In(in.Location)
		opt.Until = until
	case bounds.Count == nil:
		until = localStart.AddDate(0, 0, domain.MaxRecurrenceHorizonDays)
		opt.Until = until
	}

	rule, err := rrule.NewRRule(opt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExpandFailed, err)
	}

	occurrences := rule.All()

	result := make([]time.Time, 0, len(occurrences))
	for _, occ := range occurrences {
		// Родитель уже персистирован, исключаем его из серии
		if occ.Equal(localStart) {
			continue
		}
		if !until.IsZero() && occ.After(until) {
			continue
		}
		result = append(result, occ.UTC())
	}

	return result, nil
}
