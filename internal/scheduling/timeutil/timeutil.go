// Package timeutil утилиты интервальной арифметики с учётом таймзон
// Вся арифметика рабочих часов выполняется в локальной таймзоне провайдера,
// конвертация в UTC происходит только на границе персистентности и сравнения конфликтов
package timeutil

import (
	"errors"
	"fmt"
	"time"

	"github.com/tunewave/scheduling-service/pkg/types"
)

var (
	// ErrInvalidTimezone возвращается при неизвестном имени таймзоны IANA
	// Никакого тихого фолбэка на системную таймзону
	ErrInvalidTimezone = errors.New("timeutil: invalid timezone name")
)

// LoadLocation загружает таймзону по имени IANA ("America/New_York")
func LoadLocation(name string) (*time.Location, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty name", ErrInvalidTimezone)
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTimezone, name)
	}
	return loc, nil
}

// CombineDateAndTime строит момент времени из календарной даты и локального времени HH:MM
// Результат - момент в указанной таймзоне (конвертируется в UTC вызывающим по необходимости)
func CombineDateAndTime(date time.Time, t types.TimeString, loc *time.Location) (time.Time, error) {
	if err := t.Validate(); err != nil {
		return time.Time{}, err
	}
	minutes := t.Minutes()
	y, m, d := date.Date()
	return time.Date(y, m, d, minutes/60, minutes%60, 0, 0, loc), nil
}

// MinutesBetween возвращает целое число минут между двумя моментами (b - a)
func MinutesBetween(a, b time.Time) int {
	return int(b.Sub(a) / time.Minute)
}

// DateOnly обнуляет время, оставляя только календарную дату в указанной таймзоне
func DateOnly(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	y, m, d := local.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// CivilDate интерпретирует год/месяц/день значения t как календарную дату в loc,
// НЕ пересчитывая момент между таймзонами. Использовать для дат из запросов
// ("2026-09-02" парсится в полночь UTC, но означает день в таймзоне провайдера):
// DateOnly здесь сдвинул бы дату на предыдущий день для зон западнее UTC
func CivilDate(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// SameDay проверяет, что два момента приходятся на один календарный день в loc
func SameDay(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}

// IsDateInPast проверяет, что календарный день date раньше дня now в loc
func IsDateInPast(date, now time.Time, loc *time.Location) bool {
	return DateOnly(date, loc).Before(DateOnly(now, loc))
}
