package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Frequency частота повторения серии бронирований
type Frequency string

const (
	FreqDaily   Frequency = "daily"
	FreqWeekly  Frequency = "weekly"
	FreqMonthly Frequency = "monthly"
)

var (
	// ErrInvalidRecurrenceRule возвращается при некорректном правиле повторения
	ErrInvalidRecurrenceRule = errors.New("domain: invalid recurrence rule")
)

// RecurrenceRule правило повторения серии бронирований
// Смоделировано как tagged union: для каждой частоты свой тип только
// с относящимися к ней полями, недопустимые комбинации непредставимы
type RecurrenceRule interface {
	Frequency() Frequency
	Validate() error
	Bounds() RecurrenceBounds
}

// RecurrenceBounds общие границы серии
// Count и Until могут быть заданы одновременно - действует та граница,
// которая наступает раньше; если не задана ни одна, серия ограничена
// горизонтом MaxRecurrenceHorizonDays
type RecurrenceBounds struct {
	Interval int        // шаг повторения, >= 1
	Count    *int       // общее число вхождений, включая родителя
	Until    *time.Time // верхняя граница по времени (UTC), включительно
}

// Bounds возвращает сами границы (реализация интерфейса для встраивающих типов)
func (b RecurrenceBounds) Bounds() RecurrenceBounds {
	return b
}

func (b RecurrenceBounds) validate() error {
	if b.Interval < 1 {
		return fmt.Errorf("%w: interval must be >= 1", ErrInvalidRecurrenceRule)
	}
	if b.Count != nil && *b.Count < 1 {
		return fmt.Errorf("%w: count must be >= 1", ErrInvalidRecurrenceRule)
	}
	return nil
}

// DailyRule повторение каждые Interval дней
type DailyRule struct {
	RecurrenceBounds
}

func (r *DailyRule) Frequency() Frequency { return FreqDaily }

func (r *DailyRule) Validate() error {
	return r.validate()
}

// WeeklyRule повторение каждые Interval недель
// ByDay - дни недели (0=воскресенье ... 6=суббота); если пуст,
// используется день недели родительского бронирования
type WeeklyRule struct {
	RecurrenceBounds
	ByDay []int
}

func (r *WeeklyRule) Frequency() Frequency { return FreqWeekly }

func (r *WeeklyRule) Validate() error {
	if err := r.validate(); err != nil {
		return err
	}
	for _, d := range r.ByDay {
		if d < 0 || d > 6 {
			return fmt.Errorf("%w: byDay values must be in 0..6, got %d", ErrInvalidRecurrenceRule, d)
		}
	}
	return nil
}

// MonthlyRule повторение каждые Interval месяцев
// ByMonthDay - дни месяца (1..31); если пуст, используется день месяца родителя
// Месяцы, в которых указанного дня нет (например, 31-е в феврале), пропускаются
type MonthlyRule struct {
	RecurrenceBounds
	ByMonthDay []int
}

func (r *MonthlyRule) Frequency() Frequency { return FreqMonthly }

func (r *MonthlyRule) Validate() error {
	if err := r.validate(); err != nil {
		return err
	}
	for _, d := range r.ByMonthDay {
		if d < 1 || d > 31 {
			return fmt.Errorf("%w: byMonthDay values must be in 1..31, got %d", ErrInvalidRecurrenceRule, d)
		}
	}
	return nil
}

// ruleEnvelope плоское JSON-представление правила для хранения в jsonb
type ruleEnvelope struct {
	Frequency  Frequency  `json:"frequency"`
	Interval   int        `json:"interval"`
	Count      *int       `json:"count,omitempty"`
	Until      *time.Time `json:"until,omitempty"`
	ByDay      []int      `json:"byDay,omitempty"`
	ByMonthDay []int      `json:"byMonthDay,omitempty"`
}

// MarshalRecurrenceRule сериализует правило в JSON для хранения
func MarshalRecurrenceRule(rule RecurrenceRule) ([]byte, error) {
	if rule == nil {
		return nil, fmt.Errorf("%w: nil rule", ErrInvalidRecurrenceRule)
	}

	env := ruleEnvelope{
		Frequency: rule.Frequency(),
		Interval:  rule.Bounds().Interval,
		Count:     rule.Bounds().Count,
		Until:     rule.Bounds().Until,
	}

	switch r := rule.(type) {
	case *WeeklyRule:
		env.ByDay = r.ByDay
	case *MonthlyRule:
		env.ByMonthDay = r.ByMonthDay
	}

	return json.Marshal(env)
}

// ParseRecurrenceRule восстанавливает правило из JSON
func ParseRecurrenceRule(data []byte) (RecurrenceRule, error) {
	var env ruleEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRecurrenceRule, err)
	}
	return NewRecurrenceRule(env.Frequency, env.Interval, env.Count, env.Until, env.ByDay, env.ByMonthDay)
}

// NewRecurrenceRule собирает правило из разобранных полей и валидирует его
// byDay учитывается только для weekly, byMonthDay - только для monthly
func NewRecurrenceRule(
	freq Frequency,
	interval int,
	count *int,
	until *time.Time,
	byDay []int,
	byMonthDay []int,
) (RecurrenceRule, error) {
	bounds := RecurrenceBounds{Interval: interval, Count: count, Until: until}

	var rule RecurrenceRule
	switch freq {
	case FreqDaily:
		if len(byDay) > 0 || len(byMonthDay) > 0 {
			return nil, fmt.Errorf("%w: daily rule does not accept byDay/byMonthDay", ErrInvalidRecurrenceRule)
		}
		rule = &DailyRule{RecurrenceBounds: bounds}
	case FreqWeekly:
		if len(byMonthDay) > 0 {
			return nil, fmt.Errorf("%w: weekly rule does not accept byMonthDay", ErrInvalidRecurrenceRule)
		}
		rule = &WeeklyRule{RecurrenceBounds: bounds, ByDay: byDay}
	case FreqMonthly:
		if len(byDay) > 0 {
			return nil, fmt.Errorf("%w: monthly rule does not accept byDay", ErrInvalidRecurrenceRule)
		}
		rule = &MonthlyRule{RecurrenceBounds: bounds, ByMonthDay: byMonthDay}
	default:
		return nil, fmt.Errorf("%w: unknown frequency %q", ErrInvalidRecurrenceRule, freq)
	}

	if err := rule.Validate(); err != nil {
		return nil, err
	}
	return rule, nil
}
