package models

import (
	"errors"
	"time"

	"github.com/tunewave/scheduling-service/internal/domain"
	"github.com/tunewave/scheduling-service/pkg/types"
)

var (
	// ErrInvalidWindowKind возвращается при некорректном типе окна
	ErrInvalidWindowKind = errors.New("invalid window kind")

	// ErrInvalidDate возвращается при некорректной дате
	ErrInvalidDate = errors.New("invalid date format")

	// ErrInvalidTime возвращается при некорректном времени
	ErrInvalidTime = errors.New("invalid time format")

	// ErrAmbiguousWindowShape возвращается, когда заданы и день недели, и дата
	ErrAmbiguousWindowShape = errors.New("weekday and date are mutually exclusive")
)

// Request модели

// CreateWindowRequest запрос на создание окна расписания
type CreateWindowRequest struct {
	UserID     int64   `json:"userId"`
	ProviderID int64   `json:"providerId"`
	Kind       string  `json:"kind"`              // "open" | "break"
	Weekday    *int    `json:"weekday,omitempty"` // 0=воскресенье ... 6=суббота, для повторяющихся окон
	Date       *string `json:"date,omitempty"`    // "2006-01-02", для окон на конкретную дату
	StartTime  string  `json:"startTime"`         // "HH:MM"
	EndTime    string  `json:"endTime"`           // "HH:MM"
}

// ToDomainWindow конвертирует request в domain модель
func (r *CreateWindowRequest) ToDomainWindow() (*domain.AvailabilityWindow, error) {
	kind := domain.WindowKind(r.Kind)
	if kind != domain.WindowOpen && kind != domain.WindowBreak {
		return nil, ErrInvalidWindowKind
	}

	// Окно либо недельное, либо на конкретную дату - оба поля сразу
	// означают, что клиент сам не знает, чего хочет
	if r.Weekday != nil && r.Date != nil {
		return nil, ErrAmbiguousWindowShape
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, ErrInvalidTime
	}
	endTime, err := types.NewTimeStringFromString(r.EndTime)
	if err != nil {
		return nil, ErrInvalidTime
	}

	window := &domain.AvailabilityWindow{
		ProviderID:  r.ProviderID,
		Kind:        kind,
		IsRecurring: r.Weekday != nil,
		Weekday:     r.Weekday,
		StartTime:   startTime,
		EndTime:     endTime,
	}

	if r.Date != nil {
		date, err := time.Parse(domain.DateFormat, *r.Date)
		if err != nil {
			return nil, ErrInvalidDate
		}
		window.Date = &date
	}

	return window, nil
}

// UpdateSettingsRequest запрос на обновление настроек расписания
type UpdateSettingsRequest struct {
	UserID                 int64    `json:"userId"`
	ProviderID             int64    `json:"providerId"`
	MinAdvanceMinutes      int      `json:"minAdvanceMinutes"`
	MaxAdvanceDays         int      `json:"maxAdvanceDays"` // 0 = без ограничения
	AllowCancellation      bool     `json:"allowCancellation"`
	CancellationLimitHours int      `json:"cancellationLimitHours"`
	Timezone               string   `json:"timezone"`
	HolidayDates           []string `json:"holidayDates,omitempty"` // "2006-01-02"
}

// ToDomainSettings конвертирует request в domain модель
func (r *UpdateSettingsRequest) ToDomainSettings() (*domain.ScheduleSettings, error) {
	settings := &domain.ScheduleSettings{
		ProviderID:             r.ProviderID,
		MinAdvanceMinutes:      r.MinAdvanceMinutes,
		MaxAdvanceDays:         r.MaxAdvanceDays,
		AllowCancellation:      r.AllowCancellation,
		CancellationLimitHours: r.CancellationLimitHours,
		Timezone:               r.Timezone,
	}

	for _, raw := range r.HolidayDates {
		date, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			return nil, ErrInvalidDate
		}
		settings.HolidayDates = append(settings.HolidayDates, date)
	}

	return settings, nil
}

// Response модели

// WindowResponse ответ с данными окна расписания
type WindowResponse struct {
	ID          int64   `json:"id"`
	ProviderID  int64   `json:"providerId"`
	Kind        string  `json:"kind"`
	IsRecurring bool    `json:"isRecurring"`
	Weekday     *int    `json:"weekday,omitempty"`
	Date        *string `json:"date,omitempty"`
	StartTime   string  `json:"startTime"`
	EndTime     string  `json:"endTime"`
}

// WindowListResponse ответ со списком окон расписания
type WindowListResponse struct {
	Windows []WindowResponse `json:"windows"`
}

// SettingsResponse ответ с настройками расписания
type SettingsResponse struct {
	ProviderID             int64    `json:"providerId"`
	MinAdvanceMinutes      int      `json:"minAdvanceMinutes"`
	MaxAdvanceDays         int      `json:"maxAdvanceDays"`
	AllowCancellation      bool     `json:"allowCancellation"`
	CancellationLimitHours int      `json:"cancellationLimitHours"`
	Timezone               string   `json:"timezone"`
	HolidayDates           []string `json:"holidayDates"`
}

// Методы конвертации

// FromDomainWindow конвертирует domain модель в DTO
func FromDomainWindow(w *domain.AvailabilityWindow) *WindowResponse {
	if w == nil {
		return nil
	}

	resp := &WindowResponse{
		ID:          w.ID,
		ProviderID:  w.ProviderID,
		Kind:        string(w.Kind),
		IsRecurring: w.IsRecurring,
		Weekday:     w.Weekday,
		StartTime:   w.StartTime.String(),
		EndTime:     w.EndTime.String(),
	}

	if w.Date != nil {
		dateStr := w.Date.Format(domain.DateFormat)
		resp.Date = &dateStr
	}

	return resp
}

// FromDomainWindowList конвертирует список domain моделей в DTO
func FromDomainWindowList(windows []*domain.AvailabilityWindow) *WindowListResponse {
	resp := &WindowListResponse{
		Windows: make([]WindowResponse, 0, len(windows)),
	}

	for _, window := range windows {
		if windowResp := FromDomainWindow(window); windowResp != nil {
			resp.Windows = append(resp.Windows, *windowResp)
		}
	}

	return resp
}

// FromDomainSettings конвертирует domain модель в DTO
func FromDomainSettings(s *domain.ScheduleSettings) *SettingsResponse {
	if s == nil {
		return nil
	}

	resp := &SettingsResponse{
		ProviderID:             s.ProviderID,
		MinAdvanceMinutes:      s.MinAdvanceMinutes,
		MaxAdvanceDays:         s.MaxAdvanceDays,
		AllowCancellation:      s.AllowCancellation,
		CancellationLimitHours: s.CancellationLimitHours,
		Timezone:               s.Timezone,
		HolidayDates:           make([]string, 0, len(s.HolidayDates)),
	}

	for _, date := range s.HolidayDates {
		resp.HolidayDates = append(resp.HolidayDates, date.Format(domain.DateFormat))
	}

	return resp
}
