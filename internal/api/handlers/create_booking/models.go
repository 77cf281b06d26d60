package create_booking

import (
	"fmt"
	"time"

	createBooking "github.com/tunewave/scheduling-service/internal/usecase/create_booking"
)

// RecurrenceRequest HTTP модель правила повторения
type RecurrenceRequest struct {
	Frequency  string  `json:"frequency"`            // "daily" | "weekly" | "monthly"
	Interval   int     `json:"interval"`             // шаг повторения, >= 1
	Count      *int    `json:"count,omitempty"`      // количество вхождений включая первое
	Until      *string `json:"until,omitempty"`      // ISO 8601, конец серии включительно
	ByDay      []int   `json:"byDay,omitempty"`      // 0=воскресенье ... 6=суббота
	ByMonthDay []int   `json:"byMonthDay,omitempty"` // 1..31
}

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	UserID     int64              `json:"userId"`
	ProviderID int64              `json:"providerId"`
	ServiceID  int64              `json:"serviceId"`
	StartTime  string             `json:"startTime"` // ISO 8601
	Notes      *string            `json:"notes,omitempty"`
	Recurrence *RecurrenceRequest `json:"recurrence,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID              int64    `json:"id"`
	UserID          int64    `json:"userId"`
	ProviderID      int64    `json:"providerId"`
	ServiceID       int64    `json:"serviceId"`
	StartTime       string   `json:"startTime"`
	EndTime         string   `json:"endTime"`
	Status          string   `json:"status"`
	Notes           *string  `json:"notes,omitempty"`
	OccurrenceTimes []string `json:"occurrenceTimes,omitempty"` // созданные вхождения серии
	SkippedTimes    []string `json:"skippedTimes,omitempty"`    // пропущенные из-за конфликтов
	CreatedAt       string   `json:"createdAt"`
	UpdatedAt       string   `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(userID int64) (*createBooking.Request, error) {
	startTime, err := time.Parse(time.RFC3339, r.StartTime)
	if err != nil {
		return nil, fmt.Errorf("invalid startTime: %w", err)
	}

	req := &createBooking.Request{
		UserID:     userID,
		ProviderID: r.ProviderID,
		ServiceID:  r.ServiceID,
		StartTime:  startTime,
		Notes:      r.Notes,
	}

	if r.Recurrence != nil {
		spec := &createBooking.RecurrenceSpec{
			Frequency:  r.Recurrence.Frequency,
			Interval:   r.Recurrence.Interval,
			Count:      r.Recurrence.Count,
			ByDay:      r.Recurrence.ByDay,
			ByMonthDay: r.Recurrence.ByMonthDay,
		}
		if r.Recurrence.Until != nil {
			until, err := time.Parse(time.RFC3339, *r.Recurrence.Until)
			if err != nil {
				return nil, fmt.Errorf("invalid recurrence until: %w", err)
			}
			spec.Until = &until
		}
		req.Recurrence = spec
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	out := &BookingResponse{
		ID:         resp.ID,
		UserID:     resp.UserID,
		ProviderID: resp.ProviderID,
		ServiceID:  resp.ServiceID,
		StartTime:  resp.StartTime.UTC().Format(time.RFC3339),
		EndTime:    resp.EndTime.UTC().Format(time.RFC3339),
		Status:     resp.Status,
		Notes:      resp.Notes,
		CreatedAt:  resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  resp.UpdatedAt.Format(time.RFC3339),
	}

	for _, occ := range resp.OccurrenceTimes {
		out.OccurrenceTimes = append(out.OccurrenceTimes, occ.UTC().Format(time.RFC3339))
	}
	for _, skipped := range resp.SkippedTimes {
		out.SkippedTimes = append(out.SkippedTimes, skipped.UTC().Format(time.RFC3339))
	}

	return out
}
