package reschedule_booking

import (
	"fmt"
	"time"

	rescheduleBooking "github.com/tunewave/scheduling-service/internal/usecase/reschedule_booking"
)

// RescheduleBookingRequest HTTP request model
type RescheduleBookingRequest struct {
	NewStartTime string `json:"newStartTime"` // ISO 8601
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID         int64  `json:"id"`
	UserID     int64  `json:"userId"`
	ProviderID int64  `json:"providerId"`
	ServiceID  int64  `json:"serviceId"`
	StartTime  string `json:"startTime"`
	EndTime    string `json:"endTime"`
	Status     string `json:"status"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *RescheduleBookingRequest) ToUseCaseRequest(bookingID, userID int64) (*rescheduleBooking.Request, error) {
	newStart, err := time.Parse(time.RFC3339, r.NewStartTime)
	if err != nil {
		return nil, fmt.Errorf("invalid newStartTime: %w", err)
	}

	return &rescheduleBooking.Request{
		BookingID:    bookingID,
		UserID:       userID,
		NewStartTime: newStart,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *rescheduleBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:         resp.ID,
		UserID:     resp.UserID,
		ProviderID: resp.ProviderID,
		ServiceID:  resp.ServiceID,
		StartTime:  resp.StartTime.UTC().Format(time.RFC3339),
		EndTime:    resp.EndTime.UTC().Format(time.RFC3339),
		Status:     resp.Status,
	}
}
