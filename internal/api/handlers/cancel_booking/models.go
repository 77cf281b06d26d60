package cancel_booking

import (
	"github.com/tunewave/scheduling-service/internal/service/bookings/models"
)

// CancelBookingRequest HTTP request model
type CancelBookingRequest struct {
	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelAll          bool    `json:"cancelAll,omitempty"` // отменить и все будущие повторы серии
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *CancelBookingRequest) ToServiceRequest(userID int64) *models.CancelBookingRequest {
	return &models.CancelBookingRequest{
		UserID:             userID,
		CancellationReason: r.CancellationReason,
		CancelAll:          r.CancelAll,
	}
}
