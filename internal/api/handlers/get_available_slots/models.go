package get_available_slots

import (
	"time"

	"github.com/tunewave/scheduling-service/internal/domain"
	getAvailableSlots "github.com/tunewave/scheduling-service/internal/usecase/get_available_slots"
)

// SlotResponse HTTP модель слота
type SlotResponse struct {
	StartTime string `json:"startTime"` // ISO 8601, UTC
	EndTime   string `json:"endTime"`   // ISO 8601, UTC
	Available bool   `json:"available"`
}

// SlotsResponse HTTP модель ответа со слотами
type SlotsResponse struct {
	Date       string         `json:"date"` // "2006-01-02"
	ProviderID int64          `json:"providerId"`
	ServiceID  int64          `json:"serviceId"`
	Timezone   string         `json:"timezone"`
	Slots      []SlotResponse `json:"slots"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *SlotsResponse {
	out := &SlotsResponse{
		Date:       resp.Date.Format(domain.DateFormat),
		ProviderID: resp.ProviderID,
		ServiceID:  resp.ServiceID,
		Timezone:   resp.Timezone,
		Slots:      make([]SlotResponse, 0, len(resp.Slots)),
	}

	for _, slot := range resp.Slots {
		out.Slots = append(out.Slots, SlotResponse{
			StartTime: slot.StartTime.UTC().Format(time.RFC3339),
			EndTime:   slot.EndTime.UTC().Format(time.RFC3339),
			Available: slot.Available,
		})
	}

	return out
}
