package create_schedule_window

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/tunewave/scheduling-service/internal/api/handlers"
	"github.com/tunewave/scheduling-service/internal/api/middleware"
	"github.com/tunewave/scheduling-service/internal/service/schedule"
	"github.com/tunewave/scheduling-service/internal/service/schedule/models"
)

const (
	msgInvalidProviderID  = "некорректный ID провайдера"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgProviderNotFound   = "провайдер не найден"
	msgForbidden          = "доступ запрещен"
	msgInvalidWindow      = "некорректное окно расписания"
)

// CreateWindowRequest HTTP request model
type CreateWindowRequest struct {
	Kind      string  `json:"kind"`              // "open" | "break"
	Weekday   *int    `json:"weekday,omitempty"` // 0=воскресенье ... 6=суббота
	Date      *string `json:"date,omitempty"`    // "2006-01-02"
	StartTime string  `json:"startTime"`         // "HH:MM"
	EndTime   string  `json:"endTime"`           // "HH:MM"
}

type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/providers/{providerId}/schedule/windows
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	providerID, err := strconv.ParseInt(vars["providerId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /providers/{id}/schedule/windows - Invalid provider ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProviderID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /providers/{id}/schedule/windows - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateWindowRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /providers/{id}/schedule/windows - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.CreateWindow(r.Context(), &models.CreateWindowRequest{
		UserID:     userID,
		ProviderID: providerID,
		Kind:       req.Kind,
		Weekday:    req.Weekday,
		Date:       req.Date,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
	})
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrProviderNotFound):
			h.logger.Warn("POST /providers/{id}/schedule/windows - Provider not found: provider_id=%d", providerID)
			handlers.RespondNotFound(w, msgProviderNotFound)

		case errors.Is(err, schedule.ErrAccessDenied):
			h.logger.Warn("POST /providers/{id}/schedule/windows - Access denied: provider_id=%d, user_id=%d",
				providerID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, schedule.ErrInvalidInput):
			h.logger.Warn("POST /providers/{id}/schedule/windows - Invalid window: provider_id=%d, error=%v",
				providerID, err)
			handlers.RespondBadRequest(w, msgInvalidWindow)

		default:
			h.logger.Error("POST /providers/{id}/schedule/windows - Failed to create window: provider_id=%d, error=%v",
				providerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /providers/{id}/schedule/windows - Window created successfully: window_id=%d, provider_id=%d",
		result.ID, providerID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
