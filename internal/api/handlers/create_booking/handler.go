package create_booking

import (
	"errors"
	"net/http"

	"github.com/tunewave/scheduling-service/internal/api/handlers"
	"github.com/tunewave/scheduling-service/internal/api/middleware"
	createBooking "github.com/tunewave/scheduling-service/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgInvalidStartTime    = "некорректное время начала, ожидается ISO 8601"
	msgMissingUserID       = "отсутствует ID пользователя"
	msgSlotConflict        = "выбранный интервал уже занят"
	msgProviderNotFound    = "провайдер не найден"
	msgServiceNotFound     = "услуга не найдена"
	msgOutsideWorkingHours = "выбранное время вне рабочих часов провайдера"
	msgTooEarly            = "слишком поздно для бронирования этого времени"
	msgTooFar              = "дата бронирования слишком далеко в будущем"
	msgInvalidRecurrence   = "некорректное правило повторения"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(userID)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStartTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrSlotConflict):
			h.logger.Warn("POST /bookings - Slot conflict: user_id=%d, provider_id=%d", userID, req.ProviderID)
			handlers.RespondError(w, http.StatusConflict, msgSlotConflict)

		case errors.Is(err, createBooking.ErrProviderNotFound):
			h.logger.Warn("POST /bookings - Provider not found: provider_id=%d", req.ProviderID)
			handlers.RespondNotFound(w, msgProviderNotFound)

		case errors.Is(err, createBooking.ErrServiceNotFound):
			h.logger.Warn("POST /bookings - Service not found: provider_id=%d, service_id=%d", req.ProviderID, req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createBooking.ErrOutsideWorkingHours):
			h.logger.Warn("POST /bookings - Outside working hours: user_id=%d, provider_id=%d", userID, req.ProviderID)
			handlers.RespondBadRequest(w, msgOutsideWorkingHours)

		case errors.Is(err, createBooking.ErrTooEarly):
			h.logger.Warn("POST /bookings - Too close to start: user_id=%d, provider_id=%d", userID, req.ProviderID)
			handlers.RespondBadRequest(w, msgTooEarly)

		case errors.Is(err, createBooking.ErrTooFarInFuture):
			h.logger.Warn("POST /bookings - Too far in future: user_id=%d, provider_id=%d", userID, req.ProviderID)
			handlers.RespondBadRequest(w, msgTooFar)

		case errors.Is(err, createBooking.ErrInvalidRecurrence):
			h.logger.Warn("POST /bookings - Invalid recurrence: user_id=%d, error=%v", userID, err)
			handlers.RespondBadRequest(w, msgInvalidRecurrence)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: user_id=%d, error=%v", userID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: user_id=%d, provider_id=%d, error=%v",
				userID, req.ProviderID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, user_id=%d, provider_id=%d, occurrences=%d",
		result.ID, userID, req.ProviderID, len(result.OccurrenceTimes))
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
