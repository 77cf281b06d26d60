package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tunewave/scheduling-service/internal/domain"
	bookingRepo "github.com/tunewave/scheduling-service/internal/infra/storage/booking"
	settingsRepo "github.com/tunewave/scheduling-service/internal/infra/storage/settings"
	providerClient "github.com/tunewave/scheduling-service/internal/integrations/providerservice"
	"github.com/tunewave/scheduling-service/internal/service/bookings/models"
	"github.com/tunewave/scheduling-service/internal/service/notifications"
)

// Service сервис для работы с бронированиями
type Service struct {
	bookingRepo    BookingRepository
	settingsRepo   SettingsRepository
	providerClient ProviderServiceClient
	dispatcher     NotificationDispatcher
	timePvd        TimeProvider
	logger         Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	settingsRepo SettingsRepository,
	providerClient ProviderServiceClient,
	dispatcher NotificationDispatcher,
	timePvd TimeProvider,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:    bookingRepo,
		settingsRepo:   settingsRepo,
		providerClient: providerClient,
		dispatcher:     dispatcher,
		timePvd:        timePvd,
		logger:         logger,
	}
}

// GetByID получает бронирование по ID
// Пользователь может видеть только своё бронирование
// или если он является менеджером провайдера
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d", id, userID)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	// Проверяем права доступа
	if err := s.checkUserAccess(ctx, booking, userID); err != nil {
		s.logger.Warn("GetByID: access denied for user=%d to booking id=%d", userID, id)
		return nil, err
	}

	s.logger.Info("GetByID: successfully fetched booking id=%d", id)
	return models.FromDomainBooking(booking), nil
}

// GetUserBookings получает историю бронирований пользователя
// Опционально фильтрует по статусу
func (s *Service) GetUserBookings(ctx context.Context, req *models.GetUserBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetUserBookings: fetching bookings for user=%d, status=%v", req.UserID, req.Status)

	var domainStatus *domain.BookingStatus
	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetUserBookings: invalid status=%s for user=%d", *req.Status, req.UserID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	bookings, err := s.bookingRepo.GetByUserID(ctx, req.UserID, domainStatus)
	if err != nil {
		s.logger.Error("GetUserBookings: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetUserBookings: successfully fetched %d bookings for user=%d", len(bookings), req.UserID)
	return models.FromDomainBookingList(bookings), nil
}

// GetProviderBookings получает бронирования провайдера с фильтрацией
// по периоду, статусу и включению неактивных записей
// Доступно только менеджерам провайдера
func (s *Service) GetProviderBookings(ctx context.Context, req *models.GetProviderBookingsRequest) (*models.BookingListResponse, error) {
	logMsg := fmt.Sprintf("GetProviderBookings: fetching bookings for provider=%d, user=%d", req.ProviderID, req.UserID)
	if req.StartDate != nil && req.EndDate != nil {
		logMsg += fmt.Sprintf(", period=%s to %s", req.StartDate.Format("2006-01-02"), req.EndDate.Format("2006-01-02"))
	}
	if req.Status != nil {
		logMsg += fmt.Sprintf(", status=%s", *req.Status)
	}
	if req.IncludeInactive {
		logMsg += ", includeInactive=true"
	}
	s.logger.Info(logMsg)

	// Проверяем права доступа менеджера
	if err := s.checkManagerAccess(ctx, req.ProviderID, req.UserID); err != nil {
		return nil, err
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetProviderBookings: invalid filter for provider=%d: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.GetByProviderWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetProviderBookings: repository error for provider=%d: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: GetProviderBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetProviderBookings: successfully fetched %d bookings for provider=%d", len(bookings), req.ProviderID)
	return models.FromDomainBookingList(bookings), nil
}

// Cancel отменяет бронирование
// Пользователь может отменить только своё бронирование, и только если политика
// провайдера разрешает отмену и лимит времени до начала ещё не истёк.
// Менеджер провайдера может отменить любое бронирование без ограничений по времени.
// При CancelAll отменяются также все будущие записи той же серии повторов.
func (s *Service) Cancel(ctx context.Context, bookingID int64, req *models.CancelBookingRequest) (*models.CancelBookingResponse, error) {
	s.logger.Info("Cancel: cancelling booking id=%d by user=%d, cancelAll=%v", bookingID, req.UserID, req.CancelAll)

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("Cancel: booking id=%d not found", bookingID)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("Cancel: repository error for booking id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	if !booking.CanBeCancelled() {
		s.logger.Warn("Cancel: booking id=%d cannot be cancelled, status=%s", bookingID, booking.Status)
		return nil, ErrCannotCancel
	}

	// Определяем, кто отменяет: владелец или менеджер провайдера
	var cancelledBy domain.CancelledBy
	if booking.UserID == req.UserID {
		cancelledBy = domain.CancelledByUser
	} else {
		if err := s.checkManagerAccess(ctx, booking.ProviderID, req.UserID); err != nil {
			s.logger.Warn("Cancel: access denied for user=%d to cancel booking id=%d", req.UserID, bookingID)
			return nil, ErrAccessDenied
		}
		cancelledBy = domain.CancelledByProvider
	}

	settings := s.loadSettings(ctx, booking.ProviderID)

	// Политика отмены применяется только к владельцу записи
	if cancelledBy == domain.CancelledByUser {
		if !settings.AllowCancellation {
			s.logger.Warn("Cancel: cancellation disabled for provider=%d, booking id=%d", booking.ProviderID, bookingID)
			return nil, ErrCancellationDisabled
		}

		now := s.timePvd.Now()
		deadline := booking.StartTime.Add(-time.Duration(settings.CancellationLimitHours) * time.Hour)
		if now.After(deadline) {
			s.logger.Warn("Cancel: cancellation window passed for booking id=%d, deadline=%s", bookingID, deadline.Format(time.RFC3339))
			return nil, ErrCancellationTooLate
		}
	}

	if err := s.bookingRepo.Cancel(ctx, bookingID, req.CancellationReason, cancelledBy); err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("Cancel: booking id=%d not found during cancellation", bookingID)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("Cancel: repository error for booking id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	cancelledIDs := []int64{bookingID}

	// Отменяем будущие записи серии, если запрошено
	if req.CancelAll {
		seriesIDs, err := s.cancelFutureSiblings(ctx, booking, req.CancellationReason, cancelledBy)
		if err != nil {
			s.logger.Error("Cancel: failed to cancel series for booking id=%d: %v", bookingID, err)
			return nil, err
		}
		cancelledIDs = append(cancelledIDs, seriesIDs...)
	}

	s.notifyCancellation(ctx, booking, settings.Timezone)

	s.logger.Info("Cancel: successfully cancelled %d booking(s), root id=%d, by=%s", len(cancelledIDs), bookingID, cancelledBy)
	return &models.CancelBookingResponse{CancelledIDs: cancelledIDs}, nil
}

// UpdateStatus обновляет статус бронирования (confirm, complete, no_show)
// Доступно только менеджерам провайдера. Отмена выполняется через Cancel.
func (s *Service) UpdateStatus(ctx context.Context, bookingID int64, req *models.UpdateStatusRequest) error {
	s.logger.Info("UpdateStatus: updating booking id=%d to status=%s by user=%d",
		bookingID, req.Status, req.UserID)

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("UpdateStatus: booking id=%d not found", bookingID)
			return ErrBookingNotFound
		}
		s.logger.Error("UpdateStatus: repository error for booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	// Проверяем права доступа (только менеджер провайдера)
	if err := s.checkManagerAccess(ctx, booking.ProviderID, req.UserID); err != nil {
		return err
	}

	newStatus, err := models.ToDomainBookingStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for booking id=%d", req.Status, bookingID)
		return fmt.Errorf("%w: invalid status", ErrInvalidStatus)
	}

	// Отмена идёт отдельным маршрутом с политикой отмены
	if newStatus == domain.StatusCancelled {
		s.logger.Warn("UpdateStatus: cancellation requested via status update for booking id=%d", bookingID)
		return fmt.Errorf("%w: use cancel endpoint for cancellation", ErrInvalidTransition)
	}

	if !booking.CanTransitionTo(newStatus) {
		s.logger.Warn("UpdateStatus: invalid transition %s -> %s for booking id=%d", booking.Status, newStatus, bookingID)
		return ErrInvalidTransition
	}

	if err := s.bookingRepo.UpdateStatus(ctx, bookingID, newStatus); err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("UpdateStatus: booking id=%d not found during update", bookingID)
			return ErrBookingNotFound
		}
		s.logger.Error("UpdateStatus: repository error for booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateStatus: successfully updated booking id=%d to status=%s", bookingID, newStatus)
	return nil
}

// Вспомогательные методы

// cancelFutureSiblings отменяет активные будущие записи серии повторов
func (s *Service) cancelFutureSiblings(ctx context.Context, booking *domain.Booking, reason *string, by domain.CancelledBy) ([]int64, error) {
	seriesRoot := booking.ID
	if booking.ParentBookingID != nil {
		seriesRoot = *booking.ParentBookingID
	}

	siblings, err := s.bookingRepo.GetFutureSiblings(ctx, seriesRoot, s.timePvd.Now())
	if err != nil {
		return nil, fmt.Errorf("%w: cancelFutureSiblings - repository error: %v", ErrInternal, err)
	}

	cancelled := make([]int64, 0, len(siblings))
	for _, sibling := range siblings {
		if sibling.ID == booking.ID || !sibling.CanBeCancelled() {
			continue
		}
		if err := s.bookingRepo.Cancel(ctx, sibling.ID, reason, by); err != nil {
			return nil, fmt.Errorf("%w: cancelFutureSiblings - failed to cancel id=%d: %v", ErrInternal, sibling.ID, err)
		}
		cancelled = append(cancelled, sibling.ID)
	}

	return cancelled, nil
}

// notifyCancellation отправляет уведомление об отмене (best-effort)
func (s *Service) notifyCancellation(ctx context.Context, booking *domain.Booking, timezone string) {
	serviceName, providerName := s.lookupNames(ctx, booking)
	s.dispatcher.Dispatch(ctx, notifications.Event{
		Type:         domain.NotificationCancellation,
		Booking:      booking,
		ServiceName:  serviceName,
		ProviderName: providerName,
		Timezone:     timezone,
	})
}

// lookupNames получает названия услуги и провайдера для текста уведомления
func (s *Service) lookupNames(ctx context.Context, booking *domain.Booking) (string, string) {
	var serviceName, providerName string
	if provider, err := s.providerClient.GetProvider(ctx, booking.ProviderID); err == nil {
		providerName = provider.Name
	}
	if service, err := s.providerClient.GetService(ctx, booking.ProviderID, booking.ServiceID); err == nil {
		serviceName = service.Name
	}
	return serviceName, providerName
}

// loadSettings получает настройки провайдера или настройки по умолчанию
func (s *Service) loadSettings(ctx context.Context, providerID int64) *domain.ScheduleSettings {
	settings, err := s.settingsRepo.GetByProvider(ctx, providerID)
	if err != nil {
		if !errors.Is(err, settingsRepo.ErrSettingsNotFound) {
			s.logger.Warn("loadSettings: failed to load settings for provider=%d, using defaults: %v", providerID, err)
		}
		return domain.DefaultScheduleSettings(providerID)
	}
	return settings
}

// checkUserAccess проверяет, что пользователь имеет доступ к бронированию
// Пользователь может видеть своё бронирование или если он менеджер провайдера
func (s *Service) checkUserAccess(ctx context.Context, booking *domain.Booking, userID int64) error {
	if booking.UserID == userID {
		return nil
	}

	if err := s.checkManagerAccess(ctx, booking.ProviderID, userID); err != nil {
		// Ошибка уже залогирована в checkManagerAccess
		return ErrAccessDenied
	}

	return nil
}

// checkManagerAccess проверяет, что пользователь является менеджером провайдера
func (s *Service) checkManagerAccess(ctx context.Context, providerID int64, userID int64) error {
	provider, err := s.providerClient.GetProvider(ctx, providerID)
	if err != nil {
		if errors.Is(err, providerClient.ErrProviderNotFound) {
			s.logger.Warn("checkManagerAccess: provider id=%d not found", providerID)
			return ErrProviderNotFound
		}
		s.logger.Error("checkManagerAccess: failed to get provider id=%d: %v", providerID, err)
		return fmt.Errorf("%w: checkManagerAccess - failed to get provider: %v", ErrInternal, err)
	}

	for _, managerID := range provider.ManagerIDs {
		if managerID == userID {
			s.logger.Info("checkManagerAccess: user=%d is manager of provider=%d", userID, providerID)
			return nil
		}
	}

	s.logger.Warn("checkManagerAccess: user=%d is not a manager of provider=%d", userID, providerID)
	return ErrAccessDenied
}
