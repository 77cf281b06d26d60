package reschedule_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tunewave/scheduling-service/internal/domain"
	bookingRepo "github.com/tunewave/scheduling-service/internal/infra/storage/booking"
	settingsRepo "github.com/tunewave/scheduling-service/internal/infra/storage/settings"
	providerClient "github.com/tunewave/scheduling-service/internal/integrations/providerservice"
	"github.com/tunewave/scheduling-service/internal/scheduling/availability"
	"github.com/tunewave/scheduling-service/internal/scheduling/interval"
	"github.com/tunewave/scheduling-service/internal/scheduling/timeutil"
	"github.com/tunewave/scheduling-service/internal/service/notifications"
)

// UseCase use case для переноса бронирования на новое время
type UseCase struct {
	bookingRepo      BookingRepository
	availabilityRepo AvailabilityRepository
	settingsRepo     SettingsRepository
	providerClient   ProviderServiceClient
	dispatcher       NotificationDispatcher
	txManager        TransactionManager
	timeProvider     TimeProvider
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	availabilityRepo AvailabilityRepository,
	settingsRepo SettingsRepository,
	providerClient ProviderServiceClient,
	dispatcher NotificationDispatcher,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:      bookingRepo,
		availabilityRepo: availabilityRepo,
		settingsRepo:     settingsRepo,
		providerClient:   providerClient,
		dispatcher:       dispatcher,
		txManager:        txManager,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
	}
}

// Execute выполняет use case переноса бронирования
// Владелец может переносить запись, пока действует лимит времени на изменение;
// менеджер провайдера - без ограничений по времени.
// Длительность записи при переносе сохраняется.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("RescheduleBooking: booking=%d, user=%d, newStart=%s",
		req.BookingID, req.UserID, req.NewStartTime.Format(time.RFC3339))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("RescheduleBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем бронирование
	booking, err := uc.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Warn("RescheduleBooking: booking id=%d not found", req.BookingID)
			return nil, ErrBookingNotFound
		}
		uc.logger.Error("RescheduleBooking: repository error for booking id=%d: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
	}

	if !booking.CanBeRescheduled() {
		uc.logger.Warn("RescheduleBooking: booking id=%d cannot be rescheduled, status=%s",
			req.BookingID, booking.Status)
		return nil, ErrCannotReschedule
	}

	// 4. Определяем, кто переносит: владелец или менеджер провайдера
	isOwner := booking.UserID == req.UserID
	if !isOwner {
		if err := uc.checkManagerAccess(ctx, booking.ProviderID, req.UserID); err != nil {
			uc.logger.Warn("RescheduleBooking: access denied for user=%d to booking id=%d", req.UserID, req.BookingID)
			return nil, err
		}
	}

	duration := booking.EndTime.Sub(booking.StartTime)
	newStart := req.NewStartTime.UTC()
	newEnd := newStart.Add(duration)

	var timezone string

	// 5. Выполняем операции с БД в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 5.1. Получаем настройки расписания (или дефолтные)
		settings, err := uc.settingsRepo.GetByProvider(txCtx, booking.ProviderID)
		if err != nil {
			if !errors.Is(err, settingsRepo.ErrSettingsNotFound) {
				uc.logger.Error("RescheduleBooking: failed to get settings: %v", err)
				return fmt.Errorf("%w: failed to get settings: %v", ErrInternal, err)
			}
			settings = domain.DefaultScheduleSettings(booking.ProviderID)
		}
		timezone = settings.Timezone

		// 5.2. Политика изменения применяется только к владельцу записи
		// Лимит считается от исходного времени начала
		if isOwner {
			if !settings.AllowCancellation {
				uc.logger.Warn("RescheduleBooking: rescheduling disabled for provider=%d", booking.ProviderID)
				return ErrRescheduleDisabled
			}

			deadline := booking.StartTime.Add(-time.Duration(settings.CancellationLimitHours) * time.Hour)
			if now.After(deadline) {
				uc.logger.Warn("RescheduleBooking: reschedule window passed for booking id=%d, deadline=%s",
					req.BookingID, deadline.Format(time.RFC3339))
				return ErrRescheduleTooLate
			}
		}

		// 5.3. Политика min/max advance для нового времени
		if err := validateAdvancePolicy(newStart, now, settings); err != nil {
			uc.logger.Warn("RescheduleBooking: advance policy failed: %v", err)
			return err
		}

		location, err := timeutil.LoadLocation(settings.Timezone)
		if err != nil {
			uc.logger.Error("RescheduleBooking: invalid timezone %q: %v", settings.Timezone, err)
			return fmt.Errorf("%w: invalid provider timezone: %v", ErrInternal, err)
		}

		// 5.4. Проверяем попадание нового интервала в открытые окна
		windows, err := uc.availabilityRepo.ListByProvider(txCtx, booking.ProviderID)
		if err != nil {
			uc.logger.Error("RescheduleBooking: failed to get availability windows: %v", err)
			return fmt.Errorf("%w: failed to get availability windows: %v", ErrInternal, err)
		}

		openWindows, err := availability.Resolve(availability.ResolveInput{
			Windows:  windows,
			Settings: settings,
			Date:     newStart.In(location),
			Location: location,
			Now:      now,
		})
		if err != nil {
			uc.logger.Error("RescheduleBooking: failed to resolve availability: %v", err)
			return fmt.Errorf("%w: failed to resolve availability: %v", ErrInternal, err)
		}

		candidate := interval.Interval{Start: newStart, End: newEnd}
		if err := validateWithinOpenWindows(candidate, openWindows); err != nil {
			uc.logger.Warn("RescheduleBooking: interval [%s, %s) is outside working hours",
				newStart.Format(time.RFC3339), newEnd.Format(time.RFC3339))
			return err
		}

		// 5.5. Получаем активные бронирования дня с блокировкой (FOR UPDATE)
		dayStart := timeutil.DateOnly(newStart.In(location), location)
		dayEnd := dayStart.AddDate(0, 0, 1)

		bookings, err := uc.bookingRepo.GetByProviderWithFilter(txCtx, domain.ProviderBookingsFilter{
			ProviderID: booking.ProviderID,
			StartTime:  &dayStart,
			EndTime:    &dayEnd,
		})
		if err != nil {
			uc.logger.Error("RescheduleBooking: failed to get bookings: %v", err)
			return fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
		}

		// 5.6. Проверяем конфликт интервалов, исключая саму запись
		if interval.Conflicts(candidate, interval.ActiveBookingIntervals(bookings, booking.ID)) {
			uc.logger.Warn("RescheduleBooking: slot conflict for booking id=%d at %s",
				req.BookingID, newStart.Format(time.RFC3339))
			return ErrSlotConflict
		}

		// 5.7. Переносим бронирование
		if err := uc.bookingRepo.Reschedule(txCtx, booking.ID, newStart, newEnd); err != nil {
			if errors.Is(err, bookingRepo.ErrSlotConflict) {
				uc.logger.Warn("RescheduleBooking: slot conflict on update for booking id=%d", req.BookingID)
				return ErrSlotConflict
			}
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			uc.logger.Error("RescheduleBooking: failed to reschedule booking id=%d: %v", req.BookingID, err)
			return fmt.Errorf("%w: failed to reschedule booking: %v", ErrInternal, err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("RescheduleBooking: successfully rescheduled booking id=%d to %s",
		req.BookingID, newStart.Format(time.RFC3339))

	// 6. Отправляем уведомление о переносе (best-effort, после коммита)
	moved := *booking
	moved.StartTime = newStart
	moved.EndTime = newEnd
	uc.notifyModification(ctx, &moved, timezone)

	return &Response{
		ID:         booking.ID,
		UserID:     booking.UserID,
		ProviderID: booking.ProviderID,
		ServiceID:  booking.ServiceID,
		StartTime:  newStart,
		EndTime:    newEnd,
		Status:     string(booking.Status),
	}, nil
}

// notifyModification отправляет уведомление о переносе записи
func (uc *UseCase) notifyModification(ctx context.Context, booking *domain.Booking, timezone string) {
	var serviceName, providerName string
	if provider, err := uc.providerClient.GetProvider(ctx, booking.ProviderID); err == nil {
		providerName = provider.Name
	}
	if service, err := uc.providerClient.GetService(ctx, booking.ProviderID, booking.ServiceID); err == nil {
		serviceName = service.Name
	}

	uc.dispatcher.Dispatch(ctx, notifications.Event{
		Type:         domain.NotificationModification,
		Booking:      booking,
		ServiceName:  serviceName,
		ProviderName: providerName,
		Timezone:     timezone,
	})
}

// checkManagerAccess проверяет, что пользователь является менеджером провайдера
func (uc *UseCase) checkManagerAccess(ctx context.Context, providerID int64, userID int64) error {
	provider, err := uc.providerClient.GetProvider(ctx, providerID)
	if err != nil {
		if errors.Is(err, providerClient.ErrProviderNotFound) {
			return ErrAccessDenied
		}
		return fmt.Errorf("%w: failed to get provider: %v", ErrInternal, err)
	}

	for _, managerID := range provider.ManagerIDs {
		if managerID == userID {
			return nil
		}
	}

	return ErrAccessDenied
}
