package create_booking

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
	"github.com/tunewave/scheduling-service/internal/scheduling/recurrence"
	"github.com/tunewave/scheduling-service/internal/scheduling/timeutil"
	"github.com/tunewave/scheduling-service/internal/service/notifications"
)

// UseCase use case для создания бронирования
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

// Execute выполняет use case создания бронирования
// Использует сериализуемую транзакцию для предотвращения гонки данных;
// вторая линия защиты от двойного бронирования - exclusion constraint в БД
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: user=%d, provider=%d, service=%d, start=%s",
		req.UserID, req.ProviderID, req.ServiceID, req.StartTime.Format(time.RFC3339))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Проверяем существование провайдера
	provider, err := uc.providerClient.GetProvider(ctx, req.ProviderID)
	if err != nil {
		if errors.Is(err, providerClient.ErrProviderNotFound) {
			uc.logger.Warn("CreateBooking: provider id=%d not found", req.ProviderID)
			return nil, ErrProviderNotFound
		}
		uc.logger.Error("CreateBooking: failed to get provider id=%d: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: failed to get provider: %v", ErrInternal, err)
	}

	// 4. Получаем услугу (длительность и буфер)
	service, err := uc.providerClient.GetService(ctx, req.ProviderID, req.ServiceID)
	if err != nil {
		if errors.Is(err, providerClient.ErrServiceNotFound) {
			uc.logger.Warn("CreateBooking: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateBooking: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	// 5. Разбираем правило повторения до транзакции
	var rule domain.RecurrenceRule
	if req.Recurrence != nil {
		rule, err = req.Recurrence.ToDomainRule()
		if err != nil {
			uc.logger.Warn("CreateBooking: invalid recurrence rule: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrInvalidRecurrence, err)
		}
	}

	startTime := req.StartTime.UTC()
	endTime := startTime.Add(time.Duration(service.DurationMinutes) * time.Minute)

	var result *domain.Booking
	var occurrenceTimes []time.Time
	var skippedTimes []time.Time
	var timezone string

	// 6. Выполняем операции с БД в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		occurrenceTimes = nil
		skippedTimes = nil

		// 6.1. Получаем настройки расписания (или дефолтные)
		settings, err := uc.settingsRepo.GetByProvider(txCtx, req.ProviderID)
		if err != nil {
			if !errors.Is(err, settingsRepo.ErrSettingsNotFound) {
				uc.logger.Error("CreateBooking: failed to get settings: %v", err)
				return fmt.Errorf("%w: failed to get settings: %v", ErrInternal, err)
			}
			settings = domain.DefaultScheduleSettings(req.ProviderID)
			uc.logger.Info("CreateBooking: using default settings for provider=%d", req.ProviderID)
		}
		timezone = settings.Timezone

		location, err := timeutil.LoadLocation(settings.Timezone)
		if err != nil {
			uc.logger.Error("CreateBooking: invalid timezone %q for provider=%d: %v", settings.Timezone, req.ProviderID, err)
			return fmt.Errorf("%w: invalid provider timezone: %v", ErrInternal, err)
		}

		// 6.2. Валидация политики min/max advance
		if err := validateAdvancePolicy(startTime, now, settings); err != nil {
			uc.logger.Warn("CreateBooking: advance policy failed: %v", err)
			return err
		}

		// 6.3. Резолвим открытые окна на дату и проверяем попадание интервала
		windows, err := uc.availabilityRepo.ListByProvider(txCtx, req.ProviderID)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get availability windows: %v", err)
			return fmt.Errorf("%w: failed to get availability windows: %v", ErrInternal, err)
		}

		openWindows, err := availability.Resolve(availability.ResolveInput{
			Windows:  windows,
			Settings: settings,
			Date:     startTime.In(location),
			Location: location,
			Now:      now,
		})
		if err != nil {
			uc.logger.Error("CreateBooking: failed to resolve availability: %v", err)
			return fmt.Errorf("%w: failed to resolve availability: %v", ErrInternal, err)
		}

		candidate := interval.Interval{Start: startTime, End: endTime}
		if err := validateWithinOpenWindows(candidate, openWindows); err != nil {
			uc.logger.Warn("CreateBooking: interval [%s, %s) is outside working hours",
				startTime.Format(time.RFC3339), endTime.Format(time.RFC3339))
			return err
		}

		// 6.4. Получаем активные бронирования дня с блокировкой (FOR UPDATE)
		dayStart := timeutil.DateOnly(startTime.In(location), location)
		dayEnd := dayStart.AddDate(0, 0, 1)

		bookings, err := uc.bookingRepo.GetByProviderWithFilter(txCtx, domain.ProviderBookingsFilter{
			ProviderID: req.ProviderID,
			StartTime:  &dayStart,
			EndTime:    &dayEnd,
		})
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get bookings: %v", err)
			return fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
		}

		// 6.5. Проверяем конфликт интервалов до вставки
		if interval.Conflicts(candidate, interval.ActiveBookingIntervals(bookings, 0)) {
			uc.logger.Warn("CreateBooking: slot conflict for provider=%d at %s",
				req.ProviderID, startTime.Format(time.RFC3339))
			return ErrSlotConflict
		}

		// 6.6. Создаем родительское бронирование
		booking := &domain.Booking{
			UserID:         req.UserID,
			ProviderID:     req.ProviderID,
			ServiceID:      req.ServiceID,
			StartTime:      startTime,
			EndTime:        endTime,
			Status:         domain.StatusPending,
			Notes:          req.Notes,
			RecurrenceRule: rule,
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrSlotConflict) {
				uc.logger.Warn("CreateBooking: slot conflict on insert for provider=%d", req.ProviderID)
				return ErrSlotConflict
			}
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}
		result = created

		// 6.7. Разворачиваем серию и вставляем экземпляры
		if rule != nil {
			occurrences, err := recurrence.Expand(recurrence.ExpandInput{
				Start:    startTime,
				Rule:     rule,
				Location: location,
			})
			if err != nil {
				uc.logger.Error("CreateBooking: failed to expand recurrence: %v", err)
				return fmt.Errorf("%w: failed to expand recurrence: %v", ErrInternal, err)
			}

			duration := time.Duration(service.DurationMinutes) * time.Minute
			for _, occStart := range occurrences {
				occurrence := &domain.Booking{
					UserID:          req.UserID,
					ProviderID:      req.ProviderID,
					ServiceID:       req.ServiceID,
					StartTime:       occStart,
					EndTime:         occStart.Add(duration),
					Status:          domain.StatusPending,
					Notes:           req.Notes,
					ParentBookingID: &created.ID,
				}

				inserted, err := uc.bookingRepo.CreateOccurrence(txCtx, occurrence)
				if err != nil {
					uc.logger.Error("CreateBooking: failed to create occurrence at %s: %v",
						occStart.Format(time.RFC3339), err)
					return fmt.Errorf("%w: failed to create occurrence: %v", ErrInternal, err)
				}
				if inserted {
					occurrenceTimes = append(occurrenceTimes, occStart)
				} else {
					// Интервал занят - экземпляр пропускаем, серию не ломаем
					skippedTimes = append(skippedTimes, occStart)
				}
			}
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d, occurrences=%d, skipped=%d",
		result.ID, len(occurrenceTimes), len(skippedTimes))

	// 7. Отправляем подтверждение (best-effort, после коммита)
	uc.dispatcher.Dispatch(ctx, notifications.Event{
		Type:         domain.NotificationConfirmation,
		Booking:      result,
		ServiceName:  service.Name,
		ProviderName: provider.Name,
		Timezone:     timezone,
	})

	return &Response{
		ID:              result.ID,
		UserID:          result.UserID,
		ProviderID:      result.ProviderID,
		ServiceID:       result.ServiceID,
		StartTime:       result.StartTime,
		EndTime:         result.EndTime,
		Status:          string(result.Status),
		Notes:           result.Notes,
		OccurrenceTimes: occurrenceTimes,
		SkippedTimes:    skippedTimes,
		CreatedAt:       result.CreatedAt,
		UpdatedAt:       result.UpdatedAt,
	}, nil
}
