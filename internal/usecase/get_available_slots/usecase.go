package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/tunewave/scheduling-service/internal/domain"
	settingsRepo "github.com/tunewave/scheduling-service/internal/infra/storage/settings"
	providerClient "github.com/tunewave/scheduling-service/internal/integrations/providerservice"
	"github.com/tunewave/scheduling-service/internal/scheduling/availability"
	"github.com/tunewave/scheduling-service/internal/scheduling/slots"
	"github.com/tunewave/scheduling-service/internal/scheduling/timeutil"
)

// UseCase use case для получения доступных слотов для бронирования
type UseCase struct {
	bookingRepo      BookingRepository
	availabilityRepo AvailabilityRepository
	settingsRepo     SettingsRepository
	providerClient   ProviderServiceClient
	timeProvider     TimeProvider
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	availabilityRepo AvailabilityRepository,
	settingsRepo SettingsRepository,
	providerClient ProviderServiceClient,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:      bookingRepo,
		availabilityRepo: availabilityRepo,
		settingsRepo:     settingsRepo,
		providerClient:   providerClient,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
	}
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: user=%d, provider=%d, service=%d, date=%s",
		req.UserID, req.ProviderID, req.ServiceID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Проверяем существование провайдера
	if _, err := uc.providerClient.GetProvider(ctx, req.ProviderID); err != nil {
		if errors.Is(err, providerClient.ErrProviderNotFound) {
			uc.logger.Warn("GetAvailableSlots: provider id=%d not found", req.ProviderID)
			return nil, ErrProviderNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get provider id=%d: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: failed to get provider: %v", ErrInternal, err)
	}

	// 4. Получаем услугу (длительность и буфер слота)
	service, err := uc.providerClient.GetService(ctx, req.ProviderID, req.ServiceID)
	if err != nil {
		if errors.Is(err, providerClient.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailableSlots: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	// 5. Получаем настройки расписания (или дефолтные)
	settings, err := uc.settingsRepo.GetByProvider(ctx, req.ProviderID)
	if err != nil {
		if !errors.Is(err, settingsRepo.ErrSettingsNotFound) {
			uc.logger.Error("GetAvailableSlots: failed to get settings for provider=%d: %v", req.ProviderID, err)
			return nil, fmt.Errorf("%w: failed to get settings: %v", ErrInternal, err)
		}
		settings = domain.DefaultScheduleSettings(req.ProviderID)
		uc.logger.Info("GetAvailableSlots: using default settings for provider=%d", req.ProviderID)
	}

	location, err := timeutil.LoadLocation(settings.Timezone)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: invalid timezone %q for provider=%d: %v", settings.Timezone, req.ProviderID, err)
		return nil, fmt.Errorf("%w: invalid provider timezone: %v", ErrInternal, err)
	}

	// 6. Получаем окна расписания провайдера
	windows, err := uc.availabilityRepo.ListByProvider(ctx, req.ProviderID)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get windows for provider=%d: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: failed to get availability windows: %v", ErrInternal, err)
	}

	// 7. Резолвим открытые окна на дату
	openWindows, err := availability.Resolve(availability.ResolveInput{
		Windows:  windows,
		Settings: settings,
		Date:     req.Date,
		Location: location,
		Now:      now,
	})
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to resolve availability: %v", err)
		return nil, fmt.Errorf("%w: failed to resolve availability: %v", ErrInternal, err)
	}

	if len(openWindows) == 0 {
		uc.logger.Info("GetAvailableSlots: provider=%d has no open windows on %s",
			req.ProviderID, req.Date.Format(domain.DateFormat))
		return uc.emptyResponse(req, settings.Timezone), nil
	}

	// 8. Получаем активные бронирования на этот день
	dayStart := timeutil.CivilDate(req.Date, location)
	dayEnd := dayStart.AddDate(0, 0, 1)

	bookings, err := uc.bookingRepo.GetByProviderWithFilter(ctx, domain.ProviderBookingsFilter{
		ProviderID: req.ProviderID,
		StartTime:  &dayStart,
		EndTime:    &dayEnd,
	})
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get bookings for provider=%d: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	// 9. Генерируем слоты
	timeSlots := slots.Generate(slots.GenerateInput{
		OpenWindows:       openWindows,
		DurationMinutes:   service.DurationMinutes,
		BufferMinutes:     service.BufferTimeMinutes,
		Bookings:          bookings,
		Now:               now,
		MinAdvanceMinutes: settings.MinAdvanceMinutes,
	})

	resp := uc.emptyResponse(req, settings.Timezone)
	for _, slot := range timeSlots {
		resp.Slots = append(resp.Slots, Slot{
			StartTime: slot.StartTime,
			EndTime:   slot.EndTime,
			Available: slot.IsAvailable,
		})
	}

	uc.logger.Info("GetAvailableSlots: generated %d slots for provider=%d, service=%d, date=%s",
		len(resp.Slots), req.ProviderID, req.ServiceID, req.Date.Format(domain.DateFormat))

	return resp, nil
}

func (uc *UseCase) emptyResponse(req *Request, timezone string) *Response {
	return &Response{
		Date:       req.Date,
		ProviderID: req.ProviderID,
		ServiceID:  req.ServiceID,
		Timezone:   timezone,
		Slots:      []Slot{},
	}
}
