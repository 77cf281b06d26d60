package schedule

import (
	"context"
	"errors"
	"fmt"

	"github.com/tunewave/scheduling-service/internal/domain"
	availabilityRepo "github.com/tunewave/scheduling-service/internal/infra/storage/availability"
	settingsRepo "github.com/tunewave/scheduling-service/internal/infra/storage/settings"
	providerClient "github.com/tunewave/scheduling-service/internal/integrations/providerservice"
	"github.com/tunewave/scheduling-service/internal/scheduling/timeutil"
	"github.com/tunewave/scheduling-service/internal/service/schedule/models"
)

// Service сервис для управления расписанием провайдера:
// окна доступности, перерывы и настройки бронирования
type Service struct {
	availabilityRepo AvailabilityRepository
	settingsRepo     SettingsRepository
	providerClient   ProviderServiceClient
	logger           Logger
}

// NewService создает новый экземпляр сервиса расписания
func NewService(
	availabilityRepo AvailabilityRepository,
	settingsRepo SettingsRepository,
	providerClient ProviderServiceClient,
	logger Logger,
) *Service {
	return &Service{
		availabilityRepo: availabilityRepo,
		settingsRepo:     settingsRepo,
		providerClient:   providerClient,
		logger:           logger,
	}
}

// CreateWindow создает окно доступности или перерыв
// Доступно только менеджерам провайдера
func (s *Service) CreateWindow(ctx context.Context, req *models.CreateWindowRequest) (*models.WindowResponse, error) {
	s.logger.Info("CreateWindow: creating %s window for provider=%d by user=%d", req.Kind, req.ProviderID, req.UserID)

	// 1. Проверяем права доступа (только менеджер провайдера)
	if err := s.checkManagerAccess(ctx, req.ProviderID, req.UserID); err != nil {
		return nil, err
	}

	// 2. Конвертируем и валидируем окно
	window, err := req.ToDomainWindow()
	if err != nil {
		s.logger.Warn("CreateWindow: invalid window for provider=%d: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if !window.IsValid() {
		s.logger.Warn("CreateWindow: inconsistent window for provider=%d: weekday=%v, date=%v, start=%s, end=%s",
			req.ProviderID, req.Weekday, req.Date, req.StartTime, req.EndTime)
		return nil, fmt.Errorf("%w: window must have either weekday or date, and start before end", ErrInvalidInput)
	}

	// 3. Создаем окно
	created, err := s.availabilityRepo.Create(ctx, window)
	if err != nil {
		s.logger.Error("CreateWindow: repository error for provider=%d: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: CreateWindow - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreateWindow: successfully created window id=%d for provider=%d", created.ID, req.ProviderID)
	return models.FromDomainWindow(created), nil
}

// ListWindows возвращает все окна расписания провайдера
// Публичный метод - доступен всем
func (s *Service) ListWindows(ctx context.Context, providerID int64) (*models.WindowListResponse, error) {
	s.logger.Info("ListWindows: fetching windows for provider=%d", providerID)

	windows, err := s.availabilityRepo.ListByProvider(ctx, providerID)
	if err != nil {
		s.logger.Error("ListWindows: repository error for provider=%d: %v", providerID, err)
		return nil, fmt.Errorf("%w: ListWindows - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListWindows: successfully fetched %d windows for provider=%d", len(windows), providerID)
	return models.FromDomainWindowList(windows), nil
}

// DeleteWindow удаляет окно расписания
// Доступно только менеджерам провайдера
func (s *Service) DeleteWindow(ctx context.Context, windowID, providerID, userID int64) error {
	s.logger.Info("DeleteWindow: deleting window id=%d for provider=%d by user=%d", windowID, providerID, userID)

	if err := s.checkManagerAccess(ctx, providerID, userID); err != nil {
		return err
	}

	if err := s.availabilityRepo.Delete(ctx, windowID, providerID); err != nil {
		if errors.Is(err, availabilityRepo.ErrWindowNotFound) {
			s.logger.Warn("DeleteWindow: window id=%d not found for provider=%d", windowID, providerID)
			return ErrWindowNotFound
		}
		s.logger.Error("DeleteWindow: repository error for window id=%d: %v", windowID, err)
		return fmt.Errorf("%w: DeleteWindow - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("DeleteWindow: successfully deleted window id=%d for provider=%d", windowID, providerID)
	return nil
}

// GetSettings возвращает настройки расписания провайдера
// Если провайдер настройки не задавал, возвращаются настройки по умолчанию
// Публичный метод - доступен всем
func (s *Service) GetSettings(ctx context.Context, providerID int64) (*models.SettingsResponse, error) {
	s.logger.Info("GetSettings: fetching settings for provider=%d", providerID)

	settings, err := s.settingsRepo.GetByProvider(ctx, providerID)
	if err != nil {
		if errors.Is(err, settingsRepo.ErrSettingsNotFound) {
			s.logger.Info("GetSettings: no settings for provider=%d, returning defaults", providerID)
			return models.FromDomainSettings(domain.DefaultScheduleSettings(providerID)), nil
		}
		s.logger.Error("GetSettings: repository error for provider=%d: %v", providerID, err)
		return nil, fmt.Errorf("%w: GetSettings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetSettings: successfully fetched settings for provider=%d", providerID)
	return models.FromDomainSettings(settings), nil
}

// UpdateSettings создает или обновляет настройки расписания провайдера
// Доступно только менеджерам провайдера
func (s *Service) UpdateSettings(ctx context.Context, req *models.UpdateSettingsRequest) (*models.SettingsResponse, error) {
	s.logger.Info("UpdateSettings: updating settings for provider=%d by user=%d", req.ProviderID, req.UserID)

	// 1. Проверяем права доступа (только менеджер провайдера)
	if err := s.checkManagerAccess(ctx, req.ProviderID, req.UserID); err != nil {
		return nil, err
	}

	// 2. Валидируем входные данные
	if err := s.validateSettings(req); err != nil {
		s.logger.Warn("UpdateSettings: validation failed for provider=%d: %v", req.ProviderID, err)
		return nil, err
	}

	settings, err := req.ToDomainSettings()
	if err != nil {
		s.logger.Warn("UpdateSettings: invalid settings for provider=%d: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// 3. Сохраняем настройки
	saved, err := s.settingsRepo.Upsert(ctx, settings)
	if err != nil {
		s.logger.Error("UpdateSettings: repository error for provider=%d: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: UpdateSettings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateSettings: successfully updated settings for provider=%d", req.ProviderID)
	return models.FromDomainSettings(saved), nil
}

// Вспомогательные методы

// validateSettings проверяет числовые ограничения и таймзону
func (s *Service) validateSettings(req *models.UpdateSettingsRequest) error {
	if req.MinAdvanceMinutes < 0 {
		return fmt.Errorf("%w: minAdvanceMinutes must be non-negative", ErrInvalidInput)
	}
	if req.MaxAdvanceDays < 0 {
		return fmt.Errorf("%w: maxAdvanceDays must be non-negative", ErrInvalidInput)
	}
	if req.CancellationLimitHours < 0 {
		return fmt.Errorf("%w: cancellationLimitHours must be non-negative", ErrInvalidInput)
	}
	if req.Timezone == "" {
		return fmt.Errorf("%w: timezone is required", ErrInvalidInput)
	}
	if _, err := timeutil.LoadLocation(req.Timezone); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidTimezone, req.Timezone)
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
			return nil
		}
	}

	s.logger.Warn("checkManagerAccess: user=%d is not a manager of provider=%d", userID, providerID)
	return ErrAccessDenied
}
