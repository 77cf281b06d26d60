package schedule

import (
	"context"

	"github.com/tunewave/scheduling-service/internal/domain"
	"github.com/tunewave/scheduling-service/internal/integrations/providerservice"
)

// AvailabilityRepository интерфейс репозитория окон расписания
type AvailabilityRepository interface {
	Create(ctx context.Context, window *domain.AvailabilityWindow) (*domain.AvailabilityWindow, error)
	ListByProvider(ctx context.Context, providerID int64) ([]*domain.AvailabilityWindow, error)
	Delete(ctx context.Context, id int64, providerID int64) error
}

// SettingsRepository интерфейс репозитория настроек расписания
type SettingsRepository interface {
	GetByProvider(ctx context.Context, providerID int64) (*domain.ScheduleSettings, error)
	Upsert(ctx context.Context, s *domain.ScheduleSettings) (*domain.ScheduleSettings, error)
}

// ProviderServiceClient интерфейс клиента каталога провайдеров
type ProviderServiceClient interface {
	GetProvider(ctx context.Context, providerID int64) (*providerservice.Provider, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
