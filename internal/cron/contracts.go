package cron

import (
	"context"
	"time"

	"github.com/tunewave/scheduling-service/internal/domain"
	"github.com/tunewave/scheduling-service/internal/integrations/providerservice"
	"github.com/tunewave/scheduling-service/internal/service/notifications"
)

type BookingRepository interface {
	GetRemindersDue(ctx context.Context, from, to time.Time) ([]*domain.Booking, error)
	MarkReminderSent(ctx context.Context, id int64) error
}

type SettingsRepository interface {
	GetByProvider(ctx context.Context, providerID int64) (*domain.ScheduleSettings, error)
}

type ProviderServiceClient interface {
	GetProvider(ctx context.Context, providerID int64) (*providerservice.Provider, error)
	GetService(ctx context.Context, providerID, serviceID int64) (*providerservice.Service, error)
}

type NotificationDispatcher interface {
	Dispatch(ctx context.Context, event notifications.Event)
}

type TimeProvider interface {
	Now() time.Time
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
