package notifications

import (
	"context"
	"time"

	"github.com/tunewave/scheduling-service/internal/domain"
	"github.com/tunewave/scheduling-service/internal/integrations/notifygateway"
)

// NotificationRepository интерфейс журнала уведомлений
type NotificationRepository interface {
	Create(ctx context.Context, n *domain.BookingNotification) (*domain.BookingNotification, error)
	UpdateDeliveryStatus(ctx context.Context, id int64, status domain.DeliveryStatus, deliveryError *string, sentAt *time.Time) error
}

// Gateway интерфейс внешнего шлюза доставки
type Gateway interface {
	Send(ctx context.Context, msg notifygateway.Message) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
