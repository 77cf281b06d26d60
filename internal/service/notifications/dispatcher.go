package notifications

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/tunewave/scheduling-service/internal/domain"
	"github.com/tunewave/scheduling-service/internal/integrations/notifygateway"
	"github.com/tunewave/scheduling-service/internal/scheduling/timeutil"
	"github.com/tunewave/scheduling-service/pkg/metrics"
)

// Event событие бронирования, порождающее уведомление
type Event struct {
	Type         domain.NotificationType
	Booking      *domain.Booking
	ServiceName  string
	ProviderName string
	Timezone     string // часовой пояс провайдера для форматирования времени
}

// Dispatcher отправляет уведомления о бронированиях через внешний шлюз.
// Каждая отправка фиксируется в журнале уведомлений до и после доставки.
type Dispatcher struct {
	repo    NotificationRepository
	gateway Gateway
	timePvd TimeProvider
	logger  Logger
	metrics *metrics.Metrics
}

func NewDispatcher(repo NotificationRepository, gateway Gateway, timePvd TimeProvider, logger Logger, m *metrics.Metrics) *Dispatcher {
	return &Dispatcher{
		repo:    repo,
		gateway: gateway,
		timePvd: timePvd,
		logger:  logger,
		metrics: m,
	}
}

// Dispatch отправляет уведомление о событии бронирования.
// Ошибки доставки фиксируются в журнале, но не возвращаются наверх:
// сбой уведомления не должен ломать операцию бронирования.
func (d *Dispatcher) Dispatch(ctx context.Context, event Event) {
	if event.Booking == nil {
		d.logger.Warn("Dispatcher.Dispatch: event without booking, type=%s", event.Type)
		return
	}

	record := &domain.BookingNotification{
		BookingID:      event.Booking.ID,
		UserID:         event.Booking.UserID,
		Type:           event.Type,
		Message:        d.buildMessage(event),
		IdempotencyKey: uuid.NewString(),
		DeliveryStatus: domain.DeliveryPending,
	}

	created, err := d.repo.Create(ctx, record)
	if err != nil {
		d.logger.Error("Dispatcher.Dispatch: failed to create notification record: bookingID=%d, type=%s, error=%v",
			event.Booking.ID, event.Type, err)
		d.observe(event.Type, "failed")
		return
	}

	msg := notifygateway.Message{
		UserID:         created.UserID,
		BookingID:      created.BookingID,
		Type:           string(created.Type),
		Text:           created.Message,
		IdempotencyKey: created.IdempotencyKey,
	}

	if err := d.gateway.Send(ctx, msg); err != nil {
		errText := err.Error()
		if updErr := d.repo.UpdateDeliveryStatus(ctx, created.ID, domain.DeliveryFailed, &errText, nil); updErr != nil {
			d.logger.Error("Dispatcher.Dispatch: failed to mark notification failed: id=%d, error=%v", created.ID, updErr)
		}
		d.logger.Warn("Dispatcher.Dispatch: delivery failed: bookingID=%d, type=%s, error=%v",
			event.Booking.ID, event.Type, err)
		d.observe(event.Type, "failed")
		return
	}

	sentAt := d.timePvd.Now()
	if err := d.repo.UpdateDeliveryStatus(ctx, created.ID, domain.DeliverySent, nil, &sentAt); err != nil {
		d.logger.Error("Dispatcher.Dispatch: failed to mark notification sent: id=%d, error=%v", created.ID, err)
	}
	d.observe(event.Type, "sent")

	d.logger.Info("Dispatcher.Dispatch: notification sent: bookingID=%d, userID=%d, type=%s",
		event.Booking.ID, event.Booking.UserID, event.Type)
}

func (d *Dispatcher) observe(nType domain.NotificationType, status string) {
	if d.metrics != nil {
		d.metrics.NotificationsTotal.WithLabelValues(string(nType), status).Inc()
	}
}

// buildMessage формирует текст уведомления для пользователя
func (d *Dispatcher) buildMessage(event Event) string {
	startLocal := d.formatStart(event)

	switch event.Type {
	case domain.NotificationConfirmation:
		return fmt.Sprintf("Ваша запись на услугу «%s» (%s) создана на %s.",
			event.ServiceName, event.ProviderName, startLocal)
	case domain.NotificationReminder:
		return fmt.Sprintf("Напоминание: %s у вас запись на услугу «%s» (%s).",
			startLocal, event.ServiceName, event.ProviderName)
	case domain.NotificationCancellation:
		return fmt.Sprintf("Ваша запись на услугу «%s» (%s) на %s отменена.",
			event.ServiceName, event.ProviderName, startLocal)
	case domain.NotificationModification:
		return fmt.Sprintf("Ваша запись на услугу «%s» (%s) перенесена на %s.",
			event.ServiceName, event.ProviderName, startLocal)
	default:
		return fmt.Sprintf("Изменение по вашей записи №%d на %s.", event.Booking.ID, startLocal)
	}
}

func (d *Dispatcher) formatStart(event Event) string {
	start := event.Booking.StartTime
	if event.Timezone != "" {
		if loc, err := timeutil.LoadLocation(event.Timezone); err == nil {
			start = start.In(loc)
		}
	}
	return start.Format("02.01.2006 15:04")
}
