package cron

import (
	"context"
	"errors"
	"time"

	"github.com/tunewave/scheduling-service/internal/domain"
	settingsRepo "github.com/tunewave/scheduling-service/internal/infra/storage/settings"
	"github.com/tunewave/scheduling-service/internal/service/notifications"
)

// ReminderJob рассылает напоминания о предстоящих бронированиях.
// Каждый запуск выбирает подтверждённые бронирования, начинающиеся в
// ближайшие leadHours часов, без уже отправленного напоминания.
// Повторный запуск безопасен - отправленные помечаются в БД.
type ReminderJob struct {
	bookingRepo  BookingRepository
	settingsRepo SettingsRepository
	providers    ProviderServiceClient
	dispatcher   NotificationDispatcher
	timePvd      TimeProvider
	logger       Logger
	leadHours    int
}

func NewReminderJob(
	bookingRepo BookingRepository,
	settingsRepo SettingsRepository,
	providers ProviderServiceClient,
	dispatcher NotificationDispatcher,
	timePvd TimeProvider,
	logger Logger,
	leadHours int,
) *ReminderJob {
	if leadHours <= 0 {
		leadHours = 24
	}
	return &ReminderJob{
		bookingRepo:  bookingRepo,
		settingsRepo: settingsRepo,
		providers:    providers,
		dispatcher:   dispatcher,
		timePvd:      timePvd,
		logger:       logger,
		leadHours:    leadHours,
	}
}

// Run выполняет один проход рассылки напоминаний
func (j *ReminderJob) Run(ctx context.Context) {
	now := j.timePvd.Now().UTC()
	from := now
	to := now.Add(time.Duration(j.leadHours) * time.Hour)

	due, err := j.bookingRepo.GetRemindersDue(ctx, from, to)
	if err != nil {
		j.logger.Error("ReminderJob.Run - failed to load due bookings: %v", err)
		return
	}

	if len(due) == 0 {
		return
	}
	j.logger.Info("ReminderJob.Run - %d bookings due for reminders", len(due))

	sent := 0
	for _, booking := range due {
		if err := j.remind(ctx, booking); err != nil {
			j.logger.Error("ReminderJob.Run - failed to remind: booking_id=%d, error=%v", booking.ID, err)
			continue
		}
		sent++
	}

	j.logger.Info("ReminderJob.Run - reminders processed: sent=%d, failed=%d", sent, len(due)-sent)
}

func (j *ReminderJob) remind(ctx context.Context, booking *domain.Booking) error {
	serviceName, providerName := j.lookupNames(ctx, booking)
	timezone := j.lookupTimezone(ctx, booking.ProviderID)

	j.dispatcher.Dispatch(ctx, notifications.Event{
		Type:         domain.NotificationReminder,
		Booking:      booking,
		ServiceName:  serviceName,
		ProviderName: providerName,
		Timezone:     timezone,
	})

	// Помечаем сразу после диспетчеризации: журнал уведомлений хранит
	// фактический статус доставки, повторная отправка хуже пропуска.
	return j.bookingRepo.MarkReminderSent(ctx, booking.ID)
}

func (j *ReminderJob) lookupNames(ctx context.Context, booking *domain.Booking) (serviceName, providerName string) {
	if provider, err := j.providers.GetProvider(ctx, booking.ProviderID); err == nil {
		providerName = provider.Name
	} else {
		j.logger.Warn("ReminderJob - failed to get provider name: provider_id=%d, error=%v", booking.ProviderID, err)
	}

	if service, err := j.providers.GetService(ctx, booking.ProviderID, booking.ServiceID); err == nil {
		serviceName = service.Name
	} else {
		j.logger.Warn("ReminderJob - failed to get service name: service_id=%d, error=%v", booking.ServiceID, err)
	}

	return serviceName, providerName
}

func (j *ReminderJob) lookupTimezone(ctx context.Context, providerID int64) string {
	settings, err := j.settingsRepo.GetByProvider(ctx, providerID)
	if err != nil {
		if !errors.Is(err, settingsRepo.ErrSettingsNotFound) {
			j.logger.Warn("ReminderJob - failed to get settings: provider_id=%d, error=%v", providerID, err)
		}
		return domain.DefaultScheduleSettings(providerID).Timezone
	}
	return settings.Timezone
}
