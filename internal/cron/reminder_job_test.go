package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tunewave/scheduling-service/internal/domain"
	settingsRepo "github.com/tunewave/scheduling-service/internal/infra/storage/settings"
	"github.com/tunewave/scheduling-service/internal/integrations/providerservice"
	"github.com/tunewave/scheduling-service/internal/service/notifications"
)

type fakeBookingRepo struct {
	due        []*domain.Booking
	dueErr     error
	marked     []int64
	markErrFor int64
}

func (f *fakeBookingRepo) GetRemindersDue(_ context.Context, from, to time.Time) ([]*domain.Booking, error) {
	if f.dueErr != nil {
		return nil, f.dueErr
	}
	return f.due, nil
}

func (f *fakeBookingRepo) MarkReminderSent(_ context.Context, id int64) error {
	if f.markErrFor == id {
		return errors.New("mark failed")
	}
	f.marked = append(f.marked, id)
	return nil
}

type fakeSettingsRepo struct {
	settings *domain.ScheduleSettings
}

func (f *fakeSettingsRepo) GetByProvider(_ context.Context, providerID int64) (*domain.ScheduleSettings, error) {
	if f.settings == nil {
		return nil, settingsRepo.ErrSettingsNotFound
	}
	return f.settings, nil
}

type fakeProviderClient struct{}

func (fakeProviderClient) GetProvider(_ context.Context, providerID int64) (*providerservice.Provider, error) {
	return &providerservice.Provider{ID: providerID, Name: "Студия Звук"}, nil
}

func (fakeProviderClient) GetService(_ context.Context, providerID, serviceID int64) (*providerservice.Service, error) {
	return &providerservice.Service{ID: serviceID, Name: "Настройка акустики"}, nil
}

type fakeDispatcher struct {
	events []notifications.Event
}

func (f *fakeDispatcher) Dispatch(_ context.Context, event notifications.Event) {
	f.events = append(f.events, event)
}

type fixedTime struct {
	now time.Time
}

func (f *fixedTime) Now() time.Time {
	return f.now
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var jobNow = time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

func dueBooking(id int64, start time.Time) *domain.Booking {
	return &domain.Booking{
		ID:         id,
		UserID:     100,
		ProviderID: 10,
		ServiceID:  20,
		StartTime:  start,
		EndTime:    start.Add(time.Hour),
		Status:     domain.StatusConfirmed,
	}
}

func TestReminderJob_Run(t *testing.T) {
	repo := &fakeBookingRepo{due: []*domain.Booking{
		dueBooking(1, jobNow.Add(2*time.Hour)),
		dueBooking(2, jobNow.Add(20*time.Hour)),
	}}
	dispatcher := &fakeDispatcher{}
	job := NewReminderJob(repo, &fakeSettingsRepo{}, fakeProviderClient{}, dispatcher,
		&fixedTime{now: jobNow}, nopLogger{}, 24)

	job.Run(context.Background())

	require.Len(t, dispatcher.events, 2)
	assert.Equal(t, domain.NotificationReminder, dispatcher.events[0].Type)
	assert.Equal(t, "Студия Звук", dispatcher.events[0].ProviderName)
	assert.Equal(t, "Настройка акустики", dispatcher.events[0].ServiceName)
	// Настроек нет - берётся таймзона по умолчанию
	assert.Equal(t, domain.DefaultTimezone, dispatcher.events[0].Timezone)
	assert.ElementsMatch(t, []int64{1, 2}, repo.marked)
}

func TestReminderJob_ProviderTimezone(t *testing.T) {
	repo := &fakeBookingRepo{due: []*domain.Booking{dueBooking(1, jobNow.Add(time.Hour))}}
	settings := &fakeSettingsRepo{settings: &domain.ScheduleSettings{ProviderID: 10, Timezone: "Europe/Moscow"}}
	dispatcher := &fakeDispatcher{}
	job := NewReminderJob(repo, settings, fakeProviderClient{}, dispatcher,
		&fixedTime{now: jobNow}, nopLogger{}, 24)

	job.Run(context.Background())

	require.Len(t, dispatcher.events, 1)
	assert.Equal(t, "Europe/Moscow", dispatcher.events[0].Timezone)
}

func TestReminderJob_RepoErrorSkipsRun(t *testing.T) {
	repo := &fakeBookingRepo{dueErr: errors.New("db down")}
	dispatcher := &fakeDispatcher{}
	job := NewReminderJob(repo, &fakeSettingsRepo{}, fakeProviderClient{}, dispatcher,
		&fixedTime{now: jobNow}, nopLogger{}, 24)

	job.Run(context.Background())

	assert.Empty(t, dispatcher.events)
	assert.Empty(t, repo.marked)
}

func TestReminderJob_MarkFailureContinues(t *testing.T) {
	repo := &fakeBookingRepo{
		due: []*domain.Booking{
			dueBooking(1, jobNow.Add(time.Hour)),
			dueBooking(2, jobNow.Add(2*time.Hour)),
		},
		markErrFor: 1,
	}
	dispatcher := &fakeDispatcher{}
	job := NewReminderJob(repo, &fakeSettingsRepo{}, fakeProviderClient{}, dispatcher,
		&fixedTime{now: jobNow}, nopLogger{}, 24)

	job.Run(context.Background())

	// Ошибка пометки не останавливает обход остальных
	assert.Len(t, dispatcher.events, 2)
	assert.Equal(t, []int64{2}, repo.marked)
}

func TestNewReminderJob_DefaultLeadHours(t *testing.T) {
	job := NewReminderJob(&fakeBookingRepo{}, &fakeSettingsRepo{}, fakeProviderClient{}, &fakeDispatcher{},
		&fixedTime{now: jobNow}, nopLogger{}, 0)
	assert.Equal(t, 24, job.leadHours)
}
