package get_available_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tunewave/scheduling-service/internal/domain"
	settingsRepo "github.com/tunewave/scheduling-service/internal/infra/storage/settings"
	"github.com/tunewave/scheduling-service/internal/integrations/providerservice"
	"github.com/tunewave/scheduling-service/pkg/types"
)

type fakeBookingRepo struct {
	bookings []*domain.Booking
}

func (f *fakeBookingRepo) GetByProviderWithFilter(_ context.Context, filter domain.ProviderBookingsFilter) ([]*domain.Booking, error) {
	return f.bookings, nil
}

type fakeAvailabilityRepo struct {
	windows []*domain.AvailabilityWindow
}

func (f *fakeAvailabilityRepo) ListByProvider(_ context.Context, providerID int64) ([]*domain.AvailabilityWindow, error) {
	return f.windows, nil
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

type fakeProviderClient struct {
	provider *providerservice.Provider
	service  *providerservice.Service
}

func (f *fakeProviderClient) GetProvider(_ context.Context, providerID int64) (*providerservice.Provider, error) {
	if f.provider == nil {
		return nil, providerservice.ErrProviderNotFound
	}
	return f.provider, nil
}

func (f *fakeProviderClient) GetService(_ context.Context, providerID, serviceID int64) (*providerservice.Service, error) {
	if f.service == nil {
		return nil, providerservice.ErrServiceNotFound
	}
	return f.service, nil
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

// 2026-09-02 - среда; окно 09:00-17:00 по Нью-Йорку
var (
	slotsNow  = time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	slotsDate = time.Date(2026, 9, 2, 12, 0, 0, 0, time.UTC)
)

type slotsFixture struct {
	repo      *fakeBookingRepo
	windows   *fakeAvailabilityRepo
	settings  *fakeSettingsRepo
	providers *fakeProviderClient
	uc        *UseCase
}

func newSlotsFixture() *slotsFixture {
	weekday := 3
	f := &slotsFixture{
		repo: &fakeBookingRepo{},
		windows: &fakeAvailabilityRepo{
			windows: []*domain.AvailabilityWindow{
				{
					ProviderID:  10,
					Kind:        domain.WindowOpen,
					IsRecurring: true,
					Weekday:     &weekday,
					StartTime:   types.TimeString("09:00"),
					EndTime:     types.TimeString("17:00"),
				},
			},
		},
		settings: &fakeSettingsRepo{
			settings: &domain.ScheduleSettings{
				ProviderID:        10,
				MinAdvanceMinutes: 60,
				Timezone:          "America/New_York",
				AllowCancellation: true,
			},
		},
		providers: &fakeProviderClient{
			provider: &providerservice.Provider{ID: 10, Name: "Студия Звук"},
			service:  &providerservice.Service{ID: 20, Name: "Настройка акустики", DurationMinutes: 30},
		},
	}
	f.uc = NewUseCase(f.repo, f.windows, f.settings, f.providers, nopLogger{})
	f.uc.timeProvider = &fixedTime{now: slotsNow}
	return f
}

func slotsRequest() *Request {
	return &Request{UserID: 100, ProviderID: 10, ServiceID: 20, Date: slotsDate}
}

func TestExecute_GeneratesSlots(t *testing.T) {
	f := newSlotsFixture()

	resp, err := f.uc.Execute(context.Background(), slotsRequest())
	require.NoError(t, err)

	// Окно 8 часов, слот 30 минут без буфера - 16 слотов
	require.Len(t, resp.Slots, 16)
	assert.Equal(t, "America/New_York", resp.Timezone)

	// Первый слот: 09:00 NY = 13:00 UTC
	assert.Equal(t, time.Date(2026, 9, 2, 13, 0, 0, 0, time.UTC), resp.Slots[0].StartTime)
	assert.Equal(t, time.Date(2026, 9, 2, 13, 30, 0, 0, time.UTC), resp.Slots[0].EndTime)
	for _, slot := range resp.Slots {
		assert.True(t, slot.Available)
	}
}

func TestExecute_MidnightUTCDate(t *testing.T) {
	f := newSlotsFixture()
	req := slotsRequest()
	// Дата из query-параметра приходит полночью UTC - во вторник вечером
	// по Нью-Йорку. Слоты всё равно должны резолвиться на среду
	req.Date = time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)

	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, resp.Slots, 16)
	assert.Equal(t, time.Date(2026, 9, 2, 13, 0, 0, 0, time.UTC), resp.Slots[0].StartTime)
}

func TestExecute_BookedSlotUnavailable(t *testing.T) {
	f := newSlotsFixture()
	// Занят слот 10:00-10:30 NY (14:00-14:30 UTC)
	f.repo.bookings = []*domain.Booking{
		{
			ID:         1,
			ProviderID: 10,
			StartTime:  time.Date(2026, 9, 2, 14, 0, 0, 0, time.UTC),
			EndTime:    time.Date(2026, 9, 2, 14, 30, 0, 0, time.UTC),
			Status:     domain.StatusConfirmed,
		},
	}

	resp, err := f.uc.Execute(context.Background(), slotsRequest())
	require.NoError(t, err)

	unavailable := 0
	for _, slot := range resp.Slots {
		if !slot.Available {
			unavailable++
			assert.Equal(t, time.Date(2026, 9, 2, 14, 0, 0, 0, time.UTC), slot.StartTime)
		}
	}
	assert.Equal(t, 1, unavailable)
}

func TestExecute_NoWindowsForDay(t *testing.T) {
	f := newSlotsFixture()
	req := slotsRequest()
	req.Date = slotsDate.AddDate(0, 0, 1) // четверг - окон нет

	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_ProviderNotFound(t *testing.T) {
	f := newSlotsFixture()
	f.providers.provider = nil

	_, err := f.uc.Execute(context.Background(), slotsRequest())
	assert.ErrorIs(t, err, ErrProviderNotFound)
}

func TestExecute_ServiceNotFound(t *testing.T) {
	f := newSlotsFixture()
	f.providers.service = nil

	_, err := f.uc.Execute(context.Background(), slotsRequest())
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestExecute_InvalidInput(t *testing.T) {
	f := newSlotsFixture()

	req := slotsRequest()
	req.ProviderID = 0
	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)

	req = slotsRequest()
	req.Date = time.Time{}
	_, err = f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_DefaultSettingsWhenMissing(t *testing.T) {
	f := newSlotsFixture()
	f.settings.settings = nil

	// Дефолтная таймзона UTC: среда всё равно попадает в окно weekday=3
	resp, err := f.uc.Execute(context.Background(), slotsRequest())
	require.NoError(t, err)
	require.NotEmpty(t, resp.Slots)
	// 09:00 UTC вместо 09:00 NY
	assert.Equal(t, time.Date(2026, 9, 2, 9, 0, 0, 0, time.UTC), resp.Slots[0].StartTime)
}
