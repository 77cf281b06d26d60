package create_booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tunewave/scheduling-service/internal/domain"
	settingsRepo "github.com/tunewave/scheduling-service/internal/infra/storage/settings"
	"github.com/tunewave/scheduling-service/internal/integrations/providerservice"
	"github.com/tunewave/scheduling-service/internal/service/notifications"
	"github.com/tunewave/scheduling-service/pkg/types"
)

// Фейки зависимостей use case

type fakeBookingRepo struct {
	existing    []*domain.Booking
	created     []*domain.Booking
	occurrences []*domain.Booking
	// моменты (UTC), вставка которых должна быть пропущена как конфликт
	conflictAt map[time.Time]bool
	nextID     int64
}

func (f *fakeBookingRepo) Create(_ context.Context, booking *domain.Booking) (*domain.Booking, error) {
	f.nextID++
	booking.ID = f.nextID
	f.created = append(f.created, booking)
	return booking, nil
}

func (f *fakeBookingRepo) CreateOccurrence(_ context.Context, booking *domain.Booking) (bool, error) {
	if f.conflictAt[booking.StartTime] {
		return false, nil
	}
	f.nextID++
	booking.ID = f.nextID
	f.occurrences = append(f.occurrences, booking)
	return true, nil
}

func (f *fakeBookingRepo) GetByProviderWithFilter(_ context.Context, filter domain.ProviderBookingsFilter) ([]*domain.Booking, error) {
	return f.existing, nil
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

type fakeDispatcher struct {
	events []notifications.Event
}

func (f *fakeDispatcher) Dispatch(_ context.Context, event notifications.Event) {
	f.events = append(f.events, event)
}

// fakeTxManager выполняет функцию без транзакции
type fakeTxManager struct{}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
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

// Обвязка

// 2026-09-02 - среда; провайдер работает по средам 09:00-17:00 UTC
var (
	ucNow   = time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	ucStart = time.Date(2026, 9, 2, 10, 0, 0, 0, time.UTC)
)

type ucFixture struct {
	repo       *fakeBookingRepo
	windows    *fakeAvailabilityRepo
	settings   *fakeSettingsRepo
	providers  *fakeProviderClient
	dispatcher *fakeDispatcher
	uc         *UseCase
}

func newUCFixture() *ucFixture {
	weekday := 3 // среда
	f := &ucFixture{
		repo: &fakeBookingRepo{conflictAt: make(map[time.Time]bool)},
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
				Timezone:          "UTC",
				AllowCancellation: true,
			},
		},
		providers: &fakeProviderClient{
			provider: &providerservice.Provider{ID: 10, Name: "Студия Звук", ManagerIDs: []int64{500}},
			service:  &providerservice.Service{ID: 20, Name: "Настройка акустики", DurationMinutes: 60},
		},
		dispatcher: &fakeDispatcher{},
	}
	f.uc = NewUseCase(f.repo, f.windows, f.settings, f.providers, f.dispatcher, fakeTxManager{}, nopLogger{})
	f.uc.timeProvider = &fixedTime{now: ucNow}
	return f
}

func validRequest() *Request {
	return &Request{
		UserID:     100,
		ProviderID: 10,
		ServiceID:  20,
		StartTime:  ucStart,
	}
}

// Тесты

func TestExecute_Success(t *testing.T) {
	f := newUCFixture()

	resp, err := f.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, ucStart, resp.StartTime)
	assert.Equal(t, ucStart.Add(time.Hour), resp.EndTime, "конец = начало + длительность услуги")
	assert.Equal(t, string(domain.StatusPending), resp.Status)
	assert.Empty(t, resp.OccurrenceTimes)

	// Подтверждение отправляется после успешного создания
	require.Len(t, f.dispatcher.events, 1)
	assert.Equal(t, domain.NotificationConfirmation, f.dispatcher.events[0].Type)
}

func TestExecute_SlotConflict(t *testing.T) {
	f := newUCFixture()
	f.repo.existing = []*domain.Booking{
		{
			ID:         99,
			ProviderID: 10,
			StartTime:  ucStart.Add(-30 * time.Minute),
			EndTime:    ucStart.Add(30 * time.Minute),
			Status:     domain.StatusConfirmed,
		},
	}

	_, err := f.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotConflict)
	assert.Empty(t, f.repo.created)
	assert.Empty(t, f.dispatcher.events)
}

func TestExecute_TouchingBookingIsNotConflict(t *testing.T) {
	f := newUCFixture()
	// Существующее бронирование заканчивается ровно в момент начала нового
	f.repo.existing = []*domain.Booking{
		{
			ID:         99,
			ProviderID: 10,
			StartTime:  ucStart.Add(-time.Hour),
			EndTime:    ucStart,
			Status:     domain.StatusConfirmed,
		},
	}

	_, err := f.uc.Execute(context.Background(), validRequest())
	assert.NoError(t, err)
}

func TestExecute_OutsideWorkingHours(t *testing.T) {
	f := newUCFixture()
	req := validRequest()
	// 16:30 + 60 минут выходит за границу окна 17:00
	req.StartTime = time.Date(2026, 9, 2, 16, 30, 0, 0, time.UTC)

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrOutsideWorkingHours)
}

func TestExecute_AdvancePolicy(t *testing.T) {
	t.Run("too early", func(t *testing.T) {
		f := newUCFixture()
		f.uc.timeProvider = &fixedTime{now: ucStart.Add(-30 * time.Minute)}

		_, err := f.uc.Execute(context.Background(), validRequest())
		assert.ErrorIs(t, err, ErrTooEarly)
	})

	t.Run("too far in future", func(t *testing.T) {
		f := newUCFixture()
		f.settings.settings.MaxAdvanceDays = 7
		req := validRequest()
		req.StartTime = ucStart.AddDate(0, 0, 28)

		_, err := f.uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrTooFarInFuture)
	})
}

func TestExecute_ProviderAndServiceNotFound(t *testing.T) {
	t.Run("provider", func(t *testing.T) {
		f := newUCFixture()
		f.providers.provider = nil

		_, err := f.uc.Execute(context.Background(), validRequest())
		assert.ErrorIs(t, err, ErrProviderNotFound)
	})

	t.Run("service", func(t *testing.T) {
		f := newUCFixture()
		f.providers.service = nil

		_, err := f.uc.Execute(context.Background(), validRequest())
		assert.ErrorIs(t, err, ErrServiceNotFound)
	})
}

func TestExecute_InvalidInput(t *testing.T) {
	f := newUCFixture()

	req := validRequest()
	req.UserID = 0
	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)

	req = validRequest()
	req.StartTime = time.Time{}
	_, err = f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_RecurringSeries(t *testing.T) {
	f := newUCFixture()
	count := 4
	req := validRequest()
	req.Recurrence = &RecurrenceSpec{Frequency: "weekly", Interval: 1, Count: &count}

	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	// count=4 включает родителя: три дополнительных вхождения
	require.Len(t, resp.OccurrenceTimes, 3)
	assert.Equal(t, ucStart.AddDate(0, 0, 7), resp.OccurrenceTimes[0])
	assert.Empty(t, resp.SkippedTimes)

	require.Len(t, f.repo.occurrences, 3)
	for _, occ := range f.repo.occurrences {
		require.NotNil(t, occ.ParentBookingID)
		assert.Equal(t, resp.ID, *occ.ParentBookingID)
		assert.Equal(t, time.Hour, occ.EndTime.Sub(occ.StartTime))
	}
}

func TestExecute_RecurringSeriesSkipsConflicts(t *testing.T) {
	f := newUCFixture()
	count := 3
	req := validRequest()
	req.Recurrence = &RecurrenceSpec{Frequency: "weekly", Interval: 1, Count: &count}

	conflictTime := ucStart.AddDate(0, 0, 7)
	f.repo.conflictAt[conflictTime] = true

	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err, "конфликт вхождения не ломает серию")

	require.Len(t, resp.OccurrenceTimes, 1)
	assert.Equal(t, ucStart.AddDate(0, 0, 14), resp.OccurrenceTimes[0])
	require.Len(t, resp.SkippedTimes, 1)
	assert.Equal(t, conflictTime, resp.SkippedTimes[0])
}

func TestExecute_InvalidRecurrence(t *testing.T) {
	f := newUCFixture()
	req := validRequest()
	req.Recurrence = &RecurrenceSpec{Frequency: "hourly", Interval: 1}

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidRecurrence)
}

func TestExecute_DefaultSettingsWhenMissing(t *testing.T) {
	f := newUCFixture()
	f.settings.settings = nil

	// Дефолтный minAdvance 60 минут: запись через ~26 часов проходит
	_, err := f.uc.Execute(context.Background(), validRequest())
	assert.NoError(t, err)
}
