package schedule

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tunewave/scheduling-service/internal/domain"
	availabilityRepo "github.com/tunewave/scheduling-service/internal/infra/storage/availability"
	settingsRepo "github.com/tunewave/scheduling-service/internal/infra/storage/settings"
	"github.com/tunewave/scheduling-service/internal/integrations/providerservice"
	"github.com/tunewave/scheduling-service/internal/service/schedule/models"
)

type fakeAvailabilityRepo struct {
	windows []*domain.AvailabilityWindow
	deleted []int64
	nextID  int64
}

func (f *fakeAvailabilityRepo) Create(_ context.Context, window *domain.AvailabilityWindow) (*domain.AvailabilityWindow, error) {
	f.nextID++
	window.ID = f.nextID
	f.windows = append(f.windows, window)
	return window, nil
}

func (f *fakeAvailabilityRepo) ListByProvider(_ context.Context, providerID int64) ([]*domain.AvailabilityWindow, error) {
	return f.windows, nil
}

func (f *fakeAvailabilityRepo) Delete(_ context.Context, id int64, providerID int64) error {
	for _, w := range f.windows {
		if w.ID == id && w.ProviderID == providerID {
			f.deleted = append(f.deleted, id)
			return nil
		}
	}
	return availabilityRepo.ErrWindowNotFound
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

func (f *fakeSettingsRepo) Upsert(_ context.Context, s *domain.ScheduleSettings) (*domain.ScheduleSettings, error) {
	f.settings = s
	return s, nil
}

type fakeProviderClient struct {
	provider *providerservice.Provider
}

func (f *fakeProviderClient) GetProvider(_ context.Context, providerID int64) (*providerservice.Provider, error) {
	if f.provider == nil {
		return nil, providerservice.ErrProviderNotFound
	}
	return f.provider, nil
}

func (f *fakeProviderClient) GetService(_ context.Context, providerID, serviceID int64) (*providerservice.Service, error) {
	return nil, providerservice.ErrServiceNotFound
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type scheduleFixture struct {
	windows   *fakeAvailabilityRepo
	settings  *fakeSettingsRepo
	providers *fakeProviderClient
	svc       *Service
}

func newScheduleFixture() *scheduleFixture {
	f := &scheduleFixture{
		windows:  &fakeAvailabilityRepo{},
		settings: &fakeSettingsRepo{},
		providers: &fakeProviderClient{
			provider: &providerservice.Provider{ID: 10, Name: "Студия Звук", ManagerIDs: []int64{500}},
		},
	}
	f.svc = NewService(f.windows, f.settings, f.providers, nopLogger{})
	return f
}

func intPtr(v int) *int {
	return &v
}

func strPtr(s string) *string {
	return &s
}

func TestCreateWindow(t *testing.T) {
	t.Run("manager creates recurring window", func(t *testing.T) {
		f := newScheduleFixture()

		resp, err := f.svc.CreateWindow(context.Background(), &models.CreateWindowRequest{
			UserID:     500,
			ProviderID: 10,
			Kind:       "open",
			Weekday:    intPtr(3),
			StartTime:  "09:00",
			EndTime:    "17:00",
		})
		require.NoError(t, err)
		assert.True(t, resp.IsRecurring)
		require.Len(t, f.windows.windows, 1)
	})

	t.Run("manager creates date override", func(t *testing.T) {
		f := newScheduleFixture()

		resp, err := f.svc.CreateWindow(context.Background(), &models.CreateWindowRequest{
			UserID:     500,
			ProviderID: 10,
			Kind:       "break",
			Date:       strPtr("2026-09-02"),
			StartTime:  "12:00",
			EndTime:    "13:00",
		})
		require.NoError(t, err)
		assert.False(t, resp.IsRecurring)
	})

	t.Run("non-manager denied", func(t *testing.T) {
		f := newScheduleFixture()

		_, err := f.svc.CreateWindow(context.Background(), &models.CreateWindowRequest{
			UserID:     100,
			ProviderID: 10,
			Kind:       "open",
			Weekday:    intPtr(3),
			StartTime:  "09:00",
			EndTime:    "17:00",
		})
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("invalid kind", func(t *testing.T) {
		f := newScheduleFixture()

		_, err := f.svc.CreateWindow(context.Background(), &models.CreateWindowRequest{
			UserID:     500,
			ProviderID: 10,
			Kind:       "lunch",
			Weekday:    intPtr(3),
			StartTime:  "09:00",
			EndTime:    "17:00",
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("start after end", func(t *testing.T) {
		f := newScheduleFixture()

		_, err := f.svc.CreateWindow(context.Background(), &models.CreateWindowRequest{
			UserID:     500,
			ProviderID: 10,
			Kind:       "open",
			Weekday:    intPtr(3),
			StartTime:  "17:00",
			EndTime:    "09:00",
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("weekday and date together", func(t *testing.T) {
		f := newScheduleFixture()

		// Двусмысленная форма отклоняется до похода в БД:
		// иначе она падала бы на CHECK-ограничении с 500 вместо 400
		date := "2026-09-02"
		_, err := f.svc.CreateWindow(context.Background(), &models.CreateWindowRequest{
			UserID:     500,
			ProviderID: 10,
			Kind:       "open",
			Weekday:    intPtr(3),
			Date:       &date,
			StartTime:  "09:00",
			EndTime:    "17:00",
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
		assert.Empty(t, f.windows.windows)
	})

	t.Run("neither weekday nor date", func(t *testing.T) {
		f := newScheduleFixture()

		_, err := f.svc.CreateWindow(context.Background(), &models.CreateWindowRequest{
			UserID:     500,
			ProviderID: 10,
			Kind:       "open",
			StartTime:  "09:00",
			EndTime:    "17:00",
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestDeleteWindow(t *testing.T) {
	f := newScheduleFixture()
	_, err := f.svc.CreateWindow(context.Background(), &models.CreateWindowRequest{
		UserID:     500,
		ProviderID: 10,
		Kind:       "open",
		Weekday:    intPtr(3),
		StartTime:  "09:00",
		EndTime:    "17:00",
	})
	require.NoError(t, err)

	t.Run("manager deletes", func(t *testing.T) {
		err := f.svc.DeleteWindow(context.Background(), 1, 10, 500)
		require.NoError(t, err)
		assert.Equal(t, []int64{1}, f.windows.deleted)
	})

	t.Run("missing window", func(t *testing.T) {
		err := f.svc.DeleteWindow(context.Background(), 42, 10, 500)
		assert.ErrorIs(t, err, ErrWindowNotFound)
	})

	t.Run("non-manager denied", func(t *testing.T) {
		err := f.svc.DeleteWindow(context.Background(), 1, 10, 100)
		assert.ErrorIs(t, err, ErrAccessDenied)
	})
}

func TestGetSettings(t *testing.T) {
	t.Run("defaults when not set", func(t *testing.T) {
		f := newScheduleFixture()

		resp, err := f.svc.GetSettings(context.Background(), 10)
		require.NoError(t, err)
		assert.Equal(t, domain.DefaultMinAdvanceMinutes, resp.MinAdvanceMinutes)
		assert.Equal(t, domain.DefaultTimezone, resp.Timezone)
	})

	t.Run("stored settings returned", func(t *testing.T) {
		f := newScheduleFixture()
		f.settings.settings = &domain.ScheduleSettings{
			ProviderID:        10,
			MinAdvanceMinutes: 120,
			Timezone:          "Europe/Moscow",
			AllowCancellation: true,
		}

		resp, err := f.svc.GetSettings(context.Background(), 10)
		require.NoError(t, err)
		assert.Equal(t, 120, resp.MinAdvanceMinutes)
		assert.Equal(t, "Europe/Moscow", resp.Timezone)
	})
}

func TestUpdateSettings(t *testing.T) {
	valid := func() *models.UpdateSettingsRequest {
		return &models.UpdateSettingsRequest{
			UserID:                 500,
			ProviderID:             10,
			MinAdvanceMinutes:      30,
			MaxAdvanceDays:         14,
			AllowCancellation:      true,
			CancellationLimitHours: 12,
			Timezone:               "America/New_York",
			HolidayDates:           []string{"2026-12-31"},
		}
	}

	t.Run("manager updates", func(t *testing.T) {
		f := newScheduleFixture()

		resp, err := f.svc.UpdateSettings(context.Background(), valid())
		require.NoError(t, err)
		assert.Equal(t, 30, resp.MinAdvanceMinutes)
		assert.Equal(t, "America/New_York", resp.Timezone)
		require.NotNil(t, f.settings.settings)
		assert.Len(t, f.settings.settings.HolidayDates, 1)
	})

	t.Run("non-manager denied", func(t *testing.T) {
		f := newScheduleFixture()
		req := valid()
		req.UserID = 100

		_, err := f.svc.UpdateSettings(context.Background(), req)
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("invalid timezone", func(t *testing.T) {
		f := newScheduleFixture()
		req := valid()
		req.Timezone = "Mars/Olympus_Mons"

		_, err := f.svc.UpdateSettings(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidTimezone)
	})

	t.Run("negative values rejected", func(t *testing.T) {
		f := newScheduleFixture()
		req := valid()
		req.MinAdvanceMinutes = -1

		_, err := f.svc.UpdateSettings(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("provider not found", func(t *testing.T) {
		f := newScheduleFixture()
		f.providers.provider = nil

		_, err := f.svc.UpdateSettings(context.Background(), valid())
		assert.ErrorIs(t, err, ErrProviderNotFound)
	})
}
