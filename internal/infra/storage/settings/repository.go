package settings

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/tunewave/scheduling-service/internal/domain"
	"github.com/tunewave/scheduling-service/pkg/dbmetrics"
	"github.com/tunewave/scheduling-service/pkg/psqlbuilder"
)

// Переиспользуем интерфейсы из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor

// Repository репозиторий настроек расписания (singleton на провайдера)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория настроек
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByProvider получает настройки расписания провайдера
func (r *Repository) GetByProvider(ctx context.Context, providerID int64) (*domain.ScheduleSettings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"provider_id",
		"min_advance_minutes",
		"max_advance_days",
		"allow_cancellation",
		"cancellation_limit_hours",
		"timezone",
		"holiday_dates",
		"created_at",
		"updated_at",
	).
		From("schedule_settings").
		Where(squirrel.Eq{"provider_id": providerID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByProvider - build select query: %v", ErrBuildQuery, err)
	}

	var s domain.ScheduleSettings
	var createdAt, updatedAt sql.NullTime
	// DATE[] читаем строками: pq не умеет сканировать элементы массива в time.Time
	var holidays pq.StringArray

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&s.ID,
		&s.ProviderID,
		&s.MinAdvanceMinutes,
		&s.MaxAdvanceDays,
		&s.AllowCancellation,
		&s.CancellationLimitHours,
		&s.Timezone,
		&holidays,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrSettingsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByProvider - scan settings: %v", ErrScanRow, err)
	}

	s.HolidayDates, err = parseHolidayDates(holidays)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByProvider - parse holiday dates: %v", ErrScanRow, err)
	}

	s.CreatedAt = createdAt.Time
	s.UpdatedAt = updatedAt.Time

	return &s, nil
}

// parseHolidayDates конвертирует значения DATE[] в даты
// Postgres может вернуть элемент как "2006-01-02" или с временной частью
func parseHolidayDates(raw []string) ([]time.Time, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	dates := make([]time.Time, 0, len(raw))
	for _, v := range raw {
		if len(v) > len(domain.DateFormat) {
			v = v[:len(domain.DateFormat)]
		}
		d, err := time.Parse(domain.DateFormat, v)
		if err != nil {
			return nil, fmt.Errorf("invalid date %q: %v", v, err)
		}
		dates = append(dates, d)
	}
	return dates, nil
}

// Upsert создает или обновляет настройки провайдера
// Настройки - singleton на провайдера, поэтому вставка с ON CONFLICT по provider_id
func (r *Repository) Upsert(ctx context.Context, s *domain.ScheduleSettings) (*domain.ScheduleSettings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("schedule_settings").
		Columns(
			"provider_id",
			"min_advance_minutes",
			"max_advance_days",
			"allow_cancellation",
			"cancellation_limit_hours",
			"timezone",
			"holiday_dates",
		).
		Values(
			s.ProviderID,
			s.MinAdvanceMinutes,
			s.MaxAdvanceDays,
			s.AllowCancellation,
			s.CancellationLimitHours,
			s.Timezone,
			pq.Array(s.HolidayDates),
		).
		Suffix(`ON CONFLICT (provider_id) DO UPDATE SET
			min_advance_minutes = EXCLUDED.min_advance_minutes,
			max_advance_days = EXCLUDED.max_advance_days,
			allow_cancellation = EXCLUDED.allow_cancellation,
			cancellation_limit_hours = EXCLUDED.cancellation_limit_hours,
			timezone = EXCLUDED.timezone,
			holiday_dates = EXCLUDED.holiday_dates,
			updated_at = NOW()
		RETURNING id, created_at, updated_at`).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&s.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute insert: %v", ErrExecQuery, err)
	}

	s.CreatedAt = createdAt.Time
	s.UpdatedAt = updatedAt.Time

	return s, nil
}
