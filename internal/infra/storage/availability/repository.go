package availability

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/tunewave/scheduling-service/internal/domain"
	"github.com/tunewave/scheduling-service/pkg/dbmetrics"
	"github.com/tunewave/scheduling-service/pkg/psqlbuilder"
)

// Переиспользуем интерфейсы из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor

var windowColumns = []string{
	"id",
	"provider_id",
	"kind",
	"is_recurring",
	"weekday",
	"date",
	"start_time",
	"end_time",
	"created_at",
	"updated_at",
}

// Repository репозиторий окон расписания (доступность и перерывы в одной таблице)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория окон расписания
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает окно расписания
func (r *Repository) Create(ctx context.Context, window *domain.AvailabilityWindow) (*domain.AvailabilityWindow, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("availability_windows").
		Columns(
			"provider_id",
			"kind",
			"is_recurring",
			"weekday",
			"date",
			"start_time",
			"end_time",
		).
		Values(
			window.ProviderID,
			window.Kind,
			window.IsRecurring,
			window.Weekday,
			window.Date,
			window.StartTime,
			window.EndTime,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&window.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	window.CreatedAt = createdAt.Time
	window.UpdatedAt = updatedAt.Time

	return window, nil
}

// ListByProvider получает все окна расписания провайдера
// Резолвер сам выбирает действующие на конкретную дату
func (r *Repository) ListByProvider(ctx context.Context, providerID int64) ([]*domain.AvailabilityWindow, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(windowColumns...).
		From("availability_windows").
		Where(squirrel.Eq{"provider_id": providerID}).
		OrderBy("is_recurring DESC, weekday ASC, date ASC, start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByProvider - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByProvider - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	windows := make([]*domain.AvailabilityWindow, 0)
	for rows.Next() {
		var w domain.AvailabilityWindow
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&w.ID,
			&w.ProviderID,
			&w.Kind,
			&w.IsRecurring,
			&w.Weekday,
			&w.Date,
			&w.StartTime,
			&w.EndTime,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByProvider - scan row: %v", ErrScanRow, err)
		}

		w.CreatedAt = createdAt.Time
		w.UpdatedAt = updatedAt.Time
		windows = append(windows, &w)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByProvider - rows error: %v", ErrScanRow, err)
	}

	return windows, nil
}

// Delete удаляет окно расписания провайдера
// providerID в условии защищает от удаления чужого окна
func (r *Repository) Delete(ctx context.Context, id int64, providerID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("availability_windows").
		Where(squirrel.Eq{"id": id, "provider_id": providerID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrWindowNotFound
	}

	return nil
}
