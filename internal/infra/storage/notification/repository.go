package notification

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/tunewave/scheduling-service/internal/domain"
	"github.com/tunewave/scheduling-service/pkg/dbmetrics"
	"github.com/tunewave/scheduling-service/pkg/psqlbuilder"
)

// Переиспользуем интерфейсы из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor

// Repository репозиторий журнала уведомлений (append-only)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория уведомлений
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create записывает уведомление со статусом доставки pending
func (r *Repository) Create(ctx context.Context, n *domain.BookingNotification) (*domain.BookingNotification, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("booking_notifications").
		Columns(
			"booking_id",
			"user_id",
			"type",
			"message",
			"idempotency_key",
			"delivery_status",
		).
		Values(
			n.BookingID,
			n.UserID,
			n.Type,
			n.Message,
			n.IdempotencyKey,
			n.DeliveryStatus,
		).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&n.ID,
		&createdAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	n.CreatedAt = createdAt.Time

	return n, nil
}

// UpdateDeliveryStatus фиксирует результат попытки доставки
// При статусе sent проставляется sent_at, при failed - текст ошибки
func (r *Repository) UpdateDeliveryStatus(
	ctx context.Context,
	id int64,
	status domain.DeliveryStatus,
	deliveryError *string,
	sentAt *time.Time,
) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("booking_notifications").
		Set("delivery_status", status).
		Set("delivery_error", deliveryError).
		Set("sent_at", sentAt).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateDeliveryStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateDeliveryStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateDeliveryStatus - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrNotificationNotFound
	}

	return nil
}

// ListByBooking возвращает журнал уведомлений бронирования (для аудита)
func (r *Repository) ListByBooking(ctx context.Context, bookingID int64) ([]*domain.BookingNotification, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"booking_id",
		"user_id",
		"type",
		"message",
		"idempotency_key",
		"delivery_status",
		"delivery_error",
		"sent_at",
		"created_at",
	).
		From("booking_notifications").
		Where(squirrel.Eq{"booking_id": bookingID}).
		OrderBy("created_at ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByBooking - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByBooking - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	notifications := make([]*domain.BookingNotification, 0)
	for rows.Next() {
		var n domain.BookingNotification
		var createdAt sql.NullTime

		err := rows.Scan(
			&n.ID,
			&n.BookingID,
			&n.UserID,
			&n.Type,
			&n.Message,
			&n.IdempotencyKey,
			&n.DeliveryStatus,
			&n.DeliveryError,
			&n.SentAt,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByBooking - scan row: %v", ErrScanRow, err)
		}

		n.CreatedAt = createdAt.Time
		notifications = append(notifications, &n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByBooking - rows error: %v", ErrScanRow, err)
	}

	return notifications, nil
}
