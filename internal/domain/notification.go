package domain

import "time"

// NotificationType тип уведомления о бронировании
type NotificationType string

const (
	NotificationConfirmation NotificationType = "confirmation"
	NotificationReminder     NotificationType = "reminder"
	NotificationCancellation NotificationType = "cancellation"
	NotificationModification NotificationType = "modification"
)

// DeliveryStatus статус доставки уведомления
type DeliveryStatus string

const (
	DeliveryPending DeliveryStatus = "pending"
	DeliverySent    DeliveryStatus = "sent"
	DeliveryFailed  DeliveryStatus = "failed"
)

// BookingNotification запись об уведомлении (append-only журнал)
// Доставка выполняется внешним шлюзом; здесь фиксируется только факт и статус
type BookingNotification struct {
	ID             int64
	BookingID      int64
	UserID         int64
	Type           NotificationType
	Message        string
	IdempotencyKey string // защита от повторной доставки при ретраях
	DeliveryStatus DeliveryStatus
	DeliveryError  *string
	SentAt         *time.Time
	CreatedAt      time.Time
}
