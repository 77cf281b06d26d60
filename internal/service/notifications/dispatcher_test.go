package notifications

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tunewave/scheduling-service/internal/domain"
	"github.com/tunewave/scheduling-service/internal/integrations/notifygateway"
)

type fakeNotificationRepo struct {
	createErr error
	created   []*domain.BookingNotification
	updates   []statusUpdate
	nextID    int64
}

type statusUpdate struct {
	id      int64
	status  domain.DeliveryStatus
	errText *string
	sentAt  *time.Time
}

func (f *fakeNotificationRepo) Create(_ context.Context, n *domain.BookingNotification) (*domain.BookingNotification, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.nextID++
	n.ID = f.nextID
	f.created = append(f.created, n)
	return n, nil
}

func (f *fakeNotificationRepo) UpdateDeliveryStatus(_ context.Context, id int64, status domain.DeliveryStatus, deliveryError *string, sentAt *time.Time) error {
	f.updates = append(f.updates, statusUpdate{id: id, status: status, errText: deliveryError, sentAt: sentAt})
	return nil
}

type fakeGateway struct {
	sendErr error
	sent    []notifygateway.Message
}

func (f *fakeGateway) Send(_ context.Context, msg notifygateway.Message) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, msg)
	return nil
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

var dispatchNow = time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

func testBooking() *domain.Booking {
	return &domain.Booking{
		ID:         7,
		UserID:     100,
		ProviderID: 10,
		ServiceID:  20,
		StartTime:  time.Date(2026, 9, 2, 13, 0, 0, 0, time.UTC),
		EndTime:    time.Date(2026, 9, 2, 14, 0, 0, 0, time.UTC),
		Status:     domain.StatusConfirmed,
	}
}

func newDispatcherFixture() (*Dispatcher, *fakeNotificationRepo, *fakeGateway) {
	repo := &fakeNotificationRepo{}
	gateway := &fakeGateway{}
	d := NewDispatcher(repo, gateway, &fixedTime{now: dispatchNow}, nopLogger{}, nil)
	return d, repo, gateway
}

func TestDispatch_Sent(t *testing.T) {
	d, repo, gateway := newDispatcherFixture()

	d.Dispatch(context.Background(), Event{
		Type:         domain.NotificationConfirmation,
		Booking:      testBooking(),
		ServiceName:  "Настройка акустики",
		ProviderName: "Студия Звук",
		Timezone:     "America/New_York",
	})

	// Запись в журнале создаётся до отправки
	require.Len(t, repo.created, 1)
	record := repo.created[0]
	assert.Equal(t, int64(7), record.BookingID)
	assert.Equal(t, int64(100), record.UserID)
	assert.NotEmpty(t, record.IdempotencyKey)
	// Статус проставляет диспетчер: колонка delivery_status в БД под CHECK,
	// пустая строка не пройдёт вставку
	assert.Equal(t, domain.DeliveryPending, record.DeliveryStatus)

	// Сообщение ушло в шлюз с тем же ключом идемпотентности
	require.Len(t, gateway.sent, 1)
	assert.Equal(t, record.IdempotencyKey, gateway.sent[0].IdempotencyKey)
	assert.Equal(t, string(domain.NotificationConfirmation), gateway.sent[0].Type)
	// Время в тексте - локальное для таймзоны провайдера (13:00 UTC = 09:00 NY)
	assert.Contains(t, gateway.sent[0].Text, "02.09.2026 09:00")
	assert.Contains(t, gateway.sent[0].Text, "Настройка акустики")

	// Статус доставки обновлён на sent с проставленным временем
	require.Len(t, repo.updates, 1)
	assert.Equal(t, domain.DeliverySent, repo.updates[0].status)
	require.NotNil(t, repo.updates[0].sentAt)
	assert.Equal(t, dispatchNow, *repo.updates[0].sentAt)
	assert.Nil(t, repo.updates[0].errText)
}

func TestDispatch_GatewayFailure(t *testing.T) {
	d, repo, gateway := newDispatcherFixture()
	gateway.sendErr = errors.New("gateway unavailable")

	d.Dispatch(context.Background(), Event{
		Type:    domain.NotificationReminder,
		Booking: testBooking(),
	})

	require.Len(t, repo.created, 1)
	require.Len(t, repo.updates, 1)
	assert.Equal(t, domain.DeliveryFailed, repo.updates[0].status)
	require.NotNil(t, repo.updates[0].errText)
	assert.Equal(t, "gateway unavailable", *repo.updates[0].errText)
	assert.Nil(t, repo.updates[0].sentAt)
}

func TestDispatch_RepoFailureSkipsSend(t *testing.T) {
	d, repo, gateway := newDispatcherFixture()
	repo.createErr = errors.New("db down")

	d.Dispatch(context.Background(), Event{
		Type:    domain.NotificationConfirmation,
		Booking: testBooking(),
	})

	// Без записи в журнале отправка не выполняется
	assert.Empty(t, gateway.sent)
	assert.Empty(t, repo.updates)
}

func TestDispatch_NilBookingIgnored(t *testing.T) {
	d, repo, gateway := newDispatcherFixture()

	d.Dispatch(context.Background(), Event{Type: domain.NotificationConfirmation})

	assert.Empty(t, repo.created)
	assert.Empty(t, gateway.sent)
}

func TestBuildMessage_PerType(t *testing.T) {
	d, _, _ := newDispatcherFixture()
	booking := testBooking()

	tests := []struct {
		nType    domain.NotificationType
		contains string
	}{
		{domain.NotificationConfirmation, "создана"},
		{domain.NotificationReminder, "Напоминание"},
		{domain.NotificationCancellation, "отменена"},
		{domain.NotificationModification, "перенесена"},
	}

	for _, tt := range tests {
		t.Run(string(tt.nType), func(t *testing.T) {
			msg := d.buildMessage(Event{
				Type:         tt.nType,
				Booking:      booking,
				ServiceName:  "Настройка акустики",
				ProviderName: "Студия Звук",
			})
			assert.Contains(t, msg, tt.contains)
		})
	}
}
