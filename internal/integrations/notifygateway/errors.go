package notifygateway

import "errors"

var (
	// ErrDeliveryFailed возвращается, когда шлюз не принял уведомление
	ErrDeliveryFailed = errors.New("notifygateway client: delivery failed")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("notifygateway client: internal error")
)
