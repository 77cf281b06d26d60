package get_provider_schedule

import (
	"context"

	"github.com/tunewave/scheduling-service/internal/service/schedule/models"
)

type ScheduleService interface {
	ListWindows(ctx context.Context, providerID int64) (*models.WindowListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
