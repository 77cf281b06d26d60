package get_schedule_settings

import (
	"context"

	"github.com/tunewave/scheduling-service/internal/service/schedule/models"
)

type ScheduleService interface {
	GetSettings(ctx context.Context, providerID int64) (*models.SettingsResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
