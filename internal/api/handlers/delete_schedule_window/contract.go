package delete_schedule_window

import "context"

type ScheduleService interface {
	DeleteWindow(ctx context.Context, windowID, providerID, userID int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
