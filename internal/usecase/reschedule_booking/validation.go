package reschedule_booking

import (
	"fmt"
	"time"

	"github.com/tunewave/scheduling-service/internal/domain"
	"github.com/tunewave/scheduling-service/internal/scheduling/interval"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.BookingID <= 0 {
		return fmt.Errorf("%w: bookingID must be positive", ErrInvalidInput)
	}

	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	if req.NewStartTime.IsZero() {
		return fmt.Errorf("%w: newStartTime is required", ErrInvalidInput)
	}

	return nil
}

// validateAdvancePolicy проверяет ограничения minAdvance / maxAdvance из настроек
func validateAdvancePolicy(start, now time.Time, settings *domain.ScheduleSettings) error {
	minStart := now.Add(time.Duration(settings.MinAdvanceMinutes) * time.Minute)
	if start.Before(minStart) {
		return fmt.Errorf("%w: booking must start at least %d minutes from now",
			ErrTooEarly, settings.MinAdvanceMinutes)
	}

	if settings.HasAdvanceLimit() {
		maxStart := now.AddDate(0, 0, settings.MaxAdvanceDays)
		if start.After(maxStart) {
			return fmt.Errorf("%w: can only book %d days in advance",
				ErrTooFarInFuture, settings.MaxAdvanceDays)
		}
	}

	return nil
}

// validateWithinOpenWindows проверяет, что интервал целиком лежит в одном открытом окне
func validateWithinOpenWindows(candidate interval.Interval, openWindows []interval.Interval) error {
	for _, window := range openWindows {
		if !candidate.Start.Before(window.Start) && !candidate.End.After(window.End) {
			return nil
		}
	}
	return ErrOutsideWorkingHours
}
