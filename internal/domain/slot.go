package domain

import "time"

// TimeSlot кандидат-слот для бронирования
// Эфемерная сущность: вычисляется на лету, никогда не персистится
type TimeSlot struct {
	StartTime   time.Time // UTC
	EndTime     time.Time // UTC
	IsAvailable bool
	IsBooked    bool
}

// Duration возвращает длительность слота
func (s *TimeSlot) Duration() time.Duration {
	return s.EndTime.Sub(s.StartTime)
}
