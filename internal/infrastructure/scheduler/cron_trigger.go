package scheduler

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DailySchedule is the time of day a daily job fires
type DailySchedule struct {
	Hour   int
	Minute int
}

// ParseDailySchedule parses a cron expression of the form "minute hour * * *"
func ParseDailySchedule(expr string) (DailySchedule, error) {
	fields := strings.Fields(expr)
	if len(fields) != 5 {
		return DailySchedule{}, fmt.Errorf("%w: %q", ErrInvalidSchedule, expr)
	}
	for _, f := range fields[2:] {
		if f != "*" {
			return DailySchedule{}, fmt.Errorf("%w: only daily schedules are supported: %q", ErrInvalidSchedule, expr)
		}
	}
	minute, err := strconv.Atoi(fields[0])
	if err != nil || minute < 0 || minute > 59 {
		return DailySchedule{}, fmt.Errorf("%w: bad minute in %q", ErrInvalidSchedule, expr)
	}
	hour, err := strconv.Atoi(fields[1])
	if err != nil || hour < 0 || hour > 23 {
		return DailySchedule{}, fmt.Errorf("%w: bad hour in %q", ErrInvalidSchedule, expr)
	}
	return DailySchedule{Hour: hour, Minute: minute}, nil
}

// Due reports whether t falls in the scheduled minute
func (s DailySchedule) Due(t time.Time) bool {
	return t.Hour() == s.Hour && t.Minute() == s.Minute
}

// String renders the schedule as a cron expression
func (s DailySchedule) String() string {
	return fmt.Sprintf("%d %d * * *", s.Minute, s.Hour)
}
