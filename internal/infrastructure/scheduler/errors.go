package scheduler

import "errors"

var (
	// ErrSchedulerNotRunning is returned when trying to submit a run to a stopped scheduler
	ErrSchedulerNotRunning = errors.New("scheduler is not running")

	// ErrRunQueueFull is returned when the run queue is full
	ErrRunQueueFull = errors.New("run queue is full")

	// ErrInvalidSchedule is returned for a cron expression other than "minute hour * * *"
	ErrInvalidSchedule = errors.New("invalid daily cron schedule")
)
