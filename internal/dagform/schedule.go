package dagform

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// SchedulePreview returns the next n fire times of a standard five field cron
// expression after from. It accepts the full cron syntax and is only a hint
// for the author; submission is still gated by the validator.
func SchedulePreview(schedule string, from time.Time, n int) ([]time.Time, error) {
	if schedule == "" || n <= 0 {
		return nil, nil
	}

	sched, err := cron.ParseStandard(schedule)
	if err != nil {
		return nil, fmt.Errorf("invalid cron expression %s: %w", schedule, err)
	}

	times := make([]time.Time, 0, n)
	next := from
	for i := 0; i < n; i++ {
		next = sched.Next(next)
		if next.IsZero() {
			break
		}
		times = append(times, next)
	}

	return times, nil
}
