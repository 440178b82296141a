package orientation

import "time"

// Clock supplies the current time so that day bucketing and question
// generation stay testable. The service never reads the wall clock
// directly.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

// SystemClock returns a Clock backed by time.Now.
func SystemClock() Clock {
	return systemClock{}
}

// DayStart truncates an instant to midnight in its own location. All
// "today" checks and test-date keys go through here.
func DayStart(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}
