package engine

import "time"

type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d has elapsed, on its own goroutine.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type timeScheduler struct{}

func (timeScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

var _ Scheduler = timeScheduler{}
