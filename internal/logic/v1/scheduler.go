package v1

import "time"

// Scheduler runs fire-and-forget callbacks after a fixed delay.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func())
}

// TimerScheduler schedules callbacks with time.AfterFunc.
type TimerScheduler struct{}

func (TimerScheduler) AfterFunc(d time.Duration, fn func()) {
	time.AfterFunc(d, fn)
}

// Navigator moves the visitor to another view. The web layer records the
// target for the tab; tests record it in memory.
type Navigator interface {
	Navigate(path string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(path string)

func (f NavigatorFunc) Navigate(path string) { f(path) }

// ComparePath is the comparison view visitors are sent to after a replay
// added franchises to their compare list.
const ComparePath = "/compare"
