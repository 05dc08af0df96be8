package engine

import "time"

// clock abstracts wall-clock access so the inter-frame gap and command
// repeat delay can be tested without a real-time sleep, grounded on the
// teacher's d2xxOpen/numDevices func-field mocking pattern
// (hostextra/d2xx/driver.go): production code gets the real
// implementation, tests substitute their own.
type clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type realClock struct{}

func (realClock) Now() time.Time     { return time.Now() }
func (realClock) Sleep(d time.Duration) { time.Sleep(d) }
