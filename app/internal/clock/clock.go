// Package clock abstracts time so TTL eviction and turn timestamps can be
// tested without touching the wall clock.
package clock

import "time"

// Clock supplies the current time in UTC.
type Clock interface {
	NowUTC() time.Time
}

// System is the production clock.
type System struct{}

func (System) NowUTC() time.Time {
	return time.Now().UTC()
}
