package domain

import "time"

// Quota is the remote call budget for the current rate limit window.
type Quota struct {
	Remaining int
	Limit     int
	ResetAt   time.Time
}

// ResetEpoch returns the reset time as Unix seconds.
func (q Quota) ResetEpoch() int64 {
	return q.ResetAt.Unix()
}

// Exhausted reports whether no calls remain in the window.
func (q Quota) Exhausted() bool {
	return q.Remaining <= 0
}
