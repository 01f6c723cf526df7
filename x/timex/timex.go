package timex

import "time"

// NowMs returns Unix milliseconds as int64.
func NowMs() int64 { return time.Now().UnixMilli() }

// PeriodFromHz returns the period for a requested frequency.
// hz <= 0 is coerced to 1 to avoid division by zero.
func PeriodFromHz(hz float64) time.Duration {
	if hz <= 0 {
		hz = 1
	}
	return time.Duration(float64(time.Second) / hz)
}
