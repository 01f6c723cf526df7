// Package record writes acquisition readings to line streams and to a
// SQLite store.
package record

import (
	"context"
	"errors"
	"time"
)

// Record is one calibrated reading as produced by an acquisition run.
type Record struct {
	RunID   string
	Frame   uint64  // 0-based index within the run
	Seconds float64 // since run start
	Channel int
	Raw     int16
	Value   float64
	Time    time.Time
}

// Sink consumes records. Implementations must not retain r.
type Sink interface {
	Write(ctx context.Context, r Record) error
}

// Multi fans a record out to every sink and joins their errors.
type Multi []Sink

func (m Multi) Write(ctx context.Context, r Record) error {
	var errs []error
	for _, s := range m {
		if err := s.Write(ctx, r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
