// Package i2cx holds bus-side helpers for drivers built on drivers.I2C:
// exclusive access for multi-transaction sequences and a host (Linux
// /dev/i2c-N) transport.
package i2cx

import (
	"context"

	"golang.org/x/sync/semaphore"
	"tinygo.org/x/drivers"
)

// Shared serialises whole transaction sequences on one physical bus.
//
// Tx passes straight through and does not lock: a driver cycle such as
// configure-poll-read spans many transactions and must be bracketed by Do,
// otherwise another actor's write can land mid-conversion. All devices on
// the bus must be built on the same Shared and all callers must use Do.
type Shared struct {
	bus drivers.I2C
	sem *semaphore.Weighted
}

// NewShared wraps bus. The caller keeps ownership of bus.
func NewShared(bus drivers.I2C) *Shared {
	return &Shared{bus: bus, sem: semaphore.NewWeighted(1)}
}

// Tx forwards one transaction to the underlying bus.
func (s *Shared) Tx(addr uint16, w, r []byte) error { return s.bus.Tx(addr, w, r) }

// Do runs fn while holding the bus. Waiting for the bus honours ctx.
func (s *Shared) Do(ctx context.Context, fn func() error) error {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer s.sem.Release(1)
	return fn()
}

// TryDo runs fn only if the bus is free and reports whether it ran.
func (s *Shared) TryDo(fn func() error) (bool, error) {
	if !s.sem.TryAcquire(1) {
		return false, nil
	}
	defer s.sem.Release(1)
	return true, fn()
}
