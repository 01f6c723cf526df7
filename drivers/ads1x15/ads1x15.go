// Package ads1x15 provides a driver for the TI ADS1015/ADS1115 I2C
// analog-to-digital converters.
//
// Each measurement is a full single-shot cycle:
//
//	write CONFIG (OS=1) -> write HI_THRESH/LO_THRESH -> poll CONFIG.OS -> read CONVERSION
//
// The driver never caches channel state between calls and never retries on
// its own. It assumes exclusive use of the bus for the whole cycle; callers
// sharing a bus between devices or goroutines must serialise around
// ReadChannel/Measure (see i2cx.Shared).
package ads1x15

import (
	"context"
	"errors"
	"time"

	"tinygo.org/x/drivers"
)

// Errors returned by the driver.
var (
	ErrDeviceUnavailable     = errors.New("ads1x15: device unavailable")
	ErrTransport             = errors.New("ads1x15: bus transaction failed")
	ErrTimeout               = errors.New("ads1x15: conversion timeout")
	ErrInvalidChannel        = errors.New("ads1x15: invalid channel")
	ErrDegenerateCalibration = errors.New("ads1x15: degenerate calibration")
	ErrInvalidGain           = errors.New("ads1x15: invalid gain")
	ErrInvalidDataRate       = errors.New("ads1x15: invalid data rate")
)

// BusError records which register transaction failed. It matches ErrTransport
// with errors.Is and unwraps to the bus error.
type BusError struct {
	Op  string // "write" or "read"
	Reg byte
	Err error
}

func (e *BusError) Error() string {
	msg := "ads1x15: " + e.Op + " " + regName(e.Reg)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *BusError) Unwrap() error        { return e.Err }
func (e *BusError) Is(target error) bool { return target == ErrTransport }

func regName(r byte) string {
	switch r {
	case regConversion:
		return "conversion"
	case regConfig:
		return "config"
	case regLoThresh:
		return "lo_thresh"
	case regHiThresh:
		return "hi_thresh"
	default:
		return "reg?"
	}
}

// Channel is a logical measurement source.
type Channel int

const (
	Channel0 Channel = 0 // AIN0 - AIN1
	Channel1 Channel = 1 // AIN2 - AIN3
)

// Mux returns the multiplexer code for ch. Only Channel0 and Channel1 are
// defined.
func (ch Channel) Mux() (Mux, bool) {
	switch ch {
	case Channel0:
		return MuxDiff01, true
	case Channel1:
		return MuxDiff23, true
	default:
		return 0, false
	}
}

// Config controls device selection and polling. All fields are optional.
type Config struct {
	// Address defaults to AddressDefault (0x48) if zero.
	Address uint16
	// Variant fixes the resolution shift and the data-rate table.
	Variant Variant
	// Gain defaults to GainTwoThirds (±6.144 V), which is also its zero value.
	Gain Gain
	// SPS selects the data rate in samples per second. 0 selects the
	// variant's fastest rate; other values must be in the variant's table.
	SPS int
	// Calibration defaults to Identity when left zero.
	Calibration Calibration
	// Timeout bounds the ready poll of one conversion. Default 250 ms.
	Timeout time.Duration
	// MaxPolls caps config reads per conversion. 0 means no cap.
	MaxPolls int
	// PollInterval is slept between config reads. 0 busy-polls.
	PollInterval time.Duration
}

// Conversion is one raw result.
type Conversion struct {
	Channel Channel
	Raw     int16
}

// Reading is a conversion plus its calibrated value.
type Reading struct {
	Channel Channel
	Raw     int16
	Value   float64
}

// Device wraps an I2C connection to an ADS1x15 device.
type Device struct {
	bus     drivers.I2C
	addr    uint16
	variant Variant
	shift   uint8

	gain     Gain
	rate     DataRate
	cal      Calibration
	timeout  time.Duration
	maxPolls int
	interval time.Duration

	// Fixed buffers to avoid per-call heap allocations.
	w [3]byte
	r [2]byte
}

// New creates a Device on an already configured bus. It does not touch the
// device; call Probe to check presence.
func New(bus drivers.I2C, cfg Config) (*Device, error) {
	d := &Device{
		bus:      bus,
		addr:     cfg.Address,
		variant:  cfg.Variant,
		shift:    cfg.Variant.Shift(),
		gain:     GainTwoThirds,
		rate:     cfg.Variant.FastestRate(),
		cal:      Identity,
		timeout:  cfg.Timeout,
		maxPolls: cfg.MaxPolls,
		interval: cfg.PollInterval,
	}
	if d.addr == 0 {
		d.addr = AddressDefault
	}
	if d.timeout <= 0 {
		d.timeout = 250 * time.Millisecond
	}
	if d.maxPolls < 0 {
		d.maxPolls = 0
	}
	if _, err := d.SetGain(cfg.Gain); err != nil {
		return nil, err
	}
	if cfg.SPS != 0 {
		rate, ok := cfg.Variant.RateFor(cfg.SPS)
		if !ok {
			return nil, ErrInvalidDataRate
		}
		d.rate = rate
	}
	if cfg.Calibration != (Calibration{}) {
		if _, err := d.SetCalibration(cfg.Calibration); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// Probe reads the config register once. A failed transaction is reported as
// ErrDeviceUnavailable wrapping the bus error.
func (d *Device) Probe() error {
	if _, err := d.readRegister(regConfig); err != nil {
		return errors.Join(ErrDeviceUnavailable, err)
	}
	return nil
}

// ---------------- Device state ----------------

func (d *Device) Address() uint16          { return d.addr }
func (d *Device) Variant() Variant         { return d.variant }
func (d *Device) ResolutionShift() uint8   { return d.shift }
func (d *Device) Gain() Gain               { return d.gain }
func (d *Device) DataRate() DataRate       { return d.rate }
func (d *Device) Calibration() Calibration { return d.cal }
func (d *Device) Timeout() time.Duration   { return d.timeout }

// SetGain installs g and returns the previous setting.
func (d *Device) SetGain(g Gain) (Gain, error) {
	if !g.Valid() {
		return d.gain, ErrInvalidGain
	}
	prev := d.gain
	d.gain = g
	return prev, nil
}

// SetDataRate installs rate and returns the previous setting.
func (d *Device) SetDataRate(rate DataRate) (DataRate, error) {
	if rate > 7 {
		return d.rate, ErrInvalidDataRate
	}
	prev := d.rate
	d.rate = rate
	return prev, nil
}

// SetCalibration installs c and returns the previous calibration. A
// degenerate calibration is rejected and the current one kept.
func (d *Device) SetCalibration(c Calibration) (Calibration, error) {
	if err := c.Validate(); err != nil {
		return d.cal, err
	}
	prev := d.cal
	d.cal = c
	return prev, nil
}

// ---------------- Measurement ----------------

// ReadChannel performs one single-shot conversion on ch and returns the
// sign-extended raw count. An undefined channel is rejected before any bus
// traffic.
func (d *Device) ReadChannel(ctx context.Context, ch Channel) (Conversion, error) {
	mux, ok := ch.Mux()
	if !ok {
		return Conversion{}, ErrInvalidChannel
	}
	if err := ctx.Err(); err != nil {
		return Conversion{}, err
	}
	if err := d.start(mux); err != nil {
		return Conversion{}, err
	}
	if err := d.waitReady(ctx); err != nil {
		return Conversion{}, err
	}
	raw, err := d.readRegister(regConversion)
	if err != nil {
		return Conversion{}, err
	}
	return Conversion{Channel: ch, Raw: SignExtend(raw, d.shift)}, nil
}

// Read performs ReadChannel and applies the current calibration.
func (d *Device) Read(ctx context.Context, ch Channel) (Reading, error) {
	c, err := d.ReadChannel(ctx, ch)
	if err != nil {
		return Reading{}, err
	}
	return Reading{Channel: c.Channel, Raw: c.Raw, Value: d.cal.Apply(c.Raw)}, nil
}

// Measure returns the calibrated value of one conversion on ch.
func (d *Device) Measure(ctx context.Context, ch Channel) (float64, error) {
	r, err := d.Read(ctx, ch)
	return r.Value, err
}

// start writes the config word and arms ALERT/RDY as a conversion-ready flag.
func (d *Device) start(mux Mux) error {
	cfg := EncodeConfig(ModeSingleShot, d.gain, d.rate, mux)
	if err := d.writeRegister(regConfig, cfg); err != nil {
		return err
	}
	if err := d.writeRegister(regHiThresh, threshReady); err != nil {
		return err
	}
	return d.writeRegister(regLoThresh, threshNotReady)
}

// waitReady polls CONFIG until OS reads back set, bounded by the device
// timeout, the optional poll cap, and ctx.
func (d *Device) waitReady(ctx context.Context) error {
	deadline := time.Now().Add(d.timeout)
	for polls := 0; ; {
		w, err := d.readRegister(regConfig)
		if err != nil {
			return err
		}
		if Ready(w) {
			return nil
		}
		polls++
		if d.maxPolls > 0 && polls >= d.maxPolls {
			return ErrTimeout
		}
		if time.Now().After(deadline) {
			return ErrTimeout
		}
		if err := ctx.Err(); err != nil {
			return ctxErr(err)
		}
		if d.interval > 0 {
			if err := sleepCtx(ctx, min(d.interval, time.Until(deadline))); err != nil {
				return err
			}
		}
	}
}

// sleepCtx waits for dur or until ctx ends.
func sleepCtx(ctx context.Context, dur time.Duration) error {
	if dur <= 0 {
		return nil
	}
	t := time.NewTimer(dur)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctxErr(ctx.Err())
	case <-t.C:
		return nil
	}
}

// ctxErr reports a ctx deadline as a conversion timeout.
func ctxErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return errors.Join(ErrTimeout, err)
	}
	return err
}

// ---------------- Register access ----------------

func (d *Device) writeRegister(reg byte, val uint16) error {
	if err := d.bus.Tx(d.addr, frameWrite(d.w[:], reg, val), nil); err != nil {
		return &BusError{Op: "write", Reg: reg, Err: err}
	}
	return nil
}

func (d *Device) readRegister(reg byte) (uint16, error) {
	d.w[0] = reg
	if err := d.bus.Tx(d.addr, d.w[:1], d.r[:2]); err != nil {
		return 0, &BusError{Op: "read", Reg: reg, Err: err}
	}
	return wordBE(d.r[:]), nil
}
