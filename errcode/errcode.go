package errcode

import (
	"context"
	"errors"

	"primbox-go/drivers/ads1x15"
	"primbox-go/i2cx"
)

// Code is a stable, log- and record-facing error identifier.
// It is a string newtype, comparable, allocation-free, and implements error.
type Code string

func (c Code) Error() string { return string(c) }

// Canonical codes (short, stable).
const (
	OK            Code = "ok"
	Busy          Code = "busy"
	InvalidParams Code = "invalid_params"
	Cancelled     Code = "cancelled"

	DeviceUnavailable     Code = "device_unavailable"
	IOError               Code = "io_error"
	Timeout               Code = "timeout"
	InvalidChannel        Code = "invalid_channel"
	DegenerateCalibration Code = "degenerate_calibration"

	Error Code = "error" // generic fallback
)

// Optional wrapper when we want to keep context and a cause.
type E struct {
	C   Code
	Op  string
	Msg string
	Err error
}

func (e *E) Error() string {
	s := string(e.C)
	if e.Op != "" {
		s = e.Op + ": " + s
	}
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	return s
}
func (e *E) Unwrap() error { return e.Err }
func (e *E) Code() Code    { return e.C }

// Wrap returns an *E carrying the code MapDriverErr assigns to err.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &E{C: MapDriverErr(err), Op: op, Msg: err.Error(), Err: err}
}

// Of extracts a Code from an error, defaulting to Error.
func Of(err error) Code {
	if err == nil {
		return OK
	}
	type coder interface{ Code() Code }
	var x coder
	if errors.As(err, &x) {
		return x.Code()
	}
	var c Code
	if errors.As(err, &c) {
		return c
	}
	return Error
}

// MapDriverErr maps low-level driver errors to a Code. Order matters: a
// probe failure wraps a transport error and a ctx deadline is reported
// together with the driver timeout.
func MapDriverErr(err error) Code {
	switch {
	case err == nil:
		return OK
	case errors.Is(err, ads1x15.ErrDeviceUnavailable), errors.Is(err, i2cx.ErrOpen):
		return DeviceUnavailable
	case errors.Is(err, ads1x15.ErrInvalidChannel):
		return InvalidChannel
	case errors.Is(err, ads1x15.ErrDegenerateCalibration):
		return DegenerateCalibration
	case errors.Is(err, ads1x15.ErrInvalidGain), errors.Is(err, ads1x15.ErrInvalidDataRate):
		return InvalidParams
	case errors.Is(err, ads1x15.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return Timeout
	case errors.Is(err, context.Canceled):
		return Cancelled
	case errors.Is(err, ads1x15.ErrTransport):
		return IOError
	}
	return Of(err)
}
