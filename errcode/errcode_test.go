package errcode

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"primbox-go/drivers/ads1x15"
	"primbox-go/i2cx"
)

func TestMapDriverErr(t *testing.T) {
	busErr := &ads1x15.BusError{Op: "read", Reg: 0x01, Err: errors.New("nack")}
	cases := []struct {
		name string
		err  error
		want Code
	}{
		{"nil", nil, OK},
		{"probe", errors.Join(ads1x15.ErrDeviceUnavailable, busErr), DeviceUnavailable},
		{"host open", errors.Join(i2cx.ErrOpen, errors.New("no bus")), DeviceUnavailable},
		{"transport", busErr, IOError},
		{"timeout", ads1x15.ErrTimeout, Timeout},
		{"ctx deadline", errors.Join(ads1x15.ErrTimeout, context.DeadlineExceeded), Timeout},
		{"cancelled", context.Canceled, Cancelled},
		{"invalid channel", ads1x15.ErrInvalidChannel, InvalidChannel},
		{"calibration", fmt.Errorf("load: %w", ads1x15.ErrDegenerateCalibration), DegenerateCalibration},
		{"gain", ads1x15.ErrInvalidGain, InvalidParams},
		{"rate", ads1x15.ErrInvalidDataRate, InvalidParams},
		{"code passthrough", Busy, Busy},
		{"unknown", errors.New("boom"), Error},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, MapDriverErr(tc.err))
		})
	}
}

func TestOfAndWrap(t *testing.T) {
	assert.Equal(t, OK, Of(nil))
	assert.Equal(t, Timeout, Of(Timeout))
	assert.Equal(t, Error, Of(errors.New("x")))

	assert.NoError(t, Wrap("measure", nil))

	err := Wrap("measure", ads1x15.ErrTimeout)
	assert.Equal(t, Timeout, Of(err))
	assert.ErrorIs(t, err, ads1x15.ErrTimeout)
	assert.Equal(t, "measure: timeout: ads1x15: conversion timeout", err.Error())

	wrapped := fmt.Errorf("ctx: %w", &E{C: Busy})
	assert.Equal(t, Busy, Of(wrapped))
}
