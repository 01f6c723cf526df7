package i2cx

import (
	"errors"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
)

// ErrOpen is returned when the host bus cannot be opened.
var ErrOpen = errors.New("i2cx: open bus")

// Host is a host I2C bus (e.g. /dev/i2c-1 on a Raspberry Pi). Its Tx has the
// drivers.I2C shape so drivers can use it directly.
type Host struct {
	bus i2c.BusCloser
}

// OpenHost initialises the periph host drivers and opens the named bus
// ("" selects the first available, "1" selects /dev/i2c-1). speedHz == 0
// keeps the bus default.
func OpenHost(name string, speedHz int64) (*Host, error) {
	if _, err := host.Init(); err != nil {
		return nil, errors.Join(ErrOpen, err)
	}
	b, err := i2creg.Open(name)
	if err != nil {
		return nil, errors.Join(ErrOpen, err)
	}
	if speedHz > 0 {
		if err := b.SetSpeed(physic.Frequency(speedHz) * physic.Hertz); err != nil {
			_ = b.Close()
			return nil, errors.Join(ErrOpen, err)
		}
	}
	return &Host{bus: b}, nil
}

func (h *Host) Tx(addr uint16, w, r []byte) error { return h.bus.Tx(addr, w, r) }

func (h *Host) String() string { return h.bus.String() }

func (h *Host) Close() error { return h.bus.Close() }
