package ads1x15

import (
	"errors"
	"sync"
)

// fakeBus emulates the register file of an ADS1x15 behind drivers.I2C.
type fakeBus struct {
	mu sync.Mutex

	addr       uint16
	conversion uint16
	config     uint16
	hi, lo     uint16

	readyAfter int  // config reads before OS reads back set
	neverReady bool // OS never set
	polls      int

	failWrite map[byte]error // per-register write failure
	failRead  map[byte]error // per-register read failure

	writes []write
	reads  []byte
	txs    int
}

type write struct {
	reg byte
	val uint16
}

var errBus = errors.New("nack")

func newFakeBus() *fakeBus {
	return &fakeBus{addr: AddressDefault, failWrite: map[byte]error{}, failRead: map[byte]error{}}
}

func (f *fakeBus) Tx(addr uint16, w, r []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.txs++
	if addr != f.addr {
		return errBus
	}
	if len(w) == 0 {
		return errBus
	}
	reg := w[0]
	if len(w) == 3 {
		if err := f.failWrite[reg]; err != nil {
			return err
		}
		val := uint16(w[1])<<8 | uint16(w[2])
		f.writes = append(f.writes, write{reg, val})
		switch reg {
		case regConfig:
			f.config = val
			f.polls = 0
		case regHiThresh:
			f.hi = val
		case regLoThresh:
			f.lo = val
		}
		return nil
	}
	if err := f.failRead[reg]; err != nil {
		return err
	}
	f.reads = append(f.reads, reg)
	var v uint16
	switch reg {
	case regConversion:
		v = f.conversion
	case regConfig:
		v = f.config &^ cfgOS
		if !f.neverReady && f.polls >= f.readyAfter {
			v |= cfgOS
		}
		f.polls++
	case regHiThresh:
		v = f.hi
	case regLoThresh:
		v = f.lo
	}
	if len(r) >= 2 {
		r[0] = byte(v >> 8)
		r[1] = byte(v)
	}
	return nil
}

func (f *fakeBus) configReads() int {
	n := 0
	for _, r := range f.reads {
		if r == regConfig {
			n++
		}
	}
	return n
}
