package ads1x15

// Mode selects continuous or single-shot conversion.
type Mode uint8

const (
	ModeSingleShot Mode = iota
	ModeContinuous
)

// Gain is the PGA full-scale range code (config bits 11:9).
type Gain uint8

const (
	GainTwoThirds Gain = iota // ±6.144 V
	GainOne                   // ±4.096 V
	GainTwo                   // ±2.048 V
	GainFour                  // ±1.024 V
	GainEight                 // ±0.512 V
	GainSixteen               // ±0.256 V
)

var fullScaleVolts = [...]float64{6.144, 4.096, 2.048, 1.024, 0.512, 0.256}

// Valid reports whether g is one of the defined PGA settings.
func (g Gain) Valid() bool { return int(g) < len(fullScaleVolts) }

// FullScale returns the positive full-scale input voltage for g, or 0 for an
// undefined code.
func (g Gain) FullScale() float64 {
	if !g.Valid() {
		return 0
	}
	return fullScaleVolts[g]
}

// DataRate is the raw DR code (config bits 7:5). Its samples-per-second value
// depends on the Variant.
type DataRate uint8

// Mux is the input multiplexer code (config bits 14:12).
type Mux uint8

const (
	MuxDiff01 Mux = iota // AIN0 - AIN1
	MuxDiff03            // AIN0 - AIN3
	MuxDiff13            // AIN1 - AIN3
	MuxDiff23            // AIN2 - AIN3
	MuxSingle0
	MuxSingle1
	MuxSingle2
	MuxSingle3
)

// Fields is a decoded config word.
type Fields struct {
	Ready      bool // OS bit
	Mux        Mux
	Gain       Gain
	Mode       Mode
	Rate       DataRate
	Window     bool
	ActiveHigh bool
	Latching   bool
	Queue      uint8
}

// EncodeConfig builds the config word for a conversion request. The
// comparator is fixed to traditional, active-low, non-latching, asserting
// after one conversion, and the OS bit is always set so that a single-shot
// conversion starts on write.
func EncodeConfig(mode Mode, gain Gain, rate DataRate, mux Mux) uint16 {
	w := uint16(cfgCompFixedBits)
	if mode == ModeSingleShot {
		w |= cfgModeSingle
	}
	w |= uint16(gain&0x7) << cfgPGAShift
	w |= uint16(rate&0x7) << cfgDRShift
	w |= uint16(mux&0x7) << cfgMuxShift
	w |= cfgOS
	return w
}

// DecodeConfig splits a config word into its fields.
func DecodeConfig(w uint16) Fields {
	f := Fields{
		Ready:      w&cfgOS != 0,
		Mux:        Mux((w & cfgMuxMask) >> cfgMuxShift),
		Gain:       Gain((w & cfgPGAMask) >> cfgPGAShift),
		Mode:       ModeContinuous,
		Rate:       DataRate((w & cfgDRMask) >> cfgDRShift),
		Window:     w&cfgCompWindow != 0,
		ActiveHigh: w&cfgCompActHigh != 0,
		Latching:   w&cfgCompLatching != 0,
		Queue:      uint8(w & cfgCompQueMask),
	}
	if w&cfgModeSingle != 0 {
		f.Mode = ModeSingleShot
	}
	return f
}

// Ready reports whether the OS bit of a config word read back from the device
// is set, i.e. no conversion is in progress.
func Ready(w uint16) bool { return w&cfgOS != 0 }

// SignExtend converts a raw conversion register value into a signed count.
// With shift == 0 the word is reinterpreted as int16. Otherwise the value is
// right-justified by shift bits and bit (15-shift) is treated as the sign.
func SignExtend(raw uint16, shift uint8) int16 {
	if shift == 0 {
		return int16(raw)
	}
	if shift > 15 {
		return 0
	}
	res := raw >> shift
	sign := uint16(1) << (15 - shift)
	if res&sign != 0 {
		res |= ^uint16(0) << (16 - shift)
	}
	return int16(res)
}

// Register framing: writes are [reg, hi, lo]; reads send [reg] and receive
// two bytes MSB first.

func frameWrite(buf []byte, reg byte, val uint16) []byte {
	buf[0] = reg
	buf[1] = byte(val >> 8)
	buf[2] = byte(val)
	return buf[:3]
}

func wordBE(b []byte) uint16 { return uint16(b[0])<<8 | uint16(b[1]) }
