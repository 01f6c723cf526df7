package ads1x15

// Variant identifies the device model. It fixes the resolution shift and the
// data-rate table.
type Variant uint8

const (
	ADS1115 Variant = iota // 16-bit
	ADS1015                // 12-bit, left-justified in the conversion register
)

var (
	ads1115Rates = [8]int{8, 16, 32, 64, 128, 250, 475, 860}
	ads1015Rates = [8]int{128, 250, 490, 920, 1600, 2400, 3300, 3300}
)

func (v Variant) String() string {
	switch v {
	case ADS1115:
		return "ads1115"
	case ADS1015:
		return "ads1015"
	default:
		return "unknown"
	}
}

// Shift is the number of low-order bits the conversion register carries
// below the significant result.
func (v Variant) Shift() uint8 {
	if v == ADS1015 {
		return 4
	}
	return 0
}

// MaxCount is the largest positive raw count the variant produces.
func (v Variant) MaxCount() int16 { return int16(0x7FFF >> v.Shift()) }

func (v Variant) rates() *[8]int {
	if v == ADS1015 {
		return &ads1015Rates
	}
	return &ads1115Rates
}

// SPS returns the samples per second selected by rate on this variant.
func (v Variant) SPS(rate DataRate) int {
	if rate > 7 {
		return 0
	}
	return v.rates()[rate]
}

// RateFor returns the DR code that selects exactly sps samples per second.
func (v Variant) RateFor(sps int) (DataRate, bool) {
	for i, r := range v.rates() {
		if r == sps {
			return DataRate(i), true
		}
	}
	return 0, false
}

// FastestRate is the default data rate: 860 SPS on the ADS1115, 3300 SPS on
// the ADS1015.
func (v Variant) FastestRate() DataRate {
	if v == ADS1015 {
		return 6
	}
	return 7
}
