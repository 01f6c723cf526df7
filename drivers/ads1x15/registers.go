// Package ads1x15 provides constants for register addresses and bitfields used
// in the operation of the ADS1015/ADS1115 delta-sigma ADCs.
package ads1x15

const (
	// 7-bit I2C address with ADDR tied to GND. VDD, SDA and SCL select
	// 0x49, 0x4A and 0x4B respectively.
	AddressDefault = 0x48

	// --- Register pointers ---
	regConversion = 0x00 // R
	regConfig     = 0x01 // R/W
	regLoThresh   = 0x02 // R/W
	regHiThresh   = 0x03 // R/W

	// Threshold sentinels that put ALERT/RDY into conversion-ready mode:
	// Hi_thresh MSB set, Lo_thresh MSB clear.
	threshReady    = 0x8000
	threshNotReady = 0x0000
)

// Config register fields (bit 15 down to bit 0).
const (
	cfgOS = 1 << 15 // W: start single conversion; R: 1 = idle (conversion done)

	cfgMuxShift = 12
	cfgMuxMask  = 0x7 << cfgMuxShift

	cfgPGAShift = 9
	cfgPGAMask  = 0x7 << cfgPGAShift

	cfgModeSingle = 1 << 8 // 0 = continuous

	cfgDRShift = 5
	cfgDRMask  = 0x7 << cfgDRShift

	cfgCompWindow    = 1 << 4 // 0 = traditional
	cfgCompActHigh   = 1 << 3 // 0 = active low
	cfgCompLatching  = 1 << 2 // 0 = non-latching
	cfgCompQueMask   = 0x3
	cfgCompQue1Conv  = 0x0 // assert after one conversion
	cfgCompQueOff    = 0x3
	cfgCompFixedBits = cfgCompQue1Conv // traditional | active-low | non-latching | 1-conv
)
