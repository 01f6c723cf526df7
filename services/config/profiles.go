package config

// Embedded board profiles, selected with "profile". A profile overrides the
// defaults but not the config file, environment, or flags.
var profiles = map[string]map[string]any{
	// PRIM acquisition box: pressure transducer on AIN0-AIN1, counts
	// 0..26400 read as 0..200 mmHg at the widest range.
	"prim-box": {
		"variant": "ads1115",
		"fsr":     6.144,
		"sps":     860,
		"channel": 0,
		"cal": map[string]any{
			"inmin":  0.0,
			"inmax":  26400.0,
			"outmin": 0.0,
			"outmax": 200.0,
		},
	},
	// ADS1015 breakout reporting input volts on AIN2-AIN3.
	"ads1015-volts": {
		"variant": "ads1015",
		"fsr":     4.096,
		"channel": 1,
		"cal": map[string]any{
			"volts": true,
		},
	},
}
