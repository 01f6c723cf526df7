// Package config loads acquisition settings from defaults, an optional
// embedded profile, an optional JSON file, PRIMBOX_* environment variables
// and command-line flags (later sources win).
package config

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/warthog618/config"
	"github.com/warthog618/config/blob"
	"github.com/warthog618/config/blob/decoder/json"
	"github.com/warthog618/config/dict"
	"github.com/warthog618/config/env"
	"github.com/warthog618/config/pflag"

	"primbox-go/drivers/ads1x15"
	"primbox-go/x/mathx"
	"primbox-go/x/timex"
)

const envPrefix = "PRIMBOX_"

var (
	ErrBadAddress = errors.New("config: i2c address must be 0x03-0x77")
	ErrBadVariant = errors.New("config: variant must be ads1115 or ads1015")
	ErrBadFSR     = errors.New("config: fsr must be one of 6.144, 4.096, 2.048, 1.024, 0.512, 0.256")
	ErrBadProfile = errors.New("config: unknown profile")
)

// Settings is the validated, typed view of the configuration.
type Settings struct {
	Bus      string // periph bus name; "" selects the first bus
	BusHz    int64  // 0 keeps the bus default
	Device   ads1x15.Config
	Volts    bool // calibrate to input volts instead of cal.*
	Channel  ads1x15.Channel
	Interval time.Duration
	Count    uint64
	Window   int
	MaxErrs  int
	SkipBusy bool
	Out      string // "-" for stdout, "" to disable, else a serial device
	Baud     int
	DB       string // SQLite path; "" disables the store
	LogLevel string
}

func defaults() map[string]any {
	return map[string]any{
		"i2c": map[string]any{
			"bus":   "",
			"speed": 0,
			"addr":  "0x48",
		},
		"variant":  "ads1115",
		"fsr":      6.144,
		"sps":      0,
		"timeout":  "250ms",
		"maxpolls": 0,
		"channel":  0,
		"interval": "100ms",
		"rate":     0.0,
		"count":    0,
		"window":   64,
		"maxerrs":  0,
		"skipbusy": false,
		"out":      "-",
		"baud":     115200,
		"db":       "",
		"profile":  "",
		"cal": map[string]any{
			"volts":  false,
			"inmin":  0.0,
			"inmax":  1.0,
			"outmin": 0.0,
			"outmax": 1.0,
		},
		"log": map[string]any{
			"level": "info",
		},
	}
}

// Load builds the layered configuration from the process environment and
// command line, then decodes it.
func Load() (Settings, error) {
	flags := []pflag.Flag{
		{Short: 'c', Name: "config-file"},
	}
	cfg := config.New(
		pflag.New(pflag.WithFlags(flags)),
		env.New(env.WithEnvPrefix(envPrefix)),
		config.WithDefault(dict.New(dict.WithMap(defaults()))))
	cfg.Append(
		blob.NewConfigFile(cfg, "config.file", "primbox.json", json.NewDecoder()))
	if name, err := cfg.Get("profile"); err == nil && name.String() != "" {
		p, ok := profiles[name.String()]
		if !ok {
			return Settings{}, ErrBadProfile
		}
		cfg.Append(dict.New(dict.WithMap(p)))
	}
	return FromConfig(cfg)
}

// FromConfig decodes and validates settings from an assembled config.
func FromConfig(cfg *config.Config) (Settings, error) {
	r := reader{c: cfg}
	var s Settings

	s.Bus = r.str("i2c.bus")
	s.BusHz = int64(r.num("i2c.speed"))

	addr, err := strconv.ParseUint(r.str("i2c.addr"), 0, 16)
	if err != nil || !mathx.Between(addr, 0x03, 0x77) {
		return s, ErrBadAddress
	}
	s.Device.Address = uint16(addr)

	switch strings.ToLower(r.str("variant")) {
	case "ads1115", "1115":
		s.Device.Variant = ads1x15.ADS1115
	case "ads1015", "1015":
		s.Device.Variant = ads1x15.ADS1015
	default:
		return s, ErrBadVariant
	}

	gain, ok := gainForFSR(r.num("fsr"))
	if !ok {
		return s, ErrBadFSR
	}
	s.Device.Gain = gain
	s.Device.SPS = int(r.num("sps"))
	if s.Device.SPS != 0 {
		if _, ok := s.Device.Variant.RateFor(s.Device.SPS); !ok {
			return s, ads1x15.ErrInvalidDataRate
		}
	}
	s.Device.Timeout = r.dur("timeout")
	s.Device.MaxPolls = int(r.num("maxpolls"))

	s.Volts = r.boolean("cal.volts")
	if s.Volts {
		s.Device.Calibration = ads1x15.VoltageCalibration(s.Device.Variant, gain)
	} else {
		s.Device.Calibration = ads1x15.Calibration{
			InMin:  r.num("cal.inmin"),
			InMax:  r.num("cal.inmax"),
			OutMin: r.num("cal.outmin"),
			OutMax: r.num("cal.outmax"),
		}
	}
	if err := s.Device.Calibration.Validate(); err != nil {
		return s, err
	}

	s.Channel = ads1x15.Channel(r.num("channel"))
	if _, ok := s.Channel.Mux(); !ok {
		return s, ads1x15.ErrInvalidChannel
	}
	s.Interval = r.dur("interval")
	if hz := r.num("rate"); hz > 0 {
		s.Interval = timex.PeriodFromHz(hz)
	}
	s.Count = uint64(r.num("count"))
	s.Window = int(r.num("window"))
	s.MaxErrs = int(r.num("maxerrs"))
	s.SkipBusy = r.boolean("skipbusy")
	s.Out = r.str("out")
	s.Baud = int(r.num("baud"))
	s.DB = r.str("db")
	s.LogLevel = r.str("log.level")
	return s, r.err
}

func gainForFSR(v float64) (ads1x15.Gain, bool) {
	for g := ads1x15.GainTwoThirds; g.Valid(); g++ {
		if d := g.FullScale() - v; d < 1e-6 && d > -1e-6 {
			return g, true
		}
	}
	return 0, false
}

// reader keeps the first lookup error so decoding reads straight through.
type reader struct {
	c   *config.Config
	err error
}

func (r *reader) get(key string) (config.Value, bool) {
	v, err := r.c.Get(key)
	if err != nil {
		if r.err == nil {
			r.err = errors.Join(errors.New("config: "+key), err)
		}
		return v, false
	}
	return v, true
}

func (r *reader) str(key string) string {
	v, _ := r.get(key)
	return v.String()
}

func (r *reader) num(key string) float64 {
	v, _ := r.get(key)
	return v.Float()
}

func (r *reader) dur(key string) time.Duration {
	v, _ := r.get(key)
	return v.Duration()
}

func (r *reader) boolean(key string) bool {
	v, _ := r.get(key)
	return v.Bool()
}
