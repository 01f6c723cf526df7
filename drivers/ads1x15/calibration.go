package ads1x15

import (
	"math"

	"primbox-go/x/mathx"
)

// Calibration is a two-point linear map from raw counts [InMin, InMax] to
// engineering units [OutMin, OutMax]. InMax must differ from InMin.
type Calibration struct {
	InMin, InMax   float64
	OutMin, OutMax float64
}

// Identity maps every raw count to itself.
var Identity = Calibration{InMin: 0, InMax: 1, OutMin: 0, OutMax: 1}

// Validate rejects a zero-width or non-finite domain and non-finite outputs.
func (c Calibration) Validate() error {
	for _, f := range [...]float64{c.InMin, c.InMax, c.OutMin, c.OutMax} {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return ErrDegenerateCalibration
		}
	}
	if c.InMax == c.InMin {
		return ErrDegenerateCalibration
	}
	return nil
}

// Apply maps raw through c. Values outside [InMin, InMax] extrapolate.
func (c Calibration) Apply(raw int16) float64 {
	return mathx.MapF64(float64(raw), c.InMin, c.InMax, c.OutMin, c.OutMax)
}

// ToEngineeringUnits is Apply in function form.
func ToEngineeringUnits(raw int16, c Calibration) float64 { return c.Apply(raw) }

// VoltageCalibration maps counts to volts at input for the given variant and
// PGA setting: MaxCount reads as the full-scale voltage.
func VoltageCalibration(v Variant, g Gain) Calibration {
	return Calibration{
		InMin:  0,
		InMax:  float64(v.MaxCount()),
		OutMin: 0,
		OutMax: g.FullScale(),
	}
}
