package mathx

// MapF64 maps x linearly from [inMin,inMax] onto [outMin,outMax].
// No clamping: inputs outside the domain extrapolate. Callers must ensure
// inMax != inMin; a zero-width domain yields ±Inf or NaN.
func MapF64(x, inMin, inMax, outMin, outMax float64) float64 {
	return (outMax-outMin)/(inMax-inMin)*(x-inMin) + outMin
}
