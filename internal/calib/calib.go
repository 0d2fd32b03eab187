// Package calib maps raw soil-sensor readings to moisture percentages.
// Capacitive sensors read a lower voltage when wetter, so the calibrated
// slope is normally negative; the curve derives it from the two points
// rather than assuming a sign.
package calib

import "errors"

// ErrDegenerateCurve is returned when both calibration points share the
// same raw value, which leaves the slope undefined.
var ErrDegenerateCurve = errors.New("calib: calibration points have equal raw values")

// Curve is an affine raw-to-percent map through two calibration points,
// clamped to [0, 100]. It is a total function: any raw value, including
// one from a disconnected sensor, yields a valid percentage.
type Curve struct {
	slope     float64
	intercept float64
}

// NewCurve builds a curve through (rawFull, 100) and (rawRef, refPercent),
// where rawFull is the reading in saturated soil and rawRef the reading at
// the reference moisture level refPercent.
func NewCurve(rawFull, rawRef int, refPercent float64) (Curve, error) {
	if rawFull == rawRef {
		return Curve{}, ErrDegenerateCurve
	}
	slope := (100 - refPercent) / float64(rawFull-rawRef)
	return Curve{
		slope:     slope,
		intercept: refPercent - float64(rawRef)*slope,
	}, nil
}

// Percent returns the moisture percentage for a raw reading, clamped to
// [0, 100].
func (c Curve) Percent(raw int) float64 {
	p := c.slope*float64(raw) + c.intercept
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
