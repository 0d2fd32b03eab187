// Package adc reads the raw soil-moisture sensor value. The real
// implementation reads a Linux IIO sysfs attribute; the fake allows
// testing without hardware.
package adc

// Sensor reads one raw ADC sample.
type Sensor interface {
	Read() (int, error)
}

// DefaultSamples is the number of raw reads averaged per measurement.
// Capacitive sensors are noisy; a large average smooths supply ripple.
const DefaultSamples = 100
