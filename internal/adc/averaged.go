package adc

import "fmt"

// Averaged wraps a Sensor, returning the mean of n raw reads per call.
type Averaged struct {
	sensor  Sensor
	samples int
}

// NewAveraged creates an averaging sensor. samples < 1 is treated as 1.
func NewAveraged(sensor Sensor, samples int) *Averaged {
	if samples < 1 {
		samples = 1
	}
	return &Averaged{sensor: sensor, samples: samples}
}

// Read returns the integer mean of the configured number of samples.
// The first read error aborts the measurement.
func (a *Averaged) Read() (int, error) {
	sum := 0
	for i := 0; i < a.samples; i++ {
		v, err := a.sensor.Read()
		if err != nil {
			return 0, fmt.Errorf("sample %d of %d: %w", i+1, a.samples, err)
		}
		sum += v
	}
	return sum / a.samples, nil
}
