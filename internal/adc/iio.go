package adc

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// IIOSensor reads raw samples from a Linux IIO sysfs attribute, e.g.
// /sys/bus/iio/devices/iio:device0/in_voltage0_raw.
type IIOSensor struct {
	path string
}

// NewIIOSensor creates a sensor backed by the attribute at path. The
// attribute is probed once so a missing ADC fails at startup rather
// than mid-cycle.
func NewIIOSensor(path string) (*IIOSensor, error) {
	s := &IIOSensor{path: path}
	if _, err := s.Read(); err != nil {
		return nil, fmt.Errorf("probe adc: %w", err)
	}
	return s, nil
}

// Read returns one raw sample.
func (s *IIOSensor) Read() (int, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return 0, fmt.Errorf("read adc attribute: %w", err)
	}
	raw, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("parse adc value %q: %w", strings.TrimSpace(string(data)), err)
	}
	return raw, nil
}
