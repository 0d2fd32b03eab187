package adc

import "errors"

// FakeSensor is a test double returning scripted raw values.
type FakeSensor struct {
	// Values contains scripted raw readings. Each Read consumes the
	// next value; the last value repeats once exhausted.
	Values []int

	// ReadError, if set, is returned by Read.
	ReadError error

	index int
	// Reads counts Read calls, including failed ones.
	Reads int
}

// NewFakeSensor creates a FakeSensor with the given values.
func NewFakeSensor(values ...int) *FakeSensor {
	return &FakeSensor{Values: values}
}

// Read returns the next scripted value.
func (f *FakeSensor) Read() (int, error) {
	f.Reads++
	if f.ReadError != nil {
		return 0, f.ReadError
	}
	if len(f.Values) == 0 {
		return 0, errors.New("no values configured")
	}

	v := f.Values[f.index]
	if f.index < len(f.Values)-1 {
		f.index++
	}
	return v, nil
}
