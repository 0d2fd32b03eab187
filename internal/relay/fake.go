package relay

// Transition records a single Set call on a FakeOutput.
type Transition struct {
	Device Device
	Active bool
}

// FakeOutput is a test double that records relay transitions.
type FakeOutput struct {
	// Transitions contains every Set call in order.
	Transitions []Transition

	// Levels holds the last state written per device.
	Levels map[Device]bool

	// FailAt, if > 0, makes the FailAt-th Set call return FailErr.
	// Later calls succeed, so idle restoration can still be observed.
	FailAt  int
	FailErr error

	// Closed tracks if Close was called.
	Closed bool

	calls int
}

// NewFakeOutput creates a FakeOutput with all devices idle.
func NewFakeOutput() *FakeOutput {
	return &FakeOutput{Levels: map[Device]bool{Pump: false, Nebulizer: false}}
}

// Set records the transition, honoring any scripted failure.
func (f *FakeOutput) Set(dev Device, active bool) error {
	f.calls++
	if f.FailAt > 0 && f.calls == f.FailAt {
		return f.FailErr
	}
	f.Transitions = append(f.Transitions, Transition{Device: dev, Active: active})
	f.Levels[dev] = active
	return nil
}

// Close marks the output as closed.
func (f *FakeOutput) Close() error {
	f.Closed = true
	return nil
}
