package report

// FakeEmitter records emitted reports for test assertions.
type FakeEmitter struct {
	// Reports contains all reports that were emitted.
	Reports []Report

	// Payloads contains the JSON payloads that were emitted.
	Payloads [][]byte

	// EmitError, if set, is returned by Emit.
	EmitError error

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakeEmitter creates a FakeEmitter for testing.
func NewFakeEmitter() *FakeEmitter {
	return &FakeEmitter{}
}

// Emit records the report.
func (f *FakeEmitter) Emit(r Report) error {
	if f.EmitError != nil {
		return f.EmitError
	}

	f.Reports = append(f.Reports, r)

	payload, err := FormatPayload(r)
	if err != nil {
		return err
	}
	f.Payloads = append(f.Payloads, payload)

	return nil
}

// Close marks the emitter as closed.
func (f *FakeEmitter) Close() error {
	f.Closed = true
	return nil
}
