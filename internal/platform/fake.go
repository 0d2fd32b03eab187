package platform

import (
	"time"

	"github.com/sweeney/plant-waterer/internal/cyclestate"
)

// FakeService is a test double with a scripted reset cause.
type FakeService struct {
	// Cause is returned by ResetCause.
	Cause cyclestate.Cause

	// Sleeps records every requested sleep duration.
	Sleeps []time.Duration

	// SleepError, if set, is returned by Sleep.
	SleepError error
}

// NewFakeService creates a FakeService reporting the given cause.
func NewFakeService(cause cyclestate.Cause) *FakeService {
	return &FakeService{Cause: cause}
}

// ResetCause returns the scripted cause.
func (f *FakeService) ResetCause() cyclestate.Cause {
	return f.Cause
}

// Sleep records the request without sleeping.
func (f *FakeService) Sleep(d time.Duration) error {
	if f.SleepError != nil {
		return f.SleepError
	}
	f.Sleeps = append(f.Sleeps, d)
	return nil
}
