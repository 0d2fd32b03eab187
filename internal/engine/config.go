package engine

import (
	"errors"
	"fmt"
	"time"
)

// Config is the schedule configuration, constant for the device's
// operational life. Periods and the postponement window are measured in
// wake cycles; a period of 0 disables that actuator's schedule.
type Config struct {
	// HumidityThreshold is the moisture percentage below which the pump
	// is eligible to fire.
	HumidityThreshold float64

	// PumpPeriod is the number of wake cycles between pump evaluations.
	PumpPeriod uint32
	// NebulizerPeriod is the number of wake cycles between nebulizer
	// firings.
	NebulizerPeriod uint32

	// PumpDuration is the relay-on time per pump activation.
	PumpDuration time.Duration
	// NebulizerDuration is the relay-on time for the nebulizer.
	NebulizerDuration time.Duration

	// PumpRepeats is how many activations one pump trigger performs,
	// separated by PumpInterPause.
	PumpRepeats    int
	PumpInterPause time.Duration

	// PostponeWindow is the maximum consecutive cycles a due pump
	// trigger may be deferred while moisture stays at or above the
	// threshold. 0 disables deferral.
	PostponeWindow uint32

	// WakeInterval is the desired time between wake cycles.
	WakeInterval time.Duration
	// MaxSleep caps a single sleep request; the platform may be unable
	// to sleep the full interval in one step. 0 means uncapped.
	MaxSleep time.Duration
}

// Validate checks the configuration once at startup.
func (c Config) Validate() error {
	if c.HumidityThreshold < 0 || c.HumidityThreshold > 100 {
		return fmt.Errorf("humidity threshold %v outside [0, 100]", c.HumidityThreshold)
	}
	if c.PumpDuration < 0 || c.NebulizerDuration < 0 || c.PumpInterPause < 0 {
		return errors.New("durations must not be negative")
	}
	if c.PumpRepeats < 1 {
		return errors.New("pump repeats must be at least 1")
	}
	if c.WakeInterval <= 0 {
		return errors.New("wake interval must be positive")
	}
	if c.MaxSleep < 0 {
		return errors.New("max sleep must not be negative")
	}
	return nil
}

// nextSleep returns the wake interval capped at MaxSleep. The engine
// never chains sleeps; a short wake just resumes the schedule.
func (c Config) nextSleep() time.Duration {
	if c.MaxSleep > 0 && c.WakeInterval > c.MaxSleep {
		return c.MaxSleep
	}
	return c.WakeInterval
}
