// Package engine contains the wake-cycle decision core. It is re-entered
// fresh on every wake with only the persisted counters surviving from the
// previous cycle; a cycle is one call to Resume. The package performs no
// actuation itself — it returns the relay commands to execute — so the
// scheduling logic is testable without hardware or a real sleep/wake
// platform.
package engine

import (
	"log"
	"time"

	"github.com/sweeney/plant-waterer/internal/adc"
	"github.com/sweeney/plant-waterer/internal/calib"
	"github.com/sweeney/plant-waterer/internal/cyclestate"
	"github.com/sweeney/plant-waterer/internal/relay"
)

// Moisture is one calibrated soil reading, taken only when the pump is
// eligible. It is never persisted.
type Moisture struct {
	Raw     int
	Percent float64
}

// Result is the outcome of one wake cycle: the state to persist, the
// actuator commands to run (nebulizer before pump), and the next sleep
// request.
type Result struct {
	State     cyclestate.State
	Cause     cyclestate.Cause
	Recovered bool

	Commands       []relay.Command
	NebulizerFired bool
	PumpFired      bool
	Deferred       bool

	// Moisture is nil when no reading was taken this cycle, or when the
	// sensor failed (a failed sensor biases toward watering).
	Moisture *Moisture

	NextSleep time.Duration
}

// Engine evaluates one wake cycle. Configuration is immutable after
// construction.
type Engine struct {
	cfg    Config
	curve  calib.Curve
	sensor adc.Sensor
}

// New creates an engine. The sensor should already average samples if
// averaging is wanted.
func New(cfg Config, curve calib.Curve, sensor adc.Sensor) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{cfg: cfg, curve: curve, sensor: sensor}, nil
}

// Resume runs one wake cycle over the loaded state. Callers pass the
// cause reported by the platform for this boot; a cause other than
// NormalWake, or a state that violates the counter invariants, replaces
// the counters with the safety defaults before evaluation.
func (e *Engine) Resume(st cyclestate.State, cause cyclestate.Cause) Result {
	res := Result{Cause: cause}

	if cause != cyclestate.CauseNormalWake ||
		!st.Valid(e.cfg.PumpPeriod, e.cfg.NebulizerPeriod, e.cfg.PostponeWindow) {
		st = cyclestate.Recovery(e.cfg.PumpPeriod, e.cfg.NebulizerPeriod)
		res.Recovered = true
	}

	// One wake cycle elapsed. Counters saturate at their period so they
	// stay within [0, period] while a deferred trigger waits; a disabled
	// schedule keeps its counter pinned at 0.
	if e.cfg.PumpPeriod > 0 && st.PumpCycles < e.cfg.PumpPeriod {
		st.PumpCycles++
	}
	if e.cfg.NebulizerPeriod > 0 && st.NebulizerCycles < e.cfg.NebulizerPeriod {
		st.NebulizerCycles++
	}

	// Nebulizer first, always, even when both are due.
	if e.cfg.NebulizerPeriod > 0 && st.NebulizerCycles >= e.cfg.NebulizerPeriod {
		res.Commands = append(res.Commands, relay.Command{
			Device:   relay.Nebulizer,
			Duration: e.cfg.NebulizerDuration,
			Repeats:  1,
		})
		res.NebulizerFired = true
		st.NebulizerCycles = 0
	}

	if e.cfg.PumpPeriod > 0 && st.PumpCycles >= e.cfg.PumpPeriod {
		st = e.evaluatePump(st, &res)
	}

	res.State = st
	res.NextSleep = e.cfg.nextSleep()
	return res
}

// evaluatePump decides between firing and humidity-based deferral. The
// deferral leaves the pump counter at its period so the trigger is
// re-evaluated next cycle; once the window is exhausted the pump fires
// regardless of moisture.
func (e *Engine) evaluatePump(st cyclestate.State, res *Result) cyclestate.State {
	percent := 0.0 // unreadable sensor reads as dry, the safe direction
	raw, err := e.sensor.Read()
	if err != nil {
		log.Printf("engine: moisture read failed, assuming dry: %v", err)
	} else {
		percent = e.curve.Percent(raw)
		res.Moisture = &Moisture{Raw: raw, Percent: percent}
	}

	if err == nil && percent >= e.cfg.HumidityThreshold && st.Deferrals < e.cfg.PostponeWindow {
		st.Deferrals++
		res.Deferred = true
		return st
	}

	res.Commands = append(res.Commands, relay.Command{
		Device:     relay.Pump,
		Duration:   e.cfg.PumpDuration,
		Repeats:    e.cfg.PumpRepeats,
		InterPause: e.cfg.PumpInterPause,
	})
	res.PumpFired = true
	st.PumpCycles = 0
	st.Deferrals = 0
	return st
}
