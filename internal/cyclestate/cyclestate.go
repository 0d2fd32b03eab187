// Package cyclestate persists the wake-cycle counters across reboots.
// The record is the only state that must outlive a power interruption;
// everything else is rebuilt fresh on every wake.
package cyclestate

import "errors"

// ErrNoState indicates no usable persisted record: first boot, missing
// file, or a structurally invalid record. Callers treat all three the
// same way as a power-loss event.
var ErrNoState = errors.New("cyclestate: no valid persisted state")

// Cause classifies why the process is running this cycle. It is derived
// from the platform on every boot, never read back from storage — a
// persisted flag would be lost in exactly the event it is meant to detect.
type Cause string

const (
	CauseNormalWake Cause = "NORMAL_WAKE"
	CausePowerLoss  Cause = "POWER_LOSS"
	CauseUnknown    Cause = "UNKNOWN"
)

// State holds the persisted wake-cycle counters.
type State struct {
	// PumpCycles counts wake cycles since the pump last fired.
	PumpCycles uint32 `json:"pump_cycles"`
	// NebulizerCycles counts wake cycles since the nebulizer last fired.
	NebulizerCycles uint32 `json:"nebulizer_cycles"`
	// Deferrals counts consecutive humidity-based pump postponements in
	// the current deferral window. Zero when no deferral is active.
	Deferrals uint32 `json:"deferrals"`
}

// Store loads and saves wake-cycle state. Both operations must be atomic
// with respect to abrupt power loss: a later Load observes either the
// fully-prior record or ErrNoState, never a torn record.
type Store interface {
	Load() (State, error)
	Save(State) error
}

// Recovery returns the safety-default state applied after a power loss
// or an invalid record. The pump is held back by half its period rather
// than fired immediately, while the nebulizer is made eligible on the
// next evaluation; any deferral window in progress is abandoned.
func Recovery(pumpPeriod, nebulizerPeriod uint32) State {
	return State{
		PumpCycles:      pumpPeriod / 2,
		NebulizerCycles: nebulizerPeriod,
		Deferrals:       0,
	}
}

// Valid reports whether the counters satisfy the invariants for the
// given configuration: counters within [0, period] (pinned at 0 when the
// period is 0) and deferrals within the postponement window. Records
// that fail are treated as corrupt.
func (s State) Valid(pumpPeriod, nebulizerPeriod, postponeWindow uint32) bool {
	if pumpPeriod == 0 && s.PumpCycles != 0 {
		return false
	}
	if nebulizerPeriod == 0 && s.NebulizerCycles != 0 {
		return false
	}
	if pumpPeriod > 0 && s.PumpCycles > pumpPeriod {
		return false
	}
	if nebulizerPeriod > 0 && s.NebulizerCycles > nebulizerPeriod {
		return false
	}
	return s.Deferrals <= postponeWindow
}
