// Package report publishes the outcome of each wake cycle over MQTT,
// with abstraction for testing. Reporting is best-effort: the device
// persists its state and goes back to sleep whether or not the report
// got out.
package report

import (
	"encoding/json"
	"time"

	"github.com/sweeney/plant-waterer/internal/cyclestate"
)

// Topic is the MQTT topic for cycle reports.
const Topic = "garden/waterer/cycle"

// Report is one cycle's outcome as handed to the emitter.
type Report struct {
	Timestamp      time.Time
	Cause          cyclestate.Cause
	Recovered      bool
	State          cyclestate.State
	NebulizerFired bool
	PumpFired      bool
	Deferred       bool

	// MoistureRaw/MoisturePercent are set only when a reading was taken.
	MoistureTaken   bool
	MoistureRaw     int
	MoisturePercent float64

	NextSleep time.Duration
}

// Emitter publishes cycle reports.
type Emitter interface {
	// Emit sends a cycle report. Returns error if publishing fails
	// (must never fail the cycle).
	Emit(r Report) error

	// Close disconnects from the broker.
	Close() error
}

// Payload is the MQTT message envelope.
type Payload struct {
	Cycle CyclePayload `json:"cycle"`
}

// CyclePayload contains the cycle report details.
type CyclePayload struct {
	Timestamp      string           `json:"timestamp"`
	Cause          string           `json:"cause"`
	Recovered      bool             `json:"recovered"`
	NebulizerFired bool             `json:"nebulizer_fired"`
	PumpFired      bool             `json:"pump_fired"`
	Deferred       bool             `json:"deferred"`
	Counters       CountersPayload  `json:"counters"`
	Moisture       *MoisturePayload `json:"moisture,omitempty"`
	NextSleepSec   int64            `json:"next_sleep_seconds"`
}

// CountersPayload mirrors the persisted counters after the cycle.
type CountersPayload struct {
	Pump      uint32 `json:"pump"`
	Nebulizer uint32 `json:"nebulizer"`
	Deferrals uint32 `json:"deferrals"`
}

// MoisturePayload carries the raw and calibrated moisture reading.
type MoisturePayload struct {
	Raw     int     `json:"raw"`
	Percent float64 `json:"percent"`
}

// FormatPayload creates the JSON payload for a cycle report.
func FormatPayload(r Report) ([]byte, error) {
	p := Payload{
		Cycle: CyclePayload{
			Timestamp:      r.Timestamp.UTC().Format(time.RFC3339),
			Cause:          string(r.Cause),
			Recovered:      r.Recovered,
			NebulizerFired: r.NebulizerFired,
			PumpFired:      r.PumpFired,
			Deferred:       r.Deferred,
			Counters: CountersPayload{
				Pump:      r.State.PumpCycles,
				Nebulizer: r.State.NebulizerCycles,
				Deferrals: r.State.Deferrals,
			},
			NextSleepSec: int64(r.NextSleep / time.Second),
		},
	}
	if r.MoistureTaken {
		p.Cycle.Moisture = &MoisturePayload{
			Raw:     r.MoistureRaw,
			Percent: r.MoisturePercent,
		}
	}
	return json.Marshal(p)
}
