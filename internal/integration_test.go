package internal

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/sweeney/plant-waterer/internal/adc"
	"github.com/sweeney/plant-waterer/internal/calib"
	"github.com/sweeney/plant-waterer/internal/cyclestate"
	"github.com/sweeney/plant-waterer/internal/engine"
	"github.com/sweeney/plant-waterer/internal/relay"
	"github.com/sweeney/plant-waterer/internal/report"
)

// TestIntegrationWeekOfCycles drives a week of hourly wake cycles through
// the full stack using fakes: file-backed state reloaded on every cycle
// to model the reboot-per-wake lifecycle, the relay controller, and the
// MQTT fake.
func TestIntegrationWeekOfCycles(t *testing.T) {
	cfg := engine.Config{
		HumidityThreshold: 60,
		PumpPeriod:        144, // six days of hourly wakes
		NebulizerPeriod:   12,
		PumpDuration:      7 * time.Second,
		NebulizerDuration: 135 * time.Second,
		PumpRepeats:       2,
		PumpInterPause:    5 * time.Minute,
		PostponeWindow:    5,
		WakeInterval:      time.Hour,
		MaxSleep:          3*time.Hour + 45*time.Minute,
	}
	curve, err := calib.NewCurve(297, 378, 60)
	if err != nil {
		t.Fatalf("NewCurve: %v", err)
	}

	store, err := cyclestate.NewFileStore(filepath.Join(t.TempDir(), "state.json"))
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	out := relay.NewFakeOutput()
	controller := relay.NewController(out, func(time.Duration) {})
	emitter := report.NewFakeEmitter()
	sensor := adc.NewFakeSensor(500) // dry all week
	eng, err := engine.New(cfg, curve, sensor)
	if err != nil {
		t.Fatalf("engine.New: %v", err)
	}

	start := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)
	var nebFires, pumpFires int

	// First boot is a power loss (no persisted record exists yet); every
	// later wake is a scheduled one. Each cycle reloads state from disk,
	// as a rebooting device would.
	for cycle := 0; cycle < 168; cycle++ {
		cause := cyclestate.CauseNormalWake
		st, err := store.Load()
		if err != nil {
			st = cyclestate.State{}
			cause = cyclestate.CausePowerLoss
		}

		res := eng.Resume(st, cause)
		for _, cmd := range res.Commands {
			if err := controller.Trigger(cmd); err != nil {
				t.Fatalf("cycle %d: trigger: %v", cycle, err)
			}
		}
		if err := store.Save(res.State); err != nil {
			t.Fatalf("cycle %d: save: %v", cycle, err)
		}

		r := report.Report{
			Timestamp:      start.Add(time.Duration(cycle) * time.Hour),
			Cause:          res.Cause,
			Recovered:      res.Recovered,
			State:          res.State,
			NebulizerFired: res.NebulizerFired,
			PumpFired:      res.PumpFired,
			Deferred:       res.Deferred,
			NextSleep:      res.NextSleep,
		}
		if res.Moisture != nil {
			r.MoistureTaken = true
			r.MoistureRaw = res.Moisture.Raw
			r.MoisturePercent = res.Moisture.Percent
		}
		if err := emitter.Emit(r); err != nil {
			t.Fatalf("cycle %d: emit: %v", cycle, err)
		}

		if res.NebulizerFired {
			nebFires++
		}
		if res.PumpFired {
			pumpFires++
		}
		if cycle == 0 && !res.Recovered {
			t.Error("first boot should apply recovery")
		}
		if cycle > 0 && res.Recovered {
			t.Errorf("cycle %d: unexpected recovery", cycle)
		}

		// Relays always end idle.
		if out.Levels[relay.Pump] || out.Levels[relay.Nebulizer] {
			t.Fatalf("cycle %d: relay left active", cycle)
		}
	}

	// Recovery fires the nebulizer on cycle 0, then every 12 cycles:
	// cycles 0, 12, ..., 156 make 14 firings in 168 cycles.
	if nebFires != 14 {
		t.Errorf("nebulizer fired %d times, want 14", nebFires)
	}
	// Recovery holds the pump at half period (72); it reaches 144 on
	// cycle 71, fires into dry soil, and is not due again within the
	// week.
	if pumpFires != 1 {
		t.Errorf("pump fired %d times, want 1", pumpFires)
	}

	if len(emitter.Reports) != 168 {
		t.Fatalf("emitted %d reports, want 168", len(emitter.Reports))
	}
	if emitter.Reports[0].Cause != cyclestate.CausePowerLoss {
		t.Errorf("first cause = %s, want POWER_LOSS", emitter.Reports[0].Cause)
	}
	if emitter.Reports[167].Cause != cyclestate.CauseNormalWake {
		t.Errorf("last cause = %s, want NORMAL_WAKE", emitter.Reports[167].Cause)
	}
}

// TestIntegrationWetSpellDefersPump models a wet spell: the pump becomes
// due while the soil still reads wet, defers for the full window, then
// fires unconditionally.
func TestIntegrationWetSpellDefersPump(t *testing.T) {
	cfg := engine.Config{
		HumidityThreshold: 60,
		PumpPeriod:        5,
		NebulizerPeriod:   0,
		PumpDuration:      7 * time.Second,
		PumpRepeats:       2,
		PumpInterPause:    time.Minute,
		PostponeWindow:    3,
		WakeInterval:      time.Hour,
	}
	curve, err := calib.NewCurve(297, 378, 60)
	if err != nil {
		t.Fatalf("NewCurve: %v", err)
	}
	sensor := adc.NewFakeSensor(297) // saturated forever
	eng, err := engine.New(cfg, curve, sensor)
	if err != nil {
		t.Fatalf("engine.New: %v", err)
	}
	out := relay.NewFakeOutput()
	controller := relay.NewController(out, func(time.Duration) {})

	st := cyclestate.State{}
	var deferred, fired int
	for cycle := 0; cycle < 8; cycle++ {
		res := eng.Resume(st, cyclestate.CauseNormalWake)
		st = res.State
		for _, cmd := range res.Commands {
			if err := controller.Trigger(cmd); err != nil {
				t.Fatalf("trigger: %v", err)
			}
		}
		if res.Deferred {
			deferred++
		}
		if res.PumpFired {
			fired++
		}
	}

	if deferred != 3 {
		t.Errorf("deferred %d times, want 3", deferred)
	}
	if fired != 1 {
		t.Errorf("pump fired %d times, want 1 (unconditional at window end)", fired)
	}
	// Two activations per trigger sequence.
	active := 0
	for _, tr := range out.Transitions {
		if tr.Active {
			active++
		}
	}
	if active != 2 {
		t.Errorf("pump activated %d times, want 2", active)
	}
	if out.Levels[relay.Pump] {
		t.Error("pump relay left active")
	}
}
