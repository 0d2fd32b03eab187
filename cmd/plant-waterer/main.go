// Command plant-waterer wakes on a schedule, evaluates the soil-moisture
// counters, drives the pump and nebulizer relays, and publishes a cycle
// report to MQTT.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sweeney/plant-waterer/internal/adc"
	"github.com/sweeney/plant-waterer/internal/calib"
	"github.com/sweeney/plant-waterer/internal/cyclestate"
	"github.com/sweeney/plant-waterer/internal/engine"
	"github.com/sweeney/plant-waterer/internal/platform"
	"github.com/sweeney/plant-waterer/internal/relay"
	"github.com/sweeney/plant-waterer/internal/report"
)

func main() {
	// Hardware
	chip := flag.String("chip", "gpiochip0", "GPIO chip name")
	pinPump := flag.Int("pin-pump", relay.DefaultPinPump, "BCM pin number for the pump relay")
	pinNeb := flag.Int("pin-nebulizer", relay.DefaultPinNebulizer, "BCM pin number for the nebulizer relay")
	activeLow := flag.Bool("active-low", true, "Relay modules are low-active (idle high)")
	adcPath := flag.String("adc", "/sys/bus/iio/devices/iio:device0/in_voltage0_raw", "IIO attribute for the moisture sensor")
	samples := flag.Int("samples", adc.DefaultSamples, "ADC samples averaged per reading")

	// Calibration
	rawFull := flag.Int("cal-full", 297, "Raw reading in saturated soil (100%)")
	rawRef := flag.Int("cal-ref", 378, "Raw reading at the reference moisture level")
	refPct := flag.Float64("cal-ref-pct", 60, "Moisture percentage at the reference reading")

	// Schedule
	threshold := flag.Float64("threshold", 60, "Moisture percentage below which the pump fires")
	pumpPeriod := flag.Uint("pump-period", 144, "Wake cycles between pump evaluations (0 disables)")
	nebPeriod := flag.Uint("nebulizer-period", 12, "Wake cycles between nebulizer firings (0 disables)")
	pumpDur := flag.Duration("pump-duration", 7*time.Second, "Pump ON time per activation")
	nebDur := flag.Duration("nebulizer-duration", 135*time.Second, "Nebulizer ON time")
	pumpRepeats := flag.Int("pump-repeats", 2, "Pump activations per trigger")
	pumpPause := flag.Duration("pump-pause", 5*time.Minute, "Pause between pump activations")
	window := flag.Uint("postpone-window", 5, "Max cycles a due pump trigger may be deferred while soil is wet")
	wakeInterval := flag.Duration("wake-interval", time.Hour, "Desired time between wake cycles")
	maxSleep := flag.Duration("max-sleep", 3*time.Hour+45*time.Minute, "Cap on a single sleep request (0 uncapped)")

	// Host
	statePath := flag.String("state", "/var/lib/plant-waterer/state.json", "Persisted counter file")
	causePath := flag.String("cause", "", "Reset-cause source file (empty treats each start as unplanned)")
	broker := flag.String("broker", "tcp://192.168.1.200:1883", `MQTT broker address (empty disables reporting)`)
	clientID := flag.String("client-id", "plant-waterer", "MQTT client ID")
	oneshot := flag.Bool("oneshot", false, "Run a single wake cycle and exit (for systemd timers)")
	printMoisture := flag.Bool("print-moisture", false, "Print current moisture and exit")

	flag.Parse()

	cfg := engine.Config{
		HumidityThreshold: *threshold,
		PumpPeriod:        uint32(*pumpPeriod),
		NebulizerPeriod:   uint32(*nebPeriod),
		PumpDuration:      *pumpDur,
		NebulizerDuration: *nebDur,
		PumpRepeats:       *pumpRepeats,
		PumpInterPause:    *pumpPause,
		PostponeWindow:    uint32(*window),
		WakeInterval:      *wakeInterval,
		MaxSleep:          *maxSleep,
	}

	err := run(cfg, *chip, *pinPump, *pinNeb, *activeLow, *adcPath, *samples,
		*rawFull, *rawRef, *refPct, *statePath, *causePath, *broker, *clientID,
		*oneshot, *printMoisture)
	if err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(cfg engine.Config, chip string, pinPump, pinNeb int, activeLow bool,
	adcPath string, samples, rawFull, rawRef int, refPct float64,
	statePath, causePath, broker, clientID string, oneshot, printMoisture bool) error {

	curve, err := calib.NewCurve(rawFull, rawRef, refPct)
	if err != nil {
		return fmt.Errorf("init calibration: %w", err)
	}

	sensor, err := adc.NewIIOSensor(adcPath)
	if err != nil {
		return fmt.Errorf("init adc: %w", err)
	}
	averaged := adc.NewAveraged(sensor, samples)

	// Print moisture mode
	if printMoisture {
		raw, err := averaged.Read()
		if err != nil {
			return fmt.Errorf("read moisture: %w", err)
		}
		fmt.Printf("raw: %d, moisture: %.1f%%\n", raw, curve.Percent(raw))
		return nil
	}

	eng, err := engine.New(cfg, curve, averaged)
	if err != nil {
		return fmt.Errorf("init engine: %w", err)
	}

	// Initialize relays at idle
	output, err := relay.NewRealOutput(chip, pinPump, pinNeb, activeLow)
	if err != nil {
		return fmt.Errorf("init relays: %w", err)
	}
	defer output.Close()
	controller := relay.NewController(output, nil)

	store, err := cyclestate.NewFileStore(statePath)
	if err != nil {
		return fmt.Errorf("init state store: %w", err)
	}

	// Initialize MQTT; reporting is best-effort, a missing broker only
	// disables the report.
	var emitter report.Emitter
	if broker != "" {
		e, err := report.NewRealEmitter(broker, clientID)
		if err != nil {
			log.Printf("mqtt unavailable, reporting disabled: %v", err)
		} else {
			emitter = e
			defer e.Close()
		}
	}

	svc := platform.NewTimerService(causePath)
	cause := svc.ResetCause()

	log.Printf("started: cause=%s pump-period=%d nebulizer-period=%d wake-interval=%v",
		cause, cfg.PumpPeriod, cfg.NebulizerPeriod, cfg.WakeInterval)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	for {
		res := runCycle(eng, store, controller, emitter, cause, time.Now)

		if oneshot {
			return nil
		}

		// Subsequent in-process cycles are scheduled wakes.
		cause = cyclestate.CauseNormalWake

		slept := make(chan error, 1)
		go func() {
			slept <- svc.Sleep(res.NextSleep)
		}()
		select {
		case s := <-sigCh:
			log.Printf("received %v, shutting down", s)
			return nil
		case err := <-slept:
			if err != nil {
				log.Printf("sleep request failed: %v", err)
			}
		}
	}
}

// runCycle executes one full wake cycle: load, decide, actuate, persist,
// report. No failure short of power loss may skip persisting the state,
// so every error inside the cycle is logged and absorbed.
func runCycle(eng *engine.Engine, store cyclestate.Store, controller *relay.Controller,
	emitter report.Emitter, cause cyclestate.Cause, now func() time.Time) engine.Result {

	st, err := store.Load()
	if err != nil {
		// First boot, wiped record, or corrupt record: the engine
		// applies the same safety defaults as after a power loss.
		log.Printf("no usable persisted state: %v", err)
		cause = cyclestate.CausePowerLoss
	}

	res := eng.Resume(st, cause)
	if res.Recovered {
		log.Printf("recovery applied: counters reset to safety defaults")
	}
	if res.Moisture != nil {
		log.Printf("moisture: raw=%d percent=%.1f", res.Moisture.Raw, res.Moisture.Percent)
	}

	for _, cmd := range res.Commands {
		log.Printf("trigger: %s duration=%v repeats=%d pause=%v",
			cmd.Device, cmd.Duration, cmd.Repeats, cmd.InterPause)
		if err := controller.Trigger(cmd); err != nil {
			// No feedback sensing exists, so an immediate retry has no
			// value; the next cycle proceeds normally.
			log.Printf("trigger %s failed: %v", cmd.Device, err)
		}
	}

	if err := store.Save(res.State); err != nil {
		log.Printf("persist state failed: %v", err)
	}

	if emitter != nil {
		r := report.Report{
			Timestamp:      now(),
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
			log.Printf("report failed: %v", err)
		}
	}

	log.Printf("cycle done: pump=%d nebulizer=%d deferrals=%d next-sleep=%v",
		res.State.PumpCycles, res.State.NebulizerCycles, res.State.Deferrals, res.NextSleep)

	return res
}
