package relay

import (
	"errors"
	"testing"
	"time"
)

// recordingSleep collects sleep durations instead of sleeping.
func recordingSleep(slept *[]time.Duration) func(time.Duration) {
	return func(d time.Duration) {
		*slept = append(*slept, d)
	}
}

func TestTriggerSingleActivation(t *testing.T) {
	out := NewFakeOutput()
	var slept []time.Duration
	c := NewController(out, recordingSleep(&slept))

	cmd := Command{Device: Nebulizer, Duration: 135 * time.Second, Repeats: 1}
	if err := c.Trigger(cmd); err != nil {
		t.Fatalf("Trigger: %v", err)
	}

	want := []Transition{
		{Nebulizer, true},
		{Nebulizer, false},
		{Nebulizer, false}, // deferred idle restore
	}
	if len(out.Transitions) != len(want) {
		t.Fatalf("got %d transitions, want %d: %v", len(out.Transitions), len(want), out.Transitions)
	}
	for i, tr := range want {
		if out.Transitions[i] != tr {
			t.Errorf("transition %d = %+v, want %+v", i, out.Transitions[i], tr)
		}
	}

	if len(slept) != 1 || slept[0] != 135*time.Second {
		t.Errorf("slept %v, want [135s]", slept)
	}
	if out.Levels[Nebulizer] {
		t.Error("nebulizer left active")
	}
}

func TestTriggerRepeatsWithPause(t *testing.T) {
	out := NewFakeOutput()
	var slept []time.Duration
	c := NewController(out, recordingSleep(&slept))

	cmd := Command{
		Device:     Pump,
		Duration:   7 * time.Second,
		Repeats:    2,
		InterPause: 5 * time.Minute,
	}
	if err := c.Trigger(cmd); err != nil {
		t.Fatalf("Trigger: %v", err)
	}

	// on 7s, off, pause 5m, on 7s, off.
	wantSlept := []time.Duration{7 * time.Second, 5 * time.Minute, 7 * time.Second}
	if len(slept) != len(wantSlept) {
		t.Fatalf("slept %v, want %v", slept, wantSlept)
	}
	for i, d := range wantSlept {
		if slept[i] != d {
			t.Errorf("sleep %d = %v, want %v", i, slept[i], d)
		}
	}

	active := 0
	for _, tr := range out.Transitions {
		if tr.Active {
			active++
		}
	}
	if active != 2 {
		t.Errorf("pump activated %d times, want 2", active)
	}
	if out.Levels[Pump] {
		t.Error("pump left active")
	}
}

func TestTriggerZeroRepeatsActsOnce(t *testing.T) {
	out := NewFakeOutput()
	var slept []time.Duration
	c := NewController(out, recordingSleep(&slept))

	if err := c.Trigger(Command{Device: Pump, Duration: time.Second}); err != nil {
		t.Fatalf("Trigger: %v", err)
	}
	if len(slept) != 1 {
		t.Errorf("slept %v, want a single activation", slept)
	}
}

func TestTriggerRestoresIdleOnActivationFailure(t *testing.T) {
	out := NewFakeOutput()
	out.FailAt = 1 // first Set (the activation) fails
	out.FailErr = errors.New("gpio write failed")
	var slept []time.Duration
	c := NewController(out, recordingSleep(&slept))

	err := c.Trigger(Command{Device: Pump, Duration: time.Second, Repeats: 2})
	if err == nil {
		t.Fatal("expected error from failed activation")
	}

	if out.Levels[Pump] {
		t.Error("pump left active after failure")
	}
	// The deferred restore still ran.
	last := out.Transitions[len(out.Transitions)-1]
	if last.Active || last.Device != Pump {
		t.Errorf("last transition = %+v, want pump idle", last)
	}
}

func TestTriggerRestoresIdleOnMidSequenceFailure(t *testing.T) {
	out := NewFakeOutput()
	out.FailAt = 2 // activation succeeds, deactivation fails
	out.FailErr = errors.New("gpio write failed")
	c := NewController(out, func(time.Duration) {})

	err := c.Trigger(Command{Device: Pump, Duration: time.Second, Repeats: 2})
	if err == nil {
		t.Fatal("expected error from failed deactivation")
	}

	if out.Levels[Pump] {
		t.Error("pump left active after mid-sequence failure")
	}
}
