// Package relay drives the pump and nebulizer relays with hardware
// abstraction. The real implementation uses the Linux GPIO character
// device; the fake implementation allows testing without hardware.
//
// The relay modules are low-active: the line idles high and is pulled
// low to energize the coil. Trigger sequences must leave the line at
// its idle level on every exit path — a relay stuck active floods the
// plant bed.
package relay

import "time"

// Device names a relay-driven actuator.
type Device string

const (
	Pump      Device = "PUMP"
	Nebulizer Device = "NEBULIZER"
)

// Command describes one trigger sequence: active for Duration, idle for
// InterPause, repeated Repeats times, ending idle. It is built by the
// decision engine and consumed once.
type Command struct {
	Device     Device
	Duration   time.Duration
	Repeats    int
	InterPause time.Duration
}

// Output sets relay lines. Set(dev, true) energizes the relay; the
// implementation owns the mapping to physical line levels.
type Output interface {
	Set(dev Device, active bool) error

	// Close restores all lines to idle and releases them.
	Close() error
}

// Default BCM pin numbers, matching the deployed wiring.
const (
	DefaultPinPump      = 2
	DefaultPinNebulizer = 12
)
