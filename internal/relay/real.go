//go:build linux

package relay

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// RealOutput drives relay lines through the Linux GPIO character device.
type RealOutput struct {
	chip      *gpiocdev.Chip
	lines     map[Device]*gpiocdev.Line
	activeLow bool
}

// NewRealOutput requests the pump and nebulizer pins as outputs at their
// idle level. activeLow matches low-active relay modules: the line is
// driven high at idle and low to energize.
func NewRealOutput(chipName string, pinPump, pinNebulizer int, activeLow bool) (*RealOutput, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip %s: %w", chipName, err)
	}

	o := &RealOutput{
		chip:      chip,
		lines:     make(map[Device]*gpiocdev.Line, 2),
		activeLow: activeLow,
	}

	idle := o.level(false)
	pumpLine, err := chip.RequestLine(pinPump, gpiocdev.AsOutput(idle))
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request pump pin %d: %w", pinPump, err)
	}
	o.lines[Pump] = pumpLine

	nebLine, err := chip.RequestLine(pinNebulizer, gpiocdev.AsOutput(idle))
	if err != nil {
		pumpLine.Close()
		chip.Close()
		return nil, fmt.Errorf("request nebulizer pin %d: %w", pinNebulizer, err)
	}
	o.lines[Nebulizer] = nebLine

	return o, nil
}

// Set drives the device's line to the requested logical state.
func (o *RealOutput) Set(dev Device, active bool) error {
	line, ok := o.lines[dev]
	if !ok {
		return fmt.Errorf("unknown device %s", dev)
	}
	if err := line.SetValue(o.level(active)); err != nil {
		return fmt.Errorf("set %s: %w", dev, err)
	}
	return nil
}

// Close drives every line to idle before releasing it, so a daemon
// restart never leaves a relay energized.
func (o *RealOutput) Close() error {
	var errs []error

	idle := o.level(false)
	for dev, line := range o.lines {
		if err := line.SetValue(idle); err != nil {
			errs = append(errs, fmt.Errorf("idle %s: %w", dev, err))
		}
		if err := line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", dev, err))
		}
	}
	if o.chip != nil {
		if err := o.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

// level maps a logical state to the physical line value.
func (o *RealOutput) level(active bool) int {
	if active != o.activeLow {
		return 1
	}
	return 0
}
