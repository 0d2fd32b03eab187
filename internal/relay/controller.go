package relay

import (
	"fmt"
	"time"
)

// Controller executes timed trigger sequences on an Output. Sequences
// block the calling goroutine for their full configured duration; there
// is exactly one task per wake cycle, so nothing else needs to run.
type Controller struct {
	out   Output
	sleep func(time.Duration)
}

// NewController creates a controller driving the given output. The
// sleep function is injectable for tests; nil means time.Sleep.
func NewController(out Output, sleep func(time.Duration)) *Controller {
	if sleep == nil {
		sleep = time.Sleep
	}
	return &Controller{out: out, sleep: sleep}
}

// Trigger runs the command's sequence: active for Duration, idle for
// InterPause, Repeats times. The device is returned to idle before any
// error is surfaced, including a failure mid-sequence; the final idle
// write is attempted on every exit path.
func (c *Controller) Trigger(cmd Command) (err error) {
	repeats := cmd.Repeats
	if repeats < 1 {
		repeats = 1
	}

	defer func() {
		if idleErr := c.out.Set(cmd.Device, false); idleErr != nil && err == nil {
			err = fmt.Errorf("restore idle on %s: %w", cmd.Device, idleErr)
		}
	}()

	for i := 0; i < repeats; i++ {
		if i > 0 && cmd.InterPause > 0 {
			c.sleep(cmd.InterPause)
		}

		if err := c.out.Set(cmd.Device, true); err != nil {
			return fmt.Errorf("activate %s: %w", cmd.Device, err)
		}
		c.sleep(cmd.Duration)
		if err := c.out.Set(cmd.Device, false); err != nil {
			return fmt.Errorf("deactivate %s: %w", cmd.Device, err)
		}
	}

	return nil
}
