// Package platform abstracts the wake/sleep service and the boot reason.
// The decision core depends on nothing else from the host: it asks why
// this cycle is running and requests the next sleep.
package platform

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/sweeney/plant-waterer/internal/cyclestate"
)

// Service is the wake/sleep collaborator.
type Service interface {
	// ResetCause reports why the current cycle is running. It must be
	// derived fresh from the platform, never from persisted state.
	ResetCause() cyclestate.Cause

	// Sleep suspends until the next wake cycle is due.
	Sleep(d time.Duration) error
}

// TimerService is the host implementation. The reset cause is probed
// once from a platform-provided source (a sysfs attribute or a file the
// boot firmware writes); an unreadable or unrecognized source reports
// PowerLoss, the conservative default. Sleep is a plain timer wait —
// the host stays powered between cycles, unlike the original deep-sleep
// hardware, but the cycle semantics are identical.
type TimerService struct {
	cause cyclestate.Cause
}

// Wake-source tokens treated as a scheduled timer wake.
var normalWakeTokens = []string{"timer", "deep-sleep", "deepsleep", "rtc"}

// NewTimerService probes causePath once and fixes the cause for this
// process lifetime. An empty causePath reports Unknown, which callers
// treat like a power loss.
func NewTimerService(causePath string) *TimerService {
	return &TimerService{cause: probeCause(causePath)}
}

// ResetCause reports the cause probed at startup.
func (s *TimerService) ResetCause() cyclestate.Cause {
	return s.cause
}

// Sleep waits for the duration.
func (s *TimerService) Sleep(d time.Duration) error {
	time.Sleep(d)
	return nil
}

func probeCause(causePath string) cyclestate.Cause {
	if causePath == "" {
		return cyclestate.CauseUnknown
	}

	data, err := os.ReadFile(causePath)
	if err != nil {
		log.Printf("platform: cannot read reset cause from %s: %v", causePath, err)
		return cyclestate.CausePowerLoss
	}

	token := strings.ToLower(strings.TrimSpace(string(data)))
	for _, want := range normalWakeTokens {
		if token == want {
			return cyclestate.CauseNormalWake
		}
	}
	return cyclestate.CausePowerLoss
}
