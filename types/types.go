package types

import (
	"time"

	"amplog-go/x/mathx"
)

// ---- Session state (reported on lifecycle transitions) ----

type SessionState struct {
	Level  string // e.g. "validating", "logging", "faulted", "stopped"
	Status string // freeform short code
	TS     int64  // unix ms
}

// Session lifecycle levels.
const (
	LevelValidating = "validating"
	LevelLogging    = "logging"
	LevelFaulted    = "faulted"
	LevelStopped    = "stopped"
)

// ---- Cycle phases ----

// Phase is the logger cycle's position within one iteration.
type Phase uint8

const (
	PhaseValidating Phase = iota
	PhaseSampling
	PhaseAccumulating
	PhaseEmitting
	PhaseIdle
	PhaseFaulted
)

func (p Phase) String() string {
	switch p {
	case PhaseValidating:
		return "validating"
	case PhaseSampling:
		return "sampling"
	case PhaseAccumulating:
		return "accumulating"
	case PhaseEmitting:
		return "emitting"
	case PhaseIdle:
		return "idle"
	case PhaseFaulted:
		return "faulted"
	default:
		return "unknown"
	}
}

// ---- Data model ----

// Reading is one sampled current value with its wall-clock timestamp.
// Written once to storage, never read back by the firmware.
type Reading struct {
	At        time.Time
	MilliAmps float64
}

// SessionConfig is fixed for the lifetime of a session. On the device the
// values come from compile-time constants; nothing mutates them at runtime.
type SessionConfig struct {
	// SampleInterval is the idle wait between cycles.
	SampleInterval time.Duration
	// Averaging reduces DatapointsPerAverage raw samples to one mean row.
	Averaging bool
	// DatapointsPerAverage is the N of averaging mode. Ignored when
	// Averaging is false.
	DatapointsPerAverage int
	// RevalidateEachCycle re-probes all peripherals at the top of every
	// cycle and faults on loss instead of assuming availability.
	RevalidateEachCycle bool
}

// Sanitize clamps out-of-range values to usable bounds; it never rejects.
func (c SessionConfig) Sanitize() SessionConfig {
	c.SampleInterval = mathx.Clamp(c.SampleInterval, time.Second, time.Hour)
	c.DatapointsPerAverage = mathx.Clamp(c.DatapointsPerAverage, 1, 3600)
	return c
}
