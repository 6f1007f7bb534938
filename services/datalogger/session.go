// Package datalogger implements the current-logging session: startup
// validation of the clock, storage and sensor, then the endless
// sample -> average -> append cycle with a liveness indicator.
//
// A Session is single-threaded. The only suspension point is the idle wait
// between cycles, which honours the caller's context; on the device the
// context never cancels and the only way out is a fault.
package datalogger

import (
	"context"
	"errors"
	"io"
	"time"

	"amplog-go/diag"
	"amplog-go/errcode"
	"amplog-go/logfile"
	"amplog-go/periph"
	"amplog-go/types"
	"amplog-go/x/buildtime"
)

// Peripherals collects the hardware a session drives. Status may be nil;
// the rest is required.
type Peripherals struct {
	Clock  periph.Clock
	Sensor periph.CurrentSensor
	Store  periph.Store
	Status periph.StatusPin
}

// Session owns one logging run: the derived filename, the averaging state
// and the cycle state machine. Not safe for concurrent use.
type Session struct {
	// Diag receives the line-oriented diagnostic stream; nil discards.
	Diag *diag.Logger
	// OnState, when set, observes lifecycle transitions
	// (validating/logging/faulted/stopped).
	OnState func(types.SessionState)

	cfg   types.SessionConfig
	hw    Peripherals
	avg   averager
	timer *time.Timer

	filename string
	phase    types.Phase
	rows     int
}

// New builds a Session. Boundary code is expected to run the configuration
// through SessionConfig.Sanitize first; New itself only raises a
// non-positive averaging target to one sample.
func New(cfg types.SessionConfig, hw Peripherals) *Session {
	if cfg.DatapointsPerAverage < 1 {
		cfg.DatapointsPerAverage = 1
	}
	return &Session{cfg: cfg, hw: hw, phase: types.PhaseValidating}
}

// Filename returns the session file name; empty before Validate.
func (s *Session) Filename() string { return s.filename }

// Phase returns the cycle's current position.
func (s *Session) Phase() types.Phase { return s.phase }

// Rows returns the number of rows appended so far.
func (s *Session) Rows() int { return s.rows }

// Validate probes the peripherals in order (clock, storage medium, sensor),
// recovers a power-lost clock from the build timestamp, and fixes the
// session filename from the clock's date. A failed probe is fatal: the
// fault is reported on the diagnostic stream and the indicator, and
// returned. A context already done returns its error before any probing;
// Run maps that to a clean stop.
func (s *Session) Validate(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.setLevel(types.LevelValidating, "probing")
	s.Diag.Info("validating peripherals")

	if s.hw.Status != nil {
		_ = s.hw.Status.ConfigureOutput(false)
	}

	if err := s.hw.Clock.Detect(); err != nil {
		return s.fail(err)
	}
	lost, err := s.hw.Clock.LostPower()
	if err != nil {
		return s.fail(err)
	}
	if lost {
		bt := buildtime.Time()
		s.Diag.Error("clock lost power, resetting to build time", bt.Format(time.RFC3339))
		if err := s.hw.Clock.Set(bt); err != nil {
			return s.fail(err)
		}
	}

	if err := s.hw.Store.Detect(); err != nil {
		return s.fail(err)
	}
	if err := s.hw.Sensor.Detect(); err != nil {
		return s.fail(err)
	}

	now, err := s.hw.Clock.Now()
	if err != nil {
		return s.fail(err)
	}
	s.filename = logfile.Name(now)
	s.Diag.Info("logging to", s.filename)
	return nil
}

// Run validates first when the caller has not, then drives the cycle until
// the context is cancelled or a fault stops the session. Cancellation is a
// clean stop even before the first cycle: the stopped state is published
// and Run returns nil. A fault has already been reported when Run returns
// it.
func (s *Session) Run(ctx context.Context) error {
	if s.filename == "" {
		if err := s.Validate(ctx); err != nil {
			if isCancel(err) {
				return s.stop()
			}
			return err
		}
	}
	defer func() {
		if s.timer != nil {
			s.timer.Stop()
		}
	}()

	s.setLevel(types.LevelLogging, "cycling")
	for {
		if ctx.Err() != nil {
			return s.stop()
		}
		if err := s.step(ctx); err != nil {
			if isCancel(err) {
				return s.stop()
			}
			return err
		}
	}
}

// stop records the run's clean end on the diagnostic stream and publishes
// the stopped state. It returns nil for Run to pass through.
func (s *Session) stop() error {
	s.Diag.Info("stopped after", s.rows, "rows")
	s.setLevel(types.LevelStopped, "context cancelled")
	return nil
}

func isCancel(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// step runs one cycle iteration: sample, accumulate or emit, indicate,
// wait. It returns a fault, a context error, or nil.
func (s *Session) step(ctx context.Context) error {
	if s.cfg.RevalidateEachCycle {
		if err := s.recheck(); err != nil {
			return err
		}
	}

	s.phase = types.PhaseSampling
	mA, err := s.hw.Sensor.ReadMilliAmps()
	if err != nil {
		return s.fail(err)
	}

	value, emit := mA, true
	if s.cfg.Averaging {
		s.phase = types.PhaseAccumulating
		s.avg.add(mA)
		if s.avg.count < s.cfg.DatapointsPerAverage {
			emit = false
		} else {
			value = s.avg.mean(s.cfg.DatapointsPerAverage)
			s.avg.reset()
		}
	}

	if emit {
		s.phase = types.PhaseEmitting
		now, err := s.hw.Clock.Now()
		if err != nil {
			return s.fail(err)
		}
		s.append(types.Reading{At: now, MilliAmps: value})
	}

	s.phase = types.PhaseIdle
	if s.hw.Status != nil {
		s.hw.Status.Toggle()
	}
	return s.wait(ctx)
}

// recheck is the fail-fast variant's per-cycle probe of all three
// peripherals.
func (s *Session) recheck() error {
	if err := s.hw.Clock.Detect(); err != nil {
		return s.fail(err)
	}
	if err := s.hw.Store.Detect(); err != nil {
		return s.fail(err)
	}
	if err := s.hw.Sensor.Detect(); err != nil {
		return s.fail(err)
	}
	return nil
}

// append writes one row under scoped acquisition: open, write, close within
// the same cycle, so the row reaches the medium before the next idle wait.
// The header goes first iff the file is empty at open time. A failed size
// check or open drops the row and keeps the cycle alive; the header is
// never written to a file of unknown length. Write errors on an open file
// are not checked.
func (s *Session) append(r types.Reading) {
	size, err := s.hw.Store.Size(s.filename)
	if err != nil {
		s.Diag.Error("size failed:", s.filename, err.Error())
		return
	}
	f, err := s.hw.Store.OpenAppend(s.filename)
	if err != nil {
		s.Diag.Error("open failed:", s.filename, err.Error())
		return
	}
	if size == 0 {
		_, _ = io.WriteString(f, logfile.Header+"\n")
	}
	_, _ = io.WriteString(f, logfile.Row(r.At, r.MilliAmps))
	_ = f.Close()
	s.rows++
	s.Diag.Info(logfile.Timestamp(r.At), "mA:", r.MilliAmps, "->", s.filename)
}

// wait parks the cycle for the sample interval, honouring cancellation.
// A context cancelled during the preceding emit is caught before the timer
// arms, so no extra cycle runs after a stop request.
func (s *Session) wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.timer == nil {
		s.timer = time.NewTimer(s.cfg.SampleInterval)
	} else {
		resetTimer(s.timer, s.cfg.SampleInterval)
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-s.timer.C:
		return nil
	}
}

// fail records a fatal fault: faulted phase, indicator held high, a line on
// the diagnostic stream, a state transition. The error passes through.
func (s *Session) fail(err error) error {
	s.phase = types.PhaseFaulted
	if s.hw.Status != nil {
		s.hw.Status.Set(true)
	}
	s.Diag.Error("fault:", err.Error())
	s.setLevel(types.LevelFaulted, string(errcode.Of(err)))
	return err
}

func (s *Session) setLevel(level, status string) {
	if s.OnState != nil {
		s.OnState(types.SessionState{Level: level, Status: status, TS: time.Now().UnixMilli()})
	}
}
