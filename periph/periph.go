// Package periph defines the narrow peripheral contracts the logger
// session drives, plus the adaptors binding them to the I2C chip drivers.
// Board builders in package platform hand out implementations; everything
// above them stays free of machine imports and runs on any target.
package periph

import (
	"io"
	"time"
)

// Peripheral names used in fault reports, in validation order.
const (
	NameClock   = "clock"
	NameStorage = "storage"
	NameSensor  = "sensor"
)

// Clock is the battery-backed wall-clock source.
type Clock interface {
	// Detect confirms the device responds on its bus.
	Detect() error
	// LostPower reports an unset or power-lost clock.
	LostPower() (bool, error)
	// Now returns the current wall-clock time.
	Now() (time.Time, error)
	// Set writes t and clears the power-lost condition.
	Set(t time.Time) error
}

// CurrentSensor samples instantaneous current draw.
type CurrentSensor interface {
	Detect() error
	// ReadMilliAmps returns one instantaneous reading in milliamps.
	ReadMilliAmps() (float64, error)
}

// Store is the medium holding session files.
type Store interface {
	// Detect confirms the medium is present and usable.
	Detect() error
	// Size returns the byte length of name; missing files report 0.
	Size(name string) (int64, error)
	// OpenAppend opens name for appending, creating it when absent.
	OpenAppend(name string) (File, error)
}

// File is one open session file. Close flushes the written rows to the
// medium.
type File interface {
	io.Writer
	io.Closer
}

// StatusPin is the liveness/fault indicator output.
type StatusPin interface {
	ConfigureOutput(initial bool) error
	Set(level bool)
	Toggle()
}
