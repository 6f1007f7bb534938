// Package platform assembles the peripherals for a build target. RP2
// boards wire the real chips; every other target gets the simulation
// board, so the same session engine runs anywhere.
package platform

import (
	"io"

	"amplog-go/periph"
)

// Board hands the session its peripherals and diagnostic sinks.
type Board struct {
	Name      string
	Clock     periph.Clock
	Sensor    periph.CurrentSensor
	Store     periph.Store
	Status    periph.StatusPin
	DiagSinks []io.Writer
}
