package main

import (
	"context"
	"time"

	"amplog-go/diag"
	"amplog-go/platform"
	"amplog-go/services/datalogger"
	"amplog-go/types"
	"amplog-go/x/buildtime"
)

// Session settings for this image. Reflash to change them.
const (
	sampleInterval       = 5 * time.Second
	averaging            = false
	datapointsPerAverage = 10
)

func main() {
	// Give the USB monitor a moment to attach before the banner.
	time.Sleep(2 * time.Second)
	println("amplog boot, build:", buildtime.Stamp)

	board, err := platform.Setup()
	if err != nil {
		halt(err)
	}

	cfg := types.SessionConfig{
		SampleInterval:       sampleInterval,
		Averaging:            averaging,
		DatapointsPerAverage: datapointsPerAverage,
	}.Sanitize()

	s := datalogger.New(cfg, datalogger.Peripherals{
		Clock:  board.Clock,
		Sensor: board.Sensor,
		Store:  board.Store,
		Status: board.Status,
	})
	s.Diag = diag.New(board.DiagSinks...)

	// The board offers no stop control, so Run only returns on a fault.
	halt(s.Run(context.Background()))
}

// halt parks the firmware. The session has already latched the indicator;
// this loop keeps the report visible to a monitor attached later.
func halt(err error) {
	for {
		if err != nil {
			println("Error: halted:", err.Error())
		} else {
			println("Error: halted")
		}
		time.Sleep(5 * time.Second)
	}
}
