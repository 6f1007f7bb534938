// Boot smoke image: brings the board up, probes each peripheral once and
// heartbeats with the clock and a live current reading. Flash this before
// cmd/pico-datalogger when checking new hardware.
package main

import (
	"time"

	"amplog-go/logfile"
	"amplog-go/periph"
	"amplog-go/platform"
	"amplog-go/x/buildtime"
)

func main() {
	// Allow USB CDC to enumerate before we print.
	time.Sleep(2 * time.Second)
	println("amplog smoke, build:", buildtime.Stamp)

	board, err := platform.Setup()
	if err != nil {
		for {
			println("Error: setup:", err.Error())
			time.Sleep(5 * time.Second)
		}
	}

	probe(periph.NameClock, board.Clock.Detect)
	probe(periph.NameStorage, board.Store.Detect)
	probe(periph.NameSensor, board.Sensor.Detect)

	_ = board.Status.ConfigureOutput(false)

	tick := time.NewTicker(1 * time.Second)
	defer tick.Stop()

	for range tick.C {
		board.Status.Toggle()
		now, nerr := board.Clock.Now()
		if nerr != nil {
			println("Error: clock read:", nerr.Error())
			continue
		}
		mA, serr := board.Sensor.ReadMilliAmps()
		if serr != nil {
			println("Error: sensor read:", serr.Error())
			continue
		}
		println("Info:", logfile.Timestamp(now), "mA:", int(mA))
	}
}

func probe(name string, detect func() error) {
	if err := detect(); err != nil {
		println("Error:", name, "missing:", err.Error())
		return
	}
	println("Info:", name, "ok")
}
