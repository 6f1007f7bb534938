//go:build rp2040 || rp2350

package platform

import (
	"io"
	"machine"
	"os"

	uartx "github.com/jangala-dev/tinygo-uartx/uartx"
	"tinygo.org/x/drivers/sdcard"
	"tinygo.org/x/tinyfs/fatfs"

	"amplog-go/diag"
	"amplog-go/drivers/ina219"
	"amplog-go/errcode"
	"amplog-go/periph"
)

// Pin assignment for the Pico logger build. The DS3231 and INA219 share
// i2c0 on the board-default pins; the SD card sits on spi0 with CS on
// GP17; uart0 mirrors diagnostics at 115200.
const (
	sdCS   = machine.Pin(17)
	uartTX = machine.Pin(0)
	uartRX = machine.Pin(1)
)

// Setup wires the real peripherals and returns the board. Detection is
// left to the session; a missing chip surfaces there, not here.
func Setup() (Board, error) {
	b0 := machine.I2C0
	if err := b0.Configure(machine.I2CConfig{
		Frequency: 400 * machine.KHz,
		SDA:       machine.I2C0_SDA_PIN,
		SCL:       machine.I2C0_SCL_PIN,
	}); err != nil {
		return Board{}, errcode.New(errcode.Internal, "platform", "i2c0 configure failed", err)
	}

	sd := sdcard.New(machine.SPI0, machine.SPI0_SCK_PIN, machine.SPI0_SDO_PIN, machine.SPI0_SDI_PIN, sdCS)
	fs := fatfs.New(&sd)
	fs.Configure(&fatfs.Config{SectorSize: 512})

	hw := uartx.UART0
	// Defaults inside uartx will apply if zero.
	_ = hw.Configure(uartx.UARTConfig{
		BaudRate: 115200,
		TX:       uartTX,
		RX:       uartRX,
	})

	return Board{
		Name:      "pico",
		Clock:     periph.NewDS3231Clock(b0),
		Sensor:    periph.NewINA219Sensor(b0, ina219.Config{}),
		Store:     &sdStore{card: &sd, fs: fs},
		Status:    &rp2Pin{p: machine.LED},
		DiagSinks: []io.Writer{diag.Console(), hw},
	}, nil
}

// sdStore adapts the SD card and its FAT filesystem to periph.Store.
// The first Detect initialises the card and mounts the volume; later
// calls re-read sector 0 so a pulled card is noticed.
type sdStore struct {
	card    *sdcard.Device
	fs      *fatfs.FATFS
	mounted bool
	scratch [512]byte
}

func (s *sdStore) Detect() error {
	if !s.mounted {
		if err := s.card.Configure(); err != nil {
			return errcode.New(errcode.PeripheralAbsent, periph.NameStorage, "card init failed", err)
		}
		if err := s.fs.Mount(); err != nil {
			return errcode.New(errcode.PeripheralAbsent, periph.NameStorage, "mount failed", err)
		}
		s.mounted = true
		return nil
	}
	if _, err := s.card.ReadAt(s.scratch[:], 0); err != nil {
		s.mounted = false
		return errcode.New(errcode.PeripheralAbsent, periph.NameStorage, "card read failed", err)
	}
	return nil
}

func (s *sdStore) Size(name string) (int64, error) {
	// fatfs folds missing files and card trouble into one stat error, so
	// touch the file first: a missing one then sizes as empty, and any
	// stat failure after the touch is card trouble.
	f, err := s.OpenAppend(name)
	if err != nil {
		return 0, errcode.New(errcode.PeripheralAbsent, periph.NameStorage, "size failed", err)
	}
	_ = f.Close()
	fi, err := s.fs.Stat(name)
	if err != nil {
		return 0, errcode.New(errcode.PeripheralAbsent, periph.NameStorage, "stat failed", err)
	}
	return fi.Size(), nil
}

func (s *sdStore) OpenAppend(name string) (periph.File, error) {
	return s.fs.OpenFile(name, os.O_APPEND|os.O_CREATE|os.O_WRONLY)
}

// rp2Pin drives a GPIO as a push-pull output.
type rp2Pin struct {
	p machine.Pin
}

func (r *rp2Pin) ConfigureOutput(initial bool) error {
	r.p.Configure(machine.PinConfig{Mode: machine.PinOutput})
	r.p.Set(initial)
	return nil
}

func (r *rp2Pin) Set(level bool) { r.p.Set(level) }

func (r *rp2Pin) Toggle() {
	if r.p.Get() {
		r.p.Low()
	} else {
		r.p.High()
	}
}
