// Package ds3231 provides a driver for the DS3231 battery-backed real-time
// clock. It covers the slice a data logger needs:
//
//	err := d.Configure()        // oscillator on, alarms/SQW off
//	lost, _ := d.LostPower()    // OSF: power was lost or clock never set
//	t, err := d.ReadTime()
//	err = d.SetTime(t)          // also clears OSF
//
// Time registers are BCD; the century bit is ignored and years map to
// 2000..2099. Hours run in 24h mode.
//
// NOTE: I2C.Tx MUST perform a write followed by a repeated-start read when
// both w and r are provided, without releasing the bus.
package ds3231

import (
	"errors"
	"time"

	"tinygo.org/x/drivers"
)

// I2C address.
const Address = 0x68

// Registers.
const (
	regTime    = 0x00 // seconds, minutes, hours, weekday, date, month, year
	regControl = 0x0E
	regStatus  = 0x0F
)

// Register bits.
const (
	ctrlINTCN = 0x04 // interrupt mode, square-wave output off
	statOSF   = 0x80 // oscillator stop flag
)

// Errors returned by the driver.
var (
	ErrYearRange = errors.New("ds3231: year outside 2000-2099")
)

// Device wraps an I2C connection to a DS3231 chip.
type Device struct {
	bus     drivers.I2C
	Address uint16

	buf [8]byte // reuse buffer to avoid allocations
}

// New creates a new DS3231 connection. The I2C bus must already be
// configured.
func New(bus drivers.I2C) Device {
	return Device{bus: bus, Address: Address}
}

// Configure leaves the oscillator running on battery with alarms and the
// square-wave output disabled. A transaction error doubles as a presence
// check.
func (d *Device) Configure() error {
	return d.writeReg(regControl, ctrlINTCN)
}

// LostPower reports the oscillator-stop flag. The chip sets it when it
// lost power or was never initialised; the reported time is then stale.
func (d *Device) LostPower() (bool, error) {
	st, err := d.readReg(regStatus)
	if err != nil {
		return false, err
	}
	return st&statOSF != 0, nil
}

// ReadTime returns the current wall-clock time.
func (d *Device) ReadTime() (time.Time, error) {
	buf := d.buf[:8]
	buf[0] = regTime
	if err := d.bus.Tx(d.Address, buf[:1], buf[1:]); err != nil {
		return time.Time{}, err
	}
	sec := bcdToInt(buf[1] & 0x7F)
	min := bcdToInt(buf[2] & 0x7F)
	hour := bcdToInt(buf[3] & 0x3F)
	day := bcdToInt(buf[5] & 0x3F)
	month := bcdToInt(buf[6] & 0x1F)
	year := 2000 + bcdToInt(buf[7])
	return time.Date(year, time.Month(month), day, hour, min, sec, 0, time.UTC), nil
}

// SetTime writes t to the time registers and clears the oscillator-stop
// flag.
func (d *Device) SetTime(t time.Time) error {
	year := t.Year()
	if year < 2000 || year > 2099 {
		return ErrYearRange
	}
	buf := d.buf[:8]
	buf[0] = regTime
	buf[1] = intToBcd(t.Second())
	buf[2] = intToBcd(t.Minute())
	buf[3] = intToBcd(t.Hour())
	buf[4] = byte(t.Weekday()) + 1 // chip weekday is 1..7
	buf[5] = intToBcd(t.Day())
	buf[6] = intToBcd(int(t.Month()))
	buf[7] = intToBcd(year - 2000)
	if err := d.bus.Tx(d.Address, buf, nil); err != nil {
		return err
	}
	st, err := d.readReg(regStatus)
	if err != nil {
		return err
	}
	return d.writeReg(regStatus, st&^statOSF)
}

func (d *Device) readReg(reg byte) (byte, error) {
	d.buf[0] = reg
	if err := d.bus.Tx(d.Address, d.buf[:1], d.buf[1:2]); err != nil {
		return 0, err
	}
	return d.buf[1], nil
}

func (d *Device) writeReg(reg, val byte) error {
	d.buf[0], d.buf[1] = reg, val
	return d.bus.Tx(d.Address, d.buf[:2], nil)
}

func bcdToInt(b byte) int { return int(b>>4)*10 + int(b&0x0F) }
func intToBcd(v int) byte { return byte((v/10)<<4 | v%10) }
