// Package ina219 provides a driver for the INA219 high-side current/power
// monitor. The chip measures the drop across an external shunt resistor;
// current readings are only meaningful after Configure programs the
// calibration register for that shunt:
//
//	d := ina219.New(bus)
//	err := d.Configure(ina219.Config{})   // 0.1 Ω shunt, 0.1 mA/bit
//	ua, err := d.MicroAmps()
//
// All registers are 16 bit, most-significant byte first. Telemetry is
// returned in integer micro/milli units; no floating point on the hot path.
//
// NOTE: I2C.Tx MUST perform a write followed by a repeated-start read when
// both w and r are provided, without releasing the bus.
package ina219

import (
	"errors"

	"tinygo.org/x/drivers"
)

// I2C address (A0/A1 to GND).
const Address = 0x40

// Registers.
const (
	regConfig      = 0x00
	regShuntVolts  = 0x01
	regBusVolts    = 0x02
	regPower       = 0x03
	regCurrent     = 0x04
	regCalibration = 0x05
)

const (
	configReset = 0x8000
	// 32 V bus range, ±320 mV shunt range, 12-bit conversions, continuous
	// shunt and bus sampling.
	configDefault = 0x399F
	// Datasheet calibration constant 0.04096 expressed in µA·µΩ units.
	calScale = 40_960_000_000
)

// Errors returned by the driver.
var (
	ErrCalibrationRange = errors.New("ina219: calibration out of range for shunt/LSB")
)

// Config selects the sense network and scaling. Zero values pick the common
// breakout defaults.
type Config struct {
	// Address defaults to 0x40 if zero.
	Address uint16
	// ShuntMicroOhm is the sense resistor value. Default 100 000 (0.1 Ω).
	ShuntMicroOhm uint32
	// LSBMicroAmp is the current register scale. Default 100 (0.1 mA/bit,
	// ±3.2 A full scale with the default shunt).
	LSBMicroAmp uint32
}

// Device wraps an I2C connection to an INA219 chip.
type Device struct {
	bus     drivers.I2C
	Address uint16

	lsbMicroAmp uint32
	buf         [3]byte // reuse buffer to avoid allocations
}

// New creates a new INA219 connection. The I2C bus must already be
// configured.
func New(bus drivers.I2C) Device {
	return Device{bus: bus, Address: Address, lsbMicroAmp: 100}
}

// Connected probes the config register and reports whether the chip
// answers on the bus.
func (d *Device) Connected() bool {
	_, err := d.readReg(regConfig)
	return err == nil
}

// Configure resets the chip, programs the calibration register for the
// configured shunt, and starts continuous conversions.
func (d *Device) Configure(cfg Config) error {
	if cfg.Address != 0 {
		d.Address = cfg.Address
	}
	if cfg.ShuntMicroOhm == 0 {
		cfg.ShuntMicroOhm = 100_000
	}
	if cfg.LSBMicroAmp == 0 {
		cfg.LSBMicroAmp = 100
	}
	cal := uint64(calScale) / (uint64(cfg.LSBMicroAmp) * uint64(cfg.ShuntMicroOhm))
	if cal == 0 || cal > 0xFFFF {
		return ErrCalibrationRange
	}
	d.lsbMicroAmp = cfg.LSBMicroAmp

	if err := d.writeReg(regConfig, configReset); err != nil {
		return err
	}
	if err := d.writeReg(regCalibration, uint16(cal)); err != nil {
		return err
	}
	return d.writeReg(regConfig, configDefault)
}

// MicroAmps returns the calibrated current reading. Negative values mean
// reverse flow through the shunt.
func (d *Device) MicroAmps() (int32, error) {
	raw, err := d.readReg(regCurrent)
	if err != nil {
		return 0, err
	}
	return int32(int16(raw)) * int32(d.lsbMicroAmp), nil
}

// ShuntMicroVolts returns the raw shunt drop (10 µV/bit).
func (d *Device) ShuntMicroVolts() (int32, error) {
	raw, err := d.readReg(regShuntVolts)
	if err != nil {
		return 0, err
	}
	return int32(int16(raw)) * 10, nil
}

// BusMilliVolts returns the bus voltage (4 mV/bit; the low three bits of
// the register are status flags).
func (d *Device) BusMilliVolts() (int32, error) {
	raw, err := d.readReg(regBusVolts)
	if err != nil {
		return 0, err
	}
	return int32(raw>>3) * 4, nil
}

// MicroWatts returns the power register reading (20 × current LSB per bit).
func (d *Device) MicroWatts() (int32, error) {
	raw, err := d.readReg(regPower)
	if err != nil {
		return 0, err
	}
	return int32(raw) * 20 * int32(d.lsbMicroAmp), nil
}

func (d *Device) readReg(reg byte) (uint16, error) {
	d.buf[0] = reg
	if err := d.bus.Tx(d.Address, d.buf[:1], d.buf[1:3]); err != nil {
		return 0, err
	}
	return uint16(d.buf[1])<<8 | uint16(d.buf[2]), nil
}

func (d *Device) writeReg(reg byte, val uint16) error {
	d.buf[0] = reg
	d.buf[1] = byte(val >> 8)
	d.buf[2] = byte(val)
	return d.bus.Tx(d.Address, d.buf[:3], nil)
}
