package periph

import (
	"time"

	"tinygo.org/x/drivers"

	"amplog-go/drivers/ds3231"
	"amplog-go/errcode"
)

// DS3231Clock binds the Clock contract to a DS3231 on an I2C bus.
type DS3231Clock struct {
	dev ds3231.Device
}

// NewDS3231Clock wires the adaptor to an already configured bus.
func NewDS3231Clock(bus drivers.I2C) *DS3231Clock {
	return &DS3231Clock{dev: ds3231.New(bus)}
}

func (c *DS3231Clock) Detect() error {
	if err := c.dev.Configure(); err != nil {
		return errcode.New(errcode.PeripheralAbsent, NameClock, "ds3231 not responding", err)
	}
	return nil
}

func (c *DS3231Clock) LostPower() (bool, error) {
	lost, err := c.dev.LostPower()
	if err != nil {
		return false, errcode.New(errcode.PeripheralAbsent, NameClock, "status read failed", err)
	}
	return lost, nil
}

func (c *DS3231Clock) Now() (time.Time, error) {
	t, err := c.dev.ReadTime()
	if err != nil {
		return time.Time{}, errcode.New(errcode.PeripheralAbsent, NameClock, "time read failed", err)
	}
	return t, nil
}

func (c *DS3231Clock) Set(t time.Time) error {
	if err := c.dev.SetTime(t); err != nil {
		return errcode.New(errcode.ClockInvalid, NameClock, "time write failed", err)
	}
	return nil
}
