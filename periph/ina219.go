package periph

import (
	"tinygo.org/x/drivers"

	"amplog-go/drivers/ina219"
	"amplog-go/errcode"
)

// INA219Sensor binds the CurrentSensor contract to an INA219 on an I2C bus.
type INA219Sensor struct {
	dev        ina219.Device
	cfg        ina219.Config
	configured bool
}

// NewINA219Sensor wires the adaptor to an already configured bus. The zero
// Config selects the common breakout defaults.
func NewINA219Sensor(bus drivers.I2C, cfg ina219.Config) *INA219Sensor {
	return &INA219Sensor{dev: ina219.New(bus), cfg: cfg}
}

// Detect probes the chip and programs its calibration on first success.
func (s *INA219Sensor) Detect() error {
	if !s.dev.Connected() {
		return errcode.New(errcode.PeripheralAbsent, NameSensor, "ina219 not responding", nil)
	}
	if !s.configured {
		if err := s.dev.Configure(s.cfg); err != nil {
			return errcode.New(errcode.PeripheralAbsent, NameSensor, "calibration write failed", err)
		}
		s.configured = true
	}
	return nil
}

func (s *INA219Sensor) ReadMilliAmps() (float64, error) {
	ua, err := s.dev.MicroAmps()
	if err != nil {
		return 0, errcode.New(errcode.PeripheralAbsent, NameSensor, "current read failed", err)
	}
	return float64(ua) / 1000, nil
}
