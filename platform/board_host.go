//go:build !rp2040 && !rp2350

package platform

import (
	"io"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"amplog-go/errcode"
	"amplog-go/periph"
)

// Profile shapes the simulation board. amplogctl decodes one from YAML;
// zero fields fall back to the defaults below.
type Profile struct {
	// DataDir receives the session files. Defaults to "data".
	DataDir string         `yaml:"data_dir"`
	Clock   ClockProfile   `yaml:"clock"`
	Sensor  SensorProfile  `yaml:"sensor"`
	Storage StorageProfile `yaml:"storage"`
}

type ClockProfile struct {
	// Start is the simulated wall time at boot, RFC3339. Empty means the
	// host clock.
	Start string `yaml:"start"`
	// LostPower marks the clock as unset so the recovery path runs.
	LostPower bool `yaml:"lost_power"`
	// Absent fails detection.
	Absent bool `yaml:"absent"`
}

type SensorProfile struct {
	// BaseMilliAmps is the waveform midpoint. Defaults to 120.
	BaseMilliAmps float64 `yaml:"base_milliamps"`
	// SwingMilliAmps is the sine amplitude. Defaults to 40.
	SwingMilliAmps float64 `yaml:"swing_milliamps"`
	// PeriodSeconds is the sine period. Defaults to 60.
	PeriodSeconds float64 `yaml:"period_seconds"`
	// NoiseMilliAmps bounds the uniform jitter. Defaults to 2.
	NoiseMilliAmps float64 `yaml:"noise_milliamps"`
	// Seed fixes the jitter sequence. 0 derives one from the host clock.
	Seed int64 `yaml:"seed"`
	// Absent fails detection.
	Absent bool `yaml:"absent"`
}

type StorageProfile struct {
	// Absent fails detection.
	Absent bool `yaml:"absent"`
}

// DefaultProfile returns the profile amplogctl uses when none is given.
func DefaultProfile() Profile {
	return Profile{}.withDefaults()
}

// LoadProfile decodes a YAML profile from path, filling blanks with
// defaults.
func LoadProfile(path string) (Profile, error) {
	var p Profile
	raw, err := os.ReadFile(path)
	if err != nil {
		return p, err
	}
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return p, errcode.New(errcode.InvalidConfig, "platform", "bad profile "+path, err)
	}
	return p.withDefaults(), nil
}

func (p Profile) withDefaults() Profile {
	if p.DataDir == "" {
		p.DataDir = "data"
	}
	if p.Sensor.BaseMilliAmps == 0 {
		p.Sensor.BaseMilliAmps = 120
	}
	if p.Sensor.SwingMilliAmps == 0 {
		p.Sensor.SwingMilliAmps = 40
	}
	if p.Sensor.PeriodSeconds <= 0 {
		p.Sensor.PeriodSeconds = 60
	}
	if p.Sensor.NoiseMilliAmps == 0 {
		p.Sensor.NoiseMilliAmps = 2
	}
	return p
}

// Setup builds the default simulation board.
func Setup() (Board, error) {
	return NewSimBoard(DefaultProfile())
}

// NewSimBoard builds a simulation board from p.
func NewSimBoard(p Profile) (Board, error) {
	p = p.withDefaults()
	now := time.Now()
	start := now
	if p.Clock.Start != "" {
		t, err := time.Parse(time.RFC3339, p.Clock.Start)
		if err != nil {
			return Board{}, errcode.New(errcode.InvalidConfig, "platform", "bad clock start", err)
		}
		start = t
	}
	seed := p.Sensor.Seed
	if seed == 0 {
		seed = now.UnixNano()
	}
	return Board{
		Name:      "sim",
		Clock:     &simClock{base: start, booted: now, lost: p.Clock.LostPower, absent: p.Clock.Absent},
		Sensor:    &simSensor{p: p.Sensor, rng: rand.New(rand.NewSource(seed)), booted: now},
		Store:     &dirStore{root: p.DataDir, absent: p.Storage.Absent},
		Status:    &hostPin{},
		DiagSinks: []io.Writer{os.Stdout},
	}, nil
}

// simClock runs in real time from a configurable start.
type simClock struct {
	mu     sync.Mutex
	base   time.Time
	booted time.Time
	lost   bool
	absent bool
}

func (c *simClock) Detect() error {
	if c.absent {
		return errcode.New(errcode.PeripheralAbsent, periph.NameClock, "simulated absence", nil)
	}
	return nil
}

func (c *simClock) LostPower() (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lost, nil
}

func (c *simClock) Now() (time.Time, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.base.Add(time.Since(c.booted)), nil
}

func (c *simClock) Set(t time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.base = t
	c.booted = time.Now()
	c.lost = false
	return nil
}

// simSensor draws a slow sine with uniform jitter, close enough to a
// small load's supply current for demos.
type simSensor struct {
	mu     sync.Mutex
	p      SensorProfile
	rng    *rand.Rand
	booted time.Time
}

func (s *simSensor) Detect() error {
	if s.p.Absent {
		return errcode.New(errcode.PeripheralAbsent, periph.NameSensor, "simulated absence", nil)
	}
	return nil
}

func (s *simSensor) ReadMilliAmps() (float64, error) {
	if s.p.Absent {
		return 0, errcode.New(errcode.PeripheralAbsent, periph.NameSensor, "simulated absence", nil)
	}
	s.mu.Lock()
	noise := (s.rng.Float64()*2 - 1) * s.p.NoiseMilliAmps
	s.mu.Unlock()
	phase := 2 * math.Pi * time.Since(s.booted).Seconds() / s.p.PeriodSeconds
	return s.p.BaseMilliAmps + s.p.SwingMilliAmps*math.Sin(phase) + noise, nil
}

// dirStore keeps session files in a directory, append-only like the card.
type dirStore struct {
	root   string
	absent bool
}

func (d *dirStore) Detect() error {
	if d.absent {
		return errcode.New(errcode.PeripheralAbsent, periph.NameStorage, "simulated absence", nil)
	}
	if err := os.MkdirAll(d.root, 0o755); err != nil {
		return errcode.New(errcode.PeripheralAbsent, periph.NameStorage, "data dir unavailable", err)
	}
	return nil
}

func (d *dirStore) Size(name string) (int64, error) {
	fi, err := os.Stat(filepath.Join(d.root, name))
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return fi.Size(), nil
}

func (d *dirStore) OpenAppend(name string) (periph.File, error) {
	return os.OpenFile(filepath.Join(d.root, name), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
}

// hostPin records the indicator level in memory.
type hostPin struct {
	mu    sync.Mutex
	level bool
}

func (p *hostPin) ConfigureOutput(initial bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.level = initial
	return nil
}

func (p *hostPin) Set(level bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.level = level
}

func (p *hostPin) Toggle() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.level = !p.level
}
