package platform

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"amplog-go/errcode"
)

func TestDefaultProfile(t *testing.T) {
	t.Parallel()

	p := DefaultProfile()
	assert.Equal(t, "data", p.DataDir)
	assert.Equal(t, 120.0, p.Sensor.BaseMilliAmps)
	assert.Equal(t, 40.0, p.Sensor.SwingMilliAmps)
	assert.Equal(t, 60.0, p.Sensor.PeriodSeconds)
	assert.Equal(t, 2.0, p.Sensor.NoiseMilliAmps)
	assert.False(t, p.Clock.LostPower)
}

func TestLoadProfile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "profile.yaml")
	raw := []byte(`data_dir: scratch
clock:
  start: "2026-03-01T08:30:00Z"
  lost_power: true
sensor:
  base_milliamps: 200
  seed: 42
storage:
  absent: true
`)
	require.NoError(t, os.WriteFile(path, raw, 0o644))

	p, err := LoadProfile(path)
	require.NoError(t, err)
	assert.Equal(t, "scratch", p.DataDir)
	assert.Equal(t, "2026-03-01T08:30:00Z", p.Clock.Start)
	assert.True(t, p.Clock.LostPower)
	assert.Equal(t, 200.0, p.Sensor.BaseMilliAmps)
	assert.Equal(t, int64(42), p.Sensor.Seed)
	assert.True(t, p.Storage.Absent)

	// Unset fields keep their defaults.
	assert.Equal(t, 40.0, p.Sensor.SwingMilliAmps)
	assert.Equal(t, 60.0, p.Sensor.PeriodSeconds)
	assert.Equal(t, 2.0, p.Sensor.NoiseMilliAmps)
}

func TestLoadProfileMissingFile(t *testing.T) {
	t.Parallel()

	_, err := LoadProfile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadProfileBadYAML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte("data_dir: [unclosed"), 0o644))

	_, err := LoadProfile(path)
	require.Error(t, err)
	assert.Equal(t, errcode.InvalidConfig, errcode.Of(err))
}

func TestNewSimBoardClockStart(t *testing.T) {
	t.Parallel()

	p := DefaultProfile()
	p.Clock.Start = "2026-03-01T08:30:00Z"
	p.Clock.LostPower = true
	p.DataDir = t.TempDir()

	b, err := NewSimBoard(p)
	require.NoError(t, err)
	require.NoError(t, b.Clock.Detect())

	lost, err := b.Clock.LostPower()
	require.NoError(t, err)
	assert.True(t, lost)

	now, err := b.Clock.Now()
	require.NoError(t, err)
	want := time.Date(2026, time.March, 1, 8, 30, 0, 0, time.UTC)
	assert.False(t, now.Before(want))
	assert.True(t, now.Sub(want) < 5*time.Second)

	// Setting the clock clears the lost flag and rebases time.
	require.NoError(t, b.Clock.Set(want.Add(time.Hour)))
	lost, err = b.Clock.LostPower()
	require.NoError(t, err)
	assert.False(t, lost)
	now, err = b.Clock.Now()
	require.NoError(t, err)
	assert.False(t, now.Before(want.Add(time.Hour)))
}

func TestNewSimBoardBadClockStart(t *testing.T) {
	t.Parallel()

	p := DefaultProfile()
	p.Clock.Start = "yesterday"
	_, err := NewSimBoard(p)
	require.Error(t, err)
	assert.Equal(t, errcode.InvalidConfig, errcode.Of(err))
}

func TestNewSimBoardAbsentPeripherals(t *testing.T) {
	t.Parallel()

	p := DefaultProfile()
	p.DataDir = t.TempDir()
	p.Clock.Absent = true
	p.Sensor.Absent = true
	p.Storage.Absent = true

	b, err := NewSimBoard(p)
	require.NoError(t, err)

	err = b.Clock.Detect()
	require.Error(t, err)
	assert.Equal(t, errcode.PeripheralAbsent, errcode.Of(err))

	err = b.Sensor.Detect()
	require.Error(t, err)
	assert.Equal(t, errcode.PeripheralAbsent, errcode.Of(err))

	err = b.Store.Detect()
	require.Error(t, err)
	assert.Equal(t, errcode.PeripheralAbsent, errcode.Of(err))
}

func TestDirStoreAppend(t *testing.T) {
	t.Parallel()

	d := &dirStore{root: filepath.Join(t.TempDir(), "data")}
	require.NoError(t, d.Detect())

	size, err := d.Size("20260821.csv")
	require.NoError(t, err)
	assert.Equal(t, int64(0), size)

	f, err := d.OpenAppend("20260821.csv")
	require.NoError(t, err)
	_, err = f.Write([]byte("Time, Current (mA)\n9:5:3,120.00,\n"))
	require.NoError(t, err)
	require.NoError(t, f.Close())

	size, err = d.Size("20260821.csv")
	require.NoError(t, err)
	assert.Equal(t, int64(33), size)

	// A second open appends rather than truncating.
	f, err = d.OpenAppend("20260821.csv")
	require.NoError(t, err)
	_, err = f.Write([]byte("9:5:8,121.00,\n"))
	require.NoError(t, err)
	require.NoError(t, f.Close())

	raw, err := os.ReadFile(filepath.Join(d.root, "20260821.csv"))
	require.NoError(t, err)
	assert.Equal(t, "Time, Current (mA)\n9:5:3,120.00,\n9:5:8,121.00,\n", string(raw))
}

func TestSimSensorBounds(t *testing.T) {
	t.Parallel()

	p := DefaultProfile()
	p.Sensor.Seed = 1
	b, err := NewSimBoard(p)
	require.NoError(t, err)

	limit := p.Sensor.SwingMilliAmps + p.Sensor.NoiseMilliAmps + 1e-9
	for i := 0; i < 200; i++ {
		v, err := b.Sensor.ReadMilliAmps()
		require.NoError(t, err)
		assert.GreaterOrEqual(t, v, p.Sensor.BaseMilliAmps-limit)
		assert.LessOrEqual(t, v, p.Sensor.BaseMilliAmps+limit)
	}
}

func TestHostPin(t *testing.T) {
	t.Parallel()

	p := &hostPin{}
	require.NoError(t, p.ConfigureOutput(false))
	assert.False(t, p.level)
	p.Set(true)
	assert.True(t, p.level)
	p.Toggle()
	assert.False(t, p.level)
	p.Toggle()
	assert.True(t, p.level)
}
