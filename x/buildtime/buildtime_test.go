package buildtime

import (
	"testing"
	"time"
)

func TestTimeParsesStamp(t *testing.T) {
	old := Stamp
	defer func() { Stamp = old }()

	Stamp = "2026-08-21T07:30:00Z"
	got := Time()
	want := time.Date(2026, 8, 21, 7, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("Time() = %v, want %v", got, want)
	}
}

func TestTimeFallsBack(t *testing.T) {
	old := Stamp
	defer func() { Stamp = old }()

	for _, bad := range []string{"", "not-a-time", "2026-13-99"} {
		Stamp = bad
		got := Time()
		if got.IsZero() {
			t.Fatalf("Stamp=%q: fallback time is zero", bad)
		}
		if got.Year() < 2020 {
			t.Fatalf("Stamp=%q: fallback year = %d", bad, got.Year())
		}
	}
}
