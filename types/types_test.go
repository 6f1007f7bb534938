package types

import (
	"testing"
	"time"
)

func TestSanitizeClampsInterval(t *testing.T) {
	cases := []struct {
		in, want time.Duration
	}{
		{0, time.Second},
		{-time.Minute, time.Second},
		{time.Second, time.Second},
		{5 * time.Second, 5 * time.Second},
		{time.Hour, time.Hour},
		{25 * time.Hour, time.Hour},
	}
	for _, c := range cases {
		got := SessionConfig{SampleInterval: c.in, DatapointsPerAverage: 10}.Sanitize()
		if got.SampleInterval != c.want {
			t.Errorf("Sanitize interval %v = %v, want %v", c.in, got.SampleInterval, c.want)
		}
	}
}

func TestSanitizeClampsDatapoints(t *testing.T) {
	cases := []struct {
		in, want int
	}{
		{-5, 1},
		{0, 1},
		{1, 1},
		{60, 60},
		{3600, 3600},
		{86400, 3600},
	}
	for _, c := range cases {
		got := SessionConfig{SampleInterval: time.Second, DatapointsPerAverage: c.in}.Sanitize()
		if got.DatapointsPerAverage != c.want {
			t.Errorf("Sanitize datapoints %d = %d, want %d", c.in, got.DatapointsPerAverage, c.want)
		}
	}
}

func TestSanitizeKeepsInRangeConfig(t *testing.T) {
	c := SessionConfig{
		SampleInterval:       time.Minute,
		Averaging:            true,
		DatapointsPerAverage: 60,
		RevalidateEachCycle:  true,
	}
	if got := c.Sanitize(); got != c {
		t.Fatalf("Sanitize changed an in-range config: %+v", got)
	}
}
