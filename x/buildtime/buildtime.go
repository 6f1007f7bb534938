// Package buildtime carries the firmware build timestamp. The clock recovery
// path uses it to reinitialize an RTC that lost power.
package buildtime

import "time"

// Stamp is injected at link time, e.g.
//
//	tinygo flash -target=pico \
//	  -ldflags "-X amplog-go/x/buildtime.Stamp=2026-08-21T07:00:00Z" \
//	  ./cmd/pico-datalogger
//
// RFC3339. Leave empty to fall back to the release date below.
var Stamp string

// fallback keeps recovered clocks at a plausible date on builds made
// without the ldflags injection.
const fallback = "2026-01-01T00:00:00Z"

// Time returns the build timestamp, or the fallback when Stamp is unset or
// malformed.
func Time() time.Time {
	if t, err := time.Parse(time.RFC3339, Stamp); err == nil {
		return t
	}
	t, _ := time.Parse(time.RFC3339, fallback)
	return t
}
