package logfile

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func date(y int, m time.Month, d, hh, mm, ss int) time.Time {
	return time.Date(y, m, d, hh, mm, ss, 0, time.UTC)
}

func TestName(t *testing.T) {
	cases := []struct {
		t    time.Time
		want string
	}{
		{date(2026, time.August, 21, 0, 0, 0), "20260821.csv"},
		{date(2001, time.February, 3, 12, 0, 0), "20010203.csv"},
		{date(1999, time.December, 31, 23, 59, 59), "19991231.csv"},
		{date(2030, time.January, 1, 0, 0, 1), "20300101.csv"},
	}
	for _, c := range cases {
		got := Name(c.t)
		if got != c.want {
			t.Errorf("Name(%v) = %q, want %q", c.t, got, c.want)
		}
		if !IsSessionName(got) {
			t.Errorf("IsSessionName(%q) = false", got)
		}
	}
}

func TestIsSessionNameRejects(t *testing.T) {
	for _, bad := range []string{
		"",
		"20260821",
		"20260821.txt",
		"2026082.csv",
		"202608211.csv",
		"2026o821.csv",
		"-0260821.csv",
	} {
		if IsSessionName(bad) {
			t.Errorf("IsSessionName(%q) = true", bad)
		}
	}
}

func TestTimestampOmitsZeroPadding(t *testing.T) {
	cases := []struct {
		t    time.Time
		want string
	}{
		{date(2026, time.August, 21, 9, 5, 3), "9:5:3"},
		{date(2026, time.August, 21, 0, 0, 0), "0:0:0"},
		{date(2026, time.August, 21, 23, 59, 59), "23:59:59"},
		{date(2026, time.August, 21, 10, 0, 7), "10:0:7"},
	}
	for _, c := range cases {
		if got := Timestamp(c.t); got != c.want {
			t.Errorf("Timestamp(%v) = %q, want %q", c.t, got, c.want)
		}
	}
}

func TestRowShape(t *testing.T) {
	got := Row(date(2026, time.August, 21, 9, 5, 3), 123.456)
	want := "9:5:3,123.46,\n"
	if got != want {
		t.Fatalf("Row = %q, want %q", got, want)
	}
	if !strings.HasSuffix(got, ",\n") {
		t.Fatalf("row %q lost its trailing comma", got)
	}
}

func TestParseRowRoundTrip(t *testing.T) {
	at := date(2026, time.August, 21, 7, 0, 30)
	rec, err := ParseRow(Row(at, 42.5))
	if err != nil {
		t.Fatalf("ParseRow: %v", err)
	}
	if rec.Hour != 7 || rec.Minute != 0 || rec.Second != 30 {
		t.Fatalf("clock = %d:%d:%d, want 7:0:30", rec.Hour, rec.Minute, rec.Second)
	}
	if rec.MilliAmps != 42.5 {
		t.Fatalf("MilliAmps = %v, want 42.5", rec.MilliAmps)
	}
}

func TestParseRowVariants(t *testing.T) {
	cases := []struct {
		name string
		line string
	}{
		{"crlf", "9:5:3,1.00,\r\n"},
		{"no trailing comma", "9:5:3,1.00"},
		{"bare", "23:59:59,0.25,"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := ParseRow(c.line); err != nil {
				t.Fatalf("ParseRow(%q): %v", c.line, err)
			}
		})
	}
}

func TestParseRowRejects(t *testing.T) {
	cases := []struct {
		line string
		want error
	}{
		{"", ErrBadRow},
		{"no commas here", ErrBadRow},
		{"9:5,1.00,", ErrBadRow},
		{"9:5:3:4,1.00,", ErrBadRow},
		{"24:0:0,1.00,", ErrBadTime},
		{"9:60:0,1.00,", ErrBadTime},
		{"9:5:-1,1.00,", ErrBadTime},
		{"9:5:3,milliamps,", ErrBadRow},
		{"9:5:3,1.00,junk", ErrBadRow},
	}
	for _, c := range cases {
		_, err := ParseRow(c.line)
		if !errors.Is(err, c.want) {
			t.Errorf("ParseRow(%q) err = %v, want %v", c.line, err, c.want)
		}
	}
}

func TestReadAll(t *testing.T) {
	content := Header + "\n" +
		"9:5:3,10.00,\n" +
		"9:5:8,11.50,\n" +
		"\n"
	recs, hasHeader, err := ReadAll(strings.NewReader(content))
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if !hasHeader {
		t.Fatal("header not recognised")
	}
	if len(recs) != 2 {
		t.Fatalf("records = %d, want 2", len(recs))
	}
	if recs[1].SecondOfDay() <= recs[0].SecondOfDay() {
		t.Fatalf("timestamps not increasing: %+v", recs)
	}
}

func TestReadAllWithoutHeader(t *testing.T) {
	recs, hasHeader, err := ReadAll(strings.NewReader("9:5:3,10.00,\n"))
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if hasHeader {
		t.Fatal("phantom header")
	}
	if len(recs) != 1 {
		t.Fatalf("records = %d, want 1", len(recs))
	}
}

func TestReadAllFlagsDuplicateHeader(t *testing.T) {
	content := Header + "\n" + "9:5:3,10.00,\n" + Header + "\n"
	_, _, err := ReadAll(strings.NewReader(content))
	if err == nil {
		t.Fatal("duplicate header not reported")
	}
}
