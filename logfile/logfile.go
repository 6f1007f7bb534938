// Package logfile defines the session file format: the date-derived name,
// the one-shot header, and the row grammar
//
//	<H:M:S>,<milliamps>,
//
// Two historical quirks are load-bearing and must not be "fixed": the time
// fields carry no zero padding ("9:5:3" for 09:05:03), and every row ends
// with a trailing comma. Existing files depend on both. Rows are written
// with '\n'; the parser also accepts '\r\n'.
package logfile

import (
	"bufio"
	"errors"
	"io"
	"strconv"
	"strings"
	"time"
)

// Ext is the fixed session file extension.
const Ext = ".csv"

// Header is written once, only when the file is empty at open time.
const Header = "Time, Current (mA)"

// Errors returned by the parse side.
var (
	ErrBadRow  = errors.New("logfile: malformed row")
	ErrBadTime = errors.New("logfile: time field out of range")
)

// Name derives the session filename from t's date: zero-padded YYYYMMDD
// plus Ext. The name is fixed at session start and never rolls over.
func Name(t time.Time) string {
	y, m, d := t.Date()
	b := make([]byte, 0, 8+len(Ext))
	b = appendPadded(b, y, 4)
	b = appendPadded(b, int(m), 2)
	b = appendPadded(b, d, 2)
	b = append(b, Ext...)
	return string(b)
}

// IsSessionName reports whether name has the exact YYYYMMDD.csv shape.
func IsSessionName(name string) bool {
	if len(name) != 8+len(Ext) || !strings.HasSuffix(name, Ext) {
		return false
	}
	for i := 0; i < 8; i++ {
		if name[i] < '0' || name[i] > '9' {
			return false
		}
	}
	return true
}

// Timestamp formats t's clock as H:M:S without zero padding.
func Timestamp(t time.Time) string {
	return strconv.Itoa(t.Hour()) + ":" + strconv.Itoa(t.Minute()) + ":" + strconv.Itoa(t.Second())
}

// Row renders one data row, trailing comma and terminator included.
// Values carry two decimal places.
func Row(t time.Time, milliAmps float64) string {
	return Timestamp(t) + "," + strconv.FormatFloat(milliAmps, 'f', 2, 64) + ",\n"
}

// Record is one parsed data row. The format stores no date, so the clock
// fields stand alone.
type Record struct {
	Hour, Minute, Second int
	MilliAmps            float64
}

// SecondOfDay collapses the clock fields for ordering checks.
func (r Record) SecondOfDay() int {
	return r.Hour*3600 + r.Minute*60 + r.Second
}

// ParseRow parses one data row. The trailing comma is accepted but not
// required; a trailing '\r' (CRLF files) is ignored.
func ParseRow(line string) (Record, error) {
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")

	parts := strings.Split(line, ",")
	switch len(parts) {
	case 2:
	case 3:
		if parts[2] != "" {
			return Record{}, ErrBadRow
		}
	default:
		return Record{}, ErrBadRow
	}

	clock := strings.Split(parts[0], ":")
	if len(clock) != 3 {
		return Record{}, ErrBadRow
	}
	var rec Record
	var err error
	if rec.Hour, err = clockField(clock[0], 23); err != nil {
		return Record{}, err
	}
	if rec.Minute, err = clockField(clock[1], 59); err != nil {
		return Record{}, err
	}
	if rec.Second, err = clockField(clock[2], 59); err != nil {
		return Record{}, err
	}
	if rec.MilliAmps, err = strconv.ParseFloat(parts[1], 64); err != nil {
		return Record{}, ErrBadRow
	}
	return rec, nil
}

// ReadAll scans a whole session file. hasHeader reports whether the first
// non-blank line was the canonical header. Blank lines are skipped; the
// first malformed row aborts the scan.
func ReadAll(r io.Reader) (recs []Record, hasHeader bool, err error) {
	sc := bufio.NewScanner(r)
	first := true
	for sc.Scan() {
		line := strings.TrimSuffix(sc.Text(), "\r")
		if line == "" {
			continue
		}
		if first {
			first = false
			if line == Header {
				hasHeader = true
				continue
			}
		}
		rec, perr := ParseRow(line)
		if perr != nil {
			return recs, hasHeader, perr
		}
		recs = append(recs, rec)
	}
	return recs, hasHeader, sc.Err()
}

func clockField(s string, max int) (int, error) {
	if s == "" {
		return 0, ErrBadRow
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, ErrBadRow
	}
	if v < 0 || v > max {
		return 0, ErrBadTime
	}
	return v, nil
}

func appendPadded(b []byte, v, width int) []byte {
	s := strconv.Itoa(v)
	for n := width - len(s); n > 0; n-- {
		b = append(b, '0')
	}
	return append(b, s...)
}
