package cell

import (
	"math"
	"time"
)

const (
	secondsPerDay = 86400
	// serials below this fall before the phantom 1900-02-29
	leapBugSerial = 61
)

var (
	epoch1900 = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)
	epoch1904 = time.Date(1904, time.January, 1, 0, 0, 0, 0, time.UTC)
)

// DateToSerial converts t to a spreadsheet serial day number. The wall clock
// of t is used and its location is ignored.
func DateToSerial(t time.Time, date1904 bool) float64 {
	wall := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
	base := epoch1900
	if date1904 {
		base = epoch1904
	}
	secs := wall.Unix() - base.Unix()
	serial := float64(secs)/secondsPerDay + float64(wall.Nanosecond())/(secondsPerDay*1e9)
	if !date1904 && serial < leapBugSerial && serial >= 1 {
		serial--
	}
	return serial
}

// SerialToDate converts a serial day number to a UTC time, rounded to the
// millisecond.
func SerialToDate(serial float64, date1904 bool) time.Time {
	base := epoch1900
	if date1904 {
		base = epoch1904
	} else if serial < leapBugSerial && serial >= 1 {
		serial++
	}
	days := math.Floor(serial)
	ms := math.Round((serial - days) * secondsPerDay * 1000)
	return base.AddDate(0, 0, int(days)).Add(time.Duration(ms) * time.Millisecond)
}
