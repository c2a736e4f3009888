// Package shamsi provides the Shamsi (Solar Hijri) calendar helpers used for
// payment periods.
package shamsi

import (
	"time"

	ptime "github.com/yaa110/go-persian-calendar"
)

// CurrentPeriod returns the current Shamsi year and month (month in [1,12]).
func CurrentPeriod() (year, month int) {
	return Period(time.Now())
}

// Period converts a point in time to its Shamsi year and month.
func Period(t time.Time) (year, month int) {
	pt := ptime.New(t.In(ptime.Iran()))
	return pt.Year(), int(pt.Month())
}

// MonthName returns the Persian name of a Shamsi month, or "" when the month
// is outside [1,12].
func MonthName(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return ptime.Month(month).String()
}

// FormatTimestamp renders an epoch-milliseconds timestamp as a Shamsi date
// string (yyyy/MM/dd).
func FormatTimestamp(ms int64) string {
	pt := ptime.New(time.UnixMilli(ms).In(ptime.Iran()))
	return pt.Format("yyyy/MM/dd")
}
