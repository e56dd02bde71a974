// Package calendar converts timestamps into the active calendar system's
// year/month/day triple. The derived-view engine groups spend by calendar
// month and purchase history by calendar day, so month boundaries must
// follow the household's calendar, not necessarily the Gregorian one.
//
// The default calendar is Jalali (Persian); a Gregorian implementation
// exists for configuration and deterministic tests. Both are pure and
// safe for concurrent use.
package calendar

import (
	"fmt"
	"time"

	ptime "github.com/yaa110/go-persian-calendar"
)

// Date is a calendar-local civil date.
type Date struct {
	Year  int
	Month int
	Day   int
}

// String renders the date as zero-padded y/m/d, usable as a sort- and
// group-key: lexical order equals chronological order within a calendar.
func (d Date) String() string {
	return fmt.Sprintf("%04d/%02d/%02d", d.Year, d.Month, d.Day)
}

// SameMonth reports month/year equality (not a rolling window).
func (d Date) SameMonth(other Date) bool {
	return d.Year == other.Year && d.Month == other.Month
}

// Calendar converts a timestamp to its civil date.
type Calendar interface {
	Convert(t time.Time) Date
}

// Jalali is the Persian solar-hijri calendar.
type Jalali struct{}

func (Jalali) Convert(t time.Time) Date {
	pt := ptime.New(t)
	return Date{Year: pt.Year(), Month: int(pt.Month()), Day: pt.Day()}
}

// Gregorian converts using the timestamp's own location.
type Gregorian struct{}

func (Gregorian) Convert(t time.Time) Date {
	return Date{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}
}

// ForName maps a configuration value to a calendar. Unrecognized names
// fall back to Jalali, the application default.
func ForName(name string) Calendar {
	if name == "gregorian" {
		return Gregorian{}
	}
	return Jalali{}
}
