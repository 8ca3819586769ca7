// Package format turns raw upstream fields into display strings. None of the
// functions fail: malformed input yields a fixed fallback text.
package format

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	NotAvailable = "N/A"
	Unknown      = "?"
	InvalidDate  = "Invalid Date"
	dateLayout   = "2006-01-02"
)

var sixty = decimal.NewFromInt(60)

// raw normalizes the loosely typed upstream values. Numeric zero counts as
// absent, like an empty string.
func raw(v any) (string, bool) {
	var s string
	switch x := v.(type) {
	case nil:
		return "", false
	case string:
		s = x
	case json.Number:
		s = x.String()
	case int:
		if x == 0 {
			return "", false
		}
		s = strconv.Itoa(x)
	case int64:
		if x == 0 {
			return "", false
		}
		s = strconv.FormatInt(x, 10)
	case float64:
		if x == 0 {
			return "", false
		}
		s = strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		if x == 0 {
			return "", false
		}
		s = strconv.FormatFloat(float64(x), 'f', -1, 32)
	default:
		return "", false
	}
	if s == "" || s == "null" || s == "undefined" {
		return "", false
	}
	return s, true
}

func number(v any) (decimal.Decimal, bool) {
	s, ok := raw(v)
	if !ok {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

func integer(v any) (int64, bool) {
	s, ok := raw(v)
	if !ok {
		return 0, false
	}
	if i, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err == nil {
		return i, true
	}
	d, ok := number(s)
	if !ok {
		return 0, false
	}
	return d.IntPart(), true
}

func Time(s string) string {
	if v, ok := raw(s); ok {
		return v
	}
	return NotAvailable
}

// LapTime renders a lap time as "M:SS.fff". Values already containing a
// minute separator are returned unchanged, plain seconds are converted.
func LapTime(s string) string {
	v, ok := raw(s)
	if !ok {
		return NotAvailable
	}
	if strings.Contains(v, ":") {
		return v
	}
	seconds, ok := number(v)
	if !ok {
		return NotAvailable
	}
	// round first so a carry reaches the minutes
	seconds = seconds.Round(3)
	minutes := seconds.Div(sixty).Floor()
	rest := seconds.Mod(sixty).StringFixed(3)
	if len(rest) < 6 {
		rest = strings.Repeat("0", 6-len(rest)) + rest
	}
	return minutes.String() + ":" + rest
}

func Speed(v any) string {
	d, ok := number(v)
	if !ok {
		return NotAvailable
	}
	return d.StringFixed(1) + " km/h"
}

func Round(v any) string {
	i, ok := integer(v)
	if !ok {
		return Unknown
	}
	return strconv.FormatInt(i, 10)
}

func Position(v any) string {
	return Round(v)
}

func Points(v any) string {
	d, ok := number(v)
	if !ok {
		return "0"
	}
	return d.String()
}

func Wins(v any) string {
	i, ok := integer(v)
	if !ok {
		return "0"
	}
	return strconv.FormatInt(i, 10)
}

// BirthDate renders a "YYYY-MM-DD" date as "D.M.YYYY".
func BirthDate(s string) string {
	if s == "" {
		return "Unknown"
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return InvalidDate
	}
	return t.Format("2.1.2006")
}

// Age returns the completed years between the given date and now, 0 for
// empty or invalid dates.
func Age(s string, now time.Time) int {
	born, err := time.Parse(dateLayout, s)
	if err != nil {
		return 0
	}
	age := now.Year() - born.Year()
	if now.Month() < born.Month() || (now.Month() == born.Month() && now.Day() < born.Day()) {
		age--
	}
	return age
}

func YearsAgo(s string, now time.Time) int {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return 0
	}
	return now.Year() - t.Year()
}
