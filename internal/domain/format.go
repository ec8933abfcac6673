package domain

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DateInputLayout is the day/month/year layout accepted by the edit form.
const DateInputLayout = "02/01/06 15:04"

var upperEnglish = cases.Upper(language.English)

// FormatDuration renders a span as "1D 02H 30M", "02H 30M" or "30M".
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	totalMinutes := int(d / time.Minute)
	days := totalMinutes / (60 * 24)
	hours := (totalMinutes % (60 * 24)) / 60
	minutes := totalMinutes % 60

	var b strings.Builder
	if days > 0 {
		fmt.Fprintf(&b, "%dD ", days)
	}
	if days > 0 || hours > 0 {
		fmt.Fprintf(&b, "%02dH ", hours)
	}
	fmt.Fprintf(&b, "%02dM", minutes)
	return b.String()
}

// FormatDateInput renders a timestamp for the edit form; zero renders blank.
func FormatDateInput(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateInputLayout)
}

// ParseDateInput parses a "dd/mm/yy hh:mm" value in the given location.
func ParseDateInput(raw string, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, ErrInvalidDateRange
	}
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(DateInputLayout, raw, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDateRange, raw)
	}
	return t, nil
}

// FormatDayMonth renders "18 MAR".
func FormatDayMonth(t time.Time) string {
	return upperEnglish.String(t.Format("02 Jan"))
}

// FormatClock renders "14:05".
func FormatClock(t time.Time) string {
	return t.Format("15:04")
}
