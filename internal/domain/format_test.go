package domain

import (
	"errors"
	"testing"
	"time"
)

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		in   time.Duration
		want string
	}{
		{in: 25 * time.Minute, want: "25M"},
		{in: 2*time.Hour + 5*time.Minute, want: "02H 05M"},
		{in: 26*time.Hour + 30*time.Minute, want: "1D 02H 30M"},
		{in: 48 * time.Hour, want: "2D 00H 00M"},
		{in: -time.Hour, want: "00M"},
		{in: 3*time.Minute + 59*time.Second, want: "03M"},
		{in: 10*24*time.Hour + 10*time.Minute, want: "10D 00H 10M"},
	}
	for _, tc := range cases {
		if got := FormatDuration(tc.in); got != tc.want {
			t.Fatalf("FormatDuration(%s) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestDateInputRoundTrip(t *testing.T) {
	in := time.Date(2026, 3, 18, 14, 5, 0, 0, time.UTC)
	raw := FormatDateInput(in)
	if raw != "18/03/26 14:05" {
		t.Fatalf("unexpected input format %q", raw)
	}
	out, err := ParseDateInput(raw, time.UTC)
	if err != nil {
		t.Fatalf("ParseDateInput() error = %v", err)
	}
	if !out.Equal(in) {
		t.Fatalf("expected %s, got %s", in, out)
	}
	if FormatDateInput(time.Time{}) != "" {
		t.Fatal("expected blank for zero time")
	}
	if _, err := ParseDateInput("2026-03-18", time.UTC); !errors.Is(err, ErrInvalidDateRange) {
		t.Fatalf("expected ErrInvalidDateRange, got %v", err)
	}
}

func TestFormatDayMonthUppercases(t *testing.T) {
	got := FormatDayMonth(time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC))
	if got != "08 MAR" {
		t.Fatalf("unexpected day month %q", got)
	}
}
