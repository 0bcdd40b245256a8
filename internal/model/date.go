package model

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// DayLayout is the calendar-day format used by query parameters and attendance.
const DayLayout = "2006-01-02"

var ErrInvalidDate = errors.New("invalid date, use YYYY-MM-DD or RFC3339")

// ParseDate accepts YYYY-MM-DD (interpreted in loc) or an RFC3339 timestamp.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if loc == nil {
		loc = time.UTC
	}
	if t, err := time.ParseInLocation(DayLayout, s, loc); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	return time.Time{}, ErrInvalidDate
}

// EndOfDay returns the last representable millisecond of t's calendar day.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
}

// DateInput is a JSON date that accepts YYYY-MM-DD (UTC) or RFC3339.
type DateInput struct {
	time.Time
}

func (d *DateInput) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return ErrInvalidDate
	}
	t, err := ParseDate(s, time.UTC)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

func (d DateInput) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Time)
}
