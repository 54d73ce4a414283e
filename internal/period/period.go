// Package period provides calendar-month contribution periods.
//
// A group's lifetime is divided into monthly periods identified by a
// canonical year-month key (e.g. "2024-01"). Keys in canonical form sort
// chronologically as plain strings.
package period

import (
	"errors"
	"time"
)

// ErrInvalidRange indicates a start date after the end date.
var ErrInvalidRange = errors.New("invalid period range: start date is after end date")

const keyLayout = "2006-01"

// Key identifies one calendar-month contribution period.
type Key string

// KeyOf returns the period containing the given date.
func KeyOf(t time.Time) Key {
	return Key(t.Format(keyLayout))
}

// Next returns the period one calendar month after k.
// A malformed key is returned unchanged.
func (k Key) Next() Key {
	t, err := time.Parse(keyLayout, string(k))
	if err != nil {
		return k
	}
	return KeyOf(t.AddDate(0, 1, 0))
}

// Before reports whether k is chronologically before other.
func (k Key) Before(other Key) bool {
	return string(k) < string(other)
}

// Sequence returns the ordered, inclusive sequence of periods from the month
// containing start to the month containing end. It is a pure function: the
// same inputs always yield the same sequence.
func Sequence(start, end time.Time) ([]Key, error) {
	if end.Before(start) {
		return nil, ErrInvalidRange
	}

	first := monthStart(start)
	last := monthStart(end)

	var keys []Key
	for t := first; !t.After(last); t = t.AddDate(0, 1, 0) {
		keys = append(keys, KeyOf(t))
	}
	return keys, nil
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
