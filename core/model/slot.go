package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrSlotFormat is returned for slot labels in neither "dd.mm hh:mm" nor
// "dd/mm/yyyy hh:mm" form.
var ErrSlotFormat = errors.New("unrecognised slot label")

func parseDay(label string) (time.Time, bool, error) {
	switch {
	case strings.Contains(label, "."):
		if len(label) < 5 {
			return time.Time{}, false, fmt.Errorf("%w: %q", ErrSlotFormat, label)
		}
		t, err := time.Parse("02.01", label[:5])
		if err != nil {
			return time.Time{}, false, fmt.Errorf("%w: %q: %v", ErrSlotFormat, label, err)
		}
		return t, false, nil
	case strings.Contains(label, "/"):
		if len(label) < 10 {
			return time.Time{}, false, fmt.Errorf("%w: %q", ErrSlotFormat, label)
		}
		t, err := time.Parse("02/01/2006", label[:10])
		if err != nil {
			return time.Time{}, false, fmt.Errorf("%w: %q: %v", ErrSlotFormat, label, err)
		}
		return t, true, nil
	}
	return time.Time{}, false, fmt.Errorf("%w: %q", ErrSlotFormat, label)
}

// SlotMonth extracts the calendar month of a slot label. The year, when
// present, is ignored.
func SlotMonth(label string) (int, error) {
	t, _, err := parseDay(label)
	if err != nil {
		return 0, err
	}
	return int(t.Month()), nil
}

// ParseSlot converts a slot label to a UTC time. Labels without a year use
// the provided one.
func ParseSlot(label string, year int) (time.Time, error) {
	day, hasYear, err := parseDay(label)
	if err != nil {
		return time.Time{}, err
	}
	if hasYear {
		year = day.Year()
	}
	var hour, minute int
	if fields := strings.Fields(label); len(fields) > 1 {
		clock, err := time.Parse("15:04", fields[len(fields)-1])
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %q: %v", ErrSlotFormat, label, err)
		}
		hour, minute = clock.Hour(), clock.Minute()
	}
	return time.Date(year, day.Month(), day.Day(), hour, minute, 0, 0, time.UTC), nil
}
