package services

import (
	"errors"
	"main/model"
	"time"
)

var ErrInvalidPattern = errors.New("invalid recurrence pattern")

// NextDate returns the due date one period after current.
//
// Month-based patterns use calendar-month arithmetic with day-of-month
// clamping: the result keeps the same day of the month, clamped to the
// last day of the target month when it is shorter. Jan 31 monthly gives
// Feb 28 (Feb 29 in a leap year); Mar 31 quarterly gives Jun 30.
func NextDate(current time.Time, pattern model.Pattern) (time.Time, error) {
	switch pattern {
	case model.PatternDaily:
		return current.AddDate(0, 0, 1), nil
	case model.PatternWeekly:
		return current.AddDate(0, 0, 7), nil
	case model.PatternMonthly:
		return addMonthsClamped(current, 1), nil
	case model.PatternQuarterly:
		return addMonthsClamped(current, 3), nil
	case model.PatternHalfYearly:
		return addMonthsClamped(current, 6), nil
	case model.PatternYearly:
		return addMonthsClamped(current, 12), nil
	default:
		return time.Time{}, ErrInvalidPattern
	}
}

// TotalCycles returns the number of whole periods elapsed between start
// and reference, clamped to 0 when reference is not after start.
//
// Periods are approximated with a fixed day count (30/90/180/365 for the
// month-based patterns), so the result drifts from the calendar-accurate
// NextDate over long spans. It is only used for completion-rate display,
// never for scheduling.
func TotalCycles(start, reference time.Time, pattern model.Pattern) (int, error) {
	days, err := approxPeriodDays(pattern)
	if err != nil {
		return 0, err
	}
	if !reference.After(start) {
		return 0, nil
	}
	elapsedDays := int(reference.Sub(start) / (24 * time.Hour))
	return elapsedDays / days, nil
}

func approxPeriodDays(pattern model.Pattern) (int, error) {
	switch pattern {
	case model.PatternDaily:
		return 1, nil
	case model.PatternWeekly:
		return 7, nil
	case model.PatternMonthly:
		return 30, nil
	case model.PatternQuarterly:
		return 90, nil
	case model.PatternHalfYearly:
		return 180, nil
	case model.PatternYearly:
		return 365, nil
	default:
		return 0, ErrInvalidPattern
	}
}

func addMonthsClamped(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	m := int(month) + months
	year += (m - 1) / 12
	m = (m-1)%12 + 1

	if last := daysInMonth(year, time.Month(m)); day > last {
		day = last
	}
	return time.Date(year, time.Month(m), day,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// daysInMonth exploits the zeroth day of the following month normalizing
// to the last day of this one.
func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
