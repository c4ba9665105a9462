package domain

import "time"

// NextExecution computes the next firing instant for a schedule, or nil when
// the series cannot continue (one-shot, missing calendar fields, or not
// active). The computation is anchored on StartDate: every occurrence keeps
// the anchor's hour and minute, with seconds zeroed.
//
// The base is never earlier than now. A schedule that missed its window while
// the process was down catches up by computing its next occurrence relative
// to the current instant instead of replaying missed ones.
func NextExecution(s *Schedule, now time.Time) *time.Time {
	if s.Status != StatusActive {
		return nil
	}

	base := s.StartDate
	if s.NextExecution != nil {
		base = *s.NextExecution
	}
	if base.Before(now) {
		base = now
	}

	switch s.Frequency {
	case FrequencyOnce:
		// One-shot: the dispatcher makes the schedule terminal after firing.
		return nil

	case FrequencyDaily:
		next := atAnchorTime(base.AddDate(0, 0, 1), s.StartDate)
		return &next

	case FrequencyWeekly:
		if s.DayOfWeek == nil {
			return nil
		}
		next := base
		for i := 0; i < 7; i++ {
			next = next.AddDate(0, 0, 1)
			if weekdayIndex(next) == *s.DayOfWeek {
				next = atAnchorTime(next, s.StartDate)
				return &next
			}
		}
		// Unreachable for a valid 0-6 day, nil for anything else.
		return nil

	case FrequencyMonthly:
		if s.DayOfMonth == nil {
			return nil
		}
		year, month := base.Year(), base.Month()
		day := clampDayOfMonth(*s.DayOfMonth, year, month)
		candidate := time.Date(year, month, day,
			base.Hour(), base.Minute(), base.Second(), base.Nanosecond(), base.Location())
		if !candidate.After(base) {
			month++
			if month > time.December {
				month = time.January
				year++
			}
			day = clampDayOfMonth(*s.DayOfMonth, year, month)
			candidate = time.Date(year, month, day,
				base.Hour(), base.Minute(), base.Second(), base.Nanosecond(), base.Location())
		}
		next := atAnchorTime(candidate, s.StartDate)
		return &next

	case FrequencyYearly:
		month, day := s.StartDate.Month(), s.StartDate.Day()
		targetYear := base.Year()
		if validDate(targetYear, month, day) {
			candidate := time.Date(targetYear, month, day,
				base.Hour(), base.Minute(), base.Second(), base.Nanosecond(), base.Location())
			if !candidate.After(base) {
				targetYear++
			}
		} else if base.Month() > month {
			targetYear++
		}
		// A Feb 29 anchor recurs within 8 years at worst.
		for i := 0; i < 8; i++ {
			if validDate(targetYear, month, day) {
				next := time.Date(targetYear, month, day,
					s.StartDate.Hour(), s.StartDate.Minute(), 0, 0, base.Location())
				return &next
			}
			targetYear++
		}
		return nil
	}

	return nil
}

// weekdayIndex maps a time to the stored day-of-week convention, Monday=0
// through Sunday=6.
func weekdayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// atAnchorTime keeps d's date but forces the anchor's hour and minute,
// zeroing seconds and below.
func atAnchorTime(d, anchor time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), anchor.Hour(), anchor.Minute(), 0, 0, d.Location())
}

// clampDayOfMonth bounds day to the last valid day of year/month,
// e.g. 31 -> 28/29/30 as applicable.
func clampDayOfMonth(day int, year int, month time.Month) int {
	last := lastDayOfMonth(year, month)
	if day > last {
		return last
	}
	return day
}

func lastDayOfMonth(year int, month time.Month) int {
	// Day zero of the following month normalizes backwards.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func validDate(year int, month time.Month, day int) bool {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return t.Month() == month && t.Day() == day
}
