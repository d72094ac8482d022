package services

import (
	"fmt"
	"time"

	"github.com/soaringjerry/Mindtrack/internal/models"
)

// DayLayout formats local calendar dates stored as LastTriggeredOn.
const DayLayout = "2006-01-02"

// biweeklyGapDays is the minimum distance between two biweekly triggers.
const biweeklyGapDays = 14

// ValidateSchedule checks time-of-day ranges and that the anchor field is
// present exactly when the frequency needs it.
func ValidateSchedule(s models.ScheduleEntry) error {
	if s.Hour < 0 || s.Hour > 23 || s.Minute < 0 || s.Minute > 59 {
		return NewValidationError(fmt.Sprintf("time of day %02d:%02d is invalid", s.Hour, s.Minute))
	}
	switch s.Frequency {
	case models.FrequencyDaily:
		if s.Weekday != nil || s.DayOfMonth != nil {
			return NewValidationError("daily schedules take no anchor")
		}
	case models.FrequencyWeekly, models.FrequencyBiweekly:
		if s.Weekday == nil {
			return NewValidationError(fmt.Sprintf("%s schedules need a weekday", s.Frequency))
		}
		if *s.Weekday < 0 || *s.Weekday > 6 {
			return NewValidationError(fmt.Sprintf("weekday %d outside 0..6", *s.Weekday))
		}
		if s.DayOfMonth != nil {
			return NewValidationError(fmt.Sprintf("%s schedules take no day of month", s.Frequency))
		}
	case models.FrequencyMonthly:
		if s.DayOfMonth == nil {
			return NewValidationError("monthly schedules need a day of month")
		}
		if *s.DayOfMonth < 1 || *s.DayOfMonth > 31 {
			return NewValidationError(fmt.Sprintf("day of month %d outside 1..31", *s.DayOfMonth))
		}
		if s.Weekday != nil {
			return NewValidationError("monthly schedules take no weekday")
		}
	default:
		return NewValidationError(fmt.Sprintf("unknown frequency %q", s.Frequency))
	}
	if s.LastTriggeredOn != "" {
		if _, err := time.Parse(DayLayout, s.LastTriggeredOn); err != nil {
			return NewValidationError(fmt.Sprintf("last triggered date %q is not YYYY-MM-DD", s.LastTriggeredOn))
		}
	}
	return nil
}

// NextTrigger returns the first instant at or after now when s should fire.
// All arithmetic happens on calendar dates in now's location, so a 09:00
// reminder stays at 09:00 wall-clock time across daylight-saving changes.
func NextTrigger(s models.ScheduleEntry, now time.Time) (time.Time, error) {
	if err := ValidateSchedule(s); err != nil {
		return time.Time{}, err
	}
	loc := now.Location()
	y, m, d := now.Date()

	switch s.Frequency {
	case models.FrequencyDaily:
		next := wallClock(s, y, m, d, loc)
		if next.Before(now) {
			next = wallClock(s, y, m, d+1, loc)
		}
		return next, nil

	case models.FrequencyWeekly:
		return nextWeekday(s, now), nil

	case models.FrequencyBiweekly:
		next := nextWeekday(s, now)
		if floor, ok := biweeklyFloor(s); ok {
			for civilDay(next.Date()) < floor {
				ny, nm, nd := next.Date()
				next = wallClock(s, ny, nm, nd+7, loc)
			}
		}
		return next, nil

	default: // monthly
		for offset := 0; ; offset++ {
			fy, fm := addMonths(y, m, offset)
			if next := wallClock(s, fy, fm, monthlyDay(s, fy, fm), loc); !next.Before(now) {
				return next, nil
			}
		}
	}
}

// IsDue reports whether s should fire now: it is enabled, has not fired on
// today's local date, and today's time of day has been reached.
func IsDue(s models.ScheduleEntry, now time.Time) bool {
	if !s.Enabled {
		return false
	}
	if s.LastTriggeredOn != "" && s.LastTriggeredOn >= CalendarDay(now) {
		return false
	}
	return now.Hour()*60+now.Minute() >= s.Hour*60+s.Minute
}

// OccursOn reports whether now's calendar date is one of s's occurrence
// dates: the anchor weekday or (clamped) day of month, and for biweekly
// schedules a date past the 14-day floor. IsDue alone ignores the anchor.
// Only date components are compared, since local midnight does not exist
// in zones that start daylight saving at 00:00.
func OccursOn(s models.ScheduleEntry, now time.Time) bool {
	if ValidateSchedule(s) != nil {
		return false
	}
	y, m, d := now.Date()
	switch s.Frequency {
	case models.FrequencyDaily:
		return true
	case models.FrequencyWeekly:
		return int(now.Weekday()) == *s.Weekday
	case models.FrequencyBiweekly:
		if int(now.Weekday()) != *s.Weekday {
			return false
		}
		floor, ok := biweeklyFloor(s)
		return !ok || civilDay(y, m, d) >= floor
	default:
		return d == monthlyDay(s, y, m)
	}
}

// MarkTriggered records now's local date as the last trigger. Applying it
// twice on the same day is a no-op, and it never moves the date backwards.
func MarkTriggered(s models.ScheduleEntry, now time.Time) models.ScheduleEntry {
	today := CalendarDay(now)
	if s.LastTriggeredOn < today {
		s.LastTriggeredOn = today
	}
	return s
}

// CalendarDay returns t's date in its own location as YYYY-MM-DD.
func CalendarDay(t time.Time) string {
	return t.Format(DayLayout)
}

func wallClock(s models.ScheduleEntry, y int, m time.Month, d int, loc *time.Location) time.Time {
	return time.Date(y, m, d, s.Hour, s.Minute, 0, 0, loc)
}

// nextWeekday returns the first occurrence of s's weekday and time at or after now.
func nextWeekday(s models.ScheduleEntry, now time.Time) time.Time {
	y, m, d := now.Date()
	ahead := (*s.Weekday - int(now.Weekday()) + 7) % 7
	next := wallClock(s, y, m, d+ahead, now.Location())
	if next.Before(now) {
		next = wallClock(s, y, m, d+ahead+7, now.Location())
	}
	return next
}

// civilDay numbers a calendar date by days since 1970-01-01. It never
// touches a zone, so dates compare without DST effects.
func civilDay(y int, m time.Month, d int) int {
	return int(time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400)
}

// biweeklyFloor returns the first civil day a biweekly schedule may fire on
// again, or false when it has never fired.
func biweeklyFloor(s models.ScheduleEntry) (int, bool) {
	if s.LastTriggeredOn == "" {
		return 0, false
	}
	last, err := time.Parse(DayLayout, s.LastTriggeredOn)
	if err != nil {
		return 0, false
	}
	return civilDay(last.Date()) + biweeklyGapDays, true
}

func addMonths(y int, m time.Month, n int) (int, time.Month) {
	t := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	return t.Year(), t.Month()
}

// monthlyDay clamps s's anchor day to the length of month m.
func monthlyDay(s models.ScheduleEntry, y int, m time.Month) int {
	day := *s.DayOfMonth
	if last := time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC).Day(); day > last {
		day = last
	}
	return day
}
