package core

import "time"

// Window is an inclusive calendar date range used to scope a computation.
type Window struct {
	Start Date
	End   Date
}

// Contains reports whether d falls inside the window, bounds included.
func (w Window) Contains(d Date) bool {
	return !d.Before(w.Start) && !d.After(w.End)
}

// Days returns the number of calendar days the window spans, at least 1.
// Days are counted on the calendar, so DST transitions inside the window
// do not skew the result.
func (w Window) Days() int {
	sy, sm, sd := w.Start.Date()
	ey, em, ed := w.End.Date()
	start := time.Date(sy, sm, sd, 0, 0, 0, 0, time.UTC)
	end := time.Date(ey, em, ed, 0, 0, 0, 0, time.UTC)
	days := int(end.Sub(start).Hours()/24) + 1
	if days < 1 {
		return 1
	}
	return days
}

// MonthWindow returns the first and last day of the month containing ref.
// All window computations take an explicit reference instant; the engine
// never reads the ambient clock.
func MonthWindow(ref time.Time) Window {
	return MonthWindowOffset(ref, 0)
}

// MonthWindowOffset returns the calendar-month window `months` away from the
// month containing ref. Negative offsets go into the past.
func MonthWindowOffset(ref time.Time, months int) Window {
	y, m, _ := ref.Date()
	loc := ref.Location()
	start := time.Date(y, m, 1, 0, 0, 0, 0, loc).AddDate(0, months, 0)
	end := start.AddDate(0, 1, -1)
	return Window{Start: Date{Time: start}, End: Date{Time: end}}
}

// LastNDays returns n consecutive calendar days ending at ref's day, in
// ascending order. n <= 0 yields an empty slice.
func LastNDays(ref time.Time, n int) []Date {
	if n <= 0 {
		return nil
	}
	days := make([]Date, n)
	last := DateOf(ref)
	for i := 0; i < n; i++ {
		days[i] = Date{Time: last.AddDate(0, 0, i-n+1)}
	}
	return days
}

// TrailingWindow returns a window of `days` consecutive calendar days ending
// at ref's day (7, 30, 90, and 365 are the report presets).
func TrailingWindow(ref time.Time, days int) Window {
	end := DateOf(ref)
	if days < 1 {
		days = 1
	}
	start := Date{Time: end.AddDate(0, 0, 1-days)}
	return Window{Start: start, End: end}
}
