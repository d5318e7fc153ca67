package attendance

import "time"

// StatsPolicy holds the day-classification thresholds. ProjectFutureAttendance
// counts the remaining weekdays of the current month as full days so mid-month
// payroll previews are not dominated by absences that have not happened yet.
type StatsPolicy struct {
	FullDayHours            float64
	HalfDayHours            float64
	ProjectFutureAttendance bool
}

func DefaultStatsPolicy() StatsPolicy {
	return StatsPolicy{
		FullDayHours:            7,
		HalfDayHours:            4,
		ProjectFutureAttendance: true,
	}
}

type Stats struct {
	FullDays         int
	HalfDays         int
	WorkDays         float64
	Absences         float64
	TotalWorkingDays int
}

// WorkingDaysInMonth counts Monday through Friday. Public holidays are out of
// scope here, they are handled by payroll overrides.
func WorkingDaysInMonth(month, year int) int {
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	days := 0
	for d := first; d.Month() == first.Month(); d = d.AddDate(0, 0, 1) {
		if isWeekday(d) {
			days++
		}
	}
	return days
}

// ComputeStats classifies each record into a full day, half day, or nothing
// based on recorded working hours. Records outside the requested period are
// ignored so callers may pass an unfiltered slice. When the period is the
// current month and projection is on, weekdays strictly after today count as
// full days up front; today itself only counts through its actual record.
func ComputeStats(records []Attendance, month, year int, now time.Time, policy StatsPolicy) Stats {
	stats := Stats{TotalWorkingDays: WorkingDaysInMonth(month, year)}

	for _, rec := range records {
		d := rec.AttendanceDate
		if int(d.Month()) != month || d.Year() != year {
			continue
		}
		switch {
		case rec.WorkingHours >= policy.FullDayHours:
			stats.FullDays++
		case rec.WorkingHours >= policy.HalfDayHours:
			stats.HalfDays++
		}
	}

	if policy.ProjectFutureAttendance && int(now.Month()) == month && now.Year() == year {
		stats.FullDays += futureWeekdays(now, month, year)
	}

	stats.WorkDays = float64(stats.FullDays) + float64(stats.HalfDays)*0.5
	stats.Absences = float64(stats.TotalWorkingDays) - stats.WorkDays
	if stats.Absences < 0 {
		stats.Absences = 0
	}
	return stats
}

// futureWeekdays counts weekdays from tomorrow through the end of the month.
func futureWeekdays(now time.Time, month, year int) int {
	tomorrow := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
	count := 0
	for d := tomorrow; int(d.Month()) == month && d.Year() == year; d = d.AddDate(0, 0, 1) {
		if isWeekday(d) {
			count++
		}
	}
	return count
}

func isWeekday(d time.Time) bool {
	wd := d.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}
