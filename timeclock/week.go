// Package timeclock holds the calendar rules shared by ingestion and
// reporting: office week-ending conventions and ISO week key derivation.
package timeclock

import "time"

// Rules captures which offices end their client work week on Saturday.
// Every other office ends on Sunday.
type Rules struct {
	saturdayOffices map[string]struct{}
}

// NewRules builds week-ending rules from an office list
func NewRules(saturdayOffices []string) *Rules {
	set := make(map[string]struct{}, len(saturdayOffices))
	for _, office := range saturdayOffices {
		set[office] = struct{}{}
	}
	return &Rules{saturdayOffices: set}
}

// WeekEndingDay returns the weekday an office's work week ends on
func (r *Rules) WeekEndingDay(office string) time.Weekday {
	if _, ok := r.saturdayOffices[office]; ok {
		return time.Saturday
	}
	return time.Sunday
}

// WeekEnding advances workDate to the office's week-ending day.
// A date already on the week-ending day is returned unchanged.
func (r *Rules) WeekEnding(office string, workDate time.Time) time.Time {
	end := r.WeekEndingDay(office)
	days := (int(end) - int(workDate.Weekday()) + 7) % 7
	return workDate.AddDate(0, 0, days)
}

// WeekKey returns the ISO (year, week) pair for a week-ending date.
// A Saturday ending (Martinsburg) and the following Sunday ending land in
// the same ISO week, so merged aggregates count the calendar week once.
func WeekKey(weekEnding time.Time) (year, week int) {
	return weekEnding.ISOWeek()
}

// WeekDisplayDate returns the Sunday of a given ISO week, used by the
// frontend to put all offices on one axis.
func WeekDisplayDate(weekYear, weekNumber int) time.Time {
	// January 4th is always in ISO week 1
	jan4 := time.Date(weekYear, time.January, 4, 0, 0, 0, 0, time.UTC)
	isoWeekday := int(jan4.Weekday())
	if isoWeekday == 0 {
		isoWeekday = 7
	}
	weekOneMonday := jan4.AddDate(0, 0, -(isoWeekday - 1))
	return weekOneMonday.AddDate(0, 0, (weekNumber-1)*7+6)
}
