package timeclock

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestWeekEndingDay(t *testing.T) {
	rules := NewRules([]string{"Martinsburg"})

	if got := rules.WeekEndingDay("Martinsburg"); got != time.Saturday {
		t.Errorf("Martinsburg week ends %v, want Saturday", got)
	}
	if got := rules.WeekEndingDay("Hagerstown"); got != time.Sunday {
		t.Errorf("Hagerstown week ends %v, want Sunday", got)
	}
	if got := rules.WeekEndingDay("Unknown Office"); got != time.Sunday {
		t.Errorf("unknown office week ends %v, want Sunday", got)
	}
}

func TestWeekEnding(t *testing.T) {
	rules := NewRules([]string{"Martinsburg"})

	tests := []struct {
		name     string
		office   string
		workDate time.Time
		want     time.Time
	}{
		{"midweek to saturday", "Martinsburg", date(2025, time.November, 26), date(2025, time.November, 29)},
		{"midweek to sunday", "Hagerstown", date(2025, time.November, 26), date(2025, time.November, 30)},
		{"saturday stays put", "Martinsburg", date(2025, time.November, 29), date(2025, time.November, 29)},
		{"sunday stays put", "Hagerstown", date(2025, time.November, 30), date(2025, time.November, 30)},
		{"sunday rolls forward for saturday office", "Martinsburg", date(2025, time.November, 30), date(2025, time.December, 6)},
		{"monday to sunday", "Hagerstown", date(2025, time.November, 24), date(2025, time.November, 30)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rules.WeekEnding(tt.office, tt.workDate); !got.Equal(tt.want) {
				t.Errorf("WeekEnding(%s, %s) = %s, want %s",
					tt.office, tt.workDate.Format("2006-01-02"), got.Format("2006-01-02"), tt.want.Format("2006-01-02"))
			}
		})
	}
}

// A Saturday-ending office and a Sunday-ending office in the same calendar
// week must share one week key, or merged aggregates double-count the week.
func TestWeekKeyMergesSaturdayAndSundayEndings(t *testing.T) {
	saturday := date(2025, time.November, 29)
	sunday := date(2025, time.November, 30)

	satYear, satWeek := WeekKey(saturday)
	sunYear, sunWeek := WeekKey(sunday)

	if satYear != sunYear || satWeek != sunWeek {
		t.Errorf("week keys diverge: saturday (%d, %d) vs sunday (%d, %d)", satYear, satWeek, sunYear, sunWeek)
	}
	if satYear != 2025 || satWeek != 48 {
		t.Errorf("week key = (%d, %d), want (2025, 48)", satYear, satWeek)
	}
}

func TestWeekKeyYearBoundary(t *testing.T) {
	// December 29, 2024 is a Sunday that falls in ISO week 52 of 2024
	year, week := WeekKey(date(2024, time.December, 29))
	if year != 2024 || week != 52 {
		t.Errorf("week key = (%d, %d), want (2024, 52)", year, week)
	}

	// January 4th is always in ISO week 1
	year, week = WeekKey(date(2026, time.January, 4))
	if year != 2026 || week != 1 {
		t.Errorf("week key = (%d, %d), want (2026, 1)", year, week)
	}
}

func TestWeekDisplayDate(t *testing.T) {
	tests := []struct {
		weekYear   int
		weekNumber int
		want       time.Time
	}{
		{2025, 48, date(2025, time.November, 30)},
		{2026, 1, date(2026, time.January, 4)},
		{2025, 1, date(2025, time.January, 5)},
	}
	for _, tt := range tests {
		got := WeekDisplayDate(tt.weekYear, tt.weekNumber)
		if !got.Equal(tt.want) {
			t.Errorf("WeekDisplayDate(%d, %d) = %s, want %s",
				tt.weekYear, tt.weekNumber, got.Format("2006-01-02"), tt.want.Format("2006-01-02"))
		}
		if got.Weekday() != time.Sunday {
			t.Errorf("WeekDisplayDate(%d, %d) = %v, want a Sunday", tt.weekYear, tt.weekNumber, got.Weekday())
		}
	}
}

// The display date must round-trip back to the week key it was derived from
func TestWeekDisplayDateRoundTrip(t *testing.T) {
	for week := 1; week <= 52; week++ {
		display := WeekDisplayDate(2025, week)
		year, got := WeekKey(display)
		if year != 2025 || got != week {
			t.Errorf("round trip for week %d: display %s keyed as (%d, %d)",
				week, display.Format("2006-01-02"), year, got)
		}
	}
}
