package kpi

import "github.com/bomino/xlc-bstt-server/timeclock"

// Trends compares the two most recent ISO weeks in the filtered set
type Trends struct {
	HasTrends          bool               `json:"has_trends"`
	CurrentWeek        string             `json:"current_week,omitempty"`
	PreviousWeek       string             `json:"previous_week,omitempty"`
	CurrentWeekYear    int                `json:"current_week_year,omitempty"`
	CurrentWeekNumber  int                `json:"current_week_number,omitempty"`
	PreviousWeekYear   int                `json:"previous_week_year,omitempty"`
	PreviousWeekNumber int                `json:"previous_week_number,omitempty"`
	Current            *Summary           `json:"current,omitempty"`
	Previous           *Summary           `json:"previous,omitempty"`
	Deltas             map[string]float64 `json:"deltas,omitempty"`
}

// Trends computes week-over-week movement for the headline metrics.
// Weeks are keyed by (week_year, week_number) so Saturday-ending and
// Sunday-ending offices are compared within the same calendar weeks.
func (c *Calculator) Trends() (*Trends, error) {
	var weeks []struct {
		WeekYear   int
		WeekNumber int
	}
	err := c.scoped().
		Distinct("week_year", "week_number").
		Order("week_year DESC, week_number DESC").
		Limit(2).
		Scan(&weeks).Error
	if err != nil {
		return nil, err
	}
	if len(weeks) < 2 {
		return &Trends{HasTrends: false}, nil
	}

	current, previous := weeks[0], weeks[1]

	currentSummary, err := c.weekSummary(current.WeekYear, current.WeekNumber)
	if err != nil {
		return nil, err
	}
	previousSummary, err := c.weekSummary(previous.WeekYear, previous.WeekNumber)
	if err != nil {
		return nil, err
	}

	deltas := map[string]float64{
		"finger_rate_delta":      delta(currentSummary.FingerRate, previousSummary.FingerRate),
		"provisional_rate_delta": delta(currentSummary.ProvisionalRate, previousSummary.ProvisionalRate),
		"total_entries_delta":    delta(float64(currentSummary.TotalEntries), float64(previousSummary.TotalEntries)),
		"total_hours_delta":      delta(currentSummary.TotalHours, previousSummary.TotalHours),
	}

	return &Trends{
		HasTrends:          true,
		CurrentWeek:        timeclock.WeekDisplayDate(current.WeekYear, current.WeekNumber).Format("2006-01-02"),
		PreviousWeek:       timeclock.WeekDisplayDate(previous.WeekYear, previous.WeekNumber).Format("2006-01-02"),
		CurrentWeekYear:    current.WeekYear,
		CurrentWeekNumber:  current.WeekNumber,
		PreviousWeekYear:   previous.WeekYear,
		PreviousWeekNumber: previous.WeekNumber,
		Current:            currentSummary,
		Previous:           previousSummary,
		Deltas:             deltas,
	}, nil
}

func (c *Calculator) weekSummary(weekYear, weekNumber int) (*Summary, error) {
	scoped := &Calculator{
		db:     c.db.Where("week_year = ? AND week_number = ?", weekYear, weekNumber),
		filter: c.filter,
	}
	return scoped.CalculateAll()
}

// delta is the percent change from previous to current
func delta(current, previous float64) float64 {
	if previous == 0 {
		if current == 0 {
			return 0
		}
		return 100
	}
	return round1((current - previous) / previous * 100)
}
