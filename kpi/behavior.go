package kpi

// ClockBehavior is the detailed clock attempt analysis
type ClockBehavior struct {
	Summary          BehaviorSummary   `json:"summary"`
	Distribution     TryDistributions  `json:"distribution"`
	ProblemEmployees []ProblemEmployee `json:"problem_employees"`
}

// BehaviorSummary aggregates attempt counts over the filtered set
type BehaviorSummary struct {
	AvgClockInTries   float64 `json:"avg_clock_in_tries"`
	AvgClockOutTries  float64 `json:"avg_clock_out_tries"`
	FirstAttemptRate  float64 `json:"first_attempt_rate"`
	MultiTryClockIns  int64   `json:"multi_try_clock_ins"`
	MultiTryClockOuts int64   `json:"multi_try_clock_outs"`
	MaxTriesObserved  int     `json:"max_tries_observed"`
	TotalEntries      int64   `json:"total_entries"`
}

// TryBucket is one point in a tries histogram
type TryBucket struct {
	Tries      int     `json:"tries"`
	Count      int64   `json:"count"`
	Percentage float64 `json:"percentage"`
}

// TryDistributions holds the clock-in and clock-out histograms
type TryDistributions struct {
	ClockIn  []TryBucket `json:"clock_in"`
	ClockOut []TryBucket `json:"clock_out"`
}

// ProblemEmployee is an employee with repeated multi-try clocks
type ProblemEmployee struct {
	ApplicantID      string  `json:"applicant_id"`
	FullName         string  `json:"full_name"`
	Office           string  `json:"office"`
	TotalEntries     int64   `json:"total_entries"`
	AvgClockInTries  float64 `json:"avg_clock_in_tries"`
	AvgClockOutTries float64 `json:"avg_clock_out_tries"`
	MultiTryCount    int64   `json:"multi_try_count"`
}

const problemEmployeeLimit = 50

// ClockBehavior computes attempt summaries, histograms and the worst offenders
func (c *Calculator) ClockBehavior() (*ClockBehavior, error) {
	var agg struct {
		TotalEntries int64
		AvgInTries   float64
		AvgOutTries  float64
		MaxInTries   int
		MaxOutTries  int
		FirstTryBoth int64
		MultiTryIn   int64
		MultiTryOut  int64
	}
	err := c.scoped().Select(`
		COUNT(*) AS total_entries,
		COALESCE(AVG(clock_in_tries), 0) AS avg_in_tries,
		COALESCE(AVG(clock_out_tries), 0) AS avg_out_tries,
		COALESCE(MAX(clock_in_tries), 0) AS max_in_tries,
		COALESCE(MAX(clock_out_tries), 0) AS max_out_tries,
		SUM(CASE WHEN clock_in_tries = 1 AND clock_out_tries = 1 THEN 1 ELSE 0 END) AS first_try_both,
		SUM(CASE WHEN clock_in_tries > 1 THEN 1 ELSE 0 END) AS multi_try_in,
		SUM(CASE WHEN clock_out_tries > 1 THEN 1 ELSE 0 END) AS multi_try_out
	`).Scan(&agg).Error
	if err != nil {
		return nil, err
	}

	behavior := &ClockBehavior{
		Distribution:     TryDistributions{ClockIn: []TryBucket{}, ClockOut: []TryBucket{}},
		ProblemEmployees: []ProblemEmployee{},
	}
	if agg.TotalEntries == 0 {
		return behavior, nil
	}

	maxTries := agg.MaxInTries
	if agg.MaxOutTries > maxTries {
		maxTries = agg.MaxOutTries
	}
	behavior.Summary = BehaviorSummary{
		AvgClockInTries:   round2(agg.AvgInTries),
		AvgClockOutTries:  round2(agg.AvgOutTries),
		FirstAttemptRate:  round1(pct(agg.FirstTryBoth, agg.TotalEntries)),
		MultiTryClockIns:  agg.MultiTryIn,
		MultiTryClockOuts: agg.MultiTryOut,
		MaxTriesObserved:  maxTries,
		TotalEntries:      agg.TotalEntries,
	}

	var err2 error
	if behavior.Distribution.ClockIn, err2 = c.tryDistribution("clock_in_tries", agg.TotalEntries); err2 != nil {
		return nil, err2
	}
	if behavior.Distribution.ClockOut, err2 = c.tryDistribution("clock_out_tries", agg.TotalEntries); err2 != nil {
		return nil, err2
	}

	var problems []struct {
		ApplicantID   string
		FullName      string
		XLCOperation  string `gorm:"column:xlc_operation"`
		TotalEntries  int64
		AvgInTries    float64
		AvgOutTries   float64
		MultiTryCount int64
	}
	err = c.scoped().
		Select(`applicant_id, full_name, xlc_operation,
		COUNT(*) AS total_entries,
		COALESCE(AVG(clock_in_tries), 0) AS avg_in_tries,
		COALESCE(AVG(clock_out_tries), 0) AS avg_out_tries,
		SUM(CASE WHEN clock_in_tries > 1 THEN 1 ELSE 0 END) +
		SUM(CASE WHEN clock_out_tries > 1 THEN 1 ELSE 0 END) AS multi_try_count`).
		Group("applicant_id, full_name, xlc_operation").
		Having("SUM(CASE WHEN clock_in_tries > 1 THEN 1 ELSE 0 END) + SUM(CASE WHEN clock_out_tries > 1 THEN 1 ELSE 0 END) > 0").
		Order("multi_try_count DESC").
		Limit(problemEmployeeLimit).
		Scan(&problems).Error
	if err != nil {
		return nil, err
	}

	for _, p := range problems {
		fullName := p.FullName
		if fullName == "" {
			fullName = "Unknown"
		}
		behavior.ProblemEmployees = append(behavior.ProblemEmployees, ProblemEmployee{
			ApplicantID:      p.ApplicantID,
			FullName:         fullName,
			Office:           p.XLCOperation,
			TotalEntries:     p.TotalEntries,
			AvgClockInTries:  round2(p.AvgInTries),
			AvgClockOutTries: round2(p.AvgOutTries),
			MultiTryCount:    p.MultiTryCount,
		})
	}

	return behavior, nil
}

func (c *Calculator) tryDistribution(column string, total int64) ([]TryBucket, error) {
	var rows []struct {
		Tries int
		Count int64
	}
	err := c.scoped().
		Select(column + " AS tries, COUNT(*) AS count").
		Group(column).
		Order(column).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	buckets := make([]TryBucket, 0, len(rows))
	for _, row := range rows {
		buckets = append(buckets, TryBucket{
			Tries:      row.Tries,
			Count:      row.Count,
			Percentage: round1(pct(row.Count, total)),
		})
	}
	return buckets, nil
}
