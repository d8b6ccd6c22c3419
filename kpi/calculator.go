// Package kpi computes compliance, volume and efficiency aggregates over
// the time entry store. All computations are read-side projections; no
// state is persisted.
package kpi

import (
	"math"

	"gorm.io/gorm"
)

// entryTypeCounts is the shared conditional-aggregation fragment. Unique
// weeks count DISTINCT (week_year, week_number) pairs rather than dates so
// a Saturday-ending office and a Sunday-ending office never double-count a
// shared calendar week.
const (
	selectTypeCounts = `
		SUM(CASE WHEN entry_type = 'Finger' THEN 1 ELSE 0 END) AS finger_count,
		SUM(CASE WHEN entry_type = 'Provisional Entry' THEN 1 ELSE 0 END) AS provisional_count,
		SUM(CASE WHEN entry_type = 'Write-In' THEN 1 ELSE 0 END) AS write_in_count,
		SUM(CASE WHEN entry_type = 'Missing c/o' THEN 1 ELSE 0 END) AS missing_co_count`

	selectUniqueWeeks = `COUNT(DISTINCT week_year || '-' || week_number) AS unique_weeks`
)

// Calculator runs aggregate queries over a filtered entry set
type Calculator struct {
	db     *gorm.DB
	filter Filter
}

// NewCalculator creates a calculator for the given filter
func NewCalculator(db *gorm.DB, filter Filter) *Calculator {
	return &Calculator{db: db, filter: filter}
}

func (c *Calculator) scoped() *gorm.DB {
	return c.filter.Scope(c.db)
}

// ComplianceKPIs are the entry-type rate metrics
type ComplianceKPIs struct {
	FingerRate          float64 `json:"finger_rate"`
	ProvisionalRate     float64 `json:"provisional_rate"`
	WriteInRate         float64 `json:"write_in_rate"`
	MissingCoRate       float64 `json:"missing_co_rate"`
	ManualRate          float64 `json:"manual_rate"`
	BiometricCompliance float64 `json:"biometric_compliance"`
	AutoClockRate       float64 `json:"auto_clock_rate"`
	ExceptionRate       float64 `json:"exception_rate"`
}

// VolumeKPIs are the entry and hour totals
type VolumeKPIs struct {
	TotalEntries       int64   `json:"total_entries"`
	TotalHours         float64 `json:"total_hours"`
	TotalRegHours      float64 `json:"total_reg_hours"`
	TotalOtHours       float64 `json:"total_ot_hours"`
	TotalDtHours       float64 `json:"total_dt_hours"`
	TotalHolHours      float64 `json:"total_hol_hours"`
	UniqueEmployees    int64   `json:"unique_employees"`
	UniqueOffices      int64   `json:"unique_offices"`
	UniqueWeeks        int64   `json:"unique_weeks"`
	AvgHoursPerEntry   float64 `json:"avg_hours_per_entry"`
	AvgHoursPerEmpWeek float64 `json:"avg_hours_per_emp_week"`
	EntriesPerEmployee float64 `json:"entries_per_employee"`
	OtPercentage       float64 `json:"ot_percentage"`
}

// EfficiencyKPIs are the clock attempt metrics
type EfficiencyKPIs struct {
	FirstTryClockInRate  float64 `json:"first_try_clock_in_rate"`
	FirstTryClockOutRate float64 `json:"first_try_clock_out_rate"`
	AvgClockInTries      float64 `json:"avg_clock_in_tries"`
	AvgClockOutTries     float64 `json:"avg_clock_out_tries"`
	MultiTryRate         float64 `json:"multi_try_rate"`
}

// Summary combines all KPI groups
type Summary struct {
	ComplianceKPIs
	VolumeKPIs
	EfficiencyKPIs
}

type summaryRow struct {
	TotalEntries     int64
	TotalHours       float64
	TotalRegHours    float64
	TotalOtHours     float64
	TotalDtHours     float64
	TotalHolHours    float64
	UniqueEmployees  int64
	UniqueOffices    int64
	UniqueWeeks      int64
	FingerCount      int64
	ProvisionalCount int64
	WriteInCount     int64
	MissingCoCount   int64
	AutoClocks       int64
	FirstTryIn       int64
	FirstTryOut      int64
	AvgInTries       float64
	AvgOutTries      float64
	MultiTry         int64
}

// CalculateAll computes the full summary in one aggregate query
func (c *Calculator) CalculateAll() (*Summary, error) {
	var row summaryRow
	err := c.scoped().Select(`
		COUNT(*) AS total_entries,
		COALESCE(SUM(total_hours), 0) AS total_hours,
		COALESCE(SUM(reg_hours), 0) AS total_reg_hours,
		COALESCE(SUM(ot_hours), 0) AS total_ot_hours,
		COALESCE(SUM(dt_hours), 0) AS total_dt_hours,
		COALESCE(SUM(hol_wrk_hours), 0) AS total_hol_hours,
		COUNT(DISTINCT applicant_id) AS unique_employees,
		COUNT(DISTINCT xlc_operation) AS unique_offices,
		` + selectUniqueWeeks + `,
		` + selectTypeCounts + `,
		SUM(CASE WHEN clock_in_method = 'Finger' AND clock_out_method = 'Finger' THEN 1 ELSE 0 END) AS auto_clocks,
		SUM(CASE WHEN clock_in_tries = 1 THEN 1 ELSE 0 END) AS first_try_in,
		SUM(CASE WHEN clock_out_tries = 1 THEN 1 ELSE 0 END) AS first_try_out,
		COALESCE(AVG(clock_in_tries), 0) AS avg_in_tries,
		COALESCE(AVG(clock_out_tries), 0) AS avg_out_tries,
		SUM(CASE WHEN clock_in_tries > 1 OR clock_out_tries > 1 THEN 1 ELSE 0 END) AS multi_try
	`).Scan(&row).Error
	if err != nil {
		return nil, err
	}

	summary := &Summary{}
	total := row.TotalEntries
	if total == 0 {
		return summary, nil
	}

	manual := row.ProvisionalCount + row.WriteInCount + row.MissingCoCount
	summary.FingerRate = round1(pct(row.FingerCount, total))
	summary.ProvisionalRate = round2(pct(row.ProvisionalCount, total))
	summary.WriteInRate = round2(pct(row.WriteInCount, total))
	summary.MissingCoRate = round2(pct(row.MissingCoCount, total))
	summary.ManualRate = round1(pct(manual, total))
	summary.BiometricCompliance = summary.FingerRate
	summary.AutoClockRate = round1(pct(row.AutoClocks, total))
	summary.ExceptionRate = round1(pct(total-row.FingerCount, total))

	summary.TotalEntries = total
	summary.TotalHours = round1(row.TotalHours)
	summary.TotalRegHours = round1(row.TotalRegHours)
	summary.TotalOtHours = round1(row.TotalOtHours)
	summary.TotalDtHours = round1(row.TotalDtHours)
	summary.TotalHolHours = round1(row.TotalHolHours)
	summary.UniqueEmployees = row.UniqueEmployees
	summary.UniqueOffices = row.UniqueOffices
	summary.UniqueWeeks = row.UniqueWeeks
	if summary.UniqueWeeks == 0 {
		summary.UniqueWeeks = 1
	}
	summary.AvgHoursPerEntry = round2(row.TotalHours / float64(total))
	if row.UniqueEmployees > 0 {
		summary.AvgHoursPerEmpWeek = round1(row.TotalHours / float64(row.UniqueEmployees) / float64(summary.UniqueWeeks))
		summary.EntriesPerEmployee = round1(float64(total) / float64(row.UniqueEmployees))
	}
	if row.TotalHours > 0 {
		summary.OtPercentage = round1(row.TotalOtHours / row.TotalHours * 100)
	}

	summary.FirstTryClockInRate = round1(pct(row.FirstTryIn, total))
	summary.FirstTryClockOutRate = round1(pct(row.FirstTryOut, total))
	summary.AvgClockInTries = round2(row.AvgInTries)
	summary.AvgClockOutTries = round2(row.AvgOutTries)
	summary.MultiTryRate = round1(pct(row.MultiTry, total))

	return summary, nil
}

func pct(count, total int64) float64 {
	if total == 0 {
		return 0
	}
	return float64(count) / float64(total) * 100
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
