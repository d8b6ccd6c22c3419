package kpi

import (
	"sort"

	"github.com/bomino/xlc-bstt-server/timeclock"
)

type groupRow struct {
	GroupKey         string
	WeekYear         int
	WeekNumber       int
	TotalEntries     int64
	TotalHours       float64
	TotalOtHours     float64
	UniqueEmployees  int64
	UniqueOffices    int64
	UniqueWeeks      int64
	FingerCount      int64
	ProvisionalCount int64
	WriteInCount     int64
	MissingCoCount   int64
}

// GroupKPIs is one breakdown bucket (office, department or shift)
type GroupKPIs struct {
	Name               string  `json:"name"`
	FingerRate         float64 `json:"finger_rate"`
	ProvisionalRate    float64 `json:"provisional_rate"`
	WriteInRate        float64 `json:"write_in_rate"`
	MissingCoRate      float64 `json:"missing_co_rate"`
	TotalEntries       int64   `json:"total_entries"`
	TotalHours         float64 `json:"total_hours"`
	UniqueEmployees    int64   `json:"unique_employees"`
	UniqueOffices      int64   `json:"unique_offices,omitempty"`
	UniqueWeeks        int64   `json:"unique_weeks"`
	OtPercentage       float64 `json:"ot_percentage"`
	AvgHoursPerEmpWeek float64 `json:"avg_hours_per_emp_week"`
}

const selectGroupAggregates = `
		COUNT(*) AS total_entries,
		COALESCE(SUM(total_hours), 0) AS total_hours,
		COALESCE(SUM(ot_hours), 0) AS total_ot_hours,
		COUNT(DISTINCT applicant_id) AS unique_employees,
		COUNT(DISTINCT xlc_operation) AS unique_offices,
		` + selectUniqueWeeks + `,
		` + selectTypeCounts

// ByOffice computes KPIs grouped by office, best finger rate first
func (c *Calculator) ByOffice() ([]GroupKPIs, error) {
	return c.grouped("xlc_operation")
}

// ByDepartment computes KPIs grouped by department, best finger rate first
func (c *Calculator) ByDepartment() ([]GroupKPIs, error) {
	return c.grouped("COALESCE(bu_dept_name, 'Unknown')")
}

// ByShift computes KPIs grouped by shift, best finger rate first
func (c *Calculator) ByShift() ([]GroupKPIs, error) {
	return c.grouped("COALESCE(shift_number, 'Unknown')")
}

func (c *Calculator) grouped(keyExpr string) ([]GroupKPIs, error) {
	var rows []groupRow
	err := c.scoped().
		Select(keyExpr+" AS group_key, "+selectGroupAggregates).
		Group(keyExpr).
		Order("group_key").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	results := make([]GroupKPIs, 0, len(rows))
	for _, row := range rows {
		if row.TotalEntries == 0 {
			continue
		}
		results = append(results, c.groupKPIs(row))
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].FingerRate > results[j].FingerRate
	})
	return results, nil
}

func (c *Calculator) groupKPIs(row groupRow) GroupKPIs {
	total := row.TotalEntries
	uniqueWeeks := row.UniqueWeeks
	if uniqueWeeks == 0 {
		uniqueWeeks = 1
	}

	g := GroupKPIs{
		Name:            row.GroupKey,
		FingerRate:      round1(pct(row.FingerCount, total)),
		ProvisionalRate: round2(pct(row.ProvisionalCount, total)),
		WriteInRate:     round2(pct(row.WriteInCount, total)),
		MissingCoRate:   round2(pct(row.MissingCoCount, total)),
		TotalEntries:    total,
		TotalHours:      round1(row.TotalHours),
		UniqueEmployees: row.UniqueEmployees,
		UniqueOffices:   row.UniqueOffices,
		UniqueWeeks:     uniqueWeeks,
	}
	if row.TotalHours > 0 {
		g.OtPercentage = round1(row.TotalOtHours / row.TotalHours * 100)
	}
	if row.UniqueEmployees > 0 {
		g.AvgHoursPerEmpWeek = round1(row.TotalHours / float64(row.UniqueEmployees) / float64(uniqueWeeks))
	}
	return g
}

// WeekKPIs is one ISO week bucket. All offices land in the same bucket
// regardless of their week-ending weekday.
type WeekKPIs struct {
	WeekDisplay     string  `json:"week_display"`
	WeekYear        int     `json:"week_year"`
	WeekNumber      int     `json:"week_number"`
	FingerRate      float64 `json:"finger_rate"`
	ProvisionalRate float64 `json:"provisional_rate"`
	WriteInRate     float64 `json:"write_in_rate"`
	MissingCoRate   float64 `json:"missing_co_rate"`
	TotalEntries    int64   `json:"total_entries"`
	TotalHours      float64 `json:"total_hours"`
	UniqueEmployees int64   `json:"unique_employees"`
	UniqueOffices   int64   `json:"unique_offices"`
	OtPercentage    float64 `json:"ot_percentage"`
}

// ByWeek computes KPIs grouped by ISO week in chronological order
func (c *Calculator) ByWeek() ([]WeekKPIs, error) {
	var rows []groupRow
	err := c.scoped().
		Select(`week_year, week_number,
		COUNT(*) AS total_entries,
		COALESCE(SUM(total_hours), 0) AS total_hours,
		COALESCE(SUM(ot_hours), 0) AS total_ot_hours,
		COUNT(DISTINCT applicant_id) AS unique_employees,
		COUNT(DISTINCT xlc_operation) AS unique_offices,
		` + selectTypeCounts).
		Group("week_year, week_number").
		Order("week_year, week_number").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	results := make([]WeekKPIs, 0, len(rows))
	for _, row := range rows {
		total := row.TotalEntries
		if total == 0 || row.WeekYear == 0 {
			continue
		}

		w := WeekKPIs{
			WeekDisplay:     timeclock.WeekDisplayDate(row.WeekYear, row.WeekNumber).Format("2006-01-02"),
			WeekYear:        row.WeekYear,
			WeekNumber:      row.WeekNumber,
			FingerRate:      round1(pct(row.FingerCount, total)),
			ProvisionalRate: round2(pct(row.ProvisionalCount, total)),
			WriteInRate:     round2(pct(row.WriteInCount, total)),
			MissingCoRate:   round2(pct(row.MissingCoCount, total)),
			TotalEntries:    total,
			TotalHours:      round1(row.TotalHours),
			UniqueEmployees: row.UniqueEmployees,
			UniqueOffices:   row.UniqueOffices,
		}
		if row.TotalHours > 0 {
			w.OtPercentage = round1(row.TotalOtHours / row.TotalHours * 100)
		}
		results = append(results, w)
	}

	return results, nil
}

// EmployeeKPIs is one employee's compliance record, worst performers first
type EmployeeKPIs struct {
	ApplicantID      string  `json:"applicant_id"`
	FullName         string  `json:"full_name"`
	Office           string  `json:"office"`
	FingerRate       float64 `json:"finger_rate"`
	FingerCount      int64   `json:"finger_count"`
	ProvisionalCount int64   `json:"provisional_count"`
	WriteInCount     int64   `json:"write_in_count"`
	MissingCoCount   int64   `json:"missing_co_count"`
	NonFingerCount   int64   `json:"non_finger_count"`
	TotalEntries     int64   `json:"total_entries"`
	TotalHours       float64 `json:"total_hours"`
	NeedsEnrollment  bool    `json:"needs_enrollment"`
}

// Employees with this many provisional entries likely need biometric re-enrollment
const enrollmentThreshold = 3

// ByEmployee computes per-employee compliance, sorted worst first
func (c *Calculator) ByEmployee() ([]EmployeeKPIs, error) {
	var rows []struct {
		ApplicantID      string
		FullName         string
		XLCOperation     string `gorm:"column:xlc_operation"`
		TotalEntries     int64
		TotalHours       float64
		FingerCount      int64
		ProvisionalCount int64
		WriteInCount     int64
		MissingCoCount   int64
	}
	err := c.scoped().
		Select(`applicant_id, full_name, xlc_operation,
		COUNT(*) AS total_entries,
		COALESCE(SUM(total_hours), 0) AS total_hours,
		` + selectTypeCounts).
		Group("applicant_id, full_name, xlc_operation").
		Order("full_name").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	results := make([]EmployeeKPIs, 0, len(rows))
	for _, row := range rows {
		if row.TotalEntries == 0 {
			continue
		}
		nonFinger := row.ProvisionalCount + row.WriteInCount + row.MissingCoCount
		fullName := row.FullName
		if fullName == "" {
			fullName = "Unknown"
		}
		results = append(results, EmployeeKPIs{
			ApplicantID:      row.ApplicantID,
			FullName:         fullName,
			Office:           row.XLCOperation,
			FingerRate:       round1(pct(row.FingerCount, row.TotalEntries)),
			FingerCount:      row.FingerCount,
			ProvisionalCount: row.ProvisionalCount,
			WriteInCount:     row.WriteInCount,
			MissingCoCount:   row.MissingCoCount,
			NonFingerCount:   nonFinger,
			TotalEntries:     row.TotalEntries,
			TotalHours:       round1(row.TotalHours),
			NeedsEnrollment:  row.ProvisionalCount >= enrollmentThreshold,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].NonFingerCount > results[j].NonFingerCount
	})
	return results, nil
}
