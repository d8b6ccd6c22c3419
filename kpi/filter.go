package kpi

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bomino/xlc-bstt-server/models"
	"gorm.io/gorm"
)

// Filter narrows which time entries an aggregation runs over
type Filter struct {
	DateFrom    *time.Time
	DateTo      *time.Time
	Year        int
	Offices     []string
	Departments []string
	Shifts      []string
}

// ParseFilter builds a Filter from raw query string values, rejecting
// invalid input with descriptive errors before any query runs.
func ParseFilter(dateFrom, dateTo, year, offices, departments, shifts string) (Filter, error) {
	var f Filter

	if dateFrom != "" {
		t, err := time.Parse("2006-01-02", dateFrom)
		if err != nil {
			return f, fmt.Errorf("invalid date_from %q: expected YYYY-MM-DD", dateFrom)
		}
		f.DateFrom = &t
	}
	if dateTo != "" {
		t, err := time.Parse("2006-01-02", dateTo)
		if err != nil {
			return f, fmt.Errorf("invalid date_to %q: expected YYYY-MM-DD", dateTo)
		}
		f.DateTo = &t
	}
	if f.DateFrom != nil && f.DateTo != nil && f.DateTo.Before(*f.DateFrom) {
		return f, fmt.Errorf("date_to %s is before date_from %s", dateTo, dateFrom)
	}

	if year != "" {
		y, err := strconv.Atoi(year)
		if err != nil || y < 2000 || y > 2100 {
			return f, fmt.Errorf("invalid year %q", year)
		}
		f.Year = y
	}

	f.Offices = splitParam(offices)
	f.Departments = splitParam(departments)
	f.Shifts = splitParam(shifts)

	return f, nil
}

// Scope applies the filter as WHERE clauses on the entry table
func (f Filter) Scope(db *gorm.DB) *gorm.DB {
	q := db.Model(&models.TimeEntry{})
	if f.DateFrom != nil {
		q = q.Where("work_date >= ?", *f.DateFrom)
	}
	if f.DateTo != nil {
		q = q.Where("work_date <= ?", *f.DateTo)
	}
	if f.Year > 0 {
		q = q.Where("year = ?", f.Year)
	}
	if len(f.Offices) > 0 {
		q = q.Where("xlc_operation IN ?", f.Offices)
	}
	if len(f.Departments) > 0 {
		q = q.Where("bu_dept_name IN ?", f.Departments)
	}
	if len(f.Shifts) > 0 {
		q = q.Where("shift_number IN ?", f.Shifts)
	}
	return q
}

func splitParam(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
