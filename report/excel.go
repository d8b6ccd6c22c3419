// Package report renders KPI aggregates into a multi-sheet Excel workbook.
package report

import (
	"fmt"

	"github.com/bomino/xlc-bstt-server/kpi"
	"github.com/xuri/excelize/v2"
)

// Data collects everything one workbook needs
type Data struct {
	Summary      *kpi.Summary
	Status       map[string]string
	ByOffice     []kpi.GroupKPIs
	ByWeek       []kpi.WeekKPIs
	ByDepartment []kpi.GroupKPIs
	ByEmployee   []kpi.EmployeeKPIs
}

// Build assembles the compliance workbook. The caller owns closing the file.
func Build(data Data) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := writeSummarySheet(f, data); err != nil {
		return nil, err
	}
	if err := writeOfficeSheet(f, data.ByOffice); err != nil {
		return nil, err
	}
	if err := writeWeekSheet(f, data.ByWeek); err != nil {
		return nil, err
	}
	if err := writeGroupSheet(f, "By Department", data.ByDepartment); err != nil {
		return nil, err
	}
	if err := writeEmployeeSheet(f, data.ByEmployee); err != nil {
		return nil, err
	}

	// Drop the default sheet, leave Summary active
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}
	index, err := f.GetSheetIndex("Summary")
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)

	return f, nil
}

func writeSummarySheet(f *excelize.File, data Data) error {
	const sheet = "Summary"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	rows := []struct {
		label  string
		value  interface{}
		status string
	}{
		{"Finger Rate (%)", data.Summary.FingerRate, data.Status["finger_rate"]},
		{"Provisional Rate (%)", data.Summary.ProvisionalRate, data.Status["provisional_rate"]},
		{"Write-In Rate (%)", data.Summary.WriteInRate, data.Status["write_in_rate"]},
		{"Missing c/o Rate (%)", data.Summary.MissingCoRate, data.Status["missing_co_rate"]},
		{"Manual Rate (%)", data.Summary.ManualRate, data.Status["manual_rate"]},
		{"Auto Clock Rate (%)", data.Summary.AutoClockRate, ""},
		{"Total Entries", data.Summary.TotalEntries, ""},
		{"Total Hours", data.Summary.TotalHours, ""},
		{"OT Hours", data.Summary.TotalOtHours, ""},
		{"OT Percentage (%)", data.Summary.OtPercentage, ""},
		{"Unique Employees", data.Summary.UniqueEmployees, ""},
		{"Unique Offices", data.Summary.UniqueOffices, ""},
		{"Unique Weeks", data.Summary.UniqueWeeks, ""},
		{"Avg Hours / Entry", data.Summary.AvgHoursPerEntry, ""},
		{"Avg Hours / Employee-Week", data.Summary.AvgHoursPerEmpWeek, ""},
		{"First-Try Clock-In Rate (%)", data.Summary.FirstTryClockInRate, ""},
		{"First-Try Clock-Out Rate (%)", data.Summary.FirstTryClockOutRate, ""},
		{"Multi-Try Rate (%)", data.Summary.MultiTryRate, ""},
	}

	if err := setRow(f, sheet, 1, []interface{}{"Metric", "Value", "Status"}); err != nil {
		return err
	}
	for i, row := range rows {
		if err := setRow(f, sheet, i+2, []interface{}{row.label, row.value, row.status}); err != nil {
			return err
		}
	}
	return f.SetColWidth(sheet, "A", "A", 30)
}

func writeOfficeSheet(f *excelize.File, groups []kpi.GroupKPIs) error {
	const sheet = "By Office"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	header := []interface{}{"Office", "Finger Rate (%)", "Provisional (%)", "Write-In (%)",
		"Missing c/o (%)", "Entries", "Hours", "Employees", "Weeks", "OT (%)", "Avg Hrs/Emp-Week"}
	if err := setRow(f, sheet, 1, header); err != nil {
		return err
	}
	for i, g := range groups {
		row := []interface{}{g.Name, g.FingerRate, g.ProvisionalRate, g.WriteInRate,
			g.MissingCoRate, g.TotalEntries, g.TotalHours, g.UniqueEmployees,
			g.UniqueWeeks, g.OtPercentage, g.AvgHoursPerEmpWeek}
		if err := setRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}
	return f.SetColWidth(sheet, "A", "A", 20)
}

func writeWeekSheet(f *excelize.File, weeks []kpi.WeekKPIs) error {
	const sheet = "By Week"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	header := []interface{}{"Week", "ISO Year", "ISO Week", "Finger Rate (%)", "Provisional (%)",
		"Write-In (%)", "Missing c/o (%)", "Entries", "Hours", "Employees", "Offices", "OT (%)"}
	if err := setRow(f, sheet, 1, header); err != nil {
		return err
	}
	for i, w := range weeks {
		row := []interface{}{w.WeekDisplay, w.WeekYear, w.WeekNumber, w.FingerRate,
			w.ProvisionalRate, w.WriteInRate, w.MissingCoRate, w.TotalEntries,
			w.TotalHours, w.UniqueEmployees, w.UniqueOffices, w.OtPercentage}
		if err := setRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeGroupSheet(f *excelize.File, sheet string, groups []kpi.GroupKPIs) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	header := []interface{}{"Name", "Finger Rate (%)", "Provisional (%)", "Write-In (%)",
		"Missing c/o (%)", "Entries", "Hours", "Employees", "Offices", "Weeks", "OT (%)"}
	if err := setRow(f, sheet, 1, header); err != nil {
		return err
	}
	for i, g := range groups {
		row := []interface{}{g.Name, g.FingerRate, g.ProvisionalRate, g.WriteInRate,
			g.MissingCoRate, g.TotalEntries, g.TotalHours, g.UniqueEmployees,
			g.UniqueOffices, g.UniqueWeeks, g.OtPercentage}
		if err := setRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}
	return f.SetColWidth(sheet, "A", "A", 24)
}

func writeEmployeeSheet(f *excelize.File, employees []kpi.EmployeeKPIs) error {
	const sheet = "By Employee"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	header := []interface{}{"Applicant ID", "Name", "Office", "Finger Rate (%)", "Finger",
		"Provisional", "Write-In", "Missing c/o", "Non-Finger", "Entries", "Hours", "Needs Enrollment"}
	if err := setRow(f, sheet, 1, header); err != nil {
		return err
	}
	for i, e := range employees {
		needs := ""
		if e.NeedsEnrollment {
			needs = "YES"
		}
		row := []interface{}{e.ApplicantID, e.FullName, e.Office, e.FingerRate, e.FingerCount,
			e.ProvisionalCount, e.WriteInCount, e.MissingCoCount, e.NonFingerCount,
			e.TotalEntries, e.TotalHours, needs}
		if err := setRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}
	return f.SetColWidth(sheet, "B", "B", 24)
}

func setRow(f *excelize.File, sheet string, rowNum int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write %s row %d: %w", sheet, rowNum, err)
	}
	return nil
}
