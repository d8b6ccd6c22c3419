package models

import "time"

// Entry type values as they appear in the BSTT weekly dump
const (
	EntryTypeFinger      = "Finger"
	EntryTypeProvisional = "Provisional Entry"
	EntryTypeWriteIn     = "Write-In"
	EntryTypeMissingCO   = "Missing c/o"
)

// TimeEntry represents one clock event per employee per day.
// Rows are created by ingestion and never mutated afterward except by
// bulk delete-by-year or a full reset.
type TimeEntry struct {
	EntryID     uint   `gorm:"primaryKey;column:entry_id" json:"entry_id"`
	ApplicantID string `gorm:"type:varchar(20);not null;index:idx_entries_applicant;uniqueIndex:uq_entry_applicant_date_office,priority:1" json:"applicant_id"`
	FullName    string `gorm:"type:varchar(100);not null" json:"full_name"`
	FirstName   string `gorm:"type:varchar(50)" json:"first_name"`
	LastName    string `gorm:"type:varchar(50)" json:"last_name"`

	EmployeeTypeID *string `gorm:"type:varchar(20)" json:"employee_type_id,omitempty"`

	XLCOperation string  `gorm:"type:varchar(50);not null;column:xlc_operation;index:idx_entries_office;uniqueIndex:uq_entry_applicant_date_office,priority:3" json:"xlc_operation"`
	OfcName      *string `gorm:"type:varchar(100);column:ofc_name" json:"ofc_name,omitempty"`
	BuDeptName   *string `gorm:"type:varchar(100);column:bu_dept_name" json:"bu_dept_name,omitempty"`
	ShiftNumber  *string `gorm:"type:varchar(20)" json:"shift_number,omitempty"`

	Year             int       `gorm:"not null;index:idx_entries_year" json:"year"`
	WorkDate         time.Time `gorm:"type:date;not null;uniqueIndex:uq_entry_applicant_date_office,priority:2" json:"work_date"`
	DtEndCliWorkWeek time.Time `gorm:"type:date;not null;column:dt_end_cli_work_week" json:"dt_end_cli_work_week"`

	// ISO week key derived from the office's week-ending convention.
	// Never stored inconsistently with the dates above.
	WeekYear   int `gorm:"not null;index:idx_entries_week,priority:1" json:"week_year"`
	WeekNumber int `gorm:"not null;index:idx_entries_week,priority:2" json:"week_number"`

	EntryType        string  `gorm:"type:varchar(30);not null;index:idx_entries_type" json:"entry_type"`
	AllocationMethod *string `gorm:"type:varchar(50)" json:"allocation_method,omitempty"`

	ClockInMethod  *string `gorm:"type:varchar(30)" json:"clock_in_method,omitempty"`
	ClockOutMethod *string `gorm:"type:varchar(30)" json:"clock_out_method,omitempty"`
	ClockInTries   int     `gorm:"not null;default:1" json:"clock_in_tries"`
	ClockOutTries  int     `gorm:"not null;default:1" json:"clock_out_tries"`

	RegHours    float64 `gorm:"type:decimal(6,2);not null;default:0" json:"reg_hours"`
	OtHours     float64 `gorm:"type:decimal(6,2);not null;default:0" json:"ot_hours"`
	DtHours     float64 `gorm:"type:decimal(6,2);not null;default:0" json:"dt_hours"`
	HolWrkHours float64 `gorm:"type:decimal(6,2);not null;default:0;column:hol_wrk_hours" json:"hol_wrk_hours"`
	TotalHours  float64 `gorm:"type:decimal(6,2);not null;default:0" json:"total_hours"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for TimeEntry
func (TimeEntry) TableName() string {
	return "time_entries"
}
