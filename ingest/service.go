// Package ingest turns uploaded time-clock dumps into normalized
// time_entries rows. Malformed rows are skipped and counted; only
// file-level problems fail a run.
package ingest

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/bomino/xlc-bstt-server/models"
	"github.com/bomino/xlc-bstt-server/timeclock"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const upsertBatchSize = 500

// Columns a file must carry to be processable at all
var requiredColumns = []string{
	"applicantid",
	"fullname",
	"xlcoperation",
	"entrytype",
	"dtendcliworkweek",
}

// Service processes uploaded files into the entry store
type Service struct {
	db    *gorm.DB
	rules *timeclock.Rules
}

// NewService creates an ingestion service
func NewService(db *gorm.DB, rules *timeclock.Rules) *Service {
	return &Service{db: db, rules: rules}
}

// Result summarizes one ingestion run
type Result struct {
	Processed int
	Succeeded int
	Failed    int
	Status    string
	Message   string
}

// ProcessUpload runs the full ingestion pipeline for one upload record:
// parse, normalize, upsert, then record terminal status and ETL history.
// The returned error is non-nil only for file-level failures; row-level
// problems are reflected in the upload counts instead.
func (s *Service) ProcessUpload(upload *models.DataUpload, reader io.Reader) error {
	started := time.Now()

	upload.Status = models.UploadStatusProcessing
	if upload.FileType == "" {
		upload.FileType = detectFileType(upload.Filename)
	}
	if err := s.db.Save(upload).Error; err != nil {
		return fmt.Errorf("failed to mark upload as processing: %w", err)
	}

	result, err := s.run(upload, reader)
	if err != nil {
		result = Result{Status: models.UploadStatusFailed, Message: err.Error()}
	}

	s.finish(upload, result, time.Since(started))
	return err
}

func (s *Service) run(upload *models.DataUpload, reader io.Reader) (Result, error) {
	rows, err := readRows(reader, upload.Filename)
	if err != nil {
		return Result{}, fmt.Errorf("unreadable file: %w", err)
	}

	cols := headerIndex(rows[0])
	for _, required := range requiredColumns {
		if _, ok := cols[required]; !ok {
			return Result{}, fmt.Errorf("missing required column: %s", required)
		}
	}

	var entries []models.TimeEntry
	failed := 0
	for _, row := range rows[1:] {
		if blankRow(row) {
			continue
		}
		entry, err := s.parseRow(row, cols, upload.Year)
		if err != nil {
			failed++
			continue
		}
		entries = append(entries, entry)
	}

	processed := len(entries) + failed
	if processed == 0 {
		return Result{}, fmt.Errorf("file contains no data rows")
	}
	if len(entries) == 0 {
		return Result{}, fmt.Errorf("no valid rows: all %d data rows failed validation", failed)
	}

	if upload.ReplaceExisting && upload.Year > 0 {
		if err := s.db.Where("year = ?", upload.Year).Delete(&models.TimeEntry{}).Error; err != nil {
			return Result{}, fmt.Errorf("failed to clear year %d: %w", upload.Year, err)
		}
	}

	if err := s.upsertBatch(entries); err != nil {
		return Result{}, fmt.Errorf("failed to store entries: %w", err)
	}

	status := models.UploadStatusSuccess
	message := fmt.Sprintf("processed %d rows", processed)
	if failed > 0 {
		status = models.UploadStatusPartial
		message = fmt.Sprintf("processed %d rows, skipped %d malformed", processed, failed)
	}

	return Result{
		Processed: processed,
		Succeeded: len(entries),
		Failed:    failed,
		Status:    status,
		Message:   message,
	}, nil
}

// parseRow normalizes one source row into a TimeEntry
func (s *Service) parseRow(row []string, cols map[string]int, targetYear int) (models.TimeEntry, error) {
	var entry models.TimeEntry

	get := func(key string) string {
		idx, ok := cols[key]
		if !ok {
			return ""
		}
		return cellValue(row, idx)
	}

	entry.ApplicantID = normalizeLabel(get("applicantid"))
	entry.FullName = normalizeLabel(get("fullname"))
	entry.XLCOperation = normalizeLabel(get("xlcoperation"))
	if entry.ApplicantID == "" || entry.FullName == "" || entry.XLCOperation == "" {
		return entry, fmt.Errorf("missing identity fields")
	}

	entryType, err := normalizeEntryType(get("entrytype"))
	if err != nil {
		return entry, err
	}
	entry.EntryType = entryType

	weekEnding, err := parseDate(get("dtendcliworkweek"))
	if err != nil {
		return entry, fmt.Errorf("week ending: %w", err)
	}

	if raw := get("workdate"); raw != "" {
		workDate, err := parseDate(raw)
		if err != nil {
			return entry, fmt.Errorf("work date: %w", err)
		}
		entry.WorkDate = workDate
	} else {
		// One row per week-ending in summary dumps
		entry.WorkDate = weekEnding
	}

	// The week-ending column is authoritative for the ISO week key; when a
	// row disagrees with the office convention we recompute from the work
	// date so the invariant week_key == f(date, office) always holds.
	if weekEnding.Weekday() != s.rules.WeekEndingDay(entry.XLCOperation) {
		weekEnding = s.rules.WeekEnding(entry.XLCOperation, entry.WorkDate)
	}
	entry.DtEndCliWorkWeek = weekEnding
	entry.WeekYear, entry.WeekNumber = timeclock.WeekKey(weekEnding)

	entry.Year = entry.WorkDate.Year()
	if raw := get("year"); raw != "" {
		if year, err := strconv.Atoi(raw); err == nil {
			entry.Year = year
		}
	}
	if targetYear > 0 && entry.Year != targetYear {
		return entry, fmt.Errorf("row year %d outside target year %d", entry.Year, targetYear)
	}

	entry.FirstName = normalizeLabel(get("firstname"))
	entry.LastName = normalizeLabel(get("lastname"))
	entry.EmployeeTypeID = optional(get("employeetypeid"))
	entry.OfcName = optional(get("ofcname"))
	entry.BuDeptName = optional(get("budeptname"))
	entry.ShiftNumber = optional(get("shiftnumber"))
	entry.AllocationMethod = optional(get("allocationmethod"))
	entry.ClockInMethod = optional(get("clockinmethod"))
	entry.ClockOutMethod = optional(get("clockoutmethod"))

	if entry.ClockInTries, err = parseTries(get("clockintries")); err != nil {
		return entry, err
	}
	if entry.ClockOutTries, err = parseTries(get("clockouttries")); err != nil {
		return entry, err
	}

	hours := []struct {
		key  string
		dest *float64
	}{
		{"reghours", &entry.RegHours},
		{"othours", &entry.OtHours},
		{"dthours", &entry.DtHours},
		{"holwrkhours", &entry.HolWrkHours},
		{"totalhours", &entry.TotalHours},
	}
	for _, h := range hours {
		if *h.dest, err = parseHours(get(h.key)); err != nil {
			return entry, err
		}
	}
	if entry.TotalHours == 0 {
		entry.TotalHours = entry.RegHours + entry.OtHours + entry.DtHours + entry.HolWrkHours
	}

	return entry, nil
}

// upsertBatch writes entries keyed on (applicant, work date, office) so
// re-uploading the same file never creates duplicates.
func (s *Service) upsertBatch(entries []models.TimeEntry) error {
	for i := 0; i < len(entries); i += upsertBatchSize {
		end := i + upsertBatchSize
		if end > len(entries) {
			end = len(entries)
		}
		chunk := entries[i:end]

		res := s.db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "applicant_id"}, {Name: "work_date"}, {Name: "xlc_operation"}},
			UpdateAll: true,
		}).Create(&chunk)
		if res.Error != nil {
			return res.Error
		}
	}
	return nil
}

// finish records the terminal status and the ETL history row
func (s *Service) finish(upload *models.DataUpload, result Result, elapsed time.Duration) {
	upload.Status = result.Status
	upload.RowsProcessed = result.Processed
	upload.RowsSucceeded = result.Succeeded
	upload.RowsFailed = result.Failed
	upload.ErrorMessage = ""
	if result.Status == models.UploadStatusFailed {
		upload.ErrorMessage = result.Message
	}
	upload.ProcessingSecs = elapsed.Seconds()
	s.db.Save(upload)

	s.db.Create(&models.ETLHistory{
		UploadID:         &upload.UploadID,
		Year:             upload.Year,
		Status:           result.Status,
		RecordsProcessed: result.Processed,
		Message:          result.Message,
		DurationSeconds:  elapsed.Seconds(),
	})
}

func detectFileType(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return models.FileTypeCSV
	case ".xls":
		return models.FileTypeXLS
	default:
		return models.FileTypeXLSX
	}
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
