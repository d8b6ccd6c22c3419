package ingest

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/bomino/xlc-bstt-server/models"
	"github.com/bomino/xlc-bstt-server/timeclock"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	for _, model := range models.AllModels() {
		if err := db.AutoMigrate(model); err != nil {
			t.Fatalf("failed to migrate: %v", err)
		}
	}
	return db
}

func newTestService(db *gorm.DB) *Service {
	return NewService(db, timeclock.NewRules([]string{"Martinsburg"}))
}

const csvHeader = "ApplicantID,FullName,XLC Operation,Entry Type,dtEndCliWorkWeek,WorkDate,RegHours,OTHours,TotalHours,ClockInTries,ClockOutTries,ClockInMethod,ClockOutMethod,BuDeptName,ShiftNumber\n"

const goodRows = csvHeader +
	"E001,Alice Smith,Martinsburg,Finger,2025-11-29,2025-11-26,8,0,8,1,1,Finger,Finger,Processing,1\n" +
	"E002,Bob Jones,Hagerstown,Provisional,2025-11-30,2025-11-26,8,1.5,9.5,2,1,Manual,Manual,Processing,2\n"

func newUpload(db *gorm.DB, t *testing.T, filename string, year int, replace bool) *models.DataUpload {
	t.Helper()
	upload := &models.DataUpload{
		RunID:           "run-" + t.Name() + "-" + filename,
		Filename:        filename,
		Year:            year,
		ReplaceExisting: replace,
		Status:          models.UploadStatusPending,
	}
	if err := db.Create(upload).Error; err != nil {
		t.Fatalf("failed to create upload record: %v", err)
	}
	return upload
}

func TestProcessUploadSuccess(t *testing.T) {
	db := newTestDB(t)
	service := newTestService(db)
	upload := newUpload(db, t, "weekly.csv", 2025, false)

	if err := service.ProcessUpload(upload, strings.NewReader(goodRows)); err != nil {
		t.Fatalf("ProcessUpload failed: %v", err)
	}

	if upload.Status != models.UploadStatusSuccess {
		t.Errorf("status = %q, want success", upload.Status)
	}
	if upload.RowsProcessed != 2 || upload.RowsSucceeded != 2 || upload.RowsFailed != 0 {
		t.Errorf("counts = %d/%d/%d, want 2/2/0",
			upload.RowsProcessed, upload.RowsSucceeded, upload.RowsFailed)
	}

	var entries []models.TimeEntry
	if err := db.Order("applicant_id").Find(&entries).Error; err != nil {
		t.Fatalf("failed to load entries: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("stored %d entries, want 2", len(entries))
	}

	alice := entries[0]
	if alice.EntryType != models.EntryTypeFinger {
		t.Errorf("entry type = %q, want %q", alice.EntryType, models.EntryTypeFinger)
	}
	if alice.WeekYear != 2025 || alice.WeekNumber != 48 {
		t.Errorf("week key = (%d, %d), want (2025, 48)", alice.WeekYear, alice.WeekNumber)
	}
	if alice.Year != 2025 {
		t.Errorf("year = %d, want 2025", alice.Year)
	}

	bob := entries[1]
	if bob.EntryType != models.EntryTypeProvisional {
		t.Errorf("entry type = %q, want %q", bob.EntryType, models.EntryTypeProvisional)
	}
	if bob.TotalHours != 9.5 || bob.OtHours != 1.5 {
		t.Errorf("hours = %v total / %v ot, want 9.5 / 1.5", bob.TotalHours, bob.OtHours)
	}
	// Both offices land on the same ISO week despite different ending days
	if bob.WeekYear != alice.WeekYear || bob.WeekNumber != alice.WeekNumber {
		t.Errorf("week keys diverge: (%d, %d) vs (%d, %d)",
			alice.WeekYear, alice.WeekNumber, bob.WeekYear, bob.WeekNumber)
	}
}

// Re-uploading the same file must update in place, never duplicate
func TestProcessUploadIdempotent(t *testing.T) {
	db := newTestDB(t)
	service := newTestService(db)

	first := newUpload(db, t, "first.csv", 2025, false)
	if err := service.ProcessUpload(first, strings.NewReader(goodRows)); err != nil {
		t.Fatalf("first upload failed: %v", err)
	}

	// Second file repeats both rows with Alice's hours corrected
	corrected := csvHeader +
		"E001,Alice Smith,Martinsburg,Finger,2025-11-29,2025-11-26,7.5,0,7.5,1,1,Finger,Finger,Processing,1\n" +
		"E002,Bob Jones,Hagerstown,Provisional,2025-11-30,2025-11-26,8,1.5,9.5,2,1,Manual,Manual,Processing,2\n"
	second := newUpload(db, t, "second.csv", 2025, false)
	if err := service.ProcessUpload(second, strings.NewReader(corrected)); err != nil {
		t.Fatalf("second upload failed: %v", err)
	}

	var count int64
	db.Model(&models.TimeEntry{}).Count(&count)
	if count != 2 {
		t.Errorf("entry count after re-upload = %d, want 2", count)
	}

	var alice models.TimeEntry
	if err := db.Where("applicant_id = ?", "E001").First(&alice).Error; err != nil {
		t.Fatalf("failed to load entry: %v", err)
	}
	if alice.TotalHours != 7.5 {
		t.Errorf("total hours = %v, want 7.5 after correction", alice.TotalHours)
	}
}

func TestProcessUploadPartial(t *testing.T) {
	db := newTestDB(t)
	service := newTestService(db)
	upload := newUpload(db, t, "weekly.csv", 2025, false)

	withBadRows := goodRows +
		"E003,Carol White,Winchester,Badge,2025-11-30,2025-11-26,8,0,8,1,1,,,Shipping,1\n" +
		"E004,Dan Green,Winchester,Finger,2025-11-30,2025-11-26,-4,0,8,1,1,Finger,Finger,Shipping,1\n"

	if err := service.ProcessUpload(upload, strings.NewReader(withBadRows)); err != nil {
		t.Fatalf("ProcessUpload failed: %v", err)
	}

	if upload.Status != models.UploadStatusPartial {
		t.Errorf("status = %q, want partial", upload.Status)
	}
	if upload.RowsProcessed != 4 || upload.RowsSucceeded != 2 || upload.RowsFailed != 2 {
		t.Errorf("counts = %d/%d/%d, want 4/2/2",
			upload.RowsProcessed, upload.RowsSucceeded, upload.RowsFailed)
	}

	var count int64
	db.Model(&models.TimeEntry{}).Count(&count)
	if count != 2 {
		t.Errorf("stored %d entries, want 2 good rows only", count)
	}
}

func TestProcessUploadMissingColumn(t *testing.T) {
	db := newTestDB(t)
	service := newTestService(db)
	upload := newUpload(db, t, "weekly.csv", 2025, false)

	noEntryType := "ApplicantID,FullName,XLC Operation,dtEndCliWorkWeek\n" +
		"E001,Alice Smith,Martinsburg,2025-11-29\n"

	err := service.ProcessUpload(upload, strings.NewReader(noEntryType))
	if err == nil {
		t.Fatal("ProcessUpload = nil error, want file-level failure")
	}
	if upload.Status != models.UploadStatusFailed {
		t.Errorf("status = %q, want failed", upload.Status)
	}
	if upload.ErrorMessage == "" {
		t.Error("error message not recorded on failed upload")
	}

	// The failure must still be audited
	var history []models.ETLHistory
	db.Find(&history)
	if len(history) != 1 || history[0].Status != models.UploadStatusFailed {
		t.Errorf("ETL history = %+v, want one failed run", history)
	}
}

func TestProcessUploadRejectsYearMismatch(t *testing.T) {
	db := newTestDB(t)
	service := newTestService(db)
	upload := newUpload(db, t, "weekly.csv", 2024, false)

	// Every row is from 2025 but the upload targets 2024
	if err := service.ProcessUpload(upload, strings.NewReader(goodRows)); err == nil {
		t.Fatal("ProcessUpload = nil error, want failure when no row matches the target year")
	}
	if upload.Status != models.UploadStatusFailed {
		t.Errorf("status = %q, want failed when no row matches the target year", upload.Status)
	}
}

func TestProcessUploadReplaceExisting(t *testing.T) {
	db := newTestDB(t)
	service := newTestService(db)

	first := newUpload(db, t, "first.csv", 2025, false)
	if err := service.ProcessUpload(first, strings.NewReader(goodRows)); err != nil {
		t.Fatalf("first upload failed: %v", err)
	}

	onlyAlice := csvHeader +
		"E001,Alice Smith,Martinsburg,Finger,2025-11-29,2025-11-26,8,0,8,1,1,Finger,Finger,Processing,1\n"
	second := newUpload(db, t, "replace.csv", 2025, true)
	if err := service.ProcessUpload(second, strings.NewReader(onlyAlice)); err != nil {
		t.Fatalf("replace upload failed: %v", err)
	}

	var count int64
	db.Model(&models.TimeEntry{}).Count(&count)
	if count != 1 {
		t.Errorf("entry count after replace = %d, want 1", count)
	}
}

func TestProcessUploadSummaryDumpWithoutWorkDate(t *testing.T) {
	db := newTestDB(t)
	service := newTestService(db)
	upload := newUpload(db, t, "summary.csv", 2025, false)

	summary := "ApplicantID,FullName,XLC Operation,Entry Type,dtEndCliWorkWeek,TotalHours\n" +
		"E001,Alice Smith,Martinsburg,Finger,2025-11-29,40\n"

	if err := service.ProcessUpload(upload, strings.NewReader(summary)); err != nil {
		t.Fatalf("ProcessUpload failed: %v", err)
	}
	if upload.Status != models.UploadStatusSuccess {
		t.Fatalf("status = %q, want success", upload.Status)
	}

	var entry models.TimeEntry
	if err := db.First(&entry).Error; err != nil {
		t.Fatalf("failed to load entry: %v", err)
	}
	if !entry.WorkDate.Equal(entry.DtEndCliWorkWeek) {
		t.Errorf("work date %s should fall back to week ending %s",
			entry.WorkDate.Format("2006-01-02"), entry.DtEndCliWorkWeek.Format("2006-01-02"))
	}
}

// A week-ending cell that contradicts the office convention is recomputed
// from the work date so the week key stays consistent.
func TestProcessUploadRecomputesMisalignedWeekEnding(t *testing.T) {
	db := newTestDB(t)
	service := newTestService(db)
	upload := newUpload(db, t, "weekly.csv", 2025, false)

	// Martinsburg ends Saturday, but the row claims a Sunday ending
	misaligned := csvHeader +
		"E001,Alice Smith,Martinsburg,Finger,2025-11-30,2025-11-26,8,0,8,1,1,Finger,Finger,Processing,1\n"

	if err := service.ProcessUpload(upload, strings.NewReader(misaligned)); err != nil {
		t.Fatalf("ProcessUpload failed: %v", err)
	}

	var entry models.TimeEntry
	if err := db.First(&entry).Error; err != nil {
		t.Fatalf("failed to load entry: %v", err)
	}
	want := "2025-11-29"
	if got := entry.DtEndCliWorkWeek.Format("2006-01-02"); got != want {
		t.Errorf("week ending = %s, want recomputed %s", got, want)
	}
	if entry.WeekYear != 2025 || entry.WeekNumber != 48 {
		t.Errorf("week key = (%d, %d), want (2025, 48)", entry.WeekYear, entry.WeekNumber)
	}
}
