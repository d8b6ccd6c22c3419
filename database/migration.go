package database

import (
	"fmt"
	"log"

	"github.com/bomino/xlc-bstt-server/models"
	"gorm.io/gorm"
)

// AutoMigrate runs auto migration for all models
func AutoMigrate(db *gorm.DB) error {
	log.Println("Starting GORM AutoMigrate...")

	for _, model := range models.AllModels() {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	log.Println("Creating indexes...")
	if err := CreateIndexes(db); err != nil {
		log.Printf("Warning: Some indexes could not be created: %v", err)
	}

	log.Println("GORM AutoMigrate completed successfully")
	return nil
}

// CheckConnection verifies the database connection
func CheckConnection(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	return nil
}

// CreateIndexes creates reporting indexes beyond what the model tags declare.
// Statements stay portable across postgres and sqlite.
func CreateIndexes(db *gorm.DB) error {
	indexes := []struct {
		name  string
		query string
	}{
		// Breakdown queries group on these
		{"idx_entries_office_week", "CREATE INDEX IF NOT EXISTS idx_entries_office_week ON time_entries(xlc_operation, week_year, week_number)"},
		{"idx_entries_dept", "CREATE INDEX IF NOT EXISTS idx_entries_dept ON time_entries(bu_dept_name)"},
		{"idx_entries_shift", "CREATE INDEX IF NOT EXISTS idx_entries_shift ON time_entries(shift_number)"},
		{"idx_entries_work_date", "CREATE INDEX IF NOT EXISTS idx_entries_work_date ON time_entries(work_date)"},
	}

	successCount := 0
	for _, idx := range indexes {
		if err := db.Exec(idx.query).Error; err != nil {
			log.Printf("  Failed to create index %s: %v", idx.name, err)
		} else {
			successCount++
		}
	}

	if successCount > 0 {
		log.Printf("Successfully created %d indexes", successCount)
	}

	return nil
}
