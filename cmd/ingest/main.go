package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/bomino/xlc-bstt-server/config"
	"github.com/bomino/xlc-bstt-server/database"
	"github.com/bomino/xlc-bstt-server/ingest"
	"github.com/bomino/xlc-bstt-server/models"
	"github.com/bomino/xlc-bstt-server/timeclock"
	"github.com/google/uuid"
)

func main() {
	// Define flags
	file := flag.String("file", "", "Path to the time-clock dump (.csv, .xls or .xlsx)")
	year := flag.Int("year", time.Now().Year(), "Target year for the upload")
	replace := flag.Bool("replace", false, "Delete existing entries for the year before loading")
	help := flag.Bool("help", false, "Show help message")
	flag.Parse()

	if *help || *file == "" {
		showHelp()
		if *file == "" && !*help {
			os.Exit(1)
		}
		return
	}

	fmt.Println("📥 Starting Time-Clock Ingestion Tool")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Initialize database connection; no need for the SQL debug ring here
	if err := database.InitializeWithOptions(&cfg.Database, true); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer database.Close()

	// Check connection
	if err := database.CheckConnection(database.DB); err != nil {
		log.Fatal("Database connection check failed:", err)
	}

	src, err := os.Open(*file)
	if err != nil {
		log.Fatal("Failed to open file:", err)
	}
	defer src.Close()

	upload := models.DataUpload{
		RunID:           uuid.NewString(),
		Filename:        filepath.Base(*file),
		Year:            *year,
		ReplaceExisting: *replace,
		Status:          models.UploadStatusPending,
	}
	if err := database.DB.Create(&upload).Error; err != nil {
		log.Fatal("Failed to record upload:", err)
	}

	fmt.Printf("📄 File: %s (year %d, run %s)\n", upload.Filename, upload.Year, upload.RunID)

	service := ingest.NewService(database.DB, timeclock.NewRules(cfg.KPI.SaturdayOffices))
	if err := service.ProcessUpload(&upload, src); err != nil {
		log.Fatalf("Ingestion failed: %v", err)
	}

	fmt.Printf("✅ Status: %s\n", upload.Status)
	fmt.Printf("   Processed: %d  Succeeded: %d  Failed: %d  (%.2fs)\n",
		upload.RowsProcessed, upload.RowsSucceeded, upload.RowsFailed, upload.ProcessingSecs)
	if upload.Status == models.UploadStatusPartial {
		fmt.Println("⚠️  Some rows were skipped; see etl_history for details")
	}
}

func showHelp() {
	fmt.Println(`
Time-Clock Ingestion Tool

Usage:
  go run cmd/ingest/main.go -file <path> [options]

Options:
  -file     Path to the time-clock dump (.csv, .xls or .xlsx)
  -year     Target year for the upload (default: current year)
  -replace  Delete existing entries for the year before loading
  -help     Show this help message

Examples:
  # Load a weekly dump for the current year
  go run cmd/ingest/main.go -file weekly.xlsx

  # Replace all 2025 data with a full-year export
  go run cmd/ingest/main.go -file full-2025.csv -year 2025 -replace`)
}
