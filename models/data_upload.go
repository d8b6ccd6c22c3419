package models

import "time"

// Upload status lifecycle: pending -> processing -> success | partial | failed.
// A record is immutable once it reaches a terminal status.
const (
	UploadStatusPending    = "pending"
	UploadStatusProcessing = "processing"
	UploadStatusSuccess    = "success"
	UploadStatusPartial    = "partial"
	UploadStatusFailed     = "failed"
)

// Supported upload file types
const (
	FileTypeCSV  = "csv"
	FileTypeXLSX = "xlsx"
	FileTypeXLS  = "xls"
)

// DataUpload represents one ingestion run
type DataUpload struct {
	UploadID        uint      `gorm:"primaryKey;column:upload_id" json:"upload_id"`
	RunID           string    `gorm:"type:varchar(36);not null;unique" json:"run_id"`
	Filename        string    `gorm:"type:varchar(255);not null" json:"filename"`
	FileType        string    `gorm:"type:varchar(10);not null" json:"file_type"`
	Year            int       `gorm:"not null;index:idx_uploads_year" json:"year"`
	ReplaceExisting bool      `gorm:"not null;default:false" json:"replace_existing"`
	Status          string    `gorm:"type:varchar(20);not null;default:'pending';index:idx_uploads_status" json:"status"`
	RowsProcessed   int       `gorm:"not null;default:0" json:"rows_processed"`
	RowsSucceeded   int       `gorm:"not null;default:0" json:"rows_succeeded"`
	RowsFailed      int       `gorm:"not null;default:0" json:"rows_failed"`
	ErrorMessage    string    `gorm:"type:text" json:"error_message"`
	ProcessingSecs  float64   `gorm:"type:decimal(8,2);not null;default:0" json:"processing_secs"`
	UploadedBy      *string   `gorm:"type:varchar(100)" json:"uploaded_by,omitempty"`
	UploadedAt      time.Time `gorm:"autoCreateTime" json:"uploaded_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TableName specifies the table name for DataUpload
func (DataUpload) TableName() string {
	return "data_uploads"
}

// Terminal reports whether the upload has reached a final status
func (u *DataUpload) Terminal() bool {
	switch u.Status {
	case UploadStatusSuccess, UploadStatusPartial, UploadStatusFailed:
		return true
	}
	return false
}

// ETLHistory is an append-only audit log of ingestion outcomes
type ETLHistory struct {
	HistoryID        uint      `gorm:"primaryKey;column:history_id" json:"history_id"`
	UploadID         *uint     `gorm:"index:idx_etl_upload" json:"upload_id,omitempty"`
	Year             int       `gorm:"not null;index:idx_etl_year" json:"year"`
	RunDate          time.Time `gorm:"autoCreateTime" json:"run_date"`
	Status           string    `gorm:"type:varchar(20);not null" json:"status"`
	RecordsProcessed int       `gorm:"not null;default:0" json:"records_processed"`
	Message          string    `gorm:"type:text" json:"message"`
	DurationSeconds  float64   `gorm:"type:decimal(8,2);not null;default:0" json:"duration_seconds"`
}

// TableName specifies the table name for ETLHistory
func (ETLHistory) TableName() string {
	return "etl_history"
}
