package handlers

import (
	"strconv"
	"time"

	"github.com/bomino/xlc-bstt-server/database"
	"github.com/bomino/xlc-bstt-server/ingest"
	"github.com/bomino/xlc-bstt-server/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// ListUploads returns recent ingestion runs, newest first
func ListUploads(c *fiber.Ctx) error {
	var uploads []models.DataUpload
	err := database.GetDB().Order("uploaded_at DESC").Limit(100).Find(&uploads).Error
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to load uploads: "+err.Error())
	}
	return c.JSON(uploads)
}

// ListETLHistory returns the ingestion audit log, newest first
func ListETLHistory(c *fiber.Ctx) error {
	var history []models.ETLHistory
	err := database.GetDB().Order("run_date DESC").Limit(100).Find(&history).Error
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to load ETL history: "+err.Error())
	}
	return c.JSON(history)
}

// UploadFile receives a time-clock dump from the admin form and runs the
// ingestion pipeline synchronously.
func UploadFile(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "no file provided")
	}

	year := time.Now().Year()
	if raw := c.FormValue("year"); raw != "" {
		year, err = strconv.Atoi(raw)
		if err != nil || year < 2000 || year > 2100 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid year")
		}
	}

	upload := models.DataUpload{
		RunID:           uuid.NewString(),
		Filename:        fileHeader.Filename,
		Year:            year,
		ReplaceExisting: c.FormValue("replace_existing") == "on",
		Status:          models.UploadStatusPending,
	}
	if err := database.GetDB().Create(&upload).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to record upload: "+err.Error())
	}

	src, err := fileHeader.Open()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "failed to open uploaded file: "+err.Error())
	}
	defer src.Close()

	service := ingest.NewService(database.GetDB(), weekRules)
	if err := service.ProcessUpload(&upload, src); err != nil {
		// The run is marked failed and audited; surface the reason
		return c.Redirect("/admin?error=" + upload.Status)
	}

	return c.Redirect("/admin?uploaded=" + upload.RunID)
}
