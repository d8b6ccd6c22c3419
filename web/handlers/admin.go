package handlers

import (
	"fmt"
	"strconv"

	"github.com/bomino/xlc-bstt-server/database"
	"github.com/bomino/xlc-bstt-server/models"
	"github.com/gofiber/fiber/v2"
)

// AdminPage renders the upload form and database management dashboard
func AdminPage(c *fiber.Ctx) error {
	db := database.GetDB()

	var stats struct {
		TimeEntries int64
		ETLHistory  int64
		DataUploads int64
	}
	db.Model(&models.TimeEntry{}).Count(&stats.TimeEntries)
	db.Model(&models.ETLHistory{}).Count(&stats.ETLHistory)
	db.Model(&models.DataUpload{}).Count(&stats.DataUploads)

	var yearStats []struct {
		Year  int
		Count int64
	}
	db.Model(&models.TimeEntry{}).
		Select("year, COUNT(*) AS count").
		Group("year").
		Order("year DESC").
		Scan(&yearStats)

	var recentUploads []models.DataUpload
	db.Order("uploaded_at DESC").Limit(10).Find(&recentUploads)

	return c.Render("pages/admin", fiber.Map{
		"Title":           "Database Management",
		"Stats":           stats,
		"YearStats":       yearStats,
		"RecentUploads":   recentUploads,
		"Uploaded":        c.Query("uploaded"),
		"UploadError":     c.Query("error"),
		"SQLQueries":      c.Locals("SQLQueries"),
		"TotalSQLQueries": c.Locals("TotalSQLQueries"),
	}, "layouts/base")
}

// ClearYearData deletes all time entries for one year. The form must echo
// the confirmation phrase "DELETE <year>" exactly.
func ClearYearData(c *fiber.Ctx) error {
	year, err := strconv.Atoi(c.Params("year"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid year")
	}

	expected := fmt.Sprintf("DELETE %d", year)
	if c.FormValue("confirm") != expected {
		return fiber.NewError(fiber.StatusBadRequest, "confirmation text did not match; no data was deleted")
	}

	res := database.GetDB().Where("year = ?", year).Delete(&models.TimeEntry{})
	if res.Error != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to delete entries: "+res.Error.Error())
	}

	return c.Redirect(fmt.Sprintf("/admin?cleared=%d&count=%d", year, res.RowsAffected))
}

// ClearAllData wipes entries, uploads and ETL history. The form must echo
// the confirmation phrase "DELETE EVERYTHING" exactly.
func ClearAllData(c *fiber.Ctx) error {
	if c.FormValue("confirm") != "DELETE EVERYTHING" {
		return fiber.NewError(fiber.StatusBadRequest, "confirmation text did not match; no data was deleted")
	}

	db := database.GetDB()
	if err := db.Where("1 = 1").Delete(&models.TimeEntry{}).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to delete time entries: "+err.Error())
	}
	if err := db.Where("1 = 1").Delete(&models.ETLHistory{}).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to delete ETL history: "+err.Error())
	}
	if err := db.Where("1 = 1").Delete(&models.DataUpload{}).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to delete uploads: "+err.Error())
	}

	return c.Redirect("/admin?cleared=all")
}
