package handlers

import (
	"github.com/bomino/xlc-bstt-server/database"
	"github.com/bomino/xlc-bstt-server/models"
	"github.com/gofiber/fiber/v2"
)

const (
	defaultPageSize = 100
	maxPageSize     = 500
)

// GetEntries returns a page of raw time entries under the common filter
func GetEntries(c *fiber.Ctx) error {
	filter, err := parseFilter(c)
	if err != nil {
		return err
	}

	page := c.QueryInt("page", 1)
	if page < 1 {
		return fiber.NewError(fiber.StatusBadRequest, "page must be >= 1")
	}
	pageSize := c.QueryInt("page_size", defaultPageSize)
	if pageSize < 1 || pageSize > maxPageSize {
		return fiber.NewError(fiber.StatusBadRequest, "page_size must be between 1 and 500")
	}

	db := database.GetDB()

	var total int64
	if err := filter.Scope(db).Count(&total).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to count entries: "+err.Error())
	}

	var entries []models.TimeEntry
	err = filter.Scope(db).
		Order("work_date DESC, xlc_operation, applicant_id").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&entries).Error
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to load entries: "+err.Error())
	}

	return c.JSON(fiber.Map{
		"total":     total,
		"page":      page,
		"page_size": pageSize,
		"results":   entries,
	})
}

// GetFilterOptions returns the distinct values the frontend can filter on
func GetFilterOptions(c *fiber.Ctx) error {
	db := database.GetDB()

	var years []int
	if err := db.Model(&models.TimeEntry{}).Distinct("year").Order("year DESC").Pluck("year", &years).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to load years: "+err.Error())
	}

	var offices []string
	if err := db.Model(&models.TimeEntry{}).Distinct("xlc_operation").Order("xlc_operation").Pluck("xlc_operation", &offices).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to load offices: "+err.Error())
	}

	var departments []string
	if err := db.Model(&models.TimeEntry{}).Where("bu_dept_name IS NOT NULL").Distinct("bu_dept_name").Order("bu_dept_name").Pluck("bu_dept_name", &departments).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to load departments: "+err.Error())
	}

	var shifts []string
	if err := db.Model(&models.TimeEntry{}).Where("shift_number IS NOT NULL").Distinct("shift_number").Order("shift_number").Pluck("shift_number", &shifts).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to load shifts: "+err.Error())
	}

	return c.JSON(fiber.Map{
		"years":       years,
		"offices":     offices,
		"departments": departments,
		"shifts":      shifts,
	})
}
