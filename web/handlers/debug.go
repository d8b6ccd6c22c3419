package handlers

import (
	"github.com/bomino/xlc-bstt-server/database"
	"github.com/gofiber/fiber/v2"
)

// GetSQLLogs returns recent SQL logs as JSON
func GetSQLLogs(c *fiber.Ctx) error {
	return c.JSON(database.SQLLogger.GetRecentQueries(20))
}

// ClearSQLLogs clears all SQL logs
func ClearSQLLogs(c *fiber.Ctx) error {
	database.SQLLogger.Clear()
	return c.SendStatus(fiber.StatusOK)
}
