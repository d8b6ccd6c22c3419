package middleware

import (
	"github.com/bomino/xlc-bstt-server/database"
	"github.com/gofiber/fiber/v2"
)

// SQLDebugMiddleware injects the SQL executed during a request into its
// context so the admin page can show what a view cost.
func SQLDebugMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		beforeCount := len(database.SQLLogger.GetQueries())

		err := c.Next()

		afterQueries := database.SQLLogger.GetQueries()
		requestQueries := []database.QueryLog{}
		if diff := len(afterQueries) - beforeCount; diff > 0 && diff <= len(afterQueries) {
			requestQueries = afterQueries[:diff]
		}

		c.Locals("SQLQueries", requestQueries)
		c.Locals("TotalSQLQueries", len(requestQueries))

		return err
	}
}
