package handlers

import (
	"github.com/bomino/xlc-bstt-server/config"
	"github.com/bomino/xlc-bstt-server/kpi"
	"github.com/bomino/xlc-bstt-server/timeclock"
	"github.com/gofiber/fiber/v2"
)

var (
	appConfig *config.Config
	weekRules *timeclock.Rules
)

// Setup wires handler-level configuration; must run before routing
func Setup(cfg *config.Config) {
	appConfig = cfg
	weekRules = timeclock.NewRules(cfg.KPI.SaturdayOffices)
}

// parseFilter reads the common KPI filter parameters off the request
func parseFilter(c *fiber.Ctx) (kpi.Filter, error) {
	filter, err := kpi.ParseFilter(
		c.Query("date_from"),
		c.Query("date_to"),
		c.Query("year"),
		c.Query("offices"),
		c.Query("departments"),
		c.Query("shifts"),
	)
	if err != nil {
		return filter, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return filter, nil
}
