package handlers

import (
	"github.com/bomino/xlc-bstt-server/database"
	"github.com/bomino/xlc-bstt-server/kpi"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/sync/errgroup"
)

// GetKPIs returns the full compliance/volume/efficiency summary
func GetKPIs(c *fiber.Ctx) error {
	filter, err := parseFilter(c)
	if err != nil {
		return err
	}

	calc := kpi.NewCalculator(database.GetDB(), filter)
	summary, err := calc.CalculateAll()
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to compute KPIs: "+err.Error())
	}

	return c.JSON(fiber.Map{
		"kpis":   summary,
		"status": kpi.Classifications(summary, appConfig.KPI),
	})
}

// GetKPIsByOffice returns KPIs grouped by office
func GetKPIsByOffice(c *fiber.Ctx) error {
	return breakdown(c, func(calc *kpi.Calculator) (interface{}, error) {
		return calc.ByOffice()
	})
}

// GetKPIsByWeek returns KPIs grouped by ISO week
func GetKPIsByWeek(c *fiber.Ctx) error {
	return breakdown(c, func(calc *kpi.Calculator) (interface{}, error) {
		return calc.ByWeek()
	})
}

// GetKPIsByDepartment returns KPIs grouped by department
func GetKPIsByDepartment(c *fiber.Ctx) error {
	return breakdown(c, func(calc *kpi.Calculator) (interface{}, error) {
		return calc.ByDepartment()
	})
}

// GetKPIsByShift returns KPIs grouped by shift
func GetKPIsByShift(c *fiber.Ctx) error {
	return breakdown(c, func(calc *kpi.Calculator) (interface{}, error) {
		return calc.ByShift()
	})
}

// GetKPIsByEmployee returns per-employee compliance, worst first
func GetKPIsByEmployee(c *fiber.Ctx) error {
	return breakdown(c, func(calc *kpi.Calculator) (interface{}, error) {
		return calc.ByEmployee()
	})
}

// GetClockBehavior returns the clock attempt analysis
func GetClockBehavior(c *fiber.Ctx) error {
	return breakdown(c, func(calc *kpi.Calculator) (interface{}, error) {
		return calc.ClockBehavior()
	})
}

// GetTrends returns week-over-week movement of the headline metrics
func GetTrends(c *fiber.Ctx) error {
	return breakdown(c, func(calc *kpi.Calculator) (interface{}, error) {
		return calc.Trends()
	})
}

func breakdown(c *fiber.Ctx, run func(*kpi.Calculator) (interface{}, error)) error {
	filter, err := parseFilter(c)
	if err != nil {
		return err
	}

	result, err := run(kpi.NewCalculator(database.GetDB(), filter))
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to compute breakdown: "+err.Error())
	}
	return c.JSON(result)
}

// GetDashboard returns everything the dashboard needs in one response.
// The independent aggregate queries fan out concurrently.
func GetDashboard(c *fiber.Ctx) error {
	filter, err := parseFilter(c)
	if err != nil {
		return err
	}

	db := database.GetDB()

	var (
		summary  *kpi.Summary
		byOffice []kpi.GroupKPIs
		byWeek   []kpi.WeekKPIs
		byDept   []kpi.GroupKPIs
		trends   *kpi.Trends
	)

	g, _ := errgroup.WithContext(c.Context())
	g.Go(func() error {
		var err error
		summary, err = kpi.NewCalculator(db, filter).CalculateAll()
		return err
	})
	g.Go(func() error {
		var err error
		byOffice, err = kpi.NewCalculator(db, filter).ByOffice()
		return err
	})
	g.Go(func() error {
		var err error
		byWeek, err = kpi.NewCalculator(db, filter).ByWeek()
		return err
	})
	g.Go(func() error {
		var err error
		byDept, err = kpi.NewCalculator(db, filter).ByDepartment()
		return err
	})
	g.Go(func() error {
		var err error
		trends, err = kpi.NewCalculator(db, filter).Trends()
		return err
	})
	if err := g.Wait(); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to compute dashboard: "+err.Error())
	}

	return c.JSON(fiber.Map{
		"kpis":          summary,
		"status":        kpi.Classifications(summary, appConfig.KPI),
		"by_office":     byOffice,
		"by_week":       byWeek,
		"by_department": byDept,
		"trends":        trends,
	})
}
