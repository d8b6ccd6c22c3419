package handlers

import (
	"bytes"
	"fmt"
	"time"

	"github.com/bomino/xlc-bstt-server/database"
	"github.com/bomino/xlc-bstt-server/kpi"
	"github.com/bomino/xlc-bstt-server/report"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/sync/errgroup"
)

// ExportReport streams the multi-sheet Excel compliance report
func ExportReport(c *fiber.Ctx) error {
	filter, err := parseFilter(c)
	if err != nil {
		return err
	}

	db := database.GetDB()
	data := report.Data{}

	g, _ := errgroup.WithContext(c.Context())
	g.Go(func() error {
		var err error
		data.Summary, err = kpi.NewCalculator(db, filter).CalculateAll()
		return err
	})
	g.Go(func() error {
		var err error
		data.ByOffice, err = kpi.NewCalculator(db, filter).ByOffice()
		return err
	})
	g.Go(func() error {
		var err error
		data.ByWeek, err = kpi.NewCalculator(db, filter).ByWeek()
		return err
	})
	g.Go(func() error {
		var err error
		data.ByDepartment, err = kpi.NewCalculator(db, filter).ByDepartment()
		return err
	})
	g.Go(func() error {
		var err error
		data.ByEmployee, err = kpi.NewCalculator(db, filter).ByEmployee()
		return err
	})
	if err := g.Wait(); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to compute report data: "+err.Error())
	}
	data.Status = kpi.Classifications(data.Summary, appConfig.KPI)

	workbook, err := report.Build(data)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to build report: "+err.Error())
	}
	defer func() { _ = workbook.Close() }()

	var buf bytes.Buffer
	if _, err := workbook.WriteTo(&buf); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to write report: "+err.Error())
	}

	filename := fmt.Sprintf("bstt-compliance-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, filename))
	return c.Send(buf.Bytes())
}
