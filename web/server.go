package web

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/bomino/xlc-bstt-server/config"
	"github.com/bomino/xlc-bstt-server/web/handlers"
	"github.com/bomino/xlc-bstt-server/web/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/template/html/v2"
)

// Server represents the web server
type Server struct {
	app *fiber.App
}

// NewServer creates a new Fiber server
func NewServer(cfg *config.Config) *Server {
	handlers.Setup(cfg)

	// Template engine for the server-rendered admin pages
	engine := html.New("./web/templates", ".html")
	engine.Reload(cfg.App.Environment == "development")

	engine.AddFunc("formatDate", func(t time.Time) string {
		return t.Format("02/01/2006 15:04")
	})
	engine.AddFunc("formatSecs", func(secs float64) string {
		return fmt.Sprintf("%.2fs", secs)
	})

	app := fiber.New(fiber.Config{
		Views:     engine,
		BodyLimit: 64 * 1024 * 1024, // weekly dumps can be large
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}

			log.Printf("ERROR [%s %s]: %v", c.Method(), c.Path(), err)

			if strings.HasPrefix(c.Path(), "/api") {
				return c.Status(code).JSON(fiber.Map{
					"error": err.Error(),
				})
			}

			return c.Status(code).Render("pages/error", fiber.Map{
				"Title": "Error",
				"Error": err.Error(),
				"Code":  code,
			}, "layouts/base")
		},
	})

	// Middleware
	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
	}))
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path} ${error}\n",
	}))
	app.Use(middleware.SQLDebugMiddleware())

	// SPA assets
	app.Static("/static", cfg.App.StaticDir)

	setupRoutes(app)

	return &Server{app: app}
}

// Start starts the server
func (s *Server) Start(port string) error {
	log.Printf("Server starting on http://localhost:%s", port)
	return s.app.Listen(":" + port)
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// setupRoutes configures all application routes
func setupRoutes(app *fiber.App) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect("/admin")
	})

	// KPI JSON API for the dashboard frontend
	api := app.Group("/api")
	api.Get("/dashboard", handlers.GetDashboard)
	api.Get("/kpis", handlers.GetKPIs)
	api.Get("/kpis/by-office", handlers.GetKPIsByOffice)
	api.Get("/kpis/by-week", handlers.GetKPIsByWeek)
	api.Get("/kpis/by-department", handlers.GetKPIsByDepartment)
	api.Get("/kpis/by-shift", handlers.GetKPIsByShift)
	api.Get("/kpis/by-employee", handlers.GetKPIsByEmployee)
	api.Get("/kpis/clock-behavior", handlers.GetClockBehavior)
	api.Get("/kpis/trends", handlers.GetTrends)

	// Raw data and metadata
	api.Get("/filters", handlers.GetFilterOptions)
	api.Get("/entries", handlers.GetEntries)
	api.Get("/uploads", handlers.ListUploads)
	api.Get("/etl-history", handlers.ListETLHistory)

	// Excel export
	api.Get("/reports/export", handlers.ExportReport)

	// Debug endpoint for SQL logs
	api.Get("/debug/sql", handlers.GetSQLLogs)
	api.Delete("/debug/sql", handlers.ClearSQLLogs)

	// Admin UI (upload + database management)
	admin := app.Group("/admin")
	admin.Get("/", handlers.AdminPage)
	admin.Post("/uploads", handlers.UploadFile)
	admin.Post("/clear-year/:year", handlers.ClearYearData)
	admin.Post("/clear-all", handlers.ClearAllData)
}
