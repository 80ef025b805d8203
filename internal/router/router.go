package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gradescan/gradescan-api/internal/config"
	"github.com/gradescan/gradescan-api/internal/handler"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	ExamHandler       *handler.ExamHandler
	StudentHandler    *handler.StudentHandler
	SheetHandler      *handler.SheetHandler
	EvaluationHandler *handler.EvaluationHandler
	EvaluateLimiter   fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	evaluateLimiter := deps.EvaluateLimiter
	if evaluateLimiter == nil {
		evaluateLimiter = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.ExamHandler != nil {
		examGroup := api.Group("/exams")
		deps.ExamHandler.Register(examGroup)

		if deps.StudentHandler != nil {
			deps.StudentHandler.Register(examGroup)
		}
	}

	if deps.SheetHandler != nil {
		studentGroup := api.Group("/students")
		deps.SheetHandler.RegisterStudentRoutes(studentGroup)

		sheetGroup := api.Group("/sheets")
		deps.SheetHandler.Register(sheetGroup)

		if deps.EvaluationHandler != nil {
			deps.EvaluationHandler.Register(sheetGroup, evaluateLimiter)
		}
	}
}
