package handler

import (
	"context"
	"database/sql"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"

	_ "tabgate/docs"
	"tabgate/internal/service"
)

// ServiceName is reported by the liveness endpoint.
const ServiceName = "tabgate"

const readinessTimeout = 2 * time.Second

// HealthChecker reports whether a dependency is reachable.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Dependencies are the collaborators the HTTP surface is built over.
// DB is nil when the upload ledger is disabled.
type Dependencies struct {
	Uploads  service.UploadService
	Analysis service.AnalysisService
	Cleaning service.CleaningService
	Training service.TrainingService
	Engine   HealthChecker
	DB       *sql.DB
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Unmatched paths fall through to ErrorHandler as 404, wrong methods as 405.
func RegisterRoutes(app *fiber.App, d Dependencies) {
	// The doc leaves host and schemes empty so clients use whatever served it.
	app.Get("/swagger/*", swagger.HandlerDefault)

	api := app.Group("/api")
	api.Get("/health", HealthCheck())
	api.Get("/ready", Readiness(d.Engine, d.DB))

	api.Post("/upload", UploadDataset(d.Uploads))
	api.Post("/analyze", AnalyzeDataset(d.Analysis))
	api.Post("/clean", CleanDataset(d.Cleaning))
	api.Get("/clean/download", DownloadCleaned(d.Cleaning))
	api.Post("/train", TrainModel(d.Training))

	if d.DB != nil {
		api.Get("/uploads", ListUploads(d.Uploads))
	}
}

// HealthCheck is a liveness check. It never touches dependencies.
//
//	@Summary	Liveness check
//	@Tags		health
//	@Produce	json
//	@Success	200	{object}	map[string]string
//	@Router		/api/health [get]
func HealthCheck() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": ServiceName})
	}
}

// Readiness checks the engine and, when configured, the ledger database.
//
//	@Summary	Readiness check
//	@Tags		health
//	@Produce	json
//	@Success	200	{object}	map[string]string
//	@Failure	503	{object}	map[string]string
//	@Router		/api/ready [get]
func Readiness(eng HealthChecker, db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), readinessTimeout)
		defer cancel()

		if eng != nil {
			if err := eng.Health(ctx); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable", "dependency": "engine"})
			}
		}
		if db != nil {
			if err := db.PingContext(ctx); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable", "dependency": "database"})
			}
		}
		return c.JSON(fiber.Map{"status": "ready"})
	}
}

// ListUploads pages through the upload ledger, newest first.
//
//	@Summary	List recorded uploads
//	@Tags		datasets
//	@Produce	json
//	@Param		limit	query		int	false	"page size (max 100)"	default(10)
//	@Param		offset	query		int	false	"rows to skip"			default(0)
//	@Success	200		{object}	model.UploadList
//	@Failure	400		{object}	errorPayload
//	@Router		/api/uploads [get]
func ListUploads(svc service.UploadService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil {
			return badRequest("INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return badRequest("INVALID_OFFSET", "invalid offset")
		}

		res, err := svc.List(c.UserContext(), limit, offset)
		if err != nil {
			return err
		}
		return c.JSON(res)
	}
}
