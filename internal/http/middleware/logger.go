package middleware

import (
	"io"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"tabgate/internal/logging"
)

// Logger logs one JSON record per request with request_id, method, path,
// status and latency in milliseconds.
//
// Errors returned by the chain are handed to the app's ErrorHandler here so
// the logged status is the one the client receives. Middleware registered
// before Logger then sees a nil error and the final status.
func Logger(log *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		if chainErr := c.Next(); chainErr != nil {
			if err := c.App().ErrorHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		level := slog.LevelInfo
		switch {
		case status >= fiber.StatusInternalServerError:
			level = slog.LevelError
		case status >= fiber.StatusBadRequest:
			level = slog.LevelWarn
		}

		log.LogAttrs(c.UserContext(), level, "http_request",
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.Int("status", status),
			slog.Float64("latency", float64(time.Since(start).Microseconds())/1000),
		)
		return nil
	}
}

// LoggerWithWriter is Logger over a fresh JSON logger writing to w with timestamps in loc.
func LoggerWithWriter(w io.Writer, loc *time.Location) fiber.Handler {
	return Logger(logging.New(w, loc, "info"))
}
