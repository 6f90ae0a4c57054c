package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"tabgate/internal/logging"
)

const (
	// RequestIDHeader is the header name used to propagate request IDs.
	RequestIDHeader = "X-Request-ID"
	// RequestIDLocalKey is the key used to store the request ID in Fiber's context locals.
	RequestIDLocalKey = "request_id"
)

// RequestID ensures every request has an ID.
//
// An incoming X-Request-ID is kept, otherwise a UUID is generated. The ID is
// stored in locals, echoed on the response and attached to the user context so
// service logs written with slog.*Context carry it too.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		c.Locals(RequestIDLocalKey, id)
		c.SetUserContext(logging.WithRequestID(c.UserContext(), id))
		c.Set(RequestIDHeader, id)

		return c.Next()
	}
}

// GetRequestID returns the ID stored by RequestID, or "" when the middleware did not run.
func GetRequestID(c *fiber.Ctx) string {
	if s, ok := c.Locals(RequestIDLocalKey).(string); ok {
		return s
	}
	return ""
}
