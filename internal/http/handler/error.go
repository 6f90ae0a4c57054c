package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"tabgate/internal/engine"
	"tabgate/internal/http/middleware"
	"tabgate/internal/service"
	"tabgate/internal/storage"
	"tabgate/internal/tabular"
)

// statusClientClosedRequest is used when the caller went away before the engine answered.
const statusClientClosedRequest = 499

// errorPayload is the JSON body of every failed request. Error is a JSON
// string for local failures and the engine's own body for upstream failures.
type errorPayload struct {
	Success   bool            `json:"success"`
	RequestID string          `json:"request_id,omitempty"`
	Code      string          `json:"code"`
	Error     json.RawMessage `json:"error"`
	Details   string          `json:"details,omitempty"`
}

// apiError is a client-facing failure decided in the handler layer.
type apiError struct {
	Status  int
	Code    string
	Message string
}

func (e *apiError) Error() string { return e.Message }

func badRequest(code, message string) error {
	return &apiError{Status: fiber.StatusBadRequest, Code: code, Message: message}
}

// resolved is the outcome of mapping an error to an HTTP response.
type resolved struct {
	status   int
	code     string
	body     json.RawMessage
	internal bool
}

func quote(s string) json.RawMessage {
	b, _ := json.Marshal(s)
	return b
}

// resolve maps domain, engine and transport errors to status, code and body.
func resolve(err error) resolved {
	var (
		ae *apiError
		ue *engine.UpstreamError
		fe *fiber.Error
	)

	switch {
	case errors.As(err, &ae):
		return resolved{status: ae.Status, code: ae.Code, body: quote(ae.Message)}
	case errors.As(err, &ue):
		return resolved{status: ue.Status, code: "UPSTREAM_ERROR", body: ue.Body}
	case errors.Is(err, engine.ErrTimeout):
		return resolved{status: fiber.StatusGatewayTimeout, code: "UPSTREAM_TIMEOUT", body: quote("analysis engine timed out")}
	case errors.Is(err, engine.ErrUnavailable):
		return resolved{status: fiber.StatusBadGateway, code: "UPSTREAM_UNAVAILABLE", body: quote("analysis engine is unavailable")}
	case errors.Is(err, context.Canceled):
		return resolved{status: statusClientClosedRequest, code: "REQUEST_CANCELED", body: quote("request canceled")}

	case errors.Is(err, tabular.ErrUnsupportedFormat):
		return resolved{status: fiber.StatusBadRequest, code: "UNSUPPORTED_FORMAT", body: quote(tabular.ErrUnsupportedFormat.Error())}
	case errors.Is(err, service.ErrEmptyOrUnreadable),
		errors.Is(err, tabular.ErrEmptyDataset),
		errors.Is(err, tabular.ErrUnreadable):
		return resolved{status: fiber.StatusBadRequest, code: "EMPTY_OR_UNREADABLE", body: quote("File is empty or unreadable")}
	case errors.Is(err, service.ErrFilepathRequired):
		return resolved{status: fiber.StatusBadRequest, code: "FILEPATH_REQUIRED", body: quote("File path is required")}
	case errors.Is(err, service.ErrCleaningMethodRequired):
		return resolved{status: fiber.StatusBadRequest, code: "MISSING_PARAMETERS", body: quote("File path and cleaning method are required")}
	case errors.Is(err, service.ErrMissingParameters):
		return resolved{status: fiber.StatusBadRequest, code: "MISSING_PARAMETERS", body: quote("Missing required parameters")}
	case errors.Is(err, service.ErrTargetInFeatures):
		return resolved{status: fiber.StatusBadRequest, code: "TARGET_IN_FEATURES", body: quote("Target column cannot be one of the features")}
	case errors.Is(err, storage.ErrOutsideRoot):
		return resolved{status: fiber.StatusBadRequest, code: "INVALID_FILEPATH", body: quote("File path must point inside the upload directory")}
	case errors.Is(err, fs.ErrNotExist):
		return resolved{status: fiber.StatusNotFound, code: "FILE_NOT_FOUND", body: quote("File not found")}
	case errors.Is(err, service.ErrLedgerDisabled):
		return resolved{status: fiber.StatusServiceUnavailable, code: "LEDGER_DISABLED", body: quote("Upload ledger is not configured")}

	case errors.As(err, &fe):
		return fromFiberError(fe)
	default:
		return resolved{status: fiber.StatusInternalServerError, code: "INTERNAL_ERROR", body: quote("Internal Server Error"), internal: true}
	}
}

func fromFiberError(fe *fiber.Error) resolved {
	switch fe.Code {
	case fiber.StatusBadRequest:
		return resolved{status: fe.Code, code: "BAD_REQUEST", body: quote("bad request")}
	case fiber.StatusNotFound:
		return resolved{status: fe.Code, code: "NOT_FOUND", body: quote("Endpoint not found")}
	case fiber.StatusMethodNotAllowed:
		return resolved{status: fe.Code, code: "METHOD_NOT_ALLOWED", body: quote("method not allowed")}
	case fiber.StatusRequestEntityTooLarge:
		return resolved{status: fe.Code, code: "PAYLOAD_TOO_LARGE", body: quote("File exceeds the maximum upload size")}
	}
	if fe.Code >= fiber.StatusInternalServerError {
		return resolved{status: fe.Code, code: "INTERNAL_ERROR", body: quote("Internal Server Error"), internal: true}
	}
	return resolved{status: fe.Code, code: "REQUEST_ERROR", body: quote(http.StatusText(fe.Code))}
}

// writeError writes the standardized JSON error body.
// Internal error text is only exposed through details outside production.
func writeError(c *fiber.Ctx, err error, isProduction bool) error {
	r := resolve(err)

	res := errorPayload{
		RequestID: middleware.GetRequestID(c),
		Code:      r.code,
		Error:     r.body,
	}
	if r.internal {
		slog.ErrorContext(c.UserContext(), "request failed", "path", c.Path(), "error", err)
		if !isProduction {
			res.Details = err.Error()
		}
	}
	return c.Status(r.status).JSON(res)
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler(isProduction bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		return writeError(c, err, isProduction)
	}
}
