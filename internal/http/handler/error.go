package handler

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"filevault/internal/http/middleware"
	"filevault/internal/service"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// requestIDFromCtx extracts request_id previously stored by middleware.RequestID.
func requestIDFromCtx(c *fiber.Ctx) string {
	if s, ok := c.Locals(middleware.RequestIDLocalKey).(string); ok {
		return s
	}
	return ""
}

// writeError writes a standardized JSON error response without leaking internal errors.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "NOT_FOUND", "FORBIDDEN", "INTERNAL_ERROR")
// - message: human-readable safe message (no internal details)
func writeError(c *fiber.Ctx, status int, code, message string) error {
	res := errorPayload{
		RequestID: requestIDFromCtx(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
		},
	}
	return c.Status(status).JSON(res)
}

type errorMapping struct {
	target  error
	status  int
	code    string
	message string
}

// serviceErrors maps service sentinels to responses. First match wins.
var serviceErrors = []errorMapping{
	{service.ErrMissingFields, fiber.StatusBadRequest, "VALIDATION_ERROR", "email and password are required"},
	{service.ErrInvalidEmail, fiber.StatusBadRequest, "INVALID_EMAIL", "invalid email address"},
	{service.ErrEmailTaken, fiber.StatusBadRequest, "EMAIL_TAKEN", "email already registered"},
	{service.ErrInvalidCredentials, fiber.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid email or password"},
	{service.ErrTokenMissing, fiber.StatusBadRequest, "TOKEN_REQUIRED", "token is required"},
	{service.ErrRefreshTokenNotFound, fiber.StatusForbidden, "INVALID_REFRESH_TOKEN", "invalid refresh token"},
	{service.ErrRefreshTokenInvalid, fiber.StatusForbidden, "INVALID_REFRESH_TOKEN", "invalid refresh token"},
	{service.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED", "unauthorized"},
	{service.ErrUserNotFound, fiber.StatusNotFound, "USER_NOT_FOUND", "user not found"},
	{service.ErrFileRequired, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required"},
	{service.ErrUnsupportedType, fiber.StatusBadRequest, "UNSUPPORTED_FILE_TYPE", "only jpeg, png, pdf and docx files are allowed"},
	{service.ErrFileNotFound, fiber.StatusNotFound, "NOT_FOUND", "file not found"},
	{service.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN", "access to this file is forbidden"},
	{service.ErrFileContentMissing, fiber.StatusNotFound, "FILE_CONTENT_MISSING", "file content not found on server"},
}

// writeServiceError translates a service error into the standard envelope.
// Unknown errors are logged and reported as 500.
func writeServiceError(c *fiber.Ctx, lg *slog.Logger, err error) error {
	for _, m := range serviceErrors {
		if errors.Is(err, m.target) {
			if m.status == fiber.StatusUnauthorized {
				lg.DebugContext(c.UserContext(), "request unauthorized",
					slog.String("request_id", requestIDFromCtx(c)),
					slog.Any("error", err),
				)
			}
			return writeError(c, m.status, m.code, m.message)
		}
	}
	lg.ErrorContext(c.UserContext(), "request failed",
		slog.String("request_id", requestIDFromCtx(c)),
		slog.String("path", c.Path()),
		slog.Any("error", err),
	)
	return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler(lg *slog.Logger) fiber.ErrorHandler {
	if lg == nil {
		lg = slog.Default()
	}
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusUnauthorized:
			return writeError(c, status, "UNAUTHORIZED", "unauthorized")
		case fiber.StatusForbidden:
			return writeError(c, status, "FORBIDDEN", "forbidden")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, status, "PAYLOAD_TOO_LARGE", "request body too large")
		case fiber.StatusTooManyRequests:
			return writeError(c, status, "RATE_LIMITED", "too many requests")
		default:
			lg.ErrorContext(c.UserContext(), "unhandled error",
				slog.String("request_id", requestIDFromCtx(c)),
				slog.Any("error", err),
			)
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
	}
}
