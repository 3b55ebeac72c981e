package handlers

import (
	"bytes"
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/nexo/internal/dto"
	"github.com/ahmetcoskunkizilkaya/nexo/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/nexo/internal/services"
	"github.com/ahmetcoskunkizilkaya/nexo/internal/storage"
	"github.com/ahmetcoskunkizilkaya/nexo/internal/validation"
	"github.com/ahmetcoskunkizilkaya/nexo/internal/views"
	"github.com/gofiber/fiber/v2"
)

func errorJSON(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Error: true, Message: message})
}

// serviceError maps service and validation errors onto status codes. Tags
// owned by someone else look exactly like missing ones.
func serviceError(c *fiber.Ctx, err error) error {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error:   true,
			Message: "Validation failed",
			Fields:  verr.Fields,
		})
	case errors.Is(err, services.ErrTagNotFound), errors.Is(err, services.ErrNotOwner):
		return errorJSON(c, fiber.StatusNotFound, "Tag not found")
	case errors.Is(err, services.ErrInvalidMode):
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrUserNotFound):
		return errorJSON(c, fiber.StatusNotFound, "User not found")
	case errors.Is(err, storage.ErrUnsupportedType),
		errors.Is(err, storage.ErrTooLarge),
		errors.Is(err, storage.ErrEmptyImage),
		errors.Is(err, storage.ErrInvalidURL):
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}

	slog.Error("request failed",
		"method", c.Method(),
		"path", c.Path(),
		"trace_id", c.GetRespHeader(fiber.HeaderXRequestID),
		"error", err,
	)
	return errorJSON(c, fiber.StatusInternalServerError, "Internal server error")
}

// parseBody decodes the JSON body into dst and validates it.
func parseBody(c *fiber.Ctx, v *validation.Validator, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return validation.NewError("body", "Invalid request body")
	}
	return v.Struct(dst)
}

// render writes a full HTML page. Pages are buffered so a template error
// never leaves a half-written 200 behind.
func render(c *fiber.Ctx, status int, name string, page views.Page) error {
	var buf bytes.Buffer
	if err := views.Render(&buf, name, page); err != nil {
		return err
	}
	return html(c, status, buf.Bytes())
}

func html(c *fiber.Ctx, status int, body []byte) error {
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Status(status).Send(body)
}

// ErrorHandler is the app-wide fallback for errors returned by handlers.
// Details of 5xx errors are logged, never sent.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}

	if code >= 500 {
		slog.Error("unhandled server error",
			"method", c.Method(),
			"path", c.Path(),
			"trace_id", c.GetRespHeader(fiber.HeaderXRequestID),
			"error", err.Error(),
		)
		message = "Internal server error"
	}

	if code == fiber.StatusNotFound && middleware.WantsHTML(c) {
		return notFoundPage(c)
	}
	return errorJSON(c, code, message)
}
