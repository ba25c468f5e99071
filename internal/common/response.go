package common

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler renders every handler failure as
// {"success": false, "error": {"kind": ..., "message": ...}}.
// Unexpected errors are logged with full detail server-side and reported to
// the caller as an opaque INTERNAL failure.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return respond(c, appErr)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return respond(c, New(kindFromStatus(fiberErr.Code), fiberErr.Message))
	}

	log.Printf("[http] %s %s: %v", c.Method(), c.Path(), err)
	return respond(c, New(KindInternal, "internal server error"))
}

func respond(c *fiber.Ctx, appErr *Error) error {
	return c.Status(appErr.Status()).JSON(fiber.Map{
		"success": false,
		"error": fiber.Map{
			"kind":    appErr.Kind,
			"message": appErr.Message,
		},
	})
}

// kindFromStatus covers errors raised by fiber itself (404 on unknown routes,
// 405, body limits) that never carried a kind.
func kindFromStatus(status int) Kind {
	switch status {
	case fiber.StatusBadRequest:
		return KindValidation
	case fiber.StatusUnauthorized:
		return KindUnauthenticated
	case fiber.StatusForbidden:
		return KindForbidden
	case fiber.StatusNotFound:
		return KindNotFound
	case fiber.StatusConflict:
		return KindConflict
	default:
		return KindInternal
	}
}
