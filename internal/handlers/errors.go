package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"socialhub/dto"
	"socialhub/internal/engine"
	"socialhub/internal/storage"
)

// engineError maps the engine's failure kinds onto HTTP statuses. Store
// failures stay opaque: the caller sees only the fallback message.
func engineError(c *fiber.Ctx, err error, fallback string) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, engine.ErrInvalidInput), errors.Is(err, engine.ErrAlreadyLiked):
		status = fiber.StatusBadRequest
	case errors.Is(err, engine.ErrForbidden):
		status = fiber.StatusForbidden
	case errors.Is(err, engine.ErrNotFound):
		status = fiber.StatusNotFound
	}
	return c.Status(status).JSON(dto.ErrorResponse{Message: engine.Message(err, fallback)})
}

func mediaError(c *fiber.Ctx, err error, fallback string) error {
	if errors.Is(err, storage.ErrImageTooLarge) || errors.Is(err, storage.ErrImageType) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Message: err.Error()})
	}
	return internalError(c, fallback)
}

func internalError(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Message: msg})
}
