package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"customcars/internal/configurator"
	"customcars/internal/log"
	"customcars/internal/repos"
	"customcars/internal/services"
	"customcars/internal/validate"
)

const genericMessage = "Something went wrong. Please try again."

func isAPI(c *fiber.Ctx) bool {
	return strings.HasPrefix(c.Path(), "/api/") || c.Path() == "/api"
}

// ErrorHandler logs unhandled errors and answers without exposing their text.
// Client errors raised by fiber itself (404, 413, 429) keep their status.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := genericMessage
	var fe *fiber.Error
	if errors.As(err, &fe) && fe.Code < fiber.StatusInternalServerError {
		code, msg = fe.Code, fe.Message
	} else {
		log.Error(c, "server.error", err, nil)
	}

	if isAPI(c) {
		if code == fiber.StatusInternalServerError {
			msg = "Internal server error"
		}
		return c.Status(code).JSON(fiber.Map{"error": msg})
	}
	if rerr := c.Status(code).Render("notfound", fiber.Map{"Message": msg}); rerr != nil {
		return c.Status(code).SendString(msg)
	}
	return nil
}

// NotFound is the fallback for unmatched routes.
func NotFound(c *fiber.Ctx) error {
	if isAPI(c) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Not found"})
	}
	return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Page not found"})
}

// apiError maps domain errors to their JSON status. Anything unknown goes to
// ErrorHandler.
func apiError(c *fiber.Ctx, err error) error {
	var verr *configurator.ValidationError
	var oerr *repos.OptionError
	switch {
	case errors.As(err, &verr):
		log.Security(c, "validation.fail", map[string]any{"violations": verr.Violations})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":      verr.First(),
			"violations": verr.Violations,
		})
	case errors.As(err, &oerr):
		log.Security(c, "validation.fail", map[string]any{"feature": oerr.Feature, "option": oerr.OptionID})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": oerr.Error()})
	case errors.Is(err, repos.ErrCarNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Car not found"})
	case errors.Is(err, services.ErrFeatureNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Feature not found"})
	}
	return err
}

func badRequest(c *fiber.Ctx, field, msg string) error {
	log.Security(c, "validation.fail", map[string]any{"field": field})
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

// selectionFrom reads one option id per required feature through get (query or
// form values). Blank values leave the feature unchosen; on a malformed id it
// returns the offending feature.
func selectionFrom(get func(key string) string) (configurator.Selection, string, bool) {
	sel := configurator.Selection{}
	for _, f := range configurator.RequiredFeatures {
		raw := strings.TrimSpace(get(f))
		if raw == "" {
			continue
		}
		id, ok := validate.ID(raw)
		if !ok {
			return nil, f, false
		}
		sel[f] = configurator.Pick(id)
	}
	return sel, "", true
}

func invalidOptionMessage(feature string) string {
	return fmt.Sprintf("Invalid option id for feature %s", feature)
}
