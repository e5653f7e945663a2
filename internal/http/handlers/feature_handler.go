package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"customcars/internal/services"
	"customcars/internal/validate"
)

type FeatureHandler struct {
	Catalog *services.CatalogService
}

func (h *FeatureHandler) List(c *fiber.Ctx) error {
	feats, err := h.Catalog.Features(c.UserContext())
	if err != nil {
		return err
	}
	out := make([]featureJSON, 0, len(feats))
	for _, f := range feats {
		out = append(out, toFeatureJSON(f))
	}
	return c.JSON(out)
}

// AllOptions lists every option tagged with its feature.
func (h *FeatureHandler) AllOptions(c *fiber.Ctx) error {
	feats, err := h.Catalog.Features(c.UserContext())
	if err != nil {
		return err
	}
	out := []optionJSON{}
	for _, f := range feats {
		for _, o := range f.Options {
			out = append(out, withFeature(f, o))
		}
	}
	return c.JSON(out)
}

func (h *FeatureHandler) Get(c *fiber.Ctx) error {
	name, ok := validate.FeatureName(c.Params("name"))
	if !ok {
		return badRequest(c, "feature", "Invalid feature name")
	}
	f, err := h.Catalog.Feature(c.UserContext(), name)
	if err != nil {
		return apiError(c, err)
	}
	return c.JSON(toFeatureJSON(f))
}

// Options lists the options of one feature; an unknown feature yields [].
func (h *FeatureHandler) Options(c *fiber.Ctx) error {
	name, ok := validate.FeatureName(c.Params("name"))
	if !ok {
		return badRequest(c, "feature", "Invalid feature name")
	}
	f, err := h.Catalog.Feature(c.UserContext(), name)
	if errors.Is(err, services.ErrFeatureNotFound) {
		return c.JSON([]optionJSON{})
	}
	if err != nil {
		return err
	}
	return c.JSON(toFeatureJSON(f).Options)
}

// Available answers which options of a feature fit the selection given in the
// query string, e.g. ?exterior=1&engine=14.
func (h *FeatureHandler) Available(c *fiber.Ctx) error {
	name, ok := validate.FeatureName(c.Params("name"))
	if !ok {
		return badRequest(c, "feature", "Invalid feature name")
	}
	sel, bad, ok := selectionFrom(func(k string) string { return c.Query(k) })
	if !ok {
		return badRequest(c, bad, invalidOptionMessage(bad))
	}
	avail, err := h.Catalog.Available(c.UserContext(), name, sel)
	if err != nil {
		return err
	}
	return c.JSON(toAvailabilityJSON(avail))
}

// Quote prices a selection and reports its violations without saving it.
func (h *FeatureHandler) Quote(c *fiber.Ctx) error {
	var req carRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "body", "Invalid request body")
	}
	q, err := h.Catalog.Quote(c.UserContext(), req.Features)
	if err != nil {
		return err
	}
	violations := q.Violations
	if violations == nil {
		violations = []string{}
	}
	return c.JSON(quoteJSON{
		TotalPrice:     money(q.Total),
		FormattedPrice: q.Formatted,
		Valid:          q.Valid,
		Violations:     violations,
	})
}
