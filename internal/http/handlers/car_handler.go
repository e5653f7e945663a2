package handlers

import (
	"github.com/gofiber/fiber/v2"

	"customcars/internal/log"
	"customcars/internal/services"
	"customcars/internal/validate"
)

type CarHandler struct {
	Cars *services.CarService
}

func (h *CarHandler) List(c *fiber.Ctx) error {
	cars, err := h.Cars.List(c.UserContext())
	if err != nil {
		return err
	}
	out := make([]carJSON, 0, len(cars))
	for _, car := range cars {
		out = append(out, toCarJSON(car))
	}
	return c.JSON(out)
}

func (h *CarHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id", "Invalid car id")
	}
	car, err := h.Cars.Get(c.UserContext(), id)
	if err != nil {
		return apiError(c, err)
	}
	return c.JSON(toCarJSON(car))
}

func (h *CarHandler) Create(c *fiber.Ctx) error {
	var req carRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "body", "Invalid request body")
	}
	car, err := h.Cars.Create(c.UserContext(), req.Name, req.Features)
	if err != nil {
		return apiError(c, err)
	}
	log.Audit(c, "car.create", map[string]any{"car_id": car.ID, "total": money(car.TotalPrice)})
	return c.Status(fiber.StatusCreated).JSON(toCarJSON(car))
}

// Update fully replaces the name and selection of a car.
func (h *CarHandler) Update(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id", "Invalid car id")
	}
	var req carRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "body", "Invalid request body")
	}
	car, err := h.Cars.Update(c.UserContext(), id, req.Name, req.Features)
	if err != nil {
		return apiError(c, err)
	}
	log.Audit(c, "car.update", map[string]any{"car_id": car.ID, "total": money(car.TotalPrice)})
	return c.JSON(toCarJSON(car))
}

func (h *CarHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id", "Invalid car id")
	}
	if err := h.Cars.Delete(c.UserContext(), id); err != nil {
		return apiError(c, err)
	}
	log.Audit(c, "car.delete", map[string]any{"car_id": id})
	return c.JSON(fiber.Map{"message": "Car deleted successfully"})
}
