package handlers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"customcars/internal/configurator"
	"customcars/internal/domain"
	"customcars/internal/log"
	"customcars/internal/repos"
	"customcars/internal/services"
	"customcars/internal/validate"
)

// PageHandler serves the server-rendered configurator.
type PageHandler struct {
	Catalog *services.CatalogService
	Cars    *services.CarService
}

type optionView struct {
	ID          int64
	DisplayName string
	Price       string
	ImageURL    string
	Recommended bool
	Selected    bool
}

type featureView struct {
	Name        string
	DisplayName string
	Options     []optionView
}

type carView struct {
	ID        int64
	Name      string
	Total     string
	CreatedAt string
	UpdatedAt string
	Features  []carFeatureView
}

type carFeatureView struct {
	Feature  string
	Option   string
	Price    string
	ImageURL string
}

func toCarView(c domain.Car) carView {
	v := carView{
		ID:        c.ID,
		Name:      c.Name,
		Total:     configurator.FormatPrice(c.TotalPrice),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	for _, f := range c.Features {
		v.Features = append(v.Features, carFeatureView{
			Feature:  f.FeatureDisplayName,
			Option:   f.OptionDisplayName,
			Price:    configurator.FormatPrice(f.OptionPrice),
			ImageURL: f.OptionImageURL,
		})
	}
	return v
}

// form renders the configure page for sel. Every feature lists only the options
// still available given the other choices; a chosen option that has become
// unavailable stays listed so the user can see what to change.
func (h *PageHandler) form(c *fiber.Ctx, status int, data fiber.Map, sel configurator.Selection, errs []string) error {
	ctx := c.UserContext()
	cat, err := h.Catalog.Catalog(ctx)
	if err != nil {
		return err
	}
	q, err := h.Catalog.Quote(ctx, sel)
	if err != nil {
		return err
	}

	views := make([]featureView, 0, len(configurator.RequiredFeatures))
	for _, f := range cat.Features() {
		chosen, hasChoice := sel.Chosen(f.Name)
		fv := featureView{Name: f.Name, DisplayName: f.DisplayName}
		seen := false
		for _, a := range configurator.Available(cat, f.Name, sel) {
			picked := hasChoice && a.ID == chosen
			seen = seen || picked
			fv.Options = append(fv.Options, optionView{
				ID:          a.ID,
				DisplayName: a.DisplayName,
				Price:       configurator.FormatPrice(a.Price),
				ImageURL:    a.ImageURL,
				Recommended: a.Recommended,
				Selected:    picked,
			})
		}
		if hasChoice && !seen {
			if o, ok := cat.Option(f.Name, chosen); ok {
				fv.Options = append(fv.Options, optionView{
					ID:          o.ID,
					DisplayName: o.DisplayName,
					Price:       configurator.FormatPrice(o.Price),
					ImageURL:    o.ImageURL,
					Selected:    true,
				})
			}
		}
		views = append(views, fv)
	}

	if data == nil {
		data = fiber.Map{}
	}
	if _, ok := data["Action"]; !ok {
		data["Action"] = "/cars"
	}
	data["Features"] = views
	data["Total"] = q.Formatted
	data["Advice"] = q.Violations
	data["Errors"] = errs
	c.Status(status)
	return render(c, "configure", data)
}

// Configure shows the form with the selection carried in the query string.
func (h *PageHandler) Configure(c *fiber.Ctx) error {
	sel, _, ok := selectionFrom(func(k string) string { return c.Query(k) })
	if !ok {
		sel = configurator.Selection{}
	}
	return h.form(c, fiber.StatusOK, fiber.Map{"Name": c.Query("name")}, sel, nil)
}

// submitErrors turns a rejected save into messages for the form, or returns
// the error untouched when it is not the user's fault.
func submitErrors(c *fiber.Ctx, err error) ([]string, error) {
	var verr *configurator.ValidationError
	var oerr *repos.OptionError
	switch {
	case errors.As(err, &verr):
		log.Security(c, "validation.fail", map[string]any{"violations": verr.Violations})
		return verr.Violations, nil
	case errors.As(err, &oerr):
		log.Security(c, "validation.fail", map[string]any{"feature": oerr.Feature, "option": oerr.OptionID})
		return []string{oerr.Error()}, nil
	}
	return nil, err
}

func formSelection(c *fiber.Ctx) (configurator.Selection, []string) {
	sel, bad, ok := selectionFrom(func(k string) string { return c.FormValue(k) })
	if !ok {
		log.Security(c, "validation.fail", map[string]any{"field": bad})
		return configurator.Selection{}, []string{invalidOptionMessage(bad)}
	}
	return sel, nil
}

func (h *PageHandler) Create(c *fiber.Ctx) error {
	name := c.FormValue("name")
	sel, errs := formSelection(c)
	if errs != nil {
		return h.form(c, fiber.StatusBadRequest, fiber.Map{"Name": name}, sel, errs)
	}
	car, err := h.Cars.Create(c.UserContext(), name, sel)
	if err != nil {
		msgs, err := submitErrors(c, err)
		if err != nil {
			return err
		}
		return h.form(c, fiber.StatusBadRequest, fiber.Map{"Name": name}, sel, msgs)
	}
	log.Audit(c, "car.create", map[string]any{"car_id": car.ID, "total": money(car.TotalPrice)})
	return c.Redirect(fmt.Sprintf("/cars/%d", car.ID), fiber.StatusSeeOther)
}

func (h *PageHandler) List(c *fiber.Ctx) error {
	cars, err := h.Cars.List(c.UserContext())
	if err != nil {
		return err
	}
	views := make([]carView, 0, len(cars))
	for _, car := range cars {
		views = append(views, toCarView(car))
	}
	return render(c, "cars", fiber.Map{"Cars": views})
}

// load fetches the car named by the :id param or renders the not found page.
func (h *PageHandler) load(c *fiber.Ctx) (domain.Car, bool, error) {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		log.Security(c, "validation.fail", map[string]any{"field": "id"})
		return domain.Car{}, false, carNotFound(c)
	}
	car, err := h.Cars.Get(c.UserContext(), id)
	if errors.Is(err, repos.ErrCarNotFound) {
		return domain.Car{}, false, carNotFound(c)
	}
	if err != nil {
		return domain.Car{}, false, err
	}
	return car, true, nil
}

func carNotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Car not found"})
}

func (h *PageHandler) Detail(c *fiber.Ctx) error {
	car, ok, err := h.load(c)
	if !ok {
		return err
	}
	return render(c, "car", fiber.Map{"Car": toCarView(car)})
}

func (h *PageHandler) Edit(c *fiber.Ctx) error {
	car, ok, err := h.load(c)
	if !ok {
		return err
	}
	name, sel := car.Name, car.Selection()
	// a preview carries the in-progress choices in the query string
	if previewing(c) {
		if q, _, ok := selectionFrom(func(k string) string { return c.Query(k) }); ok {
			sel = q
		}
		name = c.Query("name")
	}
	return h.form(c, fiber.StatusOK, fiber.Map{
		"Name":   name,
		"CarID":  car.ID,
		"Action": fmt.Sprintf("/cars/%d", car.ID),
	}, sel, nil)
}

func previewing(c *fiber.Ctx) bool {
	for _, f := range configurator.RequiredFeatures {
		if c.Query(f) != "" {
			return true
		}
	}
	return c.Query("name") != ""
}

func (h *PageHandler) Update(c *fiber.Ctx) error {
	car, ok, err := h.load(c)
	if !ok {
		return err
	}
	name := c.FormValue("name")
	data := fiber.Map{"Name": name, "CarID": car.ID, "Action": fmt.Sprintf("/cars/%d", car.ID)}
	sel, errs := formSelection(c)
	if errs != nil {
		return h.form(c, fiber.StatusBadRequest, data, sel, errs)
	}
	updated, err := h.Cars.Update(c.UserContext(), car.ID, name, sel)
	if err != nil {
		msgs, err := submitErrors(c, err)
		if err != nil {
			return err
		}
		return h.form(c, fiber.StatusBadRequest, data, sel, msgs)
	}
	log.Audit(c, "car.update", map[string]any{"car_id": updated.ID, "total": money(updated.TotalPrice)})
	return c.Redirect(fmt.Sprintf("/cars/%d", updated.ID), fiber.StatusSeeOther)
}

func (h *PageHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		log.Security(c, "validation.fail", map[string]any{"field": "id"})
		return carNotFound(c)
	}
	err := h.Cars.Delete(c.UserContext(), id)
	if errors.Is(err, repos.ErrCarNotFound) {
		return carNotFound(c)
	}
	if err != nil {
		return err
	}
	log.Audit(c, "car.delete", map[string]any{"car_id": id})
	return c.Redirect("/cars", fiber.StatusSeeOther)
}
