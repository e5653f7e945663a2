package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"

	"customcars/internal/config"
	"customcars/internal/repos"
	"customcars/internal/services"
)

type Deps struct {
	FeatureHandler *FeatureHandler
	CarHandler     *CarHandler
	PageHandler    *PageHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config) *Deps {
	featureRepo := repos.NewFeatureRepo(db)
	carRepo := repos.NewCarRepo(db)

	catalogSvc := services.NewCatalogService(featureRepo, cfg.CatalogTTL)
	carSvc := services.NewCarService(catalogSvc, carRepo)

	return &Deps{
		FeatureHandler: &FeatureHandler{Catalog: catalogSvc},
		CarHandler:     &CarHandler{Cars: carSvc},
		PageHandler:    &PageHandler{Catalog: catalogSvc, Cars: carSvc},
	}
}

// Mount registers the API under /api and the form pages at the root. Callers
// add NotFound last.
func (d *Deps) Mount(app *fiber.App) {
	api := app.Group("/api")
	api.Get("/features", d.FeatureHandler.List)
	api.Get("/features/options", d.FeatureHandler.AllOptions)
	api.Get("/features/:name", d.FeatureHandler.Get)
	api.Get("/features/:name/options", d.FeatureHandler.Options)
	api.Get("/features/:name/available", d.FeatureHandler.Available)
	api.Post("/quote", d.FeatureHandler.Quote)

	api.Get("/cars", d.CarHandler.List)
	api.Get("/cars/:id", d.CarHandler.Get)
	api.Post("/cars", d.CarHandler.Create)
	api.Put("/cars/:id", d.CarHandler.Update)
	api.Delete("/cars/:id", d.CarHandler.Delete)

	app.Get("/", d.PageHandler.Configure)
	app.Get("/cars", d.PageHandler.List)
	app.Post("/cars", d.PageHandler.Create)
	app.Get("/cars/:id", d.PageHandler.Detail)
	app.Get("/cars/:id/edit", d.PageHandler.Edit)
	app.Post("/cars/:id", d.PageHandler.Update)
	app.Post("/cars/:id/delete", d.PageHandler.Delete)

	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
}
