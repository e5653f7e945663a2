package main

import (
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"
	"github.com/google/uuid"

	"customcars/internal/config"
	"customcars/internal/http/handlers"
	applog "customcars/internal/log"
	"customcars/internal/repos"
)

func main() {
	cfg := config.Load()

	applog.Init(applog.Config{File: cfg.LogFile, Production: cfg.IsProduction()})
	defer func() { _ = applog.Sync() }()

	db, err := repos.OpenDB(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	// Templates & app
	engine := html.New(cfg.TemplatesDir, ".html")
	engine.Reload(!cfg.IsProduction())

	app := fiber.New(fiber.Config{
		Views:        engine,
		BodyLimit:    1 << 20, // 1 MiB
		ErrorHandler: handlers.ErrorHandler,
	})

	// ---------- Middlewares ----------
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} ${method} ${path} ${latency}\n",
	}))
	app.Use(helmet.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: "GET,POST,PUT,DELETE",
	}))
	app.Use(limiter.New(limiter.Config{
		Max:        cfg.RateLimitMax,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), "/static/")
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.limit.hit", nil)
			return fiber.NewError(fiber.StatusTooManyRequests, "Too many requests, retry soon")
		},
	}))

	app.Static("/static", "./web/static")

	deps := handlers.NewDeps(db, cfg)
	deps.Mount(app)
	app.Use(handlers.NotFound)

	applog.Info(nil, "server.start", map[string]any{"port": cfg.Port, "db": cfg.DBDriver})

	log.Fatal(app.Listen(":" + cfg.Port))
}
