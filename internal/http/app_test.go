package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"customcars/internal/config"
	"customcars/internal/http/handlers"
	applog "customcars/internal/log"
	"customcars/internal/repos"
)

// Seeded option ids, in insertion order.
const (
	extRed int64 = iota + 1
	extBlue
	extBlack
	extWhite
	extSilver
	wheelsStandard
	wheelsSport
	wheelsLuxury
	wheelsPerformance
	intBlack
	intBrown
	intWhite
	intRed
	engStandard
	engTurbo
	engElectric
	engHybrid
)

type appOpts struct {
	rateMax int
	routes  func(app *fiber.App)
}

// newApp wires the real routes on a fresh in-memory database.
func newApp(t *testing.T, opts ...appOpts) (*fiber.App, *sqlx.DB) {
	t.Helper()
	cfg := config.Config{DBDriver: repos.DriverSQLite, DBDSN: ":memory:", CatalogTTL: time.Minute}
	db, err := repos.OpenDB(cfg.DBDriver, cfg.DBDSN)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	engine := html.New("../../web/templates", ".html")
	app := fiber.New(fiber.Config{
		Views:        engine,
		BodyLimit:    1 << 20,
		ErrorHandler: handlers.ErrorHandler,
	})
	app.Use(requestid.New())
	var o appOpts
	if len(opts) > 0 {
		o = opts[0]
	}
	if o.rateMax > 0 {
		app.Use(limiter.New(limiter.Config{Max: o.rateMax, Expiration: time.Minute}))
	}
	handlers.NewDeps(db, cfg).Mount(app)
	if o.routes != nil {
		o.routes(app)
	}
	app.Use(handlers.NotFound)
	return app, db
}

// observe routes the app logger into memory for the rest of the test.
func observe(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	restore := applog.Use(zap.New(core))
	t.Cleanup(restore)
	return logs
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			r = strings.NewReader(b)
		default:
			raw, err := json.Marshal(b)
			require.NoError(t, err)
			r = bytes.NewReader(raw)
		}
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, out
}

func postForm(t *testing.T, app *fiber.App, path, form string) (*http.Response, string) {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(form))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(out)
}

func get(t *testing.T, app *fiber.App, path string) (*http.Response, string) {
	t.Helper()
	resp, body := doJSON(t, app, "GET", path, nil)
	return resp, string(body)
}

func features(ext, wheels, interior, engine int64) map[string]any {
	return map[string]any{"exterior": ext, "wheels": wheels, "interior": interior, "engine": engine}
}
