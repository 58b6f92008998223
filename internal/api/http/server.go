package http

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/helmet"
	"github.com/gofiber/fiber/v3/middleware/logger"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/ceprunsa/consultorio_backend/config"
	"github.com/ceprunsa/consultorio_backend/internal/api/http/middleware"
	"github.com/ceprunsa/consultorio_backend/internal/api/http/router"
	"github.com/ceprunsa/consultorio_backend/pkg/observability"
)

// Module provides the fiber app to the fx graph.
var Module = fx.Module("http", fx.Provide(NewServer))

type Params struct {
	fx.In

	Lifecycle fx.Lifecycle
	Cfg       *config.Config
	Redis     *redis.Client
	Router    *router.Router
	OTel      *observability.Provider `optional:"true"`
}

// NewServer assembles the fiber app: tracing first so spans cover the whole
// chain, then the global middleware stack, then the routes. Listen/Shutdown
// hang off the fx lifecycle.
func NewServer(p Params) *fiber.App {
	maxUploadMB := p.Cfg.Storage.MaxUploadMB
	if maxUploadMB <= 0 {
		maxUploadMB = 10
	}
	app := fiber.New(fiber.Config{
		AppName: p.Cfg.Observability.ServiceName,
		// Room for a PDF upload plus multipart overhead.
		BodyLimit: (maxUploadMB + 1) * 1024 * 1024,
	})

	if p.OTel != nil && p.Cfg.Observability.Tracing.Enabled {
		app.Use(observability.FiberMiddleware(p.Cfg.Observability.ServiceName))
	}

	app.Use(middleware.RequestID())
	app.Use(recoverer.New())

	// Hardening only matters outside local development.
	if p.Cfg.Server.Environment == "production" {
		app.Use(helmet.New())
		if p.Cfg.Server.CORS.Enabled {
			app.Use(cors.New(cors.Config{AllowOrigins: p.Cfg.Server.CORS.AllowOrigins}))
		}
		app.Use(middleware.NewLimiterWithRedis(p.Redis))
	}

	app.Use(logger.New(logger.Config{
		Format: "${ip} - [${time}] [req_id=${requestId}] ${method} ${url} ${status}\n",
	}))

	p.Router.Register(app)

	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			addr := fmt.Sprintf(":%d", p.Cfg.Server.Port)
			go func() {
				if err := app.Listen(addr); err != nil {
					slog.Error("HTTP server error", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.ShutdownWithContext(ctx)
		},
	})

	return app
}
