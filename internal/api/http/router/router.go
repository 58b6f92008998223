package router

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/ceprunsa/consultorio_backend/config"
	"github.com/ceprunsa/consultorio_backend/internal/api/http/handler"
	"github.com/ceprunsa/consultorio_backend/internal/api/http/middleware"
	"github.com/ceprunsa/consultorio_backend/internal/service/appointment"
	"github.com/ceprunsa/consultorio_backend/internal/service/export"
	"github.com/ceprunsa/consultorio_backend/internal/service/file"
	"github.com/ceprunsa/consultorio_backend/internal/service/process"
	"github.com/ceprunsa/consultorio_backend/internal/service/psychologist"
	"github.com/ceprunsa/consultorio_backend/internal/service/reason"
	"github.com/ceprunsa/consultorio_backend/internal/service/settings"
	"github.com/ceprunsa/consultorio_backend/internal/service/user"
	"github.com/ceprunsa/consultorio_backend/pkg/authorize"
	pasetotoken "github.com/ceprunsa/consultorio_backend/pkg/paseto"
)

// Module provides the Router to the fx graph.
var Module = fx.Module("router", fx.Provide(NewRouter))

type Params struct {
	fx.In

	Cfg             *config.Config
	Redis           *redis.Client
	Auth            authorize.IAuthorization
	UserSvc         user.Service
	AppointmentSvc  appointment.Service
	ProcessSvc      process.Service
	ReasonSvc       reason.Service
	PsychologistSvc psychologist.Service
	SettingsSvc     settings.Service
	FileSvc         file.Service
	ExportSvc       export.Service
	PasetoMgr       *pasetotoken.Manager
}

type Router struct {
	p Params
}

func NewRouter(p Params) *Router {
	return &Router{p: p}
}

func (r *Router) Register(app *fiber.App) {
	r.registerSystemRoutes(app)

	authRequired := middleware.AuthRequired(r.p.PasetoMgr, r.p.UserSvc, r.p.PsychologistSvc)

	requirePerm := func(res authorize.Resource, act authorize.Action) fiber.Handler {
		return middleware.RequirePermission(r.p.Auth, res, act)
	}

	appointmentH := handler.NewAppointmentHandler(r.p.AppointmentSvc, r.p.FileSvc, r.p.PsychologistSvc, r.p.Auth)
	processH := handler.NewProcessHandler(r.p.ProcessSvc)
	reasonH := handler.NewReasonHandler(r.p.ReasonSvc)
	psychologistH := handler.NewPsychologistHandler(r.p.PsychologistSvc)
	settingsH := handler.NewSettingsHandler(r.p.SettingsSvc)
	userH := handler.NewUserHandler(r.p.UserSvc)
	exportH := handler.NewExportHandler(r.p.ExportSvc)

	api := app.Group("/api/v1")

	r.registerAppointmentRoutes(api, appointmentH, exportH, authRequired, requirePerm)
	r.registerReferenceRoutes(api, processH, reasonH, psychologistH, authRequired, requirePerm)
	r.registerSettingsRoutes(api, settingsH, authRequired, requirePerm)
	r.registerUserRoutes(api, userH, authRequired, requirePerm)
}

func (r *Router) registerSystemRoutes(app *fiber.App) {
	app.Get(healthcheck.LivenessEndpoint, healthcheck.New())
	app.Get(healthcheck.ReadinessEndpoint, healthcheck.New(healthcheck.Config{
		Probe: func(c fiber.Ctx) bool {
			return r.p.Redis.Ping(c.Context()).Err() == nil
		},
	}))
	app.Get(healthcheck.StartupEndpoint, healthcheck.New())

	if r.p.Cfg.Observability.Enabled && r.p.Cfg.Observability.Metrics.Enabled {
		path := r.p.Cfg.Observability.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		app.Get(path, adaptor.HTTPHandler(promhttp.Handler()))
	}
}
