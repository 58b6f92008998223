package app

import (
	"go.uber.org/fx"

	"github.com/ceprunsa/consultorio_backend/config"
	"github.com/ceprunsa/consultorio_backend/internal/service/appointment"
	"github.com/ceprunsa/consultorio_backend/internal/service/export"
	svcfile "github.com/ceprunsa/consultorio_backend/internal/service/file"
	"github.com/ceprunsa/consultorio_backend/internal/service/process"
	"github.com/ceprunsa/consultorio_backend/internal/service/psychologist"
	"github.com/ceprunsa/consultorio_backend/internal/service/reason"
	"github.com/ceprunsa/consultorio_backend/internal/service/settings"
	"github.com/ceprunsa/consultorio_backend/internal/service/user"
	"github.com/ceprunsa/consultorio_backend/internal/store"
	pasetotoken "github.com/ceprunsa/consultorio_backend/pkg/paseto"
	s3pkg "github.com/ceprunsa/consultorio_backend/pkg/s3"
)

// ServiceModule provides all application service dependencies.
var ServiceModule = fx.Module("services",
	fx.Provide(
		ProvideAppointmentService,
		ProvideProcessService,
		ProvideReasonService,
		ProvidePsychologistService,
		ProvideSettingsService,
		ProvideUserService,
		ProvideFileService,
		ProvideExportService,
		ProvidePasetoManager,
	),
)

func ProvideAppointmentService(db *store.Stores) appointment.Service {
	return appointment.New(db)
}

func ProvideProcessService(db *store.Stores) process.Service {
	return process.New(db)
}

func ProvideReasonService(db *store.Stores) reason.Service {
	return reason.New(db)
}

func ProvidePsychologistService(db *store.Stores) psychologist.Service {
	return psychologist.New(db)
}

func ProvideSettingsService(db *store.Stores) settings.Service {
	return settings.New(db)
}

func ProvideUserService(db *store.Stores) user.Service {
	return user.New(db)
}

func ProvideFileService(bucket *s3pkg.Bucket, cfg *config.Config) svcfile.Service {
	return svcfile.New(bucket, cfg.Storage)
}

func ProvideExportService(appts appointment.Service) export.Service {
	return export.New(appts)
}

func ProvidePasetoManager(cfg *config.Config) (*pasetotoken.Manager, error) {
	return pasetotoken.NewPasetoManager(cfg)
}
