package store

import (
	"github.com/redis/go-redis/v9"

	"github.com/ceprunsa/consultorio_backend/internal/model"
)

// Stores bundles the typed collection handles the services work with.
type Stores struct {
	Appointments  *Collection[model.Appointment]
	Processes     *Collection[model.Process]
	Reasons       *Collection[model.ConsultationReason]
	Psychologists *Collection[model.Psychologist]
	Users         *Collection[model.User]
	Settings      *Collection[model.SystemSettings]
}

func NewStores(rdb *redis.Client) *Stores {
	return &Stores{
		Appointments:  NewCollection(rdb, Appointments, func(a *model.Appointment) *string { return &a.ID }),
		Processes:     NewCollection(rdb, Processes, func(p *model.Process) *string { return &p.ID }),
		Reasons:       NewCollection(rdb, Reasons, func(r *model.ConsultationReason) *string { return &r.ID }),
		Psychologists: NewCollection(rdb, Psychologists, func(p *model.Psychologist) *string { return &p.ID }),
		Users:         NewCollection(rdb, Users, func(u *model.User) *string { return &u.ID }),
		Settings:      NewCollection(rdb, Settings, func(s *model.SystemSettings) *string { return &s.ID }),
	}
}
