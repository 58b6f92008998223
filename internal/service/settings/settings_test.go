package settings

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/ceprunsa/consultorio_backend/internal/model"
	"github.com/ceprunsa/consultorio_backend/internal/store"
	"github.com/ceprunsa/consultorio_backend/pkg/authorize"
)

var (
	admin    = model.Actor{UserID: "u-admin", Email: "admin@ceprunsa.edu.pe", Role: authorize.RoleAdmin}
	psyActor = model.Actor{UserID: "u-psy", Email: "psy@ceprunsa.edu.pe", Role: authorize.RolePsychologist}
)

func newService(t *testing.T) Service {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return New(store.NewStores(rdb))
}

func TestGetSeedsDefaults(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	got, err := svc.Get(ctx)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ID != SettingsDocID {
		t.Errorf("id = %q, want %q", got.ID, SettingsDocID)
	}
	if got.General.CenterName != "Consultorio Psicológico CEPRUNSA" {
		t.Errorf("centerName = %q", got.General.CenterName)
	}
	if got.Appointments.DefaultDurationMinutes != 60 {
		t.Errorf("defaultDurationMinutes = %d", got.Appointments.DefaultDurationMinutes)
	}

	// Second read returns the persisted document, not a fresh seed.
	again, err := svc.Get(ctx)
	if err != nil {
		t.Fatalf("second Get: %v", err)
	}
	if again.ID != SettingsDocID {
		t.Errorf("second read id = %q", again.ID)
	}
}

func TestUpdate(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	valid := model.DefaultSettings()
	valid.General.CenterName = "Consultorio CEPRUNSA - Sede Central"
	valid.Appointments.WorkingHoursEnd = "17:00"

	t.Run("requires coordinator or admin", func(t *testing.T) {
		if _, err := svc.Update(ctx, psyActor, valid); !errors.Is(err, ErrPermissionDenied) {
			t.Errorf("got %v, want ErrPermissionDenied", err)
		}
	})

	t.Run("persists changes", func(t *testing.T) {
		updated, err := svc.Update(ctx, admin, valid)
		if err != nil {
			t.Fatalf("Update: %v", err)
		}
		if updated.ID != SettingsDocID {
			t.Errorf("id = %q, want %q", updated.ID, SettingsDocID)
		}

		got, err := svc.Get(ctx)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if got.General.CenterName != "Consultorio CEPRUNSA - Sede Central" {
			t.Errorf("centerName = %q", got.General.CenterName)
		}
		if got.Appointments.WorkingHoursEnd != "17:00" {
			t.Errorf("workingHoursEnd = %q", got.Appointments.WorkingHoursEnd)
		}
	})
}

func TestUpdateValidation(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	mutate := func(fn func(*model.SystemSettings)) model.SystemSettings {
		s := model.DefaultSettings()
		fn(&s)
		return s
	}

	tests := []struct {
		name string
		in   model.SystemSettings
	}{
		{"blank center name", mutate(func(s *model.SystemSettings) { s.General.CenterName = "  " })},
		{"zero duration", mutate(func(s *model.SystemSettings) { s.Appointments.DefaultDurationMinutes = 0 })},
		{"negative max per day", mutate(func(s *model.SystemSettings) { s.Appointments.MaxPerDay = -1 })},
		{"bad working hours", mutate(func(s *model.SystemSettings) { s.Appointments.WorkingHoursStart = "8am" })},
		{"end before start", mutate(func(s *model.SystemSettings) {
			s.Appointments.WorkingHoursStart = "18:00"
			s.Appointments.WorkingHoursEnd = "08:00"
		})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Update(ctx, admin, tt.in); !errors.Is(err, ErrValidation) {
				t.Errorf("got %v, want ErrValidation", err)
			}
		})
	}
}
