package handler

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v3"
	"github.com/redis/go-redis/v9"

	"github.com/ceprunsa/consultorio_backend/internal/api/http/middleware"
	"github.com/ceprunsa/consultorio_backend/internal/model"
	"github.com/ceprunsa/consultorio_backend/internal/service/appointment"
	"github.com/ceprunsa/consultorio_backend/internal/service/psychologist"
	"github.com/ceprunsa/consultorio_backend/internal/store"
	"github.com/ceprunsa/consultorio_backend/pkg/authorize"
)

// dashboardFixture wires a real store, the shipped policy files and a fiber
// app that injects the given actor before invoking the dashboard handler.
type dashboardFixture struct {
	db  *store.Stores
	psy model.Psychologist
	h   *AppointmentHandler
}

func newDashboardFixture(t *testing.T) *dashboardFixture {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	db := store.NewStores(rdb)
	ctx := context.Background()

	psy, err := db.Psychologists.Create(ctx, model.Psychologist{
		FullName: "Ana Salas", DNI: "40404040",
		InstitutionalEmail: "psy@ceprunsa.edu.pe", UserID: "u-psy",
	})
	if err != nil {
		t.Fatalf("seed psychologist: %v", err)
	}
	if _, err := db.Appointments.Create(ctx, model.Appointment{
		Client:         model.Client{FullName: "María Quispe", DNI: "12345678", Situation: model.SituationCeprunsa},
		PsychologistID: psy.ID,
		Date:           model.Today(),
		Time:           "10:00",
		Status:         model.StatusScheduled,
		Modality:       model.ModalityPresential,
	}); err != nil {
		t.Fatalf("seed appointment: %v", err)
	}

	e, err := authorize.NewEnforcer(
		filepath.Join("..", "..", "..", "..", "config", "rbac_model.conf"),
		filepath.Join("..", "..", "..", "..", "config", "rbac_policy.csv"),
	)
	if err != nil {
		t.Fatalf("load shipped policy: %v", err)
	}
	auth, err := authorize.NewAuthorization(e)
	if err != nil {
		t.Fatalf("wrap enforcer: %v", err)
	}

	h := NewAppointmentHandler(appointment.New(db), nil, psychologist.New(db), auth)
	return &dashboardFixture{db: db, psy: *psy, h: h}
}

func (f *dashboardFixture) request(t *testing.T, actor model.Actor) map[string]json.RawMessage {
	t.Helper()
	app := fiber.New()
	app.Get("/dashboard", func(c fiber.Ctx) error {
		c.Locals(middleware.LocalActor, actor)
		return f.h.Dashboard(c)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/dashboard", nil))
	if err != nil {
		t.Fatalf("dashboard request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var envelope struct {
		Data map[string]json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return envelope.Data
}

func TestDashboardStatsVisibility(t *testing.T) {
	f := newDashboardFixture(t)

	t.Run("psychologist sees today and upcoming without stats", func(t *testing.T) {
		actor := model.Actor{
			UserID: "u-psy", Email: "psy@ceprunsa.edu.pe",
			Role: authorize.RolePsychologist, PsychologistID: f.psy.ID,
		}
		data := f.request(t, actor)

		var today []model.Appointment
		if err := json.Unmarshal(data["today"], &today); err != nil {
			t.Fatalf("decode today: %v", err)
		}
		if len(today) != 1 {
			t.Errorf("today count = %d, want 1", len(today))
		}
		if _, hasUpcoming := data["upcoming"]; !hasUpcoming {
			t.Error("upcoming missing from psychologist dashboard")
		}
		if _, hasStats := data["stats"]; hasStats {
			t.Error("stats present for psychologist role")
		}
	})

	t.Run("coordinator gets the stats block", func(t *testing.T) {
		actor := model.Actor{UserID: "u-coord", Email: "coord@ceprunsa.edu.pe", Role: authorize.RoleCoordinator}
		data := f.request(t, actor)

		raw, hasStats := data["stats"]
		if !hasStats {
			t.Fatal("stats missing for coordinator role")
		}
		var stats []appointment.StatRow
		if err := json.Unmarshal(raw, &stats); err != nil {
			t.Fatalf("decode stats: %v", err)
		}
		if len(stats) != 1 {
			t.Errorf("stats rows = %d, want 1", len(stats))
		}
	})
}
