package reason

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

func TestCreateValidation(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, admin, SaveRequest{Name: "  "}); !errors.Is(err, ErrValidation) {
		t.Errorf("blank name: got %v, want ErrValidation", err)
	}

	created, err := svc.Create(ctx, admin, SaveRequest{Name: "  Ansiedad académica ", Description: " Estrés por exámenes ", IsActive: true})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Name != "Ansiedad académica" || created.Description != "Estrés por exámenes" {
		t.Errorf("fields not trimmed: %q / %q", created.Name, created.Description)
	}
}

func TestCreatePermission(t *testing.T) {
	svc := newService(t)

	if _, err := svc.Create(context.Background(), psyActor, SaveRequest{Name: "Orientación vocacional"}); !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("psychologist create: got %v, want ErrPermissionDenied", err)
	}
}

func TestActiveFiltersAndSorts(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	seed := []SaveRequest{
		{Name: "problemas familiares", IsActive: true},
		{Name: "Orientación vocacional", IsActive: false},
		{Name: "Ansiedad académica", IsActive: true},
	}
	for _, req := range seed {
		if _, err := svc.Create(ctx, admin, req); err != nil {
			t.Fatalf("seed %q: %v", req.Name, err)
		}
	}

	active, err := svc.Active(ctx)
	if err != nil {
		t.Fatalf("Active: %v", err)
	}
	if len(active) != 2 {
		t.Fatalf("active count = %d, want 2", len(active))
	}
	if active[0].Name != "Ansiedad académica" || active[1].Name != "problemas familiares" {
		t.Errorf("unexpected order: %q, %q", active[0].Name, active[1].Name)
	}
}

func TestSetActiveAndDelete(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, admin, SaveRequest{Name: "Ansiedad académica", IsActive: true})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.SetActive(ctx, psyActor, created.ID, false); !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("psychologist toggle: got %v, want ErrPermissionDenied", err)
	}

	toggled, err := svc.SetActive(ctx, admin, created.ID, false)
	if err != nil {
		t.Fatalf("SetActive: %v", err)
	}
	if toggled.IsActive {
		t.Error("reason still active after toggle")
	}
	if toggled.UpdatedBy != "admin@ceprunsa.edu.pe" {
		t.Errorf("updatedBy = %q", toggled.UpdatedBy)
	}

	if err := svc.Delete(ctx, psyActor, created.ID); !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("psychologist delete: got %v, want ErrPermissionDenied", err)
	}
	if err := svc.Delete(ctx, admin, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.GetByID(ctx, created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("get after delete: got %v, want ErrNotFound", err)
	}
}
