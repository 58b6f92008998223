package psychologist

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

func validRequest() SaveRequest {
	return SaveRequest{
		FullName:           "Ana Salas",
		DNI:                "40404040",
		InstitutionalEmail: "asalas@ceprunsa.edu.pe",
		UserID:             "u-psy",
	}
}

func TestCreateValidation(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*SaveRequest)
	}{
		{"blank name", func(r *SaveRequest) { r.FullName = "  " }},
		{"short dni", func(r *SaveRequest) { r.DNI = "1234" }},
		{"non-numeric dni", func(r *SaveRequest) { r.DNI = "4040404a" }},
		{"missing institutional email", func(r *SaveRequest) { r.InstitutionalEmail = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)
			if _, err := svc.Create(ctx, admin, req); !errors.Is(err, ErrValidation) {
				t.Errorf("got %v, want ErrValidation", err)
			}
		})
	}
}

func TestCreatePermission(t *testing.T) {
	svc := newService(t)

	if _, err := svc.Create(context.Background(), psyActor, validRequest()); !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("psychologist create: got %v, want ErrPermissionDenied", err)
	}
}

func TestCreateNormalizesPhone(t *testing.T) {
	svc := newService(t)

	req := validRequest()
	req.Phone = "959 123 456"
	created, err := svc.Create(context.Background(), admin, req)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Phone != "+51959123456" {
		t.Errorf("phone = %q, want +51959123456", created.Phone)
	}
}

// ByUserID is the link the auth middleware uses to scope psychologist-role
// visibility, so both directions matter: the linked record resolves, and an
// unlinked identity gets ErrNotFound instead of someone else's record.
func TestByUserID(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, admin, validRequest())
	if err != nil {
		t.Fatalf("seed psychologist: %v", err)
	}
	other := validRequest()
	other.FullName = "Bruno Díaz"
	other.DNI = "50505050"
	other.UserID = "u-other"
	if _, err := svc.Create(ctx, admin, other); err != nil {
		t.Fatalf("seed second psychologist: %v", err)
	}

	t.Run("resolves the linked record", func(t *testing.T) {
		p, err := svc.ByUserID(ctx, "u-psy")
		if err != nil {
			t.Fatalf("ByUserID: %v", err)
		}
		if p.ID != created.ID {
			t.Errorf("resolved id = %q, want %q", p.ID, created.ID)
		}
	})

	t.Run("unlinked user gets not found", func(t *testing.T) {
		if _, err := svc.ByUserID(ctx, "u-unlinked"); !errors.Is(err, ErrNotFound) {
			t.Errorf("got %v, want ErrNotFound", err)
		}
	})

	t.Run("empty user id gets not found", func(t *testing.T) {
		if _, err := svc.ByUserID(ctx, ""); !errors.Is(err, ErrNotFound) {
			t.Errorf("got %v, want ErrNotFound", err)
		}
	})
}

func TestListSortsByName(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	for _, seed := range []struct{ name, dni, userID string }{
		{"carla torres", "60606060", "u-c"},
		{"Ana Salas", "40404040", "u-a"},
		{"Bruno Díaz", "50505050", "u-b"},
	} {
		req := validRequest()
		req.FullName = seed.name
		req.DNI = seed.dni
		req.UserID = seed.userID
		if _, err := svc.Create(ctx, admin, req); err != nil {
			t.Fatalf("seed %q: %v", seed.name, err)
		}
	}

	psychs, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(psychs) != 3 {
		t.Fatalf("count = %d, want 3", len(psychs))
	}
	if psychs[0].FullName != "Ana Salas" || psychs[1].FullName != "Bruno Díaz" || psychs[2].FullName != "carla torres" {
		t.Errorf("unexpected order: %q, %q, %q", psychs[0].FullName, psychs[1].FullName, psychs[2].FullName)
	}
}

func TestDelete(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, admin, validRequest())
	if err != nil {
		t.Fatalf("create: %v", err)
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
