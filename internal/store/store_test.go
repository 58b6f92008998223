package store

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/ceprunsa/consultorio_backend/internal/model"
)

func newTestCollection(t *testing.T) *Collection[model.Process] {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewCollection(rdb, Processes, func(p *model.Process) *string { return &p.ID })
}

func TestCreateAssignsID(t *testing.T) {
	c := newTestCollection(t)
	ctx := context.Background()

	created, err := c.Create(ctx, model.Process{Name: "CEPRUNSA 2026 I", IsActive: true})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID == "" {
		t.Fatal("Create did not assign an id")
	}

	got, err := c.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Name != "CEPRUNSA 2026 I" {
		t.Errorf("got name %q, want %q", got.Name, "CEPRUNSA 2026 I")
	}
}

func TestGetMissingReturnsNotFound(t *testing.T) {
	c := newTestCollection(t)

	_, err := c.Get(context.Background(), "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Get on missing id: got %v, want ErrNotFound", err)
	}
}

func TestListWithPredicate(t *testing.T) {
	c := newTestCollection(t)
	ctx := context.Background()

	for _, p := range []model.Process{
		{Name: "2025 II", IsActive: false},
		{Name: "2026 I", IsActive: true},
		{Name: "2026 II", IsActive: true},
	} {
		if _, err := c.Create(ctx, p); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	all, err := c.List(ctx, nil)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 documents, got %d", len(all))
	}

	active, err := c.List(ctx, func(p model.Process) bool { return p.IsActive })
	if err != nil {
		t.Fatalf("List with predicate failed: %v", err)
	}
	if len(active) != 2 {
		t.Errorf("expected 2 active documents, got %d", len(active))
	}
}

func TestUpdateMutatesOnlyTouchedFields(t *testing.T) {
	c := newTestCollection(t)
	ctx := context.Background()

	created, err := c.Create(ctx, model.Process{Name: "2026 I", StartDate: "2025-10-01", IsActive: true})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	updated, err := c.Update(ctx, created.ID, func(p *model.Process) error {
		p.IsActive = false
		return nil
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.IsActive {
		t.Error("Update did not apply the mutation")
	}
	if updated.StartDate != "2025-10-01" {
		t.Errorf("Update clobbered an untouched field: startDate = %q", updated.StartDate)
	}
}

func TestUpdateMissingReturnsNotFound(t *testing.T) {
	c := newTestCollection(t)

	_, err := c.Update(context.Background(), "nope", func(p *model.Process) error { return nil })
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Update on missing id: got %v, want ErrNotFound", err)
	}
}

func TestDelete(t *testing.T) {
	c := newTestCollection(t)
	ctx := context.Background()

	created, err := c.Create(ctx, model.Process{Name: "2026 I"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := c.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := c.Get(ctx, created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after delete: got %v, want ErrNotFound", err)
	}
	if err := c.Delete(ctx, created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete: got %v, want ErrNotFound", err)
	}
}
