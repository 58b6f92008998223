// Package reason manages the catalog of consultation reasons offered when
// booking an appointment. Like processes, reasons are soft-deactivated;
// appointments keep the denormalized reason name they were created with.
package reason

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/ceprunsa/consultorio_backend/internal/model"
	"github.com/ceprunsa/consultorio_backend/internal/policy"
	"github.com/ceprunsa/consultorio_backend/internal/store"
)

type SaveRequest struct {
	Name        string
	Description string
	IsActive    bool
}

type Service interface {
	List(ctx context.Context) ([]model.ConsultationReason, error)
	Active(ctx context.Context) ([]model.ConsultationReason, error)
	GetByID(ctx context.Context, id string) (*model.ConsultationReason, error)
	Create(ctx context.Context, actor model.Actor, req SaveRequest) (*model.ConsultationReason, error)
	Update(ctx context.Context, actor model.Actor, id string, req SaveRequest) (*model.ConsultationReason, error)
	SetActive(ctx context.Context, actor model.Actor, id string, active bool) (*model.ConsultationReason, error)
	Delete(ctx context.Context, actor model.Actor, id string) error
}

type reasonService struct {
	db  *store.Stores
	now func() string
}

func New(db *store.Stores) Service {
	return &reasonService{db: db, now: model.NowISO}
}

func (s *reasonService) List(ctx context.Context) ([]model.ConsultationReason, error) {
	reasons, err := s.db.Reasons.List(ctx, nil)
	if err != nil {
		return nil, repositoryErr("list reasons", err)
	}
	sortReasons(reasons)
	return reasons, nil
}

func (s *reasonService) Active(ctx context.Context) ([]model.ConsultationReason, error) {
	reasons, err := s.db.Reasons.List(ctx, func(r model.ConsultationReason) bool { return r.IsActive })
	if err != nil {
		return nil, repositoryErr("list active reasons", err)
	}
	sortReasons(reasons)
	return reasons, nil
}

func (s *reasonService) GetByID(ctx context.Context, id string) (*model.ConsultationReason, error) {
	r, err := s.db.Reasons.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, repositoryErr("get reason", err)
	}
	return r, nil
}

func (s *reasonService) Create(ctx context.Context, actor model.Actor, req SaveRequest) (*model.ConsultationReason, error) {
	if !policy.CanCreateOrEdit(actor.Role) {
		return nil, ErrPermissionDenied
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return nil, validationf("reason name is required")
	}

	r := model.ConsultationReason{
		Name:        req.Name,
		Description: strings.TrimSpace(req.Description),
		IsActive:    req.IsActive,
		CreatedAt:   s.now(),
		CreatedBy:   actor.AuditEmail(),
	}
	created, err := s.db.Reasons.Create(ctx, r)
	if err != nil {
		return nil, repositoryErr("create reason", err)
	}
	return created, nil
}

func (s *reasonService) Update(ctx context.Context, actor model.Actor, id string, req SaveRequest) (*model.ConsultationReason, error) {
	if !policy.CanCreateOrEdit(actor.Role) {
		return nil, ErrPermissionDenied
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return nil, validationf("reason name is required")
	}

	updated, err := s.db.Reasons.Update(ctx, id, func(r *model.ConsultationReason) error {
		r.Name = req.Name
		r.Description = strings.TrimSpace(req.Description)
		r.IsActive = req.IsActive
		r.UpdatedAt = s.now()
		r.UpdatedBy = actor.AuditEmail()
		return nil
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, repositoryErr("update reason", err)
	}
	return updated, nil
}

func (s *reasonService) SetActive(ctx context.Context, actor model.Actor, id string, active bool) (*model.ConsultationReason, error) {
	if !policy.CanCreateOrEdit(actor.Role) {
		return nil, ErrPermissionDenied
	}

	updated, err := s.db.Reasons.Update(ctx, id, func(r *model.ConsultationReason) error {
		r.IsActive = active
		r.UpdatedAt = s.now()
		r.UpdatedBy = actor.AuditEmail()
		return nil
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, repositoryErr("toggle reason", err)
	}
	return updated, nil
}

func (s *reasonService) Delete(ctx context.Context, actor model.Actor, id string) error {
	if !policy.CanDelete(actor.Role) {
		return ErrPermissionDenied
	}
	if err := s.db.Reasons.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return repositoryErr("delete reason", err)
	}
	return nil
}

func sortReasons(reasons []model.ConsultationReason) {
	sort.SliceStable(reasons, func(i, j int) bool {
		return strings.ToLower(reasons[i].Name) < strings.ToLower(reasons[j].Name)
	})
}
