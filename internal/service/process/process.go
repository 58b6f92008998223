// Package process manages CEPRUNSA admission cycles. Processes are
// reference data: appointments snapshot the process name at save time, so
// renames and deactivations never rewrite existing records.
package process

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/ceprunsa/consultorio_backend/internal/model"
	"github.com/ceprunsa/consultorio_backend/internal/policy"
	"github.com/ceprunsa/consultorio_backend/internal/store"
)

type SaveRequest struct {
	Name      string
	StartDate string // YYYY-MM-DD, optional
	EndDate   string // YYYY-MM-DD, optional
	IsActive  bool
}

type Service interface {
	List(ctx context.Context) ([]model.Process, error)
	Active(ctx context.Context) ([]model.Process, error)
	GetByID(ctx context.Context, id string) (*model.Process, error)
	Create(ctx context.Context, actor model.Actor, req SaveRequest) (*model.Process, error)
	Update(ctx context.Context, actor model.Actor, id string, req SaveRequest) (*model.Process, error)
	SetActive(ctx context.Context, actor model.Actor, id string, active bool) (*model.Process, error)
	Delete(ctx context.Context, actor model.Actor, id string) error
}

type processService struct {
	db  *store.Stores
	now func() string
}

func New(db *store.Stores) Service {
	return &processService{db: db, now: model.NowISO}
}

func (s *processService) List(ctx context.Context) ([]model.Process, error) {
	procs, err := s.db.Processes.List(ctx, nil)
	if err != nil {
		return nil, repositoryErr("list processes", err)
	}
	sortProcesses(procs)
	return procs, nil
}

func (s *processService) Active(ctx context.Context) ([]model.Process, error) {
	procs, err := s.db.Processes.List(ctx, func(p model.Process) bool { return p.IsActive })
	if err != nil {
		return nil, repositoryErr("list active processes", err)
	}
	sortProcesses(procs)
	return procs, nil
}

func (s *processService) GetByID(ctx context.Context, id string) (*model.Process, error) {
	proc, err := s.db.Processes.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, repositoryErr("get process", err)
	}
	return proc, nil
}

func (s *processService) Create(ctx context.Context, actor model.Actor, req SaveRequest) (*model.Process, error) {
	if !policy.CanCreateOrEdit(actor.Role) {
		return nil, ErrPermissionDenied
	}
	if err := validate(&req); err != nil {
		return nil, err
	}

	proc := model.Process{
		Name:      req.Name,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		IsActive:  req.IsActive,
		CreatedAt: s.now(),
		CreatedBy: actor.AuditEmail(),
	}
	created, err := s.db.Processes.Create(ctx, proc)
	if err != nil {
		return nil, repositoryErr("create process", err)
	}
	return created, nil
}

func (s *processService) Update(ctx context.Context, actor model.Actor, id string, req SaveRequest) (*model.Process, error) {
	if !policy.CanCreateOrEdit(actor.Role) {
		return nil, ErrPermissionDenied
	}
	if err := validate(&req); err != nil {
		return nil, err
	}

	updated, err := s.db.Processes.Update(ctx, id, func(p *model.Process) error {
		p.Name = req.Name
		p.StartDate = req.StartDate
		p.EndDate = req.EndDate
		p.IsActive = req.IsActive
		p.UpdatedAt = s.now()
		p.UpdatedBy = actor.AuditEmail()
		return nil
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, repositoryErr("update process", err)
	}
	return updated, nil
}

func (s *processService) SetActive(ctx context.Context, actor model.Actor, id string, active bool) (*model.Process, error) {
	if !policy.CanCreateOrEdit(actor.Role) {
		return nil, ErrPermissionDenied
	}

	updated, err := s.db.Processes.Update(ctx, id, func(p *model.Process) error {
		p.IsActive = active
		p.UpdatedAt = s.now()
		p.UpdatedBy = actor.AuditEmail()
		return nil
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, repositoryErr("toggle process", err)
	}
	return updated, nil
}

func (s *processService) Delete(ctx context.Context, actor model.Actor, id string) error {
	if !policy.CanDelete(actor.Role) {
		return ErrPermissionDenied
	}
	if err := s.db.Processes.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return repositoryErr("delete process", err)
	}
	return nil
}

func validate(req *SaveRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return validationf("process name is required")
	}
	for _, d := range []string{req.StartDate, req.EndDate} {
		if d == "" {
			continue
		}
		if _, err := time.Parse("2006-01-02", d); err != nil {
			return validationf("dates must be YYYY-MM-DD")
		}
	}
	if req.StartDate != "" && req.EndDate != "" && req.EndDate < req.StartDate {
		return validationf("end date is before start date")
	}
	return nil
}

// Newest cycles first; ties broken by name for a stable listing.
func sortProcesses(procs []model.Process) {
	sort.SliceStable(procs, func(i, j int) bool {
		if procs[i].StartDate != procs[j].StartDate {
			return procs[i].StartDate > procs[j].StartDate
		}
		return procs[i].Name < procs[j].Name
	})
}
