// Package psychologist manages staff records. A record may be linked to a
// login identity through its userId; that link is what the auth middleware
// uses to scope a psychologist-role user to their own appointments.
package psychologist

import (
	"context"
	"errors"
	"regexp"
	"sort"
	"strings"

	"github.com/nyaruka/phonenumbers"

	"github.com/ceprunsa/consultorio_backend/internal/model"
	"github.com/ceprunsa/consultorio_backend/internal/policy"
	"github.com/ceprunsa/consultorio_backend/internal/store"
)

type SaveRequest struct {
	FullName           string
	DNI                string
	InstitutionalEmail string
	PersonalEmail      string
	Phone              string
	UserID             string
}

type Service interface {
	List(ctx context.Context) ([]model.Psychologist, error)
	GetByID(ctx context.Context, id string) (*model.Psychologist, error)
	ByUserID(ctx context.Context, userID string) (*model.Psychologist, error)
	Create(ctx context.Context, actor model.Actor, req SaveRequest) (*model.Psychologist, error)
	Update(ctx context.Context, actor model.Actor, id string, req SaveRequest) (*model.Psychologist, error)
	Delete(ctx context.Context, actor model.Actor, id string) error
}

type psychologistService struct {
	db  *store.Stores
	now func() string
}

func New(db *store.Stores) Service {
	return &psychologistService{db: db, now: model.NowISO}
}

var dniRe = regexp.MustCompile(`^[0-9]{8}$`)

func (s *psychologistService) List(ctx context.Context) ([]model.Psychologist, error) {
	psychs, err := s.db.Psychologists.List(ctx, nil)
	if err != nil {
		return nil, repositoryErr("list psychologists", err)
	}
	sort.SliceStable(psychs, func(i, j int) bool {
		return strings.ToLower(psychs[i].FullName) < strings.ToLower(psychs[j].FullName)
	})
	return psychs, nil
}

func (s *psychologistService) GetByID(ctx context.Context, id string) (*model.Psychologist, error) {
	p, err := s.db.Psychologists.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, repositoryErr("get psychologist", err)
	}
	return p, nil
}

// ByUserID resolves the staff record linked to a login identity. Returns
// ErrNotFound when the user has no linked record.
func (s *psychologistService) ByUserID(ctx context.Context, userID string) (*model.Psychologist, error) {
	if userID == "" {
		return nil, ErrNotFound
	}
	psychs, err := s.db.Psychologists.List(ctx, func(p model.Psychologist) bool { return p.UserID == userID })
	if err != nil {
		return nil, repositoryErr("find psychologist by user", err)
	}
	if len(psychs) == 0 {
		return nil, ErrNotFound
	}
	return &psychs[0], nil
}

func (s *psychologistService) Create(ctx context.Context, actor model.Actor, req SaveRequest) (*model.Psychologist, error) {
	if !policy.CanCreateOrEdit(actor.Role) {
		return nil, ErrPermissionDenied
	}
	if err := validate(&req); err != nil {
		return nil, err
	}

	p := model.Psychologist{
		FullName:           req.FullName,
		DNI:                req.DNI,
		InstitutionalEmail: req.InstitutionalEmail,
		PersonalEmail:      req.PersonalEmail,
		Phone:              req.Phone,
		UserID:             req.UserID,
		CreatedAt:          s.now(),
		CreatedBy:          actor.AuditEmail(),
	}
	created, err := s.db.Psychologists.Create(ctx, p)
	if err != nil {
		return nil, repositoryErr("create psychologist", err)
	}
	return created, nil
}

func (s *psychologistService) Update(ctx context.Context, actor model.Actor, id string, req SaveRequest) (*model.Psychologist, error) {
	if !policy.CanCreateOrEdit(actor.Role) {
		return nil, ErrPermissionDenied
	}
	if err := validate(&req); err != nil {
		return nil, err
	}

	updated, err := s.db.Psychologists.Update(ctx, id, func(p *model.Psychologist) error {
		p.FullName = req.FullName
		p.DNI = req.DNI
		p.InstitutionalEmail = req.InstitutionalEmail
		p.PersonalEmail = req.PersonalEmail
		p.Phone = req.Phone
		p.UserID = req.UserID
		p.UpdatedAt = s.now()
		p.UpdatedBy = actor.AuditEmail()
		return nil
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, repositoryErr("update psychologist", err)
	}
	return updated, nil
}

func (s *psychologistService) Delete(ctx context.Context, actor model.Actor, id string) error {
	if !policy.CanDelete(actor.Role) {
		return ErrPermissionDenied
	}
	if err := s.db.Psychologists.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return repositoryErr("delete psychologist", err)
	}
	return nil
}

func validate(req *SaveRequest) error {
	req.FullName = strings.TrimSpace(req.FullName)
	req.DNI = strings.TrimSpace(req.DNI)
	req.InstitutionalEmail = strings.TrimSpace(req.InstitutionalEmail)
	req.PersonalEmail = strings.TrimSpace(req.PersonalEmail)

	if req.FullName == "" {
		return validationf("full name is required")
	}
	if !dniRe.MatchString(req.DNI) {
		return validationf("dni must be exactly 8 digits")
	}
	if req.InstitutionalEmail == "" {
		return validationf("institutional email is required")
	}

	if req.Phone != "" {
		if num, err := phonenumbers.Parse(req.Phone, "PE"); err == nil && phonenumbers.IsValidNumber(num) {
			req.Phone = phonenumbers.Format(num, phonenumbers.E164)
		}
	}
	return nil
}
