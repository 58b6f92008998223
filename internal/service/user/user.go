// Package user manages login identities and their roles. Only admins touch
// user records; the role stored here is what both the route RBAC layer and
// the core role policy evaluate.
package user

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/ceprunsa/consultorio_backend/internal/model"
	"github.com/ceprunsa/consultorio_backend/internal/store"
	"github.com/ceprunsa/consultorio_backend/pkg/authorize"
)

type CreateRequest struct {
	Email       string
	DisplayName string
	Role        authorize.Role
}

type Service interface {
	List(ctx context.Context) ([]model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	ByEmail(ctx context.Context, email string) (*model.User, error)
	Create(ctx context.Context, actor model.Actor, req CreateRequest) (*model.User, error)
	SetRole(ctx context.Context, actor model.Actor, id string, role authorize.Role) (*model.User, error)
	Delete(ctx context.Context, actor model.Actor, id string) error
}

type userService struct {
	db  *store.Stores
	now func() string
}

func New(db *store.Stores) Service {
	return &userService{db: db, now: model.NowISO}
}

func (s *userService) List(ctx context.Context) ([]model.User, error) {
	users, err := s.db.Users.List(ctx, nil)
	if err != nil {
		return nil, repositoryErr("list users", err)
	}
	sort.SliceStable(users, func(i, j int) bool { return users[i].Email < users[j].Email })
	return users, nil
}

func (s *userService) GetByID(ctx context.Context, id string) (*model.User, error) {
	u, err := s.db.Users.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, repositoryErr("get user", err)
	}
	return u, nil
}

func (s *userService) ByEmail(ctx context.Context, email string) (*model.User, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, ErrNotFound
	}
	users, err := s.db.Users.List(ctx, func(u model.User) bool { return normalizeEmail(u.Email) == email })
	if err != nil {
		return nil, repositoryErr("find user by email", err)
	}
	if len(users) == 0 {
		return nil, ErrNotFound
	}
	return &users[0], nil
}

func (s *userService) Create(ctx context.Context, actor model.Actor, req CreateRequest) (*model.User, error) {
	if actor.Role != authorize.RoleAdmin {
		return nil, ErrPermissionDenied
	}

	req.Email = normalizeEmail(req.Email)
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		return nil, validationf("a valid email is required")
	}
	if _, ok := authorize.KnownRoles[req.Role]; !ok {
		return nil, validationf("unknown role %q", req.Role)
	}
	if _, err := s.ByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	u := model.User{
		Email:       req.Email,
		DisplayName: strings.TrimSpace(req.DisplayName),
		Role:        req.Role,
		CreatedAt:   s.now(),
		CreatedBy:   actor.AuditEmail(),
	}
	created, err := s.db.Users.Create(ctx, u)
	if err != nil {
		return nil, repositoryErr("create user", err)
	}
	return created, nil
}

func (s *userService) SetRole(ctx context.Context, actor model.Actor, id string, role authorize.Role) (*model.User, error) {
	if actor.Role != authorize.RoleAdmin {
		return nil, ErrPermissionDenied
	}
	if _, ok := authorize.KnownRoles[role]; !ok {
		return nil, validationf("unknown role %q", role)
	}
	// An admin stripping their own admin role would lock the office out of
	// user management.
	if id == actor.UserID && role != authorize.RoleAdmin {
		return nil, validationf("cannot demote your own account")
	}

	updated, err := s.db.Users.Update(ctx, id, func(u *model.User) error {
		u.Role = role
		u.UpdatedAt = s.now()
		u.UpdatedBy = actor.AuditEmail()
		return nil
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, repositoryErr("update user role", err)
	}
	return updated, nil
}

func (s *userService) Delete(ctx context.Context, actor model.Actor, id string) error {
	if actor.Role != authorize.RoleAdmin {
		return ErrPermissionDenied
	}
	if id == actor.UserID {
		return validationf("cannot delete your own account")
	}
	if err := s.db.Users.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return repositoryErr("delete user", err)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
