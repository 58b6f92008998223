package authorize

import (
	"context"
	"errors"
	"fmt"

	casbin "github.com/casbin/casbin/v2"
)

var (
	ErrForbidden   = errors.New("forbidden")
	ErrInvalidArgs = errors.New("invalid authorization arguments")
)

// IAuthorization is the only thing handlers/middleware should depend on.
type IAuthorization interface {
	// Enforce answers: "may subject (a role) perform action on object?"
	Enforce(ctx context.Context, subject Role, object Resource, action Action) (bool, error)

	// MustEnforce is convenience for callers: returns ErrForbidden if not allowed.
	MustEnforce(ctx context.Context, subject Role, object Resource, action Action) error

	Raw() *casbin.Enforcer
}

// Authorization is a thin typed wrapper around casbin.Enforcer. Policies are
// loaded from a CSV file at startup; the deployment is a single office, so
// there is no watcher or distributed policy store.
type Authorization struct {
	enforcer *casbin.Enforcer
}

// NewEnforcer builds a casbin enforcer from the model and policy files
// referenced by the authorization config.
func NewEnforcer(modelPath, policyPath string) (*casbin.Enforcer, error) {
	e, err := casbin.NewEnforcer(modelPath, policyPath)
	if err != nil {
		return nil, fmt.Errorf("casbin enforcer: %w", err)
	}
	return e, nil
}

// NewAuthorization wraps an already-configured Enforcer.
func NewAuthorization(e *casbin.Enforcer) (IAuthorization, error) {
	if e == nil {
		return nil, fmt.Errorf("%w: enforcer is nil", ErrInvalidArgs)
	}
	if err := e.LoadPolicy(); err != nil {
		return nil, err
	}
	return &Authorization{enforcer: e}, nil
}

func (a *Authorization) Raw() *casbin.Enforcer { return a.enforcer }

func (a *Authorization) Enforce(ctx context.Context, subject Role, object Resource, action Action) (bool, error) {
	_ = ctx // reserved for tracing

	if subject == "" {
		return false, fmt.Errorf("%w: subject is empty", ErrInvalidArgs)
	}
	if object == "" {
		return false, fmt.Errorf("%w: object is empty", ErrInvalidArgs)
	}
	if action == "" {
		return false, fmt.Errorf("%w: action is empty", ErrInvalidArgs)
	}

	// Guardrails: only known constants may reach the enforcer.
	if _, ok := KnownRoles[subject]; !ok && subject != WildcardRole {
		return false, fmt.Errorf("%w: unknown role: %q", ErrInvalidArgs, subject)
	}
	if _, ok := KnownResources[object]; !ok && object != WildcardResource {
		return false, fmt.Errorf("%w: unknown resource: %q", ErrInvalidArgs, object)
	}
	if _, ok := KnownActions[action]; !ok && action != WildcardAction {
		return false, fmt.Errorf("%w: unknown action: %q", ErrInvalidArgs, action)
	}

	allowed, err := a.enforcer.Enforce(string(subject), string(object), string(action))
	if err != nil {
		return false, err
	}
	return allowed, nil
}

func (a *Authorization) MustEnforce(ctx context.Context, subject Role, object Resource, action Action) error {
	ok, err := a.Enforce(ctx, subject, object, action)
	if err != nil {
		return err
	}
	if !ok {
		return ErrForbidden
	}
	return nil
}
