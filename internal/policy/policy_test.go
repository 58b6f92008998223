package policy

import (
	"testing"

	"github.com/ceprunsa/consultorio_backend/internal/model"
	"github.com/ceprunsa/consultorio_backend/pkg/authorize"
)

var allRoles = []authorize.Role{
	authorize.RoleAdmin,
	authorize.RoleCoordinator,
	authorize.RolePsychologist,
	authorize.RoleUser,
}

var allStatuses = []model.AppointmentStatus{
	model.StatusScheduled,
	model.StatusCompleted,
	model.StatusCancelled,
	model.StatusNoShow,
}

func TestCanCreateOrEdit(t *testing.T) {
	tests := []struct {
		role authorize.Role
		want bool
	}{
		{authorize.RoleAdmin, true},
		{authorize.RoleCoordinator, true},
		{authorize.RolePsychologist, false},
		{authorize.RoleUser, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			if got := CanCreateOrEdit(tt.role); got != tt.want {
				t.Errorf("CanCreateOrEdit(%q) = %v, want %v", tt.role, got, tt.want)
			}
			if got := CanDelete(tt.role); got != tt.want {
				t.Errorf("CanDelete(%q) = %v, want %v", tt.role, got, tt.want)
			}
		})
	}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		role authorize.Role
		from model.AppointmentStatus
		to   model.AppointmentStatus
		want bool
	}{
		{"admin completes", authorize.RoleAdmin, model.StatusScheduled, model.StatusCompleted, true},
		{"coordinator completes", authorize.RoleCoordinator, model.StatusScheduled, model.StatusCompleted, true},
		{"psychologist completes", authorize.RolePsychologist, model.StatusScheduled, model.StatusCompleted, true},
		{"user completes", authorize.RoleUser, model.StatusScheduled, model.StatusCompleted, false},

		{"admin cancels", authorize.RoleAdmin, model.StatusScheduled, model.StatusCancelled, true},
		{"coordinator cancels", authorize.RoleCoordinator, model.StatusScheduled, model.StatusCancelled, true},
		{"psychologist cancels", authorize.RolePsychologist, model.StatusScheduled, model.StatusCancelled, false},

		{"psychologist marks no-show", authorize.RolePsychologist, model.StatusScheduled, model.StatusNoShow, true},
		{"user marks no-show", authorize.RoleUser, model.StatusScheduled, model.StatusNoShow, false},

		{"admin reopens completed", authorize.RoleAdmin, model.StatusCompleted, model.StatusScheduled, false},
		{"admin reopens cancelled", authorize.RoleAdmin, model.StatusCancelled, model.StatusScheduled, false},
		{"coordinator completes no-show", authorize.RoleCoordinator, model.StatusNoShow, model.StatusCompleted, false},
		{"self transition", authorize.RoleAdmin, model.StatusScheduled, model.StatusScheduled, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanTransition(tt.role, tt.from, tt.to); got != tt.want {
				t.Errorf("CanTransition(%q, %q, %q) = %v, want %v", tt.role, tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestTerminalStatesHaveNoOutgoingTransitions(t *testing.T) {
	for _, role := range allRoles {
		for _, from := range allStatuses {
			if from == model.StatusScheduled {
				continue
			}
			for _, to := range allStatuses {
				if CanTransition(role, from, to) {
					t.Errorf("CanTransition(%q, %q, %q) = true, terminal states must be immutable", role, from, to)
				}
			}
		}
	}
}

func TestVisibleAppointments(t *testing.T) {
	all := []model.Appointment{
		{ID: "a1", PsychologistID: "psy-1"},
		{ID: "a2", PsychologistID: "psy-2"},
		{ID: "a3", PsychologistID: "psy-1"},
	}

	t.Run("psychologist sees only own", func(t *testing.T) {
		got := VisibleAppointments(authorize.RolePsychologist, "psy-1", all)
		if len(got) != 2 {
			t.Fatalf("expected 2 visible appointments, got %d", len(got))
		}
		for _, a := range got {
			if a.PsychologistID != "psy-1" {
				t.Errorf("appointment %s leaked to psychologist psy-1", a.ID)
			}
		}
	})

	t.Run("psychologist without linked record sees nothing", func(t *testing.T) {
		if got := VisibleAppointments(authorize.RolePsychologist, "", all); len(got) != 0 {
			t.Errorf("expected empty slice, got %d appointments", len(got))
		}
	})

	t.Run("admin sees all", func(t *testing.T) {
		if got := VisibleAppointments(authorize.RoleAdmin, "", all); len(got) != len(all) {
			t.Errorf("expected %d appointments, got %d", len(all), len(got))
		}
	})

	t.Run("coordinator sees all", func(t *testing.T) {
		if got := VisibleAppointments(authorize.RoleCoordinator, "psy-1", all); len(got) != len(all) {
			t.Errorf("expected %d appointments, got %d", len(all), len(got))
		}
	})
}
