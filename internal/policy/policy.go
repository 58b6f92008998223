// Package policy is the pure authorization table for appointment records.
// It has no I/O and never returns errors: callers translate a false result
// into a permission-denied rejection before touching the store.
//
// Route-level RBAC (casbin) is a coarser gate in front of this table; the
// state machine consults this package again so core behavior never depends
// on middleware having run.
package policy

import (
	"github.com/ceprunsa/consultorio_backend/internal/model"
	"github.com/ceprunsa/consultorio_backend/pkg/authorize"
)

// CanCreateOrEdit reports whether the role may create or edit appointment
// records.
func CanCreateOrEdit(role authorize.Role) bool {
	return role == authorize.RoleAdmin || role == authorize.RoleCoordinator
}

// CanDelete reports whether the role may hard-delete appointment records.
func CanDelete(role authorize.Role) bool {
	return role == authorize.RoleAdmin || role == authorize.RoleCoordinator
}

// transition is a (from, to) status pair.
type transition struct {
	from, to model.AppointmentStatus
}

// allowedTransitions maps each defined transition to the roles that may
// perform it. Pairs absent from this table are forbidden for every role;
// in particular nothing leads out of completed, cancelled or no-show.
var allowedTransitions = map[transition][]authorize.Role{
	{model.StatusScheduled, model.StatusCompleted}: {
		authorize.RoleAdmin, authorize.RoleCoordinator, authorize.RolePsychologist,
	},
	{model.StatusScheduled, model.StatusCancelled}: {
		authorize.RoleAdmin, authorize.RoleCoordinator,
	},
	{model.StatusScheduled, model.StatusNoShow}: {
		authorize.RoleAdmin, authorize.RoleCoordinator, authorize.RolePsychologist,
	},
}

// CanTransition reports whether the role may move an appointment from one
// status to another.
func CanTransition(role authorize.Role, from, to model.AppointmentStatus) bool {
	roles, ok := allowedTransitions[transition{from, to}]
	if !ok {
		return false
	}
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

// VisibleAppointments scopes the full appointment list for a role. The
// psychologist role only sees appointments assigned to its linked
// psychologist record (userPsychologistID, resolved by the caller); every
// other role sees the list unfiltered.
func VisibleAppointments(role authorize.Role, userPsychologistID string, all []model.Appointment) []model.Appointment {
	if role != authorize.RolePsychologist {
		return all
	}
	if userPsychologistID == "" {
		return nil
	}
	visible := make([]model.Appointment, 0, len(all))
	for _, a := range all {
		if a.PsychologistID == userPsychologistID {
			visible = append(visible, a)
		}
	}
	return visible
}
