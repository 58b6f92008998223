package model

import "github.com/ceprunsa/consultorio_backend/pkg/authorize"

// User is a login identity. Identity provisioning happens outside this
// service; user documents only carry what the core needs: the role and the
// email recorded on audit fields.
type User struct {
	ID          string         `json:"id"`
	Email       string         `json:"email"`
	DisplayName string         `json:"displayName,omitempty"`
	Role        authorize.Role `json:"role"`
	CreatedAt   string         `json:"createdAt"`
	CreatedBy   string         `json:"createdBy"`
	UpdatedAt   string         `json:"updatedAt,omitempty"`
	UpdatedBy   string         `json:"updatedBy,omitempty"`
}

// Actor is the acting user, threaded explicitly through every core
// operation instead of living in ambient session state.
//
// PsychologistID is the id of the psychologist record linked to this user
// (matched by userId), resolved once per request; empty for users with no
// linked record.
type Actor struct {
	UserID         string
	Email          string
	Role           authorize.Role
	PsychologistID string
}

// AuditEmail is what audit fields record for this actor.
func (a Actor) AuditEmail() string {
	if a.Email == "" {
		return "system"
	}
	return a.Email
}
