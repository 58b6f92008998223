package authorize

type Action string
type Resource string
type Role string

// ----------------------------
// Actions
// ----------------------------

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionList   Action = "list"

	// Lifecycle and derived-view actions
	ActionTransition Action = "transition" // appointment status changes
	ActionAttach     Action = "attach"     // document upload
	ActionExport     Action = "export"
)

const (
	WildcardAction Action = "*"
)

var KnownActions = map[Action]struct{}{
	ActionCreate: {}, ActionRead: {}, ActionUpdate: {}, ActionDelete: {}, ActionList: {},
	ActionTransition: {}, ActionAttach: {}, ActionExport: {},
}

// ----------------------------
// Resources
// ----------------------------

const (
	WildcardResource Resource = "*"

	ResourceAppointment  Resource = "appointment"
	ResourceProcess      Resource = "process"
	ResourceReason       Resource = "consultation_reason"
	ResourcePsychologist Resource = "psychologist"
	ResourceUser         Resource = "user"
	ResourceSettings     Resource = "settings"
	ResourceStats        Resource = "stats"
)

var KnownResources = map[Resource]struct{}{
	ResourceAppointment: {}, ResourceProcess: {}, ResourceReason: {},
	ResourcePsychologist: {}, ResourceUser: {}, ResourceSettings: {}, ResourceStats: {},
}

// ----------------------------
// Roles
// ----------------------------
//
// Role values match what is stored on the user document, so the casbin
// subject for a request is simply the acting user's role.

const (
	WildcardRole Role = "*"

	RoleAdmin        Role = "admin"
	RoleCoordinator  Role = "coordinator"
	RolePsychologist Role = "psychologist"
	RoleUser         Role = "user"
)

var KnownRoles = map[Role]struct{}{
	RoleAdmin: {}, RoleCoordinator: {}, RolePsychologist: {}, RoleUser: {},
}

// Spanish display names, as shown in the office UI.
var RoleDisplayNamesES = map[Role]string{
	RoleAdmin:        "Administrador",
	RoleCoordinator:  "Coordinador",
	RolePsychologist: "Psicólogo",
	RoleUser:         "Usuario",
}

func ParseRole(s string) (Role, bool) {
	r := Role(s)
	_, ok := KnownRoles[r]
	return r, ok
}
