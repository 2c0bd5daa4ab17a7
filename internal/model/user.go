package model

// Canonical role names used across the portal. Authorization always
// compares against these canonical strings, regardless of how the
// credential encoded the role.
const (
	RoleReporter      = "Reportero"
	RoleEditor        = "Editor"
	RoleLegalReviewer = "Revisor Legal"
	RoleChiefEditor   = "Jefe de Redacción"
	RoleAdministrator = "Administrador"
)

// ApproverRoles is the closed set of roles allowed to render approval
// decisions. Membership in this set, not identity, gates the review
// workflow.
var ApproverRoles = []string{RoleEditor, RoleLegalReviewer, RoleChiefEditor}

// IsApproverRole reports whether name is one of the approver roles.
func IsApproverRole(name string) bool {
	for _, r := range ApproverRoles {
		if r == name {
			return true
		}
	}
	return false
}

// User is an account as the auth service serializes it. Only the admin
// surface reads and writes these.
type User struct {
	UserID    int64  `json:"userId"`
	Username  string `json:"username"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Role      string `json:"role"`
	Active    bool   `json:"active"`
}

// UserInput is the payload for creating or updating a user.
type UserInput struct {
	Username  string `json:"username"`
	Password  string `json:"password,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Role      string `json:"role"`
	Active    *bool  `json:"active,omitempty"`
}

// LoginRequest is the credential pair sent to the auth service.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is the auth service's answer to a successful login.
// Roles may arrive as bare strings or as objects; the identity decoder
// resolves them, so here they stay raw.
type LoginResponse struct {
	Token    string `json:"token"`
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
	Roles    []any  `json:"roles"`
}
