package models

// Role distinguishes the two kinds of authenticated principal.
type Role string

const (
	// RoleOwner is the tenant owner: full control of the roster, the
	// catalog, and every credential.
	RoleOwner Role = "owner"

	// RoleMember is a student: read access to their own credentials and
	// self-service entrance-code rotation, nothing else.
	RoleMember Role = "member"
)

// Session is the product of a successful login. TenantCode is always the
// owning tenant's code, even for member sessions: member credentials are
// decrypted with the owner's code, never with the member's own.
type Session struct {
	Role       Role
	TenantCode string

	// Member is set only for member sessions.
	Member *Member

	// State is the merged, decrypted tenant snapshot.
	State *State
}

// IsOwner reports whether the session may perform tenant-management
// operations.
func (s *Session) IsOwner() bool {
	return s != nil && s.Role == RoleOwner
}
