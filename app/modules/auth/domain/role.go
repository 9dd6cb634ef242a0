package authdomain

// Role represents a caller's role for authorization purposes.
type Role string

const (
	RoleViewer Role = "viewer"
	RoleAdmin  Role = "admin"
)

// IsValid checks if the role is a valid value.
func (r Role) IsValid() bool {
	switch r {
	case RoleViewer, RoleAdmin:
		return true
	default:
		return false
	}
}

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}
