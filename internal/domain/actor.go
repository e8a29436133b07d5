package domain

// Role is a user's function within a society.
type Role string

const (
	RoleResident      Role = "resident"
	RoleSocietyAdmin  Role = "society_admin"
	RoleSecurityGuard Role = "security_guard"
	RoleSuperAdmin    Role = "super_admin"
)

// Actor is the authenticated user performing an operation, resolved from
// the user_roles table for the scope the operation targets.
type Actor struct {
	UserID       string
	Role         Role
	SocietyID    string
	RentalUnitID string
}
