package utils

// Identity is the authenticated principal carried through request context.
// RoleCode is the numeric encoding used inside tokens (0=student, 1=admin,
// 2=instructor); handlers that need the store-side role name convert it with
// auth.RoleFromCode.
type Identity struct {
	ID       string
	RoleCode int
	Email    string
	Name     string
}
