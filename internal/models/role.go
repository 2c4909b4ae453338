package models

// Role identifies one of the fixed set of roles persisted in the roles table.
type Role int

// Role identifiers, matching the seeded roles reference table.
const (
	RoleAdmin    Role = 1
	RoleEmployee Role = 2
	RoleCustomer Role = 3
)

var roleNames = map[Role]string{
	RoleAdmin:    "admin",
	RoleEmployee: "employee",
	RoleCustomer: "customer",
}

var rolesByName = map[string]Role{
	"admin":    RoleAdmin,
	"employee": RoleEmployee,
	"customer": RoleCustomer,
}

// RoleByName resolves a role name to its identifier.
func RoleByName(name string) (Role, bool) {
	role, ok := rolesByName[name]
	return role, ok
}

// Name returns the role name, or an empty string for an unknown identifier.
func (r Role) Name() string {
	return roleNames[r]
}

// Valid reports whether r is one of the known role identifiers.
func (r Role) Valid() bool {
	_, ok := roleNames[r]
	return ok
}

// AllRoles returns every known role in identifier order.
func AllRoles() []Role {
	return []Role{RoleAdmin, RoleEmployee, RoleCustomer}
}
