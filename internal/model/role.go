package model

// Role codes carried in access tokens. There is no per-user admin: STAFF is the anonymous
// session every device gets on launch, ADMIN is unlocked by the shared admin credential.
const (
	RoleAdmin = "ADMIN"
	RoleStaff = "STAFF"
)

// Role describes a role and the privileges granted to it.
type Role struct {
	Code        string   `json:"code"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Privileges  []string `json:"privileges"`
}

// DefaultRoles defines the roles known to the system
var DefaultRoles = []Role{
	{
		Code:        RoleAdmin,
		Name:        "Administrador",
		Description: "Catalog, staff, stock and cash administration",
		Privileges:  allPrivilegeCodes(),
	},
	{
		Code:        RoleStaff,
		Name:        "Operador",
		Description: "Front-of-house operation: till, orders and stock counts",
		Privileges: []string{
			PrivProductView,
			PrivStockView, PrivStockCreate, PrivStockAdjust, PrivStockDelete,
			PrivCashView, PrivCashOpen, PrivCashClose, PrivCashMovement,
			PrivOrderView, PrivOrderCreate,
		},
	},
}

// PrivilegesFor returns the privilege codes granted to a role code, or nil if unknown.
func PrivilegesFor(roleCode string) []string {
	for _, r := range DefaultRoles {
		if r.Code == roleCode {
			out := make([]string, len(r.Privileges))
			copy(out, r.Privileges)
			return out
		}
	}
	return nil
}

// FindRole returns a copy of the role with the given code, or nil.
func FindRole(code string) *Role {
	for _, r := range DefaultRoles {
		if r.Code == code {
			role := r
			role.Privileges = PrivilegesFor(code)
			return &role
		}
	}
	return nil
}
