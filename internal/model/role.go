package model

// Role represents user roles in the system
type Role struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	Code        string      `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // ADMIN, OPERATOR, RESIDENT
	Name        string      `gorm:"type:varchar(100)" json:"name"`
	Description string      `gorm:"type:text" json:"description"`
	Privileges  []Privilege `gorm:"many2many:role_privileges;" json:"privileges,omitempty"`
}

// Role codes as constants
const (
	RoleAdmin    = "ADMIN"
	RoleOperator = "OPERATOR"
	RoleResident = "RESIDENT"
)

// DefaultRoles defines the default roles in the system
var DefaultRoles = []Role{
	{
		Code:        RoleAdmin,
		Name:        "Administrator",
		Description: "Full system access with all privileges",
	},
	{
		Code:        RoleOperator,
		Name:        "Operator",
		Description: "Stock and finance operations, no user management",
	},
	{
		Code:        RoleResident,
		Name:        "Resident",
		Description: "Read-only access to the condominium finances",
	},
}

// DefaultRolePrivileges lists the privilege codes seeded for each role.
// A nil entry means every privilege.
var DefaultRolePrivileges = map[string][]string{
	RoleAdmin: nil,
	RoleOperator: {
		PrivUserView,
		PrivProductView, PrivProductCreate, PrivProductUpdate, PrivProductDelete,
		PrivPersonView, PrivPersonCreate, PrivPersonUpdate, PrivPersonDelete,
		PrivOutputView, PrivOutputCreate,
		PrivFinanceView, PrivFinanceManage,
		PrivDashboardView,
	},
	RoleResident: {
		PrivFinanceView,
	},
}
