package model

// Privilege represents a permission granted to a role
type Privilege struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // e.g., "product:create"
	Name string `gorm:"type:varchar(100)" json:"name"`                     // e.g., "Create Product"
}

const (
	PrivUserView      = "user:view"
	PrivUserCreate    = "user:create"
	PrivUserUpdate    = "user:update"
	PrivUserDelete    = "user:delete"
	PrivProductView   = "product:view"
	PrivProductCreate = "product:create"
	PrivProductUpdate = "product:update"
	PrivProductDelete = "product:delete"
	PrivPersonView    = "person:view"
	PrivPersonCreate  = "person:create"
	PrivPersonUpdate  = "person:update"
	PrivPersonDelete  = "person:delete"
	PrivOutputView    = "output:view"
	PrivOutputCreate  = "output:create"
	PrivFinanceView   = "finance:view"
	PrivFinanceManage = "finance:manage"
	PrivDashboardView = "dashboard:view"
)

// Default privileges for the system
var DefaultPrivileges = []Privilege{
	// User management
	{Code: PrivUserView, Name: "View User"},
	{Code: PrivUserCreate, Name: "Create User"},
	{Code: PrivUserUpdate, Name: "Update User"},
	{Code: PrivUserDelete, Name: "Delete User"},
	// Inventory
	{Code: PrivProductView, Name: "View Product"},
	{Code: PrivProductCreate, Name: "Create Product"},
	{Code: PrivProductUpdate, Name: "Update Product"},
	{Code: PrivProductDelete, Name: "Delete Product"},
	{Code: PrivPersonView, Name: "View Person"},
	{Code: PrivPersonCreate, Name: "Create Person"},
	{Code: PrivPersonUpdate, Name: "Update Person"},
	{Code: PrivPersonDelete, Name: "Delete Person"},
	{Code: PrivOutputView, Name: "View Output"},
	{Code: PrivOutputCreate, Name: "Record Output"},
	// Condominium finances
	{Code: PrivFinanceView, Name: "View Finances"},
	{Code: PrivFinanceManage, Name: "Manage Finances"},
	// Dashboard
	{Code: PrivDashboardView, Name: "View Dashboard"},
}
