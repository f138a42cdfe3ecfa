package model

// Privilege represents a permission that can be granted to a role
type Privilege struct {
	Code string `json:"code"` // e.g., "product:create"
	Name string `json:"name"` // e.g., "Create Product"
}

const (
	PrivProductView   = "product:view"
	PrivProductCreate = "product:create"
	PrivProductUpdate = "product:update"
	PrivProductDelete = "product:delete"

	PrivStockView   = "stock:view"
	PrivStockCreate = "stock:create"
	PrivStockUpdate = "stock:update"
	PrivStockAdjust = "stock:adjust"
	PrivStockDelete = "stock:delete"

	PrivUserView   = "user:view"
	PrivUserCreate = "user:create"
	PrivUserUpdate = "user:update"
	PrivUserDelete = "user:delete"

	PrivCashView     = "cash:view"
	PrivCashOpen     = "cash:open"
	PrivCashClose    = "cash:close"
	PrivCashMovement = "cash:movement"

	PrivOrderView   = "order:view"
	PrivOrderCreate = "order:create"

	PrivReportView = "report:view"
)

// DefaultPrivileges for the system
var DefaultPrivileges = []Privilege{
	// Catalog
	{Code: PrivProductView, Name: "View Product"},
	{Code: PrivProductCreate, Name: "Create Product"},
	{Code: PrivProductUpdate, Name: "Update Product Price"},
	{Code: PrivProductDelete, Name: "Delete Product"},
	// Stock
	{Code: PrivStockView, Name: "View Stock"},
	{Code: PrivStockCreate, Name: "Create Stock Item"},
	{Code: PrivStockUpdate, Name: "Update Stock Item"},
	{Code: PrivStockAdjust, Name: "Adjust Stock Quantity"},
	{Code: PrivStockDelete, Name: "Delete Stock Item"},
	// Staff
	{Code: PrivUserView, Name: "View User"},
	{Code: PrivUserCreate, Name: "Create User"},
	{Code: PrivUserUpdate, Name: "Update User"},
	{Code: PrivUserDelete, Name: "Delete User"},
	// Till
	{Code: PrivCashView, Name: "View Cash Session"},
	{Code: PrivCashOpen, Name: "Open Cash Session"},
	{Code: PrivCashClose, Name: "Close Cash Session"},
	{Code: PrivCashMovement, Name: "Record Cash Movement"},
	// Orders
	{Code: PrivOrderView, Name: "View Order"},
	{Code: PrivOrderCreate, Name: "Create Order"},
	// Reports
	{Code: PrivReportView, Name: "View Reports"},
}

func allPrivilegeCodes() []string {
	codes := make([]string, len(DefaultPrivileges))
	for i, p := range DefaultPrivileges {
		codes[i] = p.Code
	}
	return codes
}
