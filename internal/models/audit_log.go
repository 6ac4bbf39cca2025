package models

import "gorm.io/datatypes"

// Audited actions.
const (
	AuditUpdateWealthCell = "UPDATE_WEALTH_CELL"
	AuditDeleteWealthRow  = "DELETE_WEALTH_ROW"
	AuditCreateCategory   = "CREATE_CATEGORY"
	AuditDeleteCategory   = "DELETE_CATEGORY"
	AuditCreateExpense    = "CREATE_EXPENSE"
	AuditUpdateExpense    = "UPDATE_EXPENSE"
	AuditDeleteExpense    = "DELETE_EXPENSE"
	AuditCreateRecurring  = "CREATE_RECURRING"
	AuditUpdateRecurring  = "UPDATE_RECURRING"
	AuditToggleRecurring  = "TOGGLE_RECURRING"
	AuditDeleteRecurring  = "DELETE_RECURRING"
)

// Audited resource types.
const (
	ResourceWealthEntry = "wealth_entry"
	ResourceCategory    = "category"
	ResourceExpense     = "expense"
	ResourceRecurring   = "recurring_expense"
)

// AuditLog records user mutations of financial data.
type AuditLog struct {
	Base
	UserID       string         `gorm:"type:uuid;not null;index" json:"user_id"`
	Action       string         `gorm:"not null" json:"action"`
	ResourceType string         `gorm:"not null" json:"resource_type"`
	ResourceID   string         `json:"resource_id"`
	IPAddress    string         `json:"ip_address"`
	Changes      datatypes.JSON `gorm:"type:jsonb" json:"changes,omitempty" swaggertype:"object"`
}
