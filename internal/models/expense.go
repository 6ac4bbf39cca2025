package models

import "github.com/shopspring/decimal"

// Expense is a single spending ledger entry.
type Expense struct {
	Base
	UserID      string          `gorm:"type:uuid;not null;index:idx_expenses_user_date" json:"user_id"`
	Amount      decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount" swaggertype:"string" example:"12.50"`
	Description string          `gorm:"not null" json:"description"`
	Category    string          `gorm:"not null" json:"category"`
	Date        Date            `gorm:"not null;index:idx_expenses_user_date" json:"date" swaggertype:"string" example:"2024-03-15"`
	RecurringID *string         `gorm:"type:uuid;index" json:"recurring_id,omitempty"`
}

// IsRecurring reports whether the expense was generated from a recurring template.
func (e *Expense) IsRecurring() bool {
	return e.RecurringID != nil
}
