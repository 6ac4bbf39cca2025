package models

import "github.com/shopspring/decimal"

// MaxRecurringDay is the last day of month a recurring expense may fall on,
// so that it exists in every month.
const MaxRecurringDay = 28

// RecurringExpense is a monthly template that materialises into expenses.
type RecurringExpense struct {
	Base
	UserID      string          `gorm:"type:uuid;not null;index" json:"user_id"`
	Amount      decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount" swaggertype:"string" example:"850.00"`
	Description string          `gorm:"not null" json:"description"`
	Category    string          `gorm:"not null" json:"category"`
	DayOfMonth  int             `gorm:"not null" json:"day_of_month"`
	IsActive    bool            `gorm:"not null" json:"is_active"`
}
