package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/javigracia12/toofinance/internal/models"
	"github.com/javigracia12/toofinance/internal/pagination"
	"github.com/javigracia12/toofinance/internal/spending"
	"github.com/javigracia12/toofinance/internal/wealth"
)

// CellUpdate is a single edit of the tracker grid.
type CellUpdate struct {
	Kind       wealth.Kind
	Name       string
	Month      int
	Amount     decimal.Decimal
	AssetClass string
}

// DeleteRowResult reports a row deletion. Year is set when the deletion was
// scoped to one year.
type DeleteRowResult struct {
	Deleted int64            `json:"deleted"`
	Year    *wealth.YearView `json:"year,omitempty"`
}

// WealthServicer defines the contract for the monthly wealth tracker.
type WealthServicer interface {
	GetYear(ctx context.Context, userID string, year int) (*wealth.YearView, error)
	UpdateCell(ctx context.Context, userID string, year int, update CellUpdate) (*wealth.YearView, error)
	DeleteRow(ctx context.Context, userID string, kind wealth.Kind, name string, year *int) (*DeleteRowResult, error)
	GetDashboard(ctx context.Context, userID string, asOf time.Time) (*wealth.Dashboard, error)
}

// CategoryServicer defines the contract for expense categories.
type CategoryServicer interface {
	GetUserCategories(userID string) ([]models.Category, error)
	CreateCategory(userID, label, color string) (*models.Category, error)
	DeleteCategory(userID, categoryID string) error
	CategoryExists(userID, slug string) (bool, error)
}

// ExpenseSort is the ordering of an expense listing.
type ExpenseSort string

// Supported expense orderings.
const (
	SortDateDesc     ExpenseSort = "date-desc"
	SortDateAsc      ExpenseSort = "date-asc"
	SortAmountDesc   ExpenseSort = "amount-desc"
	SortAmountAsc    ExpenseSort = "amount-asc"
	SortCategoryAsc  ExpenseSort = "category-asc"
	SortCategoryDesc ExpenseSort = "category-desc"
)

// ExpenseSorts lists every supported ordering.
var ExpenseSorts = []ExpenseSort{
	SortDateDesc, SortDateAsc, SortAmountDesc, SortAmountAsc, SortCategoryAsc, SortCategoryDesc,
}

// ExpenseFilter holds optional filter parameters for listing expenses.
type ExpenseFilter struct {
	Month    string
	Category string
	Sort     ExpenseSort
}

// ExpenseInput holds the fields of a new or updated expense.
type ExpenseInput struct {
	Amount      decimal.Decimal
	Description string
	Category    string
	Date        models.Date
}

// ExpenseServicer defines the contract for the expense ledger.
type ExpenseServicer interface {
	CreateExpense(userID string, input ExpenseInput, recurringDay *int) (*models.Expense, *models.RecurringExpense, error)
	GetUserExpenses(userID string, page pagination.PageRequest, filter ExpenseFilter) (*pagination.PageResponse[models.Expense], error)
	GetExpenseByID(userID, expenseID string) (*models.Expense, error)
	UpdateExpense(userID, expenseID string, input ExpenseInput) (*models.Expense, error)
	DeleteExpense(userID, expenseID string) error
	ListLedger(ctx context.Context, userID string) ([]wealth.LedgerEntry, error)
	GetDashboard(userID, month string, now time.Time) (*spending.Dashboard, error)
}

// RecurringUpdate holds the editable fields of a recurring expense.
type RecurringUpdate struct {
	Amount      decimal.Decimal
	Description string
	Category    string
	DayOfMonth  int
}

// RecurringServicer defines the contract for recurring expense templates.
type RecurringServicer interface {
	GetUserRecurring(userID string) ([]models.RecurringExpense, error)
	UpdateRecurring(userID, recurringID string, update RecurringUpdate) (*models.RecurringExpense, error)
	ToggleRecurring(userID, recurringID string) (*models.RecurringExpense, error)
	DeleteRecurring(userID, recurringID string) error
	MaterializeDue(ctx context.Context, now time.Time) (int, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}
