package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "github.com/javigracia12/toofinance/internal/errors"
	"github.com/javigracia12/toofinance/internal/models"
	"github.com/javigracia12/toofinance/internal/pagination"
	"github.com/javigracia12/toofinance/internal/spending"
	"github.com/javigracia12/toofinance/internal/wealth"
)

const maxDescription = 200

var expenseOrders = map[ExpenseSort]string{
	SortDateDesc:     "expenses.date DESC, expenses.id DESC",
	SortDateAsc:      "expenses.date ASC, expenses.id ASC",
	SortAmountDesc:   "expenses.amount DESC, expenses.date DESC",
	SortAmountAsc:    "expenses.amount ASC, expenses.date DESC",
	SortCategoryAsc:  "COALESCE(categories.label, '" + models.UncategorizedLabel + "') ASC, expenses.date DESC",
	SortCategoryDesc: "COALESCE(categories.label, '" + models.UncategorizedLabel + "') DESC, expenses.date DESC",
}

const categoryJoin = "LEFT JOIN categories ON categories.user_id = expenses.user_id " +
	"AND categories.slug = expenses.category AND categories.deleted_at IS NULL"

// expenseService handles the expense ledger.
type expenseService struct {
	db              *gorm.DB
	categoryService CategoryServicer
}

// NewExpenseService creates a new ExpenseServicer.
func NewExpenseService(db *gorm.DB, categoryService CategoryServicer) ExpenseServicer {
	return &expenseService{db: db, categoryService: categoryService}
}

// CreateExpense records an expense. With recurringDay set, a recurring
// template is created alongside and the expense is linked to it.
func (s *expenseService) CreateExpense(userID string, input ExpenseInput, recurringDay *int) (*models.Expense, *models.RecurringExpense, error) {
	input, err := s.validate(userID, input)
	if err != nil {
		return nil, nil, err
	}
	if recurringDay != nil && (*recurringDay < 1 || *recurringDay > models.MaxRecurringDay) {
		return nil, nil, apperrors.ErrInvalidDayOfMonth
	}

	expense := &models.Expense{
		UserID:      userID,
		Amount:      input.Amount,
		Description: input.Description,
		Category:    input.Category,
		Date:        input.Date,
	}
	var recurring *models.RecurringExpense

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if recurringDay != nil {
			recurring = &models.RecurringExpense{
				UserID:      userID,
				Amount:      input.Amount,
				Description: input.Description,
				Category:    input.Category,
				DayOfMonth:  *recurringDay,
				IsActive:    true,
			}
			if err := tx.Create(recurring).Error; err != nil {
				return err
			}
			expense.RecurringID = &recurring.ID
		}
		return tx.Create(expense).Error
	})
	if err != nil {
		return nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return expense, recurring, nil
}

// GetUserExpenses retrieves a filtered, sorted page of the user's expenses.
func (s *expenseService) GetUserExpenses(userID string, page pagination.PageRequest, filter ExpenseFilter) (*pagination.PageResponse[models.Expense], error) {
	page.Defaults()

	if filter.Sort == "" {
		filter.Sort = SortDateDesc
	}
	order, ok := expenseOrders[filter.Sort]
	if !ok {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "unsupported sort order")
	}

	var from, to time.Time
	if filter.Month != "" {
		var err error
		from, to, err = spending.MonthRange(filter.Month)
		if err != nil {
			return nil, apperrors.ErrInvalidMonth
		}
	}

	filtered := func() *gorm.DB {
		q := s.db.Model(&models.Expense{}).Where("expenses.user_id = ?", userID)
		if filter.Month != "" {
			q = q.Where("expenses.date >= ? AND expenses.date < ?",
				from.Format(models.DateLayout), to.Format(models.DateLayout))
		}
		if filter.Category != "" {
			q = q.Where("expenses.category = ?", filter.Category)
		}
		return q
	}

	var totalItems int64
	if err := filtered().Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	q := filtered()
	if filter.Sort == SortCategoryAsc || filter.Sort == SortCategoryDesc {
		q = q.Joins(categoryJoin)
	}
	var expenses []models.Expense
	if err := q.Select("expenses.*").
		Order(order).
		Scopes(pagination.Paginate(page)).
		Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(expenses, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetExpenseByID retrieves an expense by ID for a specific user.
func (s *expenseService) GetExpenseByID(userID, expenseID string) (*models.Expense, error) {
	var expense models.Expense
	if err := s.db.Where("id = ? AND user_id = ?", expenseID, userID).First(&expense).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrExpenseNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &expense, nil
}

// UpdateExpense replaces the editable fields of an expense. The link to a
// recurring template is kept.
func (s *expenseService) UpdateExpense(userID, expenseID string, input ExpenseInput) (*models.Expense, error) {
	expense, err := s.GetExpenseByID(userID, expenseID)
	if err != nil {
		return nil, err
	}
	input, err = s.validate(userID, input)
	if err != nil {
		return nil, err
	}

	expense.Amount = input.Amount
	expense.Description = input.Description
	expense.Category = input.Category
	expense.Date = input.Date
	if err := s.db.Save(expense).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return expense, nil
}

// DeleteExpense soft-deletes an expense.
func (s *expenseService) DeleteExpense(userID, expenseID string) error {
	expense, err := s.GetExpenseByID(userID, expenseID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(expense).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// ListLedger returns every expense of the user as ledger entries.
func (s *expenseService) ListLedger(ctx context.Context, userID string) ([]wealth.LedgerEntry, error) {
	var expenses []models.Expense
	if err := s.db.WithContext(ctx).
		Select("date", "amount", "category").
		Where("user_id = ?", userID).
		Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	ledger := make([]wealth.LedgerEntry, len(expenses))
	for i, e := range expenses {
		ledger[i] = wealth.LedgerEntry{Date: e.Date.Time, Amount: e.Amount, Category: e.Category}
	}
	return ledger, nil
}

// GetDashboard summarises one month of spending. An empty month means the
// month containing now.
func (s *expenseService) GetDashboard(userID, month string, now time.Time) (*spending.Dashboard, error) {
	if month == "" {
		month = spending.MonthKey(now)
	}
	if _, err := spending.ParseMonth(month); err != nil {
		return nil, apperrors.ErrInvalidMonth
	}

	categories, err := s.categoryService.GetUserCategories(userID)
	if err != nil {
		return nil, err
	}

	var expenses []models.Expense
	if err := s.db.Where("user_id = ?", userID).Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var recurring []models.RecurringExpense
	if err := s.db.Where("user_id = ? AND is_active = ?", userID, true).Find(&recurring).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	in := spending.Input{
		Month:           month,
		Now:             now,
		Expenses:        make([]spending.Expense, len(expenses)),
		Categories:      make([]spending.Category, len(categories)),
		ActiveRecurring: len(recurring),
		Fallback: spending.Category{
			Slug:  models.UncategorizedSlug,
			Label: models.UncategorizedLabel,
			Color: models.UncategorizedColor,
		},
	}
	for i, e := range expenses {
		in.Expenses[i] = spending.Expense{
			ID:          e.ID,
			Amount:      e.Amount,
			Description: e.Description,
			Category:    e.Category,
			Date:        e.Date.Time,
			Recurring:   e.IsRecurring(),
		}
	}
	for i, c := range categories {
		in.Categories[i] = spending.Category{Slug: c.Slug, Label: c.Label, Color: c.Color}
	}
	for _, r := range recurring {
		in.RecurringTotal = in.RecurringTotal.Add(r.Amount)
	}

	dashboard, err := spending.Build(in)
	if err != nil {
		return nil, apperrors.ErrInvalidMonth
	}
	return &dashboard, nil
}

func (s *expenseService) validate(userID string, input ExpenseInput) (ExpenseInput, error) {
	input.Amount = input.Amount.Round(wealth.AmountScale)
	if !input.Amount.GreaterThan(decimal.Zero) {
		return input, apperrors.ErrInvalidAmount
	}
	input.Description = strings.TrimSpace(input.Description)
	if input.Description == "" {
		return input, apperrors.WithMessage(apperrors.ErrInvalidInput, "description is required")
	}
	if len(input.Description) > maxDescription {
		return input, apperrors.WithMessage(apperrors.ErrInvalidInput, "description is too long")
	}
	if input.Date.IsZero() {
		return input, apperrors.ErrInvalidDate
	}

	exists, err := s.categoryService.CategoryExists(userID, input.Category)
	if err != nil {
		return input, err
	}
	if !exists {
		return input, apperrors.ErrInvalidCategoryRef
	}
	return input, nil
}
