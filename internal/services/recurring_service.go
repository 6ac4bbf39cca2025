package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "github.com/javigracia12/toofinance/internal/errors"
	"github.com/javigracia12/toofinance/internal/logger"
	"github.com/javigracia12/toofinance/internal/models"
	"github.com/javigracia12/toofinance/internal/spending"
	"github.com/javigracia12/toofinance/internal/wealth"
)

// recurringService handles recurring expense templates and their monthly
// materialisation into expenses.
type recurringService struct {
	db              *gorm.DB
	categoryService CategoryServicer
}

// NewRecurringService creates a new RecurringServicer.
func NewRecurringService(db *gorm.DB, categoryService CategoryServicer) RecurringServicer {
	return &recurringService{db: db, categoryService: categoryService}
}

// GetUserRecurring lists the user's templates, active ones first.
func (s *recurringService) GetUserRecurring(userID string) ([]models.RecurringExpense, error) {
	var templates []models.RecurringExpense
	if err := s.db.Where("user_id = ?", userID).
		Order("is_active DESC, day_of_month ASC, id ASC").
		Find(&templates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return templates, nil
}

// UpdateRecurring changes a template. Expenses already generated keep
// their values.
func (s *recurringService) UpdateRecurring(userID, recurringID string, update RecurringUpdate) (*models.RecurringExpense, error) {
	template, err := s.get(userID, recurringID)
	if err != nil {
		return nil, err
	}

	amount := update.Amount.Round(wealth.AmountScale)
	if !amount.GreaterThan(decimal.Zero) {
		return nil, apperrors.ErrInvalidAmount
	}
	description := strings.TrimSpace(update.Description)
	if description == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "description is required")
	}
	if update.DayOfMonth < 1 || update.DayOfMonth > models.MaxRecurringDay {
		return nil, apperrors.ErrInvalidDayOfMonth
	}
	exists, err := s.categoryService.CategoryExists(userID, update.Category)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.ErrInvalidCategoryRef
	}

	template.Amount = amount
	template.Description = description
	template.Category = update.Category
	template.DayOfMonth = update.DayOfMonth
	if err := s.db.Save(template).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return template, nil
}

// ToggleRecurring pauses an active template or resumes a paused one.
func (s *recurringService) ToggleRecurring(userID, recurringID string) (*models.RecurringExpense, error) {
	template, err := s.get(userID, recurringID)
	if err != nil {
		return nil, err
	}
	template.IsActive = !template.IsActive
	if err := s.db.Model(template).Update("is_active", template.IsActive).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return template, nil
}

// DeleteRecurring removes a template. Expenses it generated stay in the
// ledger as one-off expenses.
func (s *recurringService) DeleteRecurring(userID, recurringID string) error {
	template, err := s.get(userID, recurringID)
	if err != nil {
		return err
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Model(&models.Expense{}).
			Where("recurring_id = ?", template.ID).
			Update("recurring_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(template).Error
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// MaterializeDue creates this month's expense for every active template
// whose day has been reached. A template never produces two expenses in
// the same month, even when its expense was deleted.
func (s *recurringService) MaterializeDue(ctx context.Context, now time.Time) (int, error) {
	db := s.db.WithContext(ctx)

	var templates []models.RecurringExpense
	if err := db.Where("is_active = ? AND day_of_month <= ?", true, now.Day()).
		Find(&templates).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	from, to, err := spending.MonthRange(spending.MonthKey(now))
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	created := 0
	for _, t := range templates {
		if err := ctx.Err(); err != nil {
			return created, err
		}

		var count int64
		if err := db.Unscoped().Model(&models.Expense{}).
			Where("recurring_id = ? AND date >= ? AND date < ?",
				t.ID, from.Format(models.DateLayout), to.Format(models.DateLayout)).
			Count(&count).Error; err != nil {
			return created, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count > 0 {
			continue
		}

		day := t.DayOfMonth
		if last := spending.DaysIn(now); day > last {
			day = last
		}
		recurringID := t.ID
		expense := &models.Expense{
			UserID:      t.UserID,
			Amount:      t.Amount,
			Description: t.Description,
			Category:    t.Category,
			Date:        models.NewDate(time.Date(now.Year(), now.Month(), day, 0, 0, 0, 0, time.UTC)),
			RecurringID: &recurringID,
		}
		if err := db.Create(expense).Error; err != nil {
			return created, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		created++
		logger.Get().Infow("recurring expense materialised",
			"recurring_id", t.ID, "user_id", t.UserID, "date", expense.Date.String())
	}
	return created, nil
}

func (s *recurringService) get(userID, recurringID string) (*models.RecurringExpense, error) {
	var template models.RecurringExpense
	if err := s.db.Where("id = ? AND user_id = ?", recurringID, userID).First(&template).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrRecurringNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &template, nil
}
