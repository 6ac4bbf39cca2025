package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/javigracia12/toofinance/internal/models"
	"github.com/javigracia12/toofinance/internal/uuid"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// NewUserID returns a fresh user id. Users live with the identity provider,
// so there is no user row to create.
func NewUserID() string {
	return uuid.New()
}

// CreateTestCategory creates a custom category with a unique slug.
func CreateTestCategory(t *testing.T, db *gorm.DB, userID, label string) *models.Category {
	t.Helper()

	category := &models.Category{
		UserID:   userID,
		Slug:     fmt.Sprintf("test-%d", nextID()),
		Label:    label,
		Color:    "#123456",
		IsCustom: true,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestExpense creates a one-off expense. date is "YYYY-MM-DD".
func CreateTestExpense(t *testing.T, db *gorm.DB, userID, category, amount, date string) *models.Expense {
	t.Helper()

	d, err := models.ParseDate(date)
	if err != nil {
		t.Fatalf("invalid fixture date %q: %v", date, err)
	}
	expense := &models.Expense{
		UserID:      userID,
		Amount:      decimal.RequireFromString(amount),
		Description: fmt.Sprintf("Test expense %d", nextID()),
		Category:    category,
		Date:        d,
	}
	if err := db.Create(expense).Error; err != nil {
		t.Fatalf("failed to create test expense: %v", err)
	}
	return expense
}

// CreateTestRecurring creates an active recurring expense.
func CreateTestRecurring(t *testing.T, db *gorm.DB, userID, category, amount string, day int) *models.RecurringExpense {
	t.Helper()

	recurring := &models.RecurringExpense{
		UserID:      userID,
		Amount:      decimal.RequireFromString(amount),
		Description: fmt.Sprintf("Test recurring %d", nextID()),
		Category:    category,
		DayOfMonth:  day,
		IsActive:    true,
	}
	if err := db.Create(recurring).Error; err != nil {
		t.Fatalf("failed to create test recurring expense: %v", err)
	}
	return recurring
}

// CreateTestSnapshot creates a wealth snapshot for the period.
func CreateTestSnapshot(t *testing.T, db *gorm.DB, userID string, year, month int) *models.WealthSnapshot {
	t.Helper()

	snapshot := &models.WealthSnapshot{UserID: userID, Year: year, Month: month}
	if err := db.Create(snapshot).Error; err != nil {
		t.Fatalf("failed to create test snapshot: %v", err)
	}
	return snapshot
}

// CreateTestEntry adds a row to a snapshot.
func CreateTestEntry(t *testing.T, db *gorm.DB, snapshotID, kind, name, amount, assetClass string) *models.WealthEntry {
	t.Helper()

	entry := &models.WealthEntry{
		SnapshotID: snapshotID,
		Kind:       kind,
		Name:       name,
		Amount:     decimal.RequireFromString(amount),
		AssetClass: assetClass,
	}
	if err := db.Create(entry).Error; err != nil {
		t.Fatalf("failed to create test entry: %v", err)
	}
	return entry
}
