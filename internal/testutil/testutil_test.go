package testutil_test

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/javigracia12/toofinance/internal/errors"
	"github.com/javigracia12/toofinance/internal/testutil"
)

func TestSetupTestDB(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	// Verify all tables exist by doing a simple count query on each model.
	var count int64
	for _, table := range []string{"wealth_snapshots", "wealth_entries", "categories", "recurring_expenses", "expenses", "audit_logs"} {
		if err := db.Table(table).Count(&count).Error; err != nil {
			t.Errorf("table %q should exist after migration: %v", table, err)
		}
	}
}

func TestSetupTestDBIsolated(t *testing.T) {
	first := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, first)
	second := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, second)

	testutil.CreateTestCategory(t, first, testutil.NewUserID(), "Only here")

	var count int64
	if err := second.Table("categories").Count(&count).Error; err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Errorf("expected an empty second database, got %d categories", count)
	}
}

func TestFixtures(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	userID := testutil.NewUserID()

	category := testutil.CreateTestCategory(t, db, userID, "Groceries")
	if category.ID == "" || !category.IsCustom {
		t.Fatalf("unexpected category %+v", category)
	}

	expense := testutil.CreateTestExpense(t, db, userID, category.Slug, "12.50", "2025-03-15")
	if expense.Date.String() != "2025-03-15" {
		t.Errorf("expected date 2025-03-15, got %s", expense.Date)
	}

	recurring := testutil.CreateTestRecurring(t, db, userID, category.Slug, "850", 1)
	if !recurring.IsActive {
		t.Error("expected active recurring expense")
	}

	snapshot := testutil.CreateTestSnapshot(t, db, userID, 2025, 1)
	entry := testutil.CreateTestEntry(t, db, snapshot.ID, "assets", "Index Fund", "1000", "ETF")
	if entry.SnapshotID != snapshot.ID {
		t.Errorf("expected entry to belong to snapshot %s", snapshot.ID)
	}
}

func TestAssertAppError(t *testing.T) {
	err := errors.WithMessage(errors.ErrExpenseNotFound, "custom message")
	testutil.AssertAppError(t, err, "EXPENSE_NOT_FOUND")
}

func TestAssertNoError(t *testing.T) {
	testutil.AssertNoError(t, nil)
}

func TestAssertDecimal(t *testing.T) {
	t.Run("ignores_trailing_zeros", func(t *testing.T) {
		testutil.AssertDecimal(t, "amount", decimal.RequireFromString("12.50"), "12.5")
	})

	t.Run("matches_integers", func(t *testing.T) {
		testutil.AssertDecimal(t, "amount", decimal.NewFromInt(300), "300.00")
	})
}
