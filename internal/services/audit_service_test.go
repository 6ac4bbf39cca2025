package services

import (
	"encoding/json"
	"testing"

	"github.com/javigracia12/toofinance/internal/models"
	"github.com/javigracia12/toofinance/internal/testutil"
)

func TestAuditLog(t *testing.T) {
	t.Run("records_changes", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAuditService(db)
		userID := testutil.NewUserID()

		svc.Log(userID, "UPDATE_WEALTH_CELL", "wealth_entry", "2025-03/cash/Bank", "127.0.0.1",
			map[string]interface{}{"amount": "1500.00"})

		var entry models.AuditLog
		testutil.AssertNoError(t, db.Where("user_id = ?", userID).First(&entry).Error)
		if entry.Action != "UPDATE_WEALTH_CELL" || entry.ResourceID != "2025-03/cash/Bank" {
			t.Errorf("unexpected entry %+v", entry)
		}

		var changes map[string]string
		testutil.AssertNoError(t, json.Unmarshal(entry.Changes, &changes))
		if changes["amount"] != "1500.00" {
			t.Errorf("unexpected changes %v", changes)
		}
	})

	t.Run("nil_changes", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAuditService(db)
		userID := testutil.NewUserID()

		svc.Log(userID, "DELETE_EXPENSE", "expense", "x", "", nil)

		var count int64
		db.Model(&models.AuditLog{}).Where("user_id = ?", userID).Count(&count)
		if count != 1 {
			t.Errorf("expected 1 audit entry, got %d", count)
		}
	})

	t.Run("failure_does_not_panic", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewAuditService(db)
		testutil.TeardownTestDB(t, db)

		svc.Log(testutil.NewUserID(), "DELETE_EXPENSE", "expense", "x", "", nil)
	})
}
