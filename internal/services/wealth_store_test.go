package services

import (
	"context"
	"testing"

	"github.com/javigracia12/toofinance/internal/testutil"
	"github.com/javigracia12/toofinance/internal/wealth"
)

func TestSnapshotStore(t *testing.T) {
	ctx := context.Background()

	t.Run("create_snapshot_is_idempotent", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		store := newSnapshotStore(db)
		userID := testutil.NewUserID()

		first, err := store.CreateSnapshot(ctx, userID, 2025, 4)
		testutil.AssertNoError(t, err)
		second, err := store.CreateSnapshot(ctx, userID, 2025, 4)
		testutil.AssertNoError(t, err)
		if first == "" || first != second {
			t.Errorf("expected the same snapshot id, got %q and %q", first, second)
		}

		other, err := store.CreateSnapshot(ctx, testutil.NewUserID(), 2025, 4)
		testutil.AssertNoError(t, err)
		if other == first {
			t.Error("expected a different snapshot for another user")
		}
	})

	t.Run("upsert_keeps_class_when_empty", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		store := newSnapshotStore(db)
		userID := testutil.NewUserID()

		id, err := store.CreateSnapshot(ctx, userID, 2025, 1)
		testutil.AssertNoError(t, err)
		testutil.AssertNoError(t, store.UpsertRow(ctx, wealth.KindAssets, id, "Gold", d("100"), "Commodities"))
		testutil.AssertNoError(t, store.UpsertRow(ctx, wealth.KindAssets, id, "Gold", d("120"), ""))

		rows, err := store.ListRows(ctx, wealth.KindAssets, []string{id})
		testutil.AssertNoError(t, err)
		if len(rows) != 1 {
			t.Fatalf("expected 1 row, got %d", len(rows))
		}
		testutil.AssertDecimal(t, "gold", rows[0].Amount, "120")
		if rows[0].AssetClass != "Commodities" {
			t.Errorf("expected class Commodities, got %q", rows[0].AssetClass)
		}
	})

	t.Run("load_assembles_snapshots", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		store := newSnapshotStore(db)
		userID := testutil.NewUserID()

		jan := testutil.CreateTestSnapshot(t, db, userID, 2025, 1)
		testutil.CreateTestEntry(t, db, jan.ID, "cash", "Bank", "10", "")
		testutil.CreateTestEntry(t, db, jan.ID, "debts", "Card", "4", "")
		dec := testutil.CreateTestSnapshot(t, db, userID, 2024, 12)
		testutil.CreateTestEntry(t, db, dec.ID, "earnings", "Salary", "7", "")

		all, err := store.Load(ctx, userID, nil)
		testutil.AssertNoError(t, err)
		if len(all) != 2 {
			t.Fatalf("expected 2 snapshots, got %d", len(all))
		}
		if all[0].Period != (wealth.Period{Year: 2024, Month: 12}) {
			t.Errorf("expected snapshots ordered by period, got %+v", all[0].Period)
		}
		testutil.AssertDecimal(t, "net worth", all[1].NetWorth(), "6")

		year := 2025
		only, err := store.Load(ctx, userID, &year)
		testutil.AssertNoError(t, err)
		if len(only) != 1 || only[0].ID != jan.ID {
			t.Errorf("expected only january, got %+v", only)
		}
	})

	t.Run("load_without_snapshots", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		snapshots, err := newSnapshotStore(db).Load(ctx, testutil.NewUserID(), nil)
		testutil.AssertNoError(t, err)
		if snapshots == nil || len(snapshots) != 0 {
			t.Errorf("expected empty slice, got %v", snapshots)
		}
	})
}
