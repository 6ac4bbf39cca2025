package services

import (
	"context"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shopspring/decimal"

	"github.com/javigracia12/toofinance/internal/models"
	"github.com/javigracia12/toofinance/internal/wealth"
)

// snapshotStore persists wealth snapshots and their rows.
type snapshotStore struct {
	db *gorm.DB
}

func newSnapshotStore(db *gorm.DB) *snapshotStore {
	return &snapshotStore{db: db}
}

// with returns a store bound to tx.
func (s *snapshotStore) with(tx *gorm.DB) *snapshotStore {
	return &snapshotStore{db: tx}
}

// ListSnapshots returns the user's snapshots of one year, or of every year
// when year is nil.
func (s *snapshotStore) ListSnapshots(ctx context.Context, userID string, year *int) ([]models.WealthSnapshot, error) {
	q := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if year != nil {
		q = q.Where("year = ?", *year)
	}
	var snapshots []models.WealthSnapshot
	if err := q.Order("year ASC, month ASC").Find(&snapshots).Error; err != nil {
		return nil, err
	}
	return snapshots, nil
}

// ListRows returns the rows of one kind belonging to the given snapshots.
func (s *snapshotStore) ListRows(ctx context.Context, kind wealth.Kind, snapshotIDs []string) ([]models.WealthEntry, error) {
	var rows []models.WealthEntry
	if len(snapshotIDs) == 0 {
		return rows, nil
	}
	err := s.db.WithContext(ctx).
		Where("kind = ? AND snapshot_id IN ?", string(kind), snapshotIDs).
		Order("name ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// UpsertRow sets the amount of a named row, creating it when absent. An empty
// asset class leaves the stored class untouched.
func (s *snapshotStore) UpsertRow(ctx context.Context, kind wealth.Kind, snapshotID, name string, amount decimal.Decimal, assetClass string) error {
	updates := []string{"amount", "updated_at"}
	if assetClass != "" {
		updates = append(updates, "asset_class")
	}
	row := &models.WealthEntry{
		SnapshotID: snapshotID,
		Kind:       string(kind),
		Name:       name,
		Amount:     amount,
		AssetClass: assetClass,
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "snapshot_id"}, {Name: "kind"}, {Name: "name"}},
		DoUpdates: clause.AssignmentColumns(updates),
	}).Create(row).Error
}

// DeleteRowsByName removes every row of kind named name from the snapshots.
func (s *snapshotStore) DeleteRowsByName(ctx context.Context, kind wealth.Kind, snapshotIDs []string, name string) (int64, error) {
	if len(snapshotIDs) == 0 {
		return 0, nil
	}
	result := s.db.WithContext(ctx).
		Where("kind = ? AND name = ? AND snapshot_id IN ?", string(kind), name, snapshotIDs).
		Delete(&models.WealthEntry{})
	return result.RowsAffected, result.Error
}

// CreateSnapshot returns the id of the user's snapshot for the period,
// creating it when absent. Concurrent callers get the same snapshot.
func (s *snapshotStore) CreateSnapshot(ctx context.Context, userID string, year, month int) (string, error) {
	db := s.db.WithContext(ctx)
	snap := &models.WealthSnapshot{UserID: userID, Year: year, Month: month}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "year"}, {Name: "month"}},
		DoNothing: true,
	}).Create(snap).Error
	if err != nil {
		return "", err
	}

	var existing models.WealthSnapshot
	if err := db.Where("user_id = ? AND year = ? AND month = ?", userID, year, month).
		First(&existing).Error; err != nil {
		return "", err
	}
	return existing.ID, nil
}

// Load returns the user's snapshots with all their rows. The five row kinds
// are fetched concurrently; any failure aborts the load.
func (s *snapshotStore) Load(ctx context.Context, userID string, year *int) ([]wealth.Snapshot, error) {
	records, err := s.ListSnapshots(ctx, userID, year)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return []wealth.Snapshot{}, nil
	}

	ids := make([]string, len(records))
	for i, r := range records {
		ids[i] = r.ID
	}

	rowsByKind := make([][]models.WealthEntry, len(wealth.Kinds))
	g, gctx := errgroup.WithContext(ctx)
	for i, kind := range wealth.Kinds {
		g.Go(func() error {
			rows, err := s.ListRows(gctx, kind, ids)
			if err != nil {
				return err
			}
			rowsByKind[i] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	snapshots := make([]wealth.Snapshot, len(records))
	index := make(map[string]int, len(records))
	for i, r := range records {
		snapshots[i] = wealth.Snapshot{
			ID:     r.ID,
			UserID: r.UserID,
			Period: wealth.Period{Year: r.Year, Month: r.Month},
		}
		index[r.ID] = i
	}
	for i, kind := range wealth.Kinds {
		for _, row := range rowsByKind[i] {
			snap := &snapshots[index[row.SnapshotID]]
			line := wealth.Line{Name: row.Name, Amount: row.Amount, Class: row.AssetClass}
			snap.SetLines(kind, append(snap.Lines(kind), line))
		}
	}
	return snapshots, nil
}
