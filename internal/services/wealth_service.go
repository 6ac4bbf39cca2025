package services

import (
	"context"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	apperrors "github.com/javigracia12/toofinance/internal/errors"
	"github.com/javigracia12/toofinance/internal/logger"
	"github.com/javigracia12/toofinance/internal/wealth"
)

const (
	minYear = 1900
	maxYear = 9999
)

// wealthService handles the monthly wealth tracker.
type wealthService struct {
	db             *gorm.DB
	store          *snapshotStore
	expenseService ExpenseServicer
}

// NewWealthService creates a new WealthServicer.
func NewWealthService(db *gorm.DB, expenseService ExpenseServicer) WealthServicer {
	return &wealthService{
		db:             db,
		store:          newSnapshotStore(db),
		expenseService: expenseService,
	}
}

// GetYear returns the tracker grid of one year.
func (s *wealthService) GetYear(ctx context.Context, userID string, year int) (*wealth.YearView, error) {
	y, err := s.loadYear(ctx, userID, year)
	if err != nil {
		return nil, err
	}
	view := wealth.BuildYear(y)
	return &view, nil
}

// UpdateCell sets one amount of the grid, creating the month's snapshot on
// first use, and returns the updated grid.
func (s *wealthService) UpdateCell(ctx context.Context, userID string, year int, update CellUpdate) (*wealth.YearView, error) {
	if !update.Kind.Valid() {
		return nil, apperrors.ErrInvalidRowKind
	}
	if !(wealth.Period{Year: year, Month: update.Month}).Valid() {
		return nil, apperrors.ErrInvalidPeriod
	}
	if strings.TrimSpace(update.Name) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "row name is required")
	}

	y, err := s.loadYear(ctx, userID, year)
	if err != nil {
		return nil, err
	}

	edit := wealth.SetAmount{
		Kind:       update.Kind,
		Name:       update.Name,
		Month:      update.Month,
		Amount:     update.Amount.Round(wealth.AmountScale),
		AssetClass: update.AssetClass,
	}.Resolve(y)

	var snapshotID string
	err = s.db.Transaction(func(tx *gorm.DB) error {
		store := s.store.with(tx)
		id, err := store.CreateSnapshot(ctx, userID, year, edit.Month)
		if err != nil {
			return err
		}
		snapshotID = id
		return store.UpsertRow(ctx, edit.Kind, id, edit.Name, edit.Amount, edit.AssetClass)
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	y = wealth.Apply(y, edit)
	if snap, ok := y.Snapshots[edit.Month]; ok && snap.ID == "" {
		snap.ID = snapshotID
		snap.UserID = userID
		y.Snapshots[edit.Month] = snap
	}

	logger.Get().Debugw("wealth cell updated",
		"user_id", userID, "year", year, "month", edit.Month, "kind", edit.Kind, "name", edit.Name)

	view := wealth.BuildYear(y)
	return &view, nil
}

// DeleteRow removes a name from every snapshot of the user, or of one year
// when year is set. Deleting an asset also deletes its investments.
func (s *wealthService) DeleteRow(ctx context.Context, userID string, kind wealth.Kind, name string, year *int) (*DeleteRowResult, error) {
	if !kind.Valid() {
		return nil, apperrors.ErrInvalidRowKind
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "row name is required")
	}
	if year != nil {
		if err := validateYear(*year); err != nil {
			return nil, err
		}
	}

	records, err := s.store.ListSnapshots(ctx, userID, year)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	ids := make([]string, len(records))
	for i, r := range records {
		ids[i] = r.ID
	}

	edit := wealth.DeleteName{Kind: kind, Name: name}
	var deleted int64
	err = s.db.Transaction(func(tx *gorm.DB) error {
		store := s.store.with(tx)
		for _, k := range wealth.CascadeKinds(edit.Kind) {
			n, err := store.DeleteRowsByName(ctx, k, ids, edit.Name)
			if err != nil {
				return err
			}
			deleted += n
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if deleted == 0 {
		return nil, apperrors.ErrRowNotFound
	}

	result := &DeleteRowResult{Deleted: deleted}
	if year != nil {
		y, err := s.loadYear(ctx, userID, *year)
		if err != nil {
			return nil, err
		}
		view := wealth.BuildYear(wealth.Apply(y, edit))
		result.Year = &view
	}
	return result, nil
}

// GetDashboard derives every dashboard series from the user's full history
// and expense ledger.
func (s *wealthService) GetDashboard(ctx context.Context, userID string, asOf time.Time) (*wealth.Dashboard, error) {
	var (
		snapshots []wealth.Snapshot
		ledger    []wealth.LedgerEntry
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		snapshots, err = s.store.Load(gctx, userID, nil)
		if err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		ledger, err = s.expenseService.ListLedger(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	dashboard := wealth.Derive(snapshots, ledger, asOf)
	return &dashboard, nil
}

func (s *wealthService) loadYear(ctx context.Context, userID string, year int) (wealth.YearData, error) {
	if err := validateYear(year); err != nil {
		return wealth.YearData{}, err
	}
	snapshots, err := s.store.Load(ctx, userID, &year)
	if err != nil {
		return wealth.YearData{}, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return wealth.NewYearData(year, snapshots), nil
}

func validateYear(year int) error {
	if year < minYear || year > maxYear {
		return apperrors.WithMessage(apperrors.ErrInvalidPeriod, "year must be between 1900 and 9999")
	}
	return nil
}
