package models

import (
	"time"

	"github.com/javigracia12/toofinance/internal/uuid"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// WealthSnapshot is a user's record for one month of one year. Month 0 is the
// opening balance of the year. A (user, year, month) triple exists at most once.
type WealthSnapshot struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_wealth_snapshots_period" json:"user_id"`
	Year      int       `gorm:"not null;uniqueIndex:idx_wealth_snapshots_period" json:"year"`
	Month     int       `gorm:"not null;uniqueIndex:idx_wealth_snapshots_period" json:"month"`
	CreatedAt time.Time `json:"created_at"`
}

// BeforeCreate hook generates a UUIDv7 for new records
func (s *WealthSnapshot) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New()
	}
	return nil
}

// WealthEntry is one named line of a snapshot: a cash account, asset, debt,
// earning or investment contribution. Kind discriminates the collection.
// Rows are hard-deleted; history lives in the snapshots themselves.
type WealthEntry struct {
	ID         string          `gorm:"type:uuid;primaryKey" json:"id"`
	SnapshotID string          `gorm:"type:uuid;not null;uniqueIndex:idx_wealth_entries_name" json:"snapshot_id"`
	Kind       string          `gorm:"not null;uniqueIndex:idx_wealth_entries_name" json:"kind"`
	Name       string          `gorm:"not null;uniqueIndex:idx_wealth_entries_name" json:"name"`
	Amount     decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount" swaggertype:"string"`
	AssetClass string          `gorm:"not null;default:''" json:"asset_class,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// BeforeCreate hook generates a UUIDv7 for new records
func (e *WealthEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.New()
	}
	return nil
}
