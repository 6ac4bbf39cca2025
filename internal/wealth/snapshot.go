package wealth

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Kind names one of the five collections of a snapshot.
type Kind string

const (
	KindCash        Kind = "cash"
	KindAssets      Kind = "assets"
	KindDebts       Kind = "debts"
	KindEarnings    Kind = "earnings"
	KindInvestments Kind = "investments"
)

// Kinds lists every collection in display order.
var Kinds = []Kind{KindCash, KindAssets, KindDebts, KindEarnings, KindInvestments}

// Valid reports whether k is one of Kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindCash, KindAssets, KindDebts, KindEarnings, KindInvestments:
		return true
	}
	return false
}

// ParseKind accepts the canonical kind names and their singular forms.
func ParseKind(s string) (Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cash":
		return KindCash, true
	case "assets", "asset":
		return KindAssets, true
	case "debts", "debt":
		return KindDebts, true
	case "earnings", "earning":
		return KindEarnings, true
	case "investments", "investment":
		return KindInvestments, true
	}
	return "", false
}

// DefaultAssetClass is used for assets without a classification.
const DefaultAssetClass = "Other"

// Line is one named amount in a collection. Class is only meaningful for
// assets; investment lines are named after the asset they were put into.
type Line struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
	Class  string          `json:"asset_class,omitempty"`
}

// ClassOrDefault returns the trimmed asset class or DefaultAssetClass.
func (l Line) ClassOrDefault() string {
	if c := strings.TrimSpace(l.Class); c != "" {
		return c
	}
	return DefaultAssetClass
}

// Snapshot is the recorded state of one period.
type Snapshot struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id"`
	Period      Period `json:"period"`
	Cash        []Line `json:"cash"`
	Assets      []Line `json:"assets"`
	Debts       []Line `json:"debts"`
	Earnings    []Line `json:"earnings"`
	Investments []Line `json:"investments"`
}

// Lines returns the collection of the given kind.
func (s *Snapshot) Lines(k Kind) []Line {
	switch k {
	case KindCash:
		return s.Cash
	case KindAssets:
		return s.Assets
	case KindDebts:
		return s.Debts
	case KindEarnings:
		return s.Earnings
	case KindInvestments:
		return s.Investments
	}
	return nil
}

// SetLines replaces the collection of the given kind.
func (s *Snapshot) SetLines(k Kind, lines []Line) {
	switch k {
	case KindCash:
		s.Cash = lines
	case KindAssets:
		s.Assets = lines
	case KindDebts:
		s.Debts = lines
	case KindEarnings:
		s.Earnings = lines
	case KindInvestments:
		s.Investments = lines
	}
}

// Find returns the line with the given name.
func (s *Snapshot) Find(k Kind, name string) (Line, bool) {
	for _, l := range s.Lines(k) {
		if l.Name == name {
			return l, true
		}
	}
	return Line{}, false
}

// Amount returns the amount recorded under name, zero when absent.
func (s *Snapshot) Amount(k Kind, name string) decimal.Decimal {
	if s == nil {
		return decimal.Zero
	}
	l, _ := s.Find(k, name)
	return l.Amount
}

// Total sums the collection of the given kind.
func (s *Snapshot) Total(k Kind) decimal.Decimal {
	total := decimal.Zero
	if s == nil {
		return total
	}
	for _, l := range s.Lines(k) {
		total = total.Add(l.Amount)
	}
	return total
}

// NetWorth is cash plus assets minus debts.
func (s *Snapshot) NetWorth() decimal.Decimal {
	return s.Total(KindCash).Add(s.Total(KindAssets)).Sub(s.Total(KindDebts))
}

// Populated reports whether any balance has been entered: the sum of cash,
// assets and debts is nonzero. A nil snapshot is never populated.
func (s *Snapshot) Populated() bool {
	if s == nil {
		return false
	}
	return !s.Total(KindCash).Add(s.Total(KindAssets)).Add(s.Total(KindDebts)).IsZero()
}

// Clone returns a deep copy of s.
func (s Snapshot) Clone() Snapshot {
	out := s
	for _, k := range Kinds {
		if lines := s.Lines(k); lines != nil {
			out.SetLines(k, append([]Line(nil), lines...))
		}
	}
	return out
}

// SortSnapshots returns a copy of snapshots ordered by period. Entries with
// equal periods keep their relative order.
func SortSnapshots(snapshots []Snapshot) []Snapshot {
	sorted := make([]Snapshot, len(snapshots))
	copy(sorted, snapshots)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Period.Before(sorted[j].Period)
	})
	return sorted
}
