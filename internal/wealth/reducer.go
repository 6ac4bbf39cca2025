package wealth

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Edit is a single change to a year's data. The same value is applied to the
// in-memory state with Apply and translated into store writes, so both end up
// in the same state.
type Edit interface {
	apply(y YearData) YearData
}

// SetAmount records an amount under a name for one month, creating the
// month's snapshot and the line as needed.
type SetAmount struct {
	Kind       Kind
	Name       string
	Month      int
	Amount     decimal.Decimal
	AssetClass string
}

// DeleteName removes a name from every month of the year. Removing an asset
// also removes the investments made into it.
type DeleteName struct {
	Kind Kind
	Name string
}

// Apply returns the state after e. y is not modified.
func Apply(y YearData, e Edit) YearData {
	return e.apply(y)
}

// Resolve trims the name and settles the asset class the line will carry:
// an explicit class wins, otherwise the one already known for the asset.
// Non-asset lines never carry a class.
func (e SetAmount) Resolve(y YearData) SetAmount {
	e.Name = strings.TrimSpace(e.Name)
	e.AssetClass = strings.TrimSpace(e.AssetClass)
	if e.Kind != KindAssets {
		e.AssetClass = ""
		return e
	}
	if e.AssetClass == "" {
		e.AssetClass = y.AssetClasses()[e.Name]
	}
	return e
}

func (e SetAmount) apply(y YearData) YearData {
	if e.Name == "" || !e.Kind.Valid() || !(Period{Year: y.Year, Month: e.Month}).Valid() {
		return y
	}
	next := y.shallowCopy()

	snap, ok := y.Snapshots[e.Month]
	if ok {
		snap = snap.Clone()
	} else {
		snap = Snapshot{Period: Period{Year: y.Year, Month: e.Month}}
	}

	lines := snap.Lines(e.Kind)
	updated := make([]Line, 0, len(lines)+1)
	found := false
	for _, l := range lines {
		if l.Name == e.Name {
			l.Amount = e.Amount
			if e.AssetClass != "" {
				l.Class = e.AssetClass
			}
			found = true
		}
		updated = append(updated, l)
	}
	if !found {
		updated = append(updated, Line{Name: e.Name, Amount: e.Amount, Class: e.AssetClass})
	}
	snap.SetLines(e.Kind, updated)

	next.Snapshots[e.Month] = snap
	return next
}

func (e DeleteName) apply(y YearData) YearData {
	next := y.shallowCopy()
	for m, s := range y.Snapshots {
		s = s.Clone()
		for _, k := range CascadeKinds(e.Kind) {
			s.SetLines(k, withoutName(s.Lines(k), e.Name))
		}
		next.Snapshots[m] = s
	}
	return next
}

// CascadeKinds lists the collections a DeleteName of kind k touches.
func CascadeKinds(k Kind) []Kind {
	if k == KindAssets {
		return []Kind{KindAssets, KindInvestments}
	}
	return []Kind{k}
}

func withoutName(lines []Line, name string) []Line {
	out := make([]Line, 0, len(lines))
	for _, l := range lines {
		if l.Name != name {
			out = append(out, l)
		}
	}
	return out
}

func (y YearData) shallowCopy() YearData {
	next := YearData{Year: y.Year, Snapshots: make(map[int]Snapshot, len(y.Snapshots)+1)}
	for m, s := range y.Snapshots {
		next.Snapshots[m] = s
	}
	return next
}
