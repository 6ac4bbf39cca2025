package wealth

import (
	"time"

	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)
	half    = decimal.NewFromFloat(0.5)
)

// deltaDefined reports whether period-over-period quantities exist for cur.
// They never do for a baseline, and need both cur and prev populated.
func deltaDefined(cur, prev *Snapshot) bool {
	if cur == nil || prev == nil {
		return false
	}
	if cur.Period.IsBaseline() {
		return false
	}
	return cur.Populated() && prev.Populated()
}

// AssetAppreciation is the change in total assets that was not paid for by
// the period's investment contributions.
func AssetAppreciation(cur, prev *Snapshot) (decimal.Decimal, bool) {
	if !deltaDefined(cur, prev) {
		return decimal.Zero, false
	}
	delta := cur.Total(KindAssets).Sub(prev.Total(KindAssets))
	return delta.Sub(cur.Total(KindInvestments)), true
}

// ImpliedSpending is earnings minus net worth growth, plus appreciation:
// whatever income did not end up in net worth, ignoring paper gains.
func ImpliedSpending(cur, prev *Snapshot) (decimal.Decimal, bool) {
	appreciation, ok := AssetAppreciation(cur, prev)
	if !ok {
		return decimal.Zero, false
	}
	deltaNW := cur.NetWorth().Sub(prev.NetWorth())
	return cur.Total(KindEarnings).Sub(deltaNW).Add(appreciation), true
}

// SavingsRate is the share of earnings not spent, as a whole percentage
// rounded half up. It is only defined when earnings are positive and is not
// clamped: overspending gives a negative rate.
func SavingsRate(cur, prev *Snapshot) (int64, bool) {
	implied, ok := ImpliedSpending(cur, prev)
	if !ok {
		return 0, false
	}
	earnings := cur.Total(KindEarnings)
	if !earnings.IsPositive() {
		return 0, false
	}
	rate := earnings.Sub(implied).Div(earnings).Mul(hundred)
	return rate.Add(half).Floor().IntPart(), true
}

// LedgerEntry is a tracked expense as seen by the derivation.
type LedgerEntry struct {
	Date     time.Time
	Amount   decimal.Decimal
	Category string
}

// Point is one value of a monthly series.
type Point struct {
	Month string          `json:"month"`
	Value decimal.Decimal `json:"value" swaggertype:"string"`
}

// RatePoint is one savings rate, in whole percent.
type RatePoint struct {
	Month string `json:"month"`
	Rate  int64  `json:"rate"`
}

// CompositionPoint splits a period's gross holdings into cash and assets.
type CompositionPoint struct {
	Month  string          `json:"month"`
	Cash   decimal.Decimal `json:"cash" swaggertype:"string"`
	Assets decimal.Decimal `json:"assets" swaggertype:"string"`
}

// ComparisonPoint pairs implied spending with the tracked expenses of the
// same calendar month.
type ComparisonPoint struct {
	Month   string          `json:"month"`
	Implied decimal.Decimal `json:"implied" swaggertype:"string"`
	Tracked decimal.Decimal `json:"tracked" swaggertype:"string"`
}

// Summary describes the latest net worth and its change since the previous
// point of the net worth series.
type Summary struct {
	LatestMonth    string           `json:"latest_month,omitempty"`
	LatestNetWorth *decimal.Decimal `json:"latest_net_worth" swaggertype:"string"`
	Change         *decimal.Decimal `json:"change" swaggertype:"string"`
	ChangePct      *float64         `json:"change_pct"`
}

// Dashboard is the full set of derived series for one user.
type Dashboard struct {
	NetWorth        []Point            `json:"net_worth"`
	Income          []Point            `json:"income"`
	ImpliedSpending []Point            `json:"implied_spending"`
	SavingsRate     []RatePoint        `json:"savings_rate"`
	Composition     []CompositionPoint `json:"composition"`
	Comparison      []ComparisonPoint  `json:"comparison"`
	Allocation      []AllocationGroup  `json:"allocation"`
	AllocationMonth string             `json:"allocation_month"`
	Summary         Summary            `json:"summary"`
}

// Derive computes every dashboard series. Snapshots may arrive in any order;
// "previous" is the preceding entry once sorted by period, whether or not it
// is populated. Only periods that are complete as of asOf and populated
// produce points.
func Derive(snapshots []Snapshot, ledger []LedgerEntry, asOf time.Time) Dashboard {
	d := Dashboard{
		NetWorth:        []Point{},
		Income:          []Point{},
		ImpliedSpending: []Point{},
		SavingsRate:     []RatePoint{},
		Composition:     []CompositionPoint{},
		Comparison:      []ComparisonPoint{},
		Allocation:      []AllocationGroup{},
	}

	tracked := TrackedByMonth(ledger)
	sorted := SortSnapshots(snapshots)

	var latest *Snapshot
	for i := range sorted {
		cur := &sorted[i]
		if !cur.Period.Complete(asOf) || !cur.Populated() {
			continue
		}
		var prev *Snapshot
		if i > 0 {
			prev = &sorted[i-1]
		}

		label := cur.Period.Label()
		d.NetWorth = append(d.NetWorth, Point{Month: label, Value: cur.NetWorth()})
		d.Composition = append(d.Composition, CompositionPoint{
			Month:  label,
			Cash:   cur.Total(KindCash),
			Assets: cur.Total(KindAssets),
		})

		if implied, ok := ImpliedSpending(cur, prev); ok {
			d.Income = append(d.Income, Point{Month: label, Value: cur.Total(KindEarnings)})
			d.ImpliedSpending = append(d.ImpliedSpending, Point{Month: label, Value: implied})
			d.Comparison = append(d.Comparison, ComparisonPoint{
				Month:   label,
				Implied: implied,
				Tracked: tracked[label],
			})
			if rate, ok := SavingsRate(cur, prev); ok {
				d.SavingsRate = append(d.SavingsRate, RatePoint{Month: label, Rate: rate})
			}
		}
		latest = cur
	}

	if latest != nil {
		d.Allocation = Allocate(latest)
		if len(d.Allocation) > 0 {
			d.AllocationMonth = latest.Period.Label()
		}
	}
	d.Summary = summarize(d.NetWorth)
	return d
}

// TrackedByMonth sums ledger amounts per "YYYY-MM".
func TrackedByMonth(ledger []LedgerEntry) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal)
	for _, e := range ledger {
		key := e.Date.Format("2006-01")
		out[key] = out[key].Add(e.Amount)
	}
	return out
}

func summarize(series []Point) Summary {
	var s Summary
	if len(series) == 0 {
		return s
	}
	latest := series[len(series)-1]
	s.LatestMonth = latest.Month
	s.LatestNetWorth = &latest.Value
	if len(series) < 2 {
		return s
	}
	prev := series[len(series)-2].Value
	change := latest.Value.Sub(prev)
	s.Change = &change
	if !prev.IsZero() {
		pct := change.Div(prev.Abs()).Mul(hundred).Round(1).InexactFloat64()
		s.ChangePct = &pct
	}
	return s
}
