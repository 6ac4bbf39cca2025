package wealth

import (
	"sort"

	"github.com/shopspring/decimal"
)

// YearData is the editable state of one year: at most one snapshot per month.
// Values are treated as immutable; Apply returns a new YearData.
type YearData struct {
	Year      int
	Snapshots map[int]Snapshot
}

// NewYearData indexes snapshots of one year by month. Snapshots of other
// years are ignored; for duplicated months the first one wins.
func NewYearData(year int, snapshots []Snapshot) YearData {
	y := YearData{Year: year, Snapshots: make(map[int]Snapshot)}
	for _, s := range snapshots {
		if s.Period.Year != year || !s.Period.Valid() {
			continue
		}
		if _, dup := y.Snapshots[s.Period.Month]; dup {
			continue
		}
		y.Snapshots[s.Period.Month] = s.Clone()
	}
	return y
}

// Snapshot returns the snapshot of a month, nil when none was created.
func (y YearData) Snapshot(month int) *Snapshot {
	s, ok := y.Snapshots[month]
	if !ok {
		return nil
	}
	return &s
}

// AssetClasses maps each asset name to the first non-empty class recorded
// for it, scanning months in order.
func (y YearData) AssetClasses() map[string]string {
	classes := make(map[string]string)
	for m := BaselineMonth; m <= LastMonth; m++ {
		s, ok := y.Snapshots[m]
		if !ok {
			continue
		}
		for _, a := range s.Assets {
			if _, seen := classes[a.Name]; !seen && a.Class != "" {
				classes[a.Name] = a.Class
			}
		}
	}
	return classes
}

// Names returns the sorted distinct names used in a collection across the year.
func (y YearData) Names(k Kind) []string {
	set := make(map[string]struct{})
	for _, s := range y.Snapshots {
		for _, l := range s.Lines(k) {
			set[l.Name] = struct{}{}
		}
	}
	names := make([]string, 0, len(set))
	for n := range set {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Totals are the per-kind sums of one month.
type Totals struct {
	Cash        decimal.Decimal `json:"cash" swaggertype:"string"`
	Assets      decimal.Decimal `json:"assets" swaggertype:"string"`
	Debts       decimal.Decimal `json:"debts" swaggertype:"string"`
	Earnings    decimal.Decimal `json:"earnings" swaggertype:"string"`
	Investments decimal.Decimal `json:"investments" swaggertype:"string"`
}

// MonthView is one column of the year grid.
type MonthView struct {
	Month            int              `json:"month"`
	Label            string           `json:"label"`
	Exists           bool             `json:"exists"`
	Populated        bool             `json:"populated"`
	Totals           Totals           `json:"totals"`
	NetWorth         decimal.Decimal  `json:"net_worth" swaggertype:"string"`
	AssetPerformance *decimal.Decimal `json:"asset_performance" swaggertype:"string"`
	ImpliedSpending  *decimal.Decimal `json:"implied_spending" swaggertype:"string"`
	SavingsRate      *int64           `json:"savings_rate"`
	Entries          map[Kind][]Line  `json:"entries"`
}

// YearView is the year grid: names per collection, one column per month and
// per-asset performance rows.
type YearView struct {
	Year                 int                           `json:"year"`
	Names                map[Kind][]string             `json:"names"`
	AssetClasses         map[string]string             `json:"asset_classes"`
	Months               []MonthView                   `json:"months"`
	AssetPerformance     map[string][]*decimal.Decimal `json:"asset_performance" swaggertype:"object"`
	LatestPopulatedMonth int                           `json:"latest_populated_month"`
}

// BuildYear renders the year grid. Within a year, the previous period of
// month m is month m-1 of the same year.
func BuildYear(y YearData) YearView {
	v := YearView{
		Year:             y.Year,
		Names:            make(map[Kind][]string, len(Kinds)),
		AssetClasses:     y.AssetClasses(),
		Months:           make([]MonthView, 0, LastMonth+1),
		AssetPerformance: make(map[string][]*decimal.Decimal),
	}
	for _, k := range Kinds {
		v.Names[k] = y.Names(k)
	}

	for m := BaselineMonth; m <= LastMonth; m++ {
		cur := y.Snapshot(m)
		var prev *Snapshot
		if m > BaselineMonth {
			prev = y.Snapshot(m - 1)
		}

		mv := MonthView{
			Month:     m,
			Label:     Period{Year: y.Year, Month: m}.Label(),
			Exists:    cur != nil,
			Populated: cur.Populated(),
			Totals: Totals{
				Cash:        cur.Total(KindCash),
				Assets:      cur.Total(KindAssets),
				Debts:       cur.Total(KindDebts),
				Earnings:    cur.Total(KindEarnings),
				Investments: cur.Total(KindInvestments),
			},
			Entries: make(map[Kind][]Line, len(Kinds)),
		}
		mv.NetWorth = mv.Totals.Cash.Add(mv.Totals.Assets).Sub(mv.Totals.Debts)
		for _, k := range Kinds {
			lines := []Line{}
			if cur != nil {
				lines = append(lines, cur.Lines(k)...)
				sort.SliceStable(lines, func(i, j int) bool { return lines[i].Name < lines[j].Name })
			}
			mv.Entries[k] = lines
		}

		if perf, ok := AssetAppreciation(cur, prev); ok {
			mv.AssetPerformance = &perf
		}
		if implied, ok := ImpliedSpending(cur, prev); ok {
			mv.ImpliedSpending = &implied
		}
		if rate, ok := SavingsRate(cur, prev); ok {
			mv.SavingsRate = &rate
		}
		if mv.Populated {
			v.LatestPopulatedMonth = m
		}
		v.Months = append(v.Months, mv)
	}

	for _, name := range v.Names[KindAssets] {
		row := make([]*decimal.Decimal, 0, LastMonth+1)
		for m := BaselineMonth; m <= LastMonth; m++ {
			row = append(row, assetPerformanceFor(y, name, m))
		}
		v.AssetPerformance[name] = row
	}
	return v
}

// assetPerformanceFor is the appreciation of a single asset in month m: its
// change since m-1 minus what was invested into it. Absent for the baseline,
// for unpopulated months and for assets worth zero in both months.
func assetPerformanceFor(y YearData, name string, m int) *decimal.Decimal {
	if m == BaselineMonth {
		return nil
	}
	cur := y.Snapshot(m)
	if !cur.Populated() {
		return nil
	}
	prevVal := y.Snapshot(m-1).Amount(KindAssets, name)
	curVal := cur.Amount(KindAssets, name)
	if prevVal.IsZero() && curVal.IsZero() {
		return nil
	}
	perf := curVal.Sub(prevVal).Sub(cur.Amount(KindInvestments, name))
	return &perf
}
