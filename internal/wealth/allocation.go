package wealth

import (
	"sort"

	"github.com/shopspring/decimal"
)

// CashGroupLabel labels the cash group of an allocation.
const CashGroupLabel = "Cash"

// AllocationItem is one asset inside an allocation group.
type AllocationItem struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount" swaggertype:"string"`
	Pct    float64         `json:"pct"`
}

// AllocationGroup is the cash total or one asset class. Pct is relative to
// cash plus all assets; debts are not part of the denominator.
type AllocationGroup struct {
	Label  string           `json:"label"`
	Amount decimal.Decimal  `json:"amount" swaggertype:"string"`
	Pct    float64          `json:"pct"`
	Assets []AllocationItem `json:"assets"`
}

// Allocate breaks a snapshot's cash and assets down by asset class. Groups
// and the assets inside them are ordered by amount, largest first, ties by
// name. The result is empty when cash plus assets is not positive.
func Allocate(s *Snapshot) []AllocationGroup {
	groups := []AllocationGroup{}
	if s == nil {
		return groups
	}

	cash := s.Total(KindCash)
	total := cash.Add(s.Total(KindAssets))
	if !total.IsPositive() {
		return groups
	}

	if cash.IsPositive() {
		groups = append(groups, AllocationGroup{
			Label:  CashGroupLabel,
			Amount: cash,
			Pct:    percentOf(cash, total),
			Assets: []AllocationItem{},
		})
	}

	index := make(map[string]int)
	var classes []AllocationGroup
	for _, a := range s.Assets {
		class := a.ClassOrDefault()
		i, ok := index[class]
		if !ok {
			i = len(classes)
			index[class] = i
			classes = append(classes, AllocationGroup{Label: class, Amount: decimal.Zero})
		}
		classes[i].Amount = classes[i].Amount.Add(a.Amount)
		classes[i].Assets = append(classes[i].Assets, AllocationItem{
			Name:   a.Name,
			Amount: a.Amount,
			Pct:    percentOf(a.Amount, total),
		})
	}

	for i := range classes {
		classes[i].Pct = percentOf(classes[i].Amount, total)
		sort.SliceStable(classes[i].Assets, func(x, y int) bool {
			return itemLess(classes[i].Assets[x].Amount, classes[i].Assets[y].Amount,
				classes[i].Assets[x].Name, classes[i].Assets[y].Name)
		})
	}

	groups = append(groups, classes...)
	sort.SliceStable(groups, func(x, y int) bool {
		return itemLess(groups[x].Amount, groups[y].Amount, groups[x].Label, groups[y].Label)
	})
	return groups
}

func itemLess(a, b decimal.Decimal, nameA, nameB string) bool {
	if c := a.Cmp(b); c != 0 {
		return c > 0
	}
	return nameA < nameB
}

// percentOf returns part/total as a percentage with one decimal.
func percentOf(part, total decimal.Decimal) float64 {
	return part.Div(total).Mul(hundred).Round(1).InexactFloat64()
}
