package spending

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// HistoryMonths is how many months with expenses the history covers.
const HistoryMonths = 6

// RecentCount is how many of the latest expenses a dashboard lists.
const RecentCount = 5

const dayLayout = "2006-01-02"

var (
	hundred = decimal.NewFromInt(100)
	seven   = decimal.NewFromInt(7)
)

// Category is the presentation of an expense category.
type Category struct {
	Slug  string `json:"slug"`
	Label string `json:"label"`
	Color string `json:"color"`
}

// Expense is a tracked expense as seen by the dashboard.
type Expense struct {
	ID          string          `json:"id"`
	Amount      decimal.Decimal `json:"amount" swaggertype:"string"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Date        time.Time       `json:"-"`
	Day         string          `json:"date"` // set by Build
	Recurring   bool            `json:"recurring"`
}

// Input is everything a dashboard is computed from.
type Input struct {
	// Month is the "YYYY-MM" month to report on.
	Month string

	// Now decides whether Month is the current month.
	Now time.Time

	// Expenses are all of the user's expenses, in any order.
	Expenses   []Expense
	Categories []Category

	// RecurringTotal is the monthly sum of active recurring expenses.
	RecurringTotal  decimal.Decimal
	ActiveRecurring int

	// Fallback is used for expenses whose category is unknown.
	Fallback Category
}

// CategoryAmount is the spending of one category.
type CategoryAmount struct {
	Category Category        `json:"category"`
	Amount   decimal.Decimal `json:"amount" swaggertype:"string"`
}

// MonthBar is one month of spending history split by category.
type MonthBar struct {
	Month    string           `json:"month"`
	Total    decimal.Decimal  `json:"total" swaggertype:"string"`
	Segments []CategoryAmount `json:"segments"`
}

// DayAmount is the spending of a single day.
type DayAmount struct {
	Date   string          `json:"date"`
	Amount decimal.Decimal `json:"amount" swaggertype:"string"`
}

// Prediction projects the current month's spending. Recurring expenses
// count in full; one-off spending is extrapolated from the daily average.
type Prediction struct {
	DaysElapsed         int             `json:"days_elapsed"`
	DaysRemaining       int             `json:"days_remaining"`
	OneOffTotal         decimal.Decimal `json:"one_off_total" swaggertype:"string"`
	DailyAverage        decimal.Decimal `json:"daily_average" swaggertype:"string"`
	WeeklyAverage       decimal.Decimal `json:"weekly_average" swaggertype:"string"`
	PredictedEndOfMonth decimal.Decimal `json:"predicted_end_of_month" swaggertype:"string"`
	HighestDay          *DayAmount      `json:"highest_day"`
}

// Dashboard summarises one month of spending.
type Dashboard struct {
	Month           string           `json:"month"`
	Total           decimal.Decimal  `json:"total" swaggertype:"string"`
	PreviousMonth   string           `json:"previous_month"`
	PreviousTotal   decimal.Decimal  `json:"previous_total" swaggertype:"string"`
	PercentChange   int64            `json:"percent_change"`
	Breakdown       []CategoryAmount `json:"breakdown"`
	History         []MonthBar       `json:"history"`
	Recent          []Expense        `json:"recent"`
	RecurringTotal  decimal.Decimal  `json:"recurring_total" swaggertype:"string"`
	ActiveRecurring int              `json:"active_recurring"`
	RentTotal       decimal.Decimal  `json:"rent_total" swaggertype:"string"`
	RentShare       float64          `json:"rent_share"`
	Prediction      *Prediction      `json:"prediction"`
}

// Build computes the dashboard for in.Month.
func Build(in Input) (Dashboard, error) {
	prevKey, err := PreviousMonth(in.Month)
	if err != nil {
		return Dashboard{}, err
	}
	lookup := newCategoryLookup(in.Categories, in.Fallback)

	d := Dashboard{
		Month:           in.Month,
		PreviousMonth:   prevKey,
		Breakdown:       []CategoryAmount{},
		History:         []MonthBar{},
		Recent:          []Expense{},
		RecurringTotal:  in.RecurringTotal,
		ActiveRecurring: in.ActiveRecurring,
	}

	var month []Expense
	for _, e := range in.Expenses {
		switch MonthKey(e.Date) {
		case in.Month:
			month = append(month, e)
			d.Total = d.Total.Add(e.Amount)
			if IsRentCategory(lookup.get(e.Category)) {
				d.RentTotal = d.RentTotal.Add(e.Amount)
			}
		case prevKey:
			d.PreviousTotal = d.PreviousTotal.Add(e.Amount)
		}
	}

	if d.PreviousTotal.IsPositive() {
		d.PercentChange = d.Total.Sub(d.PreviousTotal).Div(d.PreviousTotal).Mul(hundred).Round(0).IntPart()
	}
	if d.Total.IsPositive() {
		d.RentShare = d.RentTotal.Div(d.Total).Mul(hundred).Round(1).InexactFloat64()
	}

	d.Breakdown = breakdown(month, lookup)
	d.History = history(in.Expenses, lookup)
	d.Recent = recent(in.Expenses)

	if in.Month == MonthKey(in.Now) {
		p := predict(month, in.Now, in.RecurringTotal)
		d.Prediction = &p
	}
	return d, nil
}

func breakdown(expenses []Expense, lookup categoryLookup) []CategoryAmount {
	sums := make(map[string]decimal.Decimal)
	for _, e := range expenses {
		sums[e.Category] = sums[e.Category].Add(e.Amount)
	}
	out := make([]CategoryAmount, 0, len(sums))
	for slug, amount := range sums {
		out = append(out, CategoryAmount{Category: lookup.get(slug), Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Amount.Cmp(out[j].Amount); c != 0 {
			return c > 0
		}
		return out[i].Category.Slug < out[j].Category.Slug
	})
	return out
}

// history covers the latest HistoryMonths months that have any expense.
func history(expenses []Expense, lookup categoryLookup) []MonthBar {
	byMonth := make(map[string][]Expense)
	for _, e := range expenses {
		key := MonthKey(e.Date)
		byMonth[key] = append(byMonth[key], e)
	}
	keys := make([]string, 0, len(byMonth))
	for k := range byMonth {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if len(keys) > HistoryMonths {
		keys = keys[len(keys)-HistoryMonths:]
	}

	bars := make([]MonthBar, 0, len(keys))
	for _, k := range keys {
		bar := MonthBar{Month: k, Segments: breakdown(byMonth[k], lookup)}
		for _, s := range bar.Segments {
			bar.Total = bar.Total.Add(s.Amount)
		}
		bars = append(bars, bar)
	}
	return bars
}

func recent(expenses []Expense) []Expense {
	sorted := make([]Expense, len(expenses))
	copy(sorted, expenses)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date)
	})
	if len(sorted) > RecentCount {
		sorted = sorted[:RecentCount]
	}
	for i := range sorted {
		sorted[i].Day = sorted[i].Date.Format(dayLayout)
	}
	return sorted
}

func predict(month []Expense, now time.Time, recurringTotal decimal.Decimal) Prediction {
	daysInMonth := DaysIn(now)
	elapsed := now.Day()
	if elapsed > daysInMonth {
		elapsed = daysInMonth
	}
	remaining := daysInMonth - elapsed
	if remaining < 0 {
		remaining = 0
	}

	p := Prediction{DaysElapsed: elapsed, DaysRemaining: remaining}
	byDay := make(map[string]decimal.Decimal)
	for _, e := range month {
		if !e.Recurring {
			p.OneOffTotal = p.OneOffTotal.Add(e.Amount)
		}
		day := e.Date.Format(dayLayout)
		byDay[day] = byDay[day].Add(e.Amount)
	}

	daily := decimal.Zero
	if elapsed > 0 {
		daily = p.OneOffTotal.Div(decimal.NewFromInt(int64(elapsed)))
	}
	projected := p.OneOffTotal.Add(daily.Mul(decimal.NewFromInt(int64(remaining))))

	p.DailyAverage = daily.Round(2)
	p.WeeklyAverage = daily.Mul(seven).Round(2)
	p.PredictedEndOfMonth = recurringTotal.Add(projected).Round(2)

	for day, amount := range byDay {
		if p.HighestDay == nil || amount.GreaterThan(p.HighestDay.Amount) ||
			(amount.Equal(p.HighestDay.Amount) && day < p.HighestDay.Date) {
			p.HighestDay = &DayAmount{Date: day, Amount: amount}
		}
	}
	return p
}

type categoryLookup struct {
	bySlug   map[string]Category
	fallback Category
}

func newCategoryLookup(categories []Category, fallback Category) categoryLookup {
	l := categoryLookup{bySlug: make(map[string]Category, len(categories)), fallback: fallback}
	for _, c := range categories {
		l.bySlug[c.Slug] = c
	}
	return l
}

func (l categoryLookup) get(slug string) Category {
	if c, ok := l.bySlug[slug]; ok {
		return c
	}
	return l.fallback
}
