package wealth

import (
	"testing"

	"github.com/shopspring/decimal"
)

// fig describes a snapshot with at most one line per collection.
type fig struct {
	cash, assets, debts, earnings, investments string
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func snap(year, month int, f fig) Snapshot {
	s := Snapshot{ID: "s", UserID: "u", Period: Period{Year: year, Month: month}}
	if f.cash != "" {
		s.Cash = []Line{{Name: "Bank", Amount: dec(f.cash)}}
	}
	if f.assets != "" {
		s.Assets = []Line{{Name: "Index Fund", Amount: dec(f.assets), Class: "ETF"}}
	}
	if f.debts != "" {
		s.Debts = []Line{{Name: "Mortgage", Amount: dec(f.debts)}}
	}
	if f.earnings != "" {
		s.Earnings = []Line{{Name: "Salary", Amount: dec(f.earnings)}}
	}
	if f.investments != "" {
		s.Investments = []Line{{Name: "Index Fund", Amount: dec(f.investments)}}
	}
	return s
}

func assertDecimal(t *testing.T, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(dec(want)) {
		t.Errorf("got %s, want %s", got, want)
	}
}

func assertPoints(t *testing.T, got []Point, want map[string]string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %d points, got %d: %v", len(want), len(got), got)
	}
	for _, p := range got {
		w, ok := want[p.Month]
		if !ok {
			t.Errorf("unexpected point for %s", p.Month)
			continue
		}
		if !p.Value.Equal(dec(w)) {
			t.Errorf("%s: got %s, want %s", p.Month, p.Value, w)
		}
	}
}
