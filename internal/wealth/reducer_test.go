package wealth

import "testing"

func sampleYear() YearData {
	return NewYearData(2025, []Snapshot{
		{
			ID:     "m0",
			Period: Period{Year: 2025, Month: 0},
			Cash:   []Line{{Name: "Bank", Amount: dec("1000")}},
			Assets: []Line{{Name: "Fund", Amount: dec("500"), Class: "ETF"}},
		},
		{
			ID:          "m1",
			Period:      Period{Year: 2025, Month: 1},
			Cash:        []Line{{Name: "Bank", Amount: dec("900")}},
			Assets:      []Line{{Name: "Fund", Amount: dec("700")}},
			Investments: []Line{{Name: "Fund", Amount: dec("150")}},
			Earnings:    []Line{{Name: "Salary", Amount: dec("2000")}},
		},
		{ID: "other-year", Period: Period{Year: 2024, Month: 5}},
	})
}

func TestNewYearData(t *testing.T) {
	y := sampleYear()
	if len(y.Snapshots) != 2 {
		t.Fatalf("expected 2 snapshots, got %d", len(y.Snapshots))
	}
	if y.Snapshot(5) != nil {
		t.Error("expected snapshots of other years to be ignored")
	}
	if got := y.AssetClasses()["Fund"]; got != "ETF" {
		t.Errorf("expected class from the first month, got %q", got)
	}
}

func TestApplySetAmount(t *testing.T) {
	t.Run("updates_existing_line", func(t *testing.T) {
		before := sampleYear()
		after := Apply(before, SetAmount{Kind: KindCash, Name: "Bank", Month: 1, Amount: dec("950")})

		assertDecimal(t, after.Snapshot(1).Amount(KindCash, "Bank"), "950")
		assertDecimal(t, before.Snapshot(1).Amount(KindCash, "Bank"), "900")
		if len(after.Snapshot(1).Cash) != 1 {
			t.Error("expected the line to be updated, not duplicated")
		}
	})

	t.Run("creates_month_lazily", func(t *testing.T) {
		before := sampleYear()
		after := Apply(before, SetAmount{Kind: KindDebts, Name: "Card", Month: 4, Amount: dec("120")})

		s := after.Snapshot(4)
		if s == nil {
			t.Fatal("expected month 4 to exist")
		}
		if s.Period != (Period{Year: 2025, Month: 4}) {
			t.Errorf("unexpected period %+v", s.Period)
		}
		assertDecimal(t, s.Amount(KindDebts, "Card"), "120")
		if before.Snapshot(4) != nil {
			t.Error("expected original state untouched")
		}
	})

	t.Run("resolve_uses_known_asset_class", func(t *testing.T) {
		y := sampleYear()
		edit := SetAmount{Kind: KindAssets, Name: " Fund ", Month: 2, Amount: dec("800")}.Resolve(y)
		if edit.Name != "Fund" || edit.AssetClass != "ETF" {
			t.Fatalf("unexpected resolved edit %+v", edit)
		}
		after := Apply(y, edit)
		l, ok := after.Snapshot(2).Find(KindAssets, "Fund")
		if !ok || l.Class != "ETF" {
			t.Errorf("expected the new line to carry the class, got %+v", l)
		}
	})

	t.Run("resolve_drops_class_for_other_kinds", func(t *testing.T) {
		edit := SetAmount{Kind: KindCash, Name: "Bank", AssetClass: "ETF"}.Resolve(sampleYear())
		if edit.AssetClass != "" {
			t.Errorf("expected no class, got %q", edit.AssetClass)
		}
	})

	t.Run("ignores_invalid_edits", func(t *testing.T) {
		y := sampleYear()
		for _, e := range []SetAmount{
			{Kind: KindCash, Name: "", Month: 1, Amount: dec("1")},
			{Kind: KindCash, Name: "Bank", Month: 13, Amount: dec("1")},
			{Kind: Kind("stocks"), Name: "Bank", Month: 1, Amount: dec("1")},
		} {
			after := Apply(y, e)
			if len(after.Snapshots) != len(y.Snapshots) {
				t.Errorf("expected %+v to be ignored", e)
			}
			assertDecimal(t, after.Snapshot(1).Amount(KindCash, "Bank"), "900")
		}
	})
}

func TestApplyDeleteName(t *testing.T) {
	t.Run("asset_cascades_to_investments", func(t *testing.T) {
		before := sampleYear()
		after := Apply(before, DeleteName{Kind: KindAssets, Name: "Fund"})

		for _, m := range []int{0, 1} {
			s := after.Snapshot(m)
			if _, ok := s.Find(KindAssets, "Fund"); ok {
				t.Errorf("month %d still has the asset", m)
			}
			if _, ok := s.Find(KindInvestments, "Fund"); ok {
				t.Errorf("month %d still has the investment", m)
			}
		}
		if _, ok := before.Snapshot(1).Find(KindInvestments, "Fund"); !ok {
			t.Error("expected original state untouched")
		}
	})

	t.Run("investment_only", func(t *testing.T) {
		after := Apply(sampleYear(), DeleteName{Kind: KindInvestments, Name: "Fund"})
		if _, ok := after.Snapshot(1).Find(KindAssets, "Fund"); !ok {
			t.Error("expected the asset to remain")
		}
		if len(after.Snapshot(1).Investments) != 0 {
			t.Error("expected the investment to be removed")
		}
	})

	t.Run("cascade_kinds", func(t *testing.T) {
		if got := CascadeKinds(KindAssets); len(got) != 2 {
			t.Errorf("expected assets to cascade, got %v", got)
		}
		if got := CascadeKinds(KindDebts); len(got) != 1 || got[0] != KindDebts {
			t.Errorf("unexpected cascade %v", got)
		}
	})
}
