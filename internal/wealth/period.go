package wealth

import (
	"fmt"
	"time"
)

// BaselineMonth is the month index of the opening balance of a year.
const BaselineMonth = 0

// LastMonth is the highest month index of a year.
const LastMonth = 12

// Period identifies one month of one year. Month 0 is the baseline: the
// closing balance of the previous year, which only seeds the first delta.
type Period struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// IsBaseline reports whether p is a year's opening balance.
func (p Period) IsBaseline() bool {
	return p.Month == BaselineMonth
}

// Valid reports whether the month index is within 0..12.
func (p Period) Valid() bool {
	return p.Month >= BaselineMonth && p.Month <= LastMonth
}

// Label returns the calendar month the period closes, as "YYYY-MM".
// The baseline of year Y is labelled as December of Y-1.
func (p Period) Label() string {
	if p.IsBaseline() {
		return fmt.Sprintf("%04d-12", p.Year-1)
	}
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}

// Before orders periods by year, then month.
func (p Period) Before(q Period) bool {
	if p.Year != q.Year {
		return p.Year < q.Year
	}
	return p.Month < q.Month
}

// Complete reports whether the period is closed as of asOf: baselines always
// are, other months only once asOf has moved past them.
func (p Period) Complete(asOf time.Time) bool {
	if p.IsBaseline() {
		return true
	}
	if p.Year != asOf.Year() {
		return p.Year < asOf.Year()
	}
	return p.Month < int(asOf.Month())
}
