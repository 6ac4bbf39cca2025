package wealth

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// AmountScale is the number of decimals amounts are stored with.
const AmountScale = 2

// leadingNumber matches the longest numeric prefix of a string, the way
// spreadsheet-style inputs are read: "12.5 EUR" is 12.5, "abc" is nothing.
var leadingNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)(?:[eE][+-]?(\d+))?`)

// Inputs whose numeric prefix or exponent exceed these lengths are zero.
const (
	maxNumberLength   = 40
	maxExponentDigits = 2
)

// maxAmount bounds amounts to what a numeric(14,2) column holds.
var maxAmount = decimal.New(1, 12)

// ParseAmount reads a user-typed cell value. Input that does not start with
// a number is zero, as are values too large to store and overlong numbers.
func ParseAmount(s string) decimal.Decimal {
	m := leadingNumber.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return decimal.Zero
	}
	if len(m[0]) > maxNumberLength || len(strings.TrimLeft(m[2], "0")) > maxExponentDigits {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(m[0])
	if err != nil || d.Abs().Cmp(maxAmount) >= 0 {
		return decimal.Zero
	}
	return d.Round(AmountScale)
}

// CellInput is a cell value as sent by a client: a JSON number, a JSON
// string, or null. Decoding never fails; malformed values become zero.
type CellInput string

// UnmarshalJSON implements json.Unmarshaler.
func (c *CellInput) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err == nil {
			*c = CellInput(s)
			return nil
		}
	}
	if bytes.Equal(data, []byte("null")) {
		*c = ""
		return nil
	}
	*c = CellInput(data)
	return nil
}

// Amount parses the input with ParseAmount.
func (c CellInput) Amount() decimal.Decimal {
	return ParseAmount(string(c))
}
