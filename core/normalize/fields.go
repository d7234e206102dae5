package normalize

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/gaurav-prasanna/fuelcheck/core/table"
)

var (
	stateNameRegex = regexp.MustCompile(`(?i)NEW SOUTH WALES`)
	postcodeRegex  = regexp.MustCompile(`^[0-9]{4}$`)
)

// StateAbbrev replaces the spelled-out state name in addresses.
const StateAbbrev = "NSW"

// CoercePrice converts the named price columns to numbers. Integers are
// widened, numeric strings are parsed, anything else becomes null.
// Rows are never dropped.
func CoercePrice(t *table.Table, fields []string) {
	for _, field := range fields {
		col, ok := t.Column(field)
		if !ok {
			continue
		}
		for i, v := range col.Values {
			col.Values[i] = toNumber(v)
		}
	}
}

func toNumber(v table.Value) table.Value {
	switch v.Kind() {
	case table.KindNumber:
		return v
	case table.KindInt:
		f, _ := v.Float()
		return table.Number(f)
	case table.KindString:
		s, _ := v.Str()
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return table.Null()
		}
		return table.Number(f)
	}
	return table.Null()
}

// Suburbs converts suburb names to title case. Nulls and non-text values
// pass through unchanged.
func Suburbs(t *table.Table) {
	col, ok := t.Column(table.FieldSuburb)
	if !ok {
		return
	}
	caser := cases.Title(language.English)
	for i, v := range col.Values {
		if s, ok := v.Str(); ok {
			col.Values[i] = table.String(titleCase(caser, s))
		}
	}
}

// titleCase applies caser and also capitalises the letter after an
// apostrophe, so "o'connor" becomes "O'Connor".
func titleCase(caser cases.Caser, s string) string {
	out := []rune(caser.String(s))
	for i := 1; i < len(out); i++ {
		if (out[i-1] == '\'' || out[i-1] == '’') && unicode.IsLower(out[i]) {
			out[i] = unicode.ToUpper(out[i])
		}
	}
	return string(out)
}

// AddressState abbreviates "NEW SOUTH WALES", in any case, to "NSW" inside
// the address field.
func AddressState(t *table.Table) {
	col, ok := t.Column(table.FieldAddress)
	if !ok {
		return
	}
	for i, v := range col.Values {
		if s, ok := v.Str(); ok {
			col.Values[i] = table.String(stateNameRegex.ReplaceAllLiteralString(s, StateAbbrev))
		}
	}
}

// ValidPostcode reports whether the text form of v is exactly four ASCII digits.
// Null is never valid.
func ValidPostcode(v table.Value) bool {
	return !v.IsNull() && postcodeRegex.MatchString(v.Text())
}

// Postcodes converts valid postcodes to integers in place. Invalid postcodes
// keep their original value. It returns the number converted.
func Postcodes(t *table.Table) int {
	col, ok := t.Column(table.FieldPostcode)
	if !ok {
		return 0
	}
	var converted int
	for i, v := range col.Values {
		if !ValidPostcode(v) {
			continue
		}
		n, err := strconv.ParseInt(v.Text(), 10, 64)
		if err != nil {
			continue
		}
		col.Values[i] = table.Int(n)
		converted++
	}
	return converted
}
