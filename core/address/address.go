// Package address splits FuelCheck station addresses of the form
// "<street>, <suburb> <state> <postcode>" into a street address and a state.
package address

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/gaurav-prasanna/fuelcheck/core/table"
)

var (
	trailingCommaRegex = regexp.MustCompile(`\s*,\s*$`)
	stateTokenRegex    = regexp.MustCompile(`(?:^|\s)([A-Za-z]{3})$`)
)

// Parts are the row fields the decomposition reads.
type Parts struct {
	Address  string
	Postcode string
	Suburb   string
}

// Result is the decomposed address.
type Result struct {
	Address  string
	State    string
	HasState bool
}

// Decompose strips the postcode, state and suburb from the end of an address,
// in that order, and returns the remaining street address and the state token.
// A step whose text is not at the end of the address leaves it unchanged.
func Decompose(p Parts) Result {
	addr := strings.TrimSpace(p.Address)

	addr = trimWordSuffixFold(addr, strings.TrimSpace(p.Postcode), unicode.IsSpace)

	addr = strings.TrimSpace(trailingCommaRegex.ReplaceAllString(addr, ""))

	var res Result
	if m := stateTokenRegex.FindStringSubmatchIndex(addr); m != nil {
		res.State = addr[m[2]:m[3]]
		res.HasState = true
		addr = strings.TrimSpace(addr[:m[2]])
	}

	if stripped := trimWordSuffixFold(addr, strings.TrimSpace(p.Suburb), func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	}); stripped != addr {
		addr = strings.TrimSpace(strings.TrimSuffix(stripped, ","))
	}
	res.Address = addr
	return res
}

// trimWordSuffixFold removes suffix from s when s ends with it (ignoring case)
// and the text before it is empty or ends with a rune accepted by boundary.
// Whitespace and commas at the cut are trimmed.
func trimWordSuffixFold(s, suffix string, boundary func(rune) bool) string {
	if suffix == "" || len(suffix) > len(s) {
		return s
	}
	cut := len(s) - len(suffix)
	if !strings.EqualFold(s[cut:], suffix) {
		return s
	}
	head := s[:cut]
	if head != "" {
		last := []rune(head)
		if !boundary(last[len(last)-1]) {
			return s
		}
	}
	return strings.TrimSpace(head)
}

// Apply decomposes the address of every row in place and sets the State
// column. Tables without Address, Postcode and Suburb columns are left as is.
// Rows where any of the three is null keep their address and get a null state.
func Apply(t *table.Table) bool {
	addrCol, ok := t.Column(table.FieldAddress)
	if !ok {
		return false
	}
	postCol, ok := t.Column(table.FieldPostcode)
	if !ok {
		return false
	}
	subCol, ok := t.Column(table.FieldSuburb)
	if !ok {
		return false
	}

	addresses := make([]table.Value, t.Len())
	states := make([]table.Value, t.Len())
	for i := range addresses {
		a, pc, sub := addrCol.Values[i], postCol.Values[i], subCol.Values[i]
		addresses[i] = a
		if a.IsNull() || pc.IsNull() || sub.IsNull() {
			continue
		}
		res := Decompose(Parts{Address: a.Text(), Postcode: pc.Text(), Suburb: sub.Text()})
		addresses[i] = table.String(res.Address)
		if res.HasState {
			states[i] = table.String(res.State)
		}
	}

	// Both columns have t.Len() values, so neither call can fail.
	_ = t.AddColumn(table.FieldAddress, addresses)
	_ = t.AddColumn(table.FieldState, states)
	return true
}
