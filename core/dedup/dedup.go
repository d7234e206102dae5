// Package dedup removes exact duplicate rows from a table.
package dedup

import (
	"strconv"
	"strings"

	"github.com/gaurav-prasanna/fuelcheck/core/table"
)

// Rows returns a table without duplicate rows and the number of rows removed.
// Two rows are duplicates when every value is equal, null included. The first
// occurrence is kept and row order is otherwise unchanged.
func Rows(t *table.Table) (*table.Table, int) {
	seen := make(map[string]struct{}, t.Len())
	keep := make([]int, 0, t.Len())
	cols := t.Columns()

	var b strings.Builder
	for i := 0; i < t.Len(); i++ {
		b.Reset()
		for _, c := range cols {
			// Length-prefixed so field boundaries cannot shift.
			key := c.Values[i].Key()
			b.WriteString(strconv.Itoa(len(key)))
			b.WriteByte(':')
			b.WriteString(key)
		}
		k := b.String()
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		keep = append(keep, i)
	}
	return t.Select(keep), t.Len() - len(keep)
}
