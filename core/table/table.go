// Package table holds the in-memory dataset shared by every pipeline stage:
// an ordered set of named columns of equal length.
package table

import (
	"errors"
	"fmt"
	"slices"
)

// ErrLengthMismatch is returned when a column or row does not fit the table shape.
var ErrLengthMismatch = errors.New("length does not match table")

// Column is a named sequence of values. Stages mutate Values in place.
type Column struct {
	Name   string
	Values []Value
}

// Table is an ordered set of named columns. All columns have Len() values.
type Table struct {
	columns []*Column
	index   map[string]int
	rows    int
}

// New creates an empty table.
func New() *Table {
	return &Table{index: make(map[string]int)}
}

// FromRows builds a table from a header and row-major values.
func FromRows(names []string, rows [][]Value) (*Table, error) {
	t := New()
	for _, name := range names {
		if err := t.AddColumn(name, make([]Value, 0, len(rows))); err != nil {
			return nil, err
		}
	}
	for i, row := range rows {
		if err := t.AppendRow(row); err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
	}
	return t, nil
}

// Len returns the number of rows.
func (t *Table) Len() int { return t.rows }

// Width returns the number of columns.
func (t *Table) Width() int { return len(t.columns) }

// Names returns the column names in table order.
func (t *Table) Names() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.Name
	}
	return names
}

// Columns returns the columns in table order.
func (t *Table) Columns() []*Column { return t.columns }

// Has reports whether the table has a column with the given name.
func (t *Table) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Column returns the named column.
func (t *Table) Column(name string) (*Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.columns[i], true
}

// AddColumn appends a column, or replaces the values of an existing column
// with the same name. The first column of an empty table sets the row count.
func (t *Table) AddColumn(name string, values []Value) error {
	if len(t.columns) > 0 && len(values) != t.rows {
		return fmt.Errorf("column %q has %d values, table has %d rows: %w",
			name, len(values), t.rows, ErrLengthMismatch)
	}
	if i, ok := t.index[name]; ok {
		t.columns[i].Values = values
		return nil
	}
	t.index[name] = len(t.columns)
	t.columns = append(t.columns, &Column{Name: name, Values: values})
	t.rows = len(values)
	return nil
}

// AppendRow appends one value per column.
func (t *Table) AppendRow(values []Value) error {
	if len(values) != len(t.columns) {
		return fmt.Errorf("row has %d values, table has %d columns: %w",
			len(values), len(t.columns), ErrLengthMismatch)
	}
	for i, c := range t.columns {
		c.Values = append(c.Values, values[i])
	}
	t.rows++
	return nil
}

// Row returns a copy of the values at row i in column order.
func (t *Table) Row(i int) []Value {
	row := make([]Value, len(t.columns))
	for j, c := range t.columns {
		row[j] = c.Values[i]
	}
	return row
}

// Select returns a new table holding the rows at the given indices, in order.
func (t *Table) Select(indices []int) *Table {
	out := New()
	for _, c := range t.columns {
		values := make([]Value, len(indices))
		for j, idx := range indices {
			values[j] = c.Values[idx]
		}
		out.index[c.Name] = len(out.columns)
		out.columns = append(out.columns, &Column{Name: c.Name, Values: values})
	}
	out.rows = len(indices)
	return out
}

// Merge concatenates tables row-wise. The result has the union of their
// columns in first-seen order; cells a table has no column for are null.
func Merge(tables ...*Table) *Table {
	out := New()
	var total int
	for _, t := range tables {
		for _, name := range t.Names() {
			if !out.Has(name) {
				out.index[name] = len(out.columns)
				out.columns = append(out.columns, &Column{Name: name})
			}
		}
		total += t.Len()
	}

	for _, c := range out.columns {
		c.Values = make([]Value, 0, total)
		for _, t := range tables {
			src, ok := t.Column(c.Name)
			if !ok {
				c.Values = append(c.Values, make([]Value, t.Len())...)
				continue
			}
			c.Values = append(c.Values, src.Values...)
		}
	}
	out.rows = total
	return out
}

// SortStable orders rows ascending by the named column, keeping the input
// order of equal values. Nulls sort last. It reports whether the column exists.
func (t *Table) SortStable(name string) bool {
	col, ok := t.Column(name)
	if !ok {
		return false
	}
	order := make([]int, t.rows)
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return Compare(col.Values[a], col.Values[b])
	})
	sorted := t.Select(order)
	t.columns = sorted.columns
	t.index = sorted.index
	return true
}
