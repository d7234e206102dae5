// Package audit computes data-quality statistics for the merged table.
// Audits only read the table; their findings are reported, never enforced.
package audit

import (
	"math"
	"slices"
	"time"

	"github.com/gaurav-prasanna/fuelcheck/core/normalize"
	"github.com/gaurav-prasanna/fuelcheck/core/table"
)

// NullLabel names null cells in value listings.
const NullLabel = "null"

// Report collects the audit findings for one run.
type Report struct {
	RunID       string        `json:"run_id"`
	GeneratedAt time.Time     `json:"generated_at"`
	Rows        int           `json:"rows"`
	Columns     int           `json:"columns"`
	Missing     []MissingStat `json:"missing"`
	Price       *PriceStat    `json:"price,omitempty"`
	Postcode    *PostcodeStat `json:"postcode,omitempty"`
}

// MissingStat counts the null cells of one column.
type MissingStat struct {
	Column  string  `json:"column"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// PriceStat summarises invalid (null or negative) prices.
type PriceStat struct {
	Field   string  `json:"field"`
	Invalid int     `json:"invalid"`
	Percent float64 `json:"percent"`
	// Valid counts the prices Min and Max were taken from.
	Valid int     `json:"valid"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

// PostcodeStat lists postcodes that are not four ASCII digits.
type PostcodeStat struct {
	Invalid int      `json:"invalid"`
	Values  []string `json:"values"`
}

// Auditor runs every audit over a table.
type Auditor struct {
	PriceField string
	now        func() time.Time
}

// New creates an Auditor that checks the given price column.
func New(priceField string) *Auditor {
	return &Auditor{PriceField: priceField, now: time.Now}
}

// Audit builds the full report for t.
func (a *Auditor) Audit(t *table.Table, runID string) *Report {
	return &Report{
		RunID:       runID,
		GeneratedAt: a.now().UTC(),
		Rows:        t.Len(),
		Columns:     t.Width(),
		Missing:     MissingValues(t),
		Price:       InvalidPrice(t, a.PriceField),
		Postcode:    InvalidPostcodes(t),
	}
}

// MissingValues returns the null count of every column that has nulls,
// highest percentage first. Ties keep column order.
func MissingValues(t *table.Table) []MissingStat {
	stats := []MissingStat{}
	for _, c := range t.Columns() {
		var n int
		for _, v := range c.Values {
			if v.IsNull() {
				n++
			}
		}
		if n == 0 {
			continue
		}
		stats = append(stats, MissingStat{Column: c.Name, Count: n, Percent: percent(n, t.Len())})
	}
	slices.SortStableFunc(stats, func(a, b MissingStat) int {
		switch {
		case a.Percent > b.Percent:
			return -1
		case a.Percent < b.Percent:
			return 1
		}
		return 0
	})
	return stats
}

// InvalidPrice counts null or negative values of the price column and the
// range of the valid ones. It returns nil when the column is absent.
func InvalidPrice(t *table.Table, field string) *PriceStat {
	col, ok := t.Column(field)
	if !ok {
		return nil
	}
	stat := &PriceStat{Field: field}
	for _, v := range col.Values {
		f, ok := v.Float()
		if !ok || f < 0 {
			stat.Invalid++
			continue
		}
		if stat.Valid == 0 || f < stat.Min {
			stat.Min = f
		}
		if stat.Valid == 0 || f > stat.Max {
			stat.Max = f
		}
		stat.Valid++
	}
	stat.Percent = percent(stat.Invalid, t.Len())
	return stat
}

// InvalidPostcodes lists the distinct invalid postcodes in first-seen order.
// It returns nil when the table has no postcode column.
func InvalidPostcodes(t *table.Table) *PostcodeStat {
	col, ok := t.Column(table.FieldPostcode)
	if !ok {
		return nil
	}
	stat := &PostcodeStat{Values: []string{}}
	seen := make(map[string]bool)
	for _, v := range col.Values {
		if normalize.ValidPostcode(v) {
			continue
		}
		stat.Invalid++
		label := v.Text()
		if v.IsNull() {
			label = NullLabel
		}
		if !seen[label] {
			seen[label] = true
			stat.Values = append(stat.Values, label)
		}
	}
	return stat
}

// percent returns n/total as a percentage rounded to two decimals.
func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(n)*10000/float64(total)) / 100
}
