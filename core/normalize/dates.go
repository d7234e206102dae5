// Package normalize implements the per-column cleaning rules applied to every
// downloaded table: date truncation, price coercion, suburb and state text
// normalisation, and postcode conversion.
//
// Every rule tolerates bad cells: a value that cannot be converted becomes
// null, it never produces an error.
package normalize

import (
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/gaurav-prasanna/fuelcheck/core/table"
)

// Excel serial day numbers for 1900-01-01 and 9999-12-31.
const (
	minExcelSerial = 1
	maxExcelSerial = 2958465
)

// dateLayouts are tried in order. ISO forms come first; slash and dash forms
// are read day-first, as published by the NSW portal.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02 15:04:05",
	"2006/01/02",
	"2/1/2006 15:04:05",
	"2/1/2006 15:04",
	"2/1/2006 3:04:05 PM",
	"2/1/2006 3:04 PM",
	"2/1/2006 3:04:05 pm",
	"2/1/2006 3:04 pm",
	"2/1/2006",
	"2-1-2006 15:04:05",
	"2-1-2006 15:04",
	"2-1-2006",
	"2 Jan 2006 15:04",
	"2 Jan 2006",
	"Jan 2, 2006",
}

// Dates parses every cell of the named fields as a date-time and keeps only
// the calendar date. Unparsable cells become null. Fields missing from the
// table are skipped.
func Dates(t *table.Table, fields []string) {
	for _, field := range fields {
		col, ok := t.Column(field)
		if !ok {
			continue
		}
		for i, v := range col.Values {
			col.Values[i] = ParseDate(v)
		}
	}
}

// ParseDate converts a single cell to a date value, or null.
func ParseDate(v table.Value) table.Value {
	switch v.Kind() {
	case table.KindDate:
		return v
	case table.KindString:
		s, _ := v.Str()
		if ts, ok := parseTime(strings.TrimSpace(s)); ok {
			return table.Date(ts)
		}
	case table.KindNumber, table.KindInt:
		// Spreadsheet dates arrive as serial day numbers.
		f, _ := v.Float()
		if f < minExcelSerial || f >= maxExcelSerial+1 {
			return table.Null()
		}
		if ts, err := excelize.ExcelDateToTime(f, false); err == nil {
			return table.Date(ts)
		}
	}
	return table.Null()
}

func parseTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
