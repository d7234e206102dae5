package output

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/gaurav-prasanna/fuelcheck/core/table"
)

// DefaultSQLiteTable is the table the SQLite sink writes to.
const DefaultSQLiteTable = "fuel_prices"

// SQLiteSink replaces a table in a SQLite database with the pipeline output.
type SQLiteSink struct {
	TableName string
}

// NewSQLite creates a SQLiteSink writing to the named table.
// If tableName is empty, it defaults to DefaultSQLiteTable.
func NewSQLite(tableName string) *SQLiteSink {
	if tableName == "" {
		tableName = DefaultSQLiteTable
	}
	return &SQLiteSink{TableName: tableName}
}

// Save drops and recreates the sink table in the database at path and
// inserts every row in one transaction.
func (s *SQLiteSink) Save(t *table.Table, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	name := quoteIdent(s.TableName)
	if _, err := tx.Exec("DROP TABLE IF EXISTS " + name); err != nil {
		return fmt.Errorf("dropping table: %w", err)
	}

	cols := t.Columns()
	defs := make([]string, len(cols))
	marks := make([]string, len(cols))
	for i, c := range cols {
		defs[i] = quoteIdent(c.Name) + " " + affinity(c.Values)
		marks[i] = "?"
	}
	if _, err := tx.Exec(fmt.Sprintf("CREATE TABLE %s (%s)", name, strings.Join(defs, ", "))); err != nil {
		return fmt.Errorf("creating table: %w", err)
	}

	stmt, err := tx.Prepare(fmt.Sprintf("INSERT INTO %s VALUES (%s)", name, strings.Join(marks, ", ")))
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	args := make([]any, len(cols))
	for i := 0; i < t.Len(); i++ {
		for j, c := range cols {
			args[j] = sqlValue(c.Values[i])
		}
		if _, err := stmt.Exec(args...); err != nil {
			return fmt.Errorf("inserting row %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing: %w", err)
	}
	return nil
}

// affinity picks the column type from the kinds present in a column.
func affinity(values []table.Value) string {
	var ints, floats int
	for _, v := range values {
		switch v.Kind() {
		case table.KindNull:
		case table.KindInt:
			ints++
		case table.KindNumber:
			floats++
		default:
			return "TEXT"
		}
	}
	switch {
	case floats > 0:
		return "REAL"
	case ints > 0:
		return "INTEGER"
	}
	return "TEXT"
}

func sqlValue(v table.Value) any {
	switch v.Kind() {
	case table.KindNull:
		return nil
	case table.KindInt:
		n, _ := v.Int()
		return n
	case table.KindNumber:
		f, _ := v.Float()
		return f
	}
	return v.Text()
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
