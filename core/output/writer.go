// Package output implements the Sink interface.
// The CSV sink writes the final table as a single UTF-8 delimited file;
// the SQLite sink loads it into a database table.
package output

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gaurav-prasanna/fuelcheck/core/table"
)

// CSVWriter writes tables to CSV files.
type CSVWriter struct {
	// Comma is the field delimiter; zero means ','.
	Comma rune
}

// NewCSV creates a CSVWriter using ',' as the delimiter.
func NewCSV() *CSVWriter {
	return &CSVWriter{Comma: ','}
}

// Save writes t to path with a header row in table column order.
// Any existing file at path is removed first; there is no backup.
func (w *CSVWriter) Save(t *table.Table, path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing existing file %s: %w", path, err)
	}

	// Ensure parent directories exist.
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating file %s: %w", path, err)
	}

	if err := w.write(bufio.NewWriter(f), t); err != nil {
		f.Close()
		return fmt.Errorf("writing file %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing file %s: %w", path, err)
	}
	return nil
}

func (w *CSVWriter) write(buf *bufio.Writer, t *table.Table) error {
	cw := csv.NewWriter(buf)
	if w.Comma != 0 {
		cw.Comma = w.Comma
	}

	if err := cw.Write(t.Names()); err != nil {
		return err
	}
	record := make([]string, t.Width())
	cols := t.Columns()
	for i := 0; i < t.Len(); i++ {
		for j, c := range cols {
			record[j] = c.Values[i].Text()
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	return buf.Flush()
}
