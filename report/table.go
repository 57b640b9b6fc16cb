// Package report stores run artifacts as CSV files, an optional XLSX
// workbook and a plot manifest for the external plotter.
package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/cwbudde/algo-flow/flow/series"
)

// Errors returned for malformed tables.
var (
	ErrNoName         = errors.New("report: table has no name")
	ErrNoColumns      = errors.New("report: table has no columns")
	ErrLengthMismatch = errors.New("report: column length mismatch")
)

// Table is a named block of numeric columns.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]float64
}

// FromSeries returns a two-column time/flow table.
func FromSeries(name string, s *series.Series) Table {
	rows := make([][]float64, s.Len())
	for i := range rows {
		rows[i] = []float64{s.Time[i], s.Flow[i]}
	}
	return Table{
		Name:    name,
		Columns: []string{series.TimeColumn, series.FlowColumn},
		Rows:    rows,
	}
}

// FromColumns builds a table from equally long column slices.
func FromColumns(name string, columns []string, data ...[]float64) (Table, error) {
	if len(columns) == 0 {
		return Table{}, ErrNoColumns
	}
	if len(columns) != len(data) {
		return Table{}, fmt.Errorf("%w: %d names for %d columns", ErrLengthMismatch, len(columns), len(data))
	}
	n := len(data[0])
	for i, col := range data {
		if len(col) != n {
			return Table{}, fmt.Errorf("%w: column %q has %d rows, want %d", ErrLengthMismatch, columns[i], len(col), n)
		}
	}

	rows := make([][]float64, n)
	for r := range rows {
		row := make([]float64, len(data))
		for c, col := range data {
			row[c] = col[r]
		}
		rows[r] = row
	}
	return Table{Name: name, Columns: columns, Rows: rows}, nil
}

// Validate checks that every row matches the header.
func (t Table) Validate() error {
	if t.Name == "" {
		return ErrNoName
	}
	if len(t.Columns) == 0 {
		return ErrNoColumns
	}
	for i, row := range t.Rows {
		if len(row) != len(t.Columns) {
			return fmt.Errorf("%w: row %d has %d cells, want %d", ErrLengthMismatch, i, len(row), len(t.Columns))
		}
	}
	return nil
}

// WriteCSV writes t with a header row.
func WriteCSV(w io.Writer, t Table) error {
	if err := t.Validate(); err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return err
	}
	record := make([]string, len(t.Columns))
	for _, row := range t.Rows {
		for i, v := range row {
			record[i] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
