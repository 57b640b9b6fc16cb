package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// File names written next to the per-table CSV files.
const (
	WorkbookFile = "artifacts.xlsx"
	ManifestFile = "plots.json"
)

// ErrClosed is returned when a closed Writer is used.
var ErrClosed = errors.New("report: writer is closed")

// StyleSource resolves the plot style of an artifact by name.
type StyleSource interface {
	PlotStyle(name string) (map[string]any, bool)
}

// Plot is one manifest entry.
type Plot struct {
	Name    string         `json:"name"`
	File    string         `json:"file"`
	Columns []string       `json:"columns"`
	Style   map[string]any `json:"style"`
}

// WriterOption configures a Writer.
type WriterOption func(*Writer)

// WithXLSX additionally collects every table into one workbook.
func WithXLSX() WriterOption {
	return func(w *Writer) {
		w.xlsx = true
	}
}

// WithStyles enables the plot manifest.
func WithStyles(src StyleSource) WriterOption {
	return func(w *Writer) {
		w.styles = src
	}
}

// WithLogger sets the logger. Default slog.Default().
func WithLogger(l *slog.Logger) WriterOption {
	return func(w *Writer) {
		if l != nil {
			w.logger = l
		}
	}
}

// Writer stores tables below a directory. Tables are written as CSV on Add;
// the workbook and manifest are written on Close.
type Writer struct {
	dir    string
	xlsx   bool
	styles StyleSource
	logger *slog.Logger

	tables []Table
	plots  []Plot
	closed bool
}

// NewWriter creates dir if needed and returns a Writer for it.
func NewWriter(dir string, opts ...WriterOption) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("report: create %s: %w", dir, err)
	}
	w := &Writer{dir: dir, logger: slog.Default()}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Dir returns the output directory.
func (w *Writer) Dir() string {
	return w.dir
}

// Add writes t to <dir>/<name>.csv and records it for the workbook and
// manifest.
func (w *Writer) Add(t Table) error {
	if w.closed {
		return ErrClosed
	}
	if err := t.Validate(); err != nil {
		return err
	}

	file := t.Name + ".csv"
	path := filepath.Join(w.dir, file)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("report: %w", err)
	}
	if err := WriteCSV(f, t); err != nil {
		f.Close()
		return fmt.Errorf("report: write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("report: %w", err)
	}
	w.logger.Debug("artifact written", "name", t.Name, "rows", len(t.Rows), "path", path)

	if w.xlsx {
		w.tables = append(w.tables, t)
	}
	if w.styles != nil {
		style, ok := w.styles.PlotStyle(t.Name)
		if !ok {
			w.logger.Warn("no plot configuration, skipping plot", "name", t.Name)
		} else {
			w.plots = append(w.plots, Plot{Name: t.Name, File: file, Columns: t.Columns, Style: style})
		}
	}
	return nil
}

// Plots returns the manifest entries collected so far.
func (w *Writer) Plots() []Plot {
	return w.plots
}

// Close writes the workbook and manifest. Further calls are no-ops.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	if w.xlsx && len(w.tables) > 0 {
		path := filepath.Join(w.dir, WorkbookFile)
		if err := writeWorkbook(path, w.tables); err != nil {
			return fmt.Errorf("report: write %s: %w", path, err)
		}
		w.logger.Debug("workbook written", "sheets", len(w.tables), "path", path)
	}
	if w.styles != nil {
		path := filepath.Join(w.dir, ManifestFile)
		data, err := json.MarshalIndent(w.plots, "", "  ")
		if err != nil {
			return fmt.Errorf("report: %w", err)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("report: %w", err)
		}
	}
	return nil
}

func writeWorkbook(path string, tables []Table) error {
	f := excelize.NewFile()
	defer f.Close()

	// The default sheet becomes the first table.
	if err := f.SetSheetName("Sheet1", tables[0].Name); err != nil {
		return err
	}
	for i, t := range tables {
		if i > 0 {
			if _, err := f.NewSheet(t.Name); err != nil {
				return err
			}
		}
		if err := writeSheet(f, t); err != nil {
			return err
		}
	}
	f.SetActiveSheet(0)
	return f.SaveAs(path)
}

func writeSheet(f *excelize.File, t Table) error {
	for i, h := range t.Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(t.Name, cell, h); err != nil {
			return err
		}
	}
	for r, row := range t.Rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(t.Name, cell, v); err != nil {
				return err
			}
		}
	}
	return nil
}
