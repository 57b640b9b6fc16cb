package series

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// CSVOptions controls CSV loading.
type CSVOptions struct {
	TimeColumn string // header name of the time column
	FlowColumn string // header name of the flow column
	HasHeader  bool   // without a header, column 0 is time and column 1 is flow
	Delimiter  rune
	SkipRows   int // rows skipped before the header
}

// DefaultCSVOptions returns options for a comma separated file with a
// "time,flow" header.
func DefaultCSVOptions() CSVOptions {
	return CSVOptions{
		TimeColumn: TimeColumn,
		FlowColumn: FlowColumn,
		HasHeader:  true,
		Delimiter:  ',',
	}
}

// LoadCSV reads a series from a CSV file.
func LoadCSV(path string, opts CSVOptions) (*Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	s, err := ReadCSV(f, opts)
	if err != nil {
		return nil, fmt.Errorf("series: load %s: %w", path, err)
	}
	return s, nil
}

// ReadCSV reads a series from r. Rows whose time or flow cell is empty or
// not a number (NA, NaN, null) are skipped.
func ReadCSV(r io.Reader, opts CSVOptions) (*Series, error) {
	if opts.Delimiter == 0 {
		opts.Delimiter = ','
	}

	reader := csv.NewReader(r)
	reader.Comma = opts.Delimiter
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	for i := 0; i < opts.SkipRows; i++ {
		if _, err := reader.Read(); err != nil {
			return nil, err
		}
	}

	timeIdx, flowIdx := 0, 1
	if opts.HasHeader {
		header, err := reader.Read()
		if err != nil {
			return nil, err
		}
		timeIdx, flowIdx = -1, -1
		for i, h := range header {
			switch strings.TrimSpace(strings.Trim(h, "\"")) {
			case opts.TimeColumn:
				timeIdx = i
			case opts.FlowColumn:
				flowIdx = i
			}
		}
		if timeIdx < 0 || flowIdx < 0 {
			return nil, fmt.Errorf("series: columns %q/%q not found in header %v",
				opts.TimeColumn, opts.FlowColumn, header)
		}
	}

	var time, flow []float64
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		t, okT := parseCell(record, timeIdx)
		f, okF := parseCell(record, flowIdx)
		if !okT || !okF {
			continue
		}
		time = append(time, t)
		flow = append(flow, f)
	}

	if len(flow) == 0 {
		return nil, ErrEmpty
	}
	return New(time, flow)
}

func parseCell(record []string, idx int) (float64, bool) {
	if idx < 0 || idx >= len(record) {
		return 0, false
	}
	cell := strings.TrimSpace(strings.Trim(record[idx], "\""))
	switch cell {
	case "", "NA", "NaN", "nan", "null":
		return 0, false
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// WriteCSV writes s as a "time,flow" table.
func WriteCSV(w io.Writer, s *Series) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{TimeColumn, FlowColumn}); err != nil {
		return err
	}
	for i := range s.Flow {
		row := []string{
			strconv.FormatFloat(s.Time[i], 'g', -1, 64),
			strconv.FormatFloat(s.Flow[i], 'g', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
