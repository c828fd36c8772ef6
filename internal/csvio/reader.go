// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/csvctl/csvctl/internal/log"
	"github.com/csvctl/csvctl/internal/row"
)

// Dataset is one parsed CSV input: its header columns in file order, after
// exclusions, and its rows.
type Dataset struct {
	Name    string
	Columns []string
	Rows    []row.Row
}

// Reader loads CSV datasets. Excluded columns are dropped at parse time so
// they never reach the comparison.
type Reader struct {
	Excluded []string
}

// File reads the CSV file at path.
func (rd Reader) File(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("CSV file not found: %s", path)
	}
	defer f.Close()

	return rd.From(f, path)
}

// From reads CSV content from r. name labels the input in errors and in the
// returned dataset. Short records pad with empty text; extra fields beyond
// the header are dropped.
func (rd Reader) From(r io.Reader, name string) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("CSV file is empty: %s", name)
	}
	if err != nil {
		return nil, fmt.Errorf("error reading CSV file %s: %w", name, err)
	}

	header[0] = strings.TrimPrefix(header[0], "\ufeff")
	if !hasHeader(header) {
		return nil, fmt.Errorf("CSV file has no headers: %s", name)
	}

	drop := make(map[string]struct{}, len(rd.Excluded))
	for _, col := range rd.Excluded {
		drop[col] = struct{}{}
	}

	keep := make([]int, 0, len(header))
	columns := make([]string, 0, len(header))
	for i, col := range header {
		if _, skip := drop[col]; !skip {
			keep = append(keep, i)
			columns = append(columns, col)
		}
	}

	var rows []row.Row
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV file %s: %w", name, err)
		}

		projected := make([]string, len(keep))
		for j, i := range keep {
			if i < len(record) {
				projected[j] = record[i]
			}
		}
		rows = append(rows, row.FromRecord(columns, projected))
	}

	log.Debugf("read %d rows from %s", len(rows), name)
	return &Dataset{Name: name, Columns: columns, Rows: rows}, nil
}

// Columns returns the raw header of the CSV file at path, with no exclusions
// applied.
func Columns(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("CSV file not found: %s", path)
	}
	defer f.Close()

	return ColumnsFrom(f, path)
}

// ColumnsFrom returns the raw header of the CSV content in r, with no
// exclusions applied. name labels the input in errors.
func ColumnsFrom(r io.Reader, name string) ([]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("CSV file has no headers: %s", name)
	}
	if err != nil {
		return nil, fmt.Errorf("error reading CSV file %s: %w", name, err)
	}

	header[0] = strings.TrimPrefix(header[0], "\ufeff")
	if !hasHeader(header) {
		return nil, fmt.Errorf("CSV file has no headers: %s", name)
	}

	return header, nil
}

// hasHeader reports whether at least one header cell is non-empty.
func hasHeader(header []string) bool {
	for _, col := range header {
		if col != "" {
			return true
		}
	}
	return false
}
