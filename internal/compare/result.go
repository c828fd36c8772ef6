// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package compare

import (
	"strings"

	"github.com/csvctl/csvctl/internal/row"
)

// Status classifies a result row.
type Status string

const (
	StatusAdded   Status = "Added"
	StatusRemoved Status = "Removed"
	StatusChanged Status = "Changed"
)

// Field names of the flattened result shape.
const (
	FieldKey            = "Row Key"
	FieldStatus         = "Status"
	FieldChangedColumns = "Changed Columns"
)

// Suffixes appended to column names in the flattened result shape.
const (
	OldSuffix = " (Old)"
	NewSuffix = " (New)"
)

// Result is one classified difference between the two datasets. Added and
// Removed results carry every non-key column in OldValues/NewValues with the
// absent side empty; Changed results carry only the differing columns, plus
// UnchangedValues when the comparison asked for them.
type Result struct {
	Key             string
	Status          Status
	ChangedColumns  []string
	OldValues       map[string]string
	NewValues       map[string]string
	UnchangedValues map[string]string
}

// Flatten projects the result into the flat field map consumed by writers:
// the three base fields, an "<col> (Old)"/"<col> (New)" pair for every column
// recorded in OldValues or NewValues, and a bare "<col>" field for each
// unchanged column when those were requested.
func (r Result) Flatten() map[string]string {
	out := make(map[string]string, 3+2*len(r.OldValues)+len(r.UnchangedValues))
	out[FieldKey] = r.Key
	out[FieldStatus] = string(r.Status)
	out[FieldChangedColumns] = strings.Join(r.ChangedColumns, ", ")

	cols := make(map[string]struct{}, len(r.OldValues))
	for col := range r.OldValues {
		cols[col] = struct{}{}
	}
	for col := range r.NewValues {
		cols[col] = struct{}{}
	}
	for col := range cols {
		out[col+OldSuffix] = r.OldValues[col]
		out[col+NewSuffix] = r.NewValues[col]
	}

	for col, val := range r.UnchangedValues {
		out[col] = val
	}

	return out
}

// FlattenAll flattens every result, preserving order.
func FlattenAll(results []Result) []map[string]string {
	out := make([]map[string]string, len(results))
	for i, res := range results {
		out[i] = res.Flatten()
	}
	return out
}

// Summary aggregates one comparison for reporting.
type Summary struct {
	Added      int
	Removed    int
	Changed    int
	Duplicates int
}

// Summarize tallies results and duplicates into a Summary.
func Summarize(results []Result, duplicates []row.Row) Summary {
	s := Summary{Duplicates: len(duplicates)}
	for _, res := range results {
		switch res.Status {
		case StatusAdded:
			s.Added++
		case StatusRemoved:
			s.Removed++
		case StatusChanged:
			s.Changed++
		}
	}
	return s
}

// Total returns the number of classified differences.
func (s Summary) Total() int {
	return s.Added + s.Removed + s.Changed
}
