// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package csvio

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"sort"

	"github.com/csvctl/csvctl/internal/compare"
	"github.com/csvctl/csvctl/internal/log"
	"github.com/csvctl/csvctl/internal/row"
)

// WriteResults writes comparison results to a CSV file. The header holds the
// three base fields, then an "(Old)"/"(New)" pair per column recorded on any
// result, then any bare unchanged-value columns, both groups sorted. Fields a
// result does not carry render empty. An empty result set still produces a
// file with the base header.
func WriteResults(path string, results []compare.Result) error {
	header := ResultHeader(results)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(header); err != nil {
		return fmt.Errorf("error writing output CSV file %s: %w", path, err)
	}

	for _, res := range results {
		flat := res.Flatten()
		record := make([]string, len(header))
		for i, field := range header {
			record[i] = flat[field]
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("error writing output CSV file %s: %w", path, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("error writing output CSV file %s: %w", path, err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil { //nolint:mnd
		return fmt.Errorf("error writing output CSV file %s: %w", path, err)
	}
	log.Debugf("wrote %d results to %s", len(results), path)
	return nil
}

// WriteDuplicates writes duplicate rows to a CSV file. No file is created
// when there are no duplicates. The header comes from the first duplicate
// row's columns in source order.
func WriteDuplicates(path string, duplicates []row.Row) error {
	if len(duplicates) == 0 {
		return nil
	}

	header := duplicates[0].Columns()

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(header); err != nil {
		return fmt.Errorf("error writing duplicates CSV file %s: %w", path, err)
	}

	for _, dup := range duplicates {
		record := make([]string, len(header))
		for i, col := range header {
			record[i] = dup.Value(col)
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("error writing duplicates CSV file %s: %w", path, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("error writing duplicates CSV file %s: %w", path, err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil { //nolint:mnd
		return fmt.Errorf("error writing duplicates CSV file %s: %w", path, err)
	}
	log.Debugf("wrote %d duplicates to %s", len(duplicates), path)
	return nil
}

// ResultHeader assembles the output header for a result set: the three base
// fields, then the old/new value pairs, then the bare unchanged columns.
func ResultHeader(results []compare.Result) []string {
	paired := make(map[string]struct{})
	bare := make(map[string]struct{})
	for _, res := range results {
		for col := range res.OldValues {
			paired[col] = struct{}{}
		}
		for col := range res.NewValues {
			paired[col] = struct{}{}
		}
		for col := range res.UnchangedValues {
			bare[col] = struct{}{}
		}
	}

	header := []string{compare.FieldKey, compare.FieldStatus, compare.FieldChangedColumns}
	for _, col := range sortedKeys(paired) {
		header = append(header, col+compare.OldSuffix, col+compare.NewSuffix)
	}
	header = append(header, sortedKeys(bare)...)
	return header
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
