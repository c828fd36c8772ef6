// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package compare

import (
	"errors"
	"sort"

	"github.com/csvctl/csvctl/internal/row"
)

const (
	sideFirst  = "first"
	sideSecond = "second"
)

// Config carries the knobs for a single comparison.
type Config struct {
	// KeyColumns identify a logical row; joined values form the row key.
	KeyColumns []string
	// FailOnDuplicateKeys aborts the comparison at the first repeated key
	// instead of routing collided rows to the duplicates list.
	FailOnDuplicateKeys bool
	// IncludeUnchanged records equal-valued columns on Changed results in a
	// separate UnchangedValues bucket.
	IncludeUnchanged bool
}

// Compare classifies every logical row of the two datasets as Added, Removed,
// or Changed. Results are ordered by row key; rows equal on both sides emit
// nothing. The returned duplicates hold every row that shared a key within
// its own dataset, first dataset's rows before the second's, in encounter
// order. On error no results or duplicates are returned.
func Compare(oldRows, newRows []row.Row, cfg Config) ([]Result, []row.Row, error) {
	if len(oldRows) == 0 && len(newRows) == 0 {
		return nil, nil, nil
	}

	if len(cfg.KeyColumns) == 0 {
		return nil, nil, errors.New("no key columns configured")
	}

	if err := checkKeyColumns(oldRows, cfg.KeyColumns, sideFirst); err != nil {
		return nil, nil, err
	}
	if err := checkKeyColumns(newRows, cfg.KeyColumns, sideSecond); err != nil {
		return nil, nil, err
	}

	oldIdx, err := buildIndex(oldRows, cfg.KeyColumns, cfg.FailOnDuplicateKeys, sideFirst)
	if err != nil {
		return nil, nil, err
	}
	newIdx, err := buildIndex(newRows, cfg.KeyColumns, cfg.FailOnDuplicateKeys, sideSecond)
	if err != nil {
		return nil, nil, err
	}

	var duplicates []row.Row
	duplicates = append(duplicates, oldIdx.duplicates...)
	duplicates = append(duplicates, newIdx.duplicates...)

	valueCols := valueColumns(oldIdx, newIdx, cfg.KeyColumns)

	var results []Result
	for _, key := range unionKeys(oldIdx, newIdx) {
		oldEntry, inOld := oldIdx.lookup[key]
		newEntry, inNew := newIdx.lookup[key]

		switch {
		case !inOld:
			results = append(results, oneSided(key, StatusAdded, newEntry.row, valueCols))
		case !inNew:
			results = append(results, oneSided(key, StatusRemoved, oldEntry.row, valueCols))
		default:
			if oldEntry.digest == newEntry.digest {
				continue
			}
			if res, differs := changed(key, oldEntry.row, newEntry.row, valueCols, cfg.IncludeUnchanged); differs {
				results = append(results, res)
			}
		}
	}

	return results, duplicates, nil
}

// checkKeyColumns validates the key columns against the first row of a
// dataset. The full per-row check happens during indexing; this pre-check
// reports every absent column at once.
func checkKeyColumns(rows []row.Row, keyColumns []string, side string) error {
	if len(rows) == 0 {
		return nil
	}

	var missing []string
	for _, col := range keyColumns {
		if !rows[0].Has(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return &MissingKeyColumnsError{Side: side, Columns: missing}
	}
	return nil
}

// valueColumns returns the canonical non-key column list for the whole
// comparison: the union of columns observed on both sides, minus the key
// columns, sorted. Computed once, never per row.
func valueColumns(oldIdx, newIdx *rowIndex, keyColumns []string) []string {
	keys := make(map[string]struct{}, len(keyColumns))
	for _, col := range keyColumns {
		keys[col] = struct{}{}
	}

	seen := make(map[string]struct{}, len(oldIdx.columns)+len(newIdx.columns))
	for col := range oldIdx.columns {
		seen[col] = struct{}{}
	}
	for col := range newIdx.columns {
		seen[col] = struct{}{}
	}

	cols := make([]string, 0, len(seen))
	for col := range seen {
		if _, isKey := keys[col]; !isKey {
			cols = append(cols, col)
		}
	}
	sort.Strings(cols)
	return cols
}

// unionKeys returns the sorted union of row keys present in either lookup.
func unionKeys(oldIdx, newIdx *rowIndex) []string {
	seen := make(map[string]struct{}, len(oldIdx.lookup)+len(newIdx.lookup))
	for key := range oldIdx.lookup {
		seen[key] = struct{}{}
	}
	for key := range newIdx.lookup {
		seen[key] = struct{}{}
	}

	keys := make([]string, 0, len(seen))
	for key := range seen {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// oneSided builds the result for a row present on only one side. Every
// non-key column is recorded; the absent side contributes empty text.
func oneSided(key string, status Status, r row.Row, valueCols []string) Result {
	res := Result{
		Key:       key,
		Status:    status,
		OldValues: make(map[string]string, len(valueCols)),
		NewValues: make(map[string]string, len(valueCols)),
	}
	for _, col := range valueCols {
		switch status {
		case StatusAdded:
			res.OldValues[col] = ""
			res.NewValues[col] = r.Value(col)
		default:
			res.OldValues[col] = r.Value(col)
			res.NewValues[col] = ""
		}
	}
	return res
}

// changed compares the two rows column by column. Only columns whose text
// values differ are recorded; when includeUnchanged is set, equal columns
// present on at least one side land in UnchangedValues. Returns false when
// no column differs (the digest short circuit missed a semantically equal
// pair, such as rows with identical values in different column order).
func changed(key string, oldRow, newRow row.Row, valueCols []string, includeUnchanged bool) (Result, bool) {
	res := Result{
		Key:       key,
		Status:    StatusChanged,
		OldValues: make(map[string]string),
		NewValues: make(map[string]string),
	}
	if includeUnchanged {
		res.UnchangedValues = make(map[string]string)
	}

	for _, col := range valueCols {
		oldVal := oldRow.Value(col)
		newVal := newRow.Value(col)
		if oldVal != newVal {
			res.ChangedColumns = append(res.ChangedColumns, col)
			res.OldValues[col] = oldVal
			res.NewValues[col] = newVal
			continue
		}
		if includeUnchanged && (oldRow.Has(col) || newRow.Has(col)) {
			res.UnchangedValues[col] = oldVal
		}
	}

	if len(res.ChangedColumns) == 0 {
		return Result{}, false
	}
	return res, true
}
