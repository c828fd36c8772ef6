// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package compare

import (
	"errors"
	"strings"

	"github.com/csvctl/csvctl/internal/row"
)

// keySeparator joins key column values into a RowKey. A value containing the
// separator can collide with a neighboring key; accepted limitation.
const keySeparator = "|"

// indexEntry is the lookup payload for a unique row key.
type indexEntry struct {
	digest string
	row    row.Row
}

// rowIndex is the per-dataset result of indexing: a lookup of unique keys,
// the duplicate rows in encounter order, and the set of column names observed
// on rows that made it into the lookup.
type rowIndex struct {
	lookup     map[string]indexEntry
	duplicates []row.Row
	columns    map[string]struct{}
}

// buildIndex walks the rows in input order and partitions them into unique
// and duplicate sets. The first row seen for a key claims the lookup slot;
// a second row with the same key either fails the whole operation
// (failOnDuplicates) or evicts the original into the duplicates list and
// tombstones the key so every later occurrence lands in duplicates too.
func buildIndex(rows []row.Row, keyColumns []string, failOnDuplicates bool, side string) (*rowIndex, error) {
	idx := &rowIndex{
		lookup:  make(map[string]indexEntry, len(rows)),
		columns: make(map[string]struct{}),
	}
	tombstoned := make(map[string]struct{})

	for _, r := range rows {
		key, err := rowKey(r, keyColumns)
		if err != nil {
			var mk *MissingKeyColumnsError
			if errors.As(err, &mk) {
				mk.Side = side
			}
			return nil, err
		}

		if _, dup := tombstoned[key]; dup {
			idx.duplicates = append(idx.duplicates, r)
			continue
		}

		if original, seen := idx.lookup[key]; seen {
			if failOnDuplicates {
				return nil, &DuplicateKeyError{Key: key}
			}
			delete(idx.lookup, key)
			idx.duplicates = append(idx.duplicates, original.row, r)
			tombstoned[key] = struct{}{}
			continue
		}

		idx.lookup[key] = indexEntry{digest: Digest(r), row: r}
		for _, col := range r.Columns() {
			idx.columns[col] = struct{}{}
		}
	}

	return idx, nil
}

// Key derives the composite key for a row, the same key Compare uses for
// matching. Callers use it to look rows back up from a Result's RowKey.
func Key(r row.Row, keyColumns []string) (string, error) {
	return rowKey(r, keyColumns)
}

// rowKey derives the composite key for a row: the key column values joined in
// key column order. Every key column must be present on the row.
func rowKey(r row.Row, keyColumns []string) (string, error) {
	parts := make([]string, len(keyColumns))
	for i, col := range keyColumns {
		v, ok := r.Get(col)
		if !ok {
			return "", &MissingKeyColumnsError{Columns: []string{col}}
		}
		parts[i] = v
	}
	return strings.Join(parts, keySeparator), nil
}
