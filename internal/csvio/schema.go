// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package csvio

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Schema mismatch behaviors.
const (
	SchemaFail   = "fail"
	SchemaWarn   = "warn"
	SchemaIgnore = "ignore"
)

// SchemaBehaviors lists the accepted schema mismatch behaviors.
var SchemaBehaviors = []string{SchemaFail, SchemaWarn, SchemaIgnore}

// SchemaReport lists the non-key columns present on only one side of a
// comparison. The caller decides how to render it; nothing here prints.
type SchemaReport struct {
	FirstOnly  []string
	SecondOnly []string
}

// Mismatch reports whether either side has columns the other lacks.
func (r SchemaReport) Mismatch() bool {
	return len(r.FirstOnly) > 0 || len(r.SecondOnly) > 0
}

// String renders the report in the form surfaced to users.
func (r SchemaReport) String() string {
	var parts []string
	if len(r.FirstOnly) > 0 {
		parts = append(parts, fmt.Sprintf("Columns only in first file: %v", r.FirstOnly))
	}
	if len(r.SecondOnly) > 0 {
		parts = append(parts, fmt.Sprintf("Columns only in second file: %v", r.SecondOnly))
	}
	return "Schema mismatch detected. " + strings.Join(parts, ". ")
}

// ValidateSchemas compares the column sets of the two inputs, ignoring order.
// Behavior ignore skips validation entirely. A mismatch among non-key columns
// fails the comparison under fail, or comes back as a report for the caller
// to render under warn. Key columns missing from either side fail under both
// fail and warn; under ignore the comparison engine raises the same condition
// from its own pre-check. The given column slices are expected to already
// have exclusions applied.
func ValidateSchemas(firstCols, secondCols, keyColumns []string, behavior string) (*SchemaReport, error) {
	if behavior == SchemaIgnore {
		return nil, nil
	}

	first := toSet(firstCols)
	second := toSet(secondCols)

	report := &SchemaReport{
		FirstOnly:  sortedDiff(first, second),
		SecondOnly: sortedDiff(second, first),
	}

	if report.Mismatch() && behavior == SchemaFail {
		return report, errors.New(report.String())
	}

	if missing := missingKeys(keyColumns, first); len(missing) > 0 {
		return report, fmt.Errorf("key columns missing from first file: %v", missing)
	}
	if missing := missingKeys(keyColumns, second); len(missing) > 0 {
		return report, fmt.Errorf("key columns missing from second file: %v", missing)
	}

	if !report.Mismatch() {
		return nil, nil
	}
	return report, nil
}

func toSet(cols []string) map[string]struct{} {
	set := make(map[string]struct{}, len(cols))
	for _, col := range cols {
		set[col] = struct{}{}
	}
	return set
}

// sortedDiff returns the members of a absent from b, sorted.
func sortedDiff(a, b map[string]struct{}) []string {
	var out []string
	for col := range a {
		if _, ok := b[col]; !ok {
			out = append(out, col)
		}
	}
	sort.Strings(out)
	return out
}

func missingKeys(keyColumns []string, cols map[string]struct{}) []string {
	var missing []string
	for _, key := range keyColumns {
		if _, ok := cols[key]; !ok {
			missing = append(missing, key)
		}
	}
	sort.Strings(missing)
	return missing
}
