// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package filters provides filtering capabilities for flattened result rows.
//
// The package parses filter expressions to select subsets of rows based on
// column values. Filters are specified as key-operator-target expressions and
// can be combined using a configurable delimiter (default: comma, overridable
// via CSVCTL_FILTER_DELIM).
//
// Operators include:
//
//   - = : exact match (supports negation with !=)
//   - ^ : prefix match (supports negation with !^)
//   - ~ : case-insensitive match (supports negation with !~)
//   - < : less than (numeric comparison)
//   - > : greater than (numeric comparison)
//   - @ : contains substring (supports negation with !@)
//   - / : regex match (supports negation with !/)
//
// Examples:
//
//   - "Status=Changed" : rows whose Status equals "Changed"
//   - "Row Key^1" : rows whose key starts with "1"
//   - "Changed Columns@Age" : rows whose changed column list mentions Age
//   - "Status!=Removed" : rows with any Status except "Removed"
//
// Filter Keys and Attributes:
//
// Filter keys are matched against the OutputKey of attributes (see attrs
// package).
//
// Filter Parsing:
//
// The BuildFilters function parses a comma-delimited (or custom-delimited)
// filter specification string. Invalid specifications (unsupported operands or
// malformed expressions) are logged as warnings and skipped, allowing partial
// filter sets to be processed.
//
// Filter Application:
//
// The FilterDataset function filters a set of candidate rows, keeping only
// those that match all provided filter expressions. Attributes specified in
// the attrs parameter are used to determine which fields from the row are
// included in the filtered result.
package filters
