// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package compare implements the row-level dataset comparison engine. Rows
// from two datasets are keyed by a configured composite key, classified as
// Added, Removed, or Changed, and rows whose key is not unique within their
// dataset are quarantined into a duplicates list instead of being diffed.
package compare
