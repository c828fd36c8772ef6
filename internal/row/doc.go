// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package row defines the ordered column/value record shared by the CSV
// readers, the comparison engine, and the writers.
package row
