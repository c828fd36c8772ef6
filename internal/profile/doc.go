// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package profile loads the JSON comparison profile: which columns key a
// row, which are excluded, and how duplicates and schema mismatches are
// handled.
package profile
