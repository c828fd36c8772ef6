// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package delta renders field-level differences between two versions of a row
// and provides the interactive picker used to choose dataset files.
package delta
