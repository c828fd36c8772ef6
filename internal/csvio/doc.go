// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package csvio reads CSV datasets into rows, validates headers between the
// two sides of a comparison, and writes result and duplicate files.
package csvio
