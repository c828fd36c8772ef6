// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package driller navigates JSON documents with a dotted path, used by the
// output pipeline and the interactive console to reach nested values.
package driller
