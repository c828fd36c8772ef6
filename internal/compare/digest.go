// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package compare

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/csvctl/csvctl/internal/row"
)

// Digest returns a content hash over a row's full column/value mapping.
// The mapping is serialized as JSON, which orders object keys
// lexicographically, so two rows with the same columns and values digest
// identically regardless of column order. Equal digests let the engine skip
// per-column comparison entirely.
func Digest(r row.Row) string {
	blob, _ := json.Marshal(r.Map())
	h := sha256.New()
	h.Write(blob)
	return hex.EncodeToString(h.Sum(nil))
}
