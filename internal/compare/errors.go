// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package compare

import (
	"fmt"
	"strings"
)

// MissingKeyColumnsError reports key columns that are absent from a dataset.
// Side identifies the offending dataset ("first" or "second"). The whole
// comparison fails; no partial results are produced.
type MissingKeyColumnsError struct {
	Side    string
	Columns []string
}

func (e *MissingKeyColumnsError) Error() string {
	return fmt.Sprintf("missing key columns in %s dataset: %s",
		e.Side, strings.Join(e.Columns, ", "))
}

// DuplicateKeyError reports the first duplicated row key encountered while
// indexing a dataset with duplicate failure enabled. The whole comparison
// fails; no partial results are produced.
type DuplicateKeyError struct {
	Key string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate row key found: %s", e.Key)
}
