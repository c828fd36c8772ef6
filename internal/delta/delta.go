// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package delta

import (
	"encoding/json"
	"fmt"

	"github.com/yudai/gojsondiff"
	"github.com/yudai/gojsondiff/formatter"

	"github.com/csvctl/csvctl/internal/row"
)

// Identical is returned by Render when the two rows carry the same values.
const Identical = "The rows are identical."

// Render compares two versions of a row and returns a unified, optionally
// colored, field-by-field delta of their values.
func Render(oldRow, newRow row.Row, coloring bool) (string, error) {
	oldJSON, err := json.Marshal(oldRow.Map())
	if err != nil {
		return "", fmt.Errorf("failed to marshal old row: %w", err)
	}
	newJSON, err := json.Marshal(newRow.Map())
	if err != nil {
		return "", fmt.Errorf("failed to marshal new row: %w", err)
	}

	differ := gojsondiff.New()

	delta, err := differ.Compare(oldJSON, newJSON)
	if err != nil {
		return "", fmt.Errorf("failed to compare rows: %w", err)
	}

	if !delta.Modified() {
		return Identical, nil
	}

	var jdoc map[string]interface{}
	if err := json.Unmarshal(oldJSON, &jdoc); err != nil {
		return "", fmt.Errorf("failed to unmarshal old row: %w", err)
	}

	config := formatter.AsciiFormatterConfig{
		ShowArrayIndex: false,
		Coloring:       coloring,
	}

	formatter := formatter.NewAsciiFormatter(jdoc, config)
	diffString, err := formatter.Format(delta)
	if err != nil {
		return "", err
	}

	return diffString, nil
}
