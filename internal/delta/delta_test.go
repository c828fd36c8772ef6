// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package delta

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csvctl/csvctl/internal/row"
)

func TestRender_Identical(t *testing.T) {
	oldRow := row.FromPairs("id", "u-001", "Name", "Ali", "Age", "34")
	newRow := row.FromPairs("id", "u-001", "Name", "Ali", "Age", "34")

	got, err := Render(oldRow, newRow, false)
	require.NoError(t, err)
	assert.Equal(t, Identical, got)
}

func TestRender_ChangedValue(t *testing.T) {
	oldRow := row.FromPairs("id", "u-001", "Name", "Ali", "Age", "34")
	newRow := row.FromPairs("id", "u-001", "Name", "Ali", "Age", "35")

	got, err := Render(oldRow, newRow, false)
	require.NoError(t, err)

	// Both versions of the changed value show up, the unchanged ones once.
	assert.Contains(t, got, `"34"`)
	assert.Contains(t, got, `"35"`)
	assert.Contains(t, got, `"Ali"`)
}

func TestRender_AddedColumn(t *testing.T) {
	oldRow := row.FromPairs("id", "u-001", "Name", "Ali")
	newRow := row.FromPairs("id", "u-001", "Name", "Ali", "City", "Oslo")

	got, err := Render(oldRow, newRow, false)
	require.NoError(t, err)
	assert.Contains(t, got, "City")
	assert.Contains(t, got, `"Oslo"`)
}

func TestRender_RemovedColumn(t *testing.T) {
	oldRow := row.FromPairs("id", "u-001", "Name", "Ali", "City", "Oslo")
	newRow := row.FromPairs("id", "u-001", "Name", "Ali")

	got, err := Render(oldRow, newRow, false)
	require.NoError(t, err)
	assert.Contains(t, got, "City")
}

func TestRender_Coloring(t *testing.T) {
	oldRow := row.FromPairs("id", "u-001", "Age", "34")
	newRow := row.FromPairs("id", "u-001", "Age", "35")

	plain, err := Render(oldRow, newRow, false)
	require.NoError(t, err)
	assert.NotContains(t, plain, "\x1b[")

	colored, err := Render(oldRow, newRow, true)
	require.NoError(t, err)
	assert.Contains(t, colored, "\x1b[")
}
