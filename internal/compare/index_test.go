// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package compare

import (
	"testing"

	"github.com/csvctl/csvctl/internal/row"
	"github.com/stretchr/testify/assert"
)

func TestBuildIndex_UniqueRows(t *testing.T) {
	rows := []row.Row{
		row.FromPairs("ID", "1", "Name", "Alice"),
		row.FromPairs("ID", "2", "Name", "Bob", "Age", "30"),
	}

	idx, err := buildIndex(rows, []string{"ID"}, false, sideFirst)

	assert.NoError(t, err)
	assert.Len(t, idx.lookup, 2)
	assert.Empty(t, idx.duplicates)
	assert.Equal(t, "Alice", idx.lookup["1"].row.Value("Name"))
	assert.NotEmpty(t, idx.lookup["1"].digest)

	// Observed columns are the union across inserted rows.
	assert.Contains(t, idx.columns, "ID")
	assert.Contains(t, idx.columns, "Name")
	assert.Contains(t, idx.columns, "Age")
}

func TestBuildIndex_DuplicateEviction(t *testing.T) {
	rows := []row.Row{
		row.FromPairs("ID", "1", "Name", "Alice"),
		row.FromPairs("ID", "1", "Name", "Bob"),
	}

	idx, err := buildIndex(rows, []string{"ID"}, false, sideFirst)

	assert.NoError(t, err)
	assert.NotContains(t, idx.lookup, "1")

	// The evicted original precedes the row that collided with it.
	assert.Len(t, idx.duplicates, 2)
	assert.Equal(t, "Alice", idx.duplicates[0].Value("Name"))
	assert.Equal(t, "Bob", idx.duplicates[1].Value("Name"))
}

func TestBuildIndex_TombstonedKeyStaysOut(t *testing.T) {
	rows := []row.Row{
		row.FromPairs("ID", "1", "Name", "Alice"),
		row.FromPairs("ID", "1", "Name", "Bob"),
		row.FromPairs("ID", "1", "Name", "Carol", "Extra", "x"),
	}

	idx, err := buildIndex(rows, []string{"ID"}, false, sideFirst)

	assert.NoError(t, err)
	assert.NotContains(t, idx.lookup, "1")
	assert.Len(t, idx.duplicates, 3)
	assert.Equal(t, "Carol", idx.duplicates[2].Value("Name"))

	// A tombstoned row never reaches the lookup, so its columns are not
	// merged into the observed set.
	assert.NotContains(t, idx.columns, "Extra")
}

func TestBuildIndex_FailOnDuplicates(t *testing.T) {
	rows := []row.Row{
		row.FromPairs("ID", "1", "Name", "Alice"),
		row.FromPairs("ID", "2", "Name", "Bob"),
		row.FromPairs("ID", "1", "Name", "Carol"),
	}

	idx, err := buildIndex(rows, []string{"ID"}, true, sideFirst)

	assert.Nil(t, idx)
	var dupErr *DuplicateKeyError
	assert.ErrorAs(t, err, &dupErr)
	assert.Equal(t, "1", dupErr.Key)
}

func TestBuildIndex_MissingKeyColumnMidDataset(t *testing.T) {
	rows := []row.Row{
		row.FromPairs("ID", "1", "Name", "Alice"),
		row.FromPairs("Name", "Bob"),
	}

	_, err := buildIndex(rows, []string{"ID"}, false, sideSecond)

	var mkErr *MissingKeyColumnsError
	assert.ErrorAs(t, err, &mkErr)
	assert.Equal(t, "second", mkErr.Side)
	assert.Equal(t, []string{"ID"}, mkErr.Columns)
}

func TestRowKey_CompositeJoinsInOrder(t *testing.T) {
	r := row.FromPairs("Region", "us", "ID", "7", "Name", "Alice")

	key, err := rowKey(r, []string{"ID", "Region"})

	assert.NoError(t, err)
	assert.Equal(t, "7|us", key)
}

func TestRowKey_EmptyValuesStillJoin(t *testing.T) {
	r := row.FromPairs("A", "", "B", "x")

	key, err := rowKey(r, []string{"A", "B"})

	assert.NoError(t, err)
	assert.Equal(t, "|x", key)
}

func TestKey_MatchesResultRowKey(t *testing.T) {
	r := row.FromPairs("ID", "42", "Name", "Alice")

	key, err := Key(r, []string{"ID"})

	assert.NoError(t, err)
	assert.Equal(t, "42", key)

	_, err = Key(r, []string{"Missing"})
	var mkErr *MissingKeyColumnsError
	assert.ErrorAs(t, err, &mkErr)
}
