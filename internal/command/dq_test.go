// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package command

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/csvctl/csvctl/internal/compare"
)

const (
	oldUsers = "ID,Name,Age\n1,Alice,34\n2,Bob,25\n3,Carol,41\n"
	newUsers = "ID,Name,Age\n1,Alice,35\n3,Carol,41\n4,Dave,19\n"
)

// readCSV reads a written output file back for assertions.
func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return records
}

// runDq runs dq with the final output step swapped for render, so tests can
// capture what the action would emit.
func runDq(t *testing.T, render func(*cli.Command, *comparison) error, args ...string) error {
	t.Helper()
	cmd := dqCommandBuilder(testMeta())
	cmd.Action = func(ctx context.Context, c *cli.Command) error {
		oldSpec, newSpec, err := dqInputs(c)
		if err != nil {
			return err
		}
		comp, err := runComparison(ctx, c, oldSpec, newSpec)
		if err != nil {
			return err
		}
		return render(c, comp)
	}
	return cmd.Run(context.Background(), append([]string{"dq"}, args...))
}

func TestDqCommand_WritesResults(t *testing.T) {
	dir := t.TempDir()
	oldPath := writeCSV(t, dir, "old.csv", oldUsers)
	newPath := writeCSV(t, dir, "new.csv", newUsers)
	outPath := filepath.Join(dir, "results.csv")

	cmd := dqCommandBuilder(testMeta())
	require.NoError(t, cmd.Run(context.Background(), []string{"dq", "--key", "ID", "--out", outPath, oldPath, newPath}))

	records := readCSV(t, outPath)
	require.Len(t, records, 4)
	assert.Equal(t, []string{"Row Key", "Status", "Changed Columns", "Age (Old)", "Age (New)", "Name (Old)", "Name (New)"}, records[0])
	assert.Equal(t, []string{"1", "Changed", "Age", "34", "35", "", ""}, records[1])
	assert.Equal(t, []string{"2", "Removed", "", "25", "", "Bob", ""}, records[2])
	assert.Equal(t, []string{"4", "Added", "", "", "19", "", "Dave"}, records[3])

	assert.NoFileExists(t, filepath.Join(dir, "results_duplicates.csv"))
}

func TestDqCommand_EmptyDiffWritesHeaderOnly(t *testing.T) {
	dir := t.TempDir()
	oldPath := writeCSV(t, dir, "old.csv", oldUsers)
	newPath := writeCSV(t, dir, "new.csv", oldUsers)
	outPath := filepath.Join(dir, "results.csv")

	var buf bytes.Buffer
	err := runDq(t, func(c *cli.Command, comp *comparison) error {
		return writeComparison(comp, outPath, &buf)
	}, "--key", "ID", oldPath, newPath)
	require.NoError(t, err)

	records := readCSV(t, outPath)
	require.Len(t, records, 1)
	assert.Equal(t, []string{"Row Key", "Status", "Changed Columns"}, records[0])

	out := buf.String()
	assert.Contains(t, out, "No duplicate rows found. No duplicates file created.")
	assert.Contains(t, out, "No differences found between the CSV files.")
	assert.Contains(t, out, "Empty results file created: "+outPath)
}

func TestDqCommand_CollectsDuplicates(t *testing.T) {
	dir := t.TempDir()
	oldPath := writeCSV(t, dir, "old.csv", "ID,Name,Age\n1,Alice,34\n1,Alicia,35\n2,Bob,25\n")
	newPath := writeCSV(t, dir, "new.csv", "ID,Name,Age\n2,Bob,26\n")
	outPath := filepath.Join(dir, "results.csv")

	var buf bytes.Buffer
	err := runDq(t, func(c *cli.Command, comp *comparison) error {
		return writeComparison(comp, outPath, &buf)
	}, "--key", "ID", "--no-fail-on-dupes", oldPath, newPath)
	require.NoError(t, err)

	// Both occurrences of the repeated key land in the duplicates file and
	// the key drops out of the comparison.
	dupPath := filepath.Join(dir, "results_duplicates.csv")
	dups := readCSV(t, dupPath)
	require.Len(t, dups, 3)
	assert.Equal(t, []string{"ID", "Name", "Age"}, dups[0])
	assert.Equal(t, []string{"1", "Alice", "34"}, dups[1])
	assert.Equal(t, []string{"1", "Alicia", "35"}, dups[2])

	records := readCSV(t, outPath)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"2", "Changed", "Age", "25", "26"}, records[1])

	out := buf.String()
	assert.Contains(t, out, "Duplicate rows written to: "+dupPath)
	assert.Contains(t, out, "  - 1 rows changed")
	assert.Contains(t, out, "  - 1 total differences")
	assert.Contains(t, out, "  - 2 duplicate rows written to: "+dupPath)
}

func TestDqCommand_FailsOnDuplicateKeys(t *testing.T) {
	dir := t.TempDir()
	oldPath := writeCSV(t, dir, "old.csv", "ID,Name,Age\n1,Alice,34\n1,Alicia,35\n")
	newPath := writeCSV(t, dir, "new.csv", newUsers)

	err := runDq(t, func(*cli.Command, *comparison) error {
		t.Fatal("comparison should have failed")
		return nil
	}, "--key", "ID", oldPath, newPath)
	assert.EqualError(t, err, "duplicate row key found: 1")
}

func TestDqCommand_SchemaMismatchFails(t *testing.T) {
	dir := t.TempDir()
	oldPath := writeCSV(t, dir, "old.csv", oldUsers)
	newPath := writeCSV(t, dir, "new.csv", "ID,Name,Age,Email\n1,Alice,35,alice@example.com\n")

	err := runDq(t, func(*cli.Command, *comparison) error {
		t.Fatal("comparison should have failed")
		return nil
	}, "--key", "ID", "--schema-check", "fail", oldPath, newPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Schema mismatch detected")
	assert.Contains(t, err.Error(), "Email")
}

func TestDqCommand_NeedsTwoInputs(t *testing.T) {
	err := runDq(t, func(*cli.Command, *comparison) error {
		return nil
	}, "--key", "ID", "only.csv")
	assert.EqualError(t, err, "dq needs two inputs: csvctl dq OLD NEW")
}

func TestDqCommand_MissingOutputDir(t *testing.T) {
	dir := t.TempDir()
	oldPath := writeCSV(t, dir, "old.csv", oldUsers)
	newPath := writeCSV(t, dir, "new.csv", newUsers)
	outPath := filepath.Join(dir, "nope", "results.csv")

	err := runDq(t, func(c *cli.Command, comp *comparison) error {
		return writeComparison(comp, outPath, os.Stdout)
	}, "--key", "ID", oldPath, newPath)
	assert.EqualError(t, err, "output directory does not exist: "+filepath.Join(dir, "nope"))
}

func TestDqCommand_ProfileExclusions(t *testing.T) {
	dir := t.TempDir()
	oldPath := writeCSV(t, dir, "old.csv", "ID,Name,Age\n1,Alice,34\n2,Bob,25\n")
	newPath := writeCSV(t, dir, "new.csv", "ID,Name,Age\n1,Alice,99\n2,Bob,77\n")
	profPath := filepath.Join(dir, "profile.json")
	content := `{"key_columns":["ID"],"excluded_columns":["Age"]}`
	require.NoError(t, os.WriteFile(profPath, []byte(content), 0o644))

	// The only differing column is excluded, so the datasets read as equal.
	var buf bytes.Buffer
	err := runDq(t, func(c *cli.Command, comp *comparison) error {
		assert.Empty(t, comp.results)
		return renderResults(c, comp, &buf)
	}, "--profile", profPath, oldPath, newPath)
	require.NoError(t, err)

	assert.Equal(t, "No differences found between the CSV files.\n", buf.String())
}

func TestRenderResults(t *testing.T) {
	dir := t.TempDir()
	oldPath := writeCSV(t, dir, "old.csv", oldUsers)
	newPath := writeCSV(t, dir, "new.csv", newUsers)

	var buf bytes.Buffer
	err := runDq(t, func(c *cli.Command, comp *comparison) error {
		return renderResults(c, comp, &buf)
	}, "--key", "ID", "--titles", oldPath, newPath)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Row Key")
	assert.Contains(t, out, "Changed")
	assert.Contains(t, out, "Removed")
	assert.Contains(t, out, "Added")
	assert.Contains(t, out, "1 added, 1 removed, 1 changed, 3 total differences, 0 duplicate rows")
}

func TestRenderDuplicates(t *testing.T) {
	dir := t.TempDir()
	oldPath := writeCSV(t, dir, "old.csv", "ID,Name,Age\n1,Alice,34\n1,Alicia,35\n2,Bob,25\n")
	newPath := writeCSV(t, dir, "new.csv", "ID,Name,Age\n2,Bob,25\n")

	var buf bytes.Buffer
	err := runDq(t, func(c *cli.Command, comp *comparison) error {
		return renderDuplicates(c, comp, &buf)
	}, "--key", "ID", "--no-fail-on-dupes", oldPath, newPath)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Alice")
	assert.Contains(t, out, "Alicia")
}

func TestRenderDuplicates_Empty(t *testing.T) {
	dir := t.TempDir()
	oldPath := writeCSV(t, dir, "old.csv", oldUsers)
	newPath := writeCSV(t, dir, "new.csv", newUsers)

	var buf bytes.Buffer
	err := runDq(t, func(c *cli.Command, comp *comparison) error {
		return renderDuplicates(c, comp, &buf)
	}, "--key", "ID", oldPath, newPath)
	require.NoError(t, err)

	assert.Equal(t, "No duplicate rows found.\n", buf.String())
}

func TestRenderDeep(t *testing.T) {
	dir := t.TempDir()
	oldPath := writeCSV(t, dir, "old.csv", oldUsers)
	newPath := writeCSV(t, dir, "new.csv", newUsers)

	var buf bytes.Buffer
	err := runDq(t, func(c *cli.Command, comp *comparison) error {
		return renderDeep(c, comp, &buf)
	}, "--key", "ID", oldPath, newPath)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Changed: 1")
	assert.Contains(t, out, "Removed: 2")
	assert.Contains(t, out, "Added: 4")
	assert.Contains(t, out, `"Age"`)
	assert.Contains(t, out, "34")
	assert.Contains(t, out, "35")
}

func TestComparisonMatchedRows(t *testing.T) {
	dir := t.TempDir()
	oldPath := writeCSV(t, dir, "old.csv", oldUsers)
	newPath := writeCSV(t, dir, "new.csv", newUsers)

	err := runDq(t, func(c *cli.Command, comp *comparison) error {
		oldRow, newRow, ok := comp.matchedRows("1")
		require.True(t, ok)
		assert.Equal(t, "34", oldRow.Value("Age"))
		assert.Equal(t, "35", newRow.Value("Age"))

		// Removed rows have no new-side match.
		_, _, ok = comp.matchedRows("2")
		assert.False(t, ok)
		return nil
	}, "--key", "ID", oldPath, newPath)
	require.NoError(t, err)
}

func TestSummaryFooter(t *testing.T) {
	s := compare.Summary{Added: 1200, Removed: 3, Changed: 42, Duplicates: 7}
	assert.Equal(t,
		"\n1,200 added, 3 removed, 42 changed, 1,245 total differences, 7 duplicate rows",
		summaryFooter(s))
}
