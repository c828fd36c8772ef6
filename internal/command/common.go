// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/csvctl/csvctl/internal/attrs"
	"github.com/csvctl/csvctl/internal/compare"
	"github.com/csvctl/csvctl/internal/csvio"
	"github.com/csvctl/csvctl/internal/meta"
	"github.com/csvctl/csvctl/internal/output"
	"github.com/csvctl/csvctl/internal/profile"
	"github.com/csvctl/csvctl/internal/row"
	"github.com/csvctl/csvctl/internal/source"
)

// BuildAttrs constructs an AttrList with defaults and optional extras from
// --attrs, then applies the global transform spec.
func BuildAttrs(cmd *cli.Command, defaults ...string) (al attrs.AttrList) {
	//nolint:errcheck
	{
		for _, d := range defaults {
			al.Set(d)
		}
		if extras := cmd.String("attrs"); extras != "" {
			al.Set(extras)
		}
		al.SetGlobalTransformSpec()
	}
	return
}

// EmitSlice marshals a slice of result maps as JSON and passes it to the
// common output routine.
func EmitSlice(results any, al attrs.AttrList, cmd *cli.Command, w io.Writer) error {
	data, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}

	var raw bytes.Buffer
	raw.Write(data)
	output.SliceDiceSpit(raw, al, cmd, "", w, nil)
	return nil
}

// GetMeta returns the meta.Meta stored in the command's Metadata. If missing
// or of an unexpected type, it returns the zero value.
func GetMeta(cmd *cli.Command) meta.Meta {
	if cmd == nil || cmd.Metadata == nil {
		return meta.Meta{}
	}
	if m, ok := cmd.Metadata["meta"].(meta.Meta); ok {
		return m
	}
	return meta.Meta{}
}

// ShortCircuitTLDR checks the --tldr flag and, if present and available,
// runs `tldr csvctl <subcmd>` and returns true so the caller can exit early.
func ShortCircuitTLDR(ctx context.Context, cmd *cli.Command, subcmd string) bool {
	if cmd.Bool("tldr") {
		if _, err := exec.LookPath("tldr"); err == nil {
			c := exec.CommandContext(ctx, "tldr", "csvctl", subcmd)
			c.Stdout = os.Stdout
			c.Stderr = os.Stderr
			_ = c.Run()
		}
		return true
	}
	return false
}

// comparison bundles the inputs and outputs of one dq-style run.
type comparison struct {
	profile    profile.Profile
	oldData    *csvio.Dataset
	newData    *csvio.Dataset
	results    []compare.Result
	duplicates []row.Row
	summary    compare.Summary
}

// matchedRows returns the old and new rows carrying the given row key. Keys
// taken from Changed results are present on both sides by construction.
func (c *comparison) matchedRows(key string) (row.Row, row.Row, bool) {
	oldRow, okOld := findByKey(c.oldData.Rows, c.profile.KeyColumns, key)
	newRow, okNew := findByKey(c.newData.Rows, c.profile.KeyColumns, key)
	return oldRow, newRow, okOld && okNew
}

func findByKey(rows []row.Row, keyColumns []string, key string) (row.Row, bool) {
	for _, r := range rows {
		if k, err := compare.Key(r, keyColumns); err == nil && k == key {
			return r, true
		}
	}
	return row.Row{}, false
}

// runComparison resolves the effective profile, loads both datasets, validates
// their schemas, and compares them. It is the shared engine behind dq and di.
func runComparison(ctx context.Context, cmd *cli.Command, oldSpec, newSpec string) (*comparison, error) {
	prof, err := resolveProfile(cmd)
	if err != nil {
		return nil, err
	}

	oldData, err := loadDataset(ctx, oldSpec, prof.ExcludedColumns)
	if err != nil {
		return nil, err
	}
	newData, err := loadDataset(ctx, newSpec, prof.ExcludedColumns)
	if err != nil {
		return nil, err
	}

	// Excluded columns are dropped at parse time, so these headers are the
	// comparable column sets.
	report, err := csvio.ValidateSchemas(oldData.Columns, newData.Columns, prof.KeyColumns, prof.SchemaMismatchBehavior)
	if err != nil {
		return nil, err
	}
	if report != nil && report.Mismatch() {
		log.Warnf("%s", report)
	}

	results, duplicates, err := compare.Compare(oldData.Rows, newData.Rows, compare.Config{
		KeyColumns:          prof.KeyColumns,
		FailOnDuplicateKeys: prof.FailOnDuplicateKeys,
		IncludeUnchanged:    prof.IncludeUnchangedColumns,
	})
	if err != nil {
		return nil, err
	}

	return &comparison{
		profile:    *prof,
		oldData:    oldData,
		newData:    newData,
		results:    results,
		duplicates: duplicates,
		summary:    compare.Summarize(results, duplicates),
	}, nil
}

// resolveProfile builds the effective comparison profile: built-in defaults,
// then the --profile file when given, then per-flag overrides on top.
func resolveProfile(cmd *cli.Command) (*profile.Profile, error) {
	prof := profile.Default()
	if path := cmd.String("profile"); path != "" {
		loaded, err := profile.Load(path)
		if err != nil {
			return nil, err
		}
		prof = *loaded
	}

	if keys := cmd.String("key"); keys != "" {
		prof.KeyColumns = splitList(keys)
	}
	if excluded := cmd.String("exclude"); excluded != "" {
		prof.ExcludedColumns = splitList(excluded)
	}
	if cmd.IsSet("schema-check") {
		prof.SchemaMismatchBehavior = cmd.String("schema-check")
	}
	if cmd.Bool("no-fail-on-dupes") {
		prof.FailOnDuplicateKeys = false
	} else if cmd.IsSet("fail-on-dupes") {
		prof.FailOnDuplicateKeys = cmd.Bool("fail-on-dupes")
	}
	if cmd.IsSet("include-unchanged") {
		prof.IncludeUnchangedColumns = cmd.Bool("include-unchanged")
	}

	if len(prof.KeyColumns) == 0 {
		return nil, errors.New("no key columns: set --key or use a profile with key_columns")
	}
	if err := prof.Validate(); err != nil {
		return nil, err
	}

	return &prof, nil
}

// loadDataset resolves spec to a source and reads it into a dataset. Excluded
// columns are dropped by the reader.
func loadDataset(ctx context.Context, spec string, excluded []string) (*csvio.Dataset, error) {
	src, err := source.Resolve(spec)
	if err != nil {
		return nil, err
	}

	in, err := src.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	return csvio.Reader{Excluded: excluded}.From(in, src.Name())
}

// splitList splits a comma-separated flag value, trimming whitespace and
// dropping empty entries.
func splitList(spec string) []string {
	var out []string
	for _, part := range strings.Split(spec, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
