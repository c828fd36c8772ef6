// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"os"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/csvctl/csvctl/internal/config"
	"github.com/csvctl/csvctl/internal/csvio"
	"github.com/csvctl/csvctl/internal/meta"
	"github.com/csvctl/csvctl/internal/source"
)

// sqCommandAction is the action handler for the "sq" subcommand. With one
// input it lists that file's header columns in source order. With two it
// reports which side each column appears on.
func sqCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	// Bail out early if we're just dumping tldr.
	if ShortCircuitTLDR(ctx, cmd, "sq") {
		return nil
	}

	config.Config.Namespace = "sq"

	args := cmd.Args().Slice()
	switch len(args) {
	case 1:
		cols, err := readColumns(ctx, args[0])
		if err != nil {
			return err
		}
		al := BuildAttrs(cmd, "column", "position")
		return EmitSlice(columnPositions(cols), al, cmd, os.Stdout)
	case 2:
		first, err := readColumns(ctx, args[0])
		if err != nil {
			return err
		}
		second, err := readColumns(ctx, args[1])
		if err != nil {
			return err
		}
		al := BuildAttrs(cmd, "column", "present")
		return EmitSlice(columnOverlap(first, second), al, cmd, os.Stdout)
	default:
		return errors.New("sq needs one or two inputs: csvctl sq FILE [FILE2]")
	}
}

// readColumns resolves spec to a source and reads just its header.
func readColumns(ctx context.Context, spec string) ([]string, error) {
	src, err := source.Resolve(spec)
	if err != nil {
		return nil, err
	}

	in, err := src.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	return csvio.ColumnsFrom(in, src.Name())
}

// columnPositions maps a header to one entry per column with its 1-based
// position.
func columnPositions(cols []string) []map[string]interface{} {
	entries := make([]map[string]interface{}, len(cols))
	for i, col := range cols {
		entries[i] = map[string]interface{}{"column": col, "position": i + 1}
	}
	return entries
}

// columnOverlap labels every column with the side it appears on: the first
// file's columns in header order, then columns unique to the second file.
func columnOverlap(first, second []string) []map[string]interface{} {
	// No key columns are involved, so validation cannot fail here.
	report, _ := csvio.ValidateSchemas(first, second, nil, csvio.SchemaWarn)

	firstOnly := make(map[string]struct{})
	secondOnly := make(map[string]struct{})
	if report != nil {
		for _, col := range report.FirstOnly {
			firstOnly[col] = struct{}{}
		}
		for _, col := range report.SecondOnly {
			secondOnly[col] = struct{}{}
		}
	}

	var entries []map[string]interface{}
	for _, col := range first {
		present := "both"
		if _, ok := firstOnly[col]; ok {
			present = "first only"
		}
		entries = append(entries, map[string]interface{}{"column": col, "present": present})
	}
	for _, col := range second {
		if _, ok := secondOnly[col]; ok {
			entries = append(entries, map[string]interface{}{"column": col, "present": "second only"})
		}
	}

	return entries
}

// sqCommandBuilder constructs the cli.Command for "sq", wiring metadata,
// flags, and action/validator handlers.
func sqCommandBuilder(meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "sq",
		Usage:     "schema query",
		UsageText: "csvctl sq FILE [FILE2] [options]",
		Action:    sqCommandAction,
		Meta:      meta,
	}).Build()
}
