// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/apex/log"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"github.com/csvctl/csvctl/internal/compare"
	"github.com/csvctl/csvctl/internal/config"
	"github.com/csvctl/csvctl/internal/csvio"
	"github.com/csvctl/csvctl/internal/delta"
	"github.com/csvctl/csvctl/internal/meta"
	"github.com/csvctl/csvctl/internal/util"
)

// dqCommandAction is the action handler for the "dq" subcommand. It compares
// two CSV datasets row by row and renders or writes the classified
// differences.
func dqCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	// Bail out early if we're just dumping tldr.
	if ShortCircuitTLDR(ctx, cmd, "dq") {
		return nil
	}

	config.Config.Namespace = "dq"

	oldSpec, newSpec, err := dqInputs(cmd)
	if err != nil {
		return err
	}

	comp, err := runComparison(ctx, cmd, oldSpec, newSpec)
	if err != nil {
		return err
	}

	switch {
	case cmd.String("out") != "":
		return writeComparison(comp, cmd.String("out"), os.Stdout)
	case cmd.Bool("deep"):
		return renderDeep(cmd, comp, os.Stdout)
	case cmd.Bool("dupes"):
		return renderDuplicates(cmd, comp, os.Stdout)
	default:
		return renderResults(cmd, comp, os.Stdout)
	}
}

// dqInputs returns the OLD and NEW dataset specs, either picked from a
// directory or taken from the two positional arguments.
func dqInputs(cmd *cli.Command) (string, string, error) {
	if dir := cmd.String("pick"); dir != "" {
		picked, err := delta.PickTwo(dir)
		if err != nil {
			return "", "", err
		}
		return picked[0], picked[1], nil
	}

	args := cmd.Args().Slice()
	if len(args) != 2 {
		return "", "", errors.New("dq needs two inputs: csvctl dq OLD NEW")
	}
	return args[0], args[1], nil
}

// writeComparison writes the results CSV and the duplicates sibling file, then
// prints the run summary.
func writeComparison(comp *comparison, outPath string, w io.Writer) error {
	if _, err := os.Stat(filepath.Dir(outPath)); err != nil {
		return fmt.Errorf("output directory does not exist: %s", filepath.Dir(outPath))
	}
	if _, err := os.Stat(outPath); err == nil {
		log.Warnf("Output file already exists and will be overwritten: %s", outPath)
	}

	if err := csvio.WriteResults(outPath, comp.results); err != nil {
		return err
	}

	dupPath := util.Sibling(outPath, "_duplicates")
	if len(comp.duplicates) == 0 {
		fmt.Fprintln(w, "No duplicate rows found. No duplicates file created.")
	} else {
		if err := csvio.WriteDuplicates(dupPath, comp.duplicates); err != nil {
			return err
		}
		fmt.Fprintf(w, "Duplicate rows written to: %s\n", dupPath)
	}

	printSummary(comp, outPath, dupPath, w)
	return nil
}

// printSummary reports what a --out run produced, matching the layout users
// of the standalone comparator script expect.
func printSummary(comp *comparison, outPath, dupPath string, w io.Writer) {
	if len(comp.results) == 0 {
		fmt.Fprintln(w, "No differences found between the CSV files.")
		fmt.Fprintf(w, "Empty results file created: %s\n", outPath)
		return
	}

	fmt.Fprintln(w, "Comparison completed successfully!")
	fmt.Fprintf(w, "Results written to: %s\n", outPath)
	fmt.Fprintln(w, "Summary:")
	fmt.Fprintf(w, "  - %d rows added\n", comp.summary.Added)
	fmt.Fprintf(w, "  - %d rows removed\n", comp.summary.Removed)
	fmt.Fprintf(w, "  - %d rows changed\n", comp.summary.Changed)
	fmt.Fprintf(w, "  - %d total differences\n", comp.summary.Total())
	if comp.summary.Duplicates > 0 {
		fmt.Fprintf(w, "  - %d duplicate rows written to: %s\n", comp.summary.Duplicates, dupPath)
	}
}

// renderResults emits the flattened results through the standard output
// pipeline, with the run summary as the table footer.
func renderResults(cmd *cli.Command, comp *comparison, w io.Writer) error {
	if len(comp.results) == 0 && cmd.String("output") == "text" {
		fmt.Fprintln(w, "No differences found between the CSV files.")
		return nil
	}

	al := BuildAttrs(cmd, csvio.ResultHeader(comp.results)...)
	cmd.Metadata["footer"] = summaryFooter(comp.summary)
	return EmitSlice(compare.FlattenAll(comp.results), al, cmd, w)
}

// renderDuplicates emits the duplicate key rows instead of the results.
func renderDuplicates(cmd *cli.Command, comp *comparison, w io.Writer) error {
	if len(comp.duplicates) == 0 && cmd.String("output") == "text" {
		fmt.Fprintln(w, "No duplicate rows found.")
		return nil
	}

	var defaults []string
	if len(comp.duplicates) > 0 {
		defaults = comp.duplicates[0].Columns()
	}

	maps := make([]map[string]string, len(comp.duplicates))
	for i, dup := range comp.duplicates {
		maps[i] = dup.Map()
	}

	al := BuildAttrs(cmd, defaults...)
	return EmitSlice(maps, al, cmd, w)
}

// renderDeep walks the results and, for changed rows, renders a full
// field-by-field delta of the matched old and new rows.
func renderDeep(cmd *cli.Command, comp *comparison, w io.Writer) error {
	if len(comp.results) == 0 {
		fmt.Fprintln(w, "No differences found between the CSV files.")
		return nil
	}

	for _, res := range comp.results {
		if res.Status != compare.StatusChanged {
			fmt.Fprintf(w, "%s: %s\n", res.Status, res.Key)
			continue
		}

		oldRow, newRow, ok := comp.matchedRows(res.Key)
		if !ok {
			fmt.Fprintf(w, "%s: %s\n", res.Status, res.Key)
			continue
		}

		rendered, err := delta.Render(oldRow, newRow, cmd.Bool("color"))
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s: %s\n%s", res.Status, res.Key, rendered)
	}

	return nil
}

// summaryFooter formats the comparison summary for the table footer.
func summaryFooter(s compare.Summary) string {
	return fmt.Sprintf("\n%s added, %s removed, %s changed, %s total differences, %s duplicate rows",
		humanize.Comma(int64(s.Added)),
		humanize.Comma(int64(s.Removed)),
		humanize.Comma(int64(s.Changed)),
		humanize.Comma(int64(s.Total())),
		humanize.Comma(int64(s.Duplicates)))
}

// dqCommandBuilder constructs the cli.Command for "dq" and wires up metadata,
// flags, and the action handler.
func dqCommandBuilder(meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "dq",
		Usage:     "diff query",
		UsageText: "csvctl dq OLD NEW [options]",
		Flags: []cli.Flag{
			NewProfileFlag("dq", meta.Config.Source),
			&cli.StringFlag{
				Name:    "key",
				Aliases: []string{"k"},
				Usage:   "comma-separated list of key columns identifying a row",
			},
			&cli.StringFlag{
				Name:    "exclude",
				Aliases: []string{"x"},
				Usage:   "comma-separated list of columns to exclude from the comparison",
			},
			&cli.StringFlag{
				Name:  "schema-check",
				Usage: "behavior when the two headers disagree",
				Value: csvio.SchemaWarn,
				Validator: func(value string) error {
					return FlagValidators(value, SchemaCheckValidator)
				},
			},
			&cli.BoolFlag{
				Name:  "fail-on-dupes",
				Usage: "fail when a row key repeats within a dataset",
				Value: true,
			},
			&cli.BoolFlag{
				Name:        "no-fail-on-dupes",
				Usage:       "collect repeated row keys as duplicates instead of failing",
				HideDefault: true,
			},
			&cli.BoolFlag{
				Name:  "include-unchanged",
				Usage: "record unchanged column values on changed rows",
				Value: false,
			},
			&cli.BoolFlag{
				Name:  "dupes",
				Usage: "show the duplicate key rows instead of the results",
				Value: false,
			},
			&cli.BoolFlag{
				Name:  "deep",
				Usage: "render a full delta for each changed row",
				Value: false,
			},
			&cli.StringFlag{
				Name:  "out",
				Usage: "write results to this CSV file instead of rendering them",
			},
			&cli.StringFlag{
				Name:  "pick",
				Usage: "pick the two inputs from this directory",
			},
		},
		Action: dqCommandAction,
		Meta:   meta,
	}).Build()
}
