// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/csvctl/csvctl/internal/meta"
	"github.com/csvctl/csvctl/internal/profile"
)

// initCommandAction writes the example comparison profile so users have a
// documented starting point to edit.
func initCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	path := "csvctl.json"
	if args := cmd.Args().Slice(); len(args) > 0 {
		path = args[0]
	}

	if _, err := os.Stat(path); err == nil && !cmd.Bool("force") {
		return fmt.Errorf("%s already exists, use --force to overwrite", path)
	}

	if err := profile.WriteExample(path); err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Example profile created: %s\n", path)
	return nil
}

// initCommandBuilder constructs the cli.Command for "init".
func initCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "init",
		Usage:     "write an example comparison profile",
		UsageText: "csvctl init [PATH]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "force",
				Usage:       "overwrite an existing file",
				HideDefault: true,
			},
		},
		Action: initCommandAction,
	}
}
