// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package util

import (
	"os"
	"path/filepath"
	"strings"
)

// ParseDir validates a directory argument and returns it as an absolute
// path. It returns an error if the fs entry does not exist, is empty or is
// not a directory.
func ParseDir(dir string) (string, error) {
	if dir == "" {
		return "", os.ErrInvalid
	}

	// Determine if the directory is absolute or relative. If it is relative,
	// make it absolute.
	if !strings.HasPrefix(dir, "/") {
		cwd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(cwd, dir)
	}

	if r, err := os.Stat(dir); err != nil {
		return "", err
	} else if !r.IsDir() {
		return "", os.ErrInvalid
	}

	return dir, nil
}

// Stem returns the file name of path without its extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Sibling returns a path alongside base whose file name is base's stem plus
// suffix, keeping the original extension. Sibling("out/results.csv",
// "_duplicates") yields "out/results_duplicates.csv".
func Sibling(base, suffix string) string {
	ext := filepath.Ext(base)
	return filepath.Join(filepath.Dir(base), Stem(base)+suffix+ext)
}
