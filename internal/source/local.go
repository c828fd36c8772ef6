// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package source

import (
	"context"
	"fmt"
	"io"
	"os"
)

// fileSource reads a CSV from the local filesystem.
type fileSource struct {
	path string
}

func (f fileSource) Name() string {
	return f.path
}

func (f fileSource) Open(_ context.Context) (io.ReadCloser, error) {
	info, err := os.Stat(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("CSV file not found: %s", f.path)
		}
		return nil, fmt.Errorf("failed to stat %s: %w", f.path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory, not a CSV file", f.path)
	}
	return os.Open(f.path)
}

// stdinSource reads a CSV from standard input.
type stdinSource struct{}

func (stdinSource) Name() string {
	return "stdin"
}

func (stdinSource) Open(_ context.Context) (io.ReadCloser, error) {
	// Don't hand out the real handle for closing.
	return io.NopCloser(os.Stdin), nil
}
