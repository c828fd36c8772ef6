// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package delta

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
)

// ErrPickCancelled is returned by PickTwo when the user quits the selector
// without confirming two files.
var ErrPickCancelled = errors.New("selection cancelled")

type pickItem struct {
	name    string
	size    int64
	modTime time.Time
}

// PickTwo presents an interactive selector over the CSV files in dir and
// returns the two chosen paths in selection order (old first, new second).
func PickTwo(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", dir, err)
	}

	// ReadDir returns entries sorted by filename, so the selector is stable
	// run to run.
	var items []pickItem
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".csv") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		items = append(items, pickItem{
			name:    entry.Name(),
			size:    info.Size(),
			modTime: info.ModTime(),
		})
	}

	if len(items) < 2 {
		return nil, fmt.Errorf("need at least two CSV files in %s, found %d", dir, len(items))
	}

	p := tea.NewProgram(pickModel{items: items})
	m, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to run picker: %w", err)
	}

	selected := m.(pickModel).selected
	if len(selected) != 2 {
		return nil, ErrPickCancelled
	}

	return []string{
		filepath.Join(dir, selected[0]),
		filepath.Join(dir, selected[1]),
	}, nil
}

type pickModel struct {
	items    []pickItem
	cursor   int
	selected []string
}

func (m pickModel) Init() tea.Cmd { return nil }

func (m pickModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "w":
			return m, tea.WindowSize()
		case "q", "esc":
			m.selected = nil
			return m, tea.Quit
		case "up":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down":
			if m.cursor < len(m.items)-1 {
				m.cursor++
			}
		case " ":
			name := m.items[m.cursor].name
			if slices.Contains(m.selected, name) {
				// Remove item from selected
				for i, v := range m.selected {
					if v == name {
						m.selected = append(m.selected[:i], m.selected[i+1:]...)
						break
					}
				}
			} else if len(m.selected) < 2 {
				m.selected = append(m.selected, name)
			}
		case "enter":
			if len(m.selected) == 2 {
				return m, tea.Quit
			}
		}
	}
	return m, nil
}

func (m pickModel) View() string {
	s := "Select two CSV files (old first, new second):\n\n"
	for i, item := range m.items {
		cursor := " "
		if m.cursor == i {
			cursor = ">"
		}
		mark := " "
		if slices.Contains(m.selected, item.name) {
			mark = "x"
		}

		s += fmt.Sprintf("%s [%s] %-40s %8s %s\n", cursor, mark, item.name,
			humanize.Bytes(uint64(item.size)), item.modTime.Format("2006-01-02T15:04:05Z"))
	}
	return s + "\nSPACE: toggle, ENTER: go, Q/ESCAPE: quit\n"
}
