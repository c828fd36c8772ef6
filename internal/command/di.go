// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/csvctl/csvctl/internal/command/di"
	"github.com/csvctl/csvctl/internal/config"
	"github.com/csvctl/csvctl/internal/meta"
)

func diCommandAction(ctx context.Context, cmd *cli.Command) error {
	// DiCommandAction is the action handler for the "di" subcommand. It runs
	// the comparison and launches an interactive console to explore the
	// differences.
	meta := cmd.Metadata["meta"].(meta.Meta)
	log.Debugf("Executing action for %v", meta.Args[1:])

	config.Config.Namespace = "di"

	args := cmd.Args().Slice()
	if len(args) != 2 {
		return errors.New("di needs two inputs: csvctl di OLD NEW")
	}

	comp, err := runComparison(ctx, cmd, args[0], args[1])
	if err != nil {
		return err
	}

	// Run interactive console
	return runDiInteractiveConsole(diDocument(comp))
}

// diDocument assembles the queryable document for the console: the flattened
// results, the duplicate rows, the summary counters, and one top-level entry
// per row key. Reserved names keep their document meaning on collision.
func diDocument(comp *comparison) map[string]interface{} {
	results := make([]interface{}, len(comp.results))
	for i, res := range comp.results {
		entry := map[string]interface{}{}
		for k, v := range res.Flatten() {
			entry[k] = v
		}
		results[i] = entry
	}

	duplicates := make([]interface{}, len(comp.duplicates))
	for i, dup := range comp.duplicates {
		entry := map[string]interface{}{}
		for k, v := range dup.Map() {
			entry[k] = v
		}
		duplicates[i] = entry
	}

	doc := map[string]interface{}{
		"results":    results,
		"duplicates": duplicates,
		"summary": map[string]interface{}{
			"added":      comp.summary.Added,
			"removed":    comp.summary.Removed,
			"changed":    comp.summary.Changed,
			"duplicates": comp.summary.Duplicates,
			"total":      comp.summary.Total(),
		},
	}

	for i, res := range comp.results {
		if _, exists := doc[res.Key]; exists {
			continue
		}
		doc[res.Key] = results[i]
	}

	return doc
}

// diModel represents the Bubble Tea model for di command
type diModel struct {
	input          textinput.Model
	history        []string // Full history for navigation (includes file history)
	sessionHistory []string // Only commands from this session (matches with outputs)
	histIndex      int
	output         []string
	data           map[string]interface{}
	historyFile    string
}

func initialDiModel(data map[string]interface{}) diModel {
	ti := textinput.New()
	ti.Placeholder = ""
	ti.Focus()
	ti.CharLimit = 2048
	ti.Width = 999
	ti.Prompt = ""
	ti.Cursor.SetMode(cursor.CursorBlink) // Set to blinking vertical line

	// Load history from file
	historyFile := getDiHistoryFile()
	history := loadDiHistory(historyFile)

	// Add initial welcome message
	var output []string
	results, ok := data["results"].([]interface{})
	if ok {
		output = append(output, fmt.Sprintf("Interactive diff console loaded. %d differences found.", len(results)))
	}
	output = append(output, "Type 'help' for syntax, 'exit' or Ctrl+C to quit.")

	return diModel{
		input:          ti,
		history:        history,
		sessionHistory: []string{}, // Empty for new session
		histIndex:      -1,
		output:         output,
		data:           data,
		historyFile:    historyFile,
	}
}

func (m diModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m diModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "enter":
			entry := m.input.Value()
			if strings.TrimSpace(entry) != "" {
				// Handle special commands
				if entry == "exit" || entry == "quit" {
					return m, tea.Quit
				}
				if entry == "help" {
					m.history = append(m.history, entry)
					m.sessionHistory = append(m.sessionHistory, entry)
					m.histIndex = -1
					m.output = append(m.output, getDiHelp())
					saveDiHistory(m.historyFile, m.history)
					m.input.SetValue("")
					return m, nil
				}

				// Process query and get output
				result := processDiQuery(m.data, entry)

				m.history = append(m.history, entry)
				m.sessionHistory = append(m.sessionHistory, entry)
				m.histIndex = -1
				m.output = append(m.output, result)
				saveDiHistory(m.historyFile, m.history)
			}
			m.input.SetValue("")
			return m, nil

		case "up":
			if len(m.history) == 0 {
				return m, nil
			}
			if m.histIndex == -1 {
				m.histIndex = len(m.history) - 1
			} else if m.histIndex > 0 {
				m.histIndex--
			}
			m.input.SetValue(m.history[m.histIndex])
			m.input.CursorEnd()
			return m, nil

		case "down":
			if len(m.history) == 0 {
				return m, nil
			}
			if m.histIndex >= 0 && m.histIndex < len(m.history)-1 {
				m.histIndex++
				m.input.SetValue(m.history[m.histIndex])
				m.input.CursorEnd()
			} else {
				m.histIndex = -1
				m.input.SetValue("")
			}
			return m, nil

		case "ctrl+c", "esc":
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m diModel) View() string {
	// Match the odd-row table color for the prompt
	promptStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#00c8f0"))

	var lines []string

	// Add the initial welcome messages first
	if len(m.output) >= 2 {
		lines = append(lines, m.output[0])
		lines = append(lines, m.output[1])
	}

	// Add each command from THIS SESSION with its corresponding output
	for i := 0; i < len(m.sessionHistory); i++ {
		// Show the command that was entered in this session
		lines = append(lines, promptStyle.Render("> ")+m.sessionHistory[i])

		// Show the corresponding output (accounting for the 2 initial messages)
		if (i + 2) < len(m.output) {
			lines = append(lines, m.output[i+2])
		}
	}

	// Add current prompt and input
	lines = append(lines, promptStyle.Render("> ")+m.input.View())

	return strings.Join(lines, "\n")
}

// getDiHelp returns the help text as a string
func getDiHelp() string {
	return `Query syntax:
  Three query modes supported:

  1. Drill-down (queries starting with '.')
     .results                         - All results as JSON
     .results[0]                      - First result as JSON
     .results[0].Status               - One field of one result
     .42.Status                       - Result for row key "42"
     .summary.added                   - One summary counter
     .duplicates                      - Duplicate key rows as JSON

  2. Function evaluation (queries starting with '/')
     /length(results)                 - Count the results
     /keys(summary)                   - List the summary keys
     /upper("added")                  - Convert to uppercase
     /coalesce(null, "default")       - First non-null argument

  Special queries:
     keys                             - List the row keys with differences
     summary                          - One-line comparison summary

  Navigation:
     ↑/↓ arrows                       - Navigate command history
     Ctrl+C                           - Exit

  Examples:
     .results[0]                      - JSON for the first difference
     /length(duplicates)              - Count the duplicate rows`
}

// getDiHistoryFile returns the path to the di history file
func getDiHistoryFile() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".csvctl_di_history"
	}
	return filepath.Join(homeDir, ".csvctl_di_history")
}

func loadDiHistory(filename string) []string {
	var history []string

	file, err := os.Open(filename)
	if err != nil {
		return history // Return empty history if file doesn't exist
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			history = append(history, line)
		}
	}

	return history
}

func processDiQuery(data map[string]interface{}, query string) string {
	result := di.ProcessQuery(data, query)
	if result == "" {
		return "No results found."
	}
	return strings.TrimSuffix(result, "\n")
}

func runDiInteractiveConsole(data map[string]interface{}) error {
	p := tea.NewProgram(initialDiModel(data))
	_, err := p.Run()
	return err
}

func saveDiHistory(filename string, history []string) {
	// Keep only the last 1000 commands
	maxHistory := 1000
	start := 0
	if len(history) > maxHistory {
		start = len(history) - maxHistory
	}

	file, err := os.Create(filename)
	if err != nil {
		return // Silently fail if we can't save history
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	for i := start; i < len(history); i++ {
		fmt.Fprintln(writer, history[i])
	}
	writer.Flush()
}

// DiCommandBuilder constructs the cli.Command for "di" and wires up metadata,
// flags, and the action handler.
func diCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "di",
		Hidden:    true,
		Usage:     "diff inspector",
		UsageText: "csvctl di OLD NEW [options]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: append([]cli.Flag{
			NewProfileFlag("di", meta.Config.Source),
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
		}, NewGlobalFlags("di")...),
		Action: diCommandAction,
	}
}
