// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package di

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/tidwall/gjson"

	"github.com/csvctl/csvctl/internal/compare"
	"github.com/csvctl/csvctl/internal/driller"
)

// ProcessQuery routes a console query to the appropriate handler and returns
// the rendered result.
func ProcessQuery(data map[string]interface{}, query string) string {
	// Check for function evaluation mode
	if strings.HasPrefix(query, "/") {
		expression := strings.TrimPrefix(query, "/")
		return evaluateExpression(expression, data)
	}

	// Check for balanced parentheses (likely function)
	if hasBalancedParens(query) {
		return evaluateExpression(query, data)
	}

	// Drill-down mode
	if strings.HasPrefix(query, ".") {
		return drill(data, strings.TrimPrefix(query, "."))
	}

	if result := specialQuery(data, query); result != "" {
		return result
	}

	return "Unrecognized query. Type 'help' for syntax."
}

// hasBalancedParens checks if a string has balanced parentheses
func hasBalancedParens(s string) bool {
	openCount := 0
	closeCount := 0

	for _, char := range s {
		switch char {
		case '(':
			openCount++
		case ')':
			closeCount++
		}
	}

	// Must have at least one pair of parens and they must be balanced
	return openCount > 0 && openCount == closeCount
}

// drill resolves a dotted path against the document and renders the value it
// lands on.
func drill(data map[string]interface{}, path string) string {
	if path == "" {
		pretty, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return fmt.Sprintf("Error: %s", err)
		}
		return string(pretty)
	}

	// A leading index like "[0]" drills into the results by default.
	if strings.HasPrefix(path, "[") {
		path = "results" + path
	}

	doc, err := json.Marshal(data)
	if err != nil {
		return fmt.Sprintf("Error: %s", err)
	}

	result := driller.Driller(string(doc), path)
	if !result.Exists() {
		return "No results found."
	}

	return formatResult(result)
}

// formatResult renders a drilled value: composites as indented JSON, scalars
// bare.
func formatResult(result gjson.Result) string {
	if result.IsObject() || result.IsArray() {
		var val interface{}
		if err := json.Unmarshal([]byte(result.Raw), &val); err == nil {
			if pretty, err := json.MarshalIndent(val, "", "  "); err == nil {
				return string(pretty)
			}
		}
		return result.Raw
	}
	return result.String()
}

// specialQuery handles the built-in console shortcuts.
func specialQuery(data map[string]interface{}, query string) string {
	switch query {
	case "keys":
		return strings.Join(rowKeys(data), "\n")
	case "summary":
		return summaryLine(data)
	}
	return ""
}

// rowKeys lists the row keys of the results in document order.
func rowKeys(data map[string]interface{}) []string {
	results, ok := data["results"].([]interface{})
	if !ok || len(results) == 0 {
		return []string{"No differences found."}
	}

	keys := make([]string, 0, len(results))
	for _, entry := range results {
		if m, ok := entry.(map[string]interface{}); ok {
			if key, ok := m[compare.FieldKey].(string); ok {
				keys = append(keys, key)
			}
		}
	}
	return keys
}

// summaryLine renders the summary counters as one line.
func summaryLine(data map[string]interface{}) string {
	summary, ok := data["summary"].(map[string]interface{})
	if !ok {
		return "No summary available."
	}

	return fmt.Sprintf("%s added, %s removed, %s changed, %s duplicates, %s total",
		humanize.Comma(count(summary["added"])),
		humanize.Comma(count(summary["removed"])),
		humanize.Comma(count(summary["changed"])),
		humanize.Comma(count(summary["duplicates"])),
		humanize.Comma(count(summary["total"])))
}

// count tolerates both int (fresh documents) and float64 (documents that
// round-tripped through JSON).
func count(val interface{}) int64 {
	switch v := val.(type) {
	case int:
		return int64(v)
	case float64:
		return int64(v)
	}
	return 0
}
