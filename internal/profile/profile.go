// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/csvctl/csvctl/internal/csvio"
	"github.com/csvctl/csvctl/internal/log"
)

// Profile is the JSON comparison profile.
type Profile struct {
	KeyColumns              []string `json:"key_columns"`
	ExcludedColumns         []string `json:"excluded_columns"`
	SchemaMismatchBehavior  string   `json:"schema_mismatch_behavior"`
	FailOnDuplicateKeys     bool     `json:"fail_on_duplicate_keys"`
	IncludeUnchangedColumns bool     `json:"include_unchanged_columns"`
}

var knownFields = map[string]struct{}{
	"key_columns":               {},
	"excluded_columns":          {},
	"schema_mismatch_behavior":  {},
	"fail_on_duplicate_keys":    {},
	"include_unchanged_columns": {},
}

// Default returns a profile with every optional field at its default.
// KeyColumns stays empty; a usable profile must set it.
func Default() Profile {
	return Profile{
		ExcludedColumns:        []string{},
		SchemaMismatchBehavior: csvio.SchemaWarn,
		FailOnDuplicateKeys:    true,
	}
}

// Load reads and validates the profile at path.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("profile not found: %s", path)
	}
	log.Debugf("loaded profile from %s", path)
	return Parse(data)
}

// Parse decodes and validates profile JSON. Optional fields absent from the
// document keep their defaults; unknown top-level fields are rejected by
// name. key_columns must be present and non-empty.
func Parse(data []byte) (*Profile, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid JSON in profile: %w", err)
	}

	if _, ok := raw["key_columns"]; !ok {
		return nil, errors.New("required field 'key_columns' missing from profile")
	}

	var unknown []string
	for field := range raw {
		if _, ok := knownFields[field]; !ok {
			unknown = append(unknown, field)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, fmt.Errorf("unknown profile fields: %v", unknown)
	}

	p := Default()
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("invalid JSON in profile: %w", err)
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate checks field values after decoding or flag overrides.
func (p Profile) Validate() error {
	if len(p.KeyColumns) == 0 {
		return errors.New("key_columns cannot be empty")
	}

	valid := false
	for _, b := range csvio.SchemaBehaviors {
		if p.SchemaMismatchBehavior == b {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("schema_mismatch_behavior must be one of %v", csvio.SchemaBehaviors)
	}

	return nil
}

// WriteExample writes the canonical example profile to path.
func WriteExample(path string) error {
	example := Profile{
		KeyColumns:             []string{"ID", "Name"},
		ExcludedColumns:        []string{"Last Login", "Notes"},
		SchemaMismatchBehavior: csvio.SchemaWarn,
		FailOnDuplicateKeys:    true,
	}

	data, err := json.MarshalIndent(example, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to render example profile: %w", err)
	}

	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil { //nolint:mnd
		return fmt.Errorf("failed to write example profile %s: %w", path, err)
	}
	return nil
}
