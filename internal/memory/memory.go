// Package memory loads the shared mapping-memory document: reviewed skip
// rules and manual mappings that resolve known source fields ahead of
// automatic matching. Rules come in a global section plus per-table overrides
// keyed by "<object>_<variant>".
package memory

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// SkipRule marks a source field as irrelevant for mapping. Only rules with
// Skip set are applied; a rule with Skip false documents a reviewed decision
// not to skip.
type SkipRule struct {
	SourceField       string `yaml:"source_field"`
	SourceDescription string `yaml:"source_description"`
	Skip              bool   `yaml:"skip"`
	Comment           string `yaml:"comment"`
}

// ManualMapping pins a source field to a target, bypassing the matcher.
// Target is the internal "TABLE.FIELD" identifier.
type ManualMapping struct {
	SourceField       string `yaml:"source_field"`
	SourceDescription string `yaml:"source_description"`
	Target            string `yaml:"target"`
	TargetDescription string `yaml:"target_description"`
	Comment           string `yaml:"comment"`
}

// TableRules holds the per-table additions to the global rule sets.
type TableRules struct {
	SkipFields     []SkipRule      `yaml:"skip_fields"`
	ManualMappings []ManualMapping `yaml:"manual_mappings"`
}

// Memory is the parsed mapping-memory document.
type Memory struct {
	GlobalSkipFields     []SkipRule            `yaml:"global_skip_fields"`
	GlobalManualMappings []ManualMapping       `yaml:"global_manual_mappings"`
	TableSpecific        map[string]TableRules `yaml:"table_specific"`
}

// Load reads and parses a mapping-memory YAML file.
func Load(path string) (*Memory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read mapping memory: %w", err)
	}
	var m Memory
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse mapping memory %s: %w", path, err)
	}
	return &m, nil
}

// RulesFor returns the effective skip rules and manual mappings for one
// object/variant: the global sets followed by the table-specific additions
// under the "<object>_<variant>" key. Safe on a nil receiver.
func (m *Memory) RulesFor(object, variant string) ([]SkipRule, []ManualMapping) {
	if m == nil {
		return nil, nil
	}
	skips := append([]SkipRule(nil), m.GlobalSkipFields...)
	manuals := append([]ManualMapping(nil), m.GlobalManualMappings...)

	key := object + "_" + variant
	if tr, ok := m.TableSpecific[key]; ok {
		skips = append(skips, tr.SkipFields...)
		manuals = append(manuals, tr.ManualMappings...)
	}
	return skips, manuals
}
