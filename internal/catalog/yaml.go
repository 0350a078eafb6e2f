/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed default_catalog.yaml
var defaultCatalogYAML []byte

type fileCatalog struct {
	Headings []string             `yaml:"headings,omitempty"`
	Slots    []Slot               `yaml:"slots"`
	People   []Person             `yaml:"people"`
	Rules    map[string]yaml.Node `yaml:"rules,omitempty"`
}

type exportCatalog struct {
	Headings []string            `yaml:"headings,omitempty"`
	Slots    []Slot              `yaml:"slots"`
	People   []Person            `yaml:"people"`
	Rules    map[string][]string `yaml:"rules,omitempty"`
}

// Default returns the catalog embedded in the binary.
func Default() (*Catalog, error) {
	return Parse(defaultCatalogYAML)
}

// Load reads a catalog YAML file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes catalog YAML. A restriction list may be a sequence of slot
// ids or a single scalar; a scalar is kept verbatim as one entry.
func Parse(data []byte) (*Catalog, error) {
	var fc fileCatalog
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	rules := make(map[string][]string, len(fc.Rules))
	for owner, node := range fc.Rules {
		list, err := decodeRuleList(&node)
		if err != nil {
			return nil, fmt.Errorf("decode rules for %s: %w", owner, err)
		}
		rules[owner] = list
	}

	return New(Definition{
		Headings: fc.Headings,
		Slots:    fc.Slots,
		People:   fc.People,
		Rules:    rules,
	})
}

func decodeRuleList(node *yaml.Node) ([]string, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			return nil, nil
		}
		return []string{node.Value}, nil
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return nil, err
		}
		return list, nil
	default:
		return nil, fmt.Errorf("expected a list of slot ids at line %d", node.Line)
	}
}

// Marshal renders the catalog as YAML that Parse accepts.
func Marshal(c *Catalog) ([]byte, error) {
	def := c.Definition()
	out := exportCatalog{
		Headings: def.Headings,
		Slots:    def.Slots,
		People:   def.People,
		Rules:    def.Rules,
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return nil, fmt.Errorf("encode catalog: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode catalog: %w", err)
	}
	return buf.Bytes(), nil
}

// RuleOwners returns the person ids that have a restriction list, sorted.
func (c *Catalog) RuleOwners() []string {
	owners := make([]string, 0, len(c.ruleList))
	for owner := range c.ruleList {
		owners = append(owners, owner)
	}
	sort.Strings(owners)
	return owners
}
