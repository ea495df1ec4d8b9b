// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package termtool

import (
	"fmt"
	"math/big"
	"reflect"
	"strings"

	"gopkg.in/yaml.v3"
)

// yamlValue converts a parsed YAML node to a host value. It follows
// yaml.v3's decoding into any, except that integers too large for 64
// bits come back as *big.Int instead of being rounded through float64.
func yamlValue(node *yaml.Node) (any, error) {
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return nil, nil
		}
		return yamlValue(node.Content[0])

	case yaml.AliasNode:
		return yamlValue(node.Alias)

	case yaml.SequenceNode:
		items := make([]any, len(node.Content))
		for index, child := range node.Content {
			item, err := yamlValue(child)
			if err != nil {
				return nil, err
			}
			items[index] = item
		}
		return items, nil

	case yaml.MappingNode:
		return yamlMapping(node)

	case yaml.ScalarNode:
		if integer, ok := yamlInteger(node); ok {
			return integer, nil
		}
		var value any
		if err := node.Decode(&value); err != nil {
			return nil, err
		}
		return value, nil

	default:
		return nil, fmt.Errorf("line %d: unknown YAML node kind %d", node.Line, node.Kind)
	}
}

// yamlMapping builds a map from a mapping node. Merge keys (<<) fill
// in entries the mapping does not set itself.
func yamlMapping(node *yaml.Node) (map[any]any, error) {
	result := make(map[any]any, len(node.Content)/2)
	var merges []*yaml.Node

	for index := 0; index+1 < len(node.Content); index += 2 {
		keyNode, valueNode := node.Content[index], node.Content[index+1]
		if keyNode.Kind == yaml.ScalarNode && keyNode.ShortTag() == "!!merge" {
			merges = append(merges, valueNode)
			continue
		}
		key, err := yamlValue(keyNode)
		if err != nil {
			return nil, err
		}
		if key != nil && !reflect.TypeOf(key).Comparable() {
			return nil, fmt.Errorf("line %d: mapping key must be a scalar", keyNode.Line)
		}
		if _, exists := result[key]; exists {
			return nil, fmt.Errorf("line %d: mapping key %v already defined", keyNode.Line, key)
		}
		value, err := yamlValue(valueNode)
		if err != nil {
			return nil, err
		}
		result[key] = value
	}

	for _, merge := range merges {
		sources := []*yaml.Node{merge}
		if merge.Kind == yaml.SequenceNode {
			sources = merge.Content
		}
		for _, source := range sources {
			merged, err := yamlValue(source)
			if err != nil {
				return nil, err
			}
			entries, ok := merged.(map[any]any)
			if !ok {
				return nil, fmt.Errorf("line %d: merge value must be a mapping", source.Line)
			}
			for key, value := range entries {
				if _, exists := result[key]; !exists {
					result[key] = value
				}
			}
		}
	}
	return result, nil
}

// yamlInteger parses an integer scalar exactly. Plain decimal digits
// count as an integer even when yaml.v3 resolves them to !!float
// because they overflow 64 bits.
func yamlInteger(node *yaml.Node) (any, bool) {
	text := strings.ReplaceAll(node.Value, "_", "")
	switch node.ShortTag() {
	case "!!int":
	case "!!float":
		if node.Style != 0 || !isDecimalInteger(text) {
			return nil, false
		}
	default:
		return nil, false
	}

	value, ok := new(big.Int).SetString(text, 0)
	if !ok {
		return nil, false
	}
	if value.IsInt64() {
		return value.Int64(), true
	}
	if value.IsUint64() {
		return value.Uint64(), true
	}
	return value, true
}

func isDecimalInteger(text string) bool {
	text = strings.TrimLeft(text, "+-")
	if text == "" {
		return false
	}
	for _, r := range text {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
