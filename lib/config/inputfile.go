// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// FileInputs are action inputs loaded from a local input file, keyed by
// input name. It implements actions.Inputs.
type FileInputs map[string]string

// Input implements actions.Inputs.
func (inputs FileInputs) Input(name string) string {
	return inputs[name]
}

// LoadInputFile reads an input file for running the action outside a
// workflow. The format follows the extension: .yaml and .yml are YAML,
// .json and .jsonc are JSON with optional comments. Every top-level key
// is an input name whose value is a scalar or a list of scalars; a list
// becomes a multiline input. ${VAR} and ${VAR:-default} references are
// expanded through getenv so secrets can stay out of the file.
func LoadInputFile(path string, getenv func(string) string) (FileInputs, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading input file: %w", err)
	}

	var raw map[string]inputValue
	switch extension := strings.ToLower(filepath.Ext(path)); extension {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parsing input file %s: %w", path, err)
		}
	case ".json", ".jsonc":
		if err := json.Unmarshal(jsonc.ToJSON(data), &raw); err != nil {
			return nil, fmt.Errorf("parsing input file %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("input file %s: unsupported extension %q (want .yaml, .yml, .json or .jsonc)", path, extension)
	}

	inputs := make(FileInputs, len(raw))
	for name, value := range raw {
		inputs[name] = expandVariables(string(value), getenv)
	}
	return inputs, nil
}

// inputValue decodes a scalar or a list of scalars into the string form
// the runner would pass: lists are joined with newlines.
type inputValue string

func (value *inputValue) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*value = inputValue(node.Value)
		return nil
	case yaml.SequenceNode:
		lines := make([]string, 0, len(node.Content))
		for _, item := range node.Content {
			if item.Kind != yaml.ScalarNode {
				return fmt.Errorf("line %d: list items must be scalars", item.Line)
			}
			lines = append(lines, item.Value)
		}
		*value = inputValue(strings.Join(lines, "\n"))
		return nil
	default:
		return fmt.Errorf("line %d: input values must be a scalar or a list of scalars", node.Line)
	}
}

func (value *inputValue) UnmarshalJSON(data []byte) error {
	var decoded any
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	if list, ok := decoded.([]any); ok {
		lines := make([]string, 0, len(list))
		for _, item := range list {
			line, err := scalarString(item)
			if err != nil {
				return err
			}
			lines = append(lines, line)
		}
		*value = inputValue(strings.Join(lines, "\n"))
		return nil
	}
	text, err := scalarString(decoded)
	if err != nil {
		return err
	}
	*value = inputValue(text)
	return nil
}

func scalarString(decoded any) (string, error) {
	switch typed := decoded.(type) {
	case nil:
		return "", nil
	case string:
		return typed, nil
	case bool:
		return strconv.FormatBool(typed), nil
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64), nil
	default:
		return "", fmt.Errorf("input values must be a scalar or a list of scalars, got %T", decoded)
	}
}

var variablePattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandVariables expands ${VAR} and ${VAR:-default} patterns.
func expandVariables(s string, getenv func(string) string) string {
	return variablePattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := variablePattern.FindStringSubmatch(match)
		if value := getenv(parts[1]); value != "" {
			return value
		}
		return parts[2]
	})
}
