// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package actions

import (
	"fmt"
	"strings"
)

// Inputs looks up raw action input values by their declared name
// (e.g. "api-key"). An unset input is the empty string.
type Inputs interface {
	Input(name string) string
}

// EnvInputs reads inputs from INPUT_* variables through a getenv
// function, normally os.Getenv.
type EnvInputs func(string) string

// Input implements Inputs.
func (getenv EnvInputs) Input(name string) string {
	return getenv(InputVariable(name))
}

// InputVariable returns the environment variable the runner uses for
// an input: "INPUT_" + the name upper-cased with spaces replaced by
// underscores. Hyphens are kept ("api-key" -> "INPUT_API-KEY").
func InputVariable(name string) string {
	return "INPUT_" + strings.ToUpper(strings.ReplaceAll(name, " ", "_"))
}

// MapInputs serves inputs from a map keyed by input name.
type MapInputs map[string]string

// Input implements Inputs.
func (inputs MapInputs) Input(name string) string {
	return inputs[name]
}

// Layered consults each source in order and returns the first value that
// is non-blank after trimming.
type Layered []Inputs

// Input implements Inputs.
func (layers Layered) Input(name string) string {
	for _, layer := range layers {
		if value := layer.Input(name); strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}

// MissingInputError reports a required input that is empty after
// trimming.
type MissingInputError struct {
	Name string
}

func (err *MissingInputError) Error() string {
	return fmt.Sprintf("input required and not supplied: %s", err.Name)
}

// RequiredInput returns the trimmed value of a required input.
func RequiredInput(inputs Inputs, name string) (string, error) {
	value := strings.TrimSpace(inputs.Input(name))
	if value == "" {
		return "", &MissingInputError{Name: name}
	}
	return value, nil
}

// RequiredMultilineInput splits a required input into trimmed lines.
// Blank lines are dropped without error; the input is missing only when
// no line survives.
func RequiredMultilineInput(inputs Inputs, name string) ([]string, error) {
	var lines []string
	for _, line := range strings.Split(inputs.Input(name), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return nil, &MissingInputError{Name: name}
	}
	return lines, nil
}

// OptionalInput returns the trimmed value and whether it was supplied.
func OptionalInput(inputs Inputs, name string) (string, bool) {
	value := strings.TrimSpace(inputs.Input(name))
	return value, value != ""
}
