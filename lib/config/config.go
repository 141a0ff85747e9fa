// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/zeklin-io/zeklin-action/lib/actions"
)

// Input names declared in action.yml.
const (
	InputAPIKey         = "api-key"
	InputAPIKeyID       = "api-key-id"
	InputCommands       = "cmd"
	InputOutputFilePath = "output-file-path"
	InputWorkdir        = "workdir"
)

// Configuration is the validated action configuration. It is built once
// by Parse and never modified.
type Configuration struct {
	// APIKey authenticates uploads. It is a secret: callers must mask it
	// and never log it. LogValue omits it.
	APIKey string

	// APIKeyID identifies the key to the server.
	APIKeyID string

	// Commands are run in order, one shell invocation per entry.
	Commands []string

	// OutputFilePath is where the commands leave their JSON results,
	// absolute or relative to Workdir.
	OutputFilePath string

	// Workdir is the directory commands run in. Empty means the current
	// directory.
	Workdir string
}

// LogValue implements slog.LogValuer without the API key.
func (c Configuration) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("api_key_id", c.APIKeyID),
		slog.Any("commands", c.Commands),
		slog.String("output_file_path", c.OutputFilePath),
		slog.String("workdir", c.Workdir),
	)
}

// InputValidationError collects every input problem found by Parse.
type InputValidationError struct {
	Problems []error
}

func (err *InputValidationError) Error() string {
	messages := make([]string, len(err.Problems))
	for index, problem := range err.Problems {
		messages[index] = problem.Error()
	}
	return fmt.Sprintf("invalid action inputs: %s", strings.Join(messages, "; "))
}

// Unwrap exposes each problem to errors.Is and errors.As.
func (err *InputValidationError) Unwrap() []error {
	return err.Problems
}

// Parse reads and validates all inputs. On failure it returns a zero
// Configuration and an *InputValidationError naming every missing input.
func Parse(inputs actions.Inputs) (Configuration, error) {
	var problems []error
	required := func(name string) string {
		value, err := actions.RequiredInput(inputs, name)
		if err != nil {
			problems = append(problems, err)
		}
		return value
	}

	configuration := Configuration{
		APIKey:         required(InputAPIKey),
		APIKeyID:       required(InputAPIKeyID),
		OutputFilePath: required(InputOutputFilePath),
	}

	commands, err := actions.RequiredMultilineInput(inputs, InputCommands)
	if err != nil {
		problems = append(problems, err)
	}
	configuration.Commands = commands
	configuration.Workdir, _ = actions.OptionalInput(inputs, InputWorkdir)

	if len(problems) > 0 {
		return Configuration{}, &InputValidationError{Problems: problems}
	}
	return configuration, nil
}

// MissingInputs returns the names of the missing inputs in err, in the
// order Parse checked them.
func MissingInputs(err error) []string {
	var validation *InputValidationError
	if !errors.As(err, &validation) {
		return nil
	}
	var names []string
	for _, problem := range validation.Problems {
		var missing *actions.MissingInputError
		if errors.As(problem, &missing) {
			names = append(names, missing.Name)
		}
	}
	return names
}
