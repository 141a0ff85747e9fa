// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package environment

import "fmt"

// MissingVariableError reports a required variable that is unset or
// blank after trimming.
type MissingVariableError struct {
	Name string
}

func (err *MissingVariableError) Error() string {
	return fmt.Sprintf("environment variable %s is not set", err.Name)
}

// InvalidFormatError reports a variable whose value could not be
// coerced to its declared type.
type InvalidFormatError struct {
	Name   string
	Value  string
	Reason string
}

func (err *InvalidFormatError) Error() string {
	return fmt.Sprintf("environment variable %s has invalid value %q: %s", err.Name, err.Value, err.Reason)
}
