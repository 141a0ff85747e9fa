// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package environment

import (
	"fmt"
	"strings"
)

// RunnerOS is the operating system of the runner executing the job.
type RunnerOS string

const (
	Linux   RunnerOS = "linux"
	Windows RunnerOS = "windows"
	MacOS   RunnerOS = "macos"
)

// ParseRunnerOS accepts the RUNNER_OS spellings (Linux, Windows, macOS)
// case-insensitively.
func ParseRunnerOS(value string) (RunnerOS, error) {
	switch RunnerOS(strings.ToLower(value)) {
	case Linux:
		return Linux, nil
	case Windows:
		return Windows, nil
	case MacOS:
		return MacOS, nil
	default:
		return "", fmt.Errorf("unknown runner OS (want Linux, Windows or macOS)")
	}
}

// RunnerArch is the architecture of the runner executing the job.
type RunnerArch string

const (
	X86   RunnerArch = "x86"
	X64   RunnerArch = "x64"
	ARM   RunnerArch = "arm"
	ARM64 RunnerArch = "arm64"
)

// ParseRunnerArch accepts the RUNNER_ARCH spellings (X86, X64, ARM,
// ARM64) case-insensitively.
func ParseRunnerArch(value string) (RunnerArch, error) {
	switch RunnerArch(strings.ToLower(value)) {
	case X86:
		return X86, nil
	case X64:
		return X64, nil
	case ARM:
		return ARM, nil
	case ARM64:
		return ARM64, nil
	default:
		return "", fmt.Errorf("unknown runner architecture (want X86, X64, ARM or ARM64)")
	}
}

// Ref is the branch or tag that triggered the workflow run. The only
// implementations are [Branch] and [Tag].
type Ref interface {
	isRef()
}

// Branch is a branch ref.
type Branch struct {
	Name string
}

// Tag is a tag ref.
type Tag struct {
	Name string
}

func (Branch) isRef() {}
func (Tag) isRef()    {}

// ParseRef builds a Ref from GITHUB_REF_TYPE and GITHUB_REF_NAME. The
// type is matched case-insensitively; the name must be non-empty.
func ParseRef(refType, name string) (Ref, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("ref name is empty")
	}
	switch strings.ToLower(strings.TrimSpace(refType)) {
	case "branch":
		return Branch{Name: name}, nil
	case "tag":
		return Tag{Name: name}, nil
	default:
		return nil, fmt.Errorf("unknown ref type %q (want branch or tag)", refType)
	}
}

// RefName returns the short name of ref.
func RefName(ref Ref) string {
	switch ref := ref.(type) {
	case Branch:
		return ref.Name
	case Tag:
		return ref.Name
	default:
		panic(fmt.Sprintf("environment: unhandled ref type %T", ref))
	}
}

// RefKind returns "branch" or "tag".
func RefKind(ref Ref) string {
	switch ref.(type) {
	case Branch:
		return "branch"
	case Tag:
		return "tag"
	default:
		panic(fmt.Sprintf("environment: unhandled ref type %T", ref))
	}
}
