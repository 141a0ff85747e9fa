// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package environment

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// DefaultZeklinServerURL is used when ZEKLIN_SERVER_URL is unset.
const DefaultZeklinServerURL = "https://api.zeklin.io"

// Snapshot is the typed CI environment of one run.
type Snapshot struct {
	// ZeklinServerURL is the results service base URL, without a
	// trailing slash.
	ZeklinServerURL string

	RunID      int64 // GITHUB_RUN_ID
	RunNumber  int64 // GITHUB_RUN_NUMBER
	RunAttempt int64 // GITHUB_RUN_ATTEMPT

	RunnerName        string     // RUNNER_NAME
	RunnerEnvironment string     // RUNNER_ENVIRONMENT, e.g. "github-hosted"
	RunnerOS          RunnerOS   // RUNNER_OS
	RunnerArch        RunnerArch // RUNNER_ARCH

	Repository        string // GITHUB_REPOSITORY, "owner/name"
	RepositoryID      int64  // GITHUB_REPOSITORY_ID
	RepositoryOwnerID int64  // GITHUB_REPOSITORY_OWNER_ID

	SHA string // GITHUB_SHA
	Ref Ref    // GITHUB_REF_TYPE + GITHUB_REF_NAME

	APIURL     string // GITHUB_API_URL
	ServerURL  string // GITHUB_SERVER_URL
	GraphQLURL string // GITHUB_GRAPHQL_URL, defaulting to APIURL + "/graphql"

	Actor   string // GITHUB_ACTOR
	ActorID int64  // GITHUB_ACTOR_ID
}

// WorkflowURL is the web URL of the workflow run.
func (snapshot Snapshot) WorkflowURL() string {
	return fmt.Sprintf("%s/%s/actions/runs/%d", snapshot.ServerURL, snapshot.Repository, snapshot.RunID)
}

// LogValue renders every variable for the startup debug dump.
func (snapshot Snapshot) LogValue() slog.Value {
	var ref slog.Attr
	if snapshot.Ref != nil {
		ref = slog.String("REF", RefKind(snapshot.Ref)+":"+RefName(snapshot.Ref))
	}
	return slog.GroupValue(
		slog.String("ZEKLIN_SERVER_URL", snapshot.ZeklinServerURL),
		slog.Int64("GITHUB_RUN_ID", snapshot.RunID),
		slog.Int64("GITHUB_RUN_NUMBER", snapshot.RunNumber),
		slog.Int64("GITHUB_RUN_ATTEMPT", snapshot.RunAttempt),
		slog.String("RUNNER_NAME", snapshot.RunnerName),
		slog.String("RUNNER_ENVIRONMENT", snapshot.RunnerEnvironment),
		slog.String("RUNNER_OS", string(snapshot.RunnerOS)),
		slog.String("RUNNER_ARCH", string(snapshot.RunnerArch)),
		slog.String("GITHUB_REPOSITORY", snapshot.Repository),
		slog.Int64("GITHUB_REPOSITORY_ID", snapshot.RepositoryID),
		slog.Int64("GITHUB_REPOSITORY_OWNER_ID", snapshot.RepositoryOwnerID),
		slog.String("GITHUB_SHA", snapshot.SHA),
		ref,
		slog.String("GITHUB_API_URL", snapshot.APIURL),
		slog.String("GITHUB_SERVER_URL", snapshot.ServerURL),
		slog.String("GITHUB_GRAPHQL_URL", snapshot.GraphQLURL),
		slog.String("GITHUB_ACTOR", snapshot.Actor),
		slog.Int64("GITHUB_ACTOR_ID", snapshot.ActorID),
		slog.String("WORKFLOW_URL", snapshot.WorkflowURL()),
	)
}

// Load reads the snapshot through getenv (os.Getenv in production).
// On any problem it returns the zero Snapshot and every problem joined.
func Load(getenv func(string) string) (Snapshot, error) {
	reader := &variableReader{getenv: getenv}

	snapshot := Snapshot{
		ZeklinServerURL: strings.TrimRight(reader.optional("ZEKLIN_SERVER_URL", DefaultZeklinServerURL), "/"),

		RunID:      reader.integer("GITHUB_RUN_ID"),
		RunNumber:  reader.integer("GITHUB_RUN_NUMBER"),
		RunAttempt: reader.integer("GITHUB_RUN_ATTEMPT"),

		RunnerName:        reader.required("RUNNER_NAME"),
		RunnerEnvironment: reader.required("RUNNER_ENVIRONMENT"),

		Repository:        reader.required("GITHUB_REPOSITORY"),
		RepositoryID:      reader.integer("GITHUB_REPOSITORY_ID"),
		RepositoryOwnerID: reader.integer("GITHUB_REPOSITORY_OWNER_ID"),

		SHA: reader.required("GITHUB_SHA"),

		APIURL:    reader.httpsURL("GITHUB_API_URL"),
		ServerURL: reader.httpsURL("GITHUB_SERVER_URL"),

		Actor:   reader.required("GITHUB_ACTOR"),
		ActorID: reader.integer("GITHUB_ACTOR_ID"),
	}

	snapshot.GraphQLURL = strings.TrimRight(reader.optional("GITHUB_GRAPHQL_URL", ""), "/")
	if snapshot.GraphQLURL == "" && snapshot.APIURL != "" {
		snapshot.GraphQLURL = snapshot.APIURL + "/graphql"
	} else if snapshot.GraphQLURL != "" && !strings.HasPrefix(snapshot.GraphQLURL, "https://") {
		reader.check("GITHUB_GRAPHQL_URL", snapshot.GraphQLURL, fmt.Errorf("must start with https://"))
	}

	if value := reader.required("RUNNER_OS"); value != "" {
		runnerOS, err := ParseRunnerOS(value)
		reader.check("RUNNER_OS", value, err)
		snapshot.RunnerOS = runnerOS
	}
	if value := reader.required("RUNNER_ARCH"); value != "" {
		runnerArch, err := ParseRunnerArch(value)
		reader.check("RUNNER_ARCH", value, err)
		snapshot.RunnerArch = runnerArch
	}

	refType := reader.required("GITHUB_REF_TYPE")
	refName := reader.required("GITHUB_REF_NAME")
	if refType != "" && refName != "" {
		ref, err := ParseRef(refType, refName)
		reader.check("GITHUB_REF_TYPE", refType, err)
		snapshot.Ref = ref
	}

	if len(reader.problems) > 0 {
		return Snapshot{}, errors.Join(reader.problems...)
	}
	return snapshot, nil
}

// variableReader accumulates coercion problems so Load can report all
// of them.
type variableReader struct {
	getenv   func(string) string
	problems []error
}

func (reader *variableReader) optional(name, fallback string) string {
	if value := strings.TrimSpace(reader.getenv(name)); value != "" {
		return value
	}
	return fallback
}

func (reader *variableReader) required(name string) string {
	value := strings.TrimSpace(reader.getenv(name))
	if value == "" {
		reader.problems = append(reader.problems, &MissingVariableError{Name: name})
	}
	return value
}

func (reader *variableReader) integer(name string) int64 {
	value := reader.required(name)
	if value == "" {
		return 0
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		reader.check(name, value, fmt.Errorf("not an integer"))
		return 0
	}
	return parsed
}

func (reader *variableReader) httpsURL(name string) string {
	value := reader.required(name)
	if value != "" && !strings.HasPrefix(value, "https://") {
		reader.check(name, value, fmt.Errorf("must start with https://"))
	}
	return strings.TrimRight(value, "/")
}

func (reader *variableReader) check(name, value string, err error) {
	if err != nil {
		reader.problems = append(reader.problems, &InvalidFormatError{Name: name, Value: value, Reason: err.Error()})
	}
}
