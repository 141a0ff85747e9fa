// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package actions

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/tidwall/jsonc"
)

// Event describes the workflow event that triggered the run.
type Event struct {
	Name      string
	Ref       string
	SHA       string
	Workflow  string
	Job       string
	Action    string
	RunID     int64
	RunNumber int64
	Payload   EventPayload
}

// EventPayload holds the fields of the webhook payload the action reads.
// Raw keeps the whole payload so it can be forwarded unchanged.
type EventPayload struct {
	Action      string            `json:"action,omitempty"`
	Before      string            `json:"before,omitempty"`
	After       string            `json:"after,omitempty"`
	HeadCommit  *HeadCommit       `json:"head_commit,omitempty"`
	PullRequest *EventPullRequest `json:"pull_request,omitempty"`

	Raw json.RawMessage `json:"-"`
}

// HeadCommit is the head_commit object of a push payload.
type HeadCommit struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// EventPullRequest is the pull_request object of a pull_request payload.
type EventPullRequest struct {
	ID     int64          `json:"id"`
	Number int            `json:"number"`
	Title  string         `json:"title"`
	User   EventUser      `json:"user"`
	Base   EventBranchRef `json:"base"`
	Head   EventBranchRef `json:"head"`
}

// EventUser identifies a GitHub account.
type EventUser struct {
	Login string `json:"login"`
	ID    int64  `json:"id"`
}

// EventBranchRef is one side (base or head) of a pull request.
type EventBranchRef struct {
	Label string `json:"label"`
	Ref   string `json:"ref"`
	SHA   string `json:"sha"`
}

// LoadEvent reads the event context from the GITHUB_* variables and the
// payload file named by GITHUB_EVENT_PATH.
//
// An unset GITHUB_EVENT_PATH, or one naming a file that does not exist,
// gives an empty payload, matching how the runner toolkit behaves for
// local invocations. A file that exists but cannot be read or parsed is
// an error. The file may contain // and /* */ comments.
func LoadEvent(getenv func(string) string) (Event, error) {
	event := Event{
		Name:     getenv("GITHUB_EVENT_NAME"),
		Ref:      getenv("GITHUB_REF"),
		SHA:      getenv("GITHUB_SHA"),
		Workflow: getenv("GITHUB_WORKFLOW"),
		Job:      getenv("GITHUB_JOB"),
		Action:   getenv("GITHUB_ACTION"),
	}
	// Validated by environment.Load; zero here when unset.
	event.RunID, _ = strconv.ParseInt(strings.TrimSpace(getenv("GITHUB_RUN_ID")), 10, 64)
	event.RunNumber, _ = strconv.ParseInt(strings.TrimSpace(getenv("GITHUB_RUN_NUMBER")), 10, 64)

	path := strings.TrimSpace(getenv("GITHUB_EVENT_PATH"))
	if path == "" {
		return event, nil
	}

	payload, err := ReadEventPayload(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return event, nil
		}
		return Event{}, err
	}
	event.Payload = payload
	return event, nil
}

// ReadEventPayload decodes an event payload file.
func ReadEventPayload(path string) (EventPayload, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return EventPayload{}, fmt.Errorf("reading event payload: %w", err)
	}
	return ParseEventPayload(content)
}

// ParseEventPayload decodes an event payload, tolerating JSONC comments
// and trailing commas.
func ParseEventPayload(content []byte) (EventPayload, error) {
	stripped := jsonc.ToJSON(content)
	if len(strings.TrimSpace(string(stripped))) == 0 {
		return EventPayload{}, nil
	}

	var payload EventPayload
	if err := json.Unmarshal(stripped, &payload); err != nil {
		return EventPayload{}, fmt.Errorf("parsing event payload: %w", err)
	}
	payload.Raw = json.RawMessage(stripped)
	return payload, nil
}
