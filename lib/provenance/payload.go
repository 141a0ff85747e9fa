// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package provenance

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/zeklin-io/zeklin-action/lib/actions"
	"github.com/zeklin-io/zeklin-action/lib/environment"
)

// TimestampFormat is how computedAt is rendered: UTC with milliseconds.
const TimestampFormat = "2006-01-02T15:04:05.000Z"

// Payload is the body of a JMH results upload. Field names and order are
// fixed by the server.
type Payload struct {
	WorkflowRunID      int64                  `json:"workflowRunId"`
	WorkflowRunNumber  int64                  `json:"workflowRunNumber"`
	WorkflowRunnerName string                 `json:"workflowRunnerName"`
	WorkflowRunAttempt int64                  `json:"workflowRunAttempt"`
	RunnerEnvironment  string                 `json:"runnerEnvironment"`
	RunnerOS           environment.RunnerOS   `json:"runnerOs"`
	RunnerArch         environment.RunnerArch `json:"runnerArch"`
	OrgID              int64                  `json:"orgId"`
	ProjectID          int64                  `json:"projectId"`
	BranchName         string                 `json:"branchName"`
	CommitMessage      string                 `json:"commitMessage"`
	CommitHash         string                 `json:"commitHash"`
	PreviousCommitHash string                 `json:"previousCommitHash"`
	Actor              string                 `json:"actor"`
	ActorID            int64                  `json:"actorId"`
	PullRequest        *PullRequest           `json:"pr,omitempty"`
	Data               json.RawMessage        `json:"data"`
	ComputedAt         string                 `json:"computedAt"`
	Context            Context                `json:"context"`
}

// PullRequest describes the pull request a run was triggered by.
type PullRequest struct {
	ID        int64  `json:"prId"`
	Number    int    `json:"prNumber"`
	Title     string `json:"prTitle"`
	BaseLabel string `json:"baseLabel"`
	BaseRef   string `json:"baseRef"`
	BaseSHA   string `json:"baseSha"`
	HeadLabel string `json:"headLabel"`
	HeadRef   string `json:"headRef"`
	HeadSHA   string `json:"headSha"`
	UserID    int64  `json:"userId"`
}

// Context is the triggering event as the runner reported it. Payload is
// the raw webhook body.
type Context struct {
	EventName  string          `json:"eventName"`
	Ref        string          `json:"ref"`
	SHA        string          `json:"sha"`
	Workflow   string          `json:"workflow"`
	Job        string          `json:"job"`
	Action     string          `json:"action"`
	RunID      int64           `json:"runId"`
	RunNumber  int64           `json:"runNumber"`
	Actor      string          `json:"actor"`
	APIURL     string          `json:"apiUrl"`
	ServerURL  string          `json:"serverUrl"`
	GraphQLURL string          `json:"graphqlUrl"`
	Payload    json.RawMessage `json:"payload,omitempty"`
}

// Assemble builds the upload payload. It fails only when the event does
// not identify a commit range.
func Assemble(env environment.Snapshot, event actions.Event, computedAt time.Time, results json.RawMessage) (Payload, error) {
	commits, err := ClassifyCommits(event)
	if err != nil {
		return Payload{}, err
	}
	previous, current := Endpoints(commits)

	var commitMessage string
	if event.Payload.HeadCommit != nil {
		commitMessage = event.Payload.HeadCommit.Message
	}

	return Payload{
		WorkflowRunID:      env.RunID,
		WorkflowRunNumber:  env.RunNumber,
		WorkflowRunnerName: env.RunnerName,
		WorkflowRunAttempt: env.RunAttempt,
		RunnerEnvironment:  env.RunnerEnvironment,
		RunnerOS:           env.RunnerOS,
		RunnerArch:         env.RunnerArch,
		OrgID:              env.RepositoryOwnerID,
		ProjectID:          env.RepositoryID,
		BranchName:         BranchName(env, event),
		CommitMessage:      commitMessage,
		CommitHash:         current,
		PreviousCommitHash: previous,
		Actor:              env.Actor,
		ActorID:            env.ActorID,
		PullRequest:        pullRequestOf(event),
		Data:               results,
		ComputedAt:         computedAt.UTC().Format(TimestampFormat),
		Context: Context{
			EventName:  event.Name,
			Ref:        event.Ref,
			SHA:        event.SHA,
			Workflow:   event.Workflow,
			Job:        event.Job,
			Action:     event.Action,
			RunID:      event.RunID,
			RunNumber:  event.RunNumber,
			Actor:      env.Actor,
			APIURL:     env.APIURL,
			ServerURL:  env.ServerURL,
			GraphQLURL: env.GraphQLURL,
			Payload:    event.Payload.Raw,
		},
	}, nil
}

// BranchName is the pull request's head branch for pull request events
// and the pushed ref otherwise. When the event carries no ref, the
// runner's GITHUB_REF_NAME is used.
func BranchName(env environment.Snapshot, event actions.Event) string {
	if pullRequest := event.Payload.PullRequest; pullRequest != nil && pullRequest.Head.Ref != "" {
		return pullRequest.Head.Ref
	}
	if event.Ref != "" {
		return strings.TrimPrefix(event.Ref, "refs/heads/")
	}
	if env.Ref != nil {
		return environment.RefName(env.Ref)
	}
	return ""
}

func pullRequestOf(event actions.Event) *PullRequest {
	source := event.Payload.PullRequest
	if source == nil {
		return nil
	}
	return &PullRequest{
		ID:        source.ID,
		Number:    source.Number,
		Title:     source.Title,
		BaseLabel: source.Base.Label,
		BaseRef:   source.Base.Ref,
		BaseSHA:   source.Base.SHA,
		HeadLabel: source.Head.Label,
		HeadRef:   source.Head.Ref,
		HeadSHA:   source.Head.SHA,
		UserID:    source.User.ID,
	}
}
