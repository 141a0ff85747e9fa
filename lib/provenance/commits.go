// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package provenance

import (
	"fmt"

	"github.com/zeklin-io/zeklin-action/lib/actions"
)

// CommitRange identifies the commits a run measures. It is implemented
// by ExplicitRange and PullRequestOpened only.
type CommitRange interface {
	isCommitRange()
}

// ExplicitRange comes from events that state both endpoints, such as
// push (before and after).
type ExplicitRange struct {
	Before string
	After  string
}

// PullRequestOpened is a newly opened pull request, measured from its
// base commit to its head commit.
type PullRequestOpened struct {
	BaseSHA string
	HeadSHA string
}

func (ExplicitRange) isCommitRange()     {}
func (PullRequestOpened) isCommitRange() {}

// UnhandledEventShapeError reports an event from which no commit range
// can be derived.
type UnhandledEventShapeError struct {
	EventName string
	Action    string
}

func (err *UnhandledEventShapeError) Error() string {
	if err.Action == "" {
		return fmt.Sprintf("cannot determine the commit range of a %q event: payload has no before/after commits", err.EventName)
	}
	return fmt.Sprintf("cannot determine the commit range of a %q event with action %q", err.EventName, err.Action)
}

// ClassifyCommits derives the commit range from the event payload.
// An explicit before/after pair takes precedence; otherwise an opened
// pull request is measured base to head.
func ClassifyCommits(event actions.Event) (CommitRange, error) {
	payload := event.Payload
	if payload.Before != "" && payload.After != "" {
		return ExplicitRange{Before: payload.Before, After: payload.After}, nil
	}
	if payload.PullRequest != nil && payload.Action == "opened" {
		return PullRequestOpened{
			BaseSHA: payload.PullRequest.Base.SHA,
			HeadSHA: payload.PullRequest.Head.SHA,
		}, nil
	}
	return nil, &UnhandledEventShapeError{EventName: event.Name, Action: payload.Action}
}

// Endpoints returns the previous and current commit of a range.
func Endpoints(commits CommitRange) (previous, current string) {
	switch commits := commits.(type) {
	case ExplicitRange:
		return commits.Before, commits.After
	case PullRequestOpened:
		return commits.BaseSHA, commits.HeadSHA
	default:
		panic(fmt.Sprintf("provenance: unknown CommitRange %T", commits))
	}
}
