// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/zeklin-io/zeklin-action/lib/actions"
	"github.com/zeklin-io/zeklin-action/lib/clock"
	"github.com/zeklin-io/zeklin-action/lib/config"
	"github.com/zeklin-io/zeklin-action/lib/environment"
	"github.com/zeklin-io/zeklin-action/lib/provenance"
	"github.com/zeklin-io/zeklin-action/lib/results"
	"github.com/zeklin-io/zeklin-action/lib/zeklin"
)

var epoch = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// recordingUploader implements Uploader in memory.
type recordingUploader struct {
	mu        sync.Mutex
	pings     int
	uploads   []any
	pingError error
}

func (u *recordingUploader) Ping(context.Context) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.pings++
	return u.pingError
}

func (u *recordingUploader) UploadJMHRun(_ context.Context, payload any) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.uploads = append(u.uploads, payload)
	return nil
}

func (u *recordingUploader) networkCalls() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.pings + len(u.uploads)
}

func testEnvironment() environment.Snapshot {
	return environment.Snapshot{
		ZeklinServerURL:   environment.DefaultZeklinServerURL,
		RunID:             1,
		RunNumber:         1,
		RunAttempt:        1,
		RunnerName:        "runner",
		RunnerEnvironment: "github-hosted",
		RunnerOS:          environment.Linux,
		RunnerArch:        environment.X64,
		Repository:        "zeklin-io/demo",
		RepositoryID:      2,
		RepositoryOwnerID: 3,
		SHA:               "after",
		Ref:               environment.Branch{Name: "main"},
		APIURL:            "https://api.github.com",
		ServerURL:         "https://github.com",
		Actor:             "octocat",
		ActorID:           4,
	}
}

func testEvent() actions.Event {
	return actions.Event{
		Name: "push",
		Ref:  "refs/heads/main",
		Payload: actions.EventPayload{
			Before: "before",
			After:  "after",
		},
	}
}

func testConfig(t *testing.T, workdir string, commands []string, uploader Uploader) Config {
	t.Helper()
	return Config{
		Configuration: config.Configuration{
			APIKey:         "key",
			APIKeyID:       "id",
			Commands:       commands,
			OutputFilePath: "out.json",
			Workdir:        workdir,
		},
		Environment: testEnvironment(),
		Event:       testEvent(),
		Uploader:    uploader,
		Stdout:      io.Discard,
		Stderr:      io.Discard,
		Clock:       clock.Fake(epoch),
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestRunUploadsResults(t *testing.T) {
	uploader := &recordingUploader{}
	workdir := t.TempDir()
	cfg := testConfig(t, workdir, []string{"echo hi", `echo '{"score": 42}' > out.json`}, uploader)

	result, err := Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if uploader.pings != 1 || len(uploader.uploads) != 1 {
		t.Fatalf("pings, uploads = %d, %d, want 1, 1", uploader.pings, len(uploader.uploads))
	}
	payload, ok := uploader.uploads[0].(provenance.Payload)
	if !ok {
		t.Fatalf("uploaded %T, want provenance.Payload", uploader.uploads[0])
	}

	var data any
	if err := json.Unmarshal(payload.Data, &data); err != nil {
		t.Fatalf("uploaded data is not JSON: %v", err)
	}
	if !reflect.DeepEqual(data, map[string]any{"score": float64(42)}) {
		t.Errorf("data = %v, want {score: 42}", data)
	}
	if payload.ComputedAt != "2026-03-01T12:00:00.000Z" {
		t.Errorf("ComputedAt = %q, want the injected clock time", payload.ComputedAt)
	}
	if result.Digest != results.Digest(payload.Data) {
		t.Errorf("Digest = %q, want digest of the uploaded data", result.Digest)
	}
}

func TestRunUploadsValidUTF8(t *testing.T) {
	uploader := &recordingUploader{}
	workdir := t.TempDir()
	if err := os.WriteFile(filepath.Join(workdir, "out.json"), []byte("{\"name\": \"bench\xff\"}"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Run(context.Background(), testConfig(t, workdir, []string{"true"}, uploader)); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(uploader.uploads) != 1 {
		t.Fatalf("uploads = %d, want 1", len(uploader.uploads))
	}
	body, err := json.Marshal(uploader.uploads[0])
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !utf8.Valid(body) {
		t.Errorf("uploaded body is not valid UTF-8: %q", body)
	}
}

func TestRunMissingResultsFile(t *testing.T) {
	uploader := &recordingUploader{}
	cfg := testConfig(t, t.TempDir(), []string{"echo hi"}, uploader)

	_, err := Run(context.Background(), cfg)
	var notFound *results.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("error = %v, want *results.NotFoundError", err)
	}
	if uploader.networkCalls() != 0 {
		t.Errorf("made %d network calls after a missing results file", uploader.networkCalls())
	}
}

func TestRunCommandFailureStopsEarly(t *testing.T) {
	uploader := &recordingUploader{}
	workdir := t.TempDir()
	// A results file is present so a read would succeed if attempted.
	if err := os.WriteFile(filepath.Join(workdir, "out.json"), []byte(`{"score": 1}`), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := testConfig(t, workdir, []string{"exit 1"}, uploader)

	_, err := Run(context.Background(), cfg)
	var failed *CommandFailedError
	if !errors.As(err, &failed) {
		t.Fatalf("error = %v, want *CommandFailedError", err)
	}
	if failed.ExitCode != 1 || failed.Err != nil {
		t.Errorf("CommandFailedError = %+v, want exit code 1 and no cause", failed)
	}
	if uploader.networkCalls() != 0 {
		t.Errorf("made %d network calls after a failed command", uploader.networkCalls())
	}
}

func TestRunSpawnFailure(t *testing.T) {
	uploader := &recordingUploader{}
	cfg := testConfig(t, filepath.Join(t.TempDir(), "absent"), []string{"true"}, uploader)

	_, err := Run(context.Background(), cfg)
	var failed *CommandFailedError
	if !errors.As(err, &failed) {
		t.Fatalf("error = %v, want *CommandFailedError", err)
	}
	if failed.ExitCode != -1 || failed.Err == nil {
		t.Errorf("CommandFailedError = %+v, want exit code -1 with a cause", failed)
	}
}

func TestRunMalformedResults(t *testing.T) {
	uploader := &recordingUploader{}
	cfg := testConfig(t, t.TempDir(), []string{"echo hi > out.json"}, uploader)

	_, err := Run(context.Background(), cfg)
	var malformed *results.MalformedError
	if !errors.As(err, &malformed) {
		t.Fatalf("error = %v, want *results.MalformedError", err)
	}
	if uploader.networkCalls() != 0 {
		t.Errorf("made %d network calls with malformed results", uploader.networkCalls())
	}
}

func TestRunPingFailureSkipsUpload(t *testing.T) {
	unreachable := &zeklin.ServerUnreachableError{URL: "https://api.zeklin.io/ping", Attempts: 4, Err: errors.New("refused")}
	uploader := &recordingUploader{pingError: unreachable}
	cfg := testConfig(t, t.TempDir(), []string{`echo '[]' > out.json`}, uploader)

	_, err := Run(context.Background(), cfg)
	if !errors.Is(err, unreachable) {
		t.Fatalf("error = %v, want the ping failure", err)
	}
	if len(uploader.uploads) != 0 {
		t.Error("uploaded after the ping failed")
	}
}

func TestRunUnhandledEvent(t *testing.T) {
	uploader := &recordingUploader{}
	cfg := testConfig(t, t.TempDir(), []string{`echo '[]' > out.json`}, uploader)
	cfg.Event = actions.Event{Name: "workflow_dispatch"}

	_, err := Run(context.Background(), cfg)
	var unhandled *provenance.UnhandledEventShapeError
	if !errors.As(err, &unhandled) {
		t.Fatalf("error = %v, want *provenance.UnhandledEventShapeError", err)
	}
	if len(uploader.uploads) != 0 {
		t.Error("uploaded a payload without a commit range")
	}
}

func TestRunGroupsCommandOutput(t *testing.T) {
	var groups strings.Builder
	cfg := testConfig(t, t.TempDir(), []string{`echo '{}' > out.json`}, &recordingUploader{})
	cfg.Groups = &groups

	if _, err := Run(context.Background(), cfg); err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := "::group::Run benchmark commands\n::endgroup::\n"
	if groups.String() != want {
		t.Errorf("groups = %q, want %q", groups.String(), want)
	}
}

func TestRunAgainstResultsService(t *testing.T) {
	var (
		mu       sync.Mutex
		uploaded []byte
	)
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		switch request.URL.Path {
		case zeklin.PingPath:
			writer.WriteHeader(http.StatusOK)
		case zeklin.JMHRunsPath:
			body, _ := io.ReadAll(request.Body)
			mu.Lock()
			uploaded = body
			mu.Unlock()
			writer.WriteHeader(http.StatusCreated)
		default:
			http.NotFound(writer, request)
		}
	}))
	defer server.Close()

	client, err := zeklin.NewClient(zeklin.Config{
		BaseURL:  server.URL,
		APIKeyID: "id",
		APIKey:   "key",
		Clock:    clock.Fake(epoch),
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	defer client.Close()

	cfg := testConfig(t, t.TempDir(), []string{"echo hi", `echo '{"score": 42}' > out.json`}, client)
	if _, err := Run(context.Background(), cfg); err != nil {
		t.Fatalf("Run: %v", err)
	}

	var body struct {
		Data       any    `json:"data"`
		BranchName string `json:"branchName"`
		CommitHash string `json:"commitHash"`
	}
	mu.Lock()
	defer mu.Unlock()
	if err := json.Unmarshal(uploaded, &body); err != nil {
		t.Fatalf("uploaded body is not JSON: %v", err)
	}
	if !reflect.DeepEqual(body.Data, map[string]any{"score": float64(42)}) {
		t.Errorf("data = %v, want {score: 42}", body.Data)
	}
	if body.BranchName != "main" || body.CommitHash != "after" {
		t.Errorf("branchName, commitHash = %q, %q", body.BranchName, body.CommitHash)
	}
}
