// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/dustin/go-humanize"

	"github.com/zeklin-io/zeklin-action/lib/actions"
	"github.com/zeklin-io/zeklin-action/lib/clock"
	"github.com/zeklin-io/zeklin-action/lib/command"
	"github.com/zeklin-io/zeklin-action/lib/config"
	"github.com/zeklin-io/zeklin-action/lib/environment"
	"github.com/zeklin-io/zeklin-action/lib/provenance"
	"github.com/zeklin-io/zeklin-action/lib/results"
)

// Uploader is the results service as the pipeline uses it.
// *zeklin.Client implements it.
type Uploader interface {
	Ping(ctx context.Context) error
	UploadJMHRun(ctx context.Context, payload any) error
}

// CommandFailedError reports that the benchmark commands did not
// succeed: either the last command exited non-zero, or a command could
// not be run at all (Err set, ExitCode -1).
type CommandFailedError struct {
	ExitCode int
	Err      error
}

func (err *CommandFailedError) Error() string {
	if err.Err != nil {
		return fmt.Sprintf("benchmark commands could not be run: %v", err.Err)
	}
	return fmt.Sprintf("benchmark commands exited with non-zero status %d", err.ExitCode)
}

func (err *CommandFailedError) Unwrap() error { return err.Err }

// Config holds everything one run needs.
type Config struct {
	Configuration config.Configuration
	Environment   environment.Snapshot
	Event         actions.Event
	Uploader      Uploader

	// Stdout and Stderr receive the commands' output. Default to
	// os.Stdout and os.Stderr.
	Stdout io.Writer
	Stderr io.Writer

	// Shell overrides command.DefaultShell.
	Shell string

	// Groups, when set, receives ::group:: markers that fold the
	// command output in the job log.
	Groups io.Writer

	// Clock stamps the computation time. Defaults to clock.Real().
	Clock clock.Clock

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Result describes a successful upload.
type Result struct {
	Payload provenance.Payload

	// Digest fingerprints the uploaded results for log correlation.
	Digest string
}

// Run executes the stages in order and stops at the first failure.
func Run(ctx context.Context, cfg Config) (Result, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	clk := cfg.Clock
	if clk == nil {
		clk = clock.Real()
	}
	configuration := cfg.Configuration

	exitCode, err := runCommands(ctx, cfg, logger)
	if err != nil {
		return Result{}, &CommandFailedError{ExitCode: exitCode, Err: err}
	}
	if exitCode != 0 {
		return Result{}, &CommandFailedError{ExitCode: exitCode}
	}
	computedAt := clk.Now()
	logger.Info("benchmark commands succeeded", "count", len(configuration.Commands))

	resultsPath := results.Resolve(configuration.OutputFilePath, configuration.Workdir)
	logger.Debug("reading results", "path", resultsPath)
	data, err := results.Find(configuration.OutputFilePath, configuration.Workdir)
	if err != nil {
		return Result{}, err
	}
	digest := results.Digest(data)
	logger.Info("results found", "path", resultsPath, "size", humanize.Bytes(uint64(len(data))), "digest", digest)

	if err := cfg.Uploader.Ping(ctx); err != nil {
		return Result{}, err
	}

	payload, err := provenance.Assemble(cfg.Environment, cfg.Event, computedAt, data)
	if err != nil {
		return Result{}, err
	}
	logger.Debug("payload assembled",
		"branch", payload.BranchName,
		"commit", payload.CommitHash,
		"previous_commit", payload.PreviousCommitHash,
		"computed_at", payload.ComputedAt,
	)

	if err := cfg.Uploader.UploadJMHRun(ctx, payload); err != nil {
		return Result{}, err
	}
	return Result{Payload: payload, Digest: digest}, nil
}

func runCommands(ctx context.Context, cfg Config, logger *slog.Logger) (int, error) {
	runner := &command.Runner{
		Dir:    cfg.Configuration.Workdir,
		Shell:  cfg.Shell,
		Stdout: cfg.Stdout,
		Stderr: cfg.Stderr,
		Logger: logger,
	}

	if cfg.Groups != nil {
		actions.Group(cfg.Groups, "Run benchmark commands")
		defer actions.EndGroup(cfg.Groups)
	}
	return runner.Run(ctx, cfg.Configuration.Commands)
}
