// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// zeklin-action runs a JMH benchmark in a GitHub Actions job and uploads
// its results, with the run's provenance, to the Zeklin results service.
//
// Inside a workflow it is configured through the action inputs declared
// in action.yml (delivered as INPUT_* variables). For local runs, an
// input file can supply the same inputs:
//
//	zeklin-action --config inputs.yaml
//
// The GITHUB_* and RUNNER_* variables the runner provides are still
// required; ZEKLIN_SERVER_URL points the action at another server.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/zeklin-io/zeklin-action/lib/actions"
	"github.com/zeklin-io/zeklin-action/lib/config"
	"github.com/zeklin-io/zeklin-action/lib/environment"
	"github.com/zeklin-io/zeklin-action/lib/pipeline"
	"github.com/zeklin-io/zeklin-action/lib/version"
	"github.com/zeklin-io/zeklin-action/lib/zeklin"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Getenv, os.Stdout, os.Stderr)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// run executes the action and reports any failure itself: as an
// ::error:: command inside Actions, as a log line otherwise. The
// returned error only decides the exit status.
func run(ctx context.Context, args []string, getenv func(string) string, stdout, stderr io.Writer) error {
	var (
		inputFile   string
		debug       bool
		showVersion bool
	)
	flagSet := pflag.NewFlagSet("zeklin-action", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.StringVar(&inputFile, "config", "", "read action inputs from a YAML or JSON file (INPUT_* variables take precedence)")
	flagSet.BoolVar(&debug, "debug", false, "enable debug logging (also enabled by RUNNER_DEBUG=1)")
	flagSet.BoolVar(&showVersion, "version", false, "print version information and exit")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if showVersion {
		fmt.Fprintln(stdout, version.Info())
		return nil
	}
	if extra := flagSet.Args(); len(extra) > 0 {
		err := fmt.Errorf("unexpected argument: %s", extra[0])
		fmt.Fprintf(stderr, "error: %v\n", err)
		return err
	}

	inActions := getenv("GITHUB_ACTIONS") == "true"
	if getenv("RUNNER_DEBUG") == "1" {
		debug = true
	}
	logger := newLogger(inActions, debug, stdout, stderr)

	err := execute(ctx, inputFile, getenv, stdout, stderr, inActions, logger)
	if err != nil {
		reportFailure(err, inActions, stdout, logger)
	}
	return err
}

func execute(ctx context.Context, inputFile string, getenv func(string) string, stdout, stderr io.Writer, inActions bool, logger *slog.Logger) error {
	// Nothing else starts without a complete runner environment. Load
	// prints nothing, so the key mask below still comes first.
	snapshot, err := environment.Load(getenv)
	if err != nil {
		return fmt.Errorf("reading runner environment: %w", err)
	}

	var inputs actions.Inputs = actions.EnvInputs(getenv)
	if inputFile != "" {
		fileInputs, err := config.LoadInputFile(inputFile, getenv)
		if err != nil {
			return err
		}
		inputs = actions.Layered{inputs, fileInputs}
	}

	configuration, err := config.Parse(inputs)
	if err != nil {
		return err
	}
	if inActions {
		// Before anything else is printed.
		if err := actions.AddMask(stdout, configuration.APIKey); err != nil {
			return fmt.Errorf("masking API key: %w", err)
		}
	}
	logger.Debug("inputs", "config", configuration)
	logger.Debug("environment", "env", snapshot)

	event, err := actions.LoadEvent(getenv)
	if err != nil {
		return fmt.Errorf("reading workflow event: %w", err)
	}
	logger.Debug("event", "name", event.Name, "ref", event.Ref, "action", event.Payload.Action)

	client, err := zeklin.NewClient(zeklin.Config{
		BaseURL:  snapshot.ZeklinServerURL,
		APIKeyID: configuration.APIKeyID,
		APIKey:   configuration.APIKey,
		Logger:   logger,
	})
	if err != nil {
		return err
	}
	defer client.Close()

	pipelineConfig := pipeline.Config{
		Configuration: configuration,
		Environment:   snapshot,
		Event:         event,
		Uploader:      client,
		Stdout:        stdout,
		Stderr:        stderr,
		Logger:        logger,
	}
	if inActions {
		pipelineConfig.Groups = stdout
	}

	result, err := pipeline.Run(ctx, pipelineConfig)
	if err != nil {
		return err
	}

	logger.Info("benchmark results uploaded",
		"commit", result.Payload.CommitHash,
		"branch", result.Payload.BranchName,
		"digest", result.Digest,
		"workflow_url", snapshot.WorkflowURL(),
	)
	return nil
}

// reportFailure shows the operator one message and keeps the full cause
// chain for debug logs.
func reportFailure(err error, inActions bool, stdout io.Writer, logger *slog.Logger) {
	for depth, cause := range causeChain(err) {
		logger.Debug("failure cause", "depth", depth, "type", fmt.Sprintf("%T", cause), "error", cause)
	}
	if zeklin.IsUnauthorized(err) {
		logger.Warn("the results service rejected the credentials; check the api-key and api-key-id inputs")
	}
	if inActions {
		actions.SetFailed(stdout, err.Error())
		return
	}
	logger.Error("zeklin-action failed", "error", err)
}

// causeChain flattens err and everything it wraps, depth first.
func causeChain(err error) []error {
	var chain []error
	var walk func(error)
	walk = func(err error) {
		if err == nil {
			return
		}
		chain = append(chain, err)
		switch wrapped := err.(type) {
		case interface{ Unwrap() []error }:
			for _, inner := range wrapped.Unwrap() {
				walk(inner)
			}
		case interface{ Unwrap() error }:
			walk(wrapped.Unwrap())
		}
	}
	walk(err)
	return chain
}
