// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package pipeline runs the action end to end:
//
//  1. run the configured commands in the working directory;
//  2. if the last one exited zero, record the computation time;
//  3. read and validate the results file;
//  4. check the results service is up;
//  5. assemble the payload with its provenance;
//  6. upload it.
//
// The first failing stage ends the run and its error is returned. Only
// the two network stages retry, inside the [Uploader].
package pipeline
