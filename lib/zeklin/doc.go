// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package zeklin is the client for the Zeklin results service.
//
// The service exposes two endpoints the action uses:
//
//   - GET /ping: liveness. Any 2xx response means the server is up.
//   - POST /api/runs/jmh: accepts one JMH run payload, authenticated
//     with HTTP Basic auth over the API key ID and key.
//
// Both calls retry transport errors and non-2xx responses under a
// [retry.Policy] (three retries one second apart by default) using the
// injected clock. A ping that never succeeds is a
// [ServerUnreachableError]; an upload that never succeeds is an
// [UploadFailedError]. The last attempt's cause is wrapped in both, and
// is an [*APIError] when the server answered.
//
// The Basic auth credential is held in a [secret.Buffer] for the
// client's lifetime; call [Client.Close] to release it. Neither the
// credential nor the uploaded payload is ever logged.
package zeklin
