// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package zeklin

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/zeklin-io/zeklin-action/lib/clock"
	"github.com/zeklin-io/zeklin-action/lib/netutil"
	"github.com/zeklin-io/zeklin-action/lib/retry"
	"github.com/zeklin-io/zeklin-action/lib/secret"
	"github.com/zeklin-io/zeklin-action/lib/version"
)

// Endpoint paths relative to the base URL.
const (
	PingPath    = "/ping"
	JMHRunsPath = "/api/runs/jmh"
)

// Config holds configuration for creating a results service Client.
type Config struct {
	// BaseURL is the service root, e.g. "https://api.zeklin.io".
	// Required. A trailing slash is ignored.
	BaseURL string

	// APIKeyID and APIKey are the upload credentials. At least one
	// must be set.
	APIKeyID string
	APIKey   string

	// HTTPClient is used for all HTTP requests. Defaults to
	// http.DefaultClient.
	HTTPClient *http.Client

	// Clock provides the waits between attempts. Defaults to
	// clock.Real(). Inject clock.Fake() in tests.
	Clock clock.Clock

	// Logger is used for structured logging. Defaults to slog.Default().
	Logger *slog.Logger

	// RetryPolicy overrides retry.DefaultPolicy when non-nil.
	RetryPolicy *retry.Policy

	// UserAgent defaults to version.UserAgent().
	UserAgent string
}

// Client talks to the results service.
type Client struct {
	baseURL       string
	httpClient    *http.Client
	clock         clock.Clock
	logger        *slog.Logger
	policy        retry.Policy
	userAgent     string
	authorization *secret.Buffer
}

// NewClient validates config and returns a Client. The caller must
// Close it.
func NewClient(config Config) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(config.BaseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("zeklin: BaseURL is required")
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("zeklin: parsing BaseURL: %w", err)
	}
	if (parsed.Scheme != "https" && parsed.Scheme != "http") || parsed.Host == "" {
		return nil, fmt.Errorf("zeklin: BaseURL must be an absolute http(s) URL (got %q)", baseURL)
	}

	authorization, err := secret.BasicAuth(config.APIKeyID, config.APIKey)
	if err != nil {
		return nil, fmt.Errorf("zeklin: credentials: %w", err)
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	clk := config.Clock
	if clk == nil {
		clk = clock.Real()
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	policy := retry.DefaultPolicy
	if config.RetryPolicy != nil {
		policy = *config.RetryPolicy
	}

	userAgent := config.UserAgent
	if userAgent == "" {
		userAgent = version.UserAgent()
	}

	return &Client{
		baseURL:       baseURL,
		httpClient:    httpClient,
		clock:         clk,
		logger:        logger,
		policy:        policy,
		userAgent:     userAgent,
		authorization: authorization,
	}, nil
}

// Close releases the credential buffer. The Client must not be used
// afterwards.
func (client *Client) Close() error {
	return client.authorization.Close()
}

// Ping checks that the service is up, retrying per the client's policy.
func (client *Client) Ping(ctx context.Context) error {
	pingURL := client.baseURL + PingPath
	logger := client.logger.With("url", pingURL)
	logger.Debug("pinging results service")

	err := retry.Do(ctx, client.clock, client.policy, logger, func(ctx context.Context, attempt int) error {
		request, err := http.NewRequestWithContext(ctx, http.MethodGet, pingURL, nil)
		if err != nil {
			return fmt.Errorf("creating request: %w", err)
		}
		request.Header.Set("User-Agent", client.userAgent)
		return client.send(request)
	})

	var exhausted *retry.ExhaustedError
	if errors.As(err, &exhausted) {
		return &ServerUnreachableError{URL: pingURL, Attempts: exhausted.Attempts, Err: exhausted.Err}
	}
	if err != nil {
		return fmt.Errorf("pinging %s: %w", pingURL, err)
	}

	logger.Debug("results service is up")
	return nil
}

// UploadJMHRun posts one run payload. The payload is marshalled once;
// every attempt sends the same bytes and the same X-Request-Id so the
// server can recognise a retried upload.
func (client *Client) UploadJMHRun(ctx context.Context, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding payload: %w", err)
	}

	uploadURL := client.baseURL + JMHRunsPath
	requestID := uuid.NewString()
	logger := client.logger.With("url", uploadURL, "request_id", requestID)
	logger.Debug("uploading results", "bytes", len(body))

	err = retry.Do(ctx, client.clock, client.policy, logger, func(ctx context.Context, attempt int) error {
		request, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadURL, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("creating request: %w", err)
		}
		request.Header.Set("Content-Type", "application/json")
		request.Header.Set("Authorization", client.authorization.String())
		request.Header.Set("User-Agent", client.userAgent)
		request.Header.Set("X-Request-Id", requestID)
		return client.send(request)
	})

	var exhausted *retry.ExhaustedError
	if errors.As(err, &exhausted) {
		return &UploadFailedError{RequestID: requestID, Attempts: exhausted.Attempts, Err: exhausted.Err}
	}
	if err != nil {
		return fmt.Errorf("uploading results: %w", err)
	}

	logger.Info("results uploaded", "size", humanize.Bytes(uint64(len(body))))
	return nil
}

// send performs one request. Any non-2xx response is an *APIError.
func (client *Client) send(request *http.Request) error {
	response, err := client.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("%s %s: %w", request.Method, request.URL.Redacted(), err)
	}
	defer netutil.DrainAndClose(response.Body)

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return &APIError{
			StatusCode: response.StatusCode,
			Status:     response.Status,
			Message:    netutil.ErrorBody(response.Body),
		}
	}
	return nil
}
