// Package judge0 talks to a Judge0 compatible remote code execution API
package judge0

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"gitlab.com/codepad.net/internal/config"
	"gitlab.com/codepad.net/internal/core/ports/primary"
	"gitlab.com/codepad.net/internal/core/ports/secondary"
	"gitlab.com/codepad.net/internal/domain"
)

var _ secondary.CodeExecutor = (*Client)(nil)

const (
	submissionsPath = "/submissions?base64_encoded=false&wait=true"
	maxBodyBytes    = 4 << 20
)

type submissionRequest struct {
	SourceCode string `json:"source_code"`
	LanguageID int    `json:"language_id"`
	Stdin      string `json:"stdin"`
}

type submissionResponse struct {
	Stdout        string `json:"stdout"`
	Stderr        string `json:"stderr"`
	CompileOutput string `json:"compile_output"`
	Status        *struct {
		ID          int    `json:"id"`
		Description string `json:"description"`
	} `json:"status"`
}

// Client performs synchronous-wait submissions. It holds no per-call state.
type Client struct {
	baseURL      string
	rapidAPIKey  string
	rapidAPIHost string
	authToken    string
	httpClient   *http.Client
	logger       primary.Logger
}

// Option customizes a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient creates a new executor client
func NewClient(cfg *config.ExecutorConfig, logger primary.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:      cfg.Url,
		rapidAPIKey:  cfg.RapidAPIKey,
		rapidAPIHost: cfg.RapidAPIHost,
		authToken:    cfg.AuthToken,
		httpClient:   &http.Client{Timeout: cfg.Timeout},
		logger:       logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Execute submits the program and blocks until the remote run completes
func (c *Client) Execute(ctx context.Context, submission domain.Submission) domain.ExecutionResult {
	started := time.Now()

	payload, err := json.Marshal(submissionRequest{
		SourceCode: submission.SourceCode,
		LanguageID: submission.LanguageID,
		Stdin:      submission.Stdin,
	})
	if err != nil {
		return c.fail("failed to marshal submission", err, submission)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+submissionsPath, bytes.NewReader(payload))
	if err != nil {
		return c.fail("failed to build request", err, submission)
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.fail("request failed", err, submission)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return c.fail("failed to read response", err, submission)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.fail("unexpected status", fmt.Errorf("%s", resp.Status), submission)
	}

	var parsed submissionResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return c.fail("failed to parse response", err, submission)
	}

	c.logger.Debug("Submission executed",
		"languageId", submission.LanguageID,
		"statusCode", resp.StatusCode,
		"duration", time.Since(started))

	return parsed.normalize()
}

// normalize applies the output precedence: stderr, stdout, compile output, status
func (r submissionResponse) normalize() domain.ExecutionResult {
	switch {
	case r.Stderr != "":
		return domain.NewStderr(r.Stderr)
	case r.Stdout != "":
		return domain.NewStdout(r.Stdout)
	case r.CompileOutput != "":
		return domain.NewCompileError(r.CompileOutput)
	case r.Status != nil && r.Status.Description != "":
		return domain.NewStatusMessage(r.Status.Description)
	default:
		return domain.NewStatusMessage(domain.NoOutputMessage)
	}
}

func (c *Client) authorize(req *http.Request) {
	if c.rapidAPIKey != "" {
		req.Header.Set("X-RapidAPI-Key", c.rapidAPIKey)
		if c.rapidAPIHost != "" {
			req.Header.Set("X-RapidAPI-Host", c.rapidAPIHost)
		}
		return
	}
	if c.authToken != "" {
		req.Header.Set("X-Auth-Token", c.authToken)
	}
}

func (c *Client) fail(msg string, err error, submission domain.Submission) domain.ExecutionResult {
	c.logger.Warn("Submission transport failure",
		"languageId", submission.LanguageID,
		"reason", msg,
		"error", err)
	return domain.NewTransportFailure(fmt.Sprintf("%s: %v", msg, err))
}
