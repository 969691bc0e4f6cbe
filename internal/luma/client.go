package luma

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// Static errors for Luma client operations.
var (
	// ErrAPIKeyNotSet is returned when no API key is provided and the
	// LUMA_API_KEY environment variable is not set.
	ErrAPIKeyNotSet = errors.New("luma: API key is required")
	// ErrGenerationIDRequired is returned when the generation ID is not provided.
	ErrGenerationIDRequired = errors.New("luma: generation ID is required")
	// ErrNoGenerationID is returned when the submit response contains no ID.
	ErrNoGenerationID = errors.New("luma: submit failed: no generation ID returned")
	// ErrSubmitFailed is returned when the submit operation fails.
	ErrSubmitFailed = errors.New("luma: submit failed")
	// ErrServerError is returned when the server returns a 5xx status code.
	ErrServerError = errors.New("luma: server error")
	// ErrRateLimited is returned when the server returns a 429 status code.
	ErrRateLimited = errors.New("luma: rate limited")
	// ErrRequestFailed is returned when the request fails with a non-2xx status code.
	ErrRequestFailed = errors.New("luma: request failed")
)

// Client defines the interface for interacting with the Luma API.
type Client interface {
	// Submit creates a generation and returns its ID.
	Submit(ctx context.Context, opts SubmitOptions) (generationID string, err error)

	// Generation checks the state of a generation and returns the result.
	Generation(ctx context.Context, generationID string) (Result, error)
}

// HTTPClient is the HTTP implementation of the Luma Client interface.
type HTTPClient struct {
	apiKey      string
	baseURL     string
	httpClient  *http.Client
	maxRetries  int
	baseBackoff time.Duration
}

// ClientOption is a function that configures an HTTPClient.
type ClientOption func(*HTTPClient)

// WithAPIKey sets the API key for authentication.
func WithAPIKey(key string) ClientOption {
	return func(hc *HTTPClient) {
		hc.apiKey = key
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(hc *HTTPClient) {
		hc.httpClient = c
	}
}

// WithBaseURL sets a custom base URL for the Luma API.
func WithBaseURL(url string) ClientOption {
	return func(hc *HTTPClient) {
		hc.baseURL = url
	}
}

// WithMaxRetries sets the maximum number of retries for transient failures.
func WithMaxRetries(n int) ClientOption {
	return func(hc *HTTPClient) {
		hc.maxRetries = n
	}
}

// WithBaseBackoff sets the initial backoff duration for retries.
func WithBaseBackoff(d time.Duration) ClientOption {
	return func(hc *HTTPClient) {
		hc.baseBackoff = d
	}
}

// NewClient creates a new Luma HTTP client.
// The API key can be set via the WithAPIKey option. If not provided,
// it is read from the environment variable LUMA_API_KEY.
func NewClient(opts ...ClientOption) (*HTTPClient, error) {
	c := &HTTPClient{
		baseURL:     "https://api.lumalabs.ai/v1",
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		maxRetries:  3,
		baseBackoff: 1 * time.Second,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.apiKey == "" {
		c.apiKey = os.Getenv("LUMA_API_KEY")
	}

	if c.apiKey == "" {
		return nil, ErrAPIKeyNotSet
	}

	return c, nil
}

// Submit creates a generation and returns its ID.
func (c *HTTPClient) Submit(ctx context.Context, opts SubmitOptions) (string, error) {
	reqBody := generationRequest{
		Prompt:       opts.Prompt,
		ContinueFrom: opts.ContinueFrom,
		AspectRatio:  opts.AspectRatio,
	}
	if opts.DurationSec > 0 {
		reqBody.Duration = fmt.Sprintf("%ds", opts.DurationSec)
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("luma: marshal request: %w", err)
	}

	var resp generationResponse
	if err := c.doRequestWithRetry(ctx, http.MethodPost, c.baseURL+"/dream", bodyBytes, &resp); err != nil {
		return "", err
	}

	if resp.ID == "" {
		if resp.FailureReason != "" {
			return "", fmt.Errorf("%w: %s", ErrSubmitFailed, resp.FailureReason)
		}
		return "", ErrNoGenerationID
	}

	return resp.ID, nil
}

// Generation checks the state of a generation and returns the result.
func (c *HTTPClient) Generation(ctx context.Context, generationID string) (Result, error) {
	if generationID == "" {
		return Result{}, ErrGenerationIDRequired
	}

	url := fmt.Sprintf("%s/dream/%s", c.baseURL, generationID)

	var resp generationResponse
	if err := c.doRequestWithRetry(ctx, http.MethodGet, url, nil, &resp); err != nil {
		return Result{}, err
	}

	result := Result{State: State(resp.State)}

	switch result.State {
	case StateCompleted:
		if resp.Video != nil {
			result.VideoURL = resp.Video.URL
		}
	case StateFailed:
		result.FailureReason = resp.FailureReason
	}

	return result, nil
}

// doRequestWithRetry performs an HTTP request with exponential backoff retry.
func (c *HTTPClient) doRequestWithRetry(ctx context.Context, method, url string, body []byte, result interface{}) error {
	var lastErr error
	backoff := c.baseBackoff

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return fmt.Errorf("luma: context cancelled: %w", ctx.Err())
			case <-time.After(backoff):
				backoff *= 2
			}
		}

		err := c.doRequest(ctx, method, url, body, result)
		if err == nil {
			return nil
		}

		if !isRetryable(err) {
			return err
		}

		lastErr = err
	}

	return fmt.Errorf("luma: max retries exceeded: %w", lastErr)
}

// doRequest performs a single HTTP request.
func (c *HTTPClient) doRequest(ctx context.Context, method, url string, body []byte, result interface{}) error {
	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("luma: create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &retryableError{err: fmt.Errorf("luma: request failed: %w", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &retryableError{err: fmt.Errorf("luma: read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if resp.StatusCode >= 500 {
			return &retryableError{err: fmt.Errorf("%w %d: %s", ErrServerError, resp.StatusCode, string(respBody))}
		}
		if resp.StatusCode == 429 {
			return &retryableError{err: fmt.Errorf("%w: %s", ErrRateLimited, string(respBody))}
		}
		return fmt.Errorf("%w with status %d: %s", ErrRequestFailed, resp.StatusCode, string(respBody))
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("luma: unmarshal response: %w", err)
		}
	}

	return nil
}

// retryableError wraps errors that should be retried.
type retryableError struct {
	err error
}

func (e *retryableError) Error() string {
	return e.err.Error()
}

func (e *retryableError) Unwrap() error {
	return e.err
}

// isRetryable returns true if the error should be retried.
func isRetryable(err error) bool {
	var re *retryableError
	return errors.As(err, &re)
}
