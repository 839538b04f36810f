package assemblyai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is the EU API endpoint.
	DefaultBaseURL = "https://api.eu.assemblyai.com"

	defaultRequestTimeout = 30 * time.Second
	defaultUploadTimeout  = 15 * time.Minute
)

// Client provides access to the AssemblyAI transcription API.
type Client struct {
	apiKey       string
	baseURL      string
	httpClient   *http.Client
	uploadClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client (used for tests).
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
			c.uploadClient = client
		}
	}
}

// New creates an AssemblyAI API client.
func New(apiKey, baseURL string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("assemblyai api key required")
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	client := &Client{
		apiKey:       apiKey,
		baseURL:      strings.TrimRight(baseURL, "/"),
		httpClient:   &http.Client{Timeout: defaultRequestTimeout},
		uploadClient: &http.Client{Timeout: defaultUploadTimeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// APIError is a non-2xx response from the service, carrying any diagnostic
// the service supplied.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("assemblyai returned %d", e.StatusCode)
	}
	return fmt.Sprintf("assemblyai returned %d: %s", e.StatusCode, e.Message)
}

// Upload sends a local media file to the service and returns the URL the
// transcription job should reference.
func (c *Client) Upload(ctx context.Context, path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open media file: %w", err)
	}
	defer file.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v2/upload", file)
	if err != nil {
		return "", fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := c.uploadClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload media: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("upload media: %w", apiErrorFrom(resp))
	}

	var payload struct {
		UploadURL string `json:"upload_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode upload response: %w", err)
	}
	if payload.UploadURL == "" {
		return "", errors.New("upload response missing upload_url")
	}
	return payload.UploadURL, nil
}

// Submit creates a transcription job for an already-reachable audio URL and
// returns the job identifier.
func (c *Client) Submit(ctx context.Context, params TranscriptParams) (string, error) {
	encoded, err := json.Marshal(params)
	if err != nil {
		return "", fmt.Errorf("encode transcript request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v2/transcript", bytes.NewReader(encoded))
	if err != nil {
		return "", fmt.Errorf("build transcript request: %w", err)
	}
	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("create transcription job: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("create transcription job: %w", apiErrorFrom(resp))
	}

	var payload transcriptPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode transcript response: %w", err)
	}
	if payload.ID == "" {
		return "", errors.New("transcript response missing id")
	}
	return payload.ID, nil
}

// GetTranscript fetches the current state of a job. For a completed job the
// response carries the full transcript as well, so no separate fetch call
// exists.
func (c *Client) GetTranscript(ctx context.Context, id string) (*TranscriptResult, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errors.New("transcript id required")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v2/transcript/"+id, nil)
	if err != nil {
		return nil, fmt.Errorf("build status request: %w", err)
	}
	req.Header.Set("Authorization", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch transcript %s: %w", id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch transcript %s: %w", id, apiErrorFrom(resp))
	}

	var payload transcriptPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode transcript %s: %w", id, err)
	}
	return payload.toResult(), nil
}

func apiErrorFrom(resp *http.Response) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return apiErr
	}
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		apiErr.Message = payload.Error
	}
	return apiErr
}
