package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"syscall"

	"resume-maker/internal/llm"
)

const (
	generatePath = "/api/generate"
	tagsPath     = "/api/tags"

	maxErrorBody = 512
)

// Client implements llm.Backend against an Ollama-compatible HTTP API.
// Deadlines come from the caller's context; the client never retries.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient constructs a Client. A nil httpClient uses a default one without a global timeout.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: httpClient,
	}
}

type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options"`
}

type generateOptions struct {
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`
	MaxTokens   int     `json:"max_tokens"`
}

type generateResponse struct {
	Model         string  `json:"model"`
	CreatedAt     string  `json:"created_at"`
	Response      *string `json:"response"`
	Done          bool    `json:"done"`
	TotalDuration int64   `json:"total_duration,omitempty"`
	EvalCount     int     `json:"eval_count,omitempty"`
}

// Generate posts a non-streaming generate request and returns the response text.
func (c *Client) Generate(ctx context.Context, in llm.GenerateRequest) (string, error) {
	payload, err := json.Marshal(generateRequest{
		Model:  in.Model,
		Prompt: in.Prompt,
		Stream: false,
		Options: generateOptions{
			Temperature: in.Options.Temperature,
			TopP:        in.Options.TopP,
			MaxTokens:   in.Options.MaxTokens,
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal generate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+generatePath, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", classifyTransportError(ctx, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", classifyTransportError(ctx, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &llm.StatusError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       truncate(strings.TrimSpace(string(body)), maxErrorBody),
		}
	}

	var parsed generateResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("%w: %v", llm.ErrMalformedResponse, err)
	}
	if parsed.Response == nil {
		return "", fmt.Errorf("%w: missing response field", llm.ErrMalformedResponse)
	}
	return *parsed.Response, nil
}

// ListModels issues GET /api/tags and succeeds on any 2xx reply.
func (c *Client) ListModels(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+tagsPath, nil)
	if err != nil {
		return fmt.Errorf("create tags request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return classifyTransportError(ctx, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &llm.StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
	}
	return nil
}

func classifyTransportError(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", llm.ErrTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", llm.ErrTimeout, err)
	}
	if errors.Is(err, syscall.ECONNREFUSED) {
		return fmt.Errorf("%w: is the generation service running? %v", llm.ErrUnavailable, err)
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return fmt.Errorf("%w: %v", llm.ErrUnavailable, err)
	}
	return fmt.Errorf("network error calling generation service: %w", err)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

var _ llm.Backend = (*Client)(nil)
