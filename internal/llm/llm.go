package llm

import (
	"context"
	"errors"
)

// Backend abstracts the text-generation service used to draft resume sections.
type Backend interface {
	// Generate sends a single prompt and returns the model's raw text output.
	Generate(ctx context.Context, req GenerateRequest) (string, error)
	// ListModels is a lightweight reachability probe against the backend.
	ListModels(ctx context.Context) error
}

// GenerateRequest is a single non-streaming completion request.
type GenerateRequest struct {
	Model   string
	Prompt  string
	Options Options
}

// Options carries the sampling parameters forwarded to the backend.
type Options struct {
	Temperature float64
	TopP        float64
	MaxTokens   int
}

var (
	// ErrUnavailable indicates the backend could not be reached.
	ErrUnavailable = errors.New("llm backend unavailable")
	// ErrTimeout indicates the call exceeded its deadline.
	ErrTimeout = errors.New("llm request timed out")
	// ErrMalformedResponse indicates a 2xx reply whose envelope could not be decoded.
	ErrMalformedResponse = errors.New("llm response malformed")
)

// StatusError is returned for non-2xx backend replies.
type StatusError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return "llm api error: " + e.Status
	}
	return "llm api error: " + e.Status + " - " + e.Body
}
