package generation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"resume-maker/internal/llm"
	"resume-maker/internal/shared/metrics"
	"resume-maker/internal/shared/telemetry"
)

const (
	defaultTimeout       = 60 * time.Second
	defaultMaxRetries    = 3
	defaultBaseDelay     = time.Second
	defaultHealthTimeout = 5 * time.Second
	maxBackoffDelay      = 60 * time.Second

	samplingTemperature = 0.7
	samplingTopP        = 0.9
	samplingMaxTokens   = 2000
)

// Config is the immutable configuration of a Client.
type Config struct {
	BaseURL       string
	Model         string
	Timeout       time.Duration
	MaxRetries    int
	BaseDelay     time.Duration
	HealthTimeout time.Duration
	MockMode      bool
}

func (c Config) withDefaults() Config {
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = defaultMaxRetries
	}
	if c.BaseDelay <= 0 {
		c.BaseDelay = defaultBaseDelay
	}
	if c.HealthTimeout <= 0 {
		c.HealthTimeout = defaultHealthTimeout
	}
	return c
}

// Client orchestrates backend calls with retry, parsing and fallback.
// It holds no mutable state and is safe for concurrent use.
type Client struct {
	cfg     Config
	backend llm.Backend
	sleep   func(ctx context.Context, d time.Duration) error
}

// NewClient constructs a Client. backend may be nil only in mock mode.
func NewClient(cfg Config, backend llm.Backend) *Client {
	return &Client{
		cfg:     cfg.withDefaults(),
		backend: backend,
		sleep:   sleepContext,
	}
}

// Config returns the client's configuration.
func (c *Client) Config() Config {
	return c.cfg
}

// MockMode reports whether the network path is disabled.
func (c *Client) MockMode() bool {
	return c.cfg.MockMode
}

// GenerateResume returns sections for req. It never fails: any generation
// problem yields SynthesizeFallback(req).
func (c *Client) GenerateResume(ctx context.Context, req Request) GeneratedSections {
	return c.Generate(ctx, req).Sections
}

// Generate is GenerateResume with diagnostics about the path taken.
func (c *Client) Generate(ctx context.Context, req Request) (out Outcome) {
	start := time.Now()
	defer func() {
		if rec := recover(); rec != nil {
			out = c.fallback(req, out.Attempts, fmt.Errorf("generation panic: %v", rec))
		}
		metrics.IncGenerationOutcome(string(out.Source))
		metrics.ObserveGenerationDuration(time.Since(start))
	}()

	if c.cfg.MockMode {
		return Outcome{Sections: SynthesizeFallback(req), Source: SourceMock}
	}
	if c.backend == nil {
		return c.fallback(req, 0, errors.New("generation backend not configured"))
	}

	prompt := BuildPrompt(req)
	text, attempts, err := c.callWithRetry(ctx, prompt)
	if err != nil {
		return c.fallback(req, attempts, err)
	}

	sections, err := ParseSections(text)
	if err != nil {
		metrics.IncGenerationParseFailure()
		return c.fallback(req, attempts, fmt.Errorf("parse response: %w", err))
	}
	return Outcome{Sections: sections, Source: SourceModel, Attempts: attempts}
}

func (c *Client) fallback(req Request, attempts int, err error) Outcome {
	telemetry.L().Error("generation failed, using fallback",
		zap.String("model", c.cfg.Model),
		zap.String("template_type", string(req.TemplateType)),
		zap.Int("attempts", attempts),
		zap.Error(err),
	)
	return Outcome{
		Sections: SynthesizeFallback(req),
		Source:   SourceFallback,
		Attempts: attempts,
		Err:      err,
	}
}

// retryState is the per-call bookkeeping of the retry loop.
type retryState struct {
	attempt int
	lastErr error
}

func (c *Client) callWithRetry(ctx context.Context, prompt string) (string, int, error) {
	var state retryState
	for state.attempt = 1; ; state.attempt++ {
		text, err := c.callOnce(ctx, prompt)
		if err == nil {
			metrics.IncGenerationAttempt(true)
			return text, state.attempt, nil
		}
		metrics.IncGenerationAttempt(false)
		state.lastErr = err

		// A 2xx reply with an unreadable envelope is final, like a parse failure.
		if errors.Is(err, llm.ErrMalformedResponse) {
			return "", state.attempt, err
		}
		if state.attempt >= c.cfg.MaxRetries {
			break
		}
		if ctx.Err() != nil {
			state.lastErr = ctx.Err()
			break
		}

		delay := backoffDelay(c.cfg.BaseDelay, state.attempt)
		telemetry.L().Warn("generation attempt failed, retrying",
			zap.Int("attempt", state.attempt),
			zap.Duration("delay", delay),
			zap.Error(err),
		)
		if err := c.sleep(ctx, delay); err != nil {
			state.lastErr = err
			break
		}
	}
	return "", state.attempt, fmt.Errorf("generation failed after %d attempt(s): %w", state.attempt, state.lastErr)
}

func (c *Client) callOnce(ctx context.Context, prompt string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()
	return c.backend.Generate(callCtx, llm.GenerateRequest{
		Model:  c.cfg.Model,
		Prompt: prompt,
		Options: llm.Options{
			Temperature: samplingTemperature,
			TopP:        samplingTopP,
			MaxTokens:   samplingMaxTokens,
		},
	})
}

// CheckHealth probes the backend once with a short deadline. Mock mode is always healthy.
func (c *Client) CheckHealth(ctx context.Context) bool {
	if c.cfg.MockMode {
		return true
	}
	if c.backend == nil {
		return false
	}
	probeCtx, cancel := context.WithTimeout(ctx, c.cfg.HealthTimeout)
	defer cancel()
	return c.backend.ListModels(probeCtx) == nil
}

// backoffDelay is base × 2^(attempt-1), capped at maxBackoffDelay.
func backoffDelay(base time.Duration, attempt int) time.Duration {
	if base <= 0 {
		return 0
	}
	if base >= maxBackoffDelay {
		return maxBackoffDelay
	}
	if attempt < 1 {
		attempt = 1
	}
	delay := base
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= maxBackoffDelay {
			return maxBackoffDelay
		}
	}
	return delay
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
