package health

import (
	"context"
	"sync"
	"time"
)

// Connection states reported per dependency.
const (
	StateConnected    = "connected"
	StateDisconnected = "disconnected"
	StateDisabled     = "disabled"

	StatusHealthy  = "healthy"
	StatusDegraded = "degraded"
)

const defaultProbeTimeout = 5 * time.Second

// Probe reports nil when a dependency is reachable.
type Probe func(ctx context.Context) error

// Services is the per-dependency state map of a Report.
type Services struct {
	Ollama   string `json:"ollama"`
	Database string `json:"database"`
	Cache    string `json:"cache"`
}

// Report is the payload of GET /health.
type Report struct {
	Status      string   `json:"status"`
	Uptime      float64  `json:"uptime"`
	Timestamp   string   `json:"timestamp"`
	Version     string   `json:"version"`
	Environment string   `json:"environment"`
	Services    Services `json:"services"`
}

// Service aggregates dependency checks. Nil probes are reported as disabled.
type Service struct {
	Version     string
	Environment string
	Started     time.Time
	Timeout     time.Duration

	Ollama   func(ctx context.Context) bool
	Database Probe
	Cache    Probe

	Now func() time.Time
}

// NewService constructs a Service started now.
func NewService(version, environment string) *Service {
	return &Service{Version: version, Environment: environment, Started: time.Now()}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Check probes every dependency concurrently and never fails.
func (s *Service) Check(ctx context.Context) Report {
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = defaultProbeTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var (
		wg       sync.WaitGroup
		services Services
	)
	wg.Add(3)
	go func() {
		defer wg.Done()
		services.Ollama = StateDisconnected
		if s.Ollama != nil && s.Ollama(ctx) {
			services.Ollama = StateConnected
		}
	}()
	go func() {
		defer wg.Done()
		services.Database = probeState(ctx, s.Database)
	}()
	go func() {
		defer wg.Done()
		services.Cache = probeState(ctx, s.Cache)
	}()
	wg.Wait()

	status := StatusHealthy
	if services.Ollama != StateConnected || services.Database == StateDisconnected || services.Cache == StateDisconnected {
		status = StatusDegraded
	}

	now := s.now()
	return Report{
		Status:      status,
		Uptime:      now.Sub(s.Started).Seconds(),
		Timestamp:   now.UTC().Format(time.RFC3339Nano),
		Version:     s.Version,
		Environment: s.Environment,
		Services:    services,
	}
}

func probeState(ctx context.Context, p Probe) string {
	if p == nil {
		return StateDisabled
	}
	if err := p(ctx); err != nil {
		return StateDisconnected
	}
	return StateConnected
}
