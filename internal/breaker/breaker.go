// Package breaker guards downstream service calls with per-service circuit
// breakers. All callers share one Manager so failure accounting is
// consistent no matter which request path hit the service.
package breaker

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
)

// ErrCircuitOpen is returned when a call is rejected without reaching the
// downstream service. Rejections are not new failures: they do not feed
// back into the breaker's counters.
var ErrCircuitOpen = errors.New("circuit breaker open")

// State mirrors the breaker's mode for callers and for responses.
type State string

const (
	StateClosed   State = "CLOSED"
	StateOpen     State = "OPEN"
	StateHalfOpen State = "HALF_OPEN"
	StateUnknown  State = "UNKNOWN"
)

// Counts is a snapshot of a breaker's failure accounting.
type Counts struct {
	Requests             uint32
	TotalSuccesses       uint32
	TotalFailures        uint32
	ConsecutiveSuccesses uint32
	ConsecutiveFailures  uint32
}

// Manager holds one circuit breaker per downstream service name.
type Manager struct {
	mu       sync.RWMutex
	breakers map[string]*gobreaker.CircuitBreaker
}

func NewManager() *Manager {
	return &Manager{breakers: make(map[string]*gobreaker.CircuitBreaker)}
}

// Register creates the breaker for a service. Registering the same name
// twice keeps the existing breaker and its counters.
func (m *Manager) Register(service string, cfg Config) {
	cfg = cfg.withDefaults()

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.breakers[service]; ok {
		return
	}

	settings := gobreaker.Settings{
		Name:        service,
		MaxRequests: cfg.HalfOpenSuccesses,
		Timeout:     cfg.RecoveryTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().
				Str("service", name).
				Str("from", string(convertState(from))).
				Str("to", string(convertState(to))).
				Msg("circuit breaker state change")
		},
	}

	m.breakers[service] = gobreaker.NewCircuitBreaker(settings)
	log.Info().Str("service", service).Msg("circuit breaker registered")
}

// Execute runs fn through the breaker registered for service. Any error
// from fn counts as a failure; a rejection while open or while half-open
// trials are saturated is reported as ErrCircuitOpen instead.
func (m *Manager) Execute(service string, fn func() (any, error)) (any, error) {
	m.mu.RLock()
	cb, ok := m.breakers[service]
	m.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("no circuit breaker registered for service %q", service)
	}

	result, err := cb.Execute(fn)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("service %s unavailable: %w", service, ErrCircuitOpen)
	}

	return result, err
}

// Do is a typed wrapper around Execute.
func Do[T any](m *Manager, service string, fn func() (T, error)) (T, error) {
	var zero T

	v, err := m.Execute(service, func() (any, error) {
		return fn()
	})
	if err != nil {
		return zero, err
	}

	typed, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("service %s returned unexpected type %T", service, v)
	}

	return typed, nil
}

// State returns the current mode of a service's breaker.
func (m *Manager) State(service string) State {
	m.mu.RLock()
	cb, ok := m.breakers[service]
	m.mu.RUnlock()

	if !ok {
		return StateUnknown
	}

	return convertState(cb.State())
}

// CountsFor returns a snapshot of a service's breaker counters.
func (m *Manager) CountsFor(service string) Counts {
	m.mu.RLock()
	cb, ok := m.breakers[service]
	m.mu.RUnlock()

	if !ok {
		return Counts{}
	}

	c := cb.Counts()

	return Counts{
		Requests:             c.Requests,
		TotalSuccesses:       c.TotalSuccesses,
		TotalFailures:        c.TotalFailures,
		ConsecutiveSuccesses: c.ConsecutiveSuccesses,
		ConsecutiveFailures:  c.ConsecutiveFailures,
	}
}

// Healthy reports whether calls to the service currently pass through.
func (m *Manager) Healthy(service string) bool {
	return m.State(service) == StateClosed
}

func convertState(s gobreaker.State) State {
	switch s {
	case gobreaker.StateClosed:
		return StateClosed
	case gobreaker.StateOpen:
		return StateOpen
	case gobreaker.StateHalfOpen:
		return StateHalfOpen
	default:
		return StateUnknown
	}
}
