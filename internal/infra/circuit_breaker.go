package infra

import (
	"errors"
	"sync"
	"time"
)

// Circuit breaker guarding the Web Push endpoint. Push providers throttle
// hard when hammered: once sends fail in a row the breaker opens and the
// notification workers fail fast instead of stacking slow HTTP calls.

// CBState is the breaker state (closed → open → half-open).
type CBState int

const (
	CBClosed CBState = iota
	CBOpen
	CBHalfOpen
)

// String returns the state name for the health endpoint and logs.
func (s CBState) String() string {
	switch s {
	case CBClosed:
		return "closed"
	case CBOpen:
		return "open"
	case CBHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// ErrCircuitOpen is returned by Execute while the breaker is open.
var ErrCircuitOpen = errors.New("circuit breaker abierto")

type CircuitBreakerConfig struct {
	FailureThreshold int           // consecutive failures before opening
	SuccessThreshold int           // consecutive half-open successes before closing
	OpenTimeout      time.Duration // cool-down before letting a probe through
}

// DefaultCBConfig is tuned for the push endpoint: providers recover fast, so
// the cool-down is short.
func DefaultCBConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		FailureThreshold: 5,
		SuccessThreshold: 2,
		OpenTimeout:      30 * time.Second,
	}
}

type CircuitBreaker struct {
	mu        sync.Mutex
	cfg       CircuitBreakerConfig
	state     CBState
	fallos    int
	aciertos  int
	abiertoEn time.Time
	ahora     func() time.Time // injectable clock for tests
}

func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	def := DefaultCBConfig()
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = def.FailureThreshold
	}
	if cfg.SuccessThreshold <= 0 {
		cfg.SuccessThreshold = def.SuccessThreshold
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = def.OpenTimeout
	}
	return &CircuitBreaker{cfg: cfg, state: CBClosed, ahora: time.Now}
}

// State reports the current state, promoting open to half-open once the
// cool-down elapsed.
func (cb *CircuitBreaker) State() CBState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.estado()
}

func (cb *CircuitBreaker) estado() CBState {
	if cb.state == CBOpen && cb.ahora().Sub(cb.abiertoEn) >= cb.cfg.OpenTimeout {
		cb.state = CBHalfOpen
		cb.aciertos = 0
	}
	return cb.state
}

// Execute runs fn unless the breaker is open.
func (cb *CircuitBreaker) Execute(fn func() error) error {
	cb.mu.Lock()
	if cb.estado() == CBOpen {
		cb.mu.Unlock()
		return ErrCircuitOpen
	}
	cb.mu.Unlock()

	err := fn()

	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.registrar(err)
	return err
}

// registrar updates counters and state after a call (must hold mu).
func (cb *CircuitBreaker) registrar(err error) {
	if err != nil {
		cb.fallos++
		switch cb.state {
		case CBClosed:
			if cb.fallos >= cb.cfg.FailureThreshold {
				cb.abrir()
			}
		case CBHalfOpen:
			// Probe failed, back to open for another cool-down.
			cb.abrir()
		}
		return
	}

	switch cb.state {
	case CBClosed:
		cb.fallos = 0
	case CBHalfOpen:
		cb.aciertos++
		if cb.aciertos >= cb.cfg.SuccessThreshold {
			cb.state = CBClosed
			cb.fallos = 0
			cb.aciertos = 0
		}
	}
}

func (cb *CircuitBreaker) abrir() {
	cb.state = CBOpen
	cb.abiertoEn = cb.ahora()
	cb.fallos = 0
}
