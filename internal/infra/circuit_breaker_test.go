package infra

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errPushCaido = errors.New("push service caido")

func TestCircuitBreakerAbreTrasFallosConsecutivos(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 3, OpenTimeout: time.Minute})

	for i := 0; i < 3; i++ {
		require.ErrorIs(t, cb.Execute(func() error { return errPushCaido }), errPushCaido)
	}
	assert.Equal(t, CBOpen, cb.State())

	err := cb.Execute(func() error {
		t.Fatal("no debe ejecutarse con el circuito abierto")
		return nil
	})
	require.ErrorIs(t, err, ErrCircuitOpen)
}

func TestCircuitBreakerExitoReiniciaElConteo(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 2, OpenTimeout: time.Minute})

	require.Error(t, cb.Execute(func() error { return errPushCaido }))
	require.NoError(t, cb.Execute(func() error { return nil }))
	require.Error(t, cb.Execute(func() error { return errPushCaido }))

	assert.Equal(t, CBClosed, cb.State(), "fallos no consecutivos no abren el circuito")
}

func TestCircuitBreakerPruebaYRecupera(t *testing.T) {
	reloj := time.Now()
	cb := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 1, SuccessThreshold: 2, OpenTimeout: 30 * time.Second})
	cb.ahora = func() time.Time { return reloj }

	require.Error(t, cb.Execute(func() error { return errPushCaido }))
	assert.Equal(t, CBOpen, cb.State())

	// Cumplido el enfriamiento deja pasar pruebas; cierra tras dos exitos.
	reloj = reloj.Add(31 * time.Second)
	assert.Equal(t, CBHalfOpen, cb.State())

	require.NoError(t, cb.Execute(func() error { return nil }))
	assert.Equal(t, CBHalfOpen, cb.State())
	require.NoError(t, cb.Execute(func() error { return nil }))
	assert.Equal(t, CBClosed, cb.State())
}

func TestCircuitBreakerPruebaFallidaReabre(t *testing.T) {
	reloj := time.Now()
	cb := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 1, OpenTimeout: 10 * time.Second})
	cb.ahora = func() time.Time { return reloj }

	require.Error(t, cb.Execute(func() error { return errPushCaido }))
	reloj = reloj.Add(11 * time.Second)
	require.Error(t, cb.Execute(func() error { return errPushCaido }))

	assert.Equal(t, CBOpen, cb.State())
}
