package service

import (
	"errors"
)

// Sentinel errors shared by all services. Handlers map them to HTTP status
// codes via errors.Is; services wrap them with context using fmt.Errorf("%w: …").
var (
	// ErrInvalidArgument: a required identifier or amount is missing or null.
	ErrInvalidArgument = errors.New("argumento invalido")
	// ErrNotFound: a referenced caja/arqueo/cliente/transaccion/cash flow does not exist.
	ErrNotFound = errors.New("no encontrado")
	// ErrProyeccion: an arqueo mutation failed after the primary record was
	// already persisted; the caller performs its compensating rollback and
	// re-raises this error.
	ErrProyeccion = errors.New("fallo la proyeccion en el arqueo")
	// ErrTransactionAbort: the store transaction could not commit. Nothing
	// partial persisted, so the whole operation may be retried safely.
	ErrTransactionAbort = errors.New("la transaccion no pudo confirmarse")
)

// esErrorDeDominio distinguishes domain failures raised inside a store
// transaction from commit/IO failures, which get wrapped as ErrTransactionAbort.
func esErrorDeDominio(err error) bool {
	return errors.Is(err, ErrInvalidArgument) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrProyeccion)
}
