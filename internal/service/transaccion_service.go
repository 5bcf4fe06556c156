package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"restopos/internal/dto"
	"restopos/internal/model"
	"restopos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TransaccionService records client accounts-receivable payments. Unlike
// CashFlowService it does not compensate: the payment record, the arqueo entry
// and the client balance update commit atomically in one store transaction,
// so a failure anywhere leaves no partial state behind.
type TransaccionService interface {
	Guardar(ctx context.Context, req dto.GuardarTransaccionRequest) (*dto.TransaccionResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) (*dto.TransaccionResponse, error)
	GetAll(ctx context.Context) ([]dto.TransaccionResponse, error)
	GetPorID(ctx context.Context, id uuid.UUID) (*dto.TransaccionResponse, error)
	GetPorFecha(ctx context.Context, desde time.Time) ([]dto.TransaccionResponse, error)
	GetPrimeraPorCaja(ctx context.Context, cajaID uuid.UUID) (*dto.TransaccionResponse, error)
	// ClientesConTransacciones lists the distinct clients with at least one
	// non-deleted payment.
	ClientesConTransacciones(ctx context.Context) ([]model.Cliente, error)
}

type transaccionService struct {
	repo        repository.TransaccionRepository
	arqueoRepo  repository.ArqueoRepository
	clienteRepo repository.ClienteRepository
}

func NewTransaccionService(repo repository.TransaccionRepository, arqueoRepo repository.ArqueoRepository, clienteRepo repository.ClienteRepository) TransaccionService {
	return &transaccionService{repo: repo, arqueoRepo: arqueoRepo, clienteRepo: clienteRepo}
}

// runTx runs fn inside a store transaction. A nil db runs fn directly with a
// nil tx handle, which lets unit tests exercise the flow against in-memory
// repositories.
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ── Guardar ───────────────────────────────────────────────────────────────────

func (s *transaccionService) Guardar(ctx context.Context, req dto.GuardarTransaccionRequest) (*dto.TransaccionResponse, error) {
	cajaID, err := uuid.Parse(req.CajaRegistradoraID)
	if err != nil {
		return nil, fmt.Errorf("%w: caja_registradora_id invalido", ErrInvalidArgument)
	}
	clienteID, err := uuid.Parse(req.ClienteID)
	if err != nil {
		return nil, fmt.Errorf("%w: cliente_id invalido", ErrInvalidArgument)
	}
	metodoID, err := uuid.Parse(req.MetodoPagoID)
	if err != nil {
		return nil, fmt.Errorf("%w: metodo_pago_id invalido", ErrInvalidArgument)
	}

	t := &model.Transaccion{
		CajaRegistradoraID: cajaID,
		ClienteID:          clienteID,
		Fecha:              req.Fecha,
		Monto:              req.Monto,
		MetodoPagoID:       metodoID,
		Deleted:            false,
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		// Asiento en el arqueo abierto, si lo hay.
		arqueo, err := s.arqueoRepo.BuscarAbiertoPorCajaTx(tx, cajaID)
		if err != nil {
			return err
		}
		if arqueo != nil {
			if err := s.arqueoRepo.CrearMovimientoTx(tx, &model.MovimientoArqueo{
				ArqueoID:     arqueo.ID,
				Direccion:    model.DireccionIngreso,
				MetodoPagoID: metodoID,
				Concepto:     model.ConceptoCobrosClientes,
				Monto:        req.Monto,
				Fecha:        req.Fecha,
			}); err != nil {
				return err
			}
		}

		// Saldo del cliente.
		cliente, err := s.clienteRepo.ObtenerPorIDTx(tx, clienteID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: el cliente de la transaccion no existe", ErrNotFound)
			}
			return err
		}
		saldo := decimal.Zero
		if cliente.Saldo != nil {
			saldo = *cliente.Saldo
		}
		nuevo := saldo.Add(req.Monto)
		if err := s.clienteRepo.ActualizarTx(tx, clienteID, map[string]interface{}{"saldo": nuevo}); err != nil {
			return err
		}

		return s.repo.CrearTx(tx, t)
	})
	if txErr != nil {
		if esErrorDeDominio(txErr) {
			return nil, txErr
		}
		return nil, fmt.Errorf("%w: %v", ErrTransactionAbort, txErr)
	}

	return toTransaccionResponse(t), nil
}

// ── Eliminar ──────────────────────────────────────────────────────────────────
// The symmetric inverse of Guardar, in the same transaction: remove the arqueo
// entry (if one still matches), subtract the amount from the client balance,
// soft delete the record.

func (s *transaccionService) Eliminar(ctx context.Context, id uuid.UUID) (*dto.TransaccionResponse, error) {
	var t *model.Transaccion
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		var err error
		t, err = s.repo.ObtenerPorIDTx(tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: transaccion no encontrada", ErrNotFound)
			}
			return err
		}
		if t.Deleted {
			return fmt.Errorf("%w: la transaccion ya fue eliminada", ErrNotFound)
		}

		arqueo, err := s.arqueoRepo.BuscarAbiertoPorCajaTx(tx, t.CajaRegistradoraID)
		if err != nil {
			return err
		}
		if arqueo != nil {
			// El asiento puede no existir ya (otro arqueo, cierre previo);
			// eso no invalida la baja.
			if _, err := s.arqueoRepo.EliminarPrimerMovimientoTx(tx, arqueo.ID, model.DireccionIngreso, model.MovimientoArqueo{
				MetodoPagoID: t.MetodoPagoID,
				Concepto:     model.ConceptoCobrosClientes,
				Monto:        t.Monto,
				Fecha:        t.Fecha,
			}); err != nil {
				return err
			}
		}

		cliente, err := s.clienteRepo.ObtenerPorIDTx(tx, t.ClienteID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: el cliente de la transaccion no existe", ErrNotFound)
			}
			return err
		}
		saldo := decimal.Zero
		if cliente.Saldo != nil {
			saldo = *cliente.Saldo
		}
		nuevo := saldo.Sub(t.Monto)
		if err := s.clienteRepo.ActualizarTx(tx, t.ClienteID, map[string]interface{}{"saldo": nuevo}); err != nil {
			return err
		}

		if err := s.repo.ActualizarTx(tx, id, map[string]interface{}{"deleted": true}); err != nil {
			return err
		}
		t.Deleted = true
		return nil
	})
	if txErr != nil {
		if esErrorDeDominio(txErr) {
			return nil, txErr
		}
		return nil, fmt.Errorf("%w: %v", ErrTransactionAbort, txErr)
	}

	return toTransaccionResponse(t), nil
}

// ── Consultas ─────────────────────────────────────────────────────────────────

func (s *transaccionService) GetAll(ctx context.Context) ([]dto.TransaccionResponse, error) {
	ts, err := s.repo.Listar(ctx)
	if err != nil {
		return nil, err
	}
	return toTransaccionResponses(ts), nil
}

func (s *transaccionService) GetPorID(ctx context.Context, id uuid.UUID) (*dto.TransaccionResponse, error) {
	t, err := s.repo.ObtenerPorID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: transaccion no encontrada", ErrNotFound)
		}
		return nil, err
	}
	return toTransaccionResponse(t), nil
}

func (s *transaccionService) GetPorFecha(ctx context.Context, desde time.Time) ([]dto.TransaccionResponse, error) {
	ts, err := s.repo.ListarPorFecha(ctx, desde)
	if err != nil {
		return nil, err
	}
	return toTransaccionResponses(ts), nil
}

func (s *transaccionService) GetPrimeraPorCaja(ctx context.Context, cajaID uuid.UUID) (*dto.TransaccionResponse, error) {
	if cajaID == uuid.Nil {
		return nil, fmt.Errorf("%w: la caja registradora no puede ser nula", ErrInvalidArgument)
	}
	t, err := s.repo.PrimeraPorCaja(ctx, cajaID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: la caja no tiene transacciones", ErrNotFound)
		}
		return nil, err
	}
	return toTransaccionResponse(t), nil
}

func (s *transaccionService) ClientesConTransacciones(ctx context.Context) ([]model.Cliente, error) {
	ids, err := s.repo.ClientesDistintos(ctx)
	if err != nil {
		return nil, err
	}
	clientes := make([]model.Cliente, 0, len(ids))
	for _, id := range ids {
		c, err := s.clienteRepo.ObtenerPorID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, err
		}
		clientes = append(clientes, *c)
	}
	return clientes, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func toTransaccionResponse(t *model.Transaccion) *dto.TransaccionResponse {
	return &dto.TransaccionResponse{
		ID:                 t.ID.String(),
		CajaRegistradoraID: t.CajaRegistradoraID.String(),
		ClienteID:          t.ClienteID.String(),
		Fecha:              t.Fecha.Format(time.RFC3339),
		Monto:              t.Monto,
		MetodoPagoID:       t.MetodoPagoID.String(),
		Deleted:            t.Deleted,
	}
}

func toTransaccionResponses(ts []model.Transaccion) []dto.TransaccionResponse {
	out := make([]dto.TransaccionResponse, 0, len(ts))
	for i := range ts {
		out = append(out, *toTransaccionResponse(&ts[i]))
	}
	return out
}
