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
	"gorm.io/gorm"
)

// ProveedorService manages suppliers. RegistrarPago is the expense-side
// producer of arqueo entries: the payment, the supplier balance decrement and
// the PAGOS_PROVEEDORES_CTA_CTE expense entry commit in one store transaction.
type ProveedorService interface {
	Crear(ctx context.Context, req dto.CrearProveedorRequest) (*dto.ProveedorResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProveedorResponse, error)
	Listar(ctx context.Context) ([]dto.ProveedorResponse, error)
	RegistrarPago(ctx context.Context, req dto.RegistrarPagoProveedorRequest) (*dto.PagoProveedorResponse, error)
	ListarPagos(ctx context.Context, proveedorID uuid.UUID) ([]dto.PagoProveedorResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
}

type proveedorService struct {
	repo       repository.ProveedorRepository
	arqueoRepo repository.ArqueoRepository
}

func NewProveedorService(repo repository.ProveedorRepository, arqueoRepo repository.ArqueoRepository) ProveedorService {
	return &proveedorService{repo: repo, arqueoRepo: arqueoRepo}
}

func (s *proveedorService) Crear(ctx context.Context, req dto.CrearProveedorRequest) (*dto.ProveedorResponse, error) {
	p := &model.Proveedor{
		RazonSocial: req.RazonSocial,
		CUIT:        req.CUIT,
		Telefono:    req.Telefono,
		Email:       req.Email,
		Activo:      true,
	}
	if err := s.repo.Crear(ctx, p); err != nil {
		return nil, err
	}
	return toProveedorResponse(p), nil
}

func (s *proveedorService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProveedorResponse, error) {
	p, err := s.repo.ObtenerPorID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: proveedor no encontrado", ErrNotFound)
		}
		return nil, err
	}
	return toProveedorResponse(p), nil
}

func (s *proveedorService) Listar(ctx context.Context) ([]dto.ProveedorResponse, error) {
	ps, err := s.repo.Listar(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProveedorResponse, 0, len(ps))
	for i := range ps {
		out = append(out, *toProveedorResponse(&ps[i]))
	}
	return out, nil
}

// RegistrarPago pays a supplier from a register. Inside one transaction: the
// payment row is created, the supplier balance drops by the amount, and an
// expense entry lands in the open arqueo of the register (when there is one).
func (s *proveedorService) RegistrarPago(ctx context.Context, req dto.RegistrarPagoProveedorRequest) (*dto.PagoProveedorResponse, error) {
	proveedorID, err := uuid.Parse(req.ProveedorID)
	if err != nil {
		return nil, fmt.Errorf("%w: proveedor_id invalido", ErrInvalidArgument)
	}
	cajaID, err := uuid.Parse(req.CajaRegistradoraID)
	if err != nil {
		return nil, fmt.Errorf("%w: caja_registradora_id invalido", ErrInvalidArgument)
	}
	metodoID, err := uuid.Parse(req.MetodoPagoID)
	if err != nil {
		return nil, fmt.Errorf("%w: metodo_pago_id invalido", ErrInvalidArgument)
	}

	pago := &model.PagoProveedor{
		ProveedorID:        proveedorID,
		CajaRegistradoraID: cajaID,
		MetodoPagoID:       metodoID,
		Monto:              req.Monto,
		Fecha:              time.Now().UTC(),
		Comentario:         req.Comentario,
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		proveedor, err := s.repo.ObtenerPorIDTx(tx, proveedorID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: proveedor no encontrado", ErrNotFound)
			}
			return err
		}

		if err := s.repo.ActualizarTx(tx, proveedorID, map[string]interface{}{
			"saldo": proveedor.Saldo.Sub(req.Monto),
		}); err != nil {
			return err
		}

		if err := s.repo.CrearPagoTx(tx, pago); err != nil {
			return err
		}

		arqueo, err := s.arqueoRepo.BuscarAbiertoPorCajaTx(tx, cajaID)
		if err != nil {
			return err
		}
		if arqueo != nil {
			if err := s.arqueoRepo.CrearMovimientoTx(tx, &model.MovimientoArqueo{
				ArqueoID:     arqueo.ID,
				Direccion:    model.DireccionEgreso,
				MetodoPagoID: metodoID,
				Concepto:     model.ConceptoPagosProveedores,
				Monto:        req.Monto,
				Fecha:        pago.Fecha,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		if esErrorDeDominio(txErr) {
			return nil, txErr
		}
		return nil, fmt.Errorf("%w: %v", ErrTransactionAbort, txErr)
	}

	return toPagoProveedorResponse(pago), nil
}

func (s *proveedorService) ListarPagos(ctx context.Context, proveedorID uuid.UUID) ([]dto.PagoProveedorResponse, error) {
	pagos, err := s.repo.ListarPagos(ctx, proveedorID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PagoProveedorResponse, 0, len(pagos))
	for i := range pagos {
		out = append(out, *toPagoProveedorResponse(&pagos[i]))
	}
	return out, nil
}

func (s *proveedorService) Desactivar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.ObtenerPorID(ctx, id); err != nil {
		return err
	}
	return s.repo.Actualizar(ctx, id, map[string]interface{}{"activo": false})
}

func toProveedorResponse(p *model.Proveedor) *dto.ProveedorResponse {
	return &dto.ProveedorResponse{
		ID:          p.ID.String(),
		RazonSocial: p.RazonSocial,
		CUIT:        p.CUIT,
		Telefono:    p.Telefono,
		Email:       p.Email,
		Saldo:       p.Saldo,
		Activo:      p.Activo,
	}
}

func toPagoProveedorResponse(p *model.PagoProveedor) *dto.PagoProveedorResponse {
	return &dto.PagoProveedorResponse{
		ID:                 p.ID.String(),
		ProveedorID:        p.ProveedorID.String(),
		CajaRegistradoraID: p.CajaRegistradoraID.String(),
		MetodoPagoID:       p.MetodoPagoID.String(),
		Monto:              p.Monto,
		Fecha:              p.Fecha.Format(time.RFC3339),
		Comentario:         p.Comentario,
	}
}
