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
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// CashFlowService records manual cash movements and mirrors each one into the
// open arqueo of its register. The record and its projected entry are kept
// consistent with compensating actions, not a store transaction: if the
// projection fails the freshly created record is physically deleted, and if
// the de-projection fails the soft delete is rolled back.
type CashFlowService interface {
	Guardar(ctx context.Context, usuarioID uuid.UUID, req dto.GuardarCashFlowRequest) (*dto.CashFlowResponse, error)
	GetAll(ctx context.Context) ([]dto.CashFlowResponse, error)
	GetPorID(ctx context.Context, id uuid.UUID) (*dto.CashFlowResponse, error)
	GetPorCajaYFecha(ctx context.Context, cajaID uuid.UUID, desde time.Time) ([]dto.CashFlowResponse, error)
	GetPrimeroPorCaja(ctx context.Context, cajaID uuid.UUID) (*dto.CashFlowResponse, error)
	// Actualizar patches the record; a patch that sets deleted=true goes
	// through the same de-projection path as EliminarLogico.
	Actualizar(ctx context.Context, id uuid.UUID, campos map[string]interface{}) (*dto.CashFlowResponse, error)
	EliminarLogico(ctx context.Context, id, usuarioID uuid.UUID) (*dto.CashFlowResponse, error)
}

type cashFlowService struct {
	repo   repository.CashFlowRepository
	arqueo ArqueoService
}

func NewCashFlowService(repo repository.CashFlowRepository, arqueo ArqueoService) CashFlowService {
	return &cashFlowService{repo: repo, arqueo: arqueo}
}

// ── Guardar ───────────────────────────────────────────────────────────────────

func (s *cashFlowService) Guardar(ctx context.Context, usuarioID uuid.UUID, req dto.GuardarCashFlowRequest) (*dto.CashFlowResponse, error) {
	metodoID, err := uuid.Parse(req.MetodoPagoID)
	if err != nil {
		return nil, fmt.Errorf("%w: metodo_pago_id invalido", ErrInvalidArgument)
	}

	var cajaID *uuid.UUID
	if req.CajaRegistradoraID != nil {
		id, err := uuid.Parse(*req.CajaRegistradoraID)
		if err != nil {
			return nil, fmt.Errorf("%w: caja_registradora_id invalido", ErrInvalidArgument)
		}
		cajaID = &id
	}

	cf := &model.CashFlow{
		CajaRegistradoraID: cajaID,
		Fecha:              time.Now().UTC(),
		CreatedBy:          usuarioID,
		MontoTotal:         req.MontoTotal,
		Tipo:               req.Tipo,
		MetodoPagoID:       metodoID,
		Comentario:         req.Comentario,
		Deleted:            false,
	}
	if err := s.repo.Crear(ctx, cf); err != nil {
		return nil, err
	}

	if err := s.proyectarEnArqueo(ctx, cf); err != nil {
		// Compensación: sin el asiento en el arqueo el registro no debe
		// quedar persistido.
		if delErr := s.repo.EliminarFisico(ctx, cf.ID); delErr != nil {
			log.Error().Err(delErr).Str("cash_flow_id", cf.ID.String()).
				Msg("no se pudo compensar el movimiento de caja tras fallar la proyeccion")
		}
		return nil, err
	}

	return toCashFlowResponse(cf), nil
}

// proyectarEnArqueo mirrors the record into the open arqueo of its register.
// A nil register or a register without an open arqueo is a hard failure here;
// Guardar turns it into a compensating delete.
func (s *cashFlowService) proyectarEnArqueo(ctx context.Context, cf *model.CashFlow) error {
	if cf.CajaRegistradoraID == nil {
		return fmt.Errorf("%w: la caja registradora del movimiento no puede ser nula", ErrInvalidArgument)
	}
	arqueo, err := s.arqueo.GetAbiertoPorCaja(ctx, *cf.CajaRegistradoraID)
	if err != nil {
		return err
	}
	if arqueo == nil {
		return fmt.Errorf("%w: no hay un arqueo abierto para la caja %s", ErrProyeccion, cf.CajaRegistradoraID)
	}

	mov := model.MovimientoArqueo{
		MetodoPagoID: cf.MetodoPagoID,
		Concepto:     model.ConceptoMovimientoCaja,
		Monto:        cf.MontoTotal,
		Fecha:        cf.Fecha,
	}
	if cf.Tipo == model.CashFlowEgreso {
		return s.arqueo.AgregarEgreso(ctx, arqueo.ID, mov)
	}
	return s.arqueo.AgregarIngreso(ctx, arqueo.ID, mov)
}

// desproyectar removes the projected entry from the open arqueo. A record
// without register cannot be de-projected and rolls the soft delete back.
// Absence of an open arqueo, or of the entry itself, is not an error: the
// session may have been closed or deleted since the record was created.
func (s *cashFlowService) desproyectar(ctx context.Context, cf *model.CashFlow) error {
	if cf.CajaRegistradoraID == nil {
		return fmt.Errorf("%w: el movimiento no tiene caja registradora", ErrInvalidArgument)
	}
	arqueo, err := s.arqueo.GetAbiertoPorCaja(ctx, *cf.CajaRegistradoraID)
	if err != nil {
		return err
	}
	if arqueo == nil {
		return nil
	}

	target := model.MovimientoArqueo{
		MetodoPagoID: cf.MetodoPagoID,
		Concepto:     model.ConceptoMovimientoCaja,
		Monto:        cf.MontoTotal,
		Fecha:        cf.Fecha,
	}
	if cf.Tipo == model.CashFlowEgreso {
		return s.arqueo.QuitarEgreso(ctx, arqueo.ID, target)
	}
	return s.arqueo.QuitarIngreso(ctx, arqueo.ID, target)
}

// ── Eliminar / Actualizar ─────────────────────────────────────────────────────

func (s *cashFlowService) EliminarLogico(ctx context.Context, id, usuarioID uuid.UUID) (*dto.CashFlowResponse, error) {
	cf, err := s.obtener(ctx, id)
	if err != nil {
		return nil, err
	}
	actualizado, err := s.repo.Actualizar(ctx, id, map[string]interface{}{
		"deleted":    true,
		"deleted_by": usuarioID,
	})
	if err != nil {
		return nil, err
	}
	if err := s.desproyectarConCompensacion(ctx, cf); err != nil {
		return nil, err
	}
	return toCashFlowResponse(actualizado), nil
}

func (s *cashFlowService) Actualizar(ctx context.Context, id uuid.UUID, campos map[string]interface{}) (*dto.CashFlowResponse, error) {
	cf, err := s.obtener(ctx, id)
	if err != nil {
		return nil, err
	}
	// Cualquier patch que deje el registro borrado desproyecta, aunque ya
	// estuviera borrado: si una baja anterior quedo a medias el asiento
	// todavia puede estar en el arqueo.
	borrando := false
	if v, ok := campos["deleted"]; ok {
		if b, ok := v.(bool); ok && b {
			borrando = true
		}
	}
	actualizado, err := s.repo.Actualizar(ctx, id, campos)
	if err != nil {
		return nil, err
	}
	if borrando {
		if err := s.desproyectarConCompensacion(ctx, cf); err != nil {
			return nil, err
		}
	}
	return toCashFlowResponse(actualizado), nil
}

// desproyectarConCompensacion rolls the soft delete back if the arqueo entry
// could not be removed, so record and arqueo never disagree.
func (s *cashFlowService) desproyectarConCompensacion(ctx context.Context, cf *model.CashFlow) error {
	if err := s.desproyectar(ctx, cf); err != nil {
		if _, rbErr := s.repo.Actualizar(ctx, cf.ID, map[string]interface{}{
			"deleted":    false,
			"deleted_by": nil,
		}); rbErr != nil {
			log.Error().Err(rbErr).Str("cash_flow_id", cf.ID.String()).
				Msg("no se pudo revertir la baja tras fallar la desproyeccion")
		}
		return fmt.Errorf("el movimiento de caja no pudo ser eliminado: %w", err)
	}
	return nil
}

// ── Consultas ─────────────────────────────────────────────────────────────────

func (s *cashFlowService) GetAll(ctx context.Context) ([]dto.CashFlowResponse, error) {
	cfs, err := s.repo.Listar(ctx)
	if err != nil {
		return nil, err
	}
	return toCashFlowResponses(cfs), nil
}

func (s *cashFlowService) GetPorID(ctx context.Context, id uuid.UUID) (*dto.CashFlowResponse, error) {
	cf, err := s.obtener(ctx, id)
	if err != nil {
		return nil, err
	}
	return toCashFlowResponse(cf), nil
}

func (s *cashFlowService) GetPorCajaYFecha(ctx context.Context, cajaID uuid.UUID, desde time.Time) ([]dto.CashFlowResponse, error) {
	if cajaID == uuid.Nil {
		return nil, fmt.Errorf("%w: la caja registradora no puede ser nula", ErrInvalidArgument)
	}
	cfs, err := s.repo.BuscarPorCajaYFecha(ctx, cajaID, desde)
	if err != nil {
		return nil, err
	}
	return toCashFlowResponses(cfs), nil
}

func (s *cashFlowService) GetPrimeroPorCaja(ctx context.Context, cajaID uuid.UUID) (*dto.CashFlowResponse, error) {
	cf, err := s.repo.PrimeroPorCaja(ctx, cajaID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: la caja no tiene movimientos", ErrNotFound)
		}
		return nil, err
	}
	return toCashFlowResponse(cf), nil
}

func (s *cashFlowService) obtener(ctx context.Context, id uuid.UUID) (*model.CashFlow, error) {
	cf, err := s.repo.ObtenerPorID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: movimiento de caja no encontrado", ErrNotFound)
		}
		return nil, err
	}
	return cf, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func toCashFlowResponse(cf *model.CashFlow) *dto.CashFlowResponse {
	var cajaID *string
	if cf.CajaRegistradoraID != nil {
		id := cf.CajaRegistradoraID.String()
		cajaID = &id
	}
	return &dto.CashFlowResponse{
		ID:                 cf.ID.String(),
		CajaRegistradoraID: cajaID,
		Fecha:              cf.Fecha.Format(time.RFC3339),
		MontoTotal:         cf.MontoTotal,
		Tipo:               cf.Tipo,
		MetodoPagoID:       cf.MetodoPagoID.String(),
		Comentario:         cf.Comentario,
		Deleted:            cf.Deleted,
	}
}

func toCashFlowResponses(cfs []model.CashFlow) []dto.CashFlowResponse {
	out := make([]dto.CashFlowResponse, 0, len(cfs))
	for i := range cfs {
		out = append(out, *toCashFlowResponse(&cfs[i]))
	}
	return out
}
