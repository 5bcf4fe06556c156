package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"restopos/internal/dto"
	"restopos/internal/model"
	"restopos/internal/repository"
	"restopos/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ArqueoService owns the lifecycle of a register's reconciliation session:
// open, accumulate ledger entries, close against counted amounts. The entry
// push/remove operations are consumed exclusively by CashFlowService and
// TransaccionService, which project their records into the open arqueo.
type ArqueoService interface {
	// GetAbiertoPorCaja returns the unique open (non-deleted, not closed)
	// arqueo for the register, or nil when there is none.
	GetAbiertoPorCaja(ctx context.Context, cajaID uuid.UUID) (*model.Arqueo, error)
	Abrir(ctx context.Context, usuarioID uuid.UUID, req dto.AbrirArqueoRequest) (*dto.ArqueoResponse, error)
	AgregarIngreso(ctx context.Context, arqueoID uuid.UUID, mov model.MovimientoArqueo) error
	AgregarEgreso(ctx context.Context, arqueoID uuid.UUID, mov model.MovimientoArqueo) error
	// QuitarIngreso / QuitarEgreso remove the first entry matching target by
	// value. Removing a target that matches nothing is a no-op, not an error.
	QuitarIngreso(ctx context.Context, arqueoID uuid.UUID, target model.MovimientoArqueo) error
	QuitarEgreso(ctx context.Context, arqueoID uuid.UUID, target model.MovimientoArqueo) error
	Cerrar(ctx context.Context, usuarioID uuid.UUID, req dto.CerrarArqueoRequest) (*dto.CierreArqueoResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, campos map[string]interface{}) error
	EliminarLogico(ctx context.Context, id, usuarioID uuid.UUID) error
	ObtenerReporte(ctx context.Context, id uuid.UUID) (*dto.ArqueoResponse, error)
	Listar(ctx context.Context) ([]dto.ArqueoResponse, error)
}

type arqueoService struct {
	repo       repository.ArqueoRepository
	dispatcher *worker.Dispatcher
	adminEmail string
}

func NewArqueoService(repo repository.ArqueoRepository, dispatcher *worker.Dispatcher, adminEmail string) ArqueoService {
	return &arqueoService{repo: repo, dispatcher: dispatcher, adminEmail: adminEmail}
}

// ── GetAbiertoPorCaja ─────────────────────────────────────────────────────────

func (s *arqueoService) GetAbiertoPorCaja(ctx context.Context, cajaID uuid.UUID) (*model.Arqueo, error) {
	if cajaID == uuid.Nil {
		return nil, fmt.Errorf("%w: la caja registradora no puede ser nula", ErrInvalidArgument)
	}
	return s.repo.BuscarAbiertoPorCaja(ctx, cajaID)
}

// ── Abrir ─────────────────────────────────────────────────────────────────────

func (s *arqueoService) Abrir(ctx context.Context, usuarioID uuid.UUID, req dto.AbrirArqueoRequest) (*dto.ArqueoResponse, error) {
	cajaID, err := uuid.Parse(req.CajaRegistradoraID)
	if err != nil {
		return nil, fmt.Errorf("%w: caja_registradora_id invalido", ErrInvalidArgument)
	}

	// Guard: the partial unique index enforces this too, but checking here
	// gives the caller a readable error instead of a constraint violation.
	existente, err := s.repo.BuscarAbiertoPorCaja(ctx, cajaID)
	if err != nil {
		return nil, err
	}
	if existente != nil {
		return nil, fmt.Errorf("%w: ya existe un arqueo abierto para esta caja", ErrInvalidArgument)
	}

	arqueo := &model.Arqueo{
		CajaRegistradoraID: cajaID,
		CreatedBy:          usuarioID,
		MontoInicial:       req.MontoInicial,
		Deleted:            false,
	}
	if err := s.repo.Crear(ctx, arqueo); err != nil {
		return nil, err
	}
	return toArqueoResponse(arqueo), nil
}

// ── Movimientos ───────────────────────────────────────────────────────────────

func (s *arqueoService) AgregarIngreso(ctx context.Context, arqueoID uuid.UUID, mov model.MovimientoArqueo) error {
	return s.agregar(ctx, arqueoID, model.DireccionIngreso, mov)
}

func (s *arqueoService) AgregarEgreso(ctx context.Context, arqueoID uuid.UUID, mov model.MovimientoArqueo) error {
	return s.agregar(ctx, arqueoID, model.DireccionEgreso, mov)
}

func (s *arqueoService) agregar(ctx context.Context, arqueoID uuid.UUID, direccion string, mov model.MovimientoArqueo) error {
	if arqueoID == uuid.Nil {
		return fmt.Errorf("%w: el arqueo no puede ser nulo", ErrInvalidArgument)
	}
	mov.ArqueoID = arqueoID
	mov.Direccion = direccion
	return s.repo.CrearMovimiento(ctx, &mov)
}

func (s *arqueoService) QuitarIngreso(ctx context.Context, arqueoID uuid.UUID, target model.MovimientoArqueo) error {
	_, err := s.repo.EliminarPrimerMovimiento(ctx, arqueoID, model.DireccionIngreso, target)
	return err
}

func (s *arqueoService) QuitarEgreso(ctx context.Context, arqueoID uuid.UUID, target model.MovimientoArqueo) error {
	_, err := s.repo.EliminarPrimerMovimiento(ctx, arqueoID, model.DireccionEgreso, target)
	return err
}

// ── Cerrar ────────────────────────────────────────────────────────────────────
// Sets closed_at / closed_by / counted amounts exactly once. After closing,
// the entry lists are immutable except through EliminarLogico of the whole
// arqueo.

func (s *arqueoService) Cerrar(ctx context.Context, usuarioID uuid.UUID, req dto.CerrarArqueoRequest) (*dto.CierreArqueoResponse, error) {
	arqueoID, err := uuid.Parse(req.ArqueoID)
	if err != nil {
		return nil, fmt.Errorf("%w: arqueo_id invalido", ErrInvalidArgument)
	}

	arqueo, err := s.repo.ObtenerPorID(ctx, arqueoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: arqueo no encontrado", ErrNotFound)
		}
		return nil, err
	}
	if arqueo.Deleted {
		return nil, fmt.Errorf("%w: el arqueo fue eliminado", ErrNotFound)
	}
	if arqueo.ClosedAt != nil {
		return nil, fmt.Errorf("%w: el arqueo ya esta cerrado", ErrInvalidArgument)
	}

	montos := make([]model.ArqueoMontoReal, 0, len(req.MontosDeclarados))
	declarado := decimal.Zero
	for _, m := range req.MontosDeclarados {
		metodoID, err := uuid.Parse(m.MetodoPagoID)
		if err != nil {
			return nil, fmt.Errorf("%w: metodo_pago_id invalido", ErrInvalidArgument)
		}
		montos = append(montos, model.ArqueoMontoReal{
			ArqueoID:     arqueoID,
			MetodoPagoID: metodoID,
			Monto:        m.Monto,
		})
		declarado = declarado.Add(m.Monto)
	}

	now := time.Now().UTC()
	campos := map[string]interface{}{
		"closed_at": now,
		"closed_by": usuarioID,
	}
	if req.Comentario != nil {
		campos["comentario"] = *req.Comentario
	}
	// El cierre y los montos contados se persisten en una sola transaccion:
	// un arqueo cerrado sin montos declarados no es un estado valido.
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.ActualizarTx(tx, arqueoID, campos); err != nil {
			return err
		}
		return s.repo.CrearMontosRealesTx(tx, montos)
	})
	if txErr != nil {
		if esErrorDeDominio(txErr) {
			return nil, txErr
		}
		return nil, fmt.Errorf("%w: %v", ErrTransactionAbort, txErr)
	}

	esperado := montoEsperado(arqueo)
	resp := &dto.CierreArqueoResponse{
		ArqueoID:       arqueoID.String(),
		MontoEsperado:  esperado,
		MontoDeclarado: declarado,
		Diferencia:     declarado.Sub(esperado),
	}

	// Summary mail for the back office — best effort, fire & forget.
	if s.dispatcher != nil && s.adminEmail != "" {
		_ = s.dispatcher.EnqueueEmail(ctx, worker.EmailJobPayload{
			ToEmail: s.adminEmail,
			Subject: fmt.Sprintf("Cierre de arqueo %s", arqueoID),
			Body: fmt.Sprintf("Esperado: %s — Declarado: %s — Diferencia: %s",
				esperado, declarado, resp.Diferencia),
		})
	}

	return resp, nil
}

// ── Actualizar / EliminarLogico ───────────────────────────────────────────────

func (s *arqueoService) Actualizar(ctx context.Context, id uuid.UUID, campos map[string]interface{}) error {
	if id == uuid.Nil {
		return fmt.Errorf("%w: el arqueo no puede ser nulo", ErrInvalidArgument)
	}
	return s.repo.Actualizar(ctx, id, campos)
}

func (s *arqueoService) EliminarLogico(ctx context.Context, id, usuarioID uuid.UUID) error {
	if _, err := s.repo.ObtenerPorID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: arqueo no encontrado", ErrNotFound)
		}
		return err
	}
	return s.repo.Actualizar(ctx, id, map[string]interface{}{
		"deleted":    true,
		"deleted_by": usuarioID,
	})
}

// ── Consultas ─────────────────────────────────────────────────────────────────

func (s *arqueoService) ObtenerReporte(ctx context.Context, id uuid.UUID) (*dto.ArqueoResponse, error) {
	arqueo, err := s.repo.ObtenerPorID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: arqueo no encontrado", ErrNotFound)
		}
		return nil, err
	}
	return toArqueoResponse(arqueo), nil
}

func (s *arqueoService) Listar(ctx context.Context) ([]dto.ArqueoResponse, error) {
	arqueos, err := s.repo.Listar(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]dto.ArqueoResponse, 0, len(arqueos))
	for i := range arqueos {
		result = append(result, *toArqueoResponse(&arqueos[i]))
	}
	return result, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// montoEsperado is the theoretical cash position at close time:
// initial amount plus income entries minus expense entries.
func montoEsperado(a *model.Arqueo) decimal.Decimal {
	total := a.MontoInicial
	for _, m := range a.Movimientos {
		switch m.Direccion {
		case model.DireccionIngreso:
			total = total.Add(m.Monto)
		case model.DireccionEgreso:
			total = total.Sub(m.Monto)
		}
	}
	return total
}

func toArqueoResponse(a *model.Arqueo) *dto.ArqueoResponse {
	resp := &dto.ArqueoResponse{
		ID:                 a.ID.String(),
		CajaRegistradoraID: a.CajaRegistradoraID.String(),
		MontoInicial:       a.MontoInicial,
		Ingresos:           []dto.MovimientoArqueoResponse{},
		Egresos:            []dto.MovimientoArqueoResponse{},
		TotalIngresos:      decimal.Zero,
		TotalEgresos:       decimal.Zero,
		Comentario:         a.Comentario,
		CreatedAt:          a.CreatedAt.Format(time.RFC3339),
	}
	for _, m := range a.Movimientos {
		mov := dto.MovimientoArqueoResponse{
			MetodoPagoID: m.MetodoPagoID.String(),
			Concepto:     m.Concepto,
			Monto:        m.Monto,
			Fecha:        m.Fecha.Format(time.RFC3339),
		}
		switch m.Direccion {
		case model.DireccionIngreso:
			resp.Ingresos = append(resp.Ingresos, mov)
			resp.TotalIngresos = resp.TotalIngresos.Add(m.Monto)
		case model.DireccionEgreso:
			resp.Egresos = append(resp.Egresos, mov)
			resp.TotalEgresos = resp.TotalEgresos.Add(m.Monto)
		}
	}
	for _, mr := range a.MontosReales {
		resp.MontosDeclarados = append(resp.MontosDeclarados, dto.MontoDeclarado{
			MetodoPagoID: mr.MetodoPagoID.String(),
			Monto:        mr.Monto,
		})
	}
	if a.ClosedAt != nil {
		t := a.ClosedAt.Format(time.RFC3339)
		resp.ClosedAt = &t
	}
	return resp
}
