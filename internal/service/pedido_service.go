package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"restopos/internal/dto"
	"restopos/internal/model"
	"restopos/internal/realtime"
	"restopos/internal/repository"
	"restopos/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PedidoService manages table orders. Cobrar is the third producer of arqueo
// entries: it pours one VENTAS income entry per payment into the open arqueo
// of the register, in the same store transaction that closes the order and
// frees the table.
type PedidoService interface {
	Abrir(ctx context.Context, mozoID uuid.UUID, req dto.AbrirPedidoRequest) (*dto.PedidoResponse, error)
	AgregarItems(ctx context.Context, pedidoID uuid.UUID, req dto.AgregarItemsRequest) (*dto.PedidoResponse, error)
	Cobrar(ctx context.Context, pedidoID uuid.UUID, req dto.CobrarPedidoRequest) (*dto.PedidoResponse, error)
	Anular(ctx context.Context, pedidoID uuid.UUID) error
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.PedidoResponse, error)
	// AbiertoPorMesa returns the open order of the table, or ErrNotFound.
	AbiertoPorMesa(ctx context.Context, mesaID uuid.UUID) (*dto.PedidoResponse, error)
	ListarAbiertos(ctx context.Context) ([]dto.PedidoResponse, error)
}

type pedidoService struct {
	repo       repository.PedidoRepository
	mesaRepo   repository.MesaRepository
	prodRepo   repository.ProductoRepository
	arqueoRepo repository.ArqueoRepository
	hub        *realtime.Hub
	dispatcher *worker.Dispatcher
}

func NewPedidoService(
	repo repository.PedidoRepository,
	mesaRepo repository.MesaRepository,
	prodRepo repository.ProductoRepository,
	arqueoRepo repository.ArqueoRepository,
	hub *realtime.Hub,
	dispatcher *worker.Dispatcher,
) PedidoService {
	return &pedidoService{
		repo:       repo,
		mesaRepo:   mesaRepo,
		prodRepo:   prodRepo,
		arqueoRepo: arqueoRepo,
		hub:        hub,
		dispatcher: dispatcher,
	}
}

// ── Abrir ─────────────────────────────────────────────────────────────────────

func (s *pedidoService) Abrir(ctx context.Context, mozoID uuid.UUID, req dto.AbrirPedidoRequest) (*dto.PedidoResponse, error) {
	mesaID, err := uuid.Parse(req.MesaID)
	if err != nil {
		return nil, fmt.Errorf("%w: mesa_id invalido", ErrInvalidArgument)
	}
	cajaID, err := uuid.Parse(req.CajaRegistradoraID)
	if err != nil {
		return nil, fmt.Errorf("%w: caja_registradora_id invalido", ErrInvalidArgument)
	}

	mesa, err := s.mesaRepo.ObtenerMesa(ctx, mesaID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: mesa no encontrada", ErrNotFound)
		}
		return nil, err
	}
	if mesa.Estado != model.MesaLibre {
		return nil, fmt.Errorf("%w: la mesa %d ya esta ocupada", ErrInvalidArgument, mesa.Numero)
	}

	items, total, err := s.armarItems(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	pedido := &model.Pedido{
		MesaID:             mesaID,
		CajaRegistradoraID: cajaID,
		MozoID:             mozoID,
		Estado:             model.PedidoAbierto,
		Total:              total,
		Items:              items,
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		numero, err := s.repo.NextNumero(tx)
		if err != nil {
			return err
		}
		pedido.Numero = numero
		if err := s.repo.CrearTx(tx, pedido); err != nil {
			return err
		}
		return s.mesaRepo.ActualizarEstadoTx(tx, mesaID, model.MesaOcupada)
	})
	if txErr != nil {
		if esErrorDeDominio(txErr) {
			return nil, txErr
		}
		return nil, fmt.Errorf("%w: %v", ErrTransactionAbort, txErr)
	}

	s.hub.Broadcast("pedido_abierto", map[string]interface{}{
		"pedido_id": pedido.ID.String(),
		"numero":    pedido.Numero,
		"mesa_id":   mesaID.String(),
	})
	s.notificarCocina(ctx, fmt.Sprintf("Pedido #%d abierto", pedido.Numero), len(items))

	return toPedidoResponse(pedido), nil
}

// ── AgregarItems ──────────────────────────────────────────────────────────────

func (s *pedidoService) AgregarItems(ctx context.Context, pedidoID uuid.UUID, req dto.AgregarItemsRequest) (*dto.PedidoResponse, error) {
	pedido, err := s.obtenerAbierto(ctx, pedidoID)
	if err != nil {
		return nil, err
	}

	items, agregado, err := s.armarItems(ctx, req.Items)
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].PedidoID = pedidoID
	}
	nuevoTotal := pedido.Total.Add(agregado)

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.AgregarItemsTx(tx, items); err != nil {
			return err
		}
		return s.repo.ActualizarTx(tx, pedidoID, map[string]interface{}{"total": nuevoTotal})
	})
	if txErr != nil {
		if esErrorDeDominio(txErr) {
			return nil, txErr
		}
		return nil, fmt.Errorf("%w: %v", ErrTransactionAbort, txErr)
	}

	s.hub.Broadcast("pedido_items_agregados", map[string]interface{}{
		"pedido_id": pedidoID.String(),
		"numero":    pedido.Numero,
		"items":     len(items),
	})
	s.notificarCocina(ctx, fmt.Sprintf("Pedido #%d ampliado", pedido.Numero), len(items))

	return s.ObtenerPorID(ctx, pedidoID)
}

// ── Cobrar ────────────────────────────────────────────────────────────────────

func (s *pedidoService) Cobrar(ctx context.Context, pedidoID uuid.UUID, req dto.CobrarPedidoRequest) (*dto.PedidoResponse, error) {
	pedido, err := s.obtenerAbierto(ctx, pedidoID)
	if err != nil {
		return nil, err
	}

	pagos := make([]model.PedidoPago, 0, len(req.Pagos))
	totalPagado := decimal.Zero
	for _, p := range req.Pagos {
		metodoID, err := uuid.Parse(p.MetodoPagoID)
		if err != nil {
			return nil, fmt.Errorf("%w: metodo_pago_id invalido", ErrInvalidArgument)
		}
		if p.Monto.LessThanOrEqual(decimal.Zero) {
			return nil, fmt.Errorf("%w: el monto de un pago debe ser positivo", ErrInvalidArgument)
		}
		pagos = append(pagos, model.PedidoPago{
			PedidoID:     pedidoID,
			MetodoPagoID: metodoID,
			Monto:        p.Monto,
		})
		totalPagado = totalPagado.Add(p.Monto)
	}
	if !totalPagado.Equal(pedido.Total) {
		return nil, fmt.Errorf("%w: los pagos (%s) no cubren el total del pedido (%s)",
			ErrInvalidArgument, totalPagado, pedido.Total)
	}

	now := time.Now().UTC()
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.CrearPagosTx(tx, pagos); err != nil {
			return err
		}
		if err := s.repo.ActualizarTx(tx, pedidoID, map[string]interface{}{
			"estado":    model.PedidoCobrado,
			"closed_at": now,
		}); err != nil {
			return err
		}

		arqueo, err := s.arqueoRepo.BuscarAbiertoPorCajaTx(tx, pedido.CajaRegistradoraID)
		if err != nil {
			return err
		}
		if arqueo != nil {
			for _, pago := range pagos {
				if err := s.arqueoRepo.CrearMovimientoTx(tx, &model.MovimientoArqueo{
					ArqueoID:     arqueo.ID,
					Direccion:    model.DireccionIngreso,
					MetodoPagoID: pago.MetodoPagoID,
					Concepto:     model.ConceptoVentas,
					Monto:        pago.Monto,
					Fecha:        now,
				}); err != nil {
					return err
				}
			}
		}

		return s.mesaRepo.ActualizarEstadoTx(tx, pedido.MesaID, model.MesaLibre)
	})
	if txErr != nil {
		if esErrorDeDominio(txErr) {
			return nil, txErr
		}
		return nil, fmt.Errorf("%w: %v", ErrTransactionAbort, txErr)
	}

	s.hub.Broadcast("pedido_cobrado", map[string]interface{}{
		"pedido_id": pedidoID.String(),
		"numero":    pedido.Numero,
		"mesa_id":   pedido.MesaID.String(),
	})

	return s.ObtenerPorID(ctx, pedidoID)
}

// ── Anular ────────────────────────────────────────────────────────────────────

func (s *pedidoService) Anular(ctx context.Context, pedidoID uuid.UUID) error {
	pedido, err := s.obtenerAbierto(ctx, pedidoID)
	if err != nil {
		return err
	}
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.ActualizarTx(tx, pedidoID, map[string]interface{}{
			"estado":    model.PedidoAnulado,
			"closed_at": time.Now().UTC(),
		}); err != nil {
			return err
		}
		return s.mesaRepo.ActualizarEstadoTx(tx, pedido.MesaID, model.MesaLibre)
	})
	if txErr != nil {
		if esErrorDeDominio(txErr) {
			return txErr
		}
		return fmt.Errorf("%w: %v", ErrTransactionAbort, txErr)
	}

	s.hub.Broadcast("pedido_anulado", map[string]interface{}{
		"pedido_id": pedidoID.String(),
		"numero":    pedido.Numero,
		"mesa_id":   pedido.MesaID.String(),
	})
	return nil
}

// ── Consultas ─────────────────────────────────────────────────────────────────

func (s *pedidoService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.PedidoResponse, error) {
	pedido, err := s.repo.ObtenerPorID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: pedido no encontrado", ErrNotFound)
		}
		return nil, err
	}
	return toPedidoResponse(pedido), nil
}

func (s *pedidoService) AbiertoPorMesa(ctx context.Context, mesaID uuid.UUID) (*dto.PedidoResponse, error) {
	pedido, err := s.repo.AbiertoPorMesa(ctx, mesaID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: la mesa no tiene un pedido abierto", ErrNotFound)
		}
		return nil, err
	}
	return toPedidoResponse(pedido), nil
}

func (s *pedidoService) ListarAbiertos(ctx context.Context) ([]dto.PedidoResponse, error) {
	pedidos, err := s.repo.ListarAbiertos(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PedidoResponse, 0, len(pedidos))
	for i := range pedidos {
		out = append(out, *toPedidoResponse(&pedidos[i]))
	}
	return out, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func (s *pedidoService) obtenerAbierto(ctx context.Context, id uuid.UUID) (*model.Pedido, error) {
	pedido, err := s.repo.ObtenerPorID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: pedido no encontrado", ErrNotFound)
		}
		return nil, err
	}
	if pedido.Estado != model.PedidoAbierto {
		return nil, fmt.Errorf("%w: el pedido #%d ya esta %s", ErrInvalidArgument, pedido.Numero, pedido.Estado)
	}
	return pedido, nil
}

// armarItems resolves each requested product and copies its current price into
// the order line, so later catalog changes do not alter the order.
func (s *pedidoService) armarItems(ctx context.Context, reqs []dto.ItemPedidoRequest) ([]model.PedidoItem, decimal.Decimal, error) {
	items := make([]model.PedidoItem, 0, len(reqs))
	total := decimal.Zero
	for _, r := range reqs {
		prodID, err := uuid.Parse(r.ProductoID)
		if err != nil {
			return nil, decimal.Zero, fmt.Errorf("%w: producto_id invalido", ErrInvalidArgument)
		}
		prod, err := s.prodRepo.ObtenerPorID(ctx, prodID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, decimal.Zero, fmt.Errorf("%w: producto %s no encontrado", ErrNotFound, prodID)
			}
			return nil, decimal.Zero, err
		}
		if !prod.Disponible {
			return nil, decimal.Zero, fmt.Errorf("%w: el producto %q no esta disponible", ErrInvalidArgument, prod.Nombre)
		}
		subtotal := prod.Precio.Mul(decimal.NewFromInt(int64(r.Cantidad)))
		items = append(items, model.PedidoItem{
			ProductoID:     prodID,
			Cantidad:       r.Cantidad,
			PrecioUnitario: prod.Precio,
			Subtotal:       subtotal,
			Observacion:    r.Observacion,
		})
		total = total.Add(subtotal)
	}
	return items, total, nil
}

func (s *pedidoService) notificarCocina(ctx context.Context, titulo string, items int) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.EnqueueNotificacion(ctx, worker.NotificacionJobPayload{
		Titulo: titulo,
		Cuerpo: fmt.Sprintf("%d item(s) nuevos para preparar", items),
	})
}

func toPedidoResponse(p *model.Pedido) *dto.PedidoResponse {
	resp := &dto.PedidoResponse{
		ID:                 p.ID.String(),
		Numero:             p.Numero,
		MesaID:             p.MesaID.String(),
		CajaRegistradoraID: p.CajaRegistradoraID.String(),
		Estado:             p.Estado,
		Total:              p.Total,
		Items:              []dto.PedidoItemResponse{},
		CreatedAt:          p.CreatedAt.Format(time.RFC3339),
	}
	for _, it := range p.Items {
		item := dto.PedidoItemResponse{
			ProductoID:     it.ProductoID.String(),
			Cantidad:       it.Cantidad,
			PrecioUnitario: it.PrecioUnitario,
			Subtotal:       it.Subtotal,
			Observacion:    it.Observacion,
		}
		if it.Producto != nil {
			item.Producto = it.Producto.Nombre
		}
		resp.Items = append(resp.Items, item)
	}
	if p.ClosedAt != nil {
		t := p.ClosedAt.Format(time.RFC3339)
		resp.ClosedAt = &t
	}
	return resp
}
