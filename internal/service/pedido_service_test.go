package service

import (
	"context"
	"testing"

	"restopos/internal/dto"
	"restopos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type pedidoRepoStub struct {
	pedidos map[uuid.UUID]*model.Pedido
	pagos   []model.PedidoPago
	numero  int
}

func newPedidoRepoStub() *pedidoRepoStub {
	return &pedidoRepoStub{pedidos: make(map[uuid.UUID]*model.Pedido)}
}

func (r *pedidoRepoStub) DB() *gorm.DB { return nil }

func (r *pedidoRepoStub) Crear(ctx context.Context, p *model.Pedido) error {
	return r.CrearTx(nil, p)
}

func (r *pedidoRepoStub) CrearTx(tx *gorm.DB, p *model.Pedido) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	for i := range p.Items {
		p.Items[i].PedidoID = p.ID
	}
	copia := *p
	r.pedidos[p.ID] = &copia
	return nil
}

func (r *pedidoRepoStub) ObtenerPorID(ctx context.Context, id uuid.UUID) (*model.Pedido, error) {
	p, ok := r.pedidos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copia := *p
	return &copia, nil
}

func (r *pedidoRepoStub) ListarAbiertos(ctx context.Context) ([]model.Pedido, error) {
	var out []model.Pedido
	for _, p := range r.pedidos {
		if p.Estado == model.PedidoAbierto {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *pedidoRepoStub) AbiertoPorMesa(ctx context.Context, mesaID uuid.UUID) (*model.Pedido, error) {
	for _, p := range r.pedidos {
		if p.MesaID == mesaID && p.Estado == model.PedidoAbierto {
			copia := *p
			return &copia, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *pedidoRepoStub) AgregarItems(ctx context.Context, items []model.PedidoItem) error {
	return r.AgregarItemsTx(nil, items)
}

func (r *pedidoRepoStub) AgregarItemsTx(tx *gorm.DB, items []model.PedidoItem) error {
	for _, it := range items {
		p, ok := r.pedidos[it.PedidoID]
		if !ok {
			return gorm.ErrRecordNotFound
		}
		p.Items = append(p.Items, it)
	}
	return nil
}

func (r *pedidoRepoStub) ActualizarTx(tx *gorm.DB, id uuid.UUID, campos map[string]interface{}) error {
	p, ok := r.pedidos[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if v, ok := campos["estado"]; ok {
		p.Estado = v.(string)
	}
	if v, ok := campos["total"]; ok {
		p.Total = v.(decimal.Decimal)
	}
	return nil
}

func (r *pedidoRepoStub) CrearPagosTx(tx *gorm.DB, pagos []model.PedidoPago) error {
	r.pagos = append(r.pagos, pagos...)
	return nil
}

func (r *pedidoRepoStub) NextNumero(tx *gorm.DB) (int, error) {
	r.numero++
	return r.numero, nil
}

type mesaRepoStub struct {
	mesas map[uuid.UUID]*model.Mesa
}

func newMesaRepoStub() *mesaRepoStub {
	return &mesaRepoStub{mesas: make(map[uuid.UUID]*model.Mesa)}
}

func (r *mesaRepoStub) agregar(numero int, estado string) uuid.UUID {
	id := uuid.New()
	r.mesas[id] = &model.Mesa{ID: id, Numero: numero, SectorID: uuid.New(), Estado: estado}
	return id
}

func (r *mesaRepoStub) CrearSector(ctx context.Context, s *model.Sector) error { return nil }

func (r *mesaRepoStub) ListarSectores(ctx context.Context) ([]model.Sector, error) {
	return nil, nil
}

func (r *mesaRepoStub) CrearMesa(ctx context.Context, m *model.Mesa) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	copia := *m
	r.mesas[m.ID] = &copia
	return nil
}

func (r *mesaRepoStub) ObtenerMesa(ctx context.Context, id uuid.UUID) (*model.Mesa, error) {
	m, ok := r.mesas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copia := *m
	return &copia, nil
}

func (r *mesaRepoStub) ListarMesasPorSector(ctx context.Context, sectorID uuid.UUID) ([]model.Mesa, error) {
	return nil, nil
}

func (r *mesaRepoStub) ActualizarEstado(ctx context.Context, id uuid.UUID, estado string) error {
	return r.ActualizarEstadoTx(nil, id, estado)
}

func (r *mesaRepoStub) ActualizarEstadoTx(tx *gorm.DB, id uuid.UUID, estado string) error {
	m, ok := r.mesas[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	m.Estado = estado
	return nil
}

type productoRepoStub struct {
	items map[uuid.UUID]*model.Producto
}

func newProductoRepoStub() *productoRepoStub {
	return &productoRepoStub{items: make(map[uuid.UUID]*model.Producto)}
}

func (r *productoRepoStub) agregar(nombre string, precio decimal.Decimal, disponible bool) uuid.UUID {
	id := uuid.New()
	r.items[id] = &model.Producto{
		ID: id, Nombre: nombre, CategoriaID: uuid.New(),
		Precio: precio, Disponible: disponible,
	}
	return id
}

func (r *productoRepoStub) Crear(ctx context.Context, p *model.Producto) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	copia := *p
	r.items[p.ID] = &copia
	return nil
}

func (r *productoRepoStub) ObtenerPorID(ctx context.Context, id uuid.UUID) (*model.Producto, error) {
	p, ok := r.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copia := *p
	return &copia, nil
}

func (r *productoRepoStub) Listar(ctx context.Context) ([]model.Producto, error) {
	return nil, nil
}

func (r *productoRepoStub) ListarDisponiblesPorCategoria(ctx context.Context, categoriaID uuid.UUID) ([]model.Producto, error) {
	var out []model.Producto
	for _, p := range r.items {
		if p.CategoriaID == categoriaID && p.Disponible {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *productoRepoStub) Actualizar(ctx context.Context, id uuid.UUID, campos map[string]interface{}) error {
	return nil
}

func (r *productoRepoStub) DesactivarPorCategoriaTx(tx *gorm.DB, categoriaID uuid.UUID) error {
	return nil
}

// ── Tests ────────────────────────────────────────────────────────────────────

type pedidoFixture struct {
	svc       PedidoService
	pedidos   *pedidoRepoStub
	mesas     *mesaRepoStub
	productos *productoRepoStub
	arqueos   *arqueoRepoStub
	arqueoSvc ArqueoService
}

func armarPedidoFixture(t *testing.T) *pedidoFixture {
	t.Helper()
	f := &pedidoFixture{
		pedidos:   newPedidoRepoStub(),
		mesas:     newMesaRepoStub(),
		productos: newProductoRepoStub(),
		arqueos:   newArqueoRepoStub(),
	}
	f.arqueoSvc = NewArqueoService(f.arqueos, nil, "")
	f.svc = NewPedidoService(f.pedidos, f.mesas, f.productos, f.arqueos, nil, nil)
	return f
}

func TestPedidoAbrirOcupaMesa(t *testing.T) {
	f := armarPedidoFixture(t)
	mesaID := f.mesas.agregar(4, model.MesaLibre)
	prodID := f.productos.agregar("Milanesa", decimal.NewFromInt(900), true)

	resp, err := f.svc.Abrir(context.Background(), uuid.New(), dto.AbrirPedidoRequest{
		MesaID:             mesaID.String(),
		CajaRegistradoraID: uuid.New().String(),
		Items: []dto.ItemPedidoRequest{
			{ProductoID: prodID.String(), Cantidad: 2},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, resp.Numero)
	assert.Equal(t, model.PedidoAbierto, resp.Estado)
	assert.True(t, resp.Total.Equal(decimal.NewFromInt(1800)), "total: %s", resp.Total)
	assert.Equal(t, model.MesaOcupada, f.mesas.mesas[mesaID].Estado)
}

func TestPedidoAbrirMesaOcupada(t *testing.T) {
	f := armarPedidoFixture(t)
	mesaID := f.mesas.agregar(7, model.MesaOcupada)

	_, err := f.svc.Abrir(context.Background(), uuid.New(), dto.AbrirPedidoRequest{
		MesaID:             mesaID.String(),
		CajaRegistradoraID: uuid.New().String(),
	})
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestPedidoAbrirProductoNoDisponible(t *testing.T) {
	f := armarPedidoFixture(t)
	mesaID := f.mesas.agregar(2, model.MesaLibre)
	prodID := f.productos.agregar("Flan", decimal.NewFromInt(300), false)

	_, err := f.svc.Abrir(context.Background(), uuid.New(), dto.AbrirPedidoRequest{
		MesaID:             mesaID.String(),
		CajaRegistradoraID: uuid.New().String(),
		Items: []dto.ItemPedidoRequest{
			{ProductoID: prodID.String(), Cantidad: 1},
		},
	})
	require.ErrorIs(t, err, ErrInvalidArgument)
	assert.Equal(t, model.MesaLibre, f.mesas.mesas[mesaID].Estado)
}

func TestPedidoCobrarVuelcaVentasEnArqueo(t *testing.T) {
	f := armarPedidoFixture(t)
	cajaID := uuid.New()
	arqueoID := abrirArqueo(t, f.arqueoSvc, cajaID, decimal.Zero)

	mesaID := f.mesas.agregar(1, model.MesaLibre)
	prodID := f.productos.agregar("Pizza", decimal.NewFromInt(500), true)

	abierto, err := f.svc.Abrir(context.Background(), uuid.New(), dto.AbrirPedidoRequest{
		MesaID:             mesaID.String(),
		CajaRegistradoraID: cajaID.String(),
		Items: []dto.ItemPedidoRequest{
			{ProductoID: prodID.String(), Cantidad: 2},
		},
	})
	require.NoError(t, err)
	pedidoID, err := uuid.Parse(abierto.ID)
	require.NoError(t, err)

	efectivo := uuid.New()
	tarjeta := uuid.New()
	cobrado, err := f.svc.Cobrar(context.Background(), pedidoID, dto.CobrarPedidoRequest{
		Pagos: []dto.PagoPedidoRequest{
			{MetodoPagoID: efectivo.String(), Monto: decimal.NewFromInt(600)},
			{MetodoPagoID: tarjeta.String(), Monto: decimal.NewFromInt(400)},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, model.PedidoCobrado, cobrado.Estado)

	// Un asiento VENTAS por cada pago, en el arqueo abierto de la caja.
	require.Len(t, f.arqueos.movimientos, 2)
	for _, mov := range f.arqueos.movimientos {
		assert.Equal(t, arqueoID, mov.ArqueoID)
		assert.Equal(t, model.DireccionIngreso, mov.Direccion)
		assert.Equal(t, model.ConceptoVentas, mov.Concepto)
	}
	assert.Len(t, f.pedidos.pagos, 2)
	assert.Equal(t, model.MesaLibre, f.mesas.mesas[mesaID].Estado)
}

func TestPedidoCobrarPagosInsuficientes(t *testing.T) {
	f := armarPedidoFixture(t)
	mesaID := f.mesas.agregar(3, model.MesaLibre)
	prodID := f.productos.agregar("Empanada", decimal.NewFromInt(150), true)

	abierto, err := f.svc.Abrir(context.Background(), uuid.New(), dto.AbrirPedidoRequest{
		MesaID:             mesaID.String(),
		CajaRegistradoraID: uuid.New().String(),
		Items: []dto.ItemPedidoRequest{
			{ProductoID: prodID.String(), Cantidad: 3},
		},
	})
	require.NoError(t, err)
	pedidoID, _ := uuid.Parse(abierto.ID)

	_, err = f.svc.Cobrar(context.Background(), pedidoID, dto.CobrarPedidoRequest{
		Pagos: []dto.PagoPedidoRequest{
			{MetodoPagoID: uuid.New().String(), Monto: decimal.NewFromInt(400)},
		},
	})
	require.ErrorIs(t, err, ErrInvalidArgument)
	assert.Empty(t, f.pedidos.pagos)
	assert.Equal(t, model.MesaOcupada, f.mesas.mesas[mesaID].Estado)
}

func TestPedidoCobrarSinArqueoAbierto(t *testing.T) {
	f := armarPedidoFixture(t)
	mesaID := f.mesas.agregar(5, model.MesaLibre)
	prodID := f.productos.agregar("Cafe", decimal.NewFromInt(100), true)

	abierto, err := f.svc.Abrir(context.Background(), uuid.New(), dto.AbrirPedidoRequest{
		MesaID:             mesaID.String(),
		CajaRegistradoraID: uuid.New().String(),
		Items: []dto.ItemPedidoRequest{
			{ProductoID: prodID.String(), Cantidad: 1},
		},
	})
	require.NoError(t, err)
	pedidoID, _ := uuid.Parse(abierto.ID)

	// Cobrar sin arqueo abierto cierra el pedido igual, sin asientos.
	cobrado, err := f.svc.Cobrar(context.Background(), pedidoID, dto.CobrarPedidoRequest{
		Pagos: []dto.PagoPedidoRequest{
			{MetodoPagoID: uuid.New().String(), Monto: decimal.NewFromInt(100)},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, model.PedidoCobrado, cobrado.Estado)
	assert.Empty(t, f.arqueos.movimientos)
}

func TestPedidoAnularLiberaMesa(t *testing.T) {
	f := armarPedidoFixture(t)
	mesaID := f.mesas.agregar(6, model.MesaLibre)

	abierto, err := f.svc.Abrir(context.Background(), uuid.New(), dto.AbrirPedidoRequest{
		MesaID:             mesaID.String(),
		CajaRegistradoraID: uuid.New().String(),
	})
	require.NoError(t, err)
	pedidoID, _ := uuid.Parse(abierto.ID)

	require.NoError(t, f.svc.Anular(context.Background(), pedidoID))
	assert.Equal(t, model.MesaLibre, f.mesas.mesas[mesaID].Estado)

	// Un pedido cerrado no admite mas operaciones.
	_, err = f.svc.AgregarItems(context.Background(), pedidoID, dto.AgregarItemsRequest{
		Items: []dto.ItemPedidoRequest{{ProductoID: uuid.New().String(), Cantidad: 1}},
	})
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestPedidoAgregarItemsActualizaTotal(t *testing.T) {
	f := armarPedidoFixture(t)
	mesaID := f.mesas.agregar(8, model.MesaLibre)
	pizzaID := f.productos.agregar("Pizza", decimal.NewFromInt(500), true)
	cafeID := f.productos.agregar("Cafe", decimal.NewFromInt(100), true)

	abierto, err := f.svc.Abrir(context.Background(), uuid.New(), dto.AbrirPedidoRequest{
		MesaID:             mesaID.String(),
		CajaRegistradoraID: uuid.New().String(),
		Items: []dto.ItemPedidoRequest{
			{ProductoID: pizzaID.String(), Cantidad: 1},
		},
	})
	require.NoError(t, err)
	pedidoID, _ := uuid.Parse(abierto.ID)

	resp, err := f.svc.AgregarItems(context.Background(), pedidoID, dto.AgregarItemsRequest{
		Items: []dto.ItemPedidoRequest{
			{ProductoID: cafeID.String(), Cantidad: 2},
		},
	})
	require.NoError(t, err)
	assert.True(t, resp.Total.Equal(decimal.NewFromInt(700)), "total: %s", resp.Total)
	assert.Len(t, resp.Items, 2)
}
