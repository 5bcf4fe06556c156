package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"restopos/internal/dto"
	"restopos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type transaccionRepoStub struct {
	items  map[uuid.UUID]*model.Transaccion
	orden  []uuid.UUID
	diario *diarioTx

	failCrear      bool
	failActualizar bool
}

func newTransaccionRepoStub() *transaccionRepoStub {
	return &transaccionRepoStub{items: make(map[uuid.UUID]*model.Transaccion)}
}

func (r *transaccionRepoStub) DB() *gorm.DB { return nil }

func (r *transaccionRepoStub) CrearTx(tx *gorm.DB, t *model.Transaccion) error {
	if r.failCrear {
		return errors.New("conexion perdida")
	}
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	copia := *t
	r.items[t.ID] = &copia
	r.orden = append(r.orden, t.ID)
	id := t.ID
	r.diario.anotar(func() {
		delete(r.items, id)
		r.orden = r.orden[:len(r.orden)-1]
	})
	return nil
}

func (r *transaccionRepoStub) ObtenerPorID(ctx context.Context, id uuid.UUID) (*model.Transaccion, error) {
	return r.obtener(id)
}

func (r *transaccionRepoStub) ObtenerPorIDTx(tx *gorm.DB, id uuid.UUID) (*model.Transaccion, error) {
	return r.obtener(id)
}

func (r *transaccionRepoStub) obtener(id uuid.UUID) (*model.Transaccion, error) {
	t, ok := r.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copia := *t
	return &copia, nil
}

func (r *transaccionRepoStub) Listar(ctx context.Context) ([]model.Transaccion, error) {
	var out []model.Transaccion
	for _, id := range r.orden {
		if t, ok := r.items[id]; ok && !t.Deleted {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *transaccionRepoStub) ListarPorFecha(ctx context.Context, desde time.Time) ([]model.Transaccion, error) {
	var out []model.Transaccion
	for _, id := range r.orden {
		if t, ok := r.items[id]; ok && !t.Fecha.Before(desde) {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *transaccionRepoStub) PrimeraPorCaja(ctx context.Context, cajaID uuid.UUID) (*model.Transaccion, error) {
	for _, id := range r.orden {
		if t, ok := r.items[id]; ok && t.CajaRegistradoraID == cajaID {
			copia := *t
			return &copia, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *transaccionRepoStub) ClientesDistintos(ctx context.Context) ([]uuid.UUID, error) {
	vistos := make(map[uuid.UUID]bool)
	var ids []uuid.UUID
	for _, id := range r.orden {
		t, ok := r.items[id]
		if !ok || t.Deleted || vistos[t.ClienteID] {
			continue
		}
		vistos[t.ClienteID] = true
		ids = append(ids, t.ClienteID)
	}
	return ids, nil
}

func (r *transaccionRepoStub) ActualizarTx(tx *gorm.DB, id uuid.UUID, campos map[string]interface{}) error {
	if r.failActualizar {
		return errors.New("conexion perdida")
	}
	t, ok := r.items[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	copia := *t
	r.diario.anotar(func() { *r.items[id] = copia })
	if v, ok := campos["deleted"]; ok {
		t.Deleted = v.(bool)
	}
	return nil
}

type clienteRepoStub struct {
	items  map[uuid.UUID]*model.Cliente
	diario *diarioTx
}

func newClienteRepoStub() *clienteRepoStub {
	return &clienteRepoStub{items: make(map[uuid.UUID]*model.Cliente)}
}

func (r *clienteRepoStub) agregar(saldo *decimal.Decimal) uuid.UUID {
	id := uuid.New()
	r.items[id] = &model.Cliente{ID: id, Nombre: "Cliente de prueba", Saldo: saldo, Activo: true}
	return id
}

func (r *clienteRepoStub) Crear(ctx context.Context, c *model.Cliente) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	copia := *c
	r.items[c.ID] = &copia
	return nil
}

func (r *clienteRepoStub) ObtenerPorID(ctx context.Context, id uuid.UUID) (*model.Cliente, error) {
	return r.obtener(id)
}

func (r *clienteRepoStub) ObtenerPorIDTx(tx *gorm.DB, id uuid.UUID) (*model.Cliente, error) {
	return r.obtener(id)
}

func (r *clienteRepoStub) obtener(id uuid.UUID) (*model.Cliente, error) {
	c, ok := r.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copia := *c
	return &copia, nil
}

func (r *clienteRepoStub) Listar(ctx context.Context) ([]model.Cliente, error) {
	var out []model.Cliente
	for _, c := range r.items {
		if c.Activo {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *clienteRepoStub) Actualizar(ctx context.Context, id uuid.UUID, campos map[string]interface{}) error {
	return r.ActualizarTx(nil, id, campos)
}

func (r *clienteRepoStub) ActualizarTx(tx *gorm.DB, id uuid.UUID, campos map[string]interface{}) error {
	c, ok := r.items[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	copia := *c
	r.diario.anotar(func() { *r.items[id] = copia })
	if v, ok := campos["saldo"]; ok {
		s := v.(decimal.Decimal)
		c.Saldo = &s
	}
	return nil
}

func (r *clienteRepoStub) Desactivar(ctx context.Context, id uuid.UUID) error {
	c, ok := r.items[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.Activo = false
	return nil
}

// ── Tests ────────────────────────────────────────────────────────────────────

func armarTransaccionService(t *testing.T) (TransaccionService, *transaccionRepoStub, *arqueoRepoStub, *clienteRepoStub, ArqueoService) {
	t.Helper()
	tRepo := newTransaccionRepoStub()
	aRepo := newArqueoRepoStub()
	cRepo := newClienteRepoStub()
	arqueoSvc := NewArqueoService(aRepo, nil, "")
	return NewTransaccionService(tRepo, aRepo, cRepo), tRepo, aRepo, cRepo, arqueoSvc
}

func TestTransaccionGuardarAsientaYActualizaSaldo(t *testing.T) {
	svc, tRepo, aRepo, cRepo, arqueoSvc := armarTransaccionService(t)
	cajaID := uuid.New()
	arqueoID := abrirArqueo(t, arqueoSvc, cajaID, decimal.Zero)

	// Saldo nulo se trata como cero.
	clienteID := cRepo.agregar(nil)
	metodoID := uuid.New()
	fecha := time.Date(2026, 5, 2, 18, 30, 0, 0, time.UTC)

	resp, err := svc.Guardar(context.Background(), dto.GuardarTransaccionRequest{
		CajaRegistradoraID: cajaID.String(),
		ClienteID:          clienteID.String(),
		Fecha:              fecha,
		Monto:              decimal.NewFromInt(200),
		MetodoPagoID:       metodoID.String(),
	})
	require.NoError(t, err)
	assert.False(t, resp.Deleted)

	require.Len(t, tRepo.items, 1)
	require.Len(t, aRepo.movimientos, 1)
	mov := aRepo.movimientos[0]
	assert.Equal(t, arqueoID, mov.ArqueoID)
	assert.Equal(t, model.DireccionIngreso, mov.Direccion)
	assert.Equal(t, model.ConceptoCobrosClientes, mov.Concepto)
	assert.True(t, mov.Fecha.Equal(fecha))

	cliente := cRepo.items[clienteID]
	require.NotNil(t, cliente.Saldo)
	assert.True(t, cliente.Saldo.Equal(decimal.NewFromInt(200)), "saldo: %s", cliente.Saldo)
}

func TestTransaccionGuardarSinArqueoAbierto(t *testing.T) {
	svc, tRepo, aRepo, cRepo, _ := armarTransaccionService(t)
	saldo := decimal.NewFromInt(50)
	clienteID := cRepo.agregar(&saldo)

	// Sin arqueo abierto la transaccion igual se registra, solo que sin asiento.
	_, err := svc.Guardar(context.Background(), dto.GuardarTransaccionRequest{
		CajaRegistradoraID: uuid.New().String(),
		ClienteID:          clienteID.String(),
		Fecha:              time.Now().UTC(),
		Monto:              decimal.NewFromInt(30),
		MetodoPagoID:       uuid.New().String(),
	})
	require.NoError(t, err)

	assert.Len(t, tRepo.items, 1)
	assert.Empty(t, aRepo.movimientos)
	assert.True(t, cRepo.items[clienteID].Saldo.Equal(decimal.NewFromInt(80)))
}

func TestTransaccionGuardarClienteInexistente(t *testing.T) {
	svc, tRepo, _, _, _ := armarTransaccionService(t)

	_, err := svc.Guardar(context.Background(), dto.GuardarTransaccionRequest{
		CajaRegistradoraID: uuid.New().String(),
		ClienteID:          uuid.New().String(),
		Fecha:              time.Now().UTC(),
		Monto:              decimal.NewFromInt(10),
		MetodoPagoID:       uuid.New().String(),
	})
	require.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, tRepo.items)
}

func TestTransaccionGuardarEnvuelveErrorDeInfraestructura(t *testing.T) {
	svc, tRepo, _, cRepo, _ := armarTransaccionService(t)
	clienteID := cRepo.agregar(nil)
	tRepo.failCrear = true

	_, err := svc.Guardar(context.Background(), dto.GuardarTransaccionRequest{
		CajaRegistradoraID: uuid.New().String(),
		ClienteID:          clienteID.String(),
		Fecha:              time.Now().UTC(),
		Monto:              decimal.NewFromInt(10),
		MetodoPagoID:       uuid.New().String(),
	})
	require.ErrorIs(t, err, ErrTransactionAbort)
}

func TestTransaccionGuardarAbortaSinEstadoParcial(t *testing.T) {
	svc, tRepo, aRepo, cRepo, arqueoSvc := armarTransaccionService(t)
	cajaID := uuid.New()
	abrirArqueo(t, arqueoSvc, cajaID, decimal.Zero)
	saldo := decimal.NewFromInt(50)
	clienteID := cRepo.agregar(&saldo)

	diario := &diarioTx{}
	tRepo.diario, aRepo.diario, cRepo.diario = diario, diario, diario
	// La creacion del registro es el ultimo paso: el asiento y el saldo ya
	// se escribieron cuando falla.
	tRepo.failCrear = true

	_, err := svc.Guardar(context.Background(), dto.GuardarTransaccionRequest{
		CajaRegistradoraID: cajaID.String(),
		ClienteID:          clienteID.String(),
		Fecha:              time.Now().UTC(),
		Monto:              decimal.NewFromInt(75),
		MetodoPagoID:       uuid.New().String(),
	})
	require.ErrorIs(t, err, ErrTransactionAbort)
	diario.revertir()

	assert.Empty(t, tRepo.items)
	assert.Empty(t, aRepo.movimientos)
	assert.True(t, cRepo.items[clienteID].Saldo.Equal(decimal.NewFromInt(50)), "saldo: %s", cRepo.items[clienteID].Saldo)
}

func TestTransaccionEliminarAbortaSinEstadoParcial(t *testing.T) {
	svc, tRepo, aRepo, cRepo, arqueoSvc := armarTransaccionService(t)
	cajaID := uuid.New()
	abrirArqueo(t, arqueoSvc, cajaID, decimal.Zero)
	clienteID := cRepo.agregar(nil)

	resp, err := svc.Guardar(context.Background(), dto.GuardarTransaccionRequest{
		CajaRegistradoraID: cajaID.String(),
		ClienteID:          clienteID.String(),
		Fecha:              time.Now().UTC(),
		Monto:              decimal.NewFromInt(120),
		MetodoPagoID:       uuid.New().String(),
	})
	require.NoError(t, err)
	id, err := uuid.Parse(resp.ID)
	require.NoError(t, err)

	diario := &diarioTx{}
	tRepo.diario, aRepo.diario, cRepo.diario = diario, diario, diario
	// La baja falla en el ultimo paso, con el asiento ya quitado y el saldo
	// ya descontado.
	tRepo.failActualizar = true

	_, err = svc.Eliminar(context.Background(), id)
	require.ErrorIs(t, err, ErrTransactionAbort)
	diario.revertir()

	assert.False(t, tRepo.items[id].Deleted)
	assert.Len(t, aRepo.movimientos, 1)
	assert.True(t, cRepo.items[clienteID].Saldo.Equal(decimal.NewFromInt(120)), "saldo: %s", cRepo.items[clienteID].Saldo)
}

func TestTransaccionEliminarRevierteAsientoYSaldo(t *testing.T) {
	svc, tRepo, aRepo, cRepo, arqueoSvc := armarTransaccionService(t)
	cajaID := uuid.New()
	abrirArqueo(t, arqueoSvc, cajaID, decimal.Zero)
	clienteID := cRepo.agregar(nil)

	resp, err := svc.Guardar(context.Background(), dto.GuardarTransaccionRequest{
		CajaRegistradoraID: cajaID.String(),
		ClienteID:          clienteID.String(),
		Fecha:              time.Now().UTC(),
		Monto:              decimal.NewFromInt(120),
		MetodoPagoID:       uuid.New().String(),
	})
	require.NoError(t, err)
	id, err := uuid.Parse(resp.ID)
	require.NoError(t, err)

	eliminada, err := svc.Eliminar(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, eliminada.Deleted)

	assert.True(t, tRepo.items[id].Deleted)
	assert.Empty(t, aRepo.movimientos)
	assert.True(t, cRepo.items[clienteID].Saldo.Equal(decimal.Zero), "saldo: %s", cRepo.items[clienteID].Saldo)
}

func TestTransaccionEliminarDosVeces(t *testing.T) {
	svc, _, _, cRepo, arqueoSvc := armarTransaccionService(t)
	cajaID := uuid.New()
	abrirArqueo(t, arqueoSvc, cajaID, decimal.Zero)
	clienteID := cRepo.agregar(nil)

	resp, err := svc.Guardar(context.Background(), dto.GuardarTransaccionRequest{
		CajaRegistradoraID: cajaID.String(),
		ClienteID:          clienteID.String(),
		Fecha:              time.Now().UTC(),
		Monto:              decimal.NewFromInt(15),
		MetodoPagoID:       uuid.New().String(),
	})
	require.NoError(t, err)
	id, _ := uuid.Parse(resp.ID)

	_, err = svc.Eliminar(context.Background(), id)
	require.NoError(t, err)

	_, err = svc.Eliminar(context.Background(), id)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestTransaccionEliminarSinAsientoCoincidente(t *testing.T) {
	svc, tRepo, aRepo, cRepo, arqueoSvc := armarTransaccionService(t)
	cajaID := uuid.New()

	// Registrada sin arqueo abierto: al eliminarla tampoco hay asiento que quitar.
	clienteID := cRepo.agregar(nil)
	resp, err := svc.Guardar(context.Background(), dto.GuardarTransaccionRequest{
		CajaRegistradoraID: cajaID.String(),
		ClienteID:          clienteID.String(),
		Fecha:              time.Now().UTC(),
		Monto:              decimal.NewFromInt(40),
		MetodoPagoID:       uuid.New().String(),
	})
	require.NoError(t, err)
	id, _ := uuid.Parse(resp.ID)

	abrirArqueo(t, arqueoSvc, cajaID, decimal.Zero)

	_, err = svc.Eliminar(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, tRepo.items[id].Deleted)
	assert.Empty(t, aRepo.movimientos)
}

func TestTransaccionClientesConTransacciones(t *testing.T) {
	svc, _, _, cRepo, _ := armarTransaccionService(t)
	clienteA := cRepo.agregar(nil)
	clienteB := cRepo.agregar(nil)

	for _, clienteID := range []uuid.UUID{clienteA, clienteA, clienteB} {
		_, err := svc.Guardar(context.Background(), dto.GuardarTransaccionRequest{
			CajaRegistradoraID: uuid.New().String(),
			ClienteID:          clienteID.String(),
			Fecha:              time.Now().UTC(),
			Monto:              decimal.NewFromInt(5),
			MetodoPagoID:       uuid.New().String(),
		})
		require.NoError(t, err)
	}

	clientes, err := svc.ClientesConTransacciones(context.Background())
	require.NoError(t, err)
	assert.Len(t, clientes, 2)
}
