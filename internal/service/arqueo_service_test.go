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

// diarioTx emulates the rollback the store performs when a transaction aborts:
// every Tx write on the stubs records its inverse, and the test replays them
// after a failed call. Writes made outside a transaction are not recorded, so
// a flow that mixes both leaves partial state behind and fails the assertions.
type diarioTx struct {
	deshacer []func()
}

func (d *diarioTx) anotar(f func()) {
	if d != nil {
		d.deshacer = append(d.deshacer, f)
	}
}

func (d *diarioTx) revertir() {
	for i := len(d.deshacer) - 1; i >= 0; i-- {
		d.deshacer[i]()
	}
	d.deshacer = nil
}

// arqueoRepoStub is an in-memory ArqueoRepository. Entries live in a slice so
// insertion order is preserved, matching the created_at ordering of the real
// repository.
type arqueoRepoStub struct {
	arqueos      map[uuid.UUID]*model.Arqueo
	movimientos  []model.MovimientoArqueo
	montosReales []model.ArqueoMontoReal
	diario       *diarioTx

	failCrearMovimiento bool
	failEliminar        bool
	failCrearMontos     bool
}

func newArqueoRepoStub() *arqueoRepoStub {
	return &arqueoRepoStub{arqueos: make(map[uuid.UUID]*model.Arqueo)}
}

func (r *arqueoRepoStub) DB() *gorm.DB { return nil }

func (r *arqueoRepoStub) Crear(ctx context.Context, a *model.Arqueo) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	a.CreatedAt = time.Now().UTC()
	copia := *a
	r.arqueos[a.ID] = &copia
	return nil
}

func (r *arqueoRepoStub) ObtenerPorID(ctx context.Context, id uuid.UUID) (*model.Arqueo, error) {
	a, ok := r.arqueos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return r.cargar(a), nil
}

func (r *arqueoRepoStub) BuscarAbiertoPorCaja(ctx context.Context, cajaID uuid.UUID) (*model.Arqueo, error) {
	return r.buscarAbierto(cajaID)
}

func (r *arqueoRepoStub) BuscarAbiertoPorCajaTx(tx *gorm.DB, cajaID uuid.UUID) (*model.Arqueo, error) {
	return r.buscarAbierto(cajaID)
}

func (r *arqueoRepoStub) buscarAbierto(cajaID uuid.UUID) (*model.Arqueo, error) {
	for _, a := range r.arqueos {
		if a.CajaRegistradoraID == cajaID && a.ClosedAt == nil && !a.Deleted {
			return r.cargar(a), nil
		}
	}
	return nil, nil
}

func (r *arqueoRepoStub) Listar(ctx context.Context) ([]model.Arqueo, error) {
	var out []model.Arqueo
	for _, a := range r.arqueos {
		if !a.Deleted {
			out = append(out, *r.cargar(a))
		}
	}
	return out, nil
}

func (r *arqueoRepoStub) Actualizar(ctx context.Context, id uuid.UUID, campos map[string]interface{}) error {
	return r.actualizar(id, campos)
}

func (r *arqueoRepoStub) ActualizarTx(tx *gorm.DB, id uuid.UUID, campos map[string]interface{}) error {
	if a, ok := r.arqueos[id]; ok {
		copia := *a
		r.diario.anotar(func() { *r.arqueos[id] = copia })
	}
	return r.actualizar(id, campos)
}

func (r *arqueoRepoStub) actualizar(id uuid.UUID, campos map[string]interface{}) error {
	a, ok := r.arqueos[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if v, ok := campos["closed_at"]; ok {
		t := v.(time.Time)
		a.ClosedAt = &t
	}
	if v, ok := campos["closed_by"]; ok {
		u := v.(uuid.UUID)
		a.ClosedBy = &u
	}
	if v, ok := campos["comentario"]; ok {
		s := v.(string)
		a.Comentario = &s
	}
	if v, ok := campos["deleted"]; ok {
		a.Deleted = v.(bool)
	}
	if v, ok := campos["deleted_by"]; ok {
		if u, ok := v.(uuid.UUID); ok {
			a.DeletedBy = &u
		} else {
			a.DeletedBy = nil
		}
	}
	return nil
}

func (r *arqueoRepoStub) CrearMovimiento(ctx context.Context, m *model.MovimientoArqueo) error {
	return r.crearMovimiento(m)
}

func (r *arqueoRepoStub) CrearMovimientoTx(tx *gorm.DB, m *model.MovimientoArqueo) error {
	if err := r.crearMovimiento(m); err != nil {
		return err
	}
	r.diario.anotar(func() { r.movimientos = r.movimientos[:len(r.movimientos)-1] })
	return nil
}

func (r *arqueoRepoStub) crearMovimiento(m *model.MovimientoArqueo) error {
	if r.failCrearMovimiento {
		return errors.New("conexion perdida")
	}
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.movimientos = append(r.movimientos, *m)
	return nil
}

func (r *arqueoRepoStub) EliminarPrimerMovimiento(ctx context.Context, arqueoID uuid.UUID, direccion string, target model.MovimientoArqueo) (bool, error) {
	return r.eliminarPrimero(arqueoID, direccion, target)
}

func (r *arqueoRepoStub) EliminarPrimerMovimientoTx(tx *gorm.DB, arqueoID uuid.UUID, direccion string, target model.MovimientoArqueo) (bool, error) {
	if r.failEliminar {
		return false, errors.New("conexion perdida")
	}
	for i := range r.movimientos {
		m := r.movimientos[i]
		if m.ArqueoID == arqueoID && m.Direccion == direccion && m.CoincideCon(target) {
			idx := i
			r.movimientos = append(r.movimientos[:i], r.movimientos[i+1:]...)
			r.diario.anotar(func() {
				cola := append([]model.MovimientoArqueo{m}, r.movimientos[idx:]...)
				r.movimientos = append(r.movimientos[:idx], cola...)
			})
			return true, nil
		}
	}
	return false, nil
}

func (r *arqueoRepoStub) eliminarPrimero(arqueoID uuid.UUID, direccion string, target model.MovimientoArqueo) (bool, error) {
	if r.failEliminar {
		return false, errors.New("conexion perdida")
	}
	for i := range r.movimientos {
		m := r.movimientos[i]
		if m.ArqueoID == arqueoID && m.Direccion == direccion && m.CoincideCon(target) {
			r.movimientos = append(r.movimientos[:i], r.movimientos[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (r *arqueoRepoStub) CrearMontosRealesTx(tx *gorm.DB, montos []model.ArqueoMontoReal) error {
	if r.failCrearMontos {
		return errors.New("conexion perdida")
	}
	largo := len(r.montosReales)
	r.montosReales = append(r.montosReales, montos...)
	r.diario.anotar(func() { r.montosReales = r.montosReales[:largo] })
	return nil
}

func (r *arqueoRepoStub) cargar(a *model.Arqueo) *model.Arqueo {
	copia := *a
	copia.Movimientos = nil
	for _, m := range r.movimientos {
		if m.ArqueoID == a.ID {
			copia.Movimientos = append(copia.Movimientos, m)
		}
	}
	copia.MontosReales = nil
	for _, mr := range r.montosReales {
		if mr.ArqueoID == a.ID {
			copia.MontosReales = append(copia.MontosReales, mr)
		}
	}
	return &copia
}

// ── Tests ────────────────────────────────────────────────────────────────────

func abrirArqueo(t *testing.T, svc ArqueoService, cajaID uuid.UUID, inicial decimal.Decimal) uuid.UUID {
	t.Helper()
	resp, err := svc.Abrir(context.Background(), uuid.New(), dto.AbrirArqueoRequest{
		CajaRegistradoraID: cajaID.String(),
		MontoInicial:       inicial,
	})
	require.NoError(t, err)
	id, err := uuid.Parse(resp.ID)
	require.NoError(t, err)
	return id
}

func TestArqueoAbrirRechazaSegundoAbierto(t *testing.T) {
	svc := NewArqueoService(newArqueoRepoStub(), nil, "")
	cajaID := uuid.New()

	abrirArqueo(t, svc, cajaID, decimal.NewFromInt(100))

	_, err := svc.Abrir(context.Background(), uuid.New(), dto.AbrirArqueoRequest{
		CajaRegistradoraID: cajaID.String(),
		MontoInicial:       decimal.Zero,
	})
	require.ErrorIs(t, err, ErrInvalidArgument)

	// Otra caja no se ve afectada.
	abrirArqueo(t, svc, uuid.New(), decimal.Zero)
}

func TestArqueoGetAbiertoPorCajaRechazaCajaNula(t *testing.T) {
	svc := NewArqueoService(newArqueoRepoStub(), nil, "")

	_, err := svc.GetAbiertoPorCaja(context.Background(), uuid.Nil)
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestArqueoGetAbiertoPorCajaSinArqueo(t *testing.T) {
	svc := NewArqueoService(newArqueoRepoStub(), nil, "")

	a, err := svc.GetAbiertoPorCaja(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, a)
}

func TestArqueoQuitarEliminaSoloPrimeraCoincidencia(t *testing.T) {
	repo := newArqueoRepoStub()
	svc := NewArqueoService(repo, nil, "")
	cajaID := uuid.New()
	arqueoID := abrirArqueo(t, svc, cajaID, decimal.Zero)

	metodoID := uuid.New()
	fecha := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	mov := model.MovimientoArqueo{
		MetodoPagoID: metodoID,
		Concepto:     model.ConceptoMovimientoCaja,
		Monto:        decimal.NewFromInt(50),
		Fecha:        fecha,
	}

	// Dos asientos identicos por valor.
	require.NoError(t, svc.AgregarIngreso(context.Background(), arqueoID, mov))
	require.NoError(t, svc.AgregarIngreso(context.Background(), arqueoID, mov))

	require.NoError(t, svc.QuitarIngreso(context.Background(), arqueoID, mov))
	assert.Len(t, repo.movimientos, 1)

	require.NoError(t, svc.QuitarIngreso(context.Background(), arqueoID, mov))
	assert.Empty(t, repo.movimientos)

	// Quitar sobre un arqueo sin coincidencias no es un error.
	require.NoError(t, svc.QuitarIngreso(context.Background(), arqueoID, mov))
}

func TestArqueoQuitarNoCruzaDirecciones(t *testing.T) {
	repo := newArqueoRepoStub()
	svc := NewArqueoService(repo, nil, "")
	arqueoID := abrirArqueo(t, svc, uuid.New(), decimal.Zero)

	mov := model.MovimientoArqueo{
		MetodoPagoID: uuid.New(),
		Concepto:     model.ConceptoMovimientoCaja,
		Monto:        decimal.NewFromInt(25),
		Fecha:        time.Now().UTC(),
	}
	require.NoError(t, svc.AgregarEgreso(context.Background(), arqueoID, mov))

	require.NoError(t, svc.QuitarIngreso(context.Background(), arqueoID, mov))
	assert.Len(t, repo.movimientos, 1, "el egreso no debe eliminarse al quitar un ingreso")
}

func TestArqueoCerrarCalculaDiferencia(t *testing.T) {
	repo := newArqueoRepoStub()
	svc := NewArqueoService(repo, nil, "")
	cajaID := uuid.New()
	arqueoID := abrirArqueo(t, svc, cajaID, decimal.NewFromInt(100))

	metodoID := uuid.New()
	fecha := time.Now().UTC()
	require.NoError(t, svc.AgregarIngreso(context.Background(), arqueoID, model.MovimientoArqueo{
		MetodoPagoID: metodoID, Concepto: model.ConceptoVentas,
		Monto: decimal.NewFromInt(50), Fecha: fecha,
	}))
	require.NoError(t, svc.AgregarEgreso(context.Background(), arqueoID, model.MovimientoArqueo{
		MetodoPagoID: metodoID, Concepto: model.ConceptoPagosProveedores,
		Monto: decimal.NewFromInt(30), Fecha: fecha,
	}))

	resp, err := svc.Cerrar(context.Background(), uuid.New(), dto.CerrarArqueoRequest{
		ArqueoID: arqueoID.String(),
		MontosDeclarados: []dto.MontoDeclarado{
			{MetodoPagoID: metodoID.String(), Monto: decimal.NewFromInt(110)},
		},
	})
	require.NoError(t, err)

	// esperado = 100 + 50 - 30
	assert.True(t, resp.MontoEsperado.Equal(decimal.NewFromInt(120)), "esperado: %s", resp.MontoEsperado)
	assert.True(t, resp.MontoDeclarado.Equal(decimal.NewFromInt(110)), "declarado: %s", resp.MontoDeclarado)
	assert.True(t, resp.Diferencia.Equal(decimal.NewFromInt(-10)), "diferencia: %s", resp.Diferencia)

	cerrado := repo.arqueos[arqueoID]
	require.NotNil(t, cerrado.ClosedAt)
	assert.Len(t, repo.montosReales, 1)

	// La caja queda libre para un nuevo arqueo.
	abierto, err := svc.GetAbiertoPorCaja(context.Background(), cajaID)
	require.NoError(t, err)
	assert.Nil(t, abierto)
}

func TestArqueoCerrarDosVeces(t *testing.T) {
	repo := newArqueoRepoStub()
	svc := NewArqueoService(repo, nil, "")
	arqueoID := abrirArqueo(t, svc, uuid.New(), decimal.Zero)

	req := dto.CerrarArqueoRequest{
		ArqueoID: arqueoID.String(),
		MontosDeclarados: []dto.MontoDeclarado{
			{MetodoPagoID: uuid.New().String(), Monto: decimal.Zero},
		},
	}
	_, err := svc.Cerrar(context.Background(), uuid.New(), req)
	require.NoError(t, err)

	_, err = svc.Cerrar(context.Background(), uuid.New(), req)
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestArqueoCerrarInexistente(t *testing.T) {
	svc := NewArqueoService(newArqueoRepoStub(), nil, "")

	_, err := svc.Cerrar(context.Background(), uuid.New(), dto.CerrarArqueoRequest{
		ArqueoID: uuid.New().String(),
		MontosDeclarados: []dto.MontoDeclarado{
			{MetodoPagoID: uuid.New().String(), Monto: decimal.Zero},
		},
	})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestArqueoCerrarRevierteSiFallanMontosDeclarados(t *testing.T) {
	repo := newArqueoRepoStub()
	svc := NewArqueoService(repo, nil, "")
	arqueoID := abrirArqueo(t, svc, uuid.New(), decimal.NewFromInt(10))

	diario := &diarioTx{}
	repo.diario = diario
	repo.failCrearMontos = true

	req := dto.CerrarArqueoRequest{
		ArqueoID: arqueoID.String(),
		MontosDeclarados: []dto.MontoDeclarado{
			{MetodoPagoID: uuid.New().String(), Monto: decimal.NewFromInt(10)},
		},
	}
	_, err := svc.Cerrar(context.Background(), uuid.New(), req)
	require.ErrorIs(t, err, ErrTransactionAbort)
	diario.revertir()

	// El cierre y los montos contados se persisten juntos o no se persisten.
	assert.Nil(t, repo.arqueos[arqueoID].ClosedAt)
	assert.Empty(t, repo.montosReales)

	// El arqueo sigue abierto y puede cerrarse al recuperarse el store.
	repo.failCrearMontos = false
	_, err = svc.Cerrar(context.Background(), uuid.New(), req)
	require.NoError(t, err)
}

func TestArqueoEliminarLogicoLiberaCaja(t *testing.T) {
	repo := newArqueoRepoStub()
	svc := NewArqueoService(repo, nil, "")
	cajaID := uuid.New()
	arqueoID := abrirArqueo(t, svc, cajaID, decimal.NewFromInt(10))

	usuarioID := uuid.New()
	require.NoError(t, svc.EliminarLogico(context.Background(), arqueoID, usuarioID))

	assert.True(t, repo.arqueos[arqueoID].Deleted)
	abierto, err := svc.GetAbiertoPorCaja(context.Background(), cajaID)
	require.NoError(t, err)
	assert.Nil(t, abierto)
}

func TestArqueoReporteSeparaDirecciones(t *testing.T) {
	repo := newArqueoRepoStub()
	svc := NewArqueoService(repo, nil, "")
	arqueoID := abrirArqueo(t, svc, uuid.New(), decimal.NewFromInt(5))

	metodoID := uuid.New()
	fecha := time.Now().UTC()
	require.NoError(t, svc.AgregarIngreso(context.Background(), arqueoID, model.MovimientoArqueo{
		MetodoPagoID: metodoID, Concepto: model.ConceptoCobrosClientes,
		Monto: decimal.NewFromInt(40), Fecha: fecha,
	}))
	require.NoError(t, svc.AgregarEgreso(context.Background(), arqueoID, model.MovimientoArqueo{
		MetodoPagoID: metodoID, Concepto: model.ConceptoPagosProveedores,
		Monto: decimal.NewFromInt(15), Fecha: fecha,
	}))

	rep, err := svc.ObtenerReporte(context.Background(), arqueoID)
	require.NoError(t, err)
	require.Len(t, rep.Ingresos, 1)
	require.Len(t, rep.Egresos, 1)
	assert.True(t, rep.TotalIngresos.Equal(decimal.NewFromInt(40)))
	assert.True(t, rep.TotalEgresos.Equal(decimal.NewFromInt(15)))
	assert.Equal(t, model.ConceptoCobrosClientes, rep.Ingresos[0].Concepto)
}
