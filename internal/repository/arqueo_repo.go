package repository

import (
	"context"
	"errors"

	"restopos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ArqueoRepository persists reconciliation sessions and their ledger entries.
// Entry rows are kept in insertion order (created_at, id) so that removal by
// value match always hits the first matching entry.
type ArqueoRepository interface {
	DB() *gorm.DB
	Crear(ctx context.Context, a *model.Arqueo) error
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*model.Arqueo, error)
	// BuscarAbiertoPorCaja returns (nil, nil) when the register has no open arqueo.
	BuscarAbiertoPorCaja(ctx context.Context, cajaID uuid.UUID) (*model.Arqueo, error)
	BuscarAbiertoPorCajaTx(tx *gorm.DB, cajaID uuid.UUID) (*model.Arqueo, error)
	Listar(ctx context.Context) ([]model.Arqueo, error)
	Actualizar(ctx context.Context, id uuid.UUID, campos map[string]interface{}) error
	ActualizarTx(tx *gorm.DB, id uuid.UUID, campos map[string]interface{}) error
	CrearMovimiento(ctx context.Context, m *model.MovimientoArqueo) error
	CrearMovimientoTx(tx *gorm.DB, m *model.MovimientoArqueo) error
	// EliminarPrimerMovimiento deletes the first entry (insertion order) of the
	// given direction matching target by value. Returns false when none matched.
	EliminarPrimerMovimiento(ctx context.Context, arqueoID uuid.UUID, direccion string, target model.MovimientoArqueo) (bool, error)
	EliminarPrimerMovimientoTx(tx *gorm.DB, arqueoID uuid.UUID, direccion string, target model.MovimientoArqueo) (bool, error)
	CrearMontosRealesTx(tx *gorm.DB, montos []model.ArqueoMontoReal) error
}

type arqueoRepo struct{ db *gorm.DB }

func NewArqueoRepository(db *gorm.DB) ArqueoRepository { return &arqueoRepo{db: db} }

func (r *arqueoRepo) DB() *gorm.DB { return r.db }

func (r *arqueoRepo) Crear(ctx context.Context, a *model.Arqueo) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *arqueoRepo) ObtenerPorID(ctx context.Context, id uuid.UUID) (*model.Arqueo, error) {
	var a model.Arqueo
	err := r.db.WithContext(ctx).
		Preload("Movimientos", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		Preload("MontosReales").
		First(&a, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *arqueoRepo) BuscarAbiertoPorCaja(ctx context.Context, cajaID uuid.UUID) (*model.Arqueo, error) {
	return r.buscarAbierto(r.db.WithContext(ctx), cajaID)
}

func (r *arqueoRepo) BuscarAbiertoPorCajaTx(tx *gorm.DB, cajaID uuid.UUID) (*model.Arqueo, error) {
	return r.buscarAbierto(tx, cajaID)
}

func (r *arqueoRepo) buscarAbierto(db *gorm.DB, cajaID uuid.UUID) (*model.Arqueo, error) {
	var a model.Arqueo
	err := db.
		Preload("Movimientos", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		Where("caja_registradora_id = ? AND closed_at IS NULL AND deleted = false", cajaID).
		First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *arqueoRepo) Listar(ctx context.Context) ([]model.Arqueo, error) {
	var arqueos []model.Arqueo
	err := r.db.WithContext(ctx).
		Where("deleted = false").
		Order("created_at DESC").
		Find(&arqueos).Error
	return arqueos, err
}

func (r *arqueoRepo) Actualizar(ctx context.Context, id uuid.UUID, campos map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.Arqueo{}).Where("id = ?", id).Updates(campos).Error
}

func (r *arqueoRepo) ActualizarTx(tx *gorm.DB, id uuid.UUID, campos map[string]interface{}) error {
	return tx.Model(&model.Arqueo{}).Where("id = ?", id).Updates(campos).Error
}

func (r *arqueoRepo) CrearMovimiento(ctx context.Context, m *model.MovimientoArqueo) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *arqueoRepo) CrearMovimientoTx(tx *gorm.DB, m *model.MovimientoArqueo) error {
	return tx.Create(m).Error
}

func (r *arqueoRepo) EliminarPrimerMovimiento(ctx context.Context, arqueoID uuid.UUID, direccion string, target model.MovimientoArqueo) (bool, error) {
	return r.eliminarPrimero(r.db.WithContext(ctx), arqueoID, direccion, target)
}

func (r *arqueoRepo) EliminarPrimerMovimientoTx(tx *gorm.DB, arqueoID uuid.UUID, direccion string, target model.MovimientoArqueo) (bool, error) {
	return r.eliminarPrimero(tx, arqueoID, direccion, target)
}

func (r *arqueoRepo) eliminarPrimero(db *gorm.DB, arqueoID uuid.UUID, direccion string, target model.MovimientoArqueo) (bool, error) {
	var m model.MovimientoArqueo
	err := db.
		Where("arqueo_id = ? AND direccion = ? AND metodo_pago_id = ? AND monto = ? AND concepto = ? AND fecha = ?",
			arqueoID, direccion, target.MetodoPagoID, target.Monto, target.Concepto, target.Fecha).
		Order("created_at ASC, id ASC").
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := db.Delete(&m).Error; err != nil {
		return false, err
	}
	return true, nil
}

func (r *arqueoRepo) CrearMontosRealesTx(tx *gorm.DB, montos []model.ArqueoMontoReal) error {
	if len(montos) == 0 {
		return nil
	}
	return tx.Create(&montos).Error
}
