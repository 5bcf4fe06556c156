package repository

import (
	"context"
	"time"

	"restopos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TransaccionRepository persists client accounts-receivable payments. Write
// operations expose Tx variants because TransaccionService commits them
// together with arqueo and client mutations in one store transaction.
type TransaccionRepository interface {
	DB() *gorm.DB
	CrearTx(tx *gorm.DB, t *model.Transaccion) error
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*model.Transaccion, error)
	ObtenerPorIDTx(tx *gorm.DB, id uuid.UUID) (*model.Transaccion, error)
	Listar(ctx context.Context) ([]model.Transaccion, error)
	ListarPorFecha(ctx context.Context, desde time.Time) ([]model.Transaccion, error)
	PrimeraPorCaja(ctx context.Context, cajaID uuid.UUID) (*model.Transaccion, error)
	ClientesDistintos(ctx context.Context) ([]uuid.UUID, error)
	ActualizarTx(tx *gorm.DB, id uuid.UUID, campos map[string]interface{}) error
}

type transaccionRepo struct{ db *gorm.DB }

func NewTransaccionRepository(db *gorm.DB) TransaccionRepository { return &transaccionRepo{db: db} }

func (r *transaccionRepo) DB() *gorm.DB { return r.db }

func (r *transaccionRepo) CrearTx(tx *gorm.DB, t *model.Transaccion) error {
	return tx.Create(t).Error
}

func (r *transaccionRepo) ObtenerPorID(ctx context.Context, id uuid.UUID) (*model.Transaccion, error) {
	return r.obtener(r.db.WithContext(ctx), id)
}

func (r *transaccionRepo) ObtenerPorIDTx(tx *gorm.DB, id uuid.UUID) (*model.Transaccion, error) {
	return r.obtener(tx, id)
}

func (r *transaccionRepo) obtener(db *gorm.DB, id uuid.UUID) (*model.Transaccion, error) {
	var t model.Transaccion
	if err := db.First(&t, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *transaccionRepo) Listar(ctx context.Context) ([]model.Transaccion, error) {
	var ts []model.Transaccion
	err := r.db.WithContext(ctx).Where("deleted = false").Order("fecha DESC").Find(&ts).Error
	return ts, err
}

func (r *transaccionRepo) ListarPorFecha(ctx context.Context, desde time.Time) ([]model.Transaccion, error) {
	var ts []model.Transaccion
	err := r.db.WithContext(ctx).Where("fecha >= ?", desde).Order("fecha DESC").Find(&ts).Error
	return ts, err
}

func (r *transaccionRepo) PrimeraPorCaja(ctx context.Context, cajaID uuid.UUID) (*model.Transaccion, error) {
	var t model.Transaccion
	err := r.db.WithContext(ctx).Where("caja_registradora_id = ?", cajaID).Limit(1).First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *transaccionRepo) ClientesDistintos(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&model.Transaccion{}).
		Where("deleted = false").
		Distinct("cliente_id").
		Pluck("cliente_id", &ids).Error
	return ids, err
}

func (r *transaccionRepo) ActualizarTx(tx *gorm.DB, id uuid.UUID, campos map[string]interface{}) error {
	return tx.Model(&model.Transaccion{}).Where("id = ?", id).Updates(campos).Error
}
