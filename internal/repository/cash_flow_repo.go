package repository

import (
	"context"
	"time"

	"restopos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CashFlowRepository persists manual cash movements. Physical removal exists
// only as the compensating action for a failed projection.
type CashFlowRepository interface {
	Crear(ctx context.Context, cf *model.CashFlow) error
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*model.CashFlow, error)
	Listar(ctx context.Context) ([]model.CashFlow, error)
	BuscarPorCajaYFecha(ctx context.Context, cajaID uuid.UUID, desde time.Time) ([]model.CashFlow, error)
	PrimeroPorCaja(ctx context.Context, cajaID uuid.UUID) (*model.CashFlow, error)
	// Actualizar applies the patch and returns the updated record.
	Actualizar(ctx context.Context, id uuid.UUID, campos map[string]interface{}) (*model.CashFlow, error)
	EliminarFisico(ctx context.Context, id uuid.UUID) error
}

type cashFlowRepo struct{ db *gorm.DB }

func NewCashFlowRepository(db *gorm.DB) CashFlowRepository { return &cashFlowRepo{db: db} }

func (r *cashFlowRepo) Crear(ctx context.Context, cf *model.CashFlow) error {
	return r.db.WithContext(ctx).Create(cf).Error
}

func (r *cashFlowRepo) ObtenerPorID(ctx context.Context, id uuid.UUID) (*model.CashFlow, error) {
	var cf model.CashFlow
	if err := r.db.WithContext(ctx).First(&cf, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &cf, nil
}

func (r *cashFlowRepo) Listar(ctx context.Context) ([]model.CashFlow, error) {
	var cfs []model.CashFlow
	err := r.db.WithContext(ctx).Order("fecha DESC").Find(&cfs).Error
	return cfs, err
}

func (r *cashFlowRepo) BuscarPorCajaYFecha(ctx context.Context, cajaID uuid.UUID, desde time.Time) ([]model.CashFlow, error) {
	var cfs []model.CashFlow
	err := r.db.WithContext(ctx).
		Where("caja_registradora_id = ? AND deleted = false AND fecha >= ?", cajaID, desde).
		Order("fecha ASC").
		Find(&cfs).Error
	return cfs, err
}

func (r *cashFlowRepo) PrimeroPorCaja(ctx context.Context, cajaID uuid.UUID) (*model.CashFlow, error) {
	var cf model.CashFlow
	if err := r.db.WithContext(ctx).Where("caja_registradora_id = ?", cajaID).First(&cf).Error; err != nil {
		return nil, err
	}
	return &cf, nil
}

func (r *cashFlowRepo) Actualizar(ctx context.Context, id uuid.UUID, campos map[string]interface{}) (*model.CashFlow, error) {
	if err := r.db.WithContext(ctx).Model(&model.CashFlow{}).Where("id = ?", id).Updates(campos).Error; err != nil {
		return nil, err
	}
	return r.ObtenerPorID(ctx, id)
}

func (r *cashFlowRepo) EliminarFisico(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.CashFlow{}, "id = ?", id).Error
}
