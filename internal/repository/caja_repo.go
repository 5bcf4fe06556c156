package repository

import (
	"context"

	"restopos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CajaRepository persists physical registers and payment methods.
type CajaRepository interface {
	CrearCaja(ctx context.Context, c *model.CajaRegistradora) error
	ObtenerCaja(ctx context.Context, id uuid.UUID) (*model.CajaRegistradora, error)
	ListarCajas(ctx context.Context) ([]model.CajaRegistradora, error)
	ActualizarCaja(ctx context.Context, id uuid.UUID, campos map[string]interface{}) error

	CrearMetodoPago(ctx context.Context, m *model.MetodoPago) error
	ListarMetodosPago(ctx context.Context) ([]model.MetodoPago, error)
}

type cajaRepo struct{ db *gorm.DB }

func NewCajaRepository(db *gorm.DB) CajaRepository { return &cajaRepo{db: db} }

func (r *cajaRepo) CrearCaja(ctx context.Context, c *model.CajaRegistradora) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *cajaRepo) ObtenerCaja(ctx context.Context, id uuid.UUID) (*model.CajaRegistradora, error) {
	var c model.CajaRegistradora
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *cajaRepo) ListarCajas(ctx context.Context) ([]model.CajaRegistradora, error) {
	var cajas []model.CajaRegistradora
	err := r.db.WithContext(ctx).Order("nombre ASC").Find(&cajas).Error
	return cajas, err
}

func (r *cajaRepo) ActualizarCaja(ctx context.Context, id uuid.UUID, campos map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.CajaRegistradora{}).Where("id = ?", id).Updates(campos).Error
}

func (r *cajaRepo) CrearMetodoPago(ctx context.Context, m *model.MetodoPago) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *cajaRepo) ListarMetodosPago(ctx context.Context) ([]model.MetodoPago, error) {
	var metodos []model.MetodoPago
	err := r.db.WithContext(ctx).Where("disponible = true").Order("nombre ASC").Find(&metodos).Error
	return metodos, err
}
