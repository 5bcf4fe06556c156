package repository

import (
	"context"

	"restopos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProveedorRepository persists suppliers and their payments. Payment creation
// and balance updates run inside ProveedorService's store transaction.
type ProveedorRepository interface {
	DB() *gorm.DB
	Crear(ctx context.Context, p *model.Proveedor) error
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*model.Proveedor, error)
	ObtenerPorIDTx(tx *gorm.DB, id uuid.UUID) (*model.Proveedor, error)
	Listar(ctx context.Context) ([]model.Proveedor, error)
	Actualizar(ctx context.Context, id uuid.UUID, campos map[string]interface{}) error
	ActualizarTx(tx *gorm.DB, id uuid.UUID, campos map[string]interface{}) error

	CrearPagoTx(tx *gorm.DB, pago *model.PagoProveedor) error
	ListarPagos(ctx context.Context, proveedorID uuid.UUID) ([]model.PagoProveedor, error)
}

type proveedorRepo struct{ db *gorm.DB }

func NewProveedorRepository(db *gorm.DB) ProveedorRepository { return &proveedorRepo{db: db} }

func (r *proveedorRepo) DB() *gorm.DB { return r.db }

func (r *proveedorRepo) Crear(ctx context.Context, p *model.Proveedor) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *proveedorRepo) ObtenerPorID(ctx context.Context, id uuid.UUID) (*model.Proveedor, error) {
	return r.obtener(r.db.WithContext(ctx), id)
}

func (r *proveedorRepo) ObtenerPorIDTx(tx *gorm.DB, id uuid.UUID) (*model.Proveedor, error) {
	return r.obtener(tx, id)
}

func (r *proveedorRepo) obtener(db *gorm.DB, id uuid.UUID) (*model.Proveedor, error) {
	var p model.Proveedor
	if err := db.First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *proveedorRepo) Listar(ctx context.Context) ([]model.Proveedor, error) {
	var ps []model.Proveedor
	err := r.db.WithContext(ctx).Where("activo = true").Order("razon_social ASC").Find(&ps).Error
	return ps, err
}

func (r *proveedorRepo) Actualizar(ctx context.Context, id uuid.UUID, campos map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.Proveedor{}).Where("id = ?", id).Updates(campos).Error
}

func (r *proveedorRepo) ActualizarTx(tx *gorm.DB, id uuid.UUID, campos map[string]interface{}) error {
	return tx.Model(&model.Proveedor{}).Where("id = ?", id).Updates(campos).Error
}

func (r *proveedorRepo) CrearPagoTx(tx *gorm.DB, pago *model.PagoProveedor) error {
	return tx.Create(pago).Error
}

func (r *proveedorRepo) ListarPagos(ctx context.Context, proveedorID uuid.UUID) ([]model.PagoProveedor, error) {
	var pagos []model.PagoProveedor
	err := r.db.WithContext(ctx).
		Where("proveedor_id = ? AND deleted = false", proveedorID).
		Order("fecha DESC").
		Find(&pagos).Error
	return pagos, err
}
