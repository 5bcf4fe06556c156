package repository

import (
	"context"

	"restopos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PedidoRepository persists table orders.
type PedidoRepository interface {
	DB() *gorm.DB
	Crear(ctx context.Context, p *model.Pedido) error
	CrearTx(tx *gorm.DB, p *model.Pedido) error
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*model.Pedido, error)
	ListarAbiertos(ctx context.Context) ([]model.Pedido, error)
	AbiertoPorMesa(ctx context.Context, mesaID uuid.UUID) (*model.Pedido, error)
	AgregarItems(ctx context.Context, items []model.PedidoItem) error
	AgregarItemsTx(tx *gorm.DB, items []model.PedidoItem) error
	ActualizarTx(tx *gorm.DB, id uuid.UUID, campos map[string]interface{}) error
	CrearPagosTx(tx *gorm.DB, pagos []model.PedidoPago) error
	// NextNumero reserves the next order number inside the transaction.
	NextNumero(tx *gorm.DB) (int, error)
}

type pedidoRepo struct{ db *gorm.DB }

func NewPedidoRepository(db *gorm.DB) PedidoRepository { return &pedidoRepo{db: db} }

func (r *pedidoRepo) DB() *gorm.DB { return r.db }

func (r *pedidoRepo) Crear(ctx context.Context, p *model.Pedido) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *pedidoRepo) CrearTx(tx *gorm.DB, p *model.Pedido) error {
	return tx.Create(p).Error
}

func (r *pedidoRepo) ObtenerPorID(ctx context.Context, id uuid.UUID) (*model.Pedido, error) {
	var p model.Pedido
	err := r.db.WithContext(ctx).
		Preload("Items.Producto").
		Preload("Pagos").
		First(&p, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *pedidoRepo) ListarAbiertos(ctx context.Context) ([]model.Pedido, error) {
	var ps []model.Pedido
	err := r.db.WithContext(ctx).
		Preload("Items.Producto").
		Where("estado = ?", model.PedidoAbierto).
		Order("created_at ASC").
		Find(&ps).Error
	return ps, err
}

func (r *pedidoRepo) AbiertoPorMesa(ctx context.Context, mesaID uuid.UUID) (*model.Pedido, error) {
	var p model.Pedido
	err := r.db.WithContext(ctx).
		Preload("Items.Producto").
		Where("mesa_id = ? AND estado = ?", mesaID, model.PedidoAbierto).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *pedidoRepo) AgregarItems(ctx context.Context, items []model.PedidoItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *pedidoRepo) AgregarItemsTx(tx *gorm.DB, items []model.PedidoItem) error {
	if len(items) == 0 {
		return nil
	}
	return tx.Create(&items).Error
}

func (r *pedidoRepo) ActualizarTx(tx *gorm.DB, id uuid.UUID, campos map[string]interface{}) error {
	return tx.Model(&model.Pedido{}).Where("id = ?", id).Updates(campos).Error
}

func (r *pedidoRepo) CrearPagosTx(tx *gorm.DB, pagos []model.PedidoPago) error {
	if len(pagos) == 0 {
		return nil
	}
	return tx.Create(&pagos).Error
}

func (r *pedidoRepo) NextNumero(tx *gorm.DB) (int, error) {
	var next int
	err := tx.Raw("SELECT COALESCE(MAX(numero), 0) + 1 FROM pedidos").Scan(&next).Error
	return next, err
}
