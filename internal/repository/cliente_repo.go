package repository

import (
	"context"

	"restopos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ClienteRepository persists customers. Balance updates expose a Tx variant
// because TransaccionService mutates the balance inside its store transaction.
type ClienteRepository interface {
	Crear(ctx context.Context, c *model.Cliente) error
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*model.Cliente, error)
	ObtenerPorIDTx(tx *gorm.DB, id uuid.UUID) (*model.Cliente, error)
	Listar(ctx context.Context) ([]model.Cliente, error)
	Actualizar(ctx context.Context, id uuid.UUID, campos map[string]interface{}) error
	ActualizarTx(tx *gorm.DB, id uuid.UUID, campos map[string]interface{}) error
	Desactivar(ctx context.Context, id uuid.UUID) error
}

type clienteRepo struct{ db *gorm.DB }

func NewClienteRepository(db *gorm.DB) ClienteRepository { return &clienteRepo{db: db} }

func (r *clienteRepo) Crear(ctx context.Context, c *model.Cliente) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *clienteRepo) ObtenerPorID(ctx context.Context, id uuid.UUID) (*model.Cliente, error) {
	return r.obtener(r.db.WithContext(ctx), id)
}

func (r *clienteRepo) ObtenerPorIDTx(tx *gorm.DB, id uuid.UUID) (*model.Cliente, error) {
	return r.obtener(tx, id)
}

func (r *clienteRepo) obtener(db *gorm.DB, id uuid.UUID) (*model.Cliente, error) {
	var c model.Cliente
	if err := db.First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *clienteRepo) Listar(ctx context.Context) ([]model.Cliente, error) {
	var clientes []model.Cliente
	err := r.db.WithContext(ctx).Where("activo = true").Order("nombre ASC").Find(&clientes).Error
	return clientes, err
}

func (r *clienteRepo) Actualizar(ctx context.Context, id uuid.UUID, campos map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.Cliente{}).Where("id = ?", id).Updates(campos).Error
}

func (r *clienteRepo) ActualizarTx(tx *gorm.DB, id uuid.UUID, campos map[string]interface{}) error {
	return tx.Model(&model.Cliente{}).Where("id = ?", id).Updates(campos).Error
}

func (r *clienteRepo) Desactivar(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Cliente{}).Where("id = ?", id).Update("activo", false).Error
}
