package repository

import (
	"context"

	"restopos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CategoriaRepository persists menu categories. The Tx variants exist for the
// disable-category-with-products cascade, which must commit atomically.
type CategoriaRepository interface {
	DB() *gorm.DB
	Crear(ctx context.Context, c *model.Categoria) error
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*model.Categoria, error)
	ListarPorMenu(ctx context.Context, menuID uuid.UUID, soloDisponibles bool) ([]model.Categoria, error)
	Actualizar(ctx context.Context, id uuid.UUID, campos map[string]interface{}) error
	ActualizarTx(tx *gorm.DB, id uuid.UUID, campos map[string]interface{}) error
}

type categoriaRepo struct{ db *gorm.DB }

func NewCategoriaRepository(db *gorm.DB) CategoriaRepository { return &categoriaRepo{db: db} }

func (r *categoriaRepo) DB() *gorm.DB { return r.db }

func (r *categoriaRepo) Crear(ctx context.Context, c *model.Categoria) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *categoriaRepo) ObtenerPorID(ctx context.Context, id uuid.UUID) (*model.Categoria, error) {
	var c model.Categoria
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *categoriaRepo) ListarPorMenu(ctx context.Context, menuID uuid.UUID, soloDisponibles bool) ([]model.Categoria, error) {
	q := r.db.WithContext(ctx).Where("menu_id = ?", menuID)
	if soloDisponibles {
		q = q.Where("disponible = true")
	}
	var cats []model.Categoria
	err := q.Order("nombre ASC").Find(&cats).Error
	return cats, err
}

func (r *categoriaRepo) Actualizar(ctx context.Context, id uuid.UUID, campos map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.Categoria{}).Where("id = ?", id).Updates(campos).Error
}

func (r *categoriaRepo) ActualizarTx(tx *gorm.DB, id uuid.UUID, campos map[string]interface{}) error {
	return tx.Model(&model.Categoria{}).Where("id = ?", id).Updates(campos).Error
}

// ProductoRepository persists sellable menu items.
type ProductoRepository interface {
	Crear(ctx context.Context, p *model.Producto) error
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*model.Producto, error)
	Listar(ctx context.Context) ([]model.Producto, error)
	ListarDisponiblesPorCategoria(ctx context.Context, categoriaID uuid.UUID) ([]model.Producto, error)
	Actualizar(ctx context.Context, id uuid.UUID, campos map[string]interface{}) error
	DesactivarPorCategoriaTx(tx *gorm.DB, categoriaID uuid.UUID) error
}

type productoRepo struct{ db *gorm.DB }

func NewProductoRepository(db *gorm.DB) ProductoRepository { return &productoRepo{db: db} }

func (r *productoRepo) Crear(ctx context.Context, p *model.Producto) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productoRepo) ObtenerPorID(ctx context.Context, id uuid.UUID) (*model.Producto, error) {
	var p model.Producto
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productoRepo) Listar(ctx context.Context) ([]model.Producto, error) {
	var ps []model.Producto
	err := r.db.WithContext(ctx).Order("nombre ASC").Find(&ps).Error
	return ps, err
}

func (r *productoRepo) ListarDisponiblesPorCategoria(ctx context.Context, categoriaID uuid.UUID) ([]model.Producto, error) {
	var ps []model.Producto
	err := r.db.WithContext(ctx).
		Where("categoria_id = ? AND disponible = true", categoriaID).
		Order("nombre ASC").
		Find(&ps).Error
	return ps, err
}

func (r *productoRepo) Actualizar(ctx context.Context, id uuid.UUID, campos map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.Producto{}).Where("id = ?", id).Updates(campos).Error
}

func (r *productoRepo) DesactivarPorCategoriaTx(tx *gorm.DB, categoriaID uuid.UUID) error {
	return tx.Model(&model.Producto{}).Where("categoria_id = ?", categoriaID).Update("disponible", false).Error
}

// MenuRepository persists menus.
type MenuRepository interface {
	Crear(ctx context.Context, m *model.Menu) error
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*model.Menu, error)
	Listar(ctx context.Context, soloDisponibles bool) ([]model.Menu, error)
	Actualizar(ctx context.Context, id uuid.UUID, campos map[string]interface{}) error
}

type menuRepo struct{ db *gorm.DB }

func NewMenuRepository(db *gorm.DB) MenuRepository { return &menuRepo{db: db} }

func (r *menuRepo) Crear(ctx context.Context, m *model.Menu) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *menuRepo) ObtenerPorID(ctx context.Context, id uuid.UUID) (*model.Menu, error) {
	var m model.Menu
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *menuRepo) Listar(ctx context.Context, soloDisponibles bool) ([]model.Menu, error) {
	q := r.db.WithContext(ctx)
	if soloDisponibles {
		q = q.Where("disponible = true")
	}
	var menus []model.Menu
	err := q.Order("nombre ASC").Find(&menus).Error
	return menus, err
}

func (r *menuRepo) Actualizar(ctx context.Context, id uuid.UUID, campos map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.Menu{}).Where("id = ?", id).Updates(campos).Error
}
