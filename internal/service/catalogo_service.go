package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"restopos/internal/dto"
	"restopos/internal/model"
	"restopos/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// MenuService manages customer-facing menus.
type MenuService interface {
	Crear(ctx context.Context, req dto.CrearMenuRequest) (*dto.MenuResponse, error)
	Listar(ctx context.Context, soloDisponibles bool) ([]dto.MenuResponse, error)
	CambiarDisponibilidad(ctx context.Context, id uuid.UUID, disponible bool) error
}

type menuService struct {
	repo repository.MenuRepository
}

func NewMenuService(repo repository.MenuRepository) MenuService {
	return &menuService{repo: repo}
}

func (s *menuService) Crear(ctx context.Context, req dto.CrearMenuRequest) (*dto.MenuResponse, error) {
	m := &model.Menu{Nombre: req.Nombre, Disponible: true}
	if err := s.repo.Crear(ctx, m); err != nil {
		return nil, err
	}
	return &dto.MenuResponse{ID: m.ID.String(), Nombre: m.Nombre, Disponible: m.Disponible}, nil
}

func (s *menuService) Listar(ctx context.Context, soloDisponibles bool) ([]dto.MenuResponse, error) {
	menus, err := s.repo.Listar(ctx, soloDisponibles)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MenuResponse, 0, len(menus))
	for _, m := range menus {
		out = append(out, dto.MenuResponse{ID: m.ID.String(), Nombre: m.Nombre, Disponible: m.Disponible})
	}
	return out, nil
}

func (s *menuService) CambiarDisponibilidad(ctx context.Context, id uuid.UUID, disponible bool) error {
	if _, err := s.repo.ObtenerPorID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: menu no encontrado", ErrNotFound)
		}
		return err
	}
	return s.repo.Actualizar(ctx, id, map[string]interface{}{"disponible": disponible})
}

// CategoriaService manages categories. Disabling one cascades to its products
// in a single store transaction, so the customer app never sees orphaned
// available products under a hidden category.
type CategoriaService interface {
	Crear(ctx context.Context, req dto.CrearCategoriaRequest) (*dto.CategoriaResponse, error)
	ListarPorMenu(ctx context.Context, menuID uuid.UUID, soloDisponibles bool) ([]dto.CategoriaResponse, error)
	Deshabilitar(ctx context.Context, id uuid.UUID) error
	Habilitar(ctx context.Context, id uuid.UUID) error
}

type categoriaService struct {
	repo     repository.CategoriaRepository
	prodRepo repository.ProductoRepository
	cache    *catalogoCache
}

func NewCategoriaService(repo repository.CategoriaRepository, prodRepo repository.ProductoRepository, rdb *redis.Client) CategoriaService {
	return &categoriaService{repo: repo, prodRepo: prodRepo, cache: &catalogoCache{rdb: rdb}}
}

func (s *categoriaService) Crear(ctx context.Context, req dto.CrearCategoriaRequest) (*dto.CategoriaResponse, error) {
	menuID, err := uuid.Parse(req.MenuID)
	if err != nil {
		return nil, fmt.Errorf("%w: menu_id invalido", ErrInvalidArgument)
	}
	c := &model.Categoria{Nombre: req.Nombre, MenuID: menuID, Disponible: true}
	if err := s.repo.Crear(ctx, c); err != nil {
		return nil, err
	}
	return toCategoriaResponse(c), nil
}

func (s *categoriaService) ListarPorMenu(ctx context.Context, menuID uuid.UUID, soloDisponibles bool) ([]dto.CategoriaResponse, error) {
	cats, err := s.repo.ListarPorMenu(ctx, menuID, soloDisponibles)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoriaResponse, 0, len(cats))
	for i := range cats {
		out = append(out, *toCategoriaResponse(&cats[i]))
	}
	return out, nil
}

func (s *categoriaService) Deshabilitar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.obtener(ctx, id); err != nil {
		return err
	}
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.ActualizarTx(tx, id, map[string]interface{}{"disponible": false}); err != nil {
			return err
		}
		return s.prodRepo.DesactivarPorCategoriaTx(tx, id)
	})
	if txErr != nil {
		if esErrorDeDominio(txErr) {
			return txErr
		}
		return fmt.Errorf("%w: %v", ErrTransactionAbort, txErr)
	}
	s.cache.invalidar(ctx, id)
	return nil
}

// Habilitar re-enables the category only; products stay as they were so a
// re-enable does not resurrect items that were individually disabled.
func (s *categoriaService) Habilitar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.obtener(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Actualizar(ctx, id, map[string]interface{}{"disponible": true}); err != nil {
		return err
	}
	s.cache.invalidar(ctx, id)
	return nil
}

func (s *categoriaService) obtener(ctx context.Context, id uuid.UUID) (*model.Categoria, error) {
	c, err := s.repo.ObtenerPorID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: categoria no encontrada", ErrNotFound)
		}
		return nil, err
	}
	return c, nil
}

// ProductoService manages sellable items. The per-category availability list
// is the hottest read of the customer app, so it is cached in Redis with a
// short TTL and invalidated on every write.
type ProductoService interface {
	Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error)
	ListarDisponiblesPorCategoria(ctx context.Context, categoriaID uuid.UUID) ([]dto.ProductoResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error)
}

type productoService struct {
	repo  repository.ProductoRepository
	cache *catalogoCache
}

func NewProductoService(repo repository.ProductoRepository, rdb *redis.Client) ProductoService {
	return &productoService{repo: repo, cache: &catalogoCache{rdb: rdb}}
}

func (s *productoService) Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error) {
	categoriaID, err := uuid.Parse(req.CategoriaID)
	if err != nil {
		return nil, fmt.Errorf("%w: categoria_id invalido", ErrInvalidArgument)
	}
	p := &model.Producto{
		Nombre:      req.Nombre,
		Descripcion: req.Descripcion,
		CategoriaID: categoriaID,
		Precio:      req.Precio,
		Disponible:  true,
	}
	if err := s.repo.Crear(ctx, p); err != nil {
		return nil, err
	}
	s.cache.invalidar(ctx, categoriaID)
	return toProductoResponse(p), nil
}

func (s *productoService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error) {
	p, err := s.repo.ObtenerPorID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: producto no encontrado", ErrNotFound)
		}
		return nil, err
	}
	return toProductoResponse(p), nil
}

func (s *productoService) ListarDisponiblesPorCategoria(ctx context.Context, categoriaID uuid.UUID) ([]dto.ProductoResponse, error) {
	if cached, ok := s.cache.leer(ctx, categoriaID); ok {
		return cached, nil
	}

	ps, err := s.repo.ListarDisponiblesPorCategoria(ctx, categoriaID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductoResponse, 0, len(ps))
	for i := range ps {
		out = append(out, *toProductoResponse(&ps[i]))
	}

	s.cache.guardar(ctx, categoriaID, out)
	return out, nil
}

func (s *productoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error) {
	p, err := s.repo.ObtenerPorID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: producto no encontrado", ErrNotFound)
		}
		return nil, err
	}

	campos := map[string]interface{}{}
	if req.Nombre != nil {
		campos["nombre"] = *req.Nombre
	}
	if req.Descripcion != nil {
		campos["descripcion"] = *req.Descripcion
	}
	if req.Precio != nil {
		campos["precio"] = *req.Precio
	}
	if req.Disponible != nil {
		campos["disponible"] = *req.Disponible
	}
	if len(campos) > 0 {
		if err := s.repo.Actualizar(ctx, id, campos); err != nil {
			return nil, err
		}
		s.cache.invalidar(ctx, p.CategoriaID)
	}
	return s.ObtenerPorID(ctx, id)
}

// ── Cache ─────────────────────────────────────────────────────────────────────

const catalogoCacheTTL = 5 * time.Minute

// catalogoCache stores the available-products list per category as JSON.
// Cache failures degrade to database reads, never to errors.
type catalogoCache struct {
	rdb *redis.Client
}

func (c *catalogoCache) key(categoriaID uuid.UUID) string {
	return "catalogo:categoria:" + categoriaID.String()
}

func (c *catalogoCache) leer(ctx context.Context, categoriaID uuid.UUID) ([]dto.ProductoResponse, bool) {
	if c.rdb == nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, c.key(categoriaID)).Bytes()
	if err != nil {
		return nil, false
	}
	var out []dto.ProductoResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, false
	}
	return out, true
}

func (c *catalogoCache) guardar(ctx context.Context, categoriaID uuid.UUID, productos []dto.ProductoResponse) {
	if c.rdb == nil {
		return
	}
	raw, err := json.Marshal(productos)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, c.key(categoriaID), raw, catalogoCacheTTL).Err(); err != nil {
		log.Warn().Err(err).Msg("catalogo: cache write failed")
	}
}

func (c *catalogoCache) invalidar(ctx context.Context, categoriaID uuid.UUID) {
	if c.rdb == nil {
		return
	}
	if err := c.rdb.Del(ctx, c.key(categoriaID)).Err(); err != nil {
		log.Warn().Err(err).Msg("catalogo: cache invalidation failed")
	}
}

func toCategoriaResponse(c *model.Categoria) *dto.CategoriaResponse {
	return &dto.CategoriaResponse{
		ID:         c.ID.String(),
		Nombre:     c.Nombre,
		MenuID:     c.MenuID.String(),
		Disponible: c.Disponible,
	}
}

func toProductoResponse(p *model.Producto) *dto.ProductoResponse {
	return &dto.ProductoResponse{
		ID:          p.ID.String(),
		Nombre:      p.Nombre,
		Descripcion: p.Descripcion,
		CategoriaID: p.CategoriaID.String(),
		Precio:      p.Precio,
		Disponible:  p.Disponible,
	}
}
