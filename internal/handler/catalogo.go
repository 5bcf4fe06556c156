package handler

import (
	"net/http"
	"strconv"

	"restopos/internal/apierror"
	"restopos/internal/dto"
	"restopos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CatalogoHandler struct {
	menus      service.MenuService
	categorias service.CategoriaService
	productos  service.ProductoService
}

func NewCatalogoHandler(menus service.MenuService, categorias service.CategoriaService, productos service.ProductoService) *CatalogoHandler {
	return &CatalogoHandler{menus: menus, categorias: categorias, productos: productos}
}

// ── Menus ─────────────────────────────────────────────────────────────────────

func (h *CatalogoHandler) CrearMenu(c *gin.Context) {
	var req dto.CrearMenuRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.menus.Crear(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CatalogoHandler) ListarMenus(c *gin.Context) {
	soloDisponibles, _ := strconv.ParseBool(c.DefaultQuery("disponibles", "false"))
	resp, err := h.menus.Listar(c.Request.Context(), soloDisponibles)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CatalogoHandler) CambiarDisponibilidadMenu(c *gin.Context) {
	id, err := uuid.Parse(c.Param("menuId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var body struct {
		Disponible *bool `json:"disponible" validate:"required"`
	}
	if !bindAndValidate(c, &body) {
		return
	}
	if err := h.menus.CambiarDisponibilidad(c.Request.Context(), id, *body.Disponible); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ── Categorias ────────────────────────────────────────────────────────────────

func (h *CatalogoHandler) CrearCategoria(c *gin.Context) {
	var req dto.CrearCategoriaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.categorias.Crear(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CatalogoHandler) ListarCategorias(c *gin.Context) {
	menuID, err := uuid.Parse(c.Param("menuId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID de menu invalido"))
		return
	}
	soloDisponibles, _ := strconv.ParseBool(c.DefaultQuery("disponibles", "false"))
	resp, err := h.categorias.ListarPorMenu(c.Request.Context(), menuID, soloDisponibles)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DeshabilitarCategoria also disables every product of the category, atomically.
func (h *CatalogoHandler) DeshabilitarCategoria(c *gin.Context) {
	id, err := uuid.Parse(c.Param("categoriaId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	if err := h.categorias.Deshabilitar(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CatalogoHandler) HabilitarCategoria(c *gin.Context) {
	id, err := uuid.Parse(c.Param("categoriaId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	if err := h.categorias.Habilitar(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ── Productos ─────────────────────────────────────────────────────────────────

func (h *CatalogoHandler) CrearProducto(c *gin.Context) {
	var req dto.CrearProductoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.productos.Crear(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CatalogoHandler) ObtenerProducto(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.productos.ObtenerPorID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CatalogoHandler) ListarProductosPorCategoria(c *gin.Context) {
	categoriaID, err := uuid.Parse(c.Param("categoriaId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID de categoria invalido"))
		return
	}
	resp, err := h.productos.ListarDisponiblesPorCategoria(c.Request.Context(), categoriaID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CatalogoHandler) ActualizarProducto(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.ActualizarProductoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.productos.Actualizar(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
