package handler

import (
	"net/http"
	"time"

	"restopos/internal/apierror"
	"restopos/internal/dto"
	"restopos/internal/middleware"
	"restopos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CashFlowHandler struct{ svc service.CashFlowService }

func NewCashFlowHandler(svc service.CashFlowService) *CashFlowHandler {
	return &CashFlowHandler{svc: svc}
}

func (h *CashFlowHandler) Guardar(c *gin.Context) {
	var req dto.GuardarCashFlowRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Guardar(c.Request.Context(), usuarioID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CashFlowHandler) Listar(c *gin.Context) {
	resp, err := h.svc.GetAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CashFlowHandler) ObtenerPorID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.GetPorID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListarPorCaja filters by register and optional ?desde=RFC3339 timestamp.
func (h *CashFlowHandler) ListarPorCaja(c *gin.Context) {
	cajaID, err := uuid.Parse(c.Param("cajaId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID de caja invalido"))
		return
	}
	desde := time.Time{}
	if raw := c.Query("desde"); raw != "" {
		desde, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("desde debe ser una fecha RFC3339"))
			return
		}
	}
	resp, err := h.svc.GetPorCajaYFecha(c.Request.Context(), cajaID, desde)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CashFlowHandler) PrimeroPorCaja(c *gin.Context) {
	cajaID, err := uuid.Parse(c.Param("cajaId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID de caja invalido"))
		return
	}
	resp, err := h.svc.GetPrimeroPorCaja(c.Request.Context(), cajaID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CashFlowHandler) Actualizar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var campos map[string]interface{}
	if err := c.ShouldBindJSON(&campos); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), id, campos)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CashFlowHandler) Eliminar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.EliminarLogico(c.Request.Context(), id, usuarioID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
