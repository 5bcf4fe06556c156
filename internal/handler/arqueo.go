package handler

import (
	"net/http"

	"restopos/internal/apierror"
	"restopos/internal/dto"
	"restopos/internal/middleware"
	"restopos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ArqueoHandler struct{ svc service.ArqueoService }

func NewArqueoHandler(svc service.ArqueoService) *ArqueoHandler { return &ArqueoHandler{svc: svc} }

func (h *ArqueoHandler) Abrir(c *gin.Context) {
	var req dto.AbrirArqueoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Abrir(c.Request.Context(), usuarioID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ArqueoHandler) Cerrar(c *gin.Context) {
	var req dto.CerrarArqueoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Cerrar(c.Request.Context(), usuarioID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetAbiertoPorCaja returns the open arqueo of a register, 404 when none.
func (h *ArqueoHandler) GetAbiertoPorCaja(c *gin.Context) {
	cajaID, err := uuid.Parse(c.Param("cajaId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID de caja invalido"))
		return
	}
	arqueo, err := h.svc.GetAbiertoPorCaja(c.Request.Context(), cajaID)
	if err != nil {
		respondError(c, err)
		return
	}
	if arqueo == nil {
		c.JSON(http.StatusNotFound, apierror.New("La caja no tiene un arqueo abierto"))
		return
	}
	resp, err := h.svc.ObtenerReporte(c.Request.Context(), arqueo.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ArqueoHandler) ObtenerReporte(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.ObtenerReporte(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ArqueoHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ArqueoHandler) Eliminar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	if err := h.svc.EliminarLogico(c.Request.Context(), id, usuarioID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
