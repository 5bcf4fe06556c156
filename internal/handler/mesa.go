package handler

import (
	"net/http"

	"restopos/internal/apierror"
	"restopos/internal/dto"
	"restopos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type MesaHandler struct{ svc service.MesaService }

func NewMesaHandler(svc service.MesaService) *MesaHandler { return &MesaHandler{svc: svc} }

func (h *MesaHandler) CrearSector(c *gin.Context) {
	var req dto.CrearSectorRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CrearSector(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *MesaHandler) ListarSectores(c *gin.Context) {
	resp, err := h.svc.ListarSectores(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *MesaHandler) CrearMesa(c *gin.Context) {
	var req dto.CrearMesaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CrearMesa(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *MesaHandler) ListarMesasPorSector(c *gin.Context) {
	sectorID, err := uuid.Parse(c.Param("sectorId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID de sector invalido"))
		return
	}
	resp, err := h.svc.ListarMesasPorSector(c.Request.Context(), sectorID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *MesaHandler) CambiarEstado(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var body struct {
		Estado string `json:"estado" validate:"required"`
	}
	if !bindAndValidate(c, &body) {
		return
	}
	if err := h.svc.CambiarEstado(c.Request.Context(), id, body.Estado); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
