package handler

import (
	"net/http"

	"restopos/internal/apierror"
	"restopos/internal/model"
	"restopos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CajaHandler struct{ svc service.CajaService }

func NewCajaHandler(svc service.CajaService) *CajaHandler { return &CajaHandler{svc: svc} }

func (h *CajaHandler) CrearCaja(c *gin.Context) {
	var req struct {
		Nombre string `json:"nombre" validate:"required"`
	}
	if !bindAndValidate(c, &req) {
		return
	}
	caja, err := h.svc.CrearCaja(c.Request.Context(), req.Nombre)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toCajaJSON(caja))
}

func (h *CajaHandler) ListarCajas(c *gin.Context) {
	cajas, err := h.svc.ListarCajas(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]gin.H, 0, len(cajas))
	for i := range cajas {
		out = append(out, toCajaJSON(&cajas[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (h *CajaHandler) CambiarDisponibilidad(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req struct {
		Disponible *bool `json:"disponible" validate:"required"`
	}
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.CambiarDisponibilidad(c.Request.Context(), id, *req.Disponible); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CajaHandler) CrearMetodoPago(c *gin.Context) {
	var req struct {
		Nombre string `json:"nombre" validate:"required"`
	}
	if !bindAndValidate(c, &req) {
		return
	}
	metodo, err := h.svc.CrearMetodoPago(c.Request.Context(), req.Nombre)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"id":         metodo.ID.String(),
		"nombre":     metodo.Nombre,
		"disponible": metodo.Disponible,
	})
}

func (h *CajaHandler) ListarMetodosPago(c *gin.Context) {
	metodos, err := h.svc.ListarMetodosPago(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]gin.H, 0, len(metodos))
	for _, m := range metodos {
		out = append(out, gin.H{
			"id":         m.ID.String(),
			"nombre":     m.Nombre,
			"disponible": m.Disponible,
		})
	}
	c.JSON(http.StatusOK, out)
}

func toCajaJSON(caja *model.CajaRegistradora) gin.H {
	return gin.H{
		"id":         caja.ID.String(),
		"nombre":     caja.Nombre,
		"disponible": caja.Disponible,
	}
}
