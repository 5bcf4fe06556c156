package handler

import (
	"net/http"
	"time"

	"restopos/internal/apierror"
	"restopos/internal/dto"
	"restopos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type TransaccionHandler struct{ svc service.TransaccionService }

func NewTransaccionHandler(svc service.TransaccionService) *TransaccionHandler {
	return &TransaccionHandler{svc: svc}
}

func (h *TransaccionHandler) Guardar(c *gin.Context) {
	var req dto.GuardarTransaccionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Guardar(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *TransaccionHandler) Eliminar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.Eliminar(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *TransaccionHandler) Listar(c *gin.Context) {
	if raw := c.Query("desde"); raw != "" {
		desde, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("desde debe ser una fecha RFC3339"))
			return
		}
		resp, err := h.svc.GetPorFecha(c.Request.Context(), desde)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)
		return
	}
	resp, err := h.svc.GetAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *TransaccionHandler) ObtenerPorID(c *gin.Context) {
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

func (h *TransaccionHandler) PrimeraPorCaja(c *gin.Context) {
	cajaID, err := uuid.Parse(c.Param("cajaId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID de caja invalido"))
		return
	}
	resp, err := h.svc.GetPrimeraPorCaja(c.Request.Context(), cajaID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ClientesConTransacciones lists distinct clients holding at least one payment.
func (h *TransaccionHandler) ClientesConTransacciones(c *gin.Context) {
	clientes, err := h.svc.ClientesConTransacciones(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]gin.H, 0, len(clientes))
	for _, cl := range clientes {
		out = append(out, gin.H{"id": cl.ID.String(), "nombre": cl.Nombre})
	}
	c.JSON(http.StatusOK, out)
}
