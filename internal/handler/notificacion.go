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

type NotificacionHandler struct {
	svc            service.NotificacionService
	vapidPublicKey string
}

func NewNotificacionHandler(svc service.NotificacionService, vapidPublicKey string) *NotificacionHandler {
	return &NotificacionHandler{svc: svc, vapidPublicKey: vapidPublicKey}
}

// VAPIDPublicKey hands the browser the key it needs to subscribe.
func (h *NotificacionHandler) VAPIDPublicKey(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"public_key": h.vapidPublicKey})
}

func (h *NotificacionHandler) Suscribir(c *gin.Context) {
	var req dto.SuscribirRequest
	if !bindAndValidate(c, &req) {
		return
	}
	var usuarioID *uuid.UUID
	if claims := middleware.GetClaims(c); claims != nil {
		if id, err := uuid.Parse(claims.UserID); err == nil {
			usuarioID = &id
		}
	}
	if err := h.svc.Suscribir(c.Request.Context(), usuarioID, req); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusCreated)
}

func (h *NotificacionHandler) Desuscribir(c *gin.Context) {
	var req struct {
		Endpoint string `json:"endpoint" validate:"required,url"`
	}
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.Desuscribir(c.Request.Context(), req.Endpoint); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Enviar queues an ad-hoc broadcast (supervisor announcements).
func (h *NotificacionHandler) Enviar(c *gin.Context) {
	var req dto.EnviarNotificacionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.Enviar(c.Request.Context(), req); err != nil {
		c.JSON(http.StatusServiceUnavailable, apierror.New("No se pudo encolar la notificacion"))
		return
	}
	c.Status(http.StatusAccepted)
}
