package service

import (
	"context"

	"restopos/internal/dto"
	"restopos/internal/model"
	"restopos/internal/repository"
	"restopos/internal/worker"

	"github.com/google/uuid"
)

// NotificacionService registers Web Push subscriptions and lets supervisors
// broadcast ad-hoc announcements. Actual delivery happens in the worker pool.
type NotificacionService interface {
	Suscribir(ctx context.Context, usuarioID *uuid.UUID, req dto.SuscribirRequest) error
	Desuscribir(ctx context.Context, endpoint string) error
	Enviar(ctx context.Context, req dto.EnviarNotificacionRequest) error
}

type notificacionService struct {
	repo       repository.SuscripcionRepository
	dispatcher *worker.Dispatcher
}

func NewNotificacionService(repo repository.SuscripcionRepository, dispatcher *worker.Dispatcher) NotificacionService {
	return &notificacionService{repo: repo, dispatcher: dispatcher}
}

func (s *notificacionService) Suscribir(ctx context.Context, usuarioID *uuid.UUID, req dto.SuscribirRequest) error {
	sub := &model.SuscripcionPush{
		Endpoint:  req.Endpoint,
		P256dh:    req.Keys.P256dh,
		Auth:      req.Keys.Auth,
		UsuarioID: usuarioID,
	}
	return s.repo.Guardar(ctx, sub)
}

func (s *notificacionService) Desuscribir(ctx context.Context, endpoint string) error {
	return s.repo.EliminarPorEndpoint(ctx, endpoint)
}

func (s *notificacionService) Enviar(ctx context.Context, req dto.EnviarNotificacionRequest) error {
	return s.dispatcher.EnqueueNotificacion(ctx, worker.NotificacionJobPayload{
		Titulo: req.Titulo,
		Cuerpo: req.Cuerpo,
	})
}
