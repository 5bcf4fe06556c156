package worker

// notificacion_worker.go
// Processes Web Push broadcast jobs from QueueNotificacion: new orders for the
// kitchen, table state changes for the floor.

import (
	"context"
	"encoding/json"
	"errors"

	"restopos/internal/infra"
	"restopos/internal/repository"

	"github.com/rs/zerolog/log"
)

// NotificacionJobPayload is the job envelope sent to QueueNotificacion.
type NotificacionJobPayload struct {
	Titulo string          `json:"titulo"`
	Cuerpo string          `json:"cuerpo"`
	Data   json.RawMessage `json:"data,omitempty"`
}

// NotificacionWorker fans a payload out to every stored subscription.
type NotificacionWorker struct {
	subs   repository.SuscripcionRepository
	sender *infra.WebPushSender
}

func NewNotificacionWorker(subs repository.SuscripcionRepository, sender *infra.WebPushSender) *NotificacionWorker {
	return &NotificacionWorker{subs: subs, sender: sender}
}

// Process broadcasts one notification. Expired subscriptions are pruned on the
// spot; transient per-device failures are logged but do not fail the job, so a
// broadcast is attempted at most maxAttempts times in total.
func (w *NotificacionWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload NotificacionJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("notificacion_worker: invalid payload")
		return nil
	}

	body, err := json.Marshal(map[string]interface{}{
		"title": payload.Titulo,
		"body":  payload.Cuerpo,
		"data":  payload.Data,
	})
	if err != nil {
		return err
	}

	subs, err := w.subs.ListarTodas(ctx)
	if err != nil {
		return err
	}

	for i := range subs {
		sub := &subs[i]
		if err := w.sender.Send(sub, body); err != nil {
			if errors.Is(err, infra.ErrSuscripcionVencida) {
				if delErr := w.subs.EliminarPorEndpoint(ctx, sub.Endpoint); delErr != nil {
					log.Error().Err(delErr).Msg("notificacion_worker: failed to prune expired subscription")
				}
				continue
			}
			if errors.Is(err, infra.ErrCircuitOpen) {
				// Push service is down: abort the fan-out and let the retry
				// path pick the job up later.
				return err
			}
			log.Warn().Err(err).Str("endpoint", sub.Endpoint).Msg("notificacion_worker: delivery failed")
		}
	}
	return nil
}
