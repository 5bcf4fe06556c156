package infra

import (
	"fmt"
	"net/http"

	"restopos/internal/config"
	"restopos/internal/model"

	webpush "github.com/SherClockHolmes/webpush-go"
)

// WebPushSender delivers Web Push notifications to browser subscriptions,
// guarded by a circuit breaker so an unreachable push service fails fast
// instead of stalling the worker pool.
type WebPushSender struct {
	subscriber string
	publicKey  string
	privateKey string
	cb         *CircuitBreaker
}

// ErrSuscripcionVencida indicates the push service rejected the subscription
// permanently; the caller should drop it from storage.
var ErrSuscripcionVencida = fmt.Errorf("la suscripcion push ya no es valida")

func NewWebPushSender(cfg *config.Config) *WebPushSender {
	return &WebPushSender{
		subscriber: cfg.VAPIDSubject,
		publicKey:  cfg.VAPIDPublicKey,
		privateKey: cfg.VAPIDPrivateKey,
		cb:         NewCircuitBreaker(DefaultCBConfig()),
	}
}

// CircuitState exposes the breaker state for the health endpoint.
func (s *WebPushSender) CircuitState() CBState { return s.cb.State() }

// Send pushes payload to one subscription.
func (s *WebPushSender) Send(sub *model.SuscripcionPush, payload []byte) error {
	return s.cb.Execute(func() error {
		resp, err := webpush.SendNotification(payload, &webpush.Subscription{
			Endpoint: sub.Endpoint,
			Keys: webpush.Keys{
				P256dh: sub.P256dh,
				Auth:   sub.Auth,
			},
		}, &webpush.Options{
			Subscriber:      s.subscriber,
			VAPIDPublicKey:  s.publicKey,
			VAPIDPrivateKey: s.privateKey,
			TTL:             60,
		})
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusGone || resp.StatusCode == http.StatusNotFound:
			return ErrSuscripcionVencida
		case resp.StatusCode >= 400:
			return fmt.Errorf("push service respondio %d", resp.StatusCode)
		}
		return nil
	})
}
