package dto

// SuscribirRequest mirrors the PushSubscription object produced by the browser.
type SuscribirRequest struct {
	Endpoint string `json:"endpoint" validate:"required,url"`
	Keys     struct {
		P256dh string `json:"p256dh" validate:"required"`
		Auth   string `json:"auth"   validate:"required"`
	} `json:"keys" validate:"required"`
}

type EnviarNotificacionRequest struct {
	Titulo string `json:"titulo" validate:"required"`
	Cuerpo string `json:"cuerpo" validate:"required"`
}
