package dto

import "github.com/shopspring/decimal"

type GuardarCashFlowRequest struct {
	// CajaRegistradoraID is nullable on purpose: the service rejects nil with
	// an invalid-argument error during projection, never silently.
	CajaRegistradoraID *string         `json:"caja_registradora_id" validate:"omitempty,uuid"`
	MontoTotal         decimal.Decimal `json:"monto_total"          validate:"required"`
	Tipo               string          `json:"tipo"                 validate:"required,oneof=INGRESO EGRESO"`
	MetodoPagoID       string          `json:"metodo_pago_id"       validate:"required,uuid"`
	Comentario         *string         `json:"comentario"`
}

type CashFlowResponse struct {
	ID                 string          `json:"id"`
	CajaRegistradoraID *string         `json:"caja_registradora_id"`
	Fecha              string          `json:"fecha"`
	MontoTotal         decimal.Decimal `json:"monto_total"`
	Tipo               string          `json:"tipo"`
	MetodoPagoID       string          `json:"metodo_pago_id"`
	Comentario         *string         `json:"comentario"`
	Deleted            bool            `json:"deleted"`
}
