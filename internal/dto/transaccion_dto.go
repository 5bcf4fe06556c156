package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type GuardarTransaccionRequest struct {
	CajaRegistradoraID string          `json:"caja_registradora_id" validate:"required,uuid"`
	ClienteID          string          `json:"cliente_id"           validate:"required,uuid"`
	Fecha              time.Time       `json:"fecha"                validate:"required"`
	Monto              decimal.Decimal `json:"monto"                validate:"required"`
	MetodoPagoID       string          `json:"metodo_pago_id"       validate:"required,uuid"`
}

type TransaccionResponse struct {
	ID                 string          `json:"id"`
	CajaRegistradoraID string          `json:"caja_registradora_id"`
	ClienteID          string          `json:"cliente_id"`
	Fecha              string          `json:"fecha"`
	Monto              decimal.Decimal `json:"monto"`
	MetodoPagoID       string          `json:"metodo_pago_id"`
	Deleted            bool            `json:"deleted"`
}
