package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type AbrirArqueoRequest struct {
	CajaRegistradoraID string          `json:"caja_registradora_id" validate:"required,uuid"`
	MontoInicial       decimal.Decimal `json:"monto_inicial"        validate:"min=0"`
}

type MontoDeclarado struct {
	MetodoPagoID string          `json:"metodo_pago_id" validate:"required,uuid"`
	Monto        decimal.Decimal `json:"monto"          validate:"min=0"`
}

type CerrarArqueoRequest struct {
	ArqueoID         string           `json:"arqueo_id"         validate:"required,uuid"`
	MontosDeclarados []MontoDeclarado `json:"montos_declarados" validate:"required,min=1,dive"`
	Comentario       *string          `json:"comentario"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type MovimientoArqueoResponse struct {
	MetodoPagoID string          `json:"metodo_pago_id"`
	Concepto     string          `json:"concepto"`
	Monto        decimal.Decimal `json:"monto"`
	Fecha        string          `json:"fecha"`
}

type ArqueoResponse struct {
	ID                 string                     `json:"id"`
	CajaRegistradoraID string                     `json:"caja_registradora_id"`
	MontoInicial       decimal.Decimal            `json:"monto_inicial"`
	Ingresos           []MovimientoArqueoResponse `json:"ingresos"`
	Egresos            []MovimientoArqueoResponse `json:"egresos"`
	TotalIngresos      decimal.Decimal            `json:"total_ingresos"`
	TotalEgresos       decimal.Decimal            `json:"total_egresos"`
	MontosDeclarados   []MontoDeclarado           `json:"montos_declarados,omitempty"`
	Comentario         *string                    `json:"comentario"`
	CreatedAt          string                     `json:"created_at"`
	ClosedAt           *string                    `json:"closed_at"`
}

type CierreArqueoResponse struct {
	ArqueoID       string          `json:"arqueo_id"`
	MontoEsperado  decimal.Decimal `json:"monto_esperado"`
	MontoDeclarado decimal.Decimal `json:"monto_declarado"`
	Diferencia     decimal.Decimal `json:"diferencia"`
}
