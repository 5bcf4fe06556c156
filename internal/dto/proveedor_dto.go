package dto

import "github.com/shopspring/decimal"

type CrearProveedorRequest struct {
	RazonSocial string  `json:"razon_social" validate:"required"`
	CUIT        string  `json:"cuit"         validate:"required"`
	Telefono    *string `json:"telefono"`
	Email       *string `json:"email" validate:"omitempty,email"`
}

type RegistrarPagoProveedorRequest struct {
	ProveedorID        string          `json:"proveedor_id"         validate:"required,uuid"`
	CajaRegistradoraID string          `json:"caja_registradora_id" validate:"required,uuid"`
	MetodoPagoID       string          `json:"metodo_pago_id"       validate:"required,uuid"`
	Monto              decimal.Decimal `json:"monto"                validate:"required"`
	Comentario         *string         `json:"comentario"`
}

type ProveedorResponse struct {
	ID          string          `json:"id"`
	RazonSocial string          `json:"razon_social"`
	CUIT        string          `json:"cuit"`
	Telefono    *string         `json:"telefono"`
	Email       *string         `json:"email"`
	Saldo       decimal.Decimal `json:"saldo"`
	Activo      bool            `json:"activo"`
}

type PagoProveedorResponse struct {
	ID                 string          `json:"id"`
	ProveedorID        string          `json:"proveedor_id"`
	CajaRegistradoraID string          `json:"caja_registradora_id"`
	MetodoPagoID       string          `json:"metodo_pago_id"`
	Monto              decimal.Decimal `json:"monto"`
	Fecha              string          `json:"fecha"`
	Comentario         *string         `json:"comentario"`
}
