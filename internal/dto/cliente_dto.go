package dto

import "github.com/shopspring/decimal"

type CrearClienteRequest struct {
	Nombre   string  `json:"nombre" validate:"required"`
	Telefono *string `json:"telefono"`
	Email    *string `json:"email" validate:"omitempty,email"`
}

type ActualizarClienteRequest struct {
	Nombre   *string `json:"nombre"`
	Telefono *string `json:"telefono"`
	Email    *string `json:"email" validate:"omitempty,email"`
}

type ClienteResponse struct {
	ID       string          `json:"id"`
	Nombre   string          `json:"nombre"`
	Telefono *string         `json:"telefono"`
	Email    *string         `json:"email"`
	Saldo    decimal.Decimal `json:"saldo"`
	Activo   bool            `json:"activo"`
}
