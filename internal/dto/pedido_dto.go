package dto

import "github.com/shopspring/decimal"

type ItemPedidoRequest struct {
	ProductoID  string  `json:"producto_id" validate:"required,uuid"`
	Cantidad    int     `json:"cantidad"    validate:"required,min=1"`
	Observacion *string `json:"observacion"`
}

type AbrirPedidoRequest struct {
	MesaID             string              `json:"mesa_id"              validate:"required,uuid"`
	CajaRegistradoraID string              `json:"caja_registradora_id" validate:"required,uuid"`
	Items              []ItemPedidoRequest `json:"items"                validate:"omitempty,dive"`
}

type AgregarItemsRequest struct {
	Items []ItemPedidoRequest `json:"items" validate:"required,min=1,dive"`
}

type PagoPedidoRequest struct {
	MetodoPagoID string          `json:"metodo_pago_id" validate:"required,uuid"`
	Monto        decimal.Decimal `json:"monto"          validate:"required"`
}

type CobrarPedidoRequest struct {
	Pagos []PagoPedidoRequest `json:"pagos" validate:"required,min=1,dive"`
}

type PedidoItemResponse struct {
	ProductoID     string          `json:"producto_id"`
	Producto       string          `json:"producto,omitempty"`
	Cantidad       int             `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	Observacion    *string         `json:"observacion"`
}

type PedidoResponse struct {
	ID                 string               `json:"id"`
	Numero             int                  `json:"numero"`
	MesaID             string               `json:"mesa_id"`
	CajaRegistradoraID string               `json:"caja_registradora_id"`
	Estado             string               `json:"estado"`
	Total              decimal.Decimal      `json:"total"`
	Items              []PedidoItemResponse `json:"items"`
	CreatedAt          string               `json:"created_at"`
	ClosedAt           *string              `json:"closed_at"`
}
