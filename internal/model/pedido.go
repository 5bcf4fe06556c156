package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Estados de pedido.
const (
	PedidoAbierto = "abierto"
	PedidoCobrado = "cobrado"
	PedidoAnulado = "anulado"
)

// Pedido is a table order. While abierto it accumulates items; Cobrar closes
// it, records its payments and pours one VENTAS income entry per payment into
// the open arqueo of the register, all in one store transaction.
type Pedido struct {
	ID                 uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Numero             int        `gorm:"uniqueIndex;not null"`
	MesaID             uuid.UUID  `gorm:"type:uuid;not null;index"`
	CajaRegistradoraID uuid.UUID  `gorm:"type:uuid;not null;index"`
	MozoID             uuid.UUID  `gorm:"type:uuid;not null"`
	Estado             string     `gorm:"type:varchar(10);not null;default:'abierto'"`
	Total              decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	CreatedAt          time.Time
	ClosedAt           *time.Time

	Items []PedidoItem `gorm:"foreignKey:PedidoID"`
	Pagos []PedidoPago `gorm:"foreignKey:PedidoID"`
}

func (Pedido) TableName() string { return "pedidos" }

// PedidoItem is one ordered product line. Price is copied at order time so
// later catalog price changes do not alter open orders.
type PedidoItem struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PedidoID       uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductoID     uuid.UUID `gorm:"type:uuid;not null"`
	Cantidad       int       `gorm:"not null"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Observacion    *string
	CreatedAt      time.Time

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

func (PedidoItem) TableName() string { return "pedido_items" }

// PedidoPago is one payment applied when the order is cobrado.
type PedidoPago struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PedidoID     uuid.UUID `gorm:"type:uuid;not null;index"`
	MetodoPagoID uuid.UUID `gorm:"type:uuid;not null"`
	Monto        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt    time.Time
}

func (PedidoPago) TableName() string { return "pedido_pagos" }
