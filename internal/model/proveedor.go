package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Proveedor is a supplier with a running payable balance (cuenta corriente).
type Proveedor struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RazonSocial string    `gorm:"not null"`
	CUIT        string    `gorm:"column:cuit;uniqueIndex;not null"`
	Telefono    *string
	Email       *string
	Saldo       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Activo      bool            `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Proveedor) TableName() string { return "proveedores" }

// PagoProveedor records one payment made to a supplier from a register. It is
// projected into the open arqueo as a PAGOS_PROVEEDORES_CTA_CTE expense entry
// in the same store transaction that decrements the supplier balance.
type PagoProveedor struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProveedorID        uuid.UUID `gorm:"type:uuid;not null;index"`
	CajaRegistradoraID uuid.UUID `gorm:"type:uuid;not null;index"`
	MetodoPagoID       uuid.UUID `gorm:"type:uuid;not null"`
	Monto              decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Fecha              time.Time       `gorm:"not null"`
	Comentario         *string
	Deleted            bool `gorm:"not null;default:false"`
	CreatedAt          time.Time
}

func (PagoProveedor) TableName() string { return "pagos_proveedores" }
