package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Tipo de un movimiento manual de caja.
const (
	CashFlowIngreso = "INGRESO"
	CashFlowEgreso  = "EGRESO"
)

// CashFlow is a standalone, independently addressable record of one manual
// cash movement (not tied to a client account). On creation it is projected
// into the open arqueo of its register as a MOVIMIENTO_DE_CAJA entry; soft
// deleting it removes the projected entry again.
type CashFlow struct {
	ID                 uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CajaRegistradoraID *uuid.UUID `gorm:"type:uuid;index"`
	Fecha              time.Time  `gorm:"not null"`
	CreatedBy          uuid.UUID  `gorm:"type:uuid;not null"`
	MontoTotal         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Tipo               string          `gorm:"type:varchar(10);not null"`
	MetodoPagoID       uuid.UUID       `gorm:"type:uuid;not null"`
	Comentario         *string
	Deleted            bool       `gorm:"not null;default:false"`
	DeletedBy          *uuid.UUID `gorm:"type:uuid"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (CashFlow) TableName() string { return "cash_flows" }
