package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaccion is a client accounts-receivable payment taken at a register.
// Saving one projects a COBROS_CLIENTES_CTA_CTE income entry into the open
// arqueo AND adds the amount to the client's balance; both projections and the
// record itself commit in a single store transaction.
type Transaccion struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CajaRegistradoraID uuid.UUID `gorm:"type:uuid;not null;index"`
	ClienteID          uuid.UUID `gorm:"type:uuid;not null;index"`
	Fecha              time.Time `gorm:"not null"`
	Monto              decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	MetodoPagoID       uuid.UUID       `gorm:"type:uuid;not null"`
	Deleted            bool `gorm:"not null;default:false"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (Transaccion) TableName() string { return "transacciones" }
