package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cliente is a customer with a running account balance (cuenta corriente).
// Saldo is nullable: legacy rows may have no balance yet and are treated as
// zero by TransaccionService.
type Cliente struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string    `gorm:"not null"`
	Telefono  *string
	Email     *string
	Saldo     *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Activo    bool             `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Cliente) TableName() string { return "clientes" }
