package model

import (
	"time"

	"github.com/google/uuid"
)

// CajaRegistradora is a physical cash drawer. Identity only; everything else
// (sessions, movements) references it by id.
type CajaRegistradora struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre     string    `gorm:"uniqueIndex;not null"`
	Disponible bool      `gorm:"not null;default:true"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (CajaRegistradora) TableName() string { return "cajas_registradoras" }

// MetodoPago is a payment method referenced by ledger entries, cash flows,
// transactions and order payments.
type MetodoPago struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre     string    `gorm:"uniqueIndex;not null"`
	Disponible bool      `gorm:"not null;default:true"`
	CreatedAt  time.Time
}

func (MetodoPago) TableName() string { return "metodos_pago" }
