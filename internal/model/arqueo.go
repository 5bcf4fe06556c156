package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Conceptos de ingreso registrables en un arqueo.
const (
	ConceptoMovimientoCaja   = "MOVIMIENTO_DE_CAJA"
	ConceptoVentas           = "VENTAS"
	ConceptoCobrosClientes   = "COBROS_CLIENTES_CTA_CTE"
	ConceptoPagosProveedores = "PAGOS_PROVEEDORES_CTA_CTE"
)

// Direccion de un movimiento dentro del arqueo.
const (
	DireccionIngreso = "ingreso"
	DireccionEgreso  = "egreso"
)

// Arqueo represents one accounting period of a cash register: opened with an
// initial amount, it accumulates income/expense entries until it is closed
// against the physically counted amounts. At most one open (non-deleted,
// closed_at IS NULL) arqueo may exist per register — enforced by a partial
// unique index created in infra.applySchemaPatches.
type Arqueo struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CajaRegistradoraID uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedBy          uuid.UUID `gorm:"type:uuid;not null"`
	ClosedBy           *uuid.UUID `gorm:"type:uuid"`
	MontoInicial       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Comentario         *string
	Deleted            bool       `gorm:"not null;default:false"`
	DeletedBy          *uuid.UUID `gorm:"type:uuid"`
	CreatedAt          time.Time
	ClosedAt           *time.Time

	Movimientos  []MovimientoArqueo `gorm:"foreignKey:ArqueoID"`
	MontosReales []ArqueoMontoReal  `gorm:"foreignKey:ArqueoID"`
}

func (Arqueo) TableName() string { return "arqueos" }

// Abierto reports whether the arqueo still accepts movements.
func (a *Arqueo) Abierto() bool { return a.ClosedAt == nil && !a.Deleted }

// Ingresos returns the income entries in insertion order.
func (a *Arqueo) Ingresos() []MovimientoArqueo { return a.porDireccion(DireccionIngreso) }

// Egresos returns the expense entries in insertion order.
func (a *Arqueo) Egresos() []MovimientoArqueo { return a.porDireccion(DireccionEgreso) }

func (a *Arqueo) porDireccion(dir string) []MovimientoArqueo {
	var out []MovimientoArqueo
	for _, m := range a.Movimientos {
		if m.Direccion == dir {
			out = append(out, m)
		}
	}
	return out
}

// MovimientoArqueo is one projected ledger entry inside an arqueo. Entries are
// copies of the originating record's essential fields (projection), never
// references; removal locates them again by value equality.
type MovimientoArqueo struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ArqueoID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Direccion    string          `gorm:"type:varchar(10);not null"`
	MetodoPagoID uuid.UUID       `gorm:"type:uuid;not null"`
	Concepto     string          `gorm:"type:varchar(30);not null"`
	Monto        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Fecha        time.Time       `gorm:"not null"`
	CreatedAt    time.Time
}

func (MovimientoArqueo) TableName() string { return "arqueo_movimientos" }

// CoincideCon reports value equality against another entry: payment method,
// amount, concept and date must all match. Identity (ID) is ignored.
func (m *MovimientoArqueo) CoincideCon(otro MovimientoArqueo) bool {
	return m.MetodoPagoID == otro.MetodoPagoID &&
		m.Monto.Equal(otro.Monto) &&
		m.Concepto == otro.Concepto &&
		m.Fecha.Equal(otro.Fecha)
}

// ArqueoMontoReal is one physically counted amount per payment method,
// recorded only when the arqueo is closed.
type ArqueoMontoReal struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ArqueoID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	MetodoPagoID uuid.UUID       `gorm:"type:uuid;not null"`
	Monto        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}

func (ArqueoMontoReal) TableName() string { return "arqueo_montos_reales" }
