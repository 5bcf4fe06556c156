package model

import (
	"time"

	"github.com/google/uuid"
)

// Estados de mesa.
const (
	MesaLibre   = "libre"
	MesaOcupada = "ocupada"
)

// Sector is a physical zone of the restaurant (salón, terraza, barra).
type Sector struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string    `gorm:"uniqueIndex;not null"`
	CreatedAt time.Time

	Mesas []Mesa `gorm:"foreignKey:SectorID"`
}

func (Sector) TableName() string { return "sectores" }

/// Mesa is a table inside a sector. Estado: "libre" | "ocupada".
type Mesa struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Numero    int       `gorm:"uniqueIndex;not null"`
	SectorID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Estado    string    `gorm:"type:varchar(10);not null;default:'libre'"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Mesa) TableName() string { return "mesas" }
