package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Menu groups categories shown to the customer app (e.g. "Almuerzo", "Cena").
type Menu struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre     string    `gorm:"uniqueIndex;not null"`
	Disponible bool      `gorm:"not null;default:true"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (Menu) TableName() string { return "menus" }

// Categoria classifies products inside a menu.
type Categoria struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre     string    `gorm:"index;not null"`
	MenuID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Disponible bool      `gorm:"not null;default:true"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Productos []Producto `gorm:"foreignKey:CategoriaID"`
}

func (Categoria) TableName() string { return "categorias" }

// Producto is a sellable menu item.
type Producto struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre      string    `gorm:"index;not null"`
	Descripcion *string
	CategoriaID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Precio      decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Disponible  bool            `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Producto) TableName() string { return "productos" }
