package dto

import "github.com/shopspring/decimal"

type CrearMenuRequest struct {
	Nombre string `json:"nombre" validate:"required"`
}

type CrearCategoriaRequest struct {
	Nombre string `json:"nombre"  validate:"required"`
	MenuID string `json:"menu_id" validate:"required,uuid"`
}

type CrearProductoRequest struct {
	Nombre      string          `json:"nombre"       validate:"required"`
	Descripcion *string         `json:"descripcion"`
	CategoriaID string          `json:"categoria_id" validate:"required,uuid"`
	Precio      decimal.Decimal `json:"precio"       validate:"required"`
}

type ActualizarProductoRequest struct {
	Nombre      *string          `json:"nombre"`
	Descripcion *string          `json:"descripcion"`
	Precio      *decimal.Decimal `json:"precio"`
	Disponible  *bool            `json:"disponible"`
}

type MenuResponse struct {
	ID         string `json:"id"`
	Nombre     string `json:"nombre"`
	Disponible bool   `json:"disponible"`
}

type CategoriaResponse struct {
	ID         string `json:"id"`
	Nombre     string `json:"nombre"`
	MenuID     string `json:"menu_id"`
	Disponible bool   `json:"disponible"`
}

type ProductoResponse struct {
	ID          string          `json:"id"`
	Nombre      string          `json:"nombre"`
	Descripcion *string         `json:"descripcion"`
	CategoriaID string          `json:"categoria_id"`
	Precio      decimal.Decimal `json:"precio"`
	Disponible  bool            `json:"disponible"`
}
