package dto

type CrearSectorRequest struct {
	Nombre string `json:"nombre" validate:"required"`
}

type CrearMesaRequest struct {
	Numero   int    `json:"numero"    validate:"required,min=1"`
	SectorID string `json:"sector_id" validate:"required,uuid"`
}

type MesaResponse struct {
	ID       string `json:"id"`
	Numero   int    `json:"numero"`
	SectorID string `json:"sector_id"`
	Estado   string `json:"estado"`
}

type SectorResponse struct {
	ID     string         `json:"id"`
	Nombre string         `json:"nombre"`
	Mesas  []MesaResponse `json:"mesas"`
}
