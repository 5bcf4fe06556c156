package service

import (
	"context"
	"errors"
	"fmt"

	"restopos/internal/dto"
	"restopos/internal/model"
	"restopos/internal/realtime"
	"restopos/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MesaService manages sectors and tables. Table state normally changes through
// PedidoService; the manual state change exists for the supervisor (e.g. a
// table blocked for maintenance was freed by hand).
type MesaService interface {
	CrearSector(ctx context.Context, req dto.CrearSectorRequest) (*dto.SectorResponse, error)
	ListarSectores(ctx context.Context) ([]dto.SectorResponse, error)
	CrearMesa(ctx context.Context, req dto.CrearMesaRequest) (*dto.MesaResponse, error)
	ListarMesasPorSector(ctx context.Context, sectorID uuid.UUID) ([]dto.MesaResponse, error)
	CambiarEstado(ctx context.Context, mesaID uuid.UUID, estado string) error
}

type mesaService struct {
	repo repository.MesaRepository
	hub  *realtime.Hub
}

func NewMesaService(repo repository.MesaRepository, hub *realtime.Hub) MesaService {
	return &mesaService{repo: repo, hub: hub}
}

func (s *mesaService) CrearSector(ctx context.Context, req dto.CrearSectorRequest) (*dto.SectorResponse, error) {
	sector := &model.Sector{Nombre: req.Nombre}
	if err := s.repo.CrearSector(ctx, sector); err != nil {
		return nil, err
	}
	return toSectorResponse(sector), nil
}

func (s *mesaService) ListarSectores(ctx context.Context) ([]dto.SectorResponse, error) {
	sectores, err := s.repo.ListarSectores(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SectorResponse, 0, len(sectores))
	for i := range sectores {
		out = append(out, *toSectorResponse(&sectores[i]))
	}
	return out, nil
}

func (s *mesaService) CrearMesa(ctx context.Context, req dto.CrearMesaRequest) (*dto.MesaResponse, error) {
	sectorID, err := uuid.Parse(req.SectorID)
	if err != nil {
		return nil, fmt.Errorf("%w: sector_id invalido", ErrInvalidArgument)
	}
	mesa := &model.Mesa{Numero: req.Numero, SectorID: sectorID, Estado: model.MesaLibre}
	if err := s.repo.CrearMesa(ctx, mesa); err != nil {
		return nil, err
	}
	return toMesaResponse(mesa), nil
}

func (s *mesaService) ListarMesasPorSector(ctx context.Context, sectorID uuid.UUID) ([]dto.MesaResponse, error) {
	mesas, err := s.repo.ListarMesasPorSector(ctx, sectorID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MesaResponse, 0, len(mesas))
	for i := range mesas {
		out = append(out, *toMesaResponse(&mesas[i]))
	}
	return out, nil
}

func (s *mesaService) CambiarEstado(ctx context.Context, mesaID uuid.UUID, estado string) error {
	if estado != model.MesaLibre && estado != model.MesaOcupada {
		return fmt.Errorf("%w: estado de mesa desconocido %q", ErrInvalidArgument, estado)
	}
	if _, err := s.repo.ObtenerMesa(ctx, mesaID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: mesa no encontrada", ErrNotFound)
		}
		return err
	}
	if err := s.repo.ActualizarEstado(ctx, mesaID, estado); err != nil {
		return err
	}
	s.hub.Broadcast("mesa_estado", map[string]interface{}{
		"mesa_id": mesaID.String(),
		"estado":  estado,
	})
	return nil
}

func toMesaResponse(m *model.Mesa) *dto.MesaResponse {
	return &dto.MesaResponse{
		ID:       m.ID.String(),
		Numero:   m.Numero,
		SectorID: m.SectorID.String(),
		Estado:   m.Estado,
	}
}

func toSectorResponse(s *model.Sector) *dto.SectorResponse {
	resp := &dto.SectorResponse{
		ID:     s.ID.String(),
		Nombre: s.Nombre,
		Mesas:  []dto.MesaResponse{},
	}
	for i := range s.Mesas {
		resp.Mesas = append(resp.Mesas, *toMesaResponse(&s.Mesas[i]))
	}
	return resp
}
