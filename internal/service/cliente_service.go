package service

import (
	"context"
	"errors"
	"fmt"

	"restopos/internal/dto"
	"restopos/internal/model"
	"restopos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ClienteService manages customers. Balance mutations happen exclusively in
// TransaccionService, inside its store transaction.
type ClienteService interface {
	Crear(ctx context.Context, req dto.CrearClienteRequest) (*dto.ClienteResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ClienteResponse, error)
	Listar(ctx context.Context) ([]dto.ClienteResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarClienteRequest) (*dto.ClienteResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
}

type clienteService struct {
	repo repository.ClienteRepository
}

func NewClienteService(repo repository.ClienteRepository) ClienteService {
	return &clienteService{repo: repo}
}

func (s *clienteService) Crear(ctx context.Context, req dto.CrearClienteRequest) (*dto.ClienteResponse, error) {
	saldo := decimal.Zero
	c := &model.Cliente{
		Nombre:   req.Nombre,
		Telefono: req.Telefono,
		Email:    req.Email,
		Saldo:    &saldo,
		Activo:   true,
	}
	if err := s.repo.Crear(ctx, c); err != nil {
		return nil, err
	}
	return toClienteResponse(c), nil
}

func (s *clienteService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ClienteResponse, error) {
	c, err := s.repo.ObtenerPorID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: cliente no encontrado", ErrNotFound)
		}
		return nil, err
	}
	return toClienteResponse(c), nil
}

func (s *clienteService) Listar(ctx context.Context) ([]dto.ClienteResponse, error) {
	clientes, err := s.repo.Listar(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ClienteResponse, 0, len(clientes))
	for i := range clientes {
		out = append(out, *toClienteResponse(&clientes[i]))
	}
	return out, nil
}

func (s *clienteService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarClienteRequest) (*dto.ClienteResponse, error) {
	if _, err := s.ObtenerPorID(ctx, id); err != nil {
		return nil, err
	}
	campos := map[string]interface{}{}
	if req.Nombre != nil {
		campos["nombre"] = *req.Nombre
	}
	if req.Telefono != nil {
		campos["telefono"] = *req.Telefono
	}
	if req.Email != nil {
		campos["email"] = *req.Email
	}
	if len(campos) > 0 {
		if err := s.repo.Actualizar(ctx, id, campos); err != nil {
			return nil, err
		}
	}
	return s.ObtenerPorID(ctx, id)
}

func (s *clienteService) Desactivar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.ObtenerPorID(ctx, id); err != nil {
		return err
	}
	return s.repo.Desactivar(ctx, id)
}

func toClienteResponse(c *model.Cliente) *dto.ClienteResponse {
	saldo := decimal.Zero
	if c.Saldo != nil {
		saldo = *c.Saldo
	}
	return &dto.ClienteResponse{
		ID:       c.ID.String(),
		Nombre:   c.Nombre,
		Telefono: c.Telefono,
		Email:    c.Email,
		Saldo:    saldo,
		Activo:   c.Activo,
	}
}
