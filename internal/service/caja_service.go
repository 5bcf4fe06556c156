package service

import (
	"context"
	"errors"
	"fmt"

	"restopos/internal/model"
	"restopos/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CajaService manages physical registers and payment methods.
type CajaService interface {
	CrearCaja(ctx context.Context, nombre string) (*model.CajaRegistradora, error)
	ObtenerCaja(ctx context.Context, id uuid.UUID) (*model.CajaRegistradora, error)
	ListarCajas(ctx context.Context) ([]model.CajaRegistradora, error)
	CambiarDisponibilidad(ctx context.Context, id uuid.UUID, disponible bool) error

	CrearMetodoPago(ctx context.Context, nombre string) (*model.MetodoPago, error)
	ListarMetodosPago(ctx context.Context) ([]model.MetodoPago, error)
}

type cajaService struct {
	repo repository.CajaRepository
}

func NewCajaService(repo repository.CajaRepository) CajaService {
	return &cajaService{repo: repo}
}

func (s *cajaService) CrearCaja(ctx context.Context, nombre string) (*model.CajaRegistradora, error) {
	if nombre == "" {
		return nil, fmt.Errorf("%w: el nombre de la caja es obligatorio", ErrInvalidArgument)
	}
	c := &model.CajaRegistradora{Nombre: nombre, Disponible: true}
	if err := s.repo.CrearCaja(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *cajaService) ObtenerCaja(ctx context.Context, id uuid.UUID) (*model.CajaRegistradora, error) {
	c, err := s.repo.ObtenerCaja(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: caja no encontrada", ErrNotFound)
		}
		return nil, err
	}
	return c, nil
}

func (s *cajaService) ListarCajas(ctx context.Context) ([]model.CajaRegistradora, error) {
	return s.repo.ListarCajas(ctx)
}

func (s *cajaService) CambiarDisponibilidad(ctx context.Context, id uuid.UUID, disponible bool) error {
	if _, err := s.ObtenerCaja(ctx, id); err != nil {
		return err
	}
	return s.repo.ActualizarCaja(ctx, id, map[string]interface{}{"disponible": disponible})
}

func (s *cajaService) CrearMetodoPago(ctx context.Context, nombre string) (*model.MetodoPago, error) {
	if nombre == "" {
		return nil, fmt.Errorf("%w: el nombre del metodo de pago es obligatorio", ErrInvalidArgument)
	}
	m := &model.MetodoPago{Nombre: nombre, Disponible: true}
	if err := s.repo.CrearMetodoPago(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *cajaService) ListarMetodosPago(ctx context.Context) ([]model.MetodoPago, error) {
	return s.repo.ListarMetodosPago(ctx)
}
