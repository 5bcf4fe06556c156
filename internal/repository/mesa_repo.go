package repository

import (
	"context"

	"restopos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MesaRepository persists sectors and tables.
type MesaRepository interface {
	CrearSector(ctx context.Context, s *model.Sector) error
	ListarSectores(ctx context.Context) ([]model.Sector, error)

	CrearMesa(ctx context.Context, m *model.Mesa) error
	ObtenerMesa(ctx context.Context, id uuid.UUID) (*model.Mesa, error)
	ListarMesasPorSector(ctx context.Context, sectorID uuid.UUID) ([]model.Mesa, error)
	ActualizarEstado(ctx context.Context, id uuid.UUID, estado string) error
	ActualizarEstadoTx(tx *gorm.DB, id uuid.UUID, estado string) error
}

type mesaRepo struct{ db *gorm.DB }

func NewMesaRepository(db *gorm.DB) MesaRepository { return &mesaRepo{db: db} }

func (r *mesaRepo) CrearSector(ctx context.Context, s *model.Sector) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *mesaRepo) ListarSectores(ctx context.Context) ([]model.Sector, error) {
	var sectores []model.Sector
	err := r.db.WithContext(ctx).Preload("Mesas").Order("nombre ASC").Find(&sectores).Error
	return sectores, err
}

func (r *mesaRepo) CrearMesa(ctx context.Context, m *model.Mesa) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *mesaRepo) ObtenerMesa(ctx context.Context, id uuid.UUID) (*model.Mesa, error) {
	var m model.Mesa
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *mesaRepo) ListarMesasPorSector(ctx context.Context, sectorID uuid.UUID) ([]model.Mesa, error) {
	var mesas []model.Mesa
	err := r.db.WithContext(ctx).Where("sector_id = ?", sectorID).Order("numero ASC").Find(&mesas).Error
	return mesas, err
}

func (r *mesaRepo) ActualizarEstado(ctx context.Context, id uuid.UUID, estado string) error {
	return r.db.WithContext(ctx).Model(&model.Mesa{}).Where("id = ?", id).Update("estado", estado).Error
}

func (r *mesaRepo) ActualizarEstadoTx(tx *gorm.DB, id uuid.UUID, estado string) error {
	return tx.Model(&model.Mesa{}).Where("id = ?", id).Update("estado", estado).Error
}
