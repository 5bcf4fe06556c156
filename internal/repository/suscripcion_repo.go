package repository

import (
	"context"

	"restopos/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SuscripcionRepository stores Web Push subscriptions of staff devices.
type SuscripcionRepository interface {
	// Guardar upserts by endpoint: re-subscribing a device updates its keys.
	Guardar(ctx context.Context, s *model.SuscripcionPush) error
	ListarTodas(ctx context.Context) ([]model.SuscripcionPush, error)
	EliminarPorEndpoint(ctx context.Context, endpoint string) error
}

type suscripcionRepo struct{ db *gorm.DB }

func NewSuscripcionRepository(db *gorm.DB) SuscripcionRepository { return &suscripcionRepo{db: db} }

func (r *suscripcionRepo) Guardar(ctx context.Context, s *model.SuscripcionPush) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "endpoint"}},
			DoUpdates: clause.AssignmentColumns([]string{"p256dh", "auth", "usuario_id"}),
		}).
		Create(s).Error
}

func (r *suscripcionRepo) ListarTodas(ctx context.Context) ([]model.SuscripcionPush, error) {
	var subs []model.SuscripcionPush
	err := r.db.WithContext(ctx).Find(&subs).Error
	return subs, err
}

func (r *suscripcionRepo) EliminarPorEndpoint(ctx context.Context, endpoint string) error {
	return r.db.WithContext(ctx).Delete(&model.SuscripcionPush{}, "endpoint = ?", endpoint).Error
}
