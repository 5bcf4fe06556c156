package model

import (
	"time"

	"github.com/google/uuid"
)

// SuscripcionPush is a Web Push subscription of a staff device. The endpoint
// plus the two client keys are everything webpush needs to deliver.
type SuscripcionPush struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Endpoint  string    `gorm:"uniqueIndex;not null"`
	P256dh    string    `gorm:"not null"`
	Auth      string    `gorm:"not null"`
	UsuarioID *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt time.Time
}

func (SuscripcionPush) TableName() string { return "suscripciones_push" }
