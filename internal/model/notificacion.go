package model

import (
	"time"

	"github.com/google/uuid"
)

// TipoNotificacion: "estado" | "linea" | "general"
type TipoNotificacion string

const (
	NotifEstado  TipoNotificacion = "estado"
	NotifLinea   TipoNotificacion = "linea"
	NotifGeneral TipoNotificacion = "general"
)

// Notificacion is one inbox entry, addressed either to a concrete user
// (TargetUID) or to every member of a role (TargetRol). Written by the
// notification worker, never synchronously from a state transition.
type Notificacion struct {
	ID            uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RequisicionID uuid.UUID        `gorm:"type:uuid;index;not null"`
	Folio         string           `gorm:"not null"`
	Mensaje       string           `gorm:"not null"`
	Tipo          TipoNotificacion `gorm:"type:varchar(20);not null;default:'general'"`
	TargetUID     *string          `gorm:"index"`
	TargetRol     *Rol             `gorm:"type:varchar(20);index"`
	Leida         bool             `gorm:"not null;default:false"`
	CreatedAt     time.Time        `gorm:"index"`
}

func (Notificacion) TableName() string { return "notificaciones" }
