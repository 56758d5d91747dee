package model

import (
	"time"

	"gorm.io/datatypes"
)

// ExcepcionUsuario grants one user a temporary pass over the submission
// window, valid through the end of the Expira date.
type ExcepcionUsuario struct {
	UID    string `json:"uid"`
	Expira string `json:"expira"` // YYYY-MM-DD, inclusive
}

// ConfiguracionEnvio is the single shared submission-window record, mutated
// only by admin/direccion and read on every submission attempt.
type ConfiguracionEnvio struct {
	ID                  int                                   `gorm:"primaryKey;autoIncrement:false"`
	DiasFestivos        datatypes.JSONSlice[string]           // ISO dates
	ExcepcionGlobal     bool                                  `gorm:"not null;default:false"`
	ExcepcionesUsuarios datatypes.JSONSlice[ExcepcionUsuario]
	UpdatedAt           time.Time
}

func (ConfiguracionEnvio) TableName() string { return "configuracion_envio" }

// ConfiguracionEnvioID: the table holds exactly one row.
const ConfiguracionEnvioID = 1
