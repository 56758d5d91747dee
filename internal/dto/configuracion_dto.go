package dto

import (
	"time"

	"oficialia/internal/model"

	"github.com/google/uuid"
)

type ExcepcionUsuarioRequest struct {
	UID    string `json:"uid" validate:"required"`
	Expira string `json:"expira" validate:"required,datetime=2006-01-02"`
}

type ConfiguracionEnvioRequest struct {
	DiasFestivos        []string                  `json:"diasFestivos" validate:"dive,datetime=2006-01-02"`
	ExcepcionGlobal     bool                      `json:"excepcionGlobal"`
	ExcepcionesUsuarios []ExcepcionUsuarioRequest `json:"excepcionesUsuarios" validate:"dive"`
}

type ConfiguracionEnvioResponse struct {
	DiasFestivos        []string                 `json:"diasFestivos"`
	ExcepcionGlobal     bool                     `json:"excepcionGlobal"`
	ExcepcionesUsuarios []model.ExcepcionUsuario `json:"excepcionesUsuarios"`
	VentanaAbierta      bool                     `json:"ventanaAbierta"`
}

type NotificacionResponse struct {
	ID            uuid.UUID              `json:"id"`
	RequisicionID uuid.UUID              `json:"requisicionId"`
	Folio         string                 `json:"folio,omitempty"`
	Tipo          model.TipoNotificacion `json:"tipo"`
	Mensaje       string                 `json:"mensaje"`
	Leida         bool                   `json:"leida"`
	CreatedAt     time.Time              `json:"createdAt"`
}

func NewNotificacionResponse(n *model.Notificacion) NotificacionResponse {
	return NotificacionResponse{
		ID: n.ID, RequisicionID: n.RequisicionID, Folio: n.Folio,
		Tipo: n.Tipo, Mensaje: n.Mensaje, Leida: n.Leida, CreatedAt: n.CreatedAt,
	}
}
