package dto

import (
	"time"

	"oficialia/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type LineaRequest struct {
	ID          string `json:"id"`
	Cantidad    int    `json:"cantidad" validate:"required,gt=0"`
	Unidad      string `json:"unidad" validate:"required"`
	Concepto    string `json:"concepto" validate:"required"`
	Descripcion string `json:"descripcion" validate:"required"`
}

type CrearRequisicionRequest struct {
	FechaSolicitud      string         `json:"fechaSolicitud" validate:"required,datetime=2006-01-02"`
	OrganoRequirente    string         `json:"organoRequirente" validate:"required"`
	Area                string         `json:"area"`
	TipoMaterial        string         `json:"tipoMaterial" validate:"required"`
	SubTipoMaterial     string         `json:"subTipoMaterial"`
	Justificacion       string         `json:"justificacion" validate:"required"`
	TitularNombre       string         `json:"titularNombre"`
	ResponsableNombre   string         `json:"responsableNombre" validate:"required"`
	ResponsableTelefono string         `json:"responsableTelefono"`
	DireccionEntrega    string         `json:"direccionEntrega" validate:"required"`
	Lineas              []LineaRequest `json:"lineas" validate:"required,min=1,dive"`
	// Enviar submits the requisition in the same request instead of leaving
	// it as a draft.
	Enviar bool `json:"enviar"`
}

type ActualizarRequisicionRequest struct {
	FechaSolicitud      string         `json:"fechaSolicitud" validate:"required,datetime=2006-01-02"`
	OrganoRequirente    string         `json:"organoRequirente" validate:"required"`
	Area                string         `json:"area"`
	TipoMaterial        string         `json:"tipoMaterial" validate:"required"`
	SubTipoMaterial     string         `json:"subTipoMaterial"`
	Justificacion       string         `json:"justificacion" validate:"required"`
	TitularNombre       string         `json:"titularNombre"`
	ResponsableNombre   string         `json:"responsableNombre" validate:"required"`
	ResponsableTelefono string         `json:"responsableTelefono"`
	DireccionEntrega    string         `json:"direccionEntrega" validate:"required"`
	Lineas              []LineaRequest `json:"lineas" validate:"required,min=1,dive"`
}

type TransicionRequest struct {
	Destino       model.Estado     `json:"destino" validate:"required"`
	Notas         string           `json:"notas"`
	Proveedor     *string          `json:"proveedor"`
	MontoEstimado *decimal.Decimal `json:"montoEstimado"`
}

// LineaRevisionRequest adjusts one line during review. CantidadAutorizada in
// zero rejects the line.
type LineaRevisionRequest struct {
	ID                  string  `json:"id" validate:"required"`
	CantidadAutorizada  *int    `json:"cantidadAutorizada" validate:"omitempty,gte=0"`
	UnidadAutorizada    *string `json:"unidadAutorizada"`
	ObservacionRevision string  `json:"observacionRevision"`
}

type ActualizarLineasRequest struct {
	Lineas []LineaRevisionRequest `json:"lineas" validate:"required,min=1,dive"`
}

type RevisorResponse struct {
	UID         string    `json:"uid"`
	Nombre      string    `json:"nombre"`
	Email       string    `json:"email"`
	FechaInicio time.Time `json:"fechaInicio"`
}

type RequisicionResponse struct {
	ID                     uuid.UUID              `json:"id"`
	Folio                  string                 `json:"folio,omitempty"`
	Estado                 model.Estado           `json:"estado"`
	CreadoPor              model.Solicitante      `json:"creadoPor"`
	RevisandoPor           *RevisorResponse       `json:"revisandoPor,omitempty"`
	FechaSolicitud         string                 `json:"fechaSolicitud"`
	OrganoRequirente       string                 `json:"organoRequirente"`
	Area                   string                 `json:"area,omitempty"`
	TipoMaterial           string                 `json:"tipoMaterial"`
	SubTipoMaterial        string                 `json:"subTipoMaterial,omitempty"`
	Justificacion          string                 `json:"justificacion"`
	TitularNombre          string                 `json:"titularNombre,omitempty"`
	ResponsableNombre      string                 `json:"responsableNombre"`
	ResponsableTelefono    string                 `json:"responsableTelefono,omitempty"`
	DireccionEntrega       string                 `json:"direccionEntrega"`
	Lineas                 []model.Linea          `json:"lineas"`
	Proveedor              *string                `json:"proveedor,omitempty"`
	MontoEstimado          *decimal.Decimal       `json:"montoEstimado,omitempty"`
	RevisionNotas          string                 `json:"revisionNotas,omitempty"`
	HistorialObservaciones []model.EventoHistorial `json:"historialObservaciones"`
	Adjuntos               []model.ArchivoAdjunto `json:"adjuntos"`
	EntregaFisica          bool                   `json:"entregaFisica"`
	CreatedAt              time.Time              `json:"createdAt"`
	UpdatedAt              time.Time              `json:"updatedAt"`
}

func NewRequisicionResponse(r *model.Requisicion, entregaFisica bool) RequisicionResponse {
	resp := RequisicionResponse{
		ID:                     r.ID,
		Folio:                  r.Folio,
		Estado:                 r.Estado,
		CreadoPor:              r.CreadoPor.Data(),
		FechaSolicitud:         r.FechaSolicitud,
		OrganoRequirente:       r.OrganoRequirente,
		Area:                   r.Area,
		TipoMaterial:           r.TipoMaterial,
		SubTipoMaterial:        r.SubTipoMaterial,
		Justificacion:          r.Justificacion,
		TitularNombre:          r.TitularNombre,
		ResponsableNombre:      r.ResponsableNombre,
		ResponsableTelefono:    r.ResponsableTelefono,
		DireccionEntrega:       r.DireccionEntrega,
		Lineas:                 r.Lineas,
		Proveedor:              r.Proveedor,
		MontoEstimado:          r.MontoEstimado,
		RevisionNotas:          r.RevisionNotas,
		HistorialObservaciones: r.HistorialObservaciones,
		Adjuntos:               r.Adjuntos,
		EntregaFisica:          entregaFisica,
		CreatedAt:              r.CreatedAt,
		UpdatedAt:              r.UpdatedAt,
	}
	if rev := r.RevisorActual(); rev != nil {
		resp.RevisandoPor = &RevisorResponse{
			UID: rev.UID, Nombre: rev.Nombre, Email: rev.Email, FechaInicio: rev.FechaInicio,
		}
	}
	if resp.Lineas == nil {
		resp.Lineas = []model.Linea{}
	}
	if resp.HistorialObservaciones == nil {
		resp.HistorialObservaciones = []model.EventoHistorial{}
	}
	if resp.Adjuntos == nil {
		resp.Adjuntos = []model.ArchivoAdjunto{}
	}
	return resp
}
