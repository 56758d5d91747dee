package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Estado is the lifecycle state of a Requisicion. Mutated only through the
// transition engine in the service layer.
type Estado string

const (
	EstadoBorrador          Estado = "borrador"
	EstadoEnRevision        Estado = "en_revision"
	EstadoCotizacion        Estado = "cotizacion"
	EstadoSuficiencia       Estado = "suficiencia"
	EstadoAutorizada        Estado = "autorizada"
	EstadoMaterialEntregado Estado = "material_entregado"
	EstadoFinalizada        Estado = "finalizada"
	EstadoRechazada         Estado = "rechazada"
)

// EsTerminal reports whether the state admits no further requester-visible action.
func (e Estado) EsTerminal() bool {
	return e == EstadoRechazada || e == EstadoFinalizada || e == EstadoMaterialEntregado
}

// EsActivo reports whether the state belongs to the open (actionable) set.
func (e Estado) EsActivo() bool {
	switch e {
	case EstadoEnRevision, EstadoCotizacion, EstadoSuficiencia, EstadoAutorizada:
		return true
	}
	return false
}

// Rol: "admin" | "solicitud" | "revision" | "autorizacion" | "direccion" | "almacen"
type Rol string

const (
	RolAdmin        Rol = "admin"
	RolSolicitud    Rol = "solicitud"
	RolRevision     Rol = "revision"
	RolAutorizacion Rol = "autorizacion"
	RolDireccion    Rol = "direccion"
	RolAlmacen      Rol = "almacen"
)

// Solicitante identifies the author of a requisition. Immutable after creation.
type Solicitante struct {
	UID      string `json:"uid"`
	Email    string `json:"email"`
	Nombre   string `json:"nombre"`
	Telefono string `json:"telefono,omitempty"`
	Area     string `json:"area,omitempty"`
}

// DatosRevisor records the exclusive claim taken by a reviewer while the
// requisition is under technical review.
type DatosRevisor struct {
	UID         string    `json:"uid"`
	Nombre      string    `json:"nombre"`
	Email       string    `json:"email"`
	FechaInicio time.Time `json:"fechaInicio"`
}

// Linea is one requested item. Order within Requisicion.Lineas is meaningful
// and preserved. CantidadAutorizada is absent until a reviewer sets it; an
// explicit zero marks the line as rejected.
type Linea struct {
	ID                  string  `json:"id"`
	Cantidad            int     `json:"cantidad"`
	Unidad              string  `json:"unidad"`
	Concepto            string  `json:"concepto"`
	Descripcion         string  `json:"descripcion"`
	CantidadAutorizada  *int    `json:"cantidadAutorizada,omitempty"`
	UnidadAutorizada    *string `json:"unidadAutorizada,omitempty"`
	ObservacionRevision string  `json:"observacionRevision,omitempty"`
}

// CantidadEfectiva is the quantity a reviewer granted, defaulting to the
// requested quantity while no adjustment has been made.
func (l Linea) CantidadEfectiva() int {
	if l.CantidadAutorizada != nil {
		return *l.CantidadAutorizada
	}
	return l.Cantidad
}

// Rechazada reports whether the reviewer explicitly zeroed the line.
func (l Linea) Rechazada() bool {
	return l.CantidadAutorizada != nil && *l.CantidadAutorizada == 0
}

// EventoHistorial is one entry of the append-only audit trail.
type EventoHistorial struct {
	Fecha      time.Time `json:"fecha"`
	Autor      string    `json:"autor"`
	Accion     string    `json:"accion"`
	Comentario string    `json:"comentario,omitempty"`
}

// ArchivoAdjunto is a reference to a file held by the attachment collaborator.
type ArchivoAdjunto struct {
	Nombre      string `json:"nombre"`
	URL         string `json:"url"`
	StoragePath string `json:"storagePath"`
	Tipo        string `json:"tipo,omitempty"`
}

// Requisicion is the root workflow document. Line items, audit history,
// attachments and the author/claim records are stored as JSONB columns so the
// row keeps the document shape of the domain.
type Requisicion struct {
	ID    uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Folio string    `gorm:"uniqueIndex;not null;default:''"`

	Estado      Estado                             `gorm:"type:varchar(20);not null;index"`
	CreadoPor   datatypes.JSONType[Solicitante]    `gorm:"not null"`
	CreadoPorID string                             `gorm:"index;not null"` // denormalized uid for channel queries
	Revisor     *datatypes.JSONType[DatosRevisor]  `gorm:"column:revisando_por"`

	FechaSolicitud      string `gorm:"not null"` // YYYY-MM-DD as captured on the form
	OrganoRequirente    string `gorm:"not null"`
	Area                string
	TipoMaterial        string `gorm:"not null"`
	SubTipoMaterial     string
	Justificacion       string `gorm:"not null"`
	TitularNombre       string
	ResponsableNombre   string `gorm:"not null"`
	ResponsableTelefono string
	DireccionEntrega    string `gorm:"not null"`

	Lineas                 datatypes.JSONSlice[Linea]           `gorm:"not null"`
	Proveedor              *string                              `gorm:"type:varchar(200)"`
	MontoEstimado          *decimal.Decimal                     `gorm:"type:decimal(14,2)"`
	RevisionNotas          string
	HistorialObservaciones datatypes.JSONSlice[EventoHistorial]
	Adjuntos               datatypes.JSONSlice[ArchivoAdjunto]

	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
}

func (Requisicion) TableName() string { return "requisiciones" }

// RevisorActual returns the claim record, or nil when no reviewer holds it.
func (r *Requisicion) RevisorActual() *DatosRevisor {
	if r.Revisor == nil {
		return nil
	}
	d := r.Revisor.Data()
	if d.UID == "" {
		return nil
	}
	return &d
}

// TotalmenteRechazada reports whether every line was zeroed by the reviewer.
// Informational only: the canonical rejection predicate is Estado ==
// EstadoRechazada. It does feed the delivery routing decision, since a fully
// zeroed requisition never routes to the warehouse.
func (r *Requisicion) TotalmenteRechazada() bool {
	if len(r.Lineas) == 0 {
		return false
	}
	for _, l := range r.Lineas {
		if !l.Rechazada() {
			return false
		}
	}
	return true
}
