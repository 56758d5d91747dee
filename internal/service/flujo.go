package service

import (
	"fmt"

	"oficialia/internal/apierror"
	"oficialia/internal/model"
)

// Actor identifies quien ejecuta una operación. Se construye desde los claims
// del token en la capa HTTP; los servicios nunca leen el contexto de gin.
type Actor struct {
	UID    string
	Email  string
	Nombre string
	Rol    model.Rol
}

func (a Actor) EsAdmin() bool { return a.Rol == model.RolAdmin }

// reglaTransicion describe una arista válida del flujo de aprobación.
type reglaTransicion struct {
	Roles []model.Rol
	// RolesSinEntrega sustituye a Roles cuando la requisición no requiere
	// entrega física de material.
	RolesSinEntrega []model.Rol
	// RequiereClaim exige que el actor tenga reclamada la revisión (o sea
	// admin). Aplica a todos los avances del circuito de revisión.
	RequiereClaim bool
	// RequiereMotivo exige notas de revisión u observaciones por línea.
	RequiereMotivo bool
	// LiberaClaim limpia revisando_por al completar la transición.
	LiberaClaim bool
	// RequiereProveedor exige proveedor asignado antes de autorizar.
	RequiereProveedor bool
	// SoloEntregaFisica restringe la transición a requisiciones con entrega
	// física de material.
	SoloEntregaFisica bool
	// Retroceso marca correcciones hacia atrás en el circuito.
	Retroceso bool

	NotificaSolicitante bool
	// NotificaAlmacen avisa al rol almacén cuando hay entrega física.
	NotificaAlmacen bool
}

type arista struct{ desde, hasta model.Estado }

var (
	rolesRevision      = []model.Rol{model.RolRevision, model.RolAdmin}
	rolesAutorizadores = []model.Rol{model.RolRevision, model.RolAutorizacion, model.RolAdmin}
	rolesAlmacen       = []model.Rol{model.RolAlmacen, model.RolAdmin}
)

// flujo es la tabla completa de transiciones permitidas. El envío
// de borrador a en_revision no aparece aquí: lo ejecuta exclusivamente Enviar, que
// además asigna folio y aplica la ventana de envío.
var flujo = map[arista]reglaTransicion{
	{model.EstadoEnRevision, model.EstadoCotizacion}: {
		Roles:               rolesRevision,
		RequiereClaim:       true,
		NotificaSolicitante: true,
	},
	{model.EstadoEnRevision, model.EstadoBorrador}: {
		Roles:               rolesRevision,
		RequiereClaim:       true,
		RequiereMotivo:      true,
		LiberaClaim:         true,
		Retroceso:           true,
		NotificaSolicitante: true,
	},
	{model.EstadoEnRevision, model.EstadoRechazada}: {
		Roles:               rolesRevision,
		RequiereClaim:       true,
		RequiereMotivo:      true,
		LiberaClaim:         true,
		NotificaSolicitante: true,
	},
	{model.EstadoCotizacion, model.EstadoSuficiencia}: {
		Roles:               rolesAutorizadores,
		RequiereClaim:       true,
		NotificaSolicitante: true,
	},
	{model.EstadoCotizacion, model.EstadoEnRevision}: {
		Roles:               rolesAutorizadores,
		LiberaClaim:         true,
		Retroceso:           true,
		NotificaSolicitante: true,
	},
	{model.EstadoSuficiencia, model.EstadoAutorizada}: {
		Roles:               rolesAutorizadores,
		RequiereClaim:       true,
		RequiereProveedor:   true,
		NotificaSolicitante: true,
		NotificaAlmacen:     true,
	},
	{model.EstadoSuficiencia, model.EstadoEnRevision}: {
		Roles:               rolesAutorizadores,
		LiberaClaim:         true,
		Retroceso:           true,
		NotificaSolicitante: true,
	},
	{model.EstadoAutorizada, model.EstadoSuficiencia}: {
		Roles:     rolesAutorizadores,
		Retroceso: true,
	},
	{model.EstadoAutorizada, model.EstadoMaterialEntregado}: {
		Roles:               rolesAlmacen,
		SoloEntregaFisica:   true,
		LiberaClaim:         true,
		NotificaSolicitante: true,
	},
	{model.EstadoAutorizada, model.EstadoFinalizada}: {
		Roles:               rolesAlmacen,
		RolesSinEntrega:     rolesAutorizadores,
		LiberaClaim:         true,
		NotificaSolicitante: true,
	},
	// Cierre de archivo: una entrega registrada se da por concluida sin
	// avisar al solicitante de nuevo.
	{model.EstadoMaterialEntregado, model.EstadoFinalizada}: {
		Roles:       rolesRevision,
		LiberaClaim: true,
	},
}

func contieneRol(roles []model.Rol, rol model.Rol) bool {
	for _, r := range roles {
		if r == rol {
			return true
		}
	}
	return false
}

// validarTransicion verifica que el actor pueda mover la requisición de su
// estado actual al destino. Devuelve la regla aplicada cuando procede.
func validarTransicion(req *model.Requisicion, actor Actor, destino model.Estado, notas string, entregaFisica bool) (reglaTransicion, error) {
	regla, ok := flujo[arista{req.Estado, destino}]
	if !ok {
		return regla, apierror.New(apierror.ErrValidacion,
			fmt.Sprintf("transición no permitida: %s a %s", req.Estado, destino))
	}

	roles := regla.Roles
	if !entregaFisica && regla.RolesSinEntrega != nil {
		roles = regla.RolesSinEntrega
	}
	if !contieneRol(roles, actor.Rol) {
		return regla, apierror.New(apierror.ErrNoPermitido,
			fmt.Sprintf("el rol %s no puede mover una requisición de %s a %s", actor.Rol, req.Estado, destino))
	}

	if regla.SoloEntregaFisica && !entregaFisica {
		return regla, apierror.New(apierror.ErrValidacion,
			"la requisición no contempla entrega física de material")
	}

	if regla.RequiereClaim && !actor.EsAdmin() {
		revisor := req.RevisorActual()
		if revisor == nil {
			return regla, apierror.New(apierror.ErrNoPermitido,
				"la requisición debe reclamarse antes de avanzar")
		}
		if revisor.UID != actor.UID {
			return regla, apierror.New(apierror.ErrNoPermitido,
				fmt.Sprintf("la requisición está reclamada por %s", revisor.Nombre))
		}
	}

	if regla.RequiereMotivo && notas == "" && !tieneObservacionesLinea(req) {
		return regla, apierror.New(apierror.ErrValidacion,
			"se requiere un motivo: notas de revisión u observaciones en alguna línea")
	}

	if regla.RequiereProveedor && (req.Proveedor == nil || *req.Proveedor == "") {
		return regla, apierror.New(apierror.ErrValidacion,
			"se requiere proveedor asignado para autorizar")
	}

	return regla, nil
}

func tieneObservacionesLinea(req *model.Requisicion) bool {
	for _, l := range req.Lineas {
		if l.ObservacionRevision != "" {
			return true
		}
	}
	return false
}
