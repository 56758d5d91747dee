package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"oficialia/internal/apierror"
	"oficialia/internal/catalogo"
	"oficialia/internal/dto"
	"oficialia/internal/model"
	"oficialia/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
)

// Despachador encola trabajo asíncrono (notificaciones, limpieza de
// archivos). Las implementaciones son fire-and-forget: un encolado fallido se
// registra y no interrumpe la operación que lo originó.
type Despachador interface {
	EncolarNotificacion(ctx context.Context, n model.Notificacion)
	EncolarLimpieza(ctx context.Context, storagePath string)
}

// Publicador difunde mutaciones de documento a las bandejas vivas.
type Publicador interface {
	PublicarRequisicion(ctx context.Context, r *model.Requisicion)
	// PublicarBaja anuncia una eliminación; sin ella las bandejas abiertas
	// retendrían el documento porque ya no emite actualizaciones.
	PublicarBaja(ctx context.Context, r *model.Requisicion)
}

type RequisicionService interface {
	Crear(ctx context.Context, actor Actor, req dto.CrearRequisicionRequest) (*model.Requisicion, error)
	ActualizarBorrador(ctx context.Context, actor Actor, id uuid.UUID, req dto.ActualizarRequisicionRequest) (*model.Requisicion, error)
	EliminarBorrador(ctx context.Context, actor Actor, id uuid.UUID) error
	Obtener(ctx context.Context, actor Actor, id uuid.UUID) (*model.Requisicion, error)
	// Enviar somete un borrador al circuito de revisión: valida la ventana de
	// envío, asigna folio si aún no tiene y lo coloca en en_revision.
	Enviar(ctx context.Context, actor Actor, id uuid.UUID) (*model.Requisicion, error)
	// Reclamar toma la revisión exclusiva de una requisición en_revision.
	Reclamar(ctx context.Context, actor Actor, id uuid.UUID) (*model.Requisicion, error)
	Transicion(ctx context.Context, actor Actor, id uuid.UUID, req dto.TransicionRequest) (*model.Requisicion, error)
	ActualizarLineas(ctx context.Context, actor Actor, id uuid.UUID, req dto.ActualizarLineasRequest) (*model.Requisicion, error)
	AgregarAdjunto(ctx context.Context, actor Actor, id uuid.UUID, adj model.ArchivoAdjunto) (*model.Requisicion, error)
	EliminarAdjunto(ctx context.Context, actor Actor, id uuid.UUID, storagePath string) (*model.Requisicion, error)
	// EntregaFisica decide si la requisición pasa por almacén.
	EntregaFisica(r *model.Requisicion) bool
}

type requisicionService struct {
	repo       repository.RequisicionRepository
	configRepo repository.ConfiguracionRepository
	despacho   Despachador
	publicador Publicador
	ahora      func() time.Time
}

func NewRequisicionService(
	repo repository.RequisicionRepository,
	configRepo repository.ConfiguracionRepository,
	despacho Despachador,
	publicador Publicador,
) RequisicionService {
	return &requisicionService{
		repo:       repo,
		configRepo: configRepo,
		despacho:   despacho,
		publicador: publicador,
		ahora:      time.Now,
	}
}

func (s *requisicionService) EntregaFisica(r *model.Requisicion) bool {
	if r.TotalmenteRechazada() {
		return false
	}
	return catalogo.RequiereEntregaFisica(r.TipoMaterial, r.SubTipoMaterial)
}

// ── Creación y borradores ────────────────────────────────────────────────────

func lineasDesdeRequest(in []dto.LineaRequest) datatypes.JSONSlice[model.Linea] {
	lineas := make([]model.Linea, 0, len(in))
	for _, l := range in {
		id := l.ID
		if id == "" {
			id = uuid.NewString()
		}
		lineas = append(lineas, model.Linea{
			ID:          id,
			Cantidad:    l.Cantidad,
			Unidad:      l.Unidad,
			Concepto:    l.Concepto,
			Descripcion: l.Descripcion,
		})
	}
	return datatypes.NewJSONSlice(lineas)
}

func (s *requisicionService) Crear(ctx context.Context, actor Actor, req dto.CrearRequisicionRequest) (*model.Requisicion, error) {
	r := &model.Requisicion{
		ID:     uuid.New(),
		Estado: model.EstadoBorrador,
		CreadoPor: datatypes.NewJSONType(model.Solicitante{
			UID: actor.UID, Email: actor.Email, Nombre: actor.Nombre,
		}),
		CreadoPorID:         actor.UID,
		FechaSolicitud:      req.FechaSolicitud,
		OrganoRequirente:    req.OrganoRequirente,
		Area:                req.Area,
		TipoMaterial:        req.TipoMaterial,
		SubTipoMaterial:     req.SubTipoMaterial,
		Justificacion:       req.Justificacion,
		TitularNombre:       req.TitularNombre,
		ResponsableNombre:   req.ResponsableNombre,
		ResponsableTelefono: req.ResponsableTelefono,
		DireccionEntrega:    req.DireccionEntrega,
		Lineas:              lineasDesdeRequest(req.Lineas),
	}

	if !req.Enviar {
		if err := s.repo.Crear(ctx, r); err != nil {
			return nil, fmt.Errorf("crear borrador: %w", err)
		}
		s.publicador.PublicarRequisicion(ctx, r)
		return r, nil
	}

	if err := s.validarVentana(ctx, actor, false); err != nil {
		return nil, err
	}
	r.Estado = model.EstadoEnRevision
	s.registrar(r, actor, "enviada", "")
	if err := s.repo.CrearConFolio(ctx, r); err != nil {
		return nil, fmt.Errorf("crear y enviar requisición: %w", err)
	}
	s.notificarRevision(ctx, r)
	s.publicador.PublicarRequisicion(ctx, r)
	return r, nil
}

func (s *requisicionService) ActualizarBorrador(ctx context.Context, actor Actor, id uuid.UUID, req dto.ActualizarRequisicionRequest) (*model.Requisicion, error) {
	r, err := s.borradorPropio(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	r.FechaSolicitud = req.FechaSolicitud
	r.OrganoRequirente = req.OrganoRequirente
	r.Area = req.Area
	r.TipoMaterial = req.TipoMaterial
	r.SubTipoMaterial = req.SubTipoMaterial
	r.Justificacion = req.Justificacion
	r.TitularNombre = req.TitularNombre
	r.ResponsableNombre = req.ResponsableNombre
	r.ResponsableTelefono = req.ResponsableTelefono
	r.DireccionEntrega = req.DireccionEntrega
	r.Lineas = lineasDesdeRequest(req.Lineas)

	if err := s.repo.ActualizarCond(ctx, r, model.EstadoBorrador); err != nil {
		return nil, err
	}
	s.publicador.PublicarRequisicion(ctx, r)
	return r, nil
}

func (s *requisicionService) EliminarBorrador(ctx context.Context, actor Actor, id uuid.UUID) error {
	r, err := s.borradorPropio(ctx, actor, id)
	if err != nil {
		return err
	}
	for _, adj := range r.Adjuntos {
		s.despacho.EncolarLimpieza(ctx, adj.StoragePath)
	}
	if err := s.repo.Eliminar(ctx, id); err != nil {
		return fmt.Errorf("eliminar borrador: %w", err)
	}
	s.publicador.PublicarBaja(ctx, r)
	return nil
}

// borradorPropio carga la requisición y verifica que sea un borrador del
// actor (o que el actor sea admin).
func (s *requisicionService) borradorPropio(ctx context.Context, actor Actor, id uuid.UUID) (*model.Requisicion, error) {
	r, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r.Estado != model.EstadoBorrador {
		return nil, apierror.New(apierror.ErrValidacion, "solo los borradores pueden modificarse o eliminarse")
	}
	if r.CreadoPorID != actor.UID && !actor.EsAdmin() {
		return nil, apierror.New(apierror.ErrNoPermitido, "el borrador pertenece a otro usuario")
	}
	return r, nil
}

func (s *requisicionService) Obtener(ctx context.Context, actor Actor, id uuid.UUID) (*model.Requisicion, error) {
	r, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Rol == model.RolSolicitud && r.CreadoPorID != actor.UID {
		return nil, apierror.New(apierror.ErrNoPermitido, "la requisición pertenece a otro usuario")
	}
	return r, nil
}

// ── Envío ────────────────────────────────────────────────────────────────────

func (s *requisicionService) Enviar(ctx context.Context, actor Actor, id uuid.UUID) (*model.Requisicion, error) {
	r, err := s.borradorPropio(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if len(r.Lineas) == 0 {
		return nil, apierror.New(apierror.ErrValidacion, "la requisición no tiene líneas")
	}

	// Un borrador con folio ya pasó por revisión: es una corrección y no se
	// somete a la ventana de envío.
	esCorreccion := r.Folio != ""
	if err := s.validarVentana(ctx, actor, esCorreccion); err != nil {
		return nil, err
	}

	r.Estado = model.EstadoEnRevision
	r.Revisor = nil
	// Las notas de revisión pertenecen al ciclo anterior; el nuevo ciclo
	// arranca limpio.
	r.RevisionNotas = ""
	if esCorreccion {
		s.registrar(r, actor, "reenviada", "")
	} else {
		s.registrar(r, actor, "enviada", "")
	}

	if err := s.repo.EnviarConFolio(ctx, r, model.EstadoBorrador); err != nil {
		return nil, err
	}
	s.notificarRevision(ctx, r)
	s.publicador.PublicarRequisicion(ctx, r)
	return r, nil
}

func (s *requisicionService) validarVentana(ctx context.Context, actor Actor, esCorreccion bool) error {
	cfg, err := s.configRepo.Get(ctx)
	if err != nil {
		return fmt.Errorf("leer configuración de envío: %w", err)
	}
	return validarVentanaEnvio(cfg, actor, esCorreccion, s.ahora())
}

// ── Claim ────────────────────────────────────────────────────────────────────

var rolesReclamo = []model.Rol{model.RolRevision, model.RolAutorizacion, model.RolAdmin}

func (s *requisicionService) Reclamar(ctx context.Context, actor Actor, id uuid.UUID) (*model.Requisicion, error) {
	if !contieneRol(rolesReclamo, actor.Rol) {
		return nil, apierror.New(apierror.ErrNoPermitido, "el rol no participa en la revisión")
	}
	revisor := model.DatosRevisor{
		UID: actor.UID, Nombre: actor.Nombre, Email: actor.Email, FechaInicio: s.ahora(),
	}
	if err := s.repo.Reclamar(ctx, id, revisor); err != nil {
		if errors.Is(err, apierror.ErrNoPermitido) {
			return nil, apierror.New(apierror.ErrNoPermitido,
				"la requisición ya está reclamada o no está en revisión")
		}
		return nil, err
	}
	r, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.publicador.PublicarRequisicion(ctx, r)
	return r, nil
}

// ── Transiciones ─────────────────────────────────────────────────────────────

func (s *requisicionService) Transicion(ctx context.Context, actor Actor, id uuid.UUID, req dto.TransicionRequest) (*model.Requisicion, error) {
	r, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	desde := r.Estado

	if req.Proveedor != nil {
		if desde != model.EstadoSuficiencia || req.Destino != model.EstadoAutorizada {
			return nil, apierror.New(apierror.ErrValidacion,
				"el proveedor solo se asigna al autorizar")
		}
		if r.Proveedor != nil && *r.Proveedor != "" && *r.Proveedor != *req.Proveedor {
			return nil, apierror.New(apierror.ErrValidacion,
				"el proveedor ya fue asignado y no se sustituye")
		}
		r.Proveedor = req.Proveedor
	}
	if req.MontoEstimado != nil {
		r.MontoEstimado = req.MontoEstimado
	}

	entregaFisica := s.EntregaFisica(r)
	regla, err := validarTransicion(r, actor, req.Destino, req.Notas, entregaFisica)
	if err != nil {
		return nil, err
	}

	r.Estado = req.Destino
	if req.Notas != "" {
		r.RevisionNotas = req.Notas
	}
	if regla.LiberaClaim {
		r.Revisor = nil
	}
	s.registrar(r, actor, fmt.Sprintf("cambio de estado: %s a %s", desde, req.Destino), req.Notas)

	if err := s.repo.ActualizarCond(ctx, r, desde); err != nil {
		return nil, err
	}

	if regla.NotificaSolicitante {
		s.notificarSolicitante(ctx, r, desde)
	}
	if regla.NotificaAlmacen && entregaFisica {
		s.notificarRol(ctx, r, model.RolAlmacen,
			fmt.Sprintf("La requisición %s fue autorizada y requiere entrega de material", r.Folio))
	}
	s.publicador.PublicarRequisicion(ctx, r)
	return r, nil
}

// ── Revisión por línea ───────────────────────────────────────────────────────

// estadosRevisables admite ajustes de línea mientras el documento sigue en el
// circuito de revisión.
var estadosRevisables = []model.Estado{
	model.EstadoEnRevision, model.EstadoCotizacion, model.EstadoSuficiencia,
}

func (s *requisicionService) ActualizarLineas(ctx context.Context, actor Actor, id uuid.UUID, req dto.ActualizarLineasRequest) (*model.Requisicion, error) {
	r, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !contieneRol(rolesReclamo, actor.Rol) {
		return nil, apierror.New(apierror.ErrNoPermitido, "el rol no participa en la revisión")
	}
	enRevision := false
	for _, e := range estadosRevisables {
		if r.Estado == e {
			enRevision = true
			break
		}
	}
	if !enRevision {
		return nil, apierror.New(apierror.ErrValidacion, "las líneas solo se ajustan durante la revisión")
	}
	if !actor.EsAdmin() {
		revisor := r.RevisorActual()
		if revisor == nil || revisor.UID != actor.UID {
			return nil, apierror.New(apierror.ErrNoPermitido, "la revisión está reclamada por otro revisor")
		}
	}

	desde := r.Estado
	porID := make(map[string]dto.LineaRevisionRequest, len(req.Lineas))
	for _, l := range req.Lineas {
		porID[l.ID] = l
	}

	ajustadas := 0
	lineas := []model.Linea(r.Lineas)
	for i := range lineas {
		ajuste, ok := porID[lineas[i].ID]
		if !ok {
			continue
		}
		if ajuste.CantidadAutorizada != nil {
			lineas[i].CantidadAutorizada = ajuste.CantidadAutorizada
		}
		if ajuste.UnidadAutorizada != nil {
			lineas[i].UnidadAutorizada = ajuste.UnidadAutorizada
		}
		if ajuste.ObservacionRevision != "" {
			lineas[i].ObservacionRevision = ajuste.ObservacionRevision
		}
		ajustadas++
	}
	if ajustadas != len(req.Lineas) {
		return nil, apierror.New(apierror.ErrValidacion, "alguna línea no pertenece a la requisición")
	}
	r.Lineas = datatypes.NewJSONSlice(lineas)
	s.registrar(r, actor, "ajuste_lineas", "")

	if err := s.repo.ActualizarCond(ctx, r, desde); err != nil {
		return nil, err
	}

	s.despacho.EncolarNotificacion(ctx, model.Notificacion{
		RequisicionID: r.ID,
		Folio:         r.Folio,
		Tipo:          model.NotifLinea,
		Mensaje:       fmt.Sprintf("Se ajustaron líneas de la requisición %s", r.Folio),
		TargetUID:     &r.CreadoPorID,
	})
	s.publicador.PublicarRequisicion(ctx, r)
	return r, nil
}

// ── Adjuntos ─────────────────────────────────────────────────────────────────

func (s *requisicionService) AgregarAdjunto(ctx context.Context, actor Actor, id uuid.UUID, adj model.ArchivoAdjunto) (*model.Requisicion, error) {
	r, err := s.Obtener(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if r.Estado.EsTerminal() {
		return nil, apierror.New(apierror.ErrValidacion, "la requisición ya está cerrada")
	}
	desde := r.Estado
	r.Adjuntos = append(r.Adjuntos, adj)
	s.registrar(r, actor, "adjunto_agregado", adj.Nombre)
	if err := s.repo.ActualizarCond(ctx, r, desde); err != nil {
		return nil, err
	}
	s.publicador.PublicarRequisicion(ctx, r)
	return r, nil
}

func (s *requisicionService) EliminarAdjunto(ctx context.Context, actor Actor, id uuid.UUID, storagePath string) (*model.Requisicion, error) {
	r, err := s.Obtener(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	desde := r.Estado
	adjuntos := []model.ArchivoAdjunto(r.Adjuntos)
	idx := -1
	for i, a := range adjuntos {
		if a.StoragePath == storagePath {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, apierror.ErrNoEncontrado
	}
	nombre := adjuntos[idx].Nombre
	r.Adjuntos = datatypes.NewJSONSlice(append(adjuntos[:idx], adjuntos[idx+1:]...))
	s.registrar(r, actor, "adjunto_eliminado", nombre)
	if err := s.repo.ActualizarCond(ctx, r, desde); err != nil {
		return nil, err
	}
	s.despacho.EncolarLimpieza(ctx, storagePath)
	s.publicador.PublicarRequisicion(ctx, r)
	return r, nil
}

// ── Historial y notificaciones ───────────────────────────────────────────────

// registrar agrega un evento al historial append-only del documento.
func (s *requisicionService) registrar(r *model.Requisicion, actor Actor, accion, comentario string) {
	r.HistorialObservaciones = append(r.HistorialObservaciones, model.EventoHistorial{
		Fecha:      s.ahora(),
		Autor:      actor.Nombre,
		Accion:     accion,
		Comentario: comentario,
	})
}

func (s *requisicionService) notificarSolicitante(ctx context.Context, r *model.Requisicion, desde model.Estado) {
	mensaje := fmt.Sprintf("Tu requisición %s cambió de %s a %s", r.Folio, desde, r.Estado)
	if r.Estado == model.EstadoRechazada {
		mensaje = fmt.Sprintf("Tu requisición %s fue rechazada", r.Folio)
	}
	s.despacho.EncolarNotificacion(ctx, model.Notificacion{
		RequisicionID: r.ID,
		Folio:         r.Folio,
		Tipo:          model.NotifEstado,
		Mensaje:       mensaje,
		TargetUID:     &r.CreadoPorID,
	})
}

func (s *requisicionService) notificarRol(ctx context.Context, r *model.Requisicion, rol model.Rol, mensaje string) {
	s.despacho.EncolarNotificacion(ctx, model.Notificacion{
		RequisicionID: r.ID,
		Folio:         r.Folio,
		Tipo:          model.NotifEstado,
		Mensaje:       mensaje,
		TargetRol:     &rol,
	})
}

func (s *requisicionService) notificarRevision(ctx context.Context, r *model.Requisicion) {
	s.notificarRol(ctx, r, model.RolRevision,
		fmt.Sprintf("Nueva requisición %s pendiente de revisión", r.Folio))
	log.Debug().Str("folio", r.Folio).Msg("requisición enviada a revisión")
}
