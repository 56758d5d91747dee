package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"oficialia/internal/apierror"
	"oficialia/internal/model"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// repoMem es el repositorio en memoria de los tests: respeta los mismos
// contratos condicionales que la implementación de postgres.
type repoMem struct {
	mu     sync.Mutex
	docs   map[uuid.UUID]model.Requisicion
	folios map[int]int
}

func newRepoMem() *repoMem {
	return &repoMem{
		docs:   make(map[uuid.UUID]model.Requisicion),
		folios: make(map[int]int),
	}
}

func (m *repoMem) DB() *gorm.DB { return nil }

func (m *repoMem) Crear(_ context.Context, r *model.Requisicion) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	r.CreatedAt = time.Now()
	r.UpdatedAt = r.CreatedAt
	m.docs[r.ID] = *r
	return nil
}

func (m *repoMem) CrearConFolio(_ context.Context, r *model.Requisicion) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	anio := time.Now().Year()
	m.folios[anio]++
	r.Folio = fmt.Sprintf("REQ-%d-%05d", anio, m.folios[anio])
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	r.CreatedAt = time.Now()
	r.UpdatedAt = r.CreatedAt
	m.docs[r.ID] = *r
	return nil
}

func (m *repoMem) EnviarConFolio(_ context.Context, r *model.Requisicion, desde model.Estado) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	actual, ok := m.docs[r.ID]
	if !ok || actual.Estado != desde {
		return apierror.ErrEstadoObsoleto
	}
	if r.Folio == "" {
		anio := time.Now().Year()
		m.folios[anio]++
		r.Folio = fmt.Sprintf("REQ-%d-%05d", anio, m.folios[anio])
	}
	r.UpdatedAt = time.Now()
	m.docs[r.ID] = *r
	return nil
}

func (m *repoMem) FindByID(_ context.Context, id uuid.UUID) (*model.Requisicion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.docs[id]
	if !ok {
		return nil, apierror.ErrNoEncontrado
	}
	copia := r
	return &copia, nil
}

func (m *repoMem) Actualizar(_ context.Context, r *model.Requisicion) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r.UpdatedAt = time.Now()
	m.docs[r.ID] = *r
	return nil
}

func (m *repoMem) ActualizarCond(_ context.Context, r *model.Requisicion, desde model.Estado) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	actual, ok := m.docs[r.ID]
	if !ok || actual.Estado != desde {
		return apierror.ErrEstadoObsoleto
	}
	r.UpdatedAt = time.Now()
	m.docs[r.ID] = *r
	return nil
}

func (m *repoMem) Reclamar(_ context.Context, id uuid.UUID, revisor model.DatosRevisor) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.docs[id]
	if !ok || r.Estado != model.EstadoEnRevision || r.RevisorActual() != nil {
		return apierror.ErrNoPermitido
	}
	claim := datatypes.NewJSONType(revisor)
	r.Revisor = &claim
	r.UpdatedAt = time.Now()
	m.docs[id] = r
	return nil
}

func (m *repoMem) Eliminar(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.docs, id)
	return nil
}

func (m *repoMem) filtrar(pred func(*model.Requisicion) bool) []model.Requisicion {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Requisicion
	for _, r := range m.docs {
		if pred(&r) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (m *repoMem) ListActivas(context.Context) ([]model.Requisicion, error) {
	return m.filtrar(func(r *model.Requisicion) bool { return r.Estado.EsActivo() }), nil
}

func (m *repoMem) ListTerminalesRecientes(_ context.Context, limit int) ([]model.Requisicion, error) {
	out := m.filtrar(func(r *model.Requisicion) bool { return r.Estado.EsTerminal() })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *repoMem) ListBorradoresDe(_ context.Context, uid string) ([]model.Requisicion, error) {
	return m.filtrar(func(r *model.Requisicion) bool {
		return r.Estado == model.EstadoBorrador && r.CreadoPorID == uid
	}), nil
}

func (m *repoMem) ListDe(_ context.Context, uid string) ([]model.Requisicion, error) {
	return m.filtrar(func(r *model.Requisicion) bool { return r.CreadoPorID == uid }), nil
}

func (m *repoMem) ListTodas(context.Context) ([]model.Requisicion, error) {
	return m.filtrar(func(*model.Requisicion) bool { return true }), nil
}

func (m *repoMem) ListEntre(_ context.Context, desde, hasta time.Time) ([]model.Requisicion, error) {
	return m.filtrar(func(r *model.Requisicion) bool {
		return !r.CreatedAt.Before(desde) && r.CreatedAt.Before(hasta)
	}), nil
}

// configMem entrega siempre la misma configuración de ventana.
type configMem struct {
	cfg model.ConfiguracionEnvio
}

func (m *configMem) Get(context.Context) (*model.ConfiguracionEnvio, error) {
	copia := m.cfg
	return &copia, nil
}

func (m *configMem) Guardar(_ context.Context, c *model.ConfiguracionEnvio) error {
	m.cfg = *c
	return nil
}

// despachoMem registra lo encolado para las aserciones.
type despachoMem struct {
	mu             sync.Mutex
	notificaciones []model.Notificacion
	limpiezas      []string
}

func (m *despachoMem) EncolarNotificacion(_ context.Context, n model.Notificacion) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notificaciones = append(m.notificaciones, n)
}

func (m *despachoMem) EncolarLimpieza(_ context.Context, path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.limpiezas = append(m.limpiezas, path)
}

// publicadorMem cuenta los eventos difundidos.
type publicadorMem struct {
	mu      sync.Mutex
	eventos []model.Requisicion
	bajas   []model.Requisicion
}

func (m *publicadorMem) PublicarRequisicion(_ context.Context, r *model.Requisicion) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.eventos = append(m.eventos, *r)
}

func (m *publicadorMem) PublicarBaja(_ context.Context, r *model.Requisicion) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bajas = append(m.bajas, *r)
}

// armarServicio construye el servicio con todos los dobles en memoria.
func armarServicio() (*requisicionService, *repoMem, *configMem, *despachoMem, *publicadorMem) {
	repo := newRepoMem()
	cfg := &configMem{cfg: model.ConfiguracionEnvio{ID: model.ConfiguracionEnvioID, ExcepcionGlobal: true}}
	despacho := &despachoMem{}
	pub := &publicadorMem{}
	svc := NewRequisicionService(repo, cfg, despacho, pub).(*requisicionService)
	return svc, repo, cfg, despacho, pub
}
