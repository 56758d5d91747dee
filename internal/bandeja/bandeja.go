// Package bandeja mantiene la bandeja de requisiciones que ve cada usuario:
// una vista fusionada de varios canales de consulta, inicializada desde la
// base y alimentada en vivo por los eventos de documento.
package bandeja

import (
	"context"
	"sort"
	"sync"

	"oficialia/internal/model"
	"oficialia/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// terminalesCap acota el canal de requisiciones cerradas; el histórico
// completo vive en la base y se consulta por folio.
const terminalesCap = 100

// Evento es una mutación de documento. Baja marca una eliminación: el
// documento ya no existe y debe salir de todos los canales.
type Evento struct {
	Baja        bool              `json:"baja,omitempty"`
	Requisicion model.Requisicion `json:"requisicion"`
}

// Fuente entrega el flujo de eventos de documento. La implementación de
// producción se apoya en redis pub/sub.
type Fuente interface {
	// Suscribir abre un canal de eventos y devuelve la función para cerrarlo.
	Suscribir(ctx context.Context) (<-chan Evento, func(), error)
}

// filtroCanal decide la membresía de un documento en un canal de la bandeja.
type filtroCanal struct {
	nombre string
	admite func(r *model.Requisicion) bool
	// tope acota el canal al tomar el snapshot; cero significa sin tope.
	tope int
}

func filtrosPara(uid string, rol model.Rol) []filtroCanal {
	if rol == model.RolSolicitud {
		// El solicitante ve todos sus documentos, en cualquier estado.
		return []filtroCanal{{
			nombre: "propias",
			admite: func(r *model.Requisicion) bool { return r.CreadoPorID == uid },
		}}
	}
	return []filtroCanal{
		{
			nombre: "activas",
			admite: func(r *model.Requisicion) bool { return r.Estado.EsActivo() },
		},
		{
			nombre: "terminales",
			admite: func(r *model.Requisicion) bool { return r.Estado.EsTerminal() },
			tope:   terminalesCap,
		},
		{
			nombre: "borradores",
			admite: func(r *model.Requisicion) bool {
				return r.Estado == model.EstadoBorrador && r.CreadoPorID == uid
			},
		},
	}
}

type canal struct {
	filtroCanal
	docs map[uuid.UUID]model.Requisicion
}

// Sincronizador es la bandeja viva de una sesión. Cada conexión de streaming
// abre el suyo y lo cierra al desconectar.
type Sincronizador struct {
	mu      sync.RWMutex
	canales []*canal

	repo     repository.RequisicionRepository
	cancelar context.CancelFunc
	cierre   sync.Once
	hecho    chan struct{}
	// Cambios despierta al consumidor cuando la vista fusionada cambió.
	Cambios chan struct{}
}

// NewSincronizador ceba la bandeja desde la base y queda suscrito a los
// eventos de documento hasta Close.
func NewSincronizador(ctx context.Context, repo repository.RequisicionRepository, fuente Fuente, uid string, rol model.Rol) (*Sincronizador, error) {
	s := &Sincronizador{
		repo:    repo,
		hecho:   make(chan struct{}),
		Cambios: make(chan struct{}, 1),
	}
	for _, f := range filtrosPara(uid, rol) {
		s.canales = append(s.canales, &canal{
			filtroCanal: f,
			docs:        make(map[uuid.UUID]model.Requisicion),
		})
	}
	if err := s.cebar(ctx, uid, rol); err != nil {
		return nil, err
	}

	subCtx, cancelar := context.WithCancel(context.Background())
	eventos, cerrar, err := fuente.Suscribir(subCtx)
	if err != nil {
		cancelar()
		return nil, err
	}
	s.cancelar = cancelar

	go func() {
		defer close(s.hecho)
		defer cerrar()
		for ev := range eventos {
			s.aplicar(ev)
		}
	}()
	return s, nil
}

// cebar carga el estado inicial de cada canal con su consulta dedicada.
func (s *Sincronizador) cebar(ctx context.Context, uid string, rol model.Rol) error {
	var consultas [][]model.Requisicion
	if rol == model.RolSolicitud {
		propias, err := s.repo.ListDe(ctx, uid)
		if err != nil {
			return err
		}
		consultas = [][]model.Requisicion{propias}
	} else {
		activas, err := s.repo.ListActivas(ctx)
		if err != nil {
			return err
		}
		terminales, err := s.repo.ListTerminalesRecientes(ctx, terminalesCap)
		if err != nil {
			return err
		}
		borradores, err := s.repo.ListBorradoresDe(ctx, uid)
		if err != nil {
			return err
		}
		consultas = [][]model.Requisicion{activas, terminales, borradores}
	}
	for i, docs := range consultas {
		for _, r := range docs {
			s.canales[i].docs[r.ID] = r
		}
	}
	return nil
}

// aplicar reevalúa la membresía del documento en cada canal. Un documento que
// deja de cumplir el filtro sale del canal; el que lo cumple se reemplaza por
// la versión recibida. Una baja lo retira de todos los canales.
func (s *Sincronizador) aplicar(ev Evento) {
	r := ev.Requisicion
	s.mu.Lock()
	for _, c := range s.canales {
		if !ev.Baja && c.admite(&r) {
			c.docs[r.ID] = r
		} else {
			delete(c.docs, r.ID)
		}
	}
	s.mu.Unlock()

	select {
	case s.Cambios <- struct{}{}:
	default:
	}
}

// Snapshot devuelve la vista fusionada: unión de canales, un documento por
// id quedándose con la versión más fresca, ordenada por fecha de creación
// descendente.
func (s *Sincronizador) Snapshot() []model.Requisicion {
	s.mu.RLock()
	defer s.mu.RUnlock()

	union := make(map[uuid.UUID]model.Requisicion)
	for _, c := range s.canales {
		docs := c.ordenados()
		if c.tope > 0 && len(docs) > c.tope {
			docs = docs[:c.tope]
		}
		for _, r := range docs {
			if previa, ok := union[r.ID]; !ok || r.UpdatedAt.After(previa.UpdatedAt) {
				union[r.ID] = r
			}
		}
	}

	out := make([]model.Requisicion, 0, len(union))
	for _, r := range union {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (c *canal) ordenados() []model.Requisicion {
	docs := make([]model.Requisicion, 0, len(c.docs))
	for _, r := range c.docs {
		docs = append(docs, r)
	}
	sort.Slice(docs, func(i, j int) bool {
		return docs[i].CreatedAt.After(docs[j].CreatedAt)
	})
	return docs
}

// GetByID resuelve primero contra la bandeja; si el documento no está en
// ningún canal (por tope o por filtro) cae a la base.
func (s *Sincronizador) GetByID(ctx context.Context, id uuid.UUID) (*model.Requisicion, error) {
	s.mu.RLock()
	for _, c := range s.canales {
		if r, ok := c.docs[id]; ok {
			s.mu.RUnlock()
			return &r, nil
		}
	}
	s.mu.RUnlock()
	return s.repo.FindByID(ctx, id)
}

// Close cancela la suscripción y espera a que el bucle de eventos termine.
// Es seguro llamarlo más de una vez.
func (s *Sincronizador) Close() {
	s.cierre.Do(func() {
		s.cancelar()
		<-s.hecho
		log.Debug().Msg("bandeja cerrada")
	})
}

// Listar es la versión de una sola consulta de la bandeja, para clientes que
// no mantienen streaming abierto. Misma fusión y orden que Snapshot.
func Listar(ctx context.Context, repo repository.RequisicionRepository, uid string, rol model.Rol) ([]model.Requisicion, error) {
	var consultas [][]model.Requisicion
	if rol == model.RolSolicitud {
		propias, err := repo.ListDe(ctx, uid)
		if err != nil {
			return nil, err
		}
		consultas = append(consultas, propias)
	} else {
		activas, err := repo.ListActivas(ctx)
		if err != nil {
			return nil, err
		}
		terminales, err := repo.ListTerminalesRecientes(ctx, terminalesCap)
		if err != nil {
			return nil, err
		}
		borradores, err := repo.ListBorradoresDe(ctx, uid)
		if err != nil {
			return nil, err
		}
		consultas = append(consultas, activas, terminales, borradores)
	}

	union := make(map[uuid.UUID]model.Requisicion)
	for _, docs := range consultas {
		for _, r := range docs {
			if previa, ok := union[r.ID]; !ok || r.UpdatedAt.After(previa.UpdatedAt) {
				union[r.ID] = r
			}
		}
	}
	out := make([]model.Requisicion, 0, len(union))
	for _, r := range union {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}
